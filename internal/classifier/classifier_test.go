package classifier

import (
	"context"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/features"
)

// syntheticData makes FAKE rows load on columns [0,5) and REAL rows on [5,10),
// with a few shared noise columns.
func syntheticData(n int, seed uint64) ([]features.Vector, []domain.Label) {
	rng := rand.New(rand.NewPCG(seed, seed))
	const dim = 16
	rows := make([]features.Vector, 0, n)
	labels := make([]domain.Label, 0, n)
	for i := 0; i < n; i++ {
		label := domain.LabelFake
		base := 0
		if i%2 == 1 {
			label = domain.LabelReal
			base = 5
		}
		cols := []int{base + rng.IntN(5), 10 + rng.IntN(6)}
		if cols[0] > cols[1] {
			cols[0], cols[1] = cols[1], cols[0]
		}
		rows = append(rows, features.Vector{
			Dim:     dim,
			Indices: cols,
			Values:  []float64{0.5 + rng.Float64()/2, rng.Float64() / 4},
		})
		labels = append(labels, label)
	}
	return rows, labels
}

func testTreeConfig() TreeConfig {
	return TreeConfig{MaxDepth: 10, MinSamplesSplit: 2, MinSamplesLeaf: 1, MaxFeatures: MaxFeaturesAll}
}

func TestNewDatasetValidation(t *testing.T) {
	t.Parallel()

	_, err := NewDataset(nil, nil)
	require.ErrorIs(t, err, domain.ErrConfig)

	rows := []features.Vector{{Dim: 3}, {Dim: 3}}
	_, err = NewDataset(rows, []domain.Label{domain.LabelFake})
	require.ErrorIs(t, err, domain.ErrConfig)

	_, err = NewDataset(rows, []domain.Label{domain.LabelFake, "MAYBE"})
	require.ErrorIs(t, err, domain.ErrTraining)

	_, err = NewDataset([]features.Vector{{Dim: 3}, {Dim: 4}}, []domain.Label{domain.LabelFake, domain.LabelReal})
	require.ErrorIs(t, err, domain.ErrConfig)
}

func TestTreeLearnsSeparableData(t *testing.T) {
	t.Parallel()

	rows, labels := syntheticData(80, 1)
	ds, err := NewDataset(rows, labels)
	require.NoError(t, err)

	tree, err := FitTree(ds, testTreeConfig(), 7)
	require.NoError(t, err)
	require.NoError(t, tree.Validate(ds.Dim()))

	m := Evaluate(tree, rows, labels, rows, labels)
	assert.GreaterOrEqual(t, m.TrainAccuracy, 0.95)
}

func TestProbabilitiesSumToOne(t *testing.T) {
	t.Parallel()

	rows, labels := syntheticData(60, 2)
	ds, err := NewDataset(rows, labels)
	require.NoError(t, err)

	tree, err := FitTree(ds, DefaultTreeConfig(), 3)
	require.NoError(t, err)
	forest, err := FitForest(context.Background(), ds, ForestConfig{Trees: 15, Tree: testTreeConfig(), Bootstrap: true}, 3)
	require.NoError(t, err)

	probes := append([]features.Vector{features.Zero(ds.Dim())}, rows...)
	probes = append(probes, features.Vector{Dim: ds.Dim(), Indices: []int{0, 15}, Values: []float64{9, 9}})
	for _, model := range []Model{tree, forest} {
		for _, v := range probes {
			p := model.Predict(v)
			assert.InDelta(t, 1.0, p.ProbFake+p.ProbReal, 1e-6)
			assert.True(t, p.Label.Valid())
			assert.Equal(t, math.Max(p.ProbFake, p.ProbReal), p.Confidence())
		}
	}
}

func TestForestDeterministicForSeed(t *testing.T) {
	t.Parallel()

	rows, labels := syntheticData(70, 3)
	ds, err := NewDataset(rows, labels)
	require.NoError(t, err)

	cfg := ForestConfig{Trees: 12, Tree: DefaultForestConfig().Tree, Bootstrap: true, Workers: 4}
	cfg.Tree.MinSamplesSplit = 2
	cfg.Tree.MinSamplesLeaf = 1

	a, err := FitForest(context.Background(), ds, cfg, 42)
	require.NoError(t, err)
	cfg.Workers = 1
	b, err := FitForest(context.Background(), ds, cfg, 42)
	require.NoError(t, err)

	require.Equal(t, len(a.Trees), len(b.Trees))
	for i := range a.Trees {
		assert.Equal(t, a.Trees[i].Nodes, b.Trees[i].Nodes, "tree %d", i)
	}

	c, err := FitForest(context.Background(), ds, cfg, 43)
	require.NoError(t, err)
	assert.NotEqual(t, a.Trees[0].Seed, c.Trees[0].Seed)
}

func TestForestHonorsCancellation(t *testing.T) {
	t.Parallel()

	rows, labels := syntheticData(40, 4)
	ds, err := NewDataset(rows, labels)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = FitForest(ctx, ds, ForestConfig{Trees: 5, Tree: testTreeConfig()}, 1)
	require.ErrorIs(t, err, context.Canceled)
}

func TestImportancesAndContributions(t *testing.T) {
	t.Parallel()

	rows, labels := syntheticData(80, 5)
	ds, err := NewDataset(rows, labels)
	require.NoError(t, err)

	forest, err := FitForest(context.Background(), ds, ForestConfig{Trees: 10, Tree: testTreeConfig(), Bootstrap: true}, 9)
	require.NoError(t, err)

	imp := forest.Importances()
	require.Len(t, imp, ds.Dim())
	var sum, signal float64
	for i, v := range imp {
		sum += v
		if i < 10 {
			signal += v
		}
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.Greater(t, signal, 0.5)

	contrib := forest.Contributions(rows[0])
	assert.NotEmpty(t, contrib)
	for col, w := range contrib {
		assert.Less(t, col, ds.Dim())
		assert.Greater(t, w, 0.0)
	}
}

func TestValidateDetectsCorruption(t *testing.T) {
	t.Parallel()

	rows, labels := syntheticData(30, 6)
	ds, err := NewDataset(rows, labels)
	require.NoError(t, err)
	tree, err := FitTree(ds, testTreeConfig(), 1)
	require.NoError(t, err)

	assert.Error(t, tree.Validate(ds.Dim()+1))

	broken := &Tree{Dim: ds.Dim(), Nodes: []Node{{Feature: 0, Left: 5, Right: 6}}}
	assert.Error(t, broken.Validate(ds.Dim()))

	assert.Error(t, (&Forest{Dim: ds.Dim()}).Validate(ds.Dim()))
}

func TestEvaluateConfusionMatrix(t *testing.T) {
	t.Parallel()

	model := constantModel{label: domain.LabelFake}
	xs := []features.Vector{{Dim: 1}, {Dim: 1}, {Dim: 1}}
	ys := []domain.Label{domain.LabelFake, domain.LabelReal, domain.LabelFake}

	m := Evaluate(model, xs, ys, xs, ys)
	assert.Equal(t, [2][2]int{{2, 0}, {1, 0}}, m.ConfusionMatrix)
	assert.InDelta(t, 2.0/3.0, m.TestAccuracy, 1e-9)
	assert.InDelta(t, 2.0/3.0, m.Precision, 1e-9)
	assert.InDelta(t, 1.0, m.Recall, 1e-9)
	assert.InDelta(t, 0.8, m.F1Score, 1e-9)
	assert.Equal(t, [2]int{2, 1}, m.Support)
}

type constantModel struct {
	label domain.Label
}

func (c constantModel) Predict(features.Vector) Prediction {
	if c.label == domain.LabelReal {
		return Prediction{Label: c.label, ProbReal: 1}
	}
	return Prediction{Label: c.label, ProbFake: 1}
}

func (c constantModel) Importances() []float64 { return nil }
func (c constantModel) Contributions(features.Vector) map[int]float64 { return nil }
