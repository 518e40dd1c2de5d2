package artifacts

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FakeNewsDetector/internal/classifier"
	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/features"
	"FakeNewsDetector/internal/model"
)

func tinyModel(t *testing.T, version string) *model.Model {
	t.Helper()

	docs := []string{
		"alien cover secret", "secret alien hoax", "hoax cover alien",
		"senat vote budget", "budget senat committe", "committe vote senat",
	}
	labels := []domain.Label{
		domain.LabelFake, domain.LabelFake, domain.LabelFake,
		domain.LabelReal, domain.LabelReal, domain.LabelReal,
	}
	cfg := features.DefaultConfig()
	cfg.MaxDF = 1
	vec, err := features.Fit(docs, cfg)
	require.NoError(t, err)

	ds, err := classifier.NewDataset(vec.TransformAll(docs), labels)
	require.NoError(t, err)
	treeCfg := classifier.TreeConfig{MaxDepth: 5, MinSamplesSplit: 2, MinSamplesLeaf: 1, MaxFeatures: classifier.MaxFeaturesAll}
	tree, err := classifier.FitTree(ds, treeCfg, 1)
	require.NoError(t, err)
	forest, err := classifier.FitForest(context.Background(), ds, classifier.ForestConfig{Trees: 3, Tree: treeCfg, Bootstrap: true}, 1)
	require.NoError(t, err)

	return &model.Model{
		Version:      version,
		Seed:         1,
		TrainedAt:    time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Vectorizer:   vec,
		Tree:         tree,
		Forest:       forest,
		Metrics:      domain.ModelMetrics{domain.RandomForestName: {TestAccuracy: 1}},
		TrainSamples: 6,
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewFileStore(t.TempDir())
	want := tinyModel(t, "v1")
	require.NoError(t, store.Save(context.Background(), want))

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want.Version, got.Version)
	assert.Equal(t, want.Vectorizer.Terms, got.Vectorizer.Terms)
	assert.Equal(t, want.Forest.Trees[0].Nodes, got.Forest.Trees[0].Nodes)
	assert.Equal(t, want.Metrics, got.Metrics)
	assert.True(t, got.TrainedAt.Equal(want.TrainedAt))

	probe := want.Vectorizer.Transform("secret alien")
	assert.Equal(t, want.Forest.Predict(probe), got.Forest.Predict(got.Vectorizer.Transform("secret alien")))
}

func TestSaveReplacesPreviousBundle(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := NewFileStore(dir)
	require.NoError(t, store.Save(context.Background(), tinyModel(t, "v1")))
	require.NoError(t, store.Save(context.Background(), tinyModel(t, "v2")))

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Version)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestLoadMissingBundle(t *testing.T) {
	t.Parallel()

	_, err := NewFileStore(t.TempDir()).Load(context.Background())
	require.ErrorIs(t, err, domain.ErrArtifactNotFound)
}

func TestLoadCorruptBundle(t *testing.T) {
	t.Parallel()

	cases := map[string]func([]byte) []byte{
		"truncated": func(b []byte) []byte { return b[:len(b)/2] },
		"bad magic": func(b []byte) []byte { c := append([]byte{}, b...); c[0] = 'X'; return c },
		"flipped":   func(b []byte) []byte { c := append([]byte{}, b...); c[len(c)-1] ^= 0xff; return c },
		"empty":     func([]byte) []byte { return nil },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			store := NewFileStore(dir)
			require.NoError(t, store.Save(context.Background(), tinyModel(t, "v1")))

			path := filepath.Join(dir, DefaultFileName)
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			require.NoError(t, os.WriteFile(path, mutate(data), 0o644))

			_, err = store.Load(context.Background())
			require.ErrorIs(t, err, domain.ErrArtifactCorrupt)
		})
	}
}
