package classifier

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"

	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/features"
)

// ForestConfig configures the bootstrap ensemble.
type ForestConfig struct {
	Trees     int        `yaml:"trees"`
	Tree      TreeConfig `yaml:"tree"`
	Bootstrap bool       `yaml:"bootstrap"`
	// Workers bounds parallel tree fitting; <= 0 means GOMAXPROCS.
	Workers int `yaml:"workers"`
}

// DefaultForestConfig mirrors the production forest settings.
func DefaultForestConfig() ForestConfig {
	return ForestConfig{
		Trees: 100,
		Tree: TreeConfig{
			MaxDepth:        30,
			MinSamplesSplit: 8,
			MinSamplesLeaf:  3,
			MaxFeatures:     MaxFeaturesSqrt,
		},
		Bootstrap: true,
	}
}

// Forest averages the leaf distributions of its trees.
type Forest struct {
	Dim   int     `json:"dim"`
	Seed  int64   `json:"seed"`
	Trees []*Tree `json:"trees"`
}

var _ Model = (*Forest)(nil)

// FitForest grows cfg.Trees trees in parallel. Per-tree seeds are drawn from seed
// before any tree starts, so results do not depend on scheduling.
func FitForest(ctx context.Context, ds *Dataset, cfg ForestConfig, seed int64) (*Forest, error) {
	if cfg.Trees < 1 {
		return nil, fmt.Errorf("%w: forest needs at least one tree, got %d", domain.ErrConfig, cfg.Trees)
	}
	if err := cfg.Tree.Validate(); err != nil {
		return nil, err
	}

	master := rand.New(rand.NewPCG(uint64(seed), 0x2545f4914f6cdd1d))
	seeds := make([]int64, cfg.Trees)
	for i := range seeds {
		seeds[i] = master.Int64()
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	trees := make([]*Tree, cfg.Trees)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range trees {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			weights := bootstrapWeights(ds.Len(), seeds[i], cfg.Bootstrap)
			trees[i] = grow(ds, cfg.Tree, weights, seeds[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fit forest: %w", err)
	}

	return &Forest{Dim: ds.dim, Seed: seed, Trees: trees}, nil
}

func bootstrapWeights(n int, seed int64, bootstrap bool) []float64 {
	weights := make([]float64, n)
	if !bootstrap {
		for i := range weights {
			weights[i] = 1
		}
		return weights
	}
	rng := rand.New(rand.NewPCG(uint64(seed), 0xda942042e4dd58b5))
	for i := 0; i < n; i++ {
		weights[rng.IntN(n)]++
	}
	return weights
}

// Predict averages tree probabilities.
func (f *Forest) Predict(v features.Vector) Prediction {
	var dist [2]float64
	for _, t := range f.Trees {
		leaf := t.Nodes[t.leaf(v)].Value
		dist[0] += leaf[0]
		dist[1] += leaf[1]
	}
	n := float64(len(f.Trees))
	dist[0] /= n
	dist[1] /= n
	return newPrediction(dist)
}

// Contributions averages per-tree path gains.
func (f *Forest) Contributions(v features.Vector) map[int]float64 {
	out := make(map[int]float64)
	scale := 1 / float64(len(f.Trees))
	for _, t := range f.Trees {
		t.addPath(v, out, scale)
	}
	return out
}

// Importances averages the normalized importances of every tree.
func (f *Forest) Importances() []float64 {
	imp := make([]float64, f.Dim)
	for _, t := range f.Trees {
		for i, v := range t.Importances() {
			imp[i] += v
		}
	}
	normalize(imp)
	return imp
}

// Validate checks every tree against the vectorizer dimension.
func (f *Forest) Validate(dim int) error {
	if f == nil || len(f.Trees) == 0 {
		return fmt.Errorf("forest has no trees")
	}
	if f.Dim != dim {
		return fmt.Errorf("forest dimension %d does not match vectorizer dimension %d", f.Dim, dim)
	}
	for i, t := range f.Trees {
		if err := t.Validate(dim); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}
