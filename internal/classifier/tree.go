package classifier

import (
	"fmt"
	"math"
	"math/rand/v2"

	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/features"
)

// Max feature strategies.
const (
	MaxFeaturesSqrt = "sqrt"
	MaxFeaturesLog2 = "log2"
	MaxFeaturesAll  = "all"
)

// TreeConfig bounds tree growth. MaxDepth <= 0 means unbounded.
type TreeConfig struct {
	MaxDepth        int    `yaml:"maxDepth"`
	MinSamplesSplit int    `yaml:"minSamplesSplit"`
	MinSamplesLeaf  int    `yaml:"minSamplesLeaf"`
	MaxFeatures     string `yaml:"maxFeatures"`
}

// DefaultTreeConfig mirrors the production decision tree settings.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		MaxDepth:        25,
		MinSamplesSplit: 8,
		MinSamplesLeaf:  3,
		MaxFeatures:     MaxFeaturesSqrt,
	}
}

// Validate checks the sample-count bounds and the feature strategy.
func (c TreeConfig) Validate() error {
	if c.MinSamplesSplit < 2 {
		return fmt.Errorf("%w: minSamplesSplit must be at least 2, got %d", domain.ErrConfig, c.MinSamplesSplit)
	}
	if c.MinSamplesLeaf < 1 {
		return fmt.Errorf("%w: minSamplesLeaf must be at least 1, got %d", domain.ErrConfig, c.MinSamplesLeaf)
	}
	switch c.MaxFeatures {
	case MaxFeaturesSqrt, MaxFeaturesLog2, MaxFeaturesAll, "":
	default:
		return fmt.Errorf("%w: unknown maxFeatures strategy %q", domain.ErrConfig, c.MaxFeatures)
	}
	return nil
}

func (c TreeConfig) featuresPerSplit(dim int) int {
	var k int
	switch c.MaxFeatures {
	case MaxFeaturesSqrt:
		k = int(math.Sqrt(float64(dim)))
	case MaxFeaturesLog2:
		k = int(math.Log2(float64(dim)))
	default:
		k = dim
	}
	if k < 1 {
		k = 1
	}
	return k
}

// Node is one tree node. Leaves have Feature == -1.
type Node struct {
	Feature   int        `json:"f"`
	Threshold float64    `json:"t,omitempty"`
	Left      int        `json:"l,omitempty"`
	Right     int        `json:"r,omitempty"`
	Value     [2]float64 `json:"v"`
	Gain      float64    `json:"g,omitempty"`
}

// Tree is a fitted CART classifier.
type Tree struct {
	Dim   int    `json:"dim"`
	Nodes []Node `json:"nodes"`
	Seed  int64  `json:"seed"`
}

var _ Model = (*Tree)(nil)

// FitTree grows a single tree over every row of ds.
func FitTree(ds *Dataset, cfg TreeConfig, seed int64) (*Tree, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	weights := make([]float64, ds.Len())
	for i := range weights {
		weights[i] = 1
	}
	return grow(ds, cfg, weights, seed), nil
}

func grow(ds *Dataset, cfg TreeConfig, weights []float64, seed int64) *Tree {
	b := &builder{
		ds:          ds,
		cfg:         cfg,
		weights:     weights,
		rng:         rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)),
		mark:        make([]int32, ds.Len()),
		fmark:       make([]int32, ds.dim),
		maxFeatures: cfg.featuresPerSplit(ds.dim),
	}

	samples := make([]int32, 0, ds.Len())
	for i, w := range weights {
		if w > 0 {
			samples = append(samples, int32(i))
			b.totalWeight += w
		}
	}

	b.build(samples, 0)
	return &Tree{Dim: ds.dim, Nodes: b.nodes, Seed: seed}
}

// Predict walks the tree; a zero vector follows the <= branch at every split.
func (t *Tree) Predict(v features.Vector) Prediction {
	return newPrediction(t.Nodes[t.leaf(v)].Value)
}

func (t *Tree) leaf(v features.Vector) int {
	idx := 0
	for {
		n := t.Nodes[idx]
		if n.Feature < 0 {
			return idx
		}
		if v.At(n.Feature) <= n.Threshold {
			idx = n.Left
		} else {
			idx = n.Right
		}
	}
}

// Contributions sums split gains per feature along v's decision path.
func (t *Tree) Contributions(v features.Vector) map[int]float64 {
	out := make(map[int]float64)
	t.addPath(v, out, 1)
	return out
}

func (t *Tree) addPath(v features.Vector, acc map[int]float64, scale float64) {
	idx := 0
	for {
		n := t.Nodes[idx]
		if n.Feature < 0 {
			return
		}
		acc[n.Feature] += n.Gain * scale
		if v.At(n.Feature) <= n.Threshold {
			idx = n.Left
		} else {
			idx = n.Right
		}
	}
}

// Importances returns split gains per feature normalized to sum to 1.
func (t *Tree) Importances() []float64 {
	imp := make([]float64, t.Dim)
	for _, n := range t.Nodes {
		if n.Feature >= 0 {
			imp[n.Feature] += n.Gain
		}
	}
	normalize(imp)
	return imp
}

// Validate checks structural integrity of a deserialized tree.
func (t *Tree) Validate(dim int) error {
	if t == nil || len(t.Nodes) == 0 {
		return fmt.Errorf("tree has no nodes")
	}
	if t.Dim != dim {
		return fmt.Errorf("tree dimension %d does not match vectorizer dimension %d", t.Dim, dim)
	}
	for i, n := range t.Nodes {
		if n.Feature < 0 {
			if math.Abs(n.Value[0]+n.Value[1]-1) > 1e-6 {
				return fmt.Errorf("leaf %d probabilities do not sum to 1", i)
			}
			continue
		}
		if n.Feature >= dim {
			return fmt.Errorf("node %d splits on feature %d outside dimension %d", i, n.Feature, dim)
		}
		if n.Left <= i || n.Right <= i || n.Left >= len(t.Nodes) || n.Right >= len(t.Nodes) {
			return fmt.Errorf("node %d has invalid children (%d, %d)", i, n.Left, n.Right)
		}
	}
	return nil
}

func normalize(values []float64) {
	var sum float64
	for _, v := range values {
		sum += v
	}
	if sum <= 0 {
		return
	}
	for i := range values {
		values[i] /= sum
	}
}

func gini(w [2]float64) float64 {
	total := w[0] + w[1]
	if total <= 0 {
		return 0
	}
	p0, p1 := w[0]/total, w[1]/total
	return 1 - p0*p0 - p1*p1
}

type split struct {
	feature   int
	threshold float64
	decrease  float64
}

type builder struct {
	ds          *Dataset
	cfg         TreeConfig
	weights     []float64
	rng         *rand.Rand
	mark        []int32
	fmark       []int32
	stamp       int32
	maxFeatures int
	totalWeight float64
	nodes       []Node
	scratch     []colEntry
}

func (b *builder) build(samples []int32, depth int) int {
	b.stamp++
	stamp := b.stamp

	var counts [2]float64
	for _, s := range samples {
		b.mark[s] = stamp
		counts[b.ds.labels[s]] += b.weights[s]
	}
	total := counts[0] + counts[1]

	idx := len(b.nodes)
	b.nodes = append(b.nodes, Node{Feature: -1, Value: [2]float64{counts[0] / total, counts[1] / total}})

	if (b.cfg.MaxDepth > 0 && depth >= b.cfg.MaxDepth) ||
		len(samples) < b.cfg.MinSamplesSplit ||
		len(samples) < 2*b.cfg.MinSamplesLeaf ||
		counts[0] == 0 || counts[1] == 0 {
		return idx
	}

	best, ok := b.bestSplit(samples, stamp, counts)
	if !ok {
		return idx
	}

	left := make([]int32, 0, len(samples))
	right := make([]int32, 0, len(samples))
	for _, s := range samples {
		if b.ds.rows[s].At(best.feature) <= best.threshold {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}

	b.nodes[idx].Feature = best.feature
	b.nodes[idx].Threshold = best.threshold
	b.nodes[idx].Gain = total / b.totalWeight * best.decrease

	l := b.build(left, depth+1)
	r := b.build(right, depth+1)
	b.nodes[idx].Left = l
	b.nodes[idx].Right = r
	return idx
}

// bestSplit samples candidate features present in the node and keeps searching past
// maxFeatures until at least one valid partition is found.
func (b *builder) bestSplit(samples []int32, stamp int32, counts [2]float64) (split, bool) {
	var candidates []int
	for _, s := range samples {
		for _, f := range b.ds.rows[s].Indices {
			if b.fmark[f] != stamp {
				b.fmark[f] = stamp
				candidates = append(candidates, f)
			}
		}
	}
	b.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	parent := gini(counts)
	var (
		best    split
		found   bool
		visited int
	)
	for _, f := range candidates {
		if visited >= b.maxFeatures && found {
			break
		}
		visited++
		s, ok := b.evalFeature(f, stamp, counts, len(samples), parent)
		if ok && (!found || s.decrease > best.decrease+1e-12) {
			best = s
			found = true
		}
	}
	return best, found
}

func (b *builder) evalFeature(f int, stamp int32, counts [2]float64, nodeCount int, parent float64) (split, bool) {
	entries := b.scratch[:0]
	for _, e := range b.ds.cols[f] {
		if b.mark[e.sample] == stamp {
			entries = append(entries, e)
		}
	}
	b.scratch = entries
	if len(entries) == 0 {
		return split{}, false
	}

	var right [2]float64
	for _, e := range entries {
		right[b.ds.labels[e.sample]] += b.weights[e.sample]
	}
	left := [2]float64{counts[0] - right[0], counts[1] - right[1]}
	leftN, rightN := nodeCount-len(entries), len(entries)
	total := counts[0] + counts[1]
	minLeaf := b.cfg.MinSamplesLeaf

	var (
		best  split
		found bool
	)
	consider := func(threshold float64) {
		if leftN < minLeaf || rightN < minLeaf {
			return
		}
		lw, rw := left[0]+left[1], right[0]+right[1]
		dec := parent - lw/total*gini(left) - rw/total*gini(right)
		if dec <= 0 {
			return
		}
		if !found || dec > best.decrease+1e-12 {
			best = split{feature: f, threshold: threshold, decrease: dec}
			found = true
		}
	}

	if leftN > 0 {
		consider(entries[0].value / 2)
	}
	for i := 0; i < len(entries)-1; i++ {
		e := entries[i]
		w := b.weights[e.sample]
		y := b.ds.labels[e.sample]
		left[y] += w
		right[y] -= w
		leftN++
		rightN--
		next := entries[i+1].value
		if next > e.value {
			consider((e.value + next) / 2)
		}
	}
	return best, found
}
