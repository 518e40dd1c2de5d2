// Package model holds the trained artifact bundle and the handle that publishes it.
package model

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"FakeNewsDetector/internal/classifier"
	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/features"
)

// Model is one immutable, versioned training result. Everything a prediction
// needs is reachable from a single *Model.
type Model struct {
	Version      string               `json:"version"`
	Seed         int64                `json:"seed"`
	TrainedAt    time.Time            `json:"trained_at"`
	Vectorizer   *features.Vectorizer `json:"vectorizer"`
	Tree         *classifier.Tree     `json:"decision_tree"`
	Forest       *classifier.Forest   `json:"random_forest"`
	Metrics      domain.ModelMetrics  `json:"metrics"`
	TrainSamples int                  `json:"train_samples"`
	TestSamples  int                  `json:"test_samples"`

	importancesOnce sync.Once
	importances     []domain.FeatureWeight
}

// TopFeatures returns the k vocabulary terms with the highest global forest
// importance, computed once per model.
func (m *Model) TopFeatures(k int) []domain.FeatureWeight {
	m.importancesOnce.Do(func() {
		imp := m.Forest.Importances()
		ranked := make([]domain.FeatureWeight, 0, len(imp))
		for col, w := range imp {
			if w > 0 {
				ranked = append(ranked, domain.FeatureWeight{Term: m.Vectorizer.Term(col), Weight: w})
			}
		}
		SortFeatures(ranked)
		m.importances = ranked
	})
	k = max(0, min(k, len(m.importances)))
	return m.importances[:k:k]
}

// SortFeatures orders by descending weight, ties alphabetical.
func SortFeatures(fw []domain.FeatureWeight) {
	sort.Slice(fw, func(i, j int) bool {
		if fw[i].Weight != fw[j].Weight {
			return fw[i].Weight > fw[j].Weight
		}
		return fw[i].Term < fw[j].Term
	})
}

// Validate checks that the vectorizer and both classifiers agree on the feature
// space. It also rebuilds the vectorizer index, so it must run once after decoding.
func (m *Model) Validate() error {
	if m == nil {
		return fmt.Errorf("model is nil")
	}
	if m.Version == "" {
		return fmt.Errorf("model has no version")
	}
	if m.Vectorizer == nil || m.Tree == nil || m.Forest == nil {
		return fmt.Errorf("model %s is incomplete", m.Version)
	}
	if err := m.Vectorizer.Restore(); err != nil {
		return fmt.Errorf("vectorizer: %w", err)
	}
	dim := m.Vectorizer.Dim()
	if err := m.Tree.Validate(dim); err != nil {
		return fmt.Errorf("decision tree: %w", err)
	}
	if err := m.Forest.Validate(dim); err != nil {
		return fmt.Errorf("random forest: %w", err)
	}
	return nil
}

// Handle publishes the current model. Readers call Load once per request and
// keep using that snapshot; writers replace it wholesale with Store.
type Handle struct {
	current atomic.Pointer[Model]
}

// NewHandle returns an empty handle.
func NewHandle() *Handle {
	return &Handle{}
}

// Load returns the current model or nil when none has been published.
func (h *Handle) Load() *Model {
	return h.current.Load()
}

// Store publishes m and returns the model it replaced.
func (h *Handle) Store(m *Model) *Model {
	return h.current.Swap(m)
}

// Ready reports whether a model is loaded.
func (h *Handle) Ready() bool {
	return h.current.Load() != nil
}
