package usecase_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/model"
)

type memoryCache struct {
	mu    sync.Mutex
	items map[string]domain.PredictionResult
	hits  int
}

func (c *memoryCache) Get(_ context.Context, key string) (domain.PredictionResult, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.items[key]
	if ok {
		c.hits++
	}
	return r, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, r domain.PredictionResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.items == nil {
		c.items = map[string]domain.PredictionResult{}
	}
	c.items[key] = r
	return nil
}

type memoryHistory struct {
	mu      sync.Mutex
	records []domain.PredictionRecord
}

func (h *memoryHistory) SavePrediction(_ context.Context, r domain.PredictionRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, existing := range h.records {
		if existing.ID == r.ID {
			return nil
		}
	}
	h.records = append(h.records, r)
	return nil
}

func (h *memoryHistory) Summary(_ context.Context, _ int) (domain.PredictionSummary, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return domain.PredictionSummary{Total: len(h.records)}, nil
}

type recordingTelemetry struct {
	mu          sync.Mutex
	predictions int
	outcomes    []string
	versions    []string
}

func (r *recordingTelemetry) ObservePrediction(domain.Mode, domain.Label, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.predictions++
}

func (r *recordingTelemetry) ObserveTraining(outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

func (r *recordingTelemetry) SetModel(version string, _ domain.ModelMetrics) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.versions = append(r.versions, version)
}

type failingFactChecker struct{}

func (failingFactChecker) Lookup(context.Context, string) ([]domain.FactCheck, error) {
	return nil, errors.New("upstream unavailable")
}

type memoryStore struct {
	mu      sync.Mutex
	saved   *model.Model
	loadErr error
	saves   int
}

func (s *memoryStore) Save(_ context.Context, m *model.Model) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = m
	s.saves++
	return nil
}

func (s *memoryStore) Load(context.Context) (*model.Model, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.saved == nil {
		return nil, domain.ErrArtifactNotFound
	}
	return s.saved, nil
}

type staticCorpus struct {
	articles []domain.LabeledArticle
	err      error
	gate     chan struct{}
}

func (c *staticCorpus) Load(ctx context.Context) ([]domain.LabeledArticle, error) {
	if c.gate != nil {
		select {
		case <-c.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return c.articles, c.err
}

type recordingNotifier struct {
	mu      sync.Mutex
	reports []string
}

func (n *recordingNotifier) PublishReport(_ context.Context, report string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reports = append(n.reports, report)
	return nil
}
