package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/ports"
)

// Options selects a loader and bounds how much of its corpus is used.
type Options struct {
	Source string
	// SampleSize caps the corpus at SampleSize/2 articles per class; zero keeps everything.
	SampleSize int
	Seed       int64
}

// Source implements ports.CorpusSource via a registered loader.
type Source struct {
	registry *Registry
	opts     Options
	logger   *slog.Logger
}

var _ ports.CorpusSource = (*Source)(nil)

// NewSource wires the loader registry with the configured options.
func NewSource(reg *Registry, opts Options, log *slog.Logger) *Source {
	return &Source{
		registry: reg,
		opts:     opts,
		logger:   log,
	}
}

// Load resolves the configured loader, reads its corpus and applies sampling.
func (s *Source) Load(ctx context.Context) ([]domain.LabeledArticle, error) {
	if s.registry == nil || s.opts.Source == "" {
		return nil, domain.ErrNoCorpus
	}

	loader, err := s.registry.Resolve(s.opts.Source)
	if err != nil {
		return nil, err
	}

	s.debug("load corpus", "source", loader.Name(), "sample_size", s.opts.SampleSize)
	articles, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s corpus: %w", loader.Name(), err)
	}
	if len(articles) == 0 {
		return nil, fmt.Errorf("%w: %s corpus is empty", domain.ErrNoCorpus, loader.Name())
	}

	if s.opts.SampleSize > 0 {
		articles = Sample(articles, s.opts.SampleSize/2, s.opts.Seed)
	}
	s.debug("corpus ready", "source", loader.Name(), "articles", len(articles))
	return articles, nil
}

// Sample keeps at most perClass articles of each label, chosen with a seeded
// shuffle, and returns them shuffled.
func Sample(articles []domain.LabeledArticle, perClass int, seed int64) []domain.LabeledArticle {
	rng := rand.New(rand.NewPCG(uint64(seed), 0x5851f42d4c957f2d))

	byLabel := map[domain.Label][]domain.LabeledArticle{}
	for _, a := range articles {
		byLabel[a.Label] = append(byLabel[a.Label], a)
	}

	var out []domain.LabeledArticle
	for _, label := range domain.Labels {
		group := byLabel[label]
		rng.Shuffle(len(group), func(i, j int) {
			group[i], group[j] = group[j], group[i]
		})
		if len(group) > perClass {
			group = group[:perClass]
		}
		out = append(out, group...)
		delete(byLabel, label)
	}
	// Unrecognized labels pass through so training can reject them.
	for _, a := range articles {
		if _, ok := byLabel[a.Label]; ok {
			out = append(out, a)
		}
	}
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

func (s *Source) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
