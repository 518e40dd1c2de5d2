// Package corpus resolves the configured training-corpus loader and applies
// per-class sampling on top of it.
package corpus

import (
	"context"
	"fmt"
	"sort"

	"FakeNewsDetector/internal/domain"
)

// Loader captures a single corpus backend (CSV files, Postgres, etc.).
type Loader interface {
	Name() string
	Load(ctx context.Context) ([]domain.LabeledArticle, error)
}

// Registry keeps a mapping from loader names to their implementations.
type Registry struct {
	loaders map[string]Loader
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{loaders: map[string]Loader{}}
}

// Register adds or replaces a loader implementation.
func (r *Registry) Register(loader Loader) {
	if r.loaders == nil {
		r.loaders = map[string]Loader{}
	}
	r.loaders[loader.Name()] = loader
}

// Resolve returns a loader by name. An unknown name matches domain.ErrNoCorpus.
func (r *Registry) Resolve(name string) (Loader, error) {
	if loader, ok := r.loaders[name]; ok {
		return loader, nil
	}
	return nil, fmt.Errorf("%w: corpus source %q is not registered", domain.ErrNoCorpus, name)
}

// Names lists the registered loaders in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.loaders))
	for name := range r.loaders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
