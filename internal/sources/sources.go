package sources

import (
	"context"

	"nwaevents/internal/models/domain"
)

// Source is one polled platform: Fetch retrieves the platform's native
// listings for every configured query target and returns them already
// normalized into canonical events.
//
// Contract: a failed query target is logged and skipped, never fatal; Fetch
// returns the union of whatever targets succeeded. Fetch returns an error
// only for adapter-level failures that prevent forming any batch at all
// (e.g. a missing credential).
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]domain.Event, error)
}

// Registry maps source tags to adapters for the orchestrator.
type Registry map[string]Source

func NewRegistry(srcs ...Source) Registry {
	r := make(Registry, len(srcs))
	for _, s := range srcs {
		r[s.Name()] = s
	}
	return r
}

func (r Registry) Get(name string) (Source, bool) {
	s, ok := r[name]
	return s, ok
}
