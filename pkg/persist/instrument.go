package persist

import (
	"context"

	"github.com/matzehuels/waypoint/pkg/nav"
	"github.com/matzehuels/waypoint/pkg/observability"
)

// instrumented reports operations of a store to the observability hooks.
type instrumented struct {
	Store
	backend string
}

// Instrument wraps s so that loads and saves reach [observability.Store].
func Instrument(s Store, backend string) Store {
	return &instrumented{Store: s, backend: backend}
}

func (s *instrumented) Load(ctx context.Context, key string) (*nav.State, error) {
	state, err := s.Store.Load(ctx, key)
	observability.Store().OnLoad(ctx, s.backend, state != nil, err)
	return state, err
}

func (s *instrumented) Save(ctx context.Context, key string, state *nav.State) error {
	size := 0
	if data, err := encode(state); err == nil {
		size = len(data)
	}
	err := s.Store.Save(ctx, key, state)
	observability.Store().OnSave(ctx, s.backend, size, err)
	return err
}

// Unwrap returns the wrapped store.
func (s *instrumented) Unwrap() Store { return s.Store }
