package persist

import (
	"context"

	"github.com/matzehuels/waypoint/pkg/nav"
)

// ScopedStore prefixes every key for multi-tenant isolation.
//
// Example usage:
//
//	// One namespace per signed-in user
//	userStore := persist.Scoped(redisStore, "user:abc123:")
type ScopedStore struct {
	inner  Store
	prefix string
}

// Scoped wraps inner so that every key is prefixed with prefix.
func Scoped(inner Store, prefix string) *ScopedStore {
	return &ScopedStore{inner: inner, prefix: prefix}
}

// Load reads prefix+key.
func (s *ScopedStore) Load(ctx context.Context, key string) (*nav.State, error) {
	return s.inner.Load(ctx, s.prefix+key)
}

// Save writes prefix+key.
func (s *ScopedStore) Save(ctx context.Context, key string, state *nav.State) error {
	return s.inner.Save(ctx, s.prefix+key, state)
}

// Delete removes prefix+key.
func (s *ScopedStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

// Close closes the wrapped store.
func (s *ScopedStore) Close() error { return s.inner.Close() }

// Unwrap returns the wrapped store.
func (s *ScopedStore) Unwrap() Store { return s.inner }

var _ Store = (*ScopedStore)(nil)
