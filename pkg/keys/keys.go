// Package keys generates the identity keys of navigators and routes.
//
// Every route entry and every navigator state receives a key when it is
// created, and that key never changes for the lifetime of the instance.
// Routers never call a random source directly: they ask an injected
// [Generator], so tests can substitute [Counter] and assert exact keys while
// production code uses [UUID].
//
// Keys have the form "<prefix>-<token>", where prefix is the route name for
// route entries and the router type ("stack", "tab", "drawer") for
// navigator states.
package keys

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/matzehuels/waypoint/pkg/errors"
)

// Generator produces fresh keys. Implementations must be safe for concurrent use.
type Generator interface {
	Key(prefix string) string
}

// Func adapts a plain function to the Generator interface.
type Func func(prefix string) string

// Key calls f.
func (f Func) Key(prefix string) string { return f(prefix) }

// UUID generates keys from random (version 4) UUIDs.
type UUID struct{}

// Key returns prefix followed by a random UUID.
func (UUID) Key(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// Counter generates deterministic keys from a monotonically increasing
// sequence shared across all prefixes: "Home-1", "stack-2", "Feed-3", ...
type Counter struct {
	n *atomic.Int64
}

// NewCounter returns a counter starting at 1.
func NewCounter() *Counter {
	return &Counter{n: atomic.NewInt64(0)}
}

// Key returns prefix followed by the next sequence number.
func (c *Counter) Key(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, c.n.Inc())
}

// Reset restarts the sequence at 1.
func (c *Counter) Reset() {
	c.n.Store(0)
}

// Default returns the production generator.
func Default() Generator {
	return UUID{}
}

// Parse returns the generator named by s: "uuid" (or empty) or "counter".
func Parse(s string) (Generator, error) {
	switch s {
	case "", "uuid":
		return UUID{}, nil
	case "counter":
		return NewCounter(), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown key generator %q", s)
	}
}
