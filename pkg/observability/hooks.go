// Package observability provides hooks for metrics, tracing, and logging.
//
// The navigation engine and its stores report events through small hook
// interfaces instead of depending on a metrics backend. Consumers register
// implementations at startup; until then every hook is a no-op.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Libraries never import a backend. The prom subpackage provides a
// Prometheus implementation that cmd/waypoint registers when serving.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    h := prom.New(prometheus.DefaultRegisterer)
//	    observability.SetNavigationHooks(h)
//	    observability.SetStoreHooks(h)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	// ... bubble the action ...
//	observability.Navigation().OnDispatch(ctx, action.Type, routerType, handled, time.Since(start))
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Navigation Hooks
// =============================================================================

// NavigationHooks receives events from navigation containers.
type NavigationHooks interface {
	// OnDispatch records a dispatched action. routerType is the type of the
	// navigator that handled it, empty when unhandled.
	OnDispatch(ctx context.Context, actionType, routerType string, handled bool, duration time.Duration)

	// OnUnhandled records an action no navigator accepted.
	OnUnhandled(ctx context.Context, actionType string)

	// OnRehydrate records a navigator mounted from partial state. recovered
	// is true when the partial state was corrupt and replaced.
	OnRehydrate(ctx context.Context, routerType string, recovered bool)

	// OnTransactionConflict records a transaction refused by the guard.
	OnTransactionConflict(ctx context.Context)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from partial-state stores.
type StoreHooks interface {
	// OnLoad records a load. hit is false on a miss or error.
	OnLoad(ctx context.Context, backend string, hit bool, err error)

	// OnSave records a write of size bytes.
	OnSave(ctx context.Context, backend string, size int, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopNavigationHooks is a no-op implementation of NavigationHooks.
type NoopNavigationHooks struct{}

func (NoopNavigationHooks) OnDispatch(context.Context, string, string, bool, time.Duration) {}
func (NoopNavigationHooks) OnUnhandled(context.Context, string)                            {}
func (NoopNavigationHooks) OnRehydrate(context.Context, string, bool)                      {}
func (NoopNavigationHooks) OnTransactionConflict(context.Context)                          {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnLoad(context.Context, string, bool, error) {}
func (NoopStoreHooks) OnSave(context.Context, string, int, error)  {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	navigationHooks NavigationHooks = NoopNavigationHooks{}
	storeHooks      StoreHooks      = NoopStoreHooks{}
	hooksMu         sync.RWMutex
)

// SetNavigationHooks registers custom navigation hooks.
// This should be called once at application startup before any dispatch.
func SetNavigationHooks(h NavigationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		navigationHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store operations.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Navigation returns the registered navigation hooks.
func Navigation() NavigationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return navigationHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	navigationHooks = NoopNavigationHooks{}
	storeHooks = NoopStoreHooks{}
}
