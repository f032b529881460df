package container

import (
	"context"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"go.uber.org/atomic"

	"github.com/matzehuels/waypoint/pkg/errors"
	"github.com/matzehuels/waypoint/pkg/nav"
	"github.com/matzehuels/waypoint/pkg/persist"
	"github.com/matzehuels/waypoint/pkg/routers"
)

// Listener receives every committed root state.
type Listener func(state *nav.State)

// Container owns the root state of a navigation tree.
type Container struct {
	mu   sync.RWMutex
	spec *Navigator
	root *nav.State

	active *atomic.Bool

	listenersMu sync.Mutex
	listeners   []subscription
	nextID      int

	logger      *log.Logger
	store       persist.Store
	storeKey    string
	onUnhandled func(nav.Action)
}

type subscription struct {
	id int
	fn Listener
}

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger. Defaults to log.Default().
func WithLogger(l *log.Logger) Option {
	return func(c *Container) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStore saves the partial projection of every committed state to
// store under key, and lets [Container.Restore] load it back.
func WithStore(store persist.Store, key string) Option {
	return func(c *Container) {
		c.store = store
		c.storeKey = key
	}
}

// WithOnUnhandledAction sets the callback receiving actions no navigator
// handled.
func WithOnUnhandledAction(fn func(nav.Action)) Option {
	return func(c *Container) {
		c.onUnhandled = fn
	}
}

// New validates spec and returns an empty container. Call [Container.Resolve]
// or [Container.Restore] before dispatching.
func New(spec *Navigator, opts ...Option) (*Container, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	c := &Container{
		spec:   spec,
		active: atomic.NewBool(false),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// State returns the root state, or nil before the first resolution.
func (c *Container) State() *nav.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.root
}

// Spec returns the current navigator spec.
func (c *Container) Spec() *Navigator {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.spec
}

// Resolve builds the root tree from initial: a nil state yields the initial
// state of every navigator on the focused path, a partial state is
// rehydrated, and a live state is mounted as is.
func (c *Container) Resolve(ctx context.Context, initial *nav.State) (*nav.State, error) {
	var out *nav.State
	err := c.PerformTransaction(ctx, func(tx *Transaction) error {
		root, err := c.mount(ctx, tx.spec, initial)
		if err != nil {
			return err
		}
		out = root
		return tx.SetState(root)
	})
	return out, err
}

// ResetRoot replaces the whole tree. It behaves like Resolve but is meant for
// a container that is already running.
func (c *Container) ResetRoot(ctx context.Context, state *nav.State) (*nav.State, error) {
	c.logger.Debug("reset root", "partial", state != nil && state.Stale)
	return c.Resolve(ctx, state)
}

// Restore resolves the tree from the configured store. It reports whether a
// stored state was found; without one (or without a store) the tree starts
// from its initial state.
func (c *Container) Restore(ctx context.Context) (bool, error) {
	var partial *nav.State
	if c.store != nil {
		s, err := c.store.Load(ctx, c.storeKey)
		if err != nil {
			return false, err
		}
		partial = s
	}
	if _, err := c.Resolve(ctx, partial); err != nil {
		return false, err
	}
	return partial != nil, nil
}

// Reconfigure swaps the navigator spec and rehydrates the partial projection
// of the current tree against it. Routes that survive keep their keys and
// params; removed routes are dropped.
func (c *Container) Reconfigure(ctx context.Context, spec *Navigator) (*nav.State, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	var out *nav.State
	err := c.PerformTransaction(ctx, func(tx *Transaction) error {
		root, err := c.mount(ctx, spec, nav.Partial(tx.State()))
		if err != nil {
			return err
		}
		tx.spec = spec
		out = root
		return tx.SetState(root)
	})
	if err == nil {
		c.logger.Info("navigator reconfigured", "router", spec.Router.Type(), "routes", spec.Config.RouteNames)
	}
	return out, err
}

// CanGoBack reports whether a GO_BACK dispatched now would be handled.
func (c *Container) CanGoBack() bool {
	c.mu.RLock()
	spec, root := c.spec, c.root
	c.mu.RUnlock()
	if root == nil {
		return false
	}
	next, _ := resolveAction(spec, root, routers.GoBack())
	return next != nil
}

// Subscribe registers fn for every committed root state and returns a
// function removing it.
func (c *Container) Subscribe(fn Listener) (unsubscribe func()) {
	c.listenersMu.Lock()
	defer c.listenersMu.Unlock()
	c.nextID++
	id := c.nextID
	c.listeners = append(c.listeners, subscription{id: id, fn: fn})
	return func() {
		c.listenersMu.Lock()
		defer c.listenersMu.Unlock()
		c.listeners = slices.DeleteFunc(c.listeners, func(s subscription) bool { return s.id == id })
	}
}

// commit publishes root. It runs inside the active transaction.
func (c *Container) commit(ctx context.Context, spec *Navigator, root *nav.State) {
	c.mu.Lock()
	c.spec, c.root = spec, root
	c.mu.Unlock()

	c.listenersMu.Lock()
	listeners := slices.Clone(c.listeners)
	c.listenersMu.Unlock()
	for _, l := range listeners {
		l.fn(root)
	}

	if c.store != nil {
		if err := c.store.Save(ctx, c.storeKey, root); err != nil {
			c.logger.Warn("failed to persist navigation state", "key", c.storeKey, "error", err)
		}
	}
}

// errNotInitialized is returned by operations needing a resolved tree.
func errNotInitialized() error {
	return errors.New(errors.ErrCodeNotInitialized, "navigation tree has not been resolved")
}

func errNotConfigured(name string) error {
	return errors.New(errors.ErrCodeInvalidState, "route %q is not configured", name)
}
