package routers

import (
	"slices"
	"strconv"

	"github.com/matzehuels/waypoint/pkg/errors"
	"github.com/matzehuels/waypoint/pkg/keys"
	"github.com/matzehuels/waypoint/pkg/nav"
)

// Router type tags stamped on the states each policy produces.
const (
	TypeStack  = "stack"
	TypeTab    = "tab"
	TypeDrawer = "drawer"
)

// Router is the capability every navigation policy satisfies.
// Implementations are stateless and safe for concurrent use.
type Router interface {
	// Type returns the tag stamped on states produced by this router.
	Type() string

	// GetInitialState builds a fresh state for a newly mounted navigator.
	GetInitialState(cfg Config) (*nav.State, error)

	// GetRehydratedState reconciles a partial state against cfg. A state
	// whose Stale flag is false is returned unchanged (same pointer).
	// Nested route states are carried over untouched.
	GetRehydratedState(partial *nav.State, cfg Config) (*nav.State, error)

	// GetStateForAction returns the state after action, or nil when this
	// router does not handle it.
	GetStateForAction(state *nav.State, action nav.Action, cfg Config) *nav.State

	// GetStateForRouteFocus returns the state with the route of the given
	// key focused. Unknown keys leave the state unchanged.
	GetStateForRouteFocus(state *nav.State, key string, cfg Config) *nav.State

	// ShouldActionChangeFocus reports whether handling action in a nested
	// navigator should focus that navigator's route in its ancestors.
	ShouldActionChangeFocus(action nav.Action) bool

	// ActionCreators returns the factories of the actions this router understands,
	// keyed by action type.
	ActionCreators() map[string]ActionCreator
}

// ActionCreator builds a well-formed action from a payload.
type ActionCreator func(p nav.Payload) nav.Action

// Config is the navigator configuration a router works against.
type Config struct {
	// RouteNames lists the configured children in order.
	RouteNames []string
	// RouteParamList maps route names to their default params.
	RouteParamList map[string]nav.Params
	// InitialRouteName defaults to the first route name.
	InitialRouteName string
}

// Validate reports configuration errors. They are fatal at construction time.
func (c Config) Validate() error {
	if len(c.RouteNames) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "navigator has no route names")
	}
	seen := make(map[string]struct{}, len(c.RouteNames))
	for _, name := range c.RouteNames {
		if err := errors.ValidateRouteName(name); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid route name")
		}
		if _, dup := seen[name]; dup {
			return errors.New(errors.ErrCodeInvalidConfig, "duplicate route name %q", name)
		}
		seen[name] = struct{}{}
	}
	if c.InitialRouteName != "" && !slices.Contains(c.RouteNames, c.InitialRouteName) {
		return errors.New(errors.ErrCodeInvalidConfig, "initial route %q is not one of %v", c.InitialRouteName, c.RouteNames)
	}
	for name := range c.RouteParamList {
		if !slices.Contains(c.RouteNames, name) {
			return errors.New(errors.ErrCodeInvalidConfig, "params given for unknown route %q", name)
		}
	}
	return nil
}

// Has reports whether name is configured.
func (c Config) Has(name string) bool {
	return slices.Contains(c.RouteNames, name)
}

// InitialName returns the initial route name.
func (c Config) InitialName() string {
	if c.InitialRouteName != "" {
		return c.InitialRouteName
	}
	if len(c.RouteNames) > 0 {
		return c.RouteNames[0]
	}
	return ""
}

// InitialIndex returns the position of the initial route, 0 when unknown.
func (c Config) InitialIndex() int {
	return max(slices.Index(c.RouteNames, c.InitialName()), 0)
}

// Params returns the default params of name.
func (c Config) Params(name string) nav.Params {
	return c.RouteParamList[name]
}

// =============================================================================
// Options
// =============================================================================

type options struct {
	keys keys.Generator
	back BackBehavior
}

// Option configures a router.
type Option func(*options)

// WithKeyGenerator sets the key source. Defaults to [keys.Default].
func WithKeyGenerator(g keys.Generator) Option {
	return func(o *options) {
		if g != nil {
			o.keys = g
		}
	}
}

// WithBackBehavior sets the GO_BACK policy of tab and drawer routers.
// Stack routers ignore it.
func WithBackBehavior(b BackBehavior) Option {
	return func(o *options) {
		if b != "" {
			o.back = b
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{keys: keys.Default(), back: BackHistory}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New returns the router registered under typ ("stack", "tab" or "drawer").
func New(typ string, opts ...Option) (Router, error) {
	switch typ {
	case TypeStack:
		return NewStackRouter(opts...), nil
	case TypeTab:
		return NewTabRouter(opts...), nil
	case TypeDrawer:
		return NewDrawerRouter(opts...), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown router type %q", typ)
	}
}

// =============================================================================
// Shared helpers
// =============================================================================

// newRoute creates a route entry with defaults from cfg. An empty key is
// replaced by a fresh one.
func newRoute(g keys.Generator, cfg Config, name, key string, params nav.Params) nav.Route {
	if key == "" {
		key = g.Key(name)
	}
	return nav.Route{Key: key, Name: name, Params: cfg.Params(name).Merge(params)}
}

// usable reports whether state can be handed to a transition.
func usable(state *nav.State) bool {
	return state != nil && !state.Stale && len(state.Routes) > 0
}

// setParams merges params into the source route (focused route by default).
func setParams(state *nav.State, action nav.Action) *nav.State {
	idx := state.Index
	if action.Source != "" {
		if idx = state.IndexOfKey(action.Source); idx == -1 {
			return nil
		}
	}
	next := state.Clone()
	next.Routes[idx].Params = next.Routes[idx].Params.Merge(action.P().Params)
	return next
}

// resetTarget validates a RESET payload and returns it as a stale partial
// ready for rehydration, or nil when the action cannot apply.
func resetTarget(state *nav.State, action nav.Action) *nav.State {
	target := action.P().State
	if target == nil || len(target.Routes) == 0 {
		return nil
	}
	for _, r := range target.Routes {
		if !state.HasRouteName(r.Name) {
			return nil
		}
	}
	partial := target.Clone()
	partial.Stale = true
	return partial
}

// maxKeyAttempts bounds regeneration for generators that keep repeating
// themselves. After that a numeric suffix disambiguates.
const maxKeyAttempts = 16

// uniqueKey returns key unless it is empty or already taken, in which case
// fresh keys are generated until one is free.
func uniqueKey(g keys.Generator, taken map[string]struct{}, key, name string) string {
	if key == "" {
		key = g.Key(name)
	}
	base := key
	for i := 1; ; i++ {
		if _, dup := taken[key]; !dup {
			break
		}
		if i <= maxKeyAttempts {
			key = g.Key(name)
		} else {
			key = base + "-" + strconv.Itoa(i)
		}
	}
	taken[key] = struct{}{}
	return key
}

// takenKeys returns the set of route keys already used in routes.
func takenKeys(routes []nav.Route) map[string]struct{} {
	taken := make(map[string]struct{}, len(routes)+1)
	for _, r := range routes {
		taken[r.Key] = struct{}{}
	}
	return taken
}
