package routers

import (
	"slices"

	"github.com/matzehuels/waypoint/pkg/keys"
	"github.com/matzehuels/waypoint/pkg/nav"
)

// StackRouter keeps routes in push order; the focused route is always the
// last one. Several instances of the same route name may coexist, each with
// its own key.
type StackRouter struct {
	keys keys.Generator
}

// NewStackRouter returns a stack router.
func NewStackRouter(opts ...Option) *StackRouter {
	o := buildOptions(opts)
	return &StackRouter{keys: o.keys}
}

// Type returns "stack".
func (r *StackRouter) Type() string { return TypeStack }

// GetInitialState returns a stack holding only the initial route.
func (r *StackRouter) GetInitialState(cfg Config) (*nav.State, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &nav.State{
		Key:        r.keys.Key(TypeStack),
		Index:      0,
		RouteNames: slices.Clone(cfg.RouteNames),
		Routes:     []nav.Route{newRoute(r.keys, cfg, cfg.InitialName(), "", nil)},
		Type:       TypeStack,
	}, nil
}

// GetRehydratedState drops routes whose name is no longer configured, fills
// in missing keys and focuses the last remaining route. An empty result
// falls back to the initial route.
func (r *StackRouter) GetRehydratedState(partial *nav.State, cfg Config) (*nav.State, error) {
	if partial == nil {
		return r.GetInitialState(cfg)
	}
	if !partial.Stale {
		return partial, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	taken := make(map[string]struct{}, len(partial.Routes))
	routes := make([]nav.Route, 0, len(partial.Routes))
	for _, pr := range partial.Routes {
		if !cfg.Has(pr.Name) {
			continue
		}
		routes = append(routes, nav.Route{
			Key:    uniqueKey(r.keys, taken, pr.Key, pr.Name),
			Name:   pr.Name,
			Params: cfg.Params(pr.Name).Merge(pr.Params),
			State:  pr.State,
		})
	}
	if len(routes) == 0 {
		routes = append(routes, newRoute(r.keys, cfg, cfg.InitialName(), "", nil))
	}

	return &nav.State{
		Key:        r.keys.Key(TypeStack),
		Index:      len(routes) - 1,
		RouteNames: slices.Clone(cfg.RouteNames),
		Routes:     routes,
		Type:       TypeStack,
	}, nil
}

// GetStateForRouteFocus pops everything above the route with key.
func (r *StackRouter) GetStateForRouteFocus(state *nav.State, key string, _ Config) *nav.State {
	idx := state.IndexOfKey(key)
	if idx == -1 || idx == state.Index {
		return state
	}
	return truncate(state, idx+1)
}

// ShouldActionChangeFocus is true for NAVIGATE and PUSH.
func (r *StackRouter) ShouldActionChangeFocus(action nav.Action) bool {
	return action.Type == ActionNavigate || action.Type == ActionPush
}

// ActionCreators returns the common and stack action factories.
func (r *StackRouter) ActionCreators() map[string]ActionCreator {
	return creators(ActionNavigate, ActionReset, ActionGoBack, ActionSetParams,
		ActionPush, ActionPop, ActionPopToTop, ActionReplace)
}

// GetStateForAction applies PUSH, POP, POP_TO_TOP, REPLACE, GO_BACK,
// NAVIGATE, RESET and SET_PARAMS.
func (r *StackRouter) GetStateForAction(state *nav.State, action nav.Action, cfg Config) *nav.State {
	if !usable(state) {
		return nil
	}
	p := action.P()

	switch action.Type {
	case ActionPush:
		if !state.HasRouteName(p.Name) {
			return nil
		}
		if p.Key != "" && state.IndexOfKey(p.Key) != -1 {
			return nil
		}
		return r.appendRoute(state, cfg, p)

	case ActionPop:
		return pop(state, max(p.Count, 1))

	case ActionGoBack:
		return pop(state, 1)

	case ActionPopToTop:
		if state.Index == 0 {
			return nil
		}
		return truncate(state, 1)

	case ActionReplace:
		return r.replace(state, action, cfg)

	case ActionNavigate:
		return r.navigate(state, p, cfg)

	case ActionReset:
		partial := resetTarget(state, action)
		if partial == nil {
			return nil
		}
		next, err := r.GetRehydratedState(partial, cfg)
		if err != nil {
			return nil
		}
		next.Key = state.Key
		return next

	case ActionSetParams:
		return setParams(state, action)
	}
	return nil
}

// replace swaps the focused (or source) route for a new screen, keeping the
// key unless the payload names a new one.
func (r *StackRouter) replace(state *nav.State, action nav.Action, cfg Config) *nav.State {
	p := action.P()
	if !state.HasRouteName(p.Name) {
		return nil
	}
	idx := state.Index
	if action.Source != "" {
		if idx = state.IndexOfKey(action.Source); idx == -1 {
			return nil
		}
	}
	key := state.Routes[idx].Key
	if p.Key != "" && p.Key != key {
		if state.IndexOfKey(p.Key) != -1 {
			return nil
		}
		key = p.Key
	}
	next := state.Clone()
	next.Routes[idx] = newRoute(r.keys, cfg, p.Name, key, p.Params)
	return next
}

// navigate pops back to the nearest matching route, or pushes a new one
// when only a configured name is given.
func (r *StackRouter) navigate(state *nav.State, p nav.Payload, cfg Config) *nav.State {
	if p.Key == "" && !state.HasRouteName(p.Name) {
		return nil
	}

	idx := -1
	for i := len(state.Routes) - 1; i >= 0; i-- {
		rt := state.Routes[i]
		if (p.Key != "" && rt.Key == p.Key) || (p.Key == "" && rt.Name == p.Name) {
			idx = i
			break
		}
	}

	if idx == -1 {
		if p.Name == "" || !state.HasRouteName(p.Name) {
			return nil
		}
		return r.appendRoute(state, cfg, p)
	}

	next := truncate(state, idx+1)
	if p.Params != nil {
		next.Routes[idx].Params = next.Routes[idx].Params.Merge(p.Params)
	}
	return next
}

// appendRoute adds a new focused route to a copy of state. A generated key
// never collides with a sibling, even when the generator was restarted after
// the state was restored.
func (r *StackRouter) appendRoute(state *nav.State, cfg Config, p nav.Payload) *nav.State {
	next := state.Clone()
	key := uniqueKey(r.keys, takenKeys(state.Routes), p.Key, p.Name)
	next.Routes = append(next.Routes, newRoute(r.keys, cfg, p.Name, key, p.Params))
	next.Index = len(next.Routes) - 1
	return next
}

// pop removes count routes, keeping at least the root. It returns nil at the root.
func pop(state *nav.State, count int) *nav.State {
	if state.Index == 0 {
		return nil
	}
	return truncate(state, max(state.Index-count+1, 1))
}

// truncate keeps the first n routes and focuses the last of them.
func truncate(state *nav.State, n int) *nav.State {
	next := state.Clone()
	next.Routes = next.Routes[:n]
	next.Index = n - 1
	return next
}
