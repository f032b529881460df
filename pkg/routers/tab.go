package routers

import (
	"slices"

	"github.com/matzehuels/waypoint/pkg/errors"
	"github.com/matzehuels/waypoint/pkg/keys"
	"github.com/matzehuels/waypoint/pkg/nav"
)

// BackBehavior selects what GO_BACK does in a tab or drawer navigator.
type BackBehavior string

const (
	// BackHistory returns to previously focused tabs in visit order.
	BackHistory BackBehavior = "history"
	// BackInitialRoute returns to the initial tab in a single step.
	BackInitialRoute BackBehavior = "initialRoute"
	// BackOrder returns to the previous sibling by position.
	BackOrder BackBehavior = "order"
	// BackNone never handles GO_BACK.
	BackNone BackBehavior = "none"
)

// ParseBackBehavior validates s. Empty input yields [BackHistory].
func ParseBackBehavior(s string) (BackBehavior, error) {
	switch b := BackBehavior(s); b {
	case "":
		return BackHistory, nil
	case BackHistory, BackInitialRoute, BackOrder, BackNone:
		return b, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidConfig, "unknown back behavior %q", s)
	}
}

// TabRouter selects one of a fixed list of siblings. The route list is built
// from the configuration and never grows or shrinks through actions.
//
// Back navigation is driven by the history field: a list of route entries
// whose last element is the focused route. Its content depends on the back
// behavior, and a drawer sentinel, when present, is always kept last.
type TabRouter struct {
	keys keys.Generator
	back BackBehavior
	typ  string
}

// NewTabRouter returns a tab router. The default back behavior is [BackHistory].
func NewTabRouter(opts ...Option) *TabRouter {
	o := buildOptions(opts)
	return &TabRouter{keys: o.keys, back: o.back, typ: TypeTab}
}

// Type returns "tab".
func (r *TabRouter) Type() string { return r.typ }

// BackBehavior returns the configured back behavior.
func (r *TabRouter) BackBehavior() BackBehavior { return r.back }

// GetInitialState creates one route per configured name and focuses the
// initial route.
func (r *TabRouter) GetInitialState(cfg Config) (*nav.State, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	routes := make([]nav.Route, len(cfg.RouteNames))
	for i, name := range cfg.RouteNames {
		routes[i] = newRoute(r.keys, cfg, name, "", nil)
	}
	index := cfg.InitialIndex()
	return &nav.State{
		Key:        r.keys.Key(r.typ),
		Index:      index,
		RouteNames: slices.Clone(cfg.RouteNames),
		Routes:     routes,
		History:    r.routeHistory(routes, index, cfg.InitialIndex()),
		Type:       r.typ,
	}, nil
}

// GetRehydratedState rebuilds the sibling list from the current route names,
// reusing keys, params and nested state of partial routes with matching
// names. An out-of-range index is clamped into the partial's routes first.
// The focused name is kept when still configured, otherwise the initial
// route is focused. History keeps only keys that survived, and an
// open drawer stays open.
func (r *TabRouter) GetRehydratedState(partial *nav.State, cfg Config) (*nav.State, error) {
	if partial == nil {
		return r.GetInitialState(cfg)
	}
	if !partial.Stale {
		return partial, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	taken := make(map[string]struct{}, len(cfg.RouteNames))
	routes := make([]nav.Route, len(cfg.RouteNames))
	for i, name := range cfg.RouteNames {
		idx := partial.IndexOfName(name)
		if idx == -1 {
			routes[i] = newRoute(r.keys, cfg, name, uniqueKey(r.keys, taken, "", name), nil)
			continue
		}
		pr := partial.Routes[idx]
		routes[i] = nav.Route{
			Key:    uniqueKey(r.keys, taken, pr.Key, name),
			Name:   name,
			Params: cfg.Params(name).Merge(pr.Params),
			State:  pr.State,
		}
	}

	index := cfg.InitialIndex()
	if n := len(partial.Routes); n > 0 {
		pos := min(max(partial.Index, 0), n-1)
		if i := slices.Index(cfg.RouteNames, partial.Routes[pos].Name); i != -1 {
			index = i
		}
	}

	s := &nav.State{
		Key:        r.keys.Key(r.typ),
		Index:      index,
		RouteNames: slices.Clone(cfg.RouteNames),
		Routes:     routes,
		Type:       r.typ,
	}
	if r.back == BackHistory {
		s.History = survivingHistory(partial.History, s)
	} else {
		s.History = r.routeHistory(routes, index, cfg.InitialIndex())
	}
	if partial.DrawerOpen() {
		s.History = append(s.History, nav.DrawerEntry())
	}
	return s, nil
}

// GetStateForRouteFocus focuses the route with key.
func (r *TabRouter) GetStateForRouteFocus(state *nav.State, key string, cfg Config) *nav.State {
	idx := state.IndexOfKey(key)
	if idx == -1 || idx == state.Index {
		return state
	}
	return r.changeIndex(state, idx, cfg)
}

// ShouldActionChangeFocus is true for NAVIGATE and JUMP_TO.
func (r *TabRouter) ShouldActionChangeFocus(action nav.Action) bool {
	return action.Type == ActionNavigate || action.Type == ActionJumpTo
}

// ActionCreators returns the common and tab action factories.
func (r *TabRouter) ActionCreators() map[string]ActionCreator {
	return creators(ActionNavigate, ActionReset, ActionGoBack, ActionSetParams, ActionJumpTo)
}

// GetStateForAction applies JUMP_TO, NAVIGATE, GO_BACK, RESET and SET_PARAMS.
func (r *TabRouter) GetStateForAction(state *nav.State, action nav.Action, cfg Config) *nav.State {
	if !usable(state) {
		return nil
	}
	p := action.P()

	switch action.Type {
	case ActionJumpTo, ActionNavigate:
		idx := -1
		switch {
		case p.Key != "":
			idx = state.IndexOfKey(p.Key)
		case p.Name != "":
			idx = state.IndexOfName(p.Name)
		}
		if idx == -1 {
			return nil
		}
		next := r.changeIndex(state, idx, cfg)
		if p.Params != nil {
			next.Routes[idx].Params = next.Routes[idx].Params.Merge(p.Params)
		}
		return next

	case ActionGoBack:
		return r.goBack(state)

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

// goBack focuses the route recorded before the current one.
func (r *TabRouter) goBack(state *nav.State) *nav.State {
	if r.back == BackNone {
		return nil
	}

	last, prev := -1, -1
	for i := len(state.History) - 1; i >= 0; i-- {
		if state.History[i].Type != nav.HistoryRoute {
			continue
		}
		if last == -1 {
			last = i
			continue
		}
		prev = i
		break
	}
	if prev == -1 {
		return nil
	}

	idx := state.IndexOfKey(state.History[prev].Key)
	if idx == -1 {
		return nil
	}

	next := state.Clone()
	next.Index = idx
	next.History = slices.Delete(next.History, last, last+1)
	return next
}

// changeIndex focuses idx and updates history according to the back behavior.
// A drawer sentinel survives the change and stays last.
func (r *TabRouter) changeIndex(state *nav.State, idx int, cfg Config) *nav.State {
	next := state.Clone()
	next.Index = idx
	key := state.Routes[idx].Key

	var history []nav.HistoryEntry
	if r.back == BackHistory {
		history = make([]nav.HistoryEntry, 0, len(state.History)+1)
		for _, h := range state.History {
			if h.Type == nav.HistoryRoute && h.Key != key {
				history = append(history, h)
			}
		}
		history = append(history, nav.RouteEntry(key))
	} else {
		history = r.routeHistory(state.Routes, idx, cfg.InitialIndex())
	}
	if state.DrawerOpen() {
		history = append(history, nav.DrawerEntry())
	}
	next.History = history
	return next
}

// routeHistory computes the history implied by focusing index for the
// behaviors that do not record visits.
func (r *TabRouter) routeHistory(routes []nav.Route, index, initial int) []nav.HistoryEntry {
	history := []nav.HistoryEntry{nav.RouteEntry(routes[index].Key)}
	switch r.back {
	case BackInitialRoute:
		if index != initial && initial < len(routes) {
			history = append([]nav.HistoryEntry{nav.RouteEntry(routes[initial].Key)}, history...)
		}
	case BackOrder:
		for i := index; i > 0; i-- {
			history = append([]nav.HistoryEntry{nav.RouteEntry(routes[i-1].Key)}, history...)
		}
	}
	return history
}

// survivingHistory keeps route entries of old whose key exists in s,
// without duplicates (latest visit wins), and ends with the focused key.
func survivingHistory(old []nav.HistoryEntry, s *nav.State) []nav.HistoryEntry {
	focused := s.Routes[s.Index].Key
	history := make([]nav.HistoryEntry, 0, len(old)+1)
	for i, h := range old {
		if h.Type != nav.HistoryRoute || h.Key == focused || s.IndexOfKey(h.Key) == -1 {
			continue
		}
		if slices.ContainsFunc(old[i+1:], func(later nav.HistoryEntry) bool {
			return later.Type == nav.HistoryRoute && later.Key == h.Key
		}) {
			continue
		}
		history = append(history, h)
	}
	return append(history, nav.RouteEntry(focused))
}
