package routers

import (
	"slices"

	"github.com/matzehuels/waypoint/pkg/nav"
)

// DrawerRouter is a tab router with an overlay. The overlay is open while
// the drawer sentinel is present in history, which gives GO_BACK a single
// precedence rule: dismissing the drawer outranks tab history.
type DrawerRouter struct {
	tab *TabRouter
}

// NewDrawerRouter returns a drawer router. The default back behavior is
// [BackHistory].
func NewDrawerRouter(opts ...Option) *DrawerRouter {
	o := buildOptions(opts)
	return &DrawerRouter{tab: &TabRouter{keys: o.keys, back: o.back, typ: TypeDrawer}}
}

// Type returns "drawer".
func (r *DrawerRouter) Type() string { return TypeDrawer }

// BackBehavior returns the back behavior of the wrapped tab router.
func (r *DrawerRouter) BackBehavior() BackBehavior { return r.tab.back }

// GetInitialState returns the tab initial state with the drawer closed.
func (r *DrawerRouter) GetInitialState(cfg Config) (*nav.State, error) {
	return r.tab.GetInitialState(cfg)
}

// GetRehydratedState rehydrates like a tab router. A drawer that was open in
// partial is open in the result.
func (r *DrawerRouter) GetRehydratedState(partial *nav.State, cfg Config) (*nav.State, error) {
	return r.tab.GetRehydratedState(partial, cfg)
}

// GetStateForRouteFocus focuses key and closes the drawer.
func (r *DrawerRouter) GetStateForRouteFocus(state *nav.State, key string, cfg Config) *nav.State {
	return closeDrawer(r.tab.GetStateForRouteFocus(state, key, cfg))
}

// ShouldActionChangeFocus is true for NAVIGATE and JUMP_TO.
func (r *DrawerRouter) ShouldActionChangeFocus(action nav.Action) bool {
	return r.tab.ShouldActionChangeFocus(action)
}

// ActionCreators returns the tab action factories plus the drawer actions.
func (r *DrawerRouter) ActionCreators() map[string]ActionCreator {
	return creators(ActionNavigate, ActionReset, ActionGoBack, ActionSetParams, ActionJumpTo,
		ActionOpenDrawer, ActionCloseDrawer, ActionToggleDrawer)
}

// GetStateForAction applies the drawer actions and delegates the rest to the
// tab router. GO_BACK closes an open drawer before walking tab history.
func (r *DrawerRouter) GetStateForAction(state *nav.State, action nav.Action, cfg Config) *nav.State {
	if !usable(state) {
		return nil
	}

	switch action.Type {
	case ActionOpenDrawer:
		return openDrawer(state)

	case ActionCloseDrawer:
		return closeDrawer(state)

	case ActionToggleDrawer:
		if state.DrawerOpen() {
			return closeDrawer(state)
		}
		return openDrawer(state)

	case ActionGoBack:
		if state.DrawerOpen() {
			return closeDrawer(state)
		}
		return r.tab.GetStateForAction(state, action, cfg)

	case ActionJumpTo, ActionNavigate:
		next := r.tab.GetStateForAction(state, action, cfg)
		if next == nil {
			return nil
		}
		return closeDrawer(next)
	}
	return r.tab.GetStateForAction(state, action, cfg)
}

// openDrawer appends the drawer sentinel unless it is already last.
func openDrawer(state *nav.State) *nav.State {
	if n := len(state.History); n > 0 && state.History[n-1].Type == nav.HistoryDrawer {
		return state
	}
	next := state.Clone()
	next.History = append(withoutDrawer(state.History), nav.DrawerEntry())
	return next
}

// closeDrawer removes every drawer sentinel. A closed drawer is returned as is.
func closeDrawer(state *nav.State) *nav.State {
	if !state.DrawerOpen() {
		return state
	}
	next := state.Clone()
	next.History = withoutDrawer(state.History)
	return next
}

func withoutDrawer(history []nav.HistoryEntry) []nav.HistoryEntry {
	return slices.DeleteFunc(slices.Clone(history), func(h nav.HistoryEntry) bool {
		return h.Type == nav.HistoryDrawer
	})
}
