package routers

import "github.com/matzehuels/waypoint/pkg/nav"

// Common actions understood by every router.
const (
	ActionNavigate  = "NAVIGATE"
	ActionReset     = "RESET"
	ActionGoBack    = "GO_BACK"
	ActionSetParams = "SET_PARAMS"
)

// Stack actions.
const (
	ActionPush     = "PUSH"
	ActionPop      = "POP"
	ActionPopToTop = "POP_TO_TOP"
	ActionReplace  = "REPLACE"
)

// Tab actions.
const (
	ActionJumpTo = "JUMP_TO"
)

// Drawer actions.
const (
	ActionOpenDrawer   = "OPEN_DRAWER"
	ActionCloseDrawer  = "CLOSE_DRAWER"
	ActionToggleDrawer = "TOGGLE_DRAWER"
)

// Navigate focuses the route called name, creating it where the navigator
// allows (stack push).
func Navigate(name string, params nav.Params) nav.Action {
	return nav.Action{Type: ActionNavigate, Payload: &nav.Payload{Name: name, Params: params}}
}

// NavigateKey focuses the existing route with the given key.
func NavigateKey(key string, params nav.Params) nav.Action {
	return nav.Action{Type: ActionNavigate, Payload: &nav.Payload{Key: key, Params: params}}
}

// Reset replaces the handling navigator's state with state.
func Reset(state *nav.State) nav.Action {
	return nav.Action{Type: ActionReset, Payload: &nav.Payload{State: state}}
}

// GoBack asks the innermost navigator able to go back to do so.
func GoBack() nav.Action {
	return nav.Action{Type: ActionGoBack}
}

// SetParams merges params into the focused route, or into the route named by
// the action's Source.
func SetParams(params nav.Params) nav.Action {
	return nav.Action{Type: ActionSetParams, Payload: &nav.Payload{Params: params}}
}

// Push appends a new route called name.
func Push(name string, params nav.Params) nav.Action {
	return nav.Action{Type: ActionPush, Payload: &nav.Payload{Name: name, Params: params}}
}

// Pop removes the last count routes (at least one, never the root).
func Pop(count int) nav.Action {
	return nav.Action{Type: ActionPop, Payload: &nav.Payload{Count: count}}
}

// PopToTop truncates the stack to its first route.
func PopToTop() nav.Action {
	return nav.Action{Type: ActionPopToTop}
}

// Replace substitutes the focused route in place, keeping its key.
func Replace(name string, params nav.Params) nav.Action {
	return nav.Action{Type: ActionReplace, Payload: &nav.Payload{Name: name, Params: params}}
}

// ReplaceWithKey substitutes the focused route and assigns it key.
func ReplaceWithKey(name, key string, params nav.Params) nav.Action {
	return nav.Action{Type: ActionReplace, Payload: &nav.Payload{Name: name, Key: key, Params: params}}
}

// JumpTo focuses the sibling called name.
func JumpTo(name string, params nav.Params) nav.Action {
	return nav.Action{Type: ActionJumpTo, Payload: &nav.Payload{Name: name, Params: params}}
}

// OpenDrawer opens the drawer overlay.
func OpenDrawer() nav.Action { return nav.Action{Type: ActionOpenDrawer} }

// CloseDrawer closes the drawer overlay.
func CloseDrawer() nav.Action { return nav.Action{Type: ActionCloseDrawer} }

// ToggleDrawer flips the drawer overlay.
func ToggleDrawer() nav.Action { return nav.Action{Type: ActionToggleDrawer} }

func creator(typ string) ActionCreator {
	return func(p nav.Payload) nav.Action {
		a := nav.Action{Type: typ}
		if p.Name != "" || p.Key != "" || p.Params != nil || p.Count != 0 || p.State != nil {
			a.Payload = &p
		}
		return a
	}
}

func creators(types ...string) map[string]ActionCreator {
	m := make(map[string]ActionCreator, len(types))
	for _, t := range types {
		m[t] = creator(t)
	}
	return m
}
