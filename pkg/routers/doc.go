// Package routers implements the navigation policies of Waypoint.
//
// A [Router] is a pure, stateless transition policy. It never holds state of
// its own: every method takes the current [nav.State] (plus the navigator's
// [Config]) and returns a new one, leaving its input untouched. Hosts such as
// pkg/container own the tree and decide which router sees which action.
//
// # Policies
//
//   - [StackRouter]: push/pop history. The focused route is always the last.
//   - [TabRouter]: a fixed list of siblings selected by index, with a
//     configurable [BackBehavior] deciding what GO_BACK does.
//   - [DrawerRouter]: tab semantics plus a drawer overlay modeled as a
//     sentinel entry in the tab history, so that closing the drawer always
//     outranks tab back-navigation.
//
// # Contract
//
// GetStateForAction returns nil when the router does not handle an action.
// That is not an error: it tells the host to keep bubbling. Configuration
// errors (empty route list, unknown initial route, duplicate names) are
// reported by GetInitialState and GetRehydratedState. Malformed partial
// state is never an error; it is clamped and defaulted.
//
// # Keys
//
// Routers obtain fresh keys from an injected [keys.Generator]
// ([WithKeyGenerator]); tests use [keys.NewCounter] for exact assertions.
//
// # Example
//
//	r := routers.NewTabRouter(routers.WithBackBehavior(routers.BackHistory))
//	cfg := routers.Config{RouteNames: []string{"Home", "Search", "Profile"}}
//
//	s, _ := r.GetInitialState(cfg)
//	s = r.GetStateForAction(s, routers.JumpTo("Search", nil), cfg)
//	s = r.GetStateForAction(s, routers.GoBack(), cfg) // back on "Home"
package routers
