// Package nav provides the navigation-state tree shared by every router and
// host in Waypoint.
//
// # Overview
//
// A navigation tree has one [State] node per navigator instance. Each node
// holds an ordered list of [Route] entries, one of which is focused
// ([State.Index]). A route may itself carry a nested [State], which is how
// navigators compose: a tab navigator whose "Home" tab hosts a stack, a
// drawer wrapping tabs, and so on.
//
// Nodes are immutable once published. Every transition produces a new node
// and reallocates only the path from the root to the changed subtree; all
// other subtrees are shared by pointer with the previous tree. Callers must
// treat any *State, its slices and its [Params] maps as read-only.
//
// # Partial State
//
// A node with [State.Stale] set is a partial state: it came from persistence
// or a deep link and may lack keys, route names or valid indices. Partial
// states are never handed to a router's transition methods; they are first
// rehydrated against the navigator's current configuration. [Partial]
// produces the persisted projection of a live tree, and [DecodePartial]
// reads one back.
//
// # Invariants
//
// Every non-stale node at rest satisfies the checks in [Validate]:
//
//   - at least one route and 0 <= Index < len(Routes)
//   - RouteNames has no duplicates and every route name is configured
//   - route keys are unique among siblings
//   - history references only present route keys, at most one drawer entry,
//     and no duplicated route key
//
// # Actions
//
// [Action] is the exact wire shape exchanged with hosts and deep-link
// resolvers:
//
//	{"type": "PUSH", "payload": {"name": "Profile"}, "target": "stack-3"}
package nav
