// Package container hosts a navigation tree.
//
// Routers are pure: they turn a state and an action into a new state. A
// [Container] is the stateful side. It owns the root [nav.State] of a tree
// of navigators, routes dispatched actions to the navigator that should
// handle them, serializes transitions, and notifies listeners and stores of
// every committed state.
//
// # Navigator specs
//
// The shape of the tree is described by a [Navigator]: a router, its
// configuration, and the nested navigators hosted by some of its screens,
// keyed by route name. A spec is validated once, when the container is
// built; configuration errors are fatal.
//
// # Mounting
//
// Only the focused path of a tree is guaranteed to be live. Whenever a
// state is committed, the container walks the focused routes from the root
// and mounts each nested navigator: missing state is created with the
// router's initial state, stale (partial) state is rehydrated, and state
// that cannot be rehydrated is replaced with a fresh initial state for that
// navigator only. Nested states off the focused path are left untouched,
// stale or not, until their route is focused.
//
// # Bubbling
//
// Dispatch resolves an action against the tree:
//
//  1. An action with a Target is offered only to the navigator whose state
//     key matches, wherever it is in the tree. If that navigator is missing
//     or returns nil, the action is unhandled; it never falls back to an
//     ancestor.
//  2. Otherwise the action is offered to the innermost focused navigator
//     first, then to each ancestor going outward. The first router that
//     returns a state wins.
//  3. If none does and the action names a route (by name, key or source),
//     the remaining live navigators are tried breadth-first from the root.
//     This is how NAVIGATE reaches a screen in a mounted sibling subtree.
//     GO_BACK and POP never leave the focused path.
//
// The new subtree replaces the old one along the path to the root; every
// other subtree is shared with the previous tree. When the winning router
// reports that the action changes focus, every ancestor also focuses the
// route holding the changed subtree.
//
// An unhandled action is not an error: Dispatch returns false and the
// action is reported to the OnUnhandledAction callback, the logger, and the
// observability hooks.
//
// # Transactions
//
// At most one transaction runs at a time. A second transaction requested
// while one is active (including from a listener) fails with
// TRANSACTION_ACTIVE. Listeners are notified inside the transaction, in
// commit order. Producers that dispatch from several goroutines should go
// through a [Queue], which applies actions one at a time.
package container
