// Package pkg provides the core libraries of the Waypoint navigation engine.
//
// # Overview
//
// Waypoint keeps the navigation state of an application as a tree: every
// node is a navigator (stack, tab or drawer) holding an ordered list of
// routes, and a route may host a nested navigator. Actions such as PUSH,
// GO_BACK or JUMP_TO are offered to the innermost focused navigator first
// and bubble outward until one handles them. The pkg directory is organized
// into three areas:
//
//  1. State model - [nav] (tree, actions, partial projection) and [keys]
//  2. Policies and hosting - [routers] and [container]
//  3. Infrastructure - [config], [persist], [observability], [visualize]
//
// # Architecture
//
// The typical flow of one action:
//
//	Action (CLI, HTTP, code)
//	         ↓
//	    [container] (transaction guard, bubbling along the focused path)
//	         ↓
//	    [routers] (stack/tab/drawer policy returns a new navigator state)
//	         ↓
//	    [container] (mount nested navigators, notify listeners)
//	         ↓
//	    [persist] (save the partial projection)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/waypoint/pkg/container"
//	    "github.com/matzehuels/waypoint/pkg/routers"
//	)
//
//	spec := &container.Navigator{
//	    Router: routers.NewTabRouter(),
//	    Config: routers.Config{RouteNames: []string{"Home", "Profile"}},
//	    Children: map[string]*container.Navigator{
//	        "Home": {
//	            Router: routers.NewStackRouter(),
//	            Config: routers.Config{RouteNames: []string{"Feed", "Article"}},
//	        },
//	    },
//	}
//	c, _ := container.New(spec)
//	c.Resolve(ctx, nil)
//	c.Dispatch(ctx, routers.Push("Article", nil))  // handled by the Home stack
//	c.Dispatch(ctx, routers.JumpTo("Profile", nil)) // bubbles to the tabs
//
// # Main Packages
//
// [nav] - The navigation tree, the action wire shape and the partial-state
// projection used for persistence and deep links.
//
// [keys] - Key generation (UUID in production, counters in tests).
//
// [routers] - The router contract and the stack, tab and drawer policies.
// Routers are pure: they never mutate their input.
//
// [container] - The host: navigator spec tree, action bubbling, the single
// transaction guard, listeners and a serial dispatch queue.
//
// [config] - Navigator trees from TOML or YAML, validated, with live reload.
//
// [persist] - Stores for partial states: file, memory, Redis, MongoDB.
//
// [observability] - Hook registry with a Prometheus implementation.
//
// [visualize] - Graphviz diagrams of navigation trees.
//
// [errors] - Coded errors shared by every package.
//
// # Testing
//
// Run tests:
//
//	go test ./...                        # All tests
//	go test -run Example ./pkg/...       # Examples only
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB stores
package pkg
