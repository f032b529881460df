package container

import (
	"context"
	"time"

	"github.com/matzehuels/waypoint/pkg/nav"
	"github.com/matzehuels/waypoint/pkg/observability"
	"github.com/matzehuels/waypoint/pkg/routers"
)

// frame is one navigator on a path from the root.
type frame struct {
	spec  *Navigator
	state *nav.State
	// index is the position of the route holding state in the parent frame.
	index int
}

// Dispatch applies action to the tree and reports whether a navigator
// handled it. Unhandled actions are not errors. The error is non-nil when
// the tree has not been resolved or another transaction is active.
func (c *Container) Dispatch(ctx context.Context, action nav.Action) (bool, error) {
	start := time.Now()
	var handledBy routers.Router

	err := c.PerformTransaction(ctx, func(tx *Transaction) error {
		root := tx.State()
		if root == nil {
			return errNotInitialized()
		}
		next, router := resolveAction(tx.spec, root, action)
		if next == nil {
			return nil
		}
		mounted, err := c.mount(ctx, tx.spec, next)
		if err != nil {
			return err
		}
		handledBy = router
		return tx.SetState(mounted)
	})
	if err != nil {
		return false, err
	}

	if handledBy == nil {
		c.unhandled(ctx, action)
		observability.Navigation().OnDispatch(ctx, action.Type, "", false, time.Since(start))
		return false, nil
	}
	c.logger.Debug("action handled", "action", action.String(), "router", handledBy.Type())
	observability.Navigation().OnDispatch(ctx, action.Type, handledBy.Type(), true, time.Since(start))
	return true, nil
}

func (c *Container) unhandled(ctx context.Context, action nav.Action) {
	c.logger.Warn("action was not handled by any navigator", "action", action.String())
	observability.Navigation().OnUnhandled(ctx, action.Type)
	if c.onUnhandled != nil {
		c.onUnhandled(action)
	}
}

// resolveAction finds the navigator handling action and returns the new
// root with the router that handled it, or nil when nobody did.
func resolveAction(spec *Navigator, root *nav.State, action nav.Action) (*nav.State, routers.Router) {
	var path []frame
	if action.Target != "" {
		path = pathToKey(spec, root, action.Target)
		if path == nil {
			return nil, nil
		}
		f := path[len(path)-1]
		next := f.spec.Router.GetStateForAction(f.state, action, f.spec.Config)
		if next == nil {
			return nil, nil
		}
		return rebuild(path, len(path)-1, next, f.spec.Router.ShouldActionChangeFocus(action)), f.spec.Router
	}

	path = focusedPath(spec, root)
	for i := len(path) - 1; i >= 0; i-- {
		f := path[i]
		next := f.spec.Router.GetStateForAction(f.state, action, f.spec.Config)
		if next == nil {
			continue
		}
		return rebuild(path, i, next, f.spec.Router.ShouldActionChangeFocus(action)), f.spec.Router
	}
	if !namesRoute(action) {
		return nil, nil
	}

	// Off the focused path, the first live navigator in breadth-first order
	// that accepts the action wins.
	tried := make(map[*nav.State]struct{}, len(path))
	for _, f := range path {
		tried[f.state] = struct{}{}
	}
	for _, p := range livePaths(spec, root) {
		f := p[len(p)-1]
		if _, ok := tried[f.state]; ok {
			continue
		}
		next := f.spec.Router.GetStateForAction(f.state, action, f.spec.Config)
		if next == nil {
			continue
		}
		return rebuild(p, len(p)-1, next, f.spec.Router.ShouldActionChangeFocus(action)), f.spec.Router
	}
	return nil, nil
}

// namesRoute reports whether action addresses a route by name or key. Only
// such actions are searched for outside the focused path; GO_BACK and POP
// never are.
func namesRoute(action nav.Action) bool {
	p := action.P()
	return p.Name != "" || p.Key != "" || action.Source != ""
}

// rebuild replaces path[i] with next and reallocates its ancestors. With
// focus set, every ancestor focuses the route leading to the change.
func rebuild(path []frame, i int, next *nav.State, focus bool) *nav.State {
	for j := i; j > 0; j-- {
		parent := path[j-1]
		p := parent.state.Clone()
		p.Routes[path[j].index].State = next
		if focus {
			p = parent.spec.Router.GetStateForRouteFocus(p, p.Routes[path[j].index].Key, parent.spec.Config)
		}
		next = p
	}
	return next
}

// focusedPath returns the live navigators along the focused routes.
func focusedPath(spec *Navigator, root *nav.State) []frame {
	path := []frame{{spec: spec, state: root, index: -1}}
	for {
		f := path[len(path)-1]
		r, ok := f.state.Focused()
		if !ok || r.State == nil || r.State.Stale {
			return path
		}
		child := f.spec.Child(r.Name)
		if child == nil {
			return path
		}
		path = append(path, frame{spec: child, state: r.State, index: f.state.Index})
	}
}

// pathToKey searches the tree breadth-first for the navigator whose state
// key is key and returns the path to it, or nil.
func pathToKey(spec *Navigator, root *nav.State, key string) []frame {
	var found []frame
	walk(spec, root, false, func(path []frame) bool {
		if path[len(path)-1].state.Key == key {
			found = path
			return false
		}
		return true
	})
	return found
}

// livePaths returns the paths to every non-stale navigator in breadth-first
// order, root first.
func livePaths(spec *Navigator, root *nav.State) [][]frame {
	var paths [][]frame
	walk(spec, root, true, func(path []frame) bool {
		paths = append(paths, path)
		return true
	})
	return paths
}

// walk visits the navigators of the tree breadth-first until visit returns
// false. With live set, stale subtrees are skipped.
func walk(spec *Navigator, root *nav.State, live bool, visit func(path []frame) bool) {
	queue := [][]frame{{{spec: spec, state: root, index: -1}}}
	for len(queue) > 0 {
		path := queue[0]
		queue = queue[1:]
		if !visit(path) {
			return
		}
		f := path[len(path)-1]
		for i, r := range f.state.Routes {
			child := f.spec.Child(r.Name)
			if child == nil || r.State == nil || (live && r.State.Stale) {
				continue
			}
			next := make([]frame, len(path), len(path)+1)
			copy(next, path)
			queue = append(queue, append(next, frame{spec: child, state: r.State, index: i}))
		}
	}
}
