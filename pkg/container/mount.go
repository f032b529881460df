package container

import (
	"context"

	"github.com/matzehuels/waypoint/pkg/nav"
	"github.com/matzehuels/waypoint/pkg/observability"
)

// mount makes every navigator on the focused path of state live against
// spec. Subtrees that need no change are returned as is.
func (c *Container) mount(ctx context.Context, spec *Navigator, state *nav.State) (*nav.State, error) {
	live, err := c.mountNode(ctx, spec, state)
	if err != nil {
		return nil, err
	}

	focused, ok := live.Focused()
	if !ok {
		return live, nil
	}
	child := spec.Child(focused.Name)
	if child == nil {
		return live, nil
	}
	nested, err := c.mount(ctx, child, focused.State)
	if err != nil {
		return nil, err
	}
	if nested == focused.State {
		return live, nil
	}
	next := live.Clone()
	next.Routes[next.Index].State = nested
	return next, nil
}

// mountNode returns a live state for a single navigator. Only invalid
// configuration is an error; unusable state is replaced.
func (c *Container) mountNode(ctx context.Context, spec *Navigator, state *nav.State) (*nav.State, error) {
	router := spec.Router
	if state == nil {
		return router.GetInitialState(spec.Config)
	}

	if state.Type != "" && state.Type != router.Type() {
		c.logger.Warn("replacing navigator state of another type", "want", router.Type(), "got", state.Type)
		observability.Navigation().OnRehydrate(ctx, router.Type(), true)
		return router.GetInitialState(spec.Config)
	}

	if !state.Stale {
		err := c.checkLive(spec, state)
		if err == nil {
			return state, nil
		}
		c.logger.Warn("rehydrating inconsistent navigator state", "router", router.Type(), "key", state.Key, "error", err)
		state = nav.Partial(state)
	}

	next, err := router.GetRehydratedState(state, spec.Config)
	if err == nil {
		err = c.checkLive(spec, next)
	}
	if err != nil {
		c.logger.Warn("replacing corrupt navigator state", "router", router.Type(), "error", err)
		observability.Navigation().OnRehydrate(ctx, router.Type(), true)
		return router.GetInitialState(spec.Config)
	}
	observability.Navigation().OnRehydrate(ctx, router.Type(), false)
	return next, nil
}

// checkLive validates a non-stale node against the navigator's configuration.
func (c *Container) checkLive(spec *Navigator, state *nav.State) error {
	if err := nav.Validate(state); err != nil {
		return err
	}
	for _, r := range state.Routes {
		if !spec.Config.Has(r.Name) {
			return errNotConfigured(r.Name)
		}
	}
	return nil
}
