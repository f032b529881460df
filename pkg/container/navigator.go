package container

import (
	"github.com/matzehuels/waypoint/pkg/errors"
	"github.com/matzehuels/waypoint/pkg/routers"
)

// Navigator describes one navigator of the tree and the navigators nested
// in its screens.
type Navigator struct {
	Router routers.Router
	Config routers.Config
	// Children maps a route name to the navigator rendered by that screen.
	Children map[string]*Navigator
}

// Validate checks the configuration of n and of every nested navigator.
func (n *Navigator) Validate() error {
	return n.validate("root")
}

func (n *Navigator) validate(path string) error {
	if n == nil {
		return errors.New(errors.ErrCodeInvalidConfig, "navigator %s is nil", path)
	}
	if n.Router == nil {
		return errors.New(errors.ErrCodeInvalidConfig, "navigator %s has no router", path)
	}
	if err := n.Config.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "navigator %s", path)
	}
	for name, child := range n.Children {
		if !n.Config.Has(name) {
			return errors.New(errors.ErrCodeInvalidConfig, "navigator %s has a child for unknown route %q", path, name)
		}
		if err := child.validate(path + "/" + name); err != nil {
			return err
		}
	}
	return nil
}

// Child returns the navigator hosted by the route called name, or nil.
func (n *Navigator) Child(name string) *Navigator {
	if n == nil {
		return nil
	}
	return n.Children[name]
}
