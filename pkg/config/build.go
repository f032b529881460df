package config

import (
	"github.com/matzehuels/waypoint/pkg/container"
	"github.com/matzehuels/waypoint/pkg/errors"
	"github.com/matzehuels/waypoint/pkg/keys"
	"github.com/matzehuels/waypoint/pkg/nav"
	"github.com/matzehuels/waypoint/pkg/routers"
)

// Build turns the navigator section into a container spec. All routers
// share one key generator, taken from the keys setting.
func (f *File) Build() (*container.Navigator, error) {
	g, err := f.KeyGenerator()
	if err != nil {
		return nil, err
	}
	return f.Navigator.Build(g)
}

// Build creates the navigator spec with keys drawn from g.
func (n *NavigatorConfig) Build(g keys.Generator) (*container.Navigator, error) {
	back, err := routers.ParseBackBehavior(n.BackBehavior)
	if err != nil {
		return nil, err
	}
	router, err := routers.New(n.Router, routers.WithKeyGenerator(g), routers.WithBackBehavior(back))
	if err != nil {
		return nil, err
	}

	spec := &container.Navigator{
		Router: router,
		Config: routers.Config{
			RouteNames:       n.Routes,
			InitialRouteName: n.Initial,
		},
	}
	if len(n.Params) > 0 {
		spec.Config.RouteParamList = make(map[string]nav.Params, len(n.Params))
		for name, p := range n.Params {
			spec.Config.RouteParamList[name] = nav.Params(p)
		}
	}
	if len(n.Children) > 0 {
		spec.Children = make(map[string]*container.Navigator, len(n.Children))
		for name, child := range n.Children {
			c, err := child.Build(g)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "navigator %s", name)
			}
			spec.Children[name] = c
		}
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}
