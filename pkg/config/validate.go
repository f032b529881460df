package config

import (
	stderrors "errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/waypoint/pkg/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and the cross-references of the
// navigator tree.
func (f *File) Validate() error {
	if err := validate.Struct(f); err != nil {
		return fieldErrors("config", err)
	}
	return f.Navigator.validate("navigator")
}

func (n *NavigatorConfig) validate(path string) error {
	if err := validate.Struct(n); err != nil {
		return fieldErrors(path, err)
	}
	for _, r := range n.Routes {
		if err := errors.ValidateRouteName(r); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s.routes", path)
		}
	}
	if n.Initial != "" && !slices.Contains(n.Routes, n.Initial) {
		return errors.New(errors.ErrCodeInvalidConfig, "%s.initial: %q is not one of %v", path, n.Initial, n.Routes)
	}
	for name := range n.Params {
		if !slices.Contains(n.Routes, name) {
			return errors.New(errors.ErrCodeInvalidConfig, "%s.params: unknown route %q", path, name)
		}
	}
	for _, name := range sortedKeys(n.Children) {
		if !slices.Contains(n.Routes, name) {
			return errors.New(errors.ErrCodeInvalidConfig, "%s.children: unknown route %q", path, name)
		}
		if err := n.Children[name].validate(path + ".children." + name); err != nil {
			return err
		}
	}
	return nil
}

// fieldErrors flattens validator output into one coded error.
func fieldErrors(path string, err error) error {
	var ve validator.ValidationErrors
	if !stderrors.As(err, &ve) {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", path)
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msg := fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag())
		if fe.Param() != "" {
			msg += " (" + fe.Param() + ")"
		}
		msgs = append(msgs, msg)
	}
	return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s: %s", path, strings.Join(msgs, "; "))
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
