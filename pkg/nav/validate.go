package nav

import (
	"github.com/matzehuels/waypoint/pkg/errors"
)

// Validate checks the at-rest invariants of a single non-stale node.
// Nested states are not inspected; use [ValidateTree] for that.
func Validate(s *State) error {
	if s == nil {
		return errors.New(errors.ErrCodeInvalidState, "state is nil")
	}
	if s.Stale {
		return errors.New(errors.ErrCodeInvalidState, "navigator %q is stale", s.Key)
	}
	if len(s.Routes) == 0 {
		return errors.New(errors.ErrCodeInvalidState, "navigator %q has no routes", s.Key)
	}
	if s.Index < 0 || s.Index >= len(s.Routes) {
		return errors.New(errors.ErrCodeInvalidState, "navigator %q index %d out of range [0,%d)", s.Key, s.Index, len(s.Routes))
	}

	names := make(map[string]struct{}, len(s.RouteNames))
	for _, n := range s.RouteNames {
		if _, dup := names[n]; dup {
			return errors.New(errors.ErrCodeInvalidState, "navigator %q has duplicate route name %q", s.Key, n)
		}
		names[n] = struct{}{}
	}

	keys := make(map[string]struct{}, len(s.Routes))
	for _, r := range s.Routes {
		if _, ok := names[r.Name]; !ok {
			return errors.New(errors.ErrCodeInvalidState, "navigator %q has unconfigured route %q", s.Key, r.Name)
		}
		if r.Key == "" {
			return errors.New(errors.ErrCodeInvalidState, "navigator %q has route %q without key", s.Key, r.Name)
		}
		if _, dup := keys[r.Key]; dup {
			return errors.New(errors.ErrCodeInvalidState, "navigator %q has duplicate route key %q", s.Key, r.Key)
		}
		keys[r.Key] = struct{}{}
	}

	seen := make(map[string]struct{}, len(s.History))
	drawers := 0
	for _, h := range s.History {
		switch h.Type {
		case HistoryDrawer:
			drawers++
			if drawers > 1 {
				return errors.New(errors.ErrCodeInvalidState, "navigator %q has more than one drawer entry", s.Key)
			}
		case HistoryRoute:
			if _, ok := keys[h.Key]; !ok {
				return errors.New(errors.ErrCodeInvalidState, "navigator %q history references missing key %q", s.Key, h.Key)
			}
			if _, dup := seen[h.Key]; dup {
				return errors.New(errors.ErrCodeInvalidState, "navigator %q history repeats key %q", s.Key, h.Key)
			}
			seen[h.Key] = struct{}{}
		default:
			return errors.New(errors.ErrCodeInvalidState, "navigator %q has unknown history entry %q", s.Key, h.Type)
		}
	}
	return nil
}

// ValidateTree validates s and every nested state that is not stale.
// Stale nested states are allowed off the focused path: they are rehydrated
// when their route is focused.
func ValidateTree(s *State) error {
	if err := Validate(s); err != nil {
		return err
	}
	for i, r := range s.Routes {
		if r.State == nil {
			continue
		}
		if r.State.Stale {
			if i == s.Index {
				return errors.New(errors.ErrCodeInvalidState, "focused route %q of %q holds stale state", r.Key, s.Key)
			}
			continue
		}
		if err := ValidateTree(r.State); err != nil {
			return err
		}
	}
	return nil
}

// UniqueKeys reports whether route keys are unique among siblings.
func UniqueKeys(s *State) bool {
	seen := make(map[string]struct{}, len(s.Routes))
	for _, r := range s.Routes {
		if _, dup := seen[r.Key]; dup {
			return false
		}
		seen[r.Key] = struct{}{}
	}
	return true
}
