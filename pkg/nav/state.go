package nav

import "maps"

// History entry kinds.
const (
	// HistoryRoute marks an entry recording a focused route key.
	HistoryRoute = "route"
	// HistoryDrawer marks the drawer overlay sentinel.
	HistoryDrawer = "drawer"
)

// Params is an opaque, serializable parameter record attached to a route.
// Params maps are shared between trees and must not be mutated in place.
type Params map[string]any

// Merge returns a new map with the entries of p overlaid by next.
// It returns nil when both maps are empty.
func (p Params) Merge(next Params) Params {
	if len(p) == 0 && len(next) == 0 {
		return nil
	}
	out := make(Params, len(p)+len(next))
	maps.Copy(out, p)
	maps.Copy(out, next)
	return out
}

// Route is one child slot of a navigator.
//
// Key is assigned once when the route is created and never changes for the
// lifetime of that route instance. Name is one of the navigator's configured
// route names and need not be unique among siblings.
type Route struct {
	Key    string `json:"key,omitempty"`
	Name   string `json:"name"`
	Params Params `json:"params,omitempty"`
	State  *State `json:"state,omitempty"`
}

// HistoryEntry is one element of a tab or drawer back-stack.
// Type is [HistoryRoute] (with Key set) or [HistoryDrawer].
type HistoryEntry struct {
	Type string `json:"type"`
	Key  string `json:"key,omitempty"`
}

// RouteEntry returns a history entry for the route with the given key.
func RouteEntry(key string) HistoryEntry {
	return HistoryEntry{Type: HistoryRoute, Key: key}
}

// DrawerEntry returns the drawer overlay sentinel.
func DrawerEntry() HistoryEntry {
	return HistoryEntry{Type: HistoryDrawer}
}

// State is a navigator node of the navigation tree.
type State struct {
	Key        string         `json:"key,omitempty"`
	Index      int            `json:"index"`
	RouteNames []string       `json:"routeNames,omitempty"`
	Routes     []Route        `json:"routes"`
	History    []HistoryEntry `json:"history,omitempty"`
	Stale      bool           `json:"stale"`
	Type       string         `json:"type"`
}

// Clone returns a shallow copy of s whose Routes and History slices can be
// modified without affecting s. Nested states and params are shared.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	next := *s
	if s.Routes != nil {
		next.Routes = make([]Route, len(s.Routes))
		copy(next.Routes, s.Routes)
	}
	if s.History != nil {
		next.History = make([]HistoryEntry, len(s.History))
		copy(next.History, s.History)
	}
	return &next
}

// Focused returns the focused route and true, or a zero Route and false when
// the index is out of range.
func (s *State) Focused() (Route, bool) {
	if s == nil || s.Index < 0 || s.Index >= len(s.Routes) {
		return Route{}, false
	}
	return s.Routes[s.Index], true
}

// IndexOfKey returns the position of the route with the given key, or -1.
func (s *State) IndexOfKey(key string) int {
	if s == nil || key == "" {
		return -1
	}
	for i, r := range s.Routes {
		if r.Key == key {
			return i
		}
	}
	return -1
}

// IndexOfName returns the position of the first route with the given name, or -1.
func (s *State) IndexOfName(name string) int {
	if s == nil {
		return -1
	}
	for i, r := range s.Routes {
		if r.Name == name {
			return i
		}
	}
	return -1
}

// HasRouteName reports whether name is one of the configured route names.
func (s *State) HasRouteName(name string) bool {
	if s == nil {
		return false
	}
	for _, n := range s.RouteNames {
		if n == name {
			return true
		}
	}
	return false
}

// DrawerOpen reports whether the history holds the drawer sentinel.
func (s *State) DrawerOpen() bool {
	if s == nil {
		return false
	}
	for _, h := range s.History {
		if h.Type == HistoryDrawer {
			return true
		}
	}
	return false
}

// Names returns the route names in order.
func (s *State) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, len(s.Routes))
	for i, r := range s.Routes {
		names[i] = r.Name
	}
	return names
}

// FocusedPath returns the chain of states from s down the focused routes,
// starting with s itself.
func (s *State) FocusedPath() []*State {
	var path []*State
	for cur := s; cur != nil; {
		path = append(path, cur)
		r, ok := cur.Focused()
		if !ok {
			break
		}
		cur = r.State
	}
	return path
}

// FocusedLeaf returns the innermost focused route of the tree rooted at s.
func (s *State) FocusedLeaf() (Route, bool) {
	path := s.FocusedPath()
	if len(path) == 0 {
		return Route{}, false
	}
	return path[len(path)-1].Focused()
}
