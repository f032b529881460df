package nav

import "fmt"

// Action is a navigation request.
//
// Source optionally names the route key the action originates from; routers
// use it to pick the route an action applies to (for example REPLACE or
// SET_PARAMS). Target optionally pins the action to the navigator whose
// state key matches; a pinned action never bubbles past that navigator.
type Action struct {
	Type    string   `json:"type"`
	Payload *Payload `json:"payload,omitempty"`
	Source  string   `json:"source,omitempty"`
	Target  string   `json:"target,omitempty"`
}

// Payload carries the arguments of an action. Only the fields relevant to
// the action type are set; the rest are omitted from the wire format.
type Payload struct {
	Name   string `json:"name,omitempty"`
	Key    string `json:"key,omitempty"`
	Params Params `json:"params,omitempty"`
	Count  int    `json:"count,omitempty"`
	State  *State `json:"state,omitempty"`
}

// P returns the payload, or an empty payload when none is set.
func (a Action) P() Payload {
	if a.Payload == nil {
		return Payload{}
	}
	return *a.Payload
}

// WithTarget returns a copy of a pinned to the navigator with the given key.
func (a Action) WithTarget(key string) Action {
	a.Target = key
	return a
}

// WithSource returns a copy of a originating from the route with the given key.
func (a Action) WithSource(key string) Action {
	a.Source = key
	return a
}

// String returns a compact description for logs.
func (a Action) String() string {
	s := a.Type
	if p := a.Payload; p != nil {
		switch {
		case p.Name != "":
			s += "(" + p.Name + ")"
		case p.Key != "":
			s += "(" + p.Key + ")"
		case p.Count > 0:
			s += fmt.Sprintf("(%d)", p.Count)
		}
	}
	if a.Target != "" {
		s += "@" + a.Target
	}
	return s
}
