package nav

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/matzehuels/waypoint/pkg/errors"
)

// Partial returns the persisted projection of a tree: navigator keys and
// route names are removed and every node is marked stale, recursively.
// Route keys, params, indices and history are kept so that rehydration can
// restore identity where the configuration still matches.
//
// Partial returns nil for a nil state. The input is not modified.
func Partial(s *State) *State {
	if s == nil {
		return nil
	}
	out := s.Clone()
	out.Key = ""
	out.RouteNames = nil
	out.Stale = true
	for i, r := range out.Routes {
		if r.State != nil {
			out.Routes[i].State = Partial(r.State)
		}
	}
	return out
}

// MarkStale flags s and every nested state as stale in place.
// It is meant for freshly decoded values that nothing else references yet.
func MarkStale(s *State) {
	if s == nil {
		return
	}
	s.Stale = true
	for i := range s.Routes {
		MarkStale(s.Routes[i].State)
	}
}

// Encode writes the JSON form of s.
func Encode(s *State) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteState(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteState writes s as indented JSON to w.
func WriteState(w io.Writer, s *State) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode state")
	}
	return nil
}

// DecodePartial decodes persisted or deep-linked JSON. The result is always
// stale, whatever the payload claims, so that it is rehydrated before use.
func DecodePartial(data []byte) (*State, error) {
	return ReadPartial(bytes.NewReader(data))
}

// ReadPartial is the io.Reader form of [DecodePartial].
func ReadPartial(r io.Reader) (*State, error) {
	var s State
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode state")
	}
	MarkStale(&s)
	return &s, nil
}

// DecodeAction decodes an action in its wire shape.
func DecodeAction(data []byte) (Action, error) {
	var a Action
	if err := json.Unmarshal(data, &a); err != nil {
		return Action{}, errors.Wrap(errors.ErrCodeInvalidAction, err, "decode action")
	}
	if a.Type == "" {
		return Action{}, errors.New(errors.ErrCodeInvalidAction, "decode action: missing type")
	}
	if a.Payload != nil && a.Payload.State != nil {
		MarkStale(a.Payload.State)
	}
	return a, nil
}
