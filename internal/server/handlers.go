package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/matzehuels/waypoint/pkg/buildinfo"
	"github.com/matzehuels/waypoint/pkg/errors"
	"github.com/matzehuels/waypoint/pkg/nav"
	"github.com/matzehuels/waypoint/pkg/visualize"
)

// maxBody caps request bodies; navigation states are small.
const maxBody = 1 << 20

// ActionResponse is the body returned by POST /actions.
type ActionResponse struct {
	Handled bool       `json:"handled"`
	State   *nav.State `json:"state"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

type errorResponse struct {
	Code  errors.Code `json:"code"`
	Error string      `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	state, ok := s.current(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handlePartial(w http.ResponseWriter, r *http.Request) {
	state, ok := s.current(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, nav.Partial(state))
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	action, err := nav.DecodeAction(body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	handled, err := s.queue.Dispatch(r.Context(), action)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ActionResponse{Handled: handled, State: s.c.State()})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	var partial *nav.State
	if len(body) > 0 {
		if partial, err = nav.DecodePartial(body); err != nil {
			s.writeError(w, err)
			return
		}
	}
	var state *nav.State
	err = s.queue.Do(r.Context(), func(ctx context.Context) error {
		var err error
		state, err = s.c.ResetRoot(ctx, partial)
		return err
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleCanGoBack(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"canGoBack": s.c.CanGoBack()})
}

func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	state, ok := s.current(w)
	if !ok {
		return
	}
	detailed, _ := strconv.ParseBool(r.URL.Query().Get("detailed"))
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	io.WriteString(w, visualize.ToDOT(state, visualize.Options{Detailed: detailed}))
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	state, ok := s.current(w)
	if !ok {
		return
	}
	detailed, _ := strconv.ParseBool(r.URL.Query().Get("detailed"))
	svg, err := visualize.RenderSVG(r.Context(), visualize.ToDOT(state, visualize.Options{Detailed: detailed}))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(svg)
}

// current returns the committed tree, answering 503 when there is none.
func (s *Server) current(w http.ResponseWriter) (*nav.State, bool) {
	state := s.c.State()
	if state == nil {
		s.writeError(w, errors.New(errors.ErrCodeNotInitialized, "navigation tree has not been resolved"))
		return nil, false
	}
	return state, true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{Code: errors.GetCode(err), Error: errors.UserMessage(err)})
}

// statusFor maps error codes to HTTP statuses.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidState, errors.ErrCodeInvalidAction,
		errors.ErrCodeInvalidRouteName, errors.ErrCodeInvalidKey, errors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeTransactionActive:
		return http.StatusConflict
	case errors.ErrCodeNotInitialized, errors.ErrCodeUnsupported:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
