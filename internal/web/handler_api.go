package web

import (
	"encoding/json"
	"net/http"

	"github.com/vbonduro/roombook/internal/service"
)

// apiResult is the response body of every /api endpoint: exactly one of Data
// or Error is set.
type apiResult struct {
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

func (s *Server) handleAPIListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.service.List(r.Context())
	if err != nil {
		s.writeAPIError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, apiResult{Data: rooms})
}

func (s *Server) handleAPIGetRoom(w http.ResponseWriter, r *http.Request) {
	room, err := s.service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeAPIError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, apiResult{Data: room})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Healthy(r.Context()); err != nil {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) writeAPIError(w http.ResponseWriter, err error) {
	status := http.StatusServiceUnavailable
	if service.KindOf(err) == service.KindNotFound {
		status = http.StatusNotFound
	}
	s.writeJSON(w, status, apiResult{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body apiResult) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("write json failed", "error", err)
	}
}
