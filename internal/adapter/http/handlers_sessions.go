package adapthttp

import (
	"net/http"

	"github.com/eeturonkko/putter/internal/domain"
)

type createSessionRequest struct {
	Name string `json:"name"`
	Date string `json:"date"`
}

type sessionDetailResponse struct {
	*domain.Session
	Stats domain.Stats `json:"stats"`
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	list, err := s.sessions.ListSessions(r.Context(), OwnerFromContext(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := parseJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	owner := OwnerFromContext(r.Context())
	sess, err := s.sessions.CreateSession(r.Context(), owner, req.Name, req.Date)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.SessionsCreatedTotal.Inc()
	s.logger.Info("session created", "owner_id", owner, "session_id", sess.ID)
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, errNotFound)
		return
	}

	sess, stats, err := s.sessions.GetSession(r.Context(), OwnerFromContext(r.Context()), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionDetailResponse{Session: sess, Stats: stats})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, errNotFound)
		return
	}

	owner := OwnerFromContext(r.Context())
	if err := s.sessions.DeleteSession(r.Context(), owner, id); err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info("session deleted", "owner_id", owner, "session_id", id)
	w.WriteHeader(http.StatusNoContent)
}
