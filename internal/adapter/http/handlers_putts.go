package adapthttp

import (
	"errors"
	"net/http"

	"github.com/eeturonkko/putter/internal/domain"
)

// Every field is required on create; pointers tell absent from zero.
type addPuttRequest struct {
	DistanceM *int `json:"distance_m"`
	Attempts  *int `json:"attempts"`
	Makes     *int `json:"makes"`
}

func (req addPuttRequest) toNewPutt() (domain.NewPutt, error) {
	switch {
	case req.DistanceM == nil:
		return domain.NewPutt{}, domain.NewValidationError("distance_m", "distance_m is required")
	case req.Attempts == nil:
		return domain.NewPutt{}, domain.NewValidationError("attempts", "attempts is required")
	case req.Makes == nil:
		return domain.NewPutt{}, domain.NewValidationError("makes", "makes is required")
	}
	return domain.NewPutt{DistanceM: *req.DistanceM, Attempts: *req.Attempts, Makes: *req.Makes}, nil
}

type updatePuttRequest struct {
	Attempts *int `json:"attempts"`
	Makes    *int `json:"makes"`
}

func (s *Server) handleAddPutt(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, errNotFound)
		return
	}

	var req addPuttRequest
	if err := parseJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	in, err := req.toNewPutt()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	owner := OwnerFromContext(r.Context())
	rec, err := s.sessions.AddPutt(r.Context(), owner, sessionID, in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.PuttsRecordedTotal.Inc()
	s.logger.Info("putt recorded", "owner_id", owner, "session_id", sessionID, "putt_id", rec.ID)
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleUpdatePutt(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, errNotFound)
		return
	}
	puttID, ok := pathID(r, "puttId")
	if !ok {
		writeError(w, http.StatusNotFound, errNotFound)
		return
	}

	var req updatePuttRequest
	if err := parseJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	rec, err := s.sessions.UpdatePutt(r.Context(), OwnerFromContext(r.Context()), sessionID, puttID,
		domain.PuttPatch{Attempts: req.Attempts, Makes: req.Makes})
	s.metrics.PuttUpdatesTotal.WithLabelValues(updateResult(err)).Inc()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func updateResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	}
	return "error"
}

func (s *Server) handleDeletePutt(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, errNotFound)
		return
	}
	puttID, ok := pathID(r, "puttId")
	if !ok {
		writeError(w, http.StatusNotFound, errNotFound)
		return
	}

	owner := OwnerFromContext(r.Context())
	if err := s.sessions.DeletePutt(r.Context(), owner, sessionID, puttID); err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info("putt deleted", "owner_id", owner, "session_id", sessionID, "putt_id", puttID)
	w.WriteHeader(http.StatusNoContent)
}
