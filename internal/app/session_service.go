// Package app holds the application services and business logic.
package app

import (
	"context"

	"github.com/eeturonkko/putter/internal/domain"
)

// SessionService encapsulates the putting-practice use cases. It validates
// input and leaves ownership enforcement to the repository, which scopes
// every query by owner.
type SessionService struct {
	repo domain.SessionRepository
}

// NewSessionService creates a SessionService backed by the given repository.
func NewSessionService(repo domain.SessionRepository) *SessionService {
	return &SessionService{repo: repo}
}

// ListSessions returns the owner's sessions, newest first.
func (s *SessionService) ListSessions(ctx context.Context, ownerID string) ([]domain.SessionSummary, error) {
	return s.repo.ListSessions(ctx, ownerID)
}

// CreateSession validates name and date and stores a new session.
func (s *SessionService) CreateSession(ctx context.Context, ownerID, name, date string) (*domain.SessionSummary, error) {
	if err := check(sessionInput{Name: name, Date: date}); err != nil {
		return nil, err
	}
	return s.repo.CreateSession(ctx, ownerID, name, date)
}

// GetSession returns a session with its ordered putts and derived totals.
func (s *SessionService) GetSession(ctx context.Context, ownerID string, id int64) (*domain.Session, domain.Stats, error) {
	sess, err := s.repo.GetSession(ctx, ownerID, id)
	if err != nil {
		return nil, domain.Stats{}, err
	}
	return sess, domain.Summarize(sess.Putts), nil
}

// DeleteSession removes a session and its putts.
func (s *SessionService) DeleteSession(ctx context.Context, ownerID string, id int64) error {
	return s.repo.DeleteSession(ctx, ownerID, id)
}

// AddPutt validates and records a new distance within a session.
func (s *SessionService) AddPutt(ctx context.Context, ownerID string, sessionID int64, p domain.NewPutt) (*domain.PuttRecord, error) {
	if err := check(puttInput{DistanceM: p.DistanceM, Attempts: p.Attempts, Makes: p.Makes}); err != nil {
		return nil, err
	}
	return s.repo.AddPutt(ctx, ownerID, sessionID, p)
}

// UpdatePutt applies a partial update. Fields missing from the patch fall
// back to the stored values, and the resulting pair is validated before
// anything is written.
func (s *SessionService) UpdatePutt(ctx context.Context, ownerID string, sessionID, puttID int64, patch domain.PuttPatch) (*domain.PuttRecord, error) {
	return s.repo.UpdatePutt(ctx, ownerID, sessionID, puttID, func(cur *domain.PuttRecord) error {
		next := puttInput{DistanceM: cur.DistanceM, Attempts: cur.Attempts, Makes: cur.Makes}
		if patch.Attempts != nil {
			next.Attempts = *patch.Attempts
		}
		if patch.Makes != nil {
			next.Makes = *patch.Makes
		}
		if err := check(next); err != nil {
			return err
		}
		cur.Attempts = next.Attempts
		cur.Makes = next.Makes
		return nil
	})
}

// DeletePutt removes one putt record from a session.
func (s *SessionService) DeletePutt(ctx context.Context, ownerID string, sessionID, puttID int64) error {
	return s.repo.DeletePutt(ctx, ownerID, sessionID, puttID)
}
