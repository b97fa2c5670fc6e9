// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"time"
)

// SessionSummary is the list view of a practice session.
type SessionSummary struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is a practice session together with its putt records. Putts are
// ordered by distance, then by insertion.
type Session struct {
	SessionSummary
	OwnerID string       `json:"owner_id"`
	Putts   []PuttRecord `json:"putts"`
}

// PuttRecord counts attempts and makes from one distance within a session.
type PuttRecord struct {
	ID        int64     `json:"id"`
	SessionID int64     `json:"session_id"`
	DistanceM int       `json:"distance_m"`
	Attempts  int       `json:"attempts"`
	Makes     int       `json:"makes"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPutt holds the fields supplied when a distance is added to a session.
type NewPutt struct {
	DistanceM int
	Attempts  int
	Makes     int
}

// PuttPatch is a partial update. Nil fields keep their stored value.
type PuttPatch struct {
	Attempts *int
	Makes    *int
}

// SessionRepository is the port for session and putt persistence. Every
// method is scoped to ownerID; a session owned by someone else behaves
// exactly like a missing one and yields ErrNotFound.
type SessionRepository interface {
	ListSessions(ctx context.Context, ownerID string) ([]SessionSummary, error)
	CreateSession(ctx context.Context, ownerID, name, date string) (*SessionSummary, error)
	GetSession(ctx context.Context, ownerID string, id int64) (*Session, error)
	// DeleteSession removes the session and all of its putts atomically.
	DeleteSession(ctx context.Context, ownerID string, id int64) error

	AddPutt(ctx context.Context, ownerID string, sessionID int64, p NewPutt) (*PuttRecord, error)
	// UpdatePutt loads the current record, passes it to apply and persists the
	// result, all within one transaction. If apply returns an error nothing is
	// written and that error is returned unchanged.
	UpdatePutt(ctx context.Context, ownerID string, sessionID, puttID int64, apply func(*PuttRecord) error) (*PuttRecord, error)
	// DeletePutt returns ErrNotFound only when the session is not visible to
	// ownerID. Deleting an absent putt succeeds.
	DeletePutt(ctx context.Context, ownerID string, sessionID, puttID int64) error
}
