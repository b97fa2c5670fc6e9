// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/eeturonkko/putter/internal/domain"
)

type sessionRow struct {
	ownerID string
	summary domain.SessionSummary
}

// DB implements domain.SessionRepository in memory. A single mutex makes
// every method atomic.
type DB struct {
	mu       sync.Mutex
	sessions []sessionRow
	putts    []domain.PuttRecord

	sessionIDCounter int64
	puttIDCounter    int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{}
}

// Ensure interfaces are met.
var _ domain.SessionRepository = (*DB)(nil)

// Close is a no-op so DB can be used wherever a store is closed on shutdown.
func (db *DB) Close() error {
	return nil
}

// owned returns the index of the session when it belongs to ownerID.
// Callers must hold db.mu.
func (db *DB) owned(ownerID string, id int64) int {
	for i, s := range db.sessions {
		if s.summary.ID == id && s.ownerID == ownerID {
			return i
		}
	}
	return -1
}

// ListSessions lists the owner's sessions, newest first.
func (db *DB) ListSessions(ctx context.Context, ownerID string) ([]domain.SessionSummary, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.SessionSummary, 0)
	for _, s := range db.sessions {
		if s.ownerID == ownerID {
			result = append(result, s.summary)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

// CreateSession stores a new session.
func (db *DB) CreateSession(ctx context.Context, ownerID, name, date string) (*domain.SessionSummary, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.sessionIDCounter++
	s := domain.SessionSummary{
		ID:        db.sessionIDCounter,
		Name:      name,
		Date:      date,
		CreatedAt: time.Now().UTC(),
	}
	db.sessions = append(db.sessions, sessionRow{ownerID: ownerID, summary: s})
	return &s, nil
}

// GetSession returns the session with its putts in distance order.
func (db *DB) GetSession(ctx context.Context, ownerID string, id int64) (*domain.Session, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	idx := db.owned(ownerID, id)
	if idx < 0 {
		return nil, domain.ErrNotFound
	}

	sess := &domain.Session{
		SessionSummary: db.sessions[idx].summary,
		OwnerID:        ownerID,
		Putts:          make([]domain.PuttRecord, 0),
	}
	for _, p := range db.putts {
		if p.SessionID == id {
			sess.Putts = append(sess.Putts, p)
		}
	}
	domain.SortPutts(sess.Putts)
	return sess, nil
}

// DeleteSession deletes the session and its putts.
func (db *DB) DeleteSession(ctx context.Context, ownerID string, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	idx := db.owned(ownerID, id)
	if idx < 0 {
		return domain.ErrNotFound
	}
	db.sessions = append(db.sessions[:idx], db.sessions[idx+1:]...)

	kept := db.putts[:0]
	for _, p := range db.putts {
		if p.SessionID != id {
			kept = append(kept, p)
		}
	}
	db.putts = kept
	return nil
}

// AddPutt adds a putt record to an owned session.
func (db *DB) AddPutt(ctx context.Context, ownerID string, sessionID int64, in domain.NewPutt) (*domain.PuttRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.owned(ownerID, sessionID) < 0 {
		return nil, domain.ErrNotFound
	}

	db.puttIDCounter++
	p := domain.PuttRecord{
		ID:        db.puttIDCounter,
		SessionID: sessionID,
		DistanceM: in.DistanceM,
		Attempts:  in.Attempts,
		Makes:     in.Makes,
		CreatedAt: time.Now().UTC(),
	}
	db.putts = append(db.putts, p)
	return &p, nil
}

// UpdatePutt applies a change to a putt record under the lock.
func (db *DB) UpdatePutt(ctx context.Context, ownerID string, sessionID, puttID int64, apply func(*domain.PuttRecord) error) (*domain.PuttRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.owned(ownerID, sessionID) < 0 {
		return nil, domain.ErrNotFound
	}
	for i := range db.putts {
		if db.putts[i].ID != puttID || db.putts[i].SessionID != sessionID {
			continue
		}
		next := db.putts[i]
		if err := apply(&next); err != nil {
			return nil, err
		}
		// Only the counts are mutable.
		db.putts[i].Attempts = next.Attempts
		db.putts[i].Makes = next.Makes
		ret := db.putts[i]
		return &ret, nil
	}
	return nil, domain.ErrNotFound
}

// DeletePutt deletes a putt record. A missing record is not an error.
func (db *DB) DeletePutt(ctx context.Context, ownerID string, sessionID, puttID int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.owned(ownerID, sessionID) < 0 {
		return domain.ErrNotFound
	}
	for i, p := range db.putts {
		if p.ID == puttID && p.SessionID == sessionID {
			db.putts = append(db.putts[:i], db.putts[i+1:]...)
			return nil
		}
	}
	return nil
}
