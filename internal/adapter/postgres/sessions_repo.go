package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eeturonkko/putter/internal/domain"
)

// ListSessions lists the owner's sessions, newest first.
func (d *DB) ListSessions(ctx context.Context, ownerID string) ([]domain.SessionSummary, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, name, date, created_at FROM sessions WHERE owner_id = $1 ORDER BY created_at DESC, id DESC;",
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	out := make([]domain.SessionSummary, 0)
	for rows.Next() {
		var s domain.SessionSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Date, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		s.CreatedAt = s.CreatedAt.UTC()
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return out, nil
}

// CreateSession inserts a new session.
func (d *DB) CreateSession(ctx context.Context, ownerID, name, date string) (*domain.SessionSummary, error) {
	s := domain.SessionSummary{Name: name, Date: date}
	err := d.sql.QueryRowContext(ctx,
		"INSERT INTO sessions(owner_id, name, date) VALUES($1, $2, $3) RETURNING id, created_at;",
		ownerID, name, date,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.CreatedAt = s.CreatedAt.UTC()
	return &s, nil
}

// GetSession reads the session and its putts in one statement.
func (d *DB) GetSession(ctx context.Context, ownerID string, id int64) (*domain.Session, error) {
	rows, err := d.sql.QueryContext(ctx, `
SELECT s.id, s.name, s.date, s.created_at,
       p.id, p.distance_m, p.attempts, p.makes, p.created_at
FROM sessions s
LEFT JOIN putts p ON p.session_id = s.id
WHERE s.id = $1 AND s.owner_id = $2
ORDER BY p.distance_m ASC, p.id ASC;`, id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	defer rows.Close()

	var sess *domain.Session
	for rows.Next() {
		var (
			s                          domain.SessionSummary
			pid, dist, attempts, makes sql.NullInt64
			pcreated                   sql.NullTime
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.Date, &s.CreatedAt, &pid, &dist, &attempts, &makes, &pcreated); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		if sess == nil {
			s.CreatedAt = s.CreatedAt.UTC()
			sess = &domain.Session{SessionSummary: s, OwnerID: ownerID, Putts: make([]domain.PuttRecord, 0)}
		}
		if !pid.Valid {
			continue
		}
		sess.Putts = append(sess.Putts, domain.PuttRecord{
			ID:        pid.Int64,
			SessionID: s.ID,
			DistanceM: int(dist.Int64),
			Attempts:  int(attempts.Int64),
			Makes:     int(makes.Int64),
			CreatedAt: pcreated.Time.UTC(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if sess == nil {
		return nil, domain.ErrNotFound
	}
	return sess, nil
}

// DeleteSession deletes the session and its putts. The session row is
// locked for update before any putt is touched, so racing deletes queue on
// it and the loser reads the row as gone.
func (d *DB) DeleteSession(ctx context.Context, ownerID string, id int64) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		if err := lockOwned(ctx, tx, ownerID, id, lockUpdate); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM putts WHERE session_id = $1;", id); err != nil {
			return fmt.Errorf("failed to delete putts: %w", err)
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM sessions WHERE id = $1 AND owner_id = $2;", id, ownerID)
		if err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

// AddPutt inserts a putt record into an owned session.
func (d *DB) AddPutt(ctx context.Context, ownerID string, sessionID int64, in domain.NewPutt) (*domain.PuttRecord, error) {
	p := domain.PuttRecord{SessionID: sessionID, DistanceM: in.DistanceM, Attempts: in.Attempts, Makes: in.Makes}
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		if err := lockOwned(ctx, tx, ownerID, sessionID, lockShare); err != nil {
			return err
		}
		err := tx.QueryRowContext(ctx,
			"INSERT INTO putts(session_id, distance_m, attempts, makes) VALUES($1, $2, $3, $4) RETURNING id, created_at;",
			sessionID, in.DistanceM, in.Attempts, in.Makes,
		).Scan(&p.ID, &p.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to add putt: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	return &p, nil
}

// UpdatePutt locks the row, lets apply change it and writes the counts back.
func (d *DB) UpdatePutt(ctx context.Context, ownerID string, sessionID, puttID int64, apply func(*domain.PuttRecord) error) (*domain.PuttRecord, error) {
	var out domain.PuttRecord
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
SELECT p.id, p.session_id, p.distance_m, p.attempts, p.makes, p.created_at
FROM putts p
JOIN sessions s ON s.id = p.session_id
WHERE p.id = $1 AND p.session_id = $2 AND s.owner_id = $3
FOR UPDATE OF p;`, puttID, sessionID, ownerID,
		).Scan(&out.ID, &out.SessionID, &out.DistanceM, &out.Attempts, &out.Makes, &out.CreatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to read putt: %w", err)
		}
		out.CreatedAt = out.CreatedAt.UTC()

		if err := apply(&out); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			"UPDATE putts SET attempts = $1, makes = $2 WHERE id = $3;",
			out.Attempts, out.Makes, out.ID)
		if err != nil {
			return fmt.Errorf("failed to update putt: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePutt removes a putt record. A missing record is not an error.
func (d *DB) DeletePutt(ctx context.Context, ownerID string, sessionID, puttID int64) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		if err := lockOwned(ctx, tx, ownerID, sessionID, lockShare); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM putts WHERE id = $1 AND session_id = $2;", puttID, sessionID); err != nil {
			return fmt.Errorf("failed to delete putt: %w", err)
		}
		return nil
	})
}

// Row lock strengths for lockOwned. A transaction that will delete the
// session must take lockUpdate up front; upgrading from a share lock
// deadlocks against a concurrent deleter.
const (
	lockShare  = "FOR SHARE"
	lockUpdate = "FOR UPDATE"
)

// lockOwned locks the owned session row so it cannot be deleted while the
// transaction touches its putts.
func lockOwned(ctx context.Context, tx *sql.Tx, ownerID string, sessionID int64, strength string) error {
	var one int
	err := tx.QueryRowContext(ctx,
		"SELECT 1 FROM sessions WHERE id = $1 AND owner_id = $2 "+strength+";", sessionID, ownerID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to lock session: %w", err)
	}
	return nil
}
