package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/eeturonkko/putter/internal/domain"
)

// ListSessions lists the owner's sessions, newest first.
func (d *DB) ListSessions(ctx context.Context, ownerID string) ([]domain.SessionSummary, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, name, date, created_at FROM sessions WHERE owner_id = ? ORDER BY created_at DESC, id DESC;",
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	out := make([]domain.SessionSummary, 0)
	for rows.Next() {
		var (
			s       domain.SessionSummary
			created string
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.Date, &created); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		if s.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return out, nil
}

// CreateSession inserts a new session.
func (d *DB) CreateSession(ctx context.Context, ownerID, name, date string) (*domain.SessionSummary, error) {
	now := time.Now().UTC().Round(0)
	res, err := d.sql.ExecContext(ctx,
		"INSERT INTO sessions(owner_id, name, date, created_at) VALUES(?, ?, ?, ?);",
		ownerID, name, date, formatTime(now))
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &domain.SessionSummary{ID: id, Name: name, Date: date, CreatedAt: now}, nil
}

// GetSession reads the session and its putts in one statement.
func (d *DB) GetSession(ctx context.Context, ownerID string, id int64) (*domain.Session, error) {
	rows, err := d.sql.QueryContext(ctx, `
SELECT s.id, s.name, s.date, s.created_at,
       p.id, p.distance_m, p.attempts, p.makes, p.created_at
FROM sessions s
LEFT JOIN putts p ON p.session_id = s.id
WHERE s.id = ? AND s.owner_id = ?
ORDER BY p.distance_m ASC, p.id ASC;`, id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	defer rows.Close()

	var sess *domain.Session
	for rows.Next() {
		var (
			s                          domain.SessionSummary
			created                    string
			pid, dist, attempts, makes sql.NullInt64
			pcreated                   sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.Date, &created, &pid, &dist, &attempts, &makes, &pcreated); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		if sess == nil {
			if s.CreatedAt, err = parseTime(created); err != nil {
				return nil, err
			}
			sess = &domain.Session{SessionSummary: s, OwnerID: ownerID, Putts: make([]domain.PuttRecord, 0)}
		}
		if !pid.Valid {
			continue
		}
		p := domain.PuttRecord{
			ID:        pid.Int64,
			SessionID: s.ID,
			DistanceM: int(dist.Int64),
			Attempts:  int(attempts.Int64),
			Makes:     int(makes.Int64),
		}
		if p.CreatedAt, err = parseTime(pcreated.String); err != nil {
			return nil, err
		}
		sess.Putts = append(sess.Putts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if sess == nil {
		return nil, domain.ErrNotFound
	}
	return sess, nil
}

// DeleteSession deletes the session and its putts.
func (d *DB) DeleteSession(ctx context.Context, ownerID string, id int64) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkOwned(ctx, tx, ownerID, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM putts WHERE session_id = ?;", id); err != nil {
			return fmt.Errorf("failed to delete putts: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM sessions WHERE id = ? AND owner_id = ?;", id, ownerID); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		return nil
	})
}

// AddPutt inserts a putt record into an owned session.
func (d *DB) AddPutt(ctx context.Context, ownerID string, sessionID int64, in domain.NewPutt) (*domain.PuttRecord, error) {
	now := time.Now().UTC().Round(0)
	var out *domain.PuttRecord
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkOwned(ctx, tx, ownerID, sessionID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			"INSERT INTO putts(session_id, distance_m, attempts, makes, created_at) VALUES(?, ?, ?, ?, ?);",
			sessionID, in.DistanceM, in.Attempts, in.Makes, formatTime(now))
		if err != nil {
			return fmt.Errorf("failed to add putt: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to add putt: %w", err)
		}
		out = &domain.PuttRecord{
			ID:        id,
			SessionID: sessionID,
			DistanceM: in.DistanceM,
			Attempts:  in.Attempts,
			Makes:     in.Makes,
			CreatedAt: now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdatePutt reads the current row, lets apply change it and writes the
// counts back, all inside one write transaction.
func (d *DB) UpdatePutt(ctx context.Context, ownerID string, sessionID, puttID int64, apply func(*domain.PuttRecord) error) (*domain.PuttRecord, error) {
	var out domain.PuttRecord
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		var created string
		err := tx.QueryRowContext(ctx, `
SELECT p.id, p.session_id, p.distance_m, p.attempts, p.makes, p.created_at
FROM putts p
JOIN sessions s ON s.id = p.session_id
WHERE p.id = ? AND p.session_id = ? AND s.owner_id = ?;`, puttID, sessionID, ownerID,
		).Scan(&out.ID, &out.SessionID, &out.DistanceM, &out.Attempts, &out.Makes, &created)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to read putt: %w", err)
		}
		if out.CreatedAt, err = parseTime(created); err != nil {
			return err
		}

		if err := apply(&out); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			"UPDATE putts SET attempts = ?, makes = ? WHERE id = ?;",
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
		if err := checkOwned(ctx, tx, ownerID, sessionID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM putts WHERE id = ? AND session_id = ?;", puttID, sessionID); err != nil {
			return fmt.Errorf("failed to delete putt: %w", err)
		}
		return nil
	})
}

func checkOwned(ctx context.Context, tx *sql.Tx, ownerID string, sessionID int64) error {
	var one int
	err := tx.QueryRowContext(ctx,
		"SELECT 1 FROM sessions WHERE id = ? AND owner_id = ?;", sessionID, ownerID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check session: %w", err)
	}
	return nil
}
