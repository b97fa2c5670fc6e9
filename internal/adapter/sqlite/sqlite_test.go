package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eeturonkko/putter/internal/adapter/storetest"
	"github.com/eeturonkko/putter/internal/domain"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "putter.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSessionRepository(t *testing.T) {
	storetest.Run(t, func(t *testing.T) domain.SessionRepository {
		return openTemp(t)
	})
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "putter.db")
	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "putter.db")
	ctx := context.Background()

	db, err := Open(path)
	require.NoError(t, err)
	s, err := db.CreateSession(ctx, "alice", "persist", "2025-06-01")
	require.NoError(t, err)
	_, err = db.AddPutt(ctx, "alice", s.ID, domain.NewPutt{DistanceM: 5, Attempts: 3, Makes: 2})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	got, err := db.GetSession(ctx, "alice", s.ID)
	require.NoError(t, err)
	assert.Equal(t, "persist", got.Name)
	require.Len(t, got.Putts, 1)
	assert.Equal(t, 2, got.Putts[0].Makes)
}

func TestForeignKeyCascade(t *testing.T) {
	db := openTemp(t)
	ctx := context.Background()

	s, err := db.CreateSession(ctx, "alice", "fk", "2025-06-01")
	require.NoError(t, err)
	_, err = db.AddPutt(ctx, "alice", s.ID, domain.NewPutt{DistanceM: 5, Attempts: 3, Makes: 2})
	require.NoError(t, err)

	_, err = db.sql.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?;", s.ID)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.sql.QueryRowContext(ctx, "SELECT COUNT(1) FROM putts;").Scan(&n))
	assert.Zero(t, n, "putts must be removed with their session")
}

func TestTimeLayoutSortsAsText(t *testing.T) {
	a, err := parseTime("2025-06-01T10:00:00.000000000Z")
	require.NoError(t, err)
	b, err := parseTime("2025-06-01T10:00:00.500000000Z")
	require.NoError(t, err)
	assert.True(t, a.Before(b))
	assert.Less(t, formatTime(a), formatTime(b))
}

func TestDriverErrorsAreWrapped(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "putter.db"))
	require.NoError(t, err)
	require.NoError(t, db.Close())
	ctx := context.Background()

	_, err = db.ListSessions(ctx, "alice")
	require.ErrorContains(t, err, "failed to list sessions")
	_, err = db.CreateSession(ctx, "alice", "x", "2025-06-01")
	require.ErrorContains(t, err, "failed to create session")
	_, err = db.GetSession(ctx, "alice", 1)
	require.ErrorContains(t, err, "failed to get session")
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestCreatedAtMatchesStoredValue(t *testing.T) {
	db := openTemp(t)
	ctx := context.Background()

	s, err := db.CreateSession(ctx, "alice", "clock", "2025-06-01")
	require.NoError(t, err)
	p, err := db.AddPutt(ctx, "alice", s.ID, domain.NewPutt{DistanceM: 2, Attempts: 1, Makes: 1})
	require.NoError(t, err)

	got, err := db.GetSession(ctx, "alice", s.ID)
	require.NoError(t, err)
	assert.True(t, s.CreatedAt.Equal(got.CreatedAt), "session created_at %v, stored %v", s.CreatedAt, got.CreatedAt)
	require.Len(t, got.Putts, 1)
	assert.True(t, p.CreatedAt.Equal(got.Putts[0].CreatedAt), "putt created_at %v, stored %v", p.CreatedAt, got.Putts[0].CreatedAt)
}
