// Package storetest holds the behavioral suite every domain.SessionRepository
// implementation must pass.
package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eeturonkko/putter/internal/domain"
)

// Factory returns an empty repository. It is called once per subtest.
type Factory func(t *testing.T) domain.SessionRepository

// Run executes the suite against repositories produced by newRepo.
func Run(t *testing.T, newRepo Factory) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, repo domain.SessionRepository)
	}{
		{"CreateAndGetRoundTrip", testCreateAndGetRoundTrip},
		{"ListNewestFirst", testListNewestFirst},
		{"ListEmpty", testListEmpty},
		{"PuttOrdering", testPuttOrdering},
		{"AddPuttStoresPair", testAddPuttStoresPair},
		{"UpdatePuttApply", testUpdatePuttApply},
		{"UpdatePuttRejected", testUpdatePuttRejected},
		{"UpdatePuttWrongSession", testUpdatePuttWrongSession},
		{"DeleteSessionCascades", testDeleteSessionCascades},
		{"DeletePutt", testDeletePutt},
		{"ConcurrentDeletes", testConcurrentDeletes},
		{"OwnerIsolation", testOwnerIsolation},
		{"MissingSession", testMissingSession},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.fn(t, newRepo(t))
		})
	}
}

func mustSession(t *testing.T, repo domain.SessionRepository, owner, name string) *domain.SessionSummary {
	t.Helper()
	s, err := repo.CreateSession(context.Background(), owner, name, "2025-06-01")
	require.NoError(t, err)
	return s
}

func mustPutt(t *testing.T, repo domain.SessionRepository, owner string, sessionID int64, distance, attempts, makes int) *domain.PuttRecord {
	t.Helper()
	p, err := repo.AddPutt(context.Background(), owner, sessionID, domain.NewPutt{DistanceM: distance, Attempts: attempts, Makes: makes})
	require.NoError(t, err)
	return p
}

func testCreateAndGetRoundTrip(t *testing.T, repo domain.SessionRepository) {
	ctx := context.Background()

	created, err := repo.CreateSession(ctx, "alice", "Morning practice", "2025-06-14")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero(), "created_at must be assigned")

	got, err := repo.GetSession(ctx, "alice", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Morning practice", got.Name)
	assert.Equal(t, "2025-06-14", got.Date)
	assert.Equal(t, "alice", got.OwnerID)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt), "created_at changed: %v vs %v", created.CreatedAt, got.CreatedAt)
	assert.NotNil(t, got.Putts)
	assert.Empty(t, got.Putts)
}

func testListNewestFirst(t *testing.T, repo domain.SessionRepository) {
	first := mustSession(t, repo, "alice", "first")
	second := mustSession(t, repo, "alice", "second")
	third := mustSession(t, repo, "alice", "third")
	mustSession(t, repo, "bob", "not mine")

	list, err := repo.ListSessions(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int64{third.ID, second.ID, first.ID}, []int64{list[0].ID, list[1].ID, list[2].ID})
	assert.Equal(t, "third", list[0].Name)
	assert.Equal(t, "2025-06-01", list[0].Date)
}

func testListEmpty(t *testing.T, repo domain.SessionRepository) {
	list, err := repo.ListSessions(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func testPuttOrdering(t *testing.T, repo domain.SessionRepository) {
	s := mustSession(t, repo, "alice", "ordering")
	p10 := mustPutt(t, repo, "alice", s.ID, 10, 5, 1)
	p3a := mustPutt(t, repo, "alice", s.ID, 3, 5, 4)
	p7 := mustPutt(t, repo, "alice", s.ID, 7, 5, 2)
	p3b := mustPutt(t, repo, "alice", s.ID, 3, 5, 3)

	got, err := repo.GetSession(context.Background(), "alice", s.ID)
	require.NoError(t, err)
	require.Len(t, got.Putts, 4)

	ids := make([]int64, 0, len(got.Putts))
	for _, p := range got.Putts {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []int64{p3a.ID, p3b.ID, p7.ID, p10.ID}, ids)
}

func testAddPuttStoresPair(t *testing.T, repo domain.SessionRepository) {
	s := mustSession(t, repo, "alice", "pairs")
	for _, pair := range [][2]int{{0, 0}, {10, 0}, {10, 10}, {12, 7}} {
		p := mustPutt(t, repo, "alice", s.ID, 4, pair[0], pair[1])
		assert.NotZero(t, p.ID)
		assert.Equal(t, s.ID, p.SessionID)
		assert.Equal(t, 4, p.DistanceM)
		assert.Equal(t, pair[0], p.Attempts)
		assert.Equal(t, pair[1], p.Makes)
		assert.False(t, p.CreatedAt.IsZero())
	}

	got, err := repo.GetSession(context.Background(), "alice", s.ID)
	require.NoError(t, err)
	assert.Len(t, got.Putts, 4)
}

func testUpdatePuttApply(t *testing.T, repo domain.SessionRepository) {
	ctx := context.Background()
	s := mustSession(t, repo, "alice", "update")
	p := mustPutt(t, repo, "alice", s.ID, 5, 10, 8)

	var seen domain.PuttRecord
	updated, err := repo.UpdatePutt(ctx, "alice", s.ID, p.ID, func(cur *domain.PuttRecord) error {
		seen = *cur
		cur.Attempts = 12
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 10, seen.Attempts, "apply must see the stored row")
	assert.Equal(t, 8, seen.Makes)
	assert.Equal(t, 12, updated.Attempts)
	assert.Equal(t, 8, updated.Makes)
	assert.Equal(t, 5, updated.DistanceM)
	assert.Equal(t, p.ID, updated.ID)

	got, err := repo.GetSession(ctx, "alice", s.ID)
	require.NoError(t, err)
	require.Len(t, got.Putts, 1)
	assert.Equal(t, 12, got.Putts[0].Attempts)
	assert.Equal(t, 8, got.Putts[0].Makes)
}

func testUpdatePuttRejected(t *testing.T, repo domain.SessionRepository) {
	ctx := context.Background()
	s := mustSession(t, repo, "alice", "rejected")
	p := mustPutt(t, repo, "alice", s.ID, 5, 10, 8)

	rejection := domain.NewValidationError("makes", "makes cannot exceed attempts")
	_, err := repo.UpdatePutt(ctx, "alice", s.ID, p.ID, func(cur *domain.PuttRecord) error {
		cur.Makes = 11
		return rejection
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	got, err := repo.GetSession(ctx, "alice", s.ID)
	require.NoError(t, err)
	require.Len(t, got.Putts, 1)
	assert.Equal(t, 10, got.Putts[0].Attempts)
	assert.Equal(t, 8, got.Putts[0].Makes, "rejected update must not be written")
}

func testUpdatePuttWrongSession(t *testing.T, repo domain.SessionRepository) {
	ctx := context.Background()
	a := mustSession(t, repo, "alice", "a")
	b := mustSession(t, repo, "alice", "b")
	p := mustPutt(t, repo, "alice", a.ID, 5, 10, 8)

	_, err := repo.UpdatePutt(ctx, "alice", b.ID, p.ID, func(cur *domain.PuttRecord) error {
		t.Fatal("apply must not run for a putt outside the session")
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.UpdatePutt(ctx, "alice", a.ID, p.ID+1000, func(*domain.PuttRecord) error { return nil })
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func testDeleteSessionCascades(t *testing.T, repo domain.SessionRepository) {
	ctx := context.Background()
	s := mustSession(t, repo, "alice", "doomed")
	keep := mustSession(t, repo, "alice", "kept")
	var putts []*domain.PuttRecord
	for i := 1; i <= 3; i++ {
		putts = append(putts, mustPutt(t, repo, "alice", s.ID, i, 4, 2))
	}
	kept := mustPutt(t, repo, "alice", keep.ID, 2, 2, 2)

	require.NoError(t, repo.DeleteSession(ctx, "alice", s.ID))

	_, err := repo.GetSession(ctx, "alice", s.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	for _, p := range putts {
		_, err := repo.UpdatePutt(ctx, "alice", s.ID, p.ID, func(*domain.PuttRecord) error { return nil })
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}
	assert.ErrorIs(t, repo.DeleteSession(ctx, "alice", s.ID), domain.ErrNotFound)

	other, err := repo.GetSession(ctx, "alice", keep.ID)
	require.NoError(t, err)
	require.Len(t, other.Putts, 1)
	assert.Equal(t, kept.ID, other.Putts[0].ID)
}

func testDeletePutt(t *testing.T, repo domain.SessionRepository) {
	ctx := context.Background()
	s := mustSession(t, repo, "alice", "trim")
	p1 := mustPutt(t, repo, "alice", s.ID, 3, 4, 2)
	p2 := mustPutt(t, repo, "alice", s.ID, 4, 4, 2)

	require.NoError(t, repo.DeletePutt(ctx, "alice", s.ID, p1.ID))
	require.NoError(t, repo.DeletePutt(ctx, "alice", s.ID, p1.ID), "deleting an absent putt succeeds")

	got, err := repo.GetSession(ctx, "alice", s.ID)
	require.NoError(t, err)
	require.Len(t, got.Putts, 1)
	assert.Equal(t, p2.ID, got.Putts[0].ID)
}

func testOwnerIsolation(t *testing.T, repo domain.SessionRepository) {
	ctx := context.Background()
	s := mustSession(t, repo, "alice", "private")
	p := mustPutt(t, repo, "alice", s.ID, 3, 10, 5)

	_, err := repo.GetSession(ctx, "bob", s.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := repo.ListSessions(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = repo.AddPutt(ctx, "bob", s.ID, domain.NewPutt{DistanceM: 3, Attempts: 1, Makes: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.UpdatePutt(ctx, "bob", s.ID, p.ID, func(cur *domain.PuttRecord) error {
		cur.Makes = 0
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, repo.DeletePutt(ctx, "bob", s.ID, p.ID), domain.ErrNotFound)
	assert.ErrorIs(t, repo.DeleteSession(ctx, "bob", s.ID), domain.ErrNotFound)

	got, err := repo.GetSession(ctx, "alice", s.ID)
	require.NoError(t, err)
	require.Len(t, got.Putts, 1)
	assert.Equal(t, 5, got.Putts[0].Makes)
}

func testMissingSession(t *testing.T, repo domain.SessionRepository) {
	ctx := context.Background()

	_, err := repo.GetSession(ctx, "alice", 4242)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.DeleteSession(ctx, "alice", 4242), domain.ErrNotFound)
	_, err = repo.AddPutt(ctx, "alice", 4242, domain.NewPutt{DistanceM: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.DeletePutt(ctx, "alice", 4242, 1), domain.ErrNotFound)
}

// Racing deletes of the same session, and of one of its putts, resolve to
// success or not found. Exactly one session delete wins.
func testConcurrentDeletes(t *testing.T, repo domain.SessionRepository) {
	ctx := context.Background()

	for round := 0; round < 5; round++ {
		s := mustSession(t, repo, "alice", "double tap")
		p := mustPutt(t, repo, "alice", s.ID, 3, 4, 2)
		mustPutt(t, repo, "alice", s.ID, 5, 4, 1)

		var (
			wg         sync.WaitGroup
			sessionErr = make([]error, 2)
			puttErr    error
		)
		for i := range sessionErr {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				sessionErr[i] = repo.DeleteSession(ctx, "alice", s.ID)
			}(i)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			puttErr = repo.DeletePutt(ctx, "alice", s.ID, p.ID)
		}()
		wg.Wait()

		won := 0
		for _, err := range sessionErr {
			if err == nil {
				won++
				continue
			}
			assert.ErrorIs(t, err, domain.ErrNotFound)
		}
		assert.Equal(t, 1, won, "exactly one delete removes the session")
		if puttErr != nil {
			assert.ErrorIs(t, puttErr, domain.ErrNotFound)
		}

		_, err := repo.GetSession(ctx, "alice", s.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}
}
