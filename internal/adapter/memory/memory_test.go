package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/eeturonkko/putter/internal/adapter/storetest"
	"github.com/eeturonkko/putter/internal/domain"
)

func TestSessionRepository(t *testing.T) {
	storetest.Run(t, func(t *testing.T) domain.SessionRepository {
		return New()
	})
}

func TestConcurrentIncrements(t *testing.T) {
	db := New()
	ctx := context.Background()

	s, err := db.CreateSession(ctx, "alice", "race", "2025-06-01")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	p, err := db.AddPutt(ctx, "alice", s.ID, domain.NewPutt{DistanceM: 3})
	if err != nil {
		t.Fatalf("AddPutt: %v", err)
	}

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = db.UpdatePutt(ctx, "alice", s.ID, p.ID, func(cur *domain.PuttRecord) error {
				cur.Attempts++
				return nil
			})
		}()
	}
	wg.Wait()

	got, err := db.GetSession(ctx, "alice", s.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.Putts[0].Attempts != n {
		t.Fatalf("expected %d attempts, got %d", n, got.Putts[0].Attempts)
	}
}
