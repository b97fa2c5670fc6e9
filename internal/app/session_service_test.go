package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/eeturonkko/putter/internal/app"
	"github.com/eeturonkko/putter/internal/domain"
)

type mockSessionRepo struct {
	listFn       func(ctx context.Context, ownerID string) ([]domain.SessionSummary, error)
	createFn     func(ctx context.Context, ownerID, name, date string) (*domain.SessionSummary, error)
	getFn        func(ctx context.Context, ownerID string, id int64) (*domain.Session, error)
	deleteFn     func(ctx context.Context, ownerID string, id int64) error
	addPuttFn    func(ctx context.Context, ownerID string, sessionID int64, p domain.NewPutt) (*domain.PuttRecord, error)
	deletePuttFn func(ctx context.Context, ownerID string, sessionID, puttID int64) error

	// stored is handed to UpdatePutt's apply callback.
	stored *domain.PuttRecord
	writes int
}

func (m *mockSessionRepo) ListSessions(ctx context.Context, ownerID string) ([]domain.SessionSummary, error) {
	if m.listFn != nil {
		return m.listFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockSessionRepo) CreateSession(ctx context.Context, ownerID, name, date string) (*domain.SessionSummary, error) {
	if m.createFn != nil {
		return m.createFn(ctx, ownerID, name, date)
	}
	return &domain.SessionSummary{ID: 1, Name: name, Date: date}, nil
}

func (m *mockSessionRepo) GetSession(ctx context.Context, ownerID string, id int64) (*domain.Session, error) {
	if m.getFn != nil {
		return m.getFn(ctx, ownerID, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockSessionRepo) DeleteSession(ctx context.Context, ownerID string, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, ownerID, id)
	}
	return nil
}

func (m *mockSessionRepo) AddPutt(ctx context.Context, ownerID string, sessionID int64, p domain.NewPutt) (*domain.PuttRecord, error) {
	if m.addPuttFn != nil {
		return m.addPuttFn(ctx, ownerID, sessionID, p)
	}
	return &domain.PuttRecord{ID: 1, SessionID: sessionID, DistanceM: p.DistanceM, Attempts: p.Attempts, Makes: p.Makes}, nil
}

func (m *mockSessionRepo) UpdatePutt(_ context.Context, _ string, _, _ int64, apply func(*domain.PuttRecord) error) (*domain.PuttRecord, error) {
	if m.stored == nil {
		return nil, domain.ErrNotFound
	}
	next := *m.stored
	if err := apply(&next); err != nil {
		return nil, err
	}
	m.writes++
	*m.stored = next
	return &next, nil
}

func (m *mockSessionRepo) DeletePutt(ctx context.Context, ownerID string, sessionID, puttID int64) error {
	if m.deletePuttFn != nil {
		return m.deletePuttFn(ctx, ownerID, sessionID, puttID)
	}
	return nil
}

func intPtr(v int) *int { return &v }

func TestCreateSession_Validation(t *testing.T) {
	svc := app.NewSessionService(&mockSessionRepo{
		createFn: func(context.Context, string, string, string) (*domain.SessionSummary, error) {
			t.Fatal("repository must not be called for invalid input")
			return nil, nil
		},
	})

	tests := []struct {
		name      string
		inName    string
		inDate    string
		wantField string
	}{
		{"empty name", "", "2025-06-01", "name"},
		{"empty date", "Morning", "", "date"},
		{"slashes", "Morning", "2025/06/01", "date"},
		{"short year", "Morning", "25-06-01", "date"},
		{"trailing text", "Morning", "2025-06-01T10:00", "date"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateSession(context.Background(), "owner", tc.inName, tc.inDate)
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if ve.Field != tc.wantField {
				t.Fatalf("expected field %q, got %q", tc.wantField, ve.Field)
			}
		})
	}
}

func TestCreateSession_DateNotCalendarChecked(t *testing.T) {
	svc := app.NewSessionService(&mockSessionRepo{})
	s, err := svc.CreateSession(context.Background(), "owner", "Odd", "2025-13-45")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Date != "2025-13-45" {
		t.Fatalf("expected date to pass through, got %q", s.Date)
	}
}

func TestAddPutt_Validation(t *testing.T) {
	called := false
	svc := app.NewSessionService(&mockSessionRepo{
		addPuttFn: func(_ context.Context, _ string, sessionID int64, p domain.NewPutt) (*domain.PuttRecord, error) {
			called = true
			return &domain.PuttRecord{ID: 9, SessionID: sessionID, DistanceM: p.DistanceM, Attempts: p.Attempts, Makes: p.Makes}, nil
		},
	})

	tests := []struct {
		name    string
		in      domain.NewPutt
		wantErr string
	}{
		{"zero distance", domain.NewPutt{DistanceM: 0, Attempts: 1, Makes: 1}, "distance_m must be a positive integer"},
		{"negative distance", domain.NewPutt{DistanceM: -3, Attempts: 1, Makes: 1}, "distance_m must be a positive integer"},
		{"negative attempts", domain.NewPutt{DistanceM: 3, Attempts: -1, Makes: 0}, "attempts must be >= 0"},
		{"negative makes", domain.NewPutt{DistanceM: 3, Attempts: 1, Makes: -1}, "makes must be >= 0"},
		{"makes above attempts", domain.NewPutt{DistanceM: 3, Attempts: 4, Makes: 5}, "makes cannot exceed attempts"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			called = false
			_, err := svc.AddPutt(context.Background(), "owner", 1, tc.in)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if err.Error() != tc.wantErr {
				t.Fatalf("expected %q, got %q", tc.wantErr, err.Error())
			}
			if called {
				t.Fatal("repository must not be called for invalid input")
			}
		})
	}

	for _, pair := range [][2]int{{0, 0}, {1, 0}, {1, 1}, {10, 7}, {25, 25}} {
		rec, err := svc.AddPutt(context.Background(), "owner", 1, domain.NewPutt{DistanceM: 5, Attempts: pair[0], Makes: pair[1]})
		if err != nil {
			t.Fatalf("AddPutt(%v): unexpected error: %v", pair, err)
		}
		if rec.Attempts != pair[0] || rec.Makes != pair[1] {
			t.Fatalf("AddPutt(%v): stored %d/%d", pair, rec.Attempts, rec.Makes)
		}
	}
}

func TestUpdatePutt_EffectiveValues(t *testing.T) {
	tests := []struct {
		name         string
		patch        domain.PuttPatch
		wantErr      bool
		wantAttempts int
		wantMakes    int
	}{
		{"makes above stored attempts", domain.PuttPatch{Makes: intPtr(11)}, true, 10, 8},
		{"attempts below stored makes", domain.PuttPatch{Attempts: intPtr(7)}, true, 10, 8},
		{"attempts only", domain.PuttPatch{Attempts: intPtr(12)}, false, 12, 8},
		{"makes only", domain.PuttPatch{Makes: intPtr(10)}, false, 10, 10},
		{"both lowered together", domain.PuttPatch{Attempts: intPtr(3), Makes: intPtr(2)}, false, 3, 2},
		{"negative attempts", domain.PuttPatch{Attempts: intPtr(-1)}, true, 10, 8},
		{"negative makes", domain.PuttPatch{Makes: intPtr(-1)}, true, 10, 8},
		{"empty patch", domain.PuttPatch{}, false, 10, 8},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockSessionRepo{stored: &domain.PuttRecord{ID: 4, SessionID: 1, DistanceM: 3, Attempts: 10, Makes: 8}}
			svc := app.NewSessionService(repo)

			rec, err := svc.UpdatePutt(context.Background(), "owner", 1, 4, tc.patch)
			if tc.wantErr {
				if !errors.Is(err, domain.ErrValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
				if repo.writes != 0 {
					t.Fatal("expected no write on validation failure")
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if rec.Attempts != tc.wantAttempts || rec.Makes != tc.wantMakes {
					t.Fatalf("returned %d/%d; want %d/%d", rec.Attempts, rec.Makes, tc.wantAttempts, tc.wantMakes)
				}
			}
			if repo.stored.Attempts != tc.wantAttempts || repo.stored.Makes != tc.wantMakes {
				t.Fatalf("stored %d/%d; want %d/%d", repo.stored.Attempts, repo.stored.Makes, tc.wantAttempts, tc.wantMakes)
			}
		})
	}
}

func TestUpdatePutt_NotFound(t *testing.T) {
	svc := app.NewSessionService(&mockSessionRepo{})
	_, err := svc.UpdatePutt(context.Background(), "owner", 1, 2, domain.PuttPatch{Makes: intPtr(1)})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetSession_Stats(t *testing.T) {
	svc := app.NewSessionService(&mockSessionRepo{
		getFn: func(_ context.Context, ownerID string, id int64) (*domain.Session, error) {
			return &domain.Session{
				SessionSummary: domain.SessionSummary{ID: id, Name: "Evening", Date: "2025-06-01"},
				OwnerID:        ownerID,
				Putts: []domain.PuttRecord{
					{ID: 1, DistanceM: 3, Attempts: 10, Makes: 7},
					{ID: 2, DistanceM: 5, Attempts: 5, Makes: 5},
				},
			}, nil
		},
	})

	sess, st, err := svc.GetSession(context.Background(), "owner", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.ID != 3 {
		t.Fatalf("expected id 3, got %d", sess.ID)
	}
	if st != (domain.Stats{Attempts: 15, Makes: 12, Accuracy: 80}) {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func TestGetSession_PropagatesNotFound(t *testing.T) {
	svc := app.NewSessionService(&mockSessionRepo{})
	_, _, err := svc.GetSession(context.Background(), "owner", 3)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
