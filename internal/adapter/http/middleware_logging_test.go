package adapthttp

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/eeturonkko/putter/internal/adapter/memory"
	"github.com/eeturonkko/putter/internal/app"
)

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	s := New(app.NewSessionService(memory.New()), Options{
		Logger: slog.New(slog.NewTextHandler(&buf, nil)),
	})

	req := httptest.NewRequest(http.MethodGet, "/sessions/42", nil)
	req.Header.Set("x-user-id", "alice")
	req.Header.Set("X-Request-ID", "req-7")
	w := httptest.NewRecorder()

	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}

	logOutput := buf.String()
	for _, want := range []string{"GET", "/sessions/42", "route=/sessions/{id}", "status=404", "request_id=req-7"} {
		if !strings.Contains(logOutput, want) {
			t.Errorf("Log output missing %q. Got: %s", want, logOutput)
		}
	}
}

func TestInternalErrorLogged(t *testing.T) {
	var buf bytes.Buffer
	s := New(nil, Options{Logger: slog.New(slog.NewTextHandler(&buf, nil))})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	w := httptest.NewRecorder()
	s.internalError(w, req, errTest)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), errTest.Error()) {
		t.Fatalf("internal detail leaked: %s", w.Body.String())
	}
	if !strings.Contains(buf.String(), errTest.Error()) {
		t.Fatalf("internal detail not logged: %s", buf.String())
	}
}
