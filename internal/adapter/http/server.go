// Package adapthttp is the driving HTTP adapter of the putter service.
package adapthttp

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eeturonkko/putter/internal/app"
	"github.com/eeturonkko/putter/internal/metrics"
)

// DefaultUserHeader carries the caller identity when no other Identifier
// is configured.
const DefaultUserHeader = "x-user-id"

// Options configures a Server. The zero value serves every origin and
// identifies callers by DefaultUserHeader.
type Options struct {
	Identifier  Identifier
	UserHeader  string
	CORSOrigins []string
	Registry    *prometheus.Registry
	Logger      *slog.Logger
}

// Server is the driving HTTP adapter that routes requests to the session
// service.
type Server struct {
	sessions   *app.SessionService
	ident      Identifier
	userHeader string
	origins    []string
	registry   *prometheus.Registry
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// New creates a Server wired to the given service.
func New(ss *app.SessionService, opts Options) *Server {
	s := &Server{
		sessions:   ss,
		ident:      opts.Identifier,
		userHeader: opts.UserHeader,
		origins:    opts.CORSOrigins,
		registry:   opts.Registry,
		logger:     opts.Logger,
	}
	if s.userHeader == "" {
		s.userHeader = DefaultUserHeader
	}
	if s.ident == nil {
		s.ident = HeaderIdentifier{Header: s.userHeader}
	}
	if len(s.origins) == 0 {
		s.origins = []string{"*"}
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.metrics = metrics.New(s.registry)
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(withRequestID)
	r.Use(s.observe)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", s.userHeader, requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/sessions", func(r chi.Router) {
		r.Use(s.identify)
		r.Get("/", s.handleListSessions)
		r.Post("/", s.handleCreateSession)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Post("/putts", s.handleAddPutt)
			r.Patch("/putts/{puttId}", s.handleUpdatePutt)
			r.Delete("/putts/{puttId}", s.handleDeletePutt)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, errNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, errMethodNotAllowed)
	})
	return r
}
