package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	adapthttp "github.com/eeturonkko/putter/internal/adapter/http"
	"github.com/eeturonkko/putter/internal/app"
	"github.com/eeturonkko/putter/internal/config"
	"github.com/eeturonkko/putter/internal/logging"
)

func main() {
	cfg := config.Load()

	level, err := logging.ParseLevel(cfg.LogLevel)
	logger := logging.Setup(level)
	if err != nil {
		logger.Warn("invalid LOG_LEVEL, using info", "err", err)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("store close", "err", err)
		}
	}()
	logger.Info("storage initialized", "backend", storeKind(cfg.DatabaseURL))

	ident, err := identifier(ctx, cfg)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv := adapthttp.New(app.NewSessionService(store), adapthttp.Options{
		Identifier:  ident,
		UserHeader:  cfg.UserHeader,
		CORSOrigins: cfg.CORSOrigins,
		Registry:    reg,
		Logger:      logger,
	})

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// identifier picks OIDC bearer authentication when an issuer is configured
// and falls back to the identity header otherwise.
func identifier(ctx context.Context, cfg config.Config) (adapthttp.Identifier, error) {
	if cfg.OIDCIssuer == "" {
		return adapthttp.HeaderIdentifier{Header: cfg.UserHeader}, nil
	}
	discoverCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return adapthttp.NewTokenIdentifier(discoverCtx, cfg.OIDCIssuer, cfg.OIDCClientID, cfg.OIDCUserInfo)
}
