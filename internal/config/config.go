// Package config loads server settings from the environment.
package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server settings.
type Config struct {
	// HTTP
	Addr            string
	CORSOrigins     []string
	UserHeader      string
	ShutdownTimeout time.Duration

	// Storage: "memory", a postgres:// URL or a SQLite file path.
	DatabaseURL string

	LogLevel string

	// OIDC bearer authentication replaces the identity header when Issuer is set.
	OIDCIssuer   string
	OIDCClientID string
	OIDCUserInfo bool
}

// Load reads an optional .env file from the working directory and then the
// environment. Variables already set take precedence over the file.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("could not read .env", "err", err)
	}

	port := getenv("PORT", "4000")
	return Config{
		Addr:            getenv("ADDR", "0.0.0.0:"+port),
		CORSOrigins:     getlist("CORS_ORIGINS", []string{"*"}),
		UserHeader:      getenv("USER_HEADER", "x-user-id"),
		ShutdownTimeout: getdur("SHUTDOWN_TIMEOUT", 10*time.Second),

		DatabaseURL: getenv("DATABASE_URL", "./data/putter.db"),

		LogLevel: getenv("LOG_LEVEL", "info"),

		OIDCIssuer:   getenv("OIDC_ISSUER", ""),
		OIDCClientID: getenv("OIDC_CLIENT_ID", ""),
		OIDCUserInfo: getbool("OIDC_USERINFO", false),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		slog.Warn("invalid bool, using default", "key", k, "value", v, "default", def)
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		slog.Warn("invalid duration, using default", "key", k, "value", v, "default", def)
	}
	return def
}

func getlist(k string, def []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
