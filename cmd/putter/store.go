package main

import (
	"strings"

	"github.com/eeturonkko/putter/internal/adapter/memory"
	"github.com/eeturonkko/putter/internal/adapter/postgres"
	"github.com/eeturonkko/putter/internal/adapter/sqlite"
	"github.com/eeturonkko/putter/internal/domain"
)

type store interface {
	domain.SessionRepository
	Close() error
}

func storeKind(databaseURL string) string {
	switch {
	case databaseURL == "memory":
		return "memory"
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return "postgres"
	}
	return "sqlite"
}

// openStore selects the backend from DATABASE_URL.
func openStore(databaseURL string) (store, error) {
	switch storeKind(databaseURL) {
	case "memory":
		return memory.New(), nil
	case "postgres":
		db, err := postgres.Open(databaseURL)
		if err != nil {
			return nil, err
		}
		return db, nil
	}
	db, err := sqlite.Open(strings.TrimPrefix(databaseURL, "sqlite://"))
	if err != nil {
		return nil, err
	}
	return db, nil
}
