package testsupport

import (
	"context"
	"testing"

	"shelf/internal/catalog"
	"shelf/internal/config"
	"shelf/internal/snapshot"
)

// SeedData writes records to the data file configured in cfg.
func SeedData(t testing.TB, cfg *config.Config, records ...catalog.Record) {
	t.Helper()

	backend, err := snapshot.Open(cfg, nil)
	if err != nil {
		t.Fatalf("snapshot.Open: %v", err)
	}
	if err := backend.Write(context.Background(), records); err != nil {
		t.Fatalf("seed data: %v", err)
	}
}

// MustLoadStore reads the configured data file into a catalog store.
func MustLoadStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	backend, err := snapshot.Open(cfg, nil)
	if err != nil {
		t.Fatalf("snapshot.Open: %v", err)
	}
	store, err := catalog.Open(context.Background(), backend)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	return store
}
