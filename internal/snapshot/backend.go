package snapshot

import (
	"errors"
	"fmt"
	"log/slog"

	"shelf/internal/catalog"
	"shelf/internal/config"
)

var (
	// ErrMalformed marks a data file that exists but cannot be decoded.
	ErrMalformed = errors.New("malformed data file")
	// ErrLocked is returned when another session holds the data file lock.
	ErrLocked = errors.New("data file is in use by another shelf session")
)

// Backend reads and writes full snapshots of one data file.
type Backend interface {
	catalog.Source
	catalog.Sink
	Name() string
	Path() string
}

// Open returns the backend selected by the storage configuration.
func Open(cfg *config.Config, logger *slog.Logger) (Backend, error) {
	if cfg == nil {
		return nil, errors.New("snapshot: config is required")
	}
	return ForPath(cfg.Storage.Backend, cfg.Storage.Path, logger)
}

// ForPath returns the named backend for path.
func ForPath(name, path string, logger *slog.Logger) (Backend, error) {
	switch name {
	case config.BackendJSON:
		return NewFile(path, logger), nil
	case config.BackendSQLite:
		return NewSQLite(path, logger), nil
	default:
		return nil, fmt.Errorf("snapshot: unknown backend %q", name)
	}
}
