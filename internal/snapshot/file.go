package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"shelf/internal/catalog"
	"shelf/internal/fileutil"
	"shelf/internal/logging"
)

// File is the JSON data file backend.
type File struct {
	path   string
	logger *slog.Logger
}

// NewFile creates a JSON backend for path.
func NewFile(path string, logger *slog.Logger) *File {
	return &File{
		path:   path,
		logger: logging.NewComponentLogger(logger, "snapshot"),
	}
}

func (f *File) Name() string { return "json" }

func (f *File) Path() string { return f.path }

// Read decodes the data file. A missing file is an empty collection.
func (f *File) Read(ctx context.Context) ([]catalog.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			f.logger.Info("data file not found; starting with an empty catalog",
				logging.String(logging.FieldPath, f.path))
			return nil, nil
		}
		return nil, fmt.Errorf("read data file: %w", err)
	}

	records, err := decodeRecords(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.path, err)
	}

	f.logger.Debug("loaded data file",
		logging.Int("records", len(records)),
		logging.String(logging.FieldPath, f.path))
	return records, nil
}

// Write replaces the data file with records. The new content is written to a
// temp file first and renamed over the old one.
func (f *File) Write(ctx context.Context, records []catalog.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encodeRecords(records)
	if err != nil {
		return err
	}

	if err := fileutil.WriteFileAtomic(f.path, data, 0o644); err != nil {
		return fmt.Errorf("save data file: %w", err)
	}

	f.logger.Info("saved data file",
		logging.Int("records", len(records)),
		logging.String(logging.FieldPath, f.path))
	return nil
}
