package snapshot

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"shelf/internal/catalog"
	"shelf/internal/logging"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema changes.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// SQLite stores the snapshot in a SQLite database file. The database is
// opened for each Read or Write and closed again, so the file is only
// touched at load and save time.
type SQLite struct {
	path   string
	logger *slog.Logger
}

// NewSQLite creates a SQLite backend for path.
func NewSQLite(path string, logger *slog.Logger) *SQLite {
	return &SQLite{
		path:   path,
		logger: logging.NewComponentLogger(logger, "snapshot"),
	}
}

func (s *SQLite) Name() string { return "sqlite" }

func (s *SQLite) Path() string { return s.path }

// Read returns all rows ordered by insertion position. A missing database
// file is an empty collection.
func (s *SQLite) Read(ctx context.Context) ([]catalog.Record, error) {
	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Info("database not found; starting with an empty catalog",
				logging.String(logging.FieldPath, s.path))
			return nil, nil
		}
		return nil, fmt.Errorf("stat database: %w", err)
	}

	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := checkSchema(ctx, db); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", s.path, ErrMalformed, err)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT book_id, title, author, year, copies, borrowed FROM books ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: query books: %w", s.path, ErrMalformed, err)
	}
	defer rows.Close()

	records := make([]catalog.Record, 0)
	for rows.Next() {
		var rec catalog.Record
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Author, &rec.Year, &rec.Copies, &rec.Borrowed); err != nil {
			return nil, fmt.Errorf("%s: %w: scan book: %w", s.path, ErrMalformed, err)
		}
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w: %w", s.path, ErrMalformed, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w: iterate books: %w", s.path, ErrMalformed, err)
	}

	s.logger.Debug("loaded database",
		logging.Int("records", len(records)),
		logging.String(logging.FieldPath, s.path))
	return records, nil
}

// Write replaces every row with records in a single transaction.
func (s *SQLite) Write(ctx context.Context, records []catalog.Record) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := initSchema(ctx, db); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM books`); err != nil {
		return fmt.Errorf("clear books: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO books (position, book_id, title, author, year, copies, borrowed) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		if _, err := stmt.ExecContext(ctx, i, rec.ID, rec.Title, rec.Author, rec.Year, rec.Copies, rec.Borrowed); err != nil {
			return fmt.Errorf("insert book %q: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}

	s.logger.Info("saved database",
		logging.Int("records", len(records)),
		logging.String(logging.FieldPath, s.path))
	return nil
}

func (s *SQLite) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w: %w", s.path, ErrMalformed, err)
	}
	return db, nil
}

func checkSchema(ctx context.Context, db *sql.DB) error {
	var tables int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name IN ('schema_version', 'books')",
	).Scan(&tables)
	if err != nil {
		return fmt.Errorf("inspect schema: %w", err)
	}
	if tables != 2 {
		return errors.New("books tables are missing")
	}

	var version int
	if err := db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d", ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	var version int
	err := db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	case version != schemaVersion:
		return fmt.Errorf("%w: database has version %d, expected %d", ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}
