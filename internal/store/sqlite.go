package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/rcalder/wharf/internal/composite"
	"github.com/rcalder/wharf/internal/log"
)

// schema is the single-table key/value layout. The CREATE is idempotent so no
// migration machinery is needed for one table.
const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SQLiteStore is the Store implementation backed by a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// Ensure SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (creating if needed) the database at path and applies
// the schema. Parent directories are created with 0700.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening state database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Load reads the placeholder record from under the fixed key.
func (s *SQLiteStore) Load(ctx context.Context) ([]composite.Placeholder, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, Key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading placeholder record: %w", err)
	}

	placeholders, err := Decode([]byte(value))
	if err != nil {
		return nil, true, err
	}

	log.Debug(log.CatStore, "loaded placeholder record", "count", len(placeholders))
	return placeholders, true, nil
}

// Save writes the placeholder record under the fixed key, replacing any
// prior value.
func (s *SQLiteStore) Save(ctx context.Context, placeholders []composite.Placeholder) error {
	data, err := Encode(placeholders)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		Key, string(data),
	)
	if err != nil {
		return fmt.Errorf("writing placeholder record: %w", err)
	}

	log.Debug(log.CatStore, "saved placeholder record", "count", len(placeholders))
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
