// ABOUTME: SQLite storage implementation using modernc.org/sqlite (pure Go)
// ABOUTME: Persists the last fetched CSV body and its cache headers per source URL

package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/harper/smilefeed/internal/models"
)

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// Compile-time check that SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite storage instance.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	// WAL lets `serve` read while a CLI command refreshes the cache
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the database tables if they don't exist.
func (s *SQLiteStore) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sources (
			url TEXT PRIMARY KEY,
			etag TEXT,
			last_modified TEXT,
			body BLOB NOT NULL,
			fetched_at TIMESTAMP NOT NULL
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// GetSource returns the cached payload for url.
func (s *SQLiteStore) GetSource(url string) (*models.Source, error) {
	query := `SELECT url, etag, last_modified, body, fetched_at FROM sources WHERE url = ?`

	var src models.Source
	var etag, lastModified sql.NullString
	err := s.db.QueryRow(query, url).Scan(&src.URL, &etag, &lastModified, &src.Body, &src.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
	}
	if err != nil {
		return nil, fmt.Errorf("query source: %w", err)
	}

	if etag.Valid {
		src.ETag = &etag.String
	}
	if lastModified.Valid {
		src.LastModified = &lastModified.String
	}
	return &src, nil
}

// SaveSource inserts or replaces the cached payload for source.URL.
func (s *SQLiteStore) SaveSource(source *models.Source) error {
	if source == nil || source.URL == "" {
		return fmt.Errorf("save source: missing url")
	}

	query := `
		INSERT INTO sources (url, etag, last_modified, body, fetched_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			etag = excluded.etag,
			last_modified = excluded.last_modified,
			body = excluded.body,
			fetched_at = excluded.fetched_at
	`
	body := source.Body
	if body == nil {
		body = []byte{}
	}
	_, err := s.db.Exec(query,
		source.URL, stringPtrToSQL(source.ETag), stringPtrToSQL(source.LastModified),
		body, source.FetchedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert source: %w", err)
	}
	return nil
}

// TouchSource updates fetched_at after a 304 revalidation.
func (s *SQLiteStore) TouchSource(url string, fetchedAt time.Time) error {
	result, err := s.db.Exec(`UPDATE sources SET fetched_at = ? WHERE url = ?`, fetchedAt.UTC(), url)
	if err != nil {
		return fmt.Errorf("touch source: %w", err)
	}
	return requireAffected(result, url)
}

// DeleteSource removes the cached payload for url.
func (s *SQLiteStore) DeleteSource(url string) error {
	result, err := s.db.Exec(`DELETE FROM sources WHERE url = ?`, url)
	if err != nil {
		return fmt.Errorf("delete source: %w", err)
	}
	return requireAffected(result, url)
}

func requireAffected(result sql.Result, url string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, url)
	}
	return nil
}

func stringPtrToSQL(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

// DefaultDBPath returns the cache database path inside dataDir.
func DefaultDBPath(dataDir string) string {
	return filepath.Join(dataDir, "cache.db")
}
