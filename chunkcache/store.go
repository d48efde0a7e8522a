package chunkcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// Store persists encoded prototypes by chunk hash.
type Store interface {
	Get(ctx context.Context, key Hash) ([]byte, bool, error)
	Put(ctx context.Context, key Hash, data []byte) error
	Close() error
}

// ---------------------------------------------------------------------------
// MemoryStore
// ---------------------------------------------------------------------------

// MemoryStore keeps entries in a map. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[Hash][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[Hash][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, key Hash) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.entries[key]
	return data, ok, nil
}

func (s *MemoryStore) Put(_ context.Context, key Hash, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = append([]byte(nil), data...)
	return nil
}

// Len returns the number of cached entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryStore) Close() error { return nil }

// ---------------------------------------------------------------------------
// SQLiteStore
// ---------------------------------------------------------------------------

// SQLiteStore keeps entries in a single SQLite table.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the cache database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Set busy timeout for concurrent access
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS prototypes (
		hash BLOB PRIMARY KEY,
		data BLOB NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key Hash) ([]byte, bool, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM prototypes WHERE hash = ?", key[:]).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("querying prototype: %w", err)
	}
	return data, true, nil
}

func (s *SQLiteStore) Put(ctx context.Context, key Hash, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO prototypes (hash, data) VALUES (?, ?)",
		key[:], data,
	)
	if err != nil {
		return fmt.Errorf("saving prototype: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
