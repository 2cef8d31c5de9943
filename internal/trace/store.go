// Package trace keeps an optional journal of applied translations, useful
// for checking what a mapping actually did after the fact.
package trace

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/faderctl/faderctl/internal/logger"

	_ "modernc.org/sqlite" // SQLite driver for database/sql
)

// Entry is one recorded translation.
type Entry struct {
	ID        string
	At        time.Time
	RuleName  string
	Direction string // "control-to-audio" or "audio-to-control"
	Endpoint  string
	Value     float64
}

// Store is a SQLite-backed translation journal.
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.Mutex
}

// NewStore opens (or creates) the journal database. An empty path uses
// ~/.faderctl/trace.db.
func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(homeDir, ".faderctl", "trace.db")
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create trace directory: %w", err)
	}

	// WAL mode so the journal never stalls the main loop behind a reader.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Debug().
		Str("path", dbPath).
		Msg("Opened trace store")

	return store, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS translations (
		id TEXT PRIMARY KEY,
		at INTEGER NOT NULL,
		rule_name TEXT NOT NULL,
		direction TEXT NOT NULL,
		endpoint TEXT,
		value REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_translations_at ON translations(at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// RecordTranslation journals one applied translation. It satisfies the
// engine's Journal interface; failures are logged and dropped so the main
// loop never blocks on bookkeeping.
func (s *Store) RecordTranslation(ruleName, direction, endpoint string, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO translations (id, at, rule_name, direction, endpoint, value) VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), time.Now().Unix(), ruleName, direction, endpoint, value,
	)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to journal translation")
	}
}

// Recent returns the newest entries, newest first.
func (s *Store) Recent(limit int) ([]*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(
		`SELECT id, at, rule_name, direction, endpoint, value FROM translations ORDER BY at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query translations: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		var at int64
		if err := rows.Scan(&e.ID, &at, &e.RuleName, &e.Direction, &e.Endpoint, &e.Value); err != nil {
			return nil, fmt.Errorf("failed to scan translation: %w", err)
		}
		e.At = time.Unix(at, 0)
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
