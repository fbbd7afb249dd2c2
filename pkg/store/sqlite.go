package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const sqliteFile = "rpt.sqlite"

// ownWriteQuiet is how long after its own commit a store ignores changes to
// the database file.
const ownWriteQuiet = 500 * time.Millisecond

// sqliteStore keeps every slot as a row of a single table. Batches run in one
// transaction.
type sqliteStore struct {
	db   *sqlx.DB
	dir  string
	file string

	// lastWrite is the UnixNano of the latest local commit.
	lastWrite atomic.Int64
}

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS slots (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);`,
	},
}

// openSQLite opens (or creates) rpt.sqlite inside dir. Pass ":memory:" for an
// in-memory database.
func openSQLite(dir string) (*sqliteStore, error) {
	dsn := ":memory:"
	file := ""
	if dir != ":memory:" {
		if dir == "" {
			return nil, errors.New("store: base path unknown")
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: ensure base path: %w", err)
		}
		file = filepath.Join(dir, sqliteFile)
		dsn = file
	}

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: opening sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: setting busy timeout: %w", err)
	}
	if file != "" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: enabling WAL mode: %w", err)
		}
	}

	s := &sqliteStore{db: db, dir: dir, file: file}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: running migrations: %w", err)
	}
	return s, nil
}

func (s *sqliteStore) runMigrations() error {
	current := 0

	var tables int
	if err := s.db.Get(&tables,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'"); err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}
	if tables > 0 {
		if err := s.db.Get(&current, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := s.db.Beginx()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: %w", m.version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}

func (s *sqliteStore) Read(key string) ([]byte, error) {
	var val []byte
	if err := s.db.Get(&val, "SELECT value FROM slots WHERE key = ?", key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: read %s: %w", key, err)
	}
	return val, nil
}

const upsertSlot = `
INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

func (s *sqliteStore) Write(key string, val []byte) error {
	return s.WriteBatch(map[string][]byte{key: val})
}

func (s *sqliteStore) WriteBatch(batch map[string][]byte) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	now := time.Now().UTC()
	for key, val := range batch {
		if _, err := tx.Exec(upsertSlot, key, val, now); err != nil {
			tx.Rollback()
			return fmt.Errorf("store: write %s: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	s.touched()
	return nil
}

func (s *sqliteStore) touched() {
	s.lastWrite.Store(time.Now().UnixNano())
}

func (s *sqliteStore) recentlyWritten() bool {
	return time.Since(time.Unix(0, s.lastWrite.Load())) < ownWriteQuiet
}

func (s *sqliteStore) Erase(key string) error {
	if _, err := s.db.Exec("DELETE FROM slots WHERE key = ?", key); err != nil {
		return fmt.Errorf("store: erase %s: %w", key, err)
	}
	s.touched()
	return nil
}

func (s *sqliteStore) Keys(ctx context.Context) []string {
	var keys []string
	if err := s.db.SelectContext(ctx, &keys, "SELECT key FROM slots ORDER BY key"); err != nil {
		return []string{}
	}
	sort.Strings(keys)
	return keys
}

// Watch reports any change to the database file as EventInvalidated since the
// row that changed cannot be told from the filesystem. Changes right after this
// store's own writes are not reported.
func (s *sqliteStore) Watch(ctx context.Context) (<-chan Event, error) {
	if s.file == "" {
		return nil, errors.New("store: cannot watch an in-memory database")
	}
	return watchDir(ctx, s.dir, func(path string) Event {
		if strings.HasPrefix(filepath.Base(path), sqliteFile) && !s.recentlyWritten() {
			return Event{Type: EventInvalidated}
		}
		return Event{}
	})
}

func (s *sqliteStore) Path() string {
	if s.file == "" {
		return s.dir
	}
	return s.file
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}
