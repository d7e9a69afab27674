// Package store provides SQLite-backed persistence for the incremental
// write cache and run history.
package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/Masterminds/semver/v3"
	_ "modernc.org/sqlite"
)

// DefaultName is the store file kept at the output root.
const DefaultName = ".mdscaffold.db"

const (
	schemaVersion    = "1.0.0"
	schemaConstraint = "^1.0.0"
)

// Run is one recorded generation run.
type Run struct {
	ID           string
	StartedAt    time.Time
	FilesWritten int
	Warnings     int
}

// Store wraps a SQLite database holding per-file content hashes and the
// run history.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database at dbPath, ensures all
// required tables exist, and verifies the schema version is one this
// build can read. Use ":memory:" for an in-memory database.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	if err := checkSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func createTables(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS file_hashes (
			path       TEXT PRIMARY KEY,
			hash       TEXT NOT NULL,
			written_at DATETIME NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE TABLE IF NOT EXISTS runs (
			id            TEXT PRIMARY KEY,
			started_at    DATETIME NOT NULL DEFAULT (datetime('now')),
			files_written INTEGER NOT NULL,
			warnings      INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS meta (
			schema_version TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// checkSchema stamps a fresh database with the current schema version and
// rejects databases written by an incompatible major version.
func checkSchema(db *sql.DB) error {
	var version string
	err := db.QueryRow(`SELECT schema_version FROM meta`).Scan(&version)
	if err == sql.ErrNoRows {
		if _, err := db.Exec(`INSERT INTO meta (schema_version) VALUES (?)`, schemaVersion); err != nil {
			return fmt.Errorf("stamp schema version: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("parse schema version %q: %w", version, err)
	}
	c, err := semver.NewConstraint(schemaConstraint)
	if err != nil {
		return fmt.Errorf("parse schema constraint: %w", err)
	}
	if !c.Check(v) {
		return fmt.Errorf("store schema %s is not compatible with %s", version, schemaConstraint)
	}
	return nil
}

// HashContent returns the SHA-256 hex digest used for change detection.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// Hash returns the stored content hash for a path, or "" if the path has
// never been recorded.
func (s *Store) Hash(path string) (string, error) {
	var hash string
	err := s.db.QueryRow(
		`SELECT hash FROM file_hashes WHERE path = ?`, path,
	).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get hash: %w", err)
	}
	return hash, nil
}

// RecordWrite persists the content hash for a path. An existing record
// is replaced.
func (s *Store) RecordWrite(path, content string) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO file_hashes (path, hash, written_at)
		 VALUES (?, ?, datetime('now'))`,
		path, HashContent(content),
	)
	if err != nil {
		return fmt.Errorf("record write: %w", err)
	}
	return nil
}

// ShouldWrite reports whether path needs writing: unknown paths, changed
// content, a missing file, and a file whose on-disk content drifted from
// the recorded hash all need a write. On error the answer is true, so a
// broken store never suppresses output.
func (s *Store) ShouldWrite(path, content string) (bool, error) {
	stored, err := s.Hash(path)
	if err != nil {
		return true, err
	}
	if stored == "" {
		return true, nil
	}
	if HashContent(content) != stored {
		return true, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return true, nil
	}
	if HashContent(string(data)) != stored {
		return true, nil
	}
	return false, nil
}

// Prune removes hash records for paths not in keep and returns how many
// were removed.
func (s *Store) Prune(keep []string) (int, error) {
	keepSet := make(map[string]bool, len(keep))
	for _, path := range keep {
		keepSet[path] = true
	}

	rows, err := s.db.Query(`SELECT path FROM file_hashes`)
	if err != nil {
		return 0, fmt.Errorf("list hashes: %w", err)
	}
	defer rows.Close()

	var stale []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return 0, fmt.Errorf("scan hash path: %w", err)
		}
		if !keepSet[path] {
			stale = append(stale, path)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("list hashes: %w", err)
	}

	for _, path := range stale {
		if _, err := s.db.Exec(`DELETE FROM file_hashes WHERE path = ?`, path); err != nil {
			return 0, fmt.Errorf("prune %s: %w", path, err)
		}
	}
	return len(stale), nil
}

// RecordRun appends a run to the history. The database supplies the
// timestamp; run.StartedAt is ignored on write and filled on read.
func (s *Store) RecordRun(run Run) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO runs (id, started_at, files_written, warnings)
		 VALUES (?, datetime('now'), ?, ?)`,
		run.ID, run.FilesWritten, run.Warnings,
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// LastRuns returns up to n runs, newest first.
func (s *Store) LastRuns(n int) ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT id, started_at, files_written, warnings
		 FROM runs ORDER BY rowid DESC LIMIT ?`, n,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FilesWritten, &r.Warnings); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
