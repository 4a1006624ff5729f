package state

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5
	// Fixed width so stored timestamps sort lexically.
	timeLayout = "2006-01-02T15:04:05.000000000Z"
)

// Store is the sqlite ledger of processed files and runs.
type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string, busyTimeout time.Duration) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("state path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("state path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create state directory %q: %w", dir, err)
		}
	}
	if busyTimeout <= 0 {
		busyTimeout = 2 * time.Second
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)", cleanPath, busyTimeout.Milliseconds())
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite state %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite state %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Lookup returns the recorded state of path, if any.
func (s *Store) Lookup(path string) (FileState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		fs        FileState
		changed   int
		updatedAt string
	)
	err := s.withRetry("lookup file", func() error {
		return s.db.QueryRow(
			`SELECT path, content_hash, ruleset, changed, updated_at_utc FROM files WHERE path = ?`,
			path,
		).Scan(&fs.Path, &fs.ContentHash, &fs.Ruleset, &changed, &updatedAt)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return FileState{}, false, nil
	}
	if err != nil {
		return FileState{}, false, err
	}
	fs.Changed = changed != 0
	if ts, perr := time.Parse(timeLayout, updatedAt); perr == nil {
		fs.UpdatedAt = ts.UTC()
	}
	return fs, true, nil
}

// Record upserts the state of one file.
func (s *Store) Record(fs FileState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if fs.UpdatedAt.IsZero() {
		fs.UpdatedAt = time.Now().UTC()
	}
	changed := 0
	if fs.Changed {
		changed = 1
	}
	return s.withRetry("record file", func() error {
		_, err := s.db.Exec(`
INSERT INTO files (path, content_hash, ruleset, changed, updated_at_utc)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(path) DO UPDATE SET
  content_hash=excluded.content_hash,
  ruleset=excluded.ruleset,
  changed=excluded.changed,
  updated_at_utc=excluded.updated_at_utc
`, fs.Path, fs.ContentHash, fs.Ruleset, changed, fs.UpdatedAt.UTC().Format(timeLayout))
		return err
	})
}

func (s *Store) SaveRun(run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(run.ID) == "" {
		return fmt.Errorf("run id must not be empty")
	}
	return s.withRetry("save run", func() error {
		_, err := s.db.Exec(`
INSERT OR REPLACE INTO runs (
  id, mode, started_at_utc, finished_at_utc, files_scanned, files_changed, rewrites, warnings, errors
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
			run.ID,
			run.Mode,
			run.StartedAt.UTC().Format(timeLayout),
			run.FinishedAt.UTC().Format(timeLayout),
			run.FilesScanned,
			run.FilesChanged,
			run.Rewrites,
			run.Warnings,
			run.Errors,
		)
		return err
	})
}

// LoadRuns returns up to limit runs, newest first.
func (s *Store) LoadRuns(limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 20
	}
	var rows *sql.Rows
	err := s.withRetry("load runs", func() error {
		var qErr error
		rows, qErr = s.db.Query(`
SELECT id, mode, started_at_utc, finished_at_utc, files_scanned, files_changed, rewrites, warnings, errors
FROM runs ORDER BY started_at_utc DESC, rowid DESC LIMIT ?
`, limit)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		var (
			run                Run
			startedRaw, endRaw string
		)
		if err := rows.Scan(&run.ID, &run.Mode, &startedRaw, &endRaw,
			&run.FilesScanned, &run.FilesChanged, &run.Rewrites, &run.Warnings, &run.Errors); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		started, err := time.Parse(timeLayout, startedRaw)
		if err != nil {
			return nil, fmt.Errorf("parse run start %q: %w", startedRaw, err)
		}
		finished, err := time.Parse(timeLayout, endRaw)
		if err != nil {
			return nil, fmt.Errorf("parse run end %q: %w", endRaw, err)
		}
		run.StartedAt = started.UTC()
		run.FinishedAt = finished.UTC()
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}
	return runs, nil
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if errors.Is(err, sql.ErrNoRows) {
			return err
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}
