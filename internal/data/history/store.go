package history

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
)

// AnalysisTypeFull is the analysis_type stored for a whole-project run.
const AnalysisTypeFull = "full_analysis"

// Store persists analyzed projects and their serialized results. A single
// writer connection plus busy retries absorb write bursts from watch mode.
type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

// Project is one analyzed project root.
type Project struct {
	ID        int64     `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Path      string    `json:"path" yaml:"path"`
	Language  string    `json:"language" yaml:"language"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

func Open(path string, busyTimeout time.Duration) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	if busyTimeout <= 0 {
		busyTimeout = 2 * time.Second
	}

	// busy_timeout + WAL reduce lock conflicts during watch-mode churn.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", cleanPath, busyTimeout.Milliseconds())
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
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

// SaveAnalysis upserts the project row for projectPath and appends the
// serialized results as a new analyses row, returning its id. The project
// name is the path's base name. Repeat analyses refresh updated_at and keep
// created_at.
func (s *Store) SaveAnalysis(projectPath, language string, results []byte) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projectPath = strings.TrimSpace(projectPath)
	if projectPath == "" {
		return 0, fmt.Errorf("project path must not be empty")
	}
	if language == "" {
		language = "unknown"
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	name := filepath.Base(projectPath)

	var analysisID int64
	err := s.withRetry("save analysis", func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}

		if _, err := tx.Exec(`
INSERT INTO projects (name, path, language, created_at_utc, updated_at_utc)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(path) DO UPDATE SET
  name=excluded.name,
  language=excluded.language,
  updated_at_utc=excluded.updated_at_utc
`, name, projectPath, language, now, now); err != nil {
			_ = tx.Rollback()
			return err
		}

		var projectID int64
		if err := tx.QueryRow(`SELECT id FROM projects WHERE path = ?`, projectPath).Scan(&projectID); err != nil {
			_ = tx.Rollback()
			return err
		}

		res, err := tx.Exec(`
INSERT INTO analyses (project_id, analysis_type, results, created_at_utc)
VALUES (?, ?, ?, ?)
`, projectID, AnalysisTypeFull, string(results), now)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		if analysisID, err = res.LastInsertId(); err != nil {
			_ = tx.Rollback()
			return err
		}

		return tx.Commit()
	})
	if err != nil {
		return 0, err
	}
	return analysisID, nil
}

// ListProjects returns every analyzed project, most recently updated first.
func (s *Store) ListProjects() ([]Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows *sql.Rows
	err := s.withRetry("list projects", func() error {
		var qErr error
		rows, qErr = s.db.Query(`
SELECT id, name, path, language, created_at_utc, updated_at_utc
FROM projects
ORDER BY updated_at_utc DESC, id DESC
`)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := make([]Project, 0)
	for rows.Next() {
		var (
			project    Project
			createdRaw string
			updatedRaw string
		)
		if err := rows.Scan(
			&project.ID,
			&project.Name,
			&project.Path,
			&project.Language,
			&createdRaw,
			&updatedRaw,
		); err != nil {
			return nil, fmt.Errorf("scan project row: %w", err)
		}

		created, err := time.Parse(time.RFC3339Nano, createdRaw)
		if err != nil {
			return nil, fmt.Errorf("parse project created_at %q: %w", createdRaw, err)
		}
		updated, err := time.Parse(time.RFC3339Nano, updatedRaw)
		if err != nil {
			return nil, fmt.Errorf("parse project updated_at %q: %w", updatedRaw, err)
		}
		project.CreatedAt = created.UTC()
		project.UpdatedAt = updated.UTC()

		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate project rows: %w", err)
	}

	return projects, nil
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
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

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func IsCorruptError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "malformed") || strings.Contains(msg, "not a database") || errors.Is(err, os.ErrInvalid)
}
