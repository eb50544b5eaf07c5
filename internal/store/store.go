// Package store persists project and phase records. It is the persistence
// boundary the analysis core produces into: the core itself never writes
// anything, callers merge PhaseProgress results here.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite data access layer for projects and phases.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use in transactions.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate creates the tables and indexes. Idempotent.
func (s *Store) Migrate() error {
	_, err := s.db.Exec(schemaDDL)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS projects (
  id          INTEGER PRIMARY KEY,
  root_path   TEXT NOT NULL UNIQUE,
  name        TEXT NOT NULL,
  created_at  TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS phases (
  id          INTEGER PRIMARY KEY,
  project_id  INTEGER NOT NULL REFERENCES projects(id),
  title       TEXT NOT NULL,
  category    TEXT,
  score       INTEGER NOT NULL DEFAULT 0,
  status      TEXT NOT NULL DEFAULT 'backlog',
  evidence    TEXT,
  missing     TEXT,
  scored_at   TIMESTAMP NOT NULL,
  UNIQUE(project_id, title)
);

CREATE INDEX IF NOT EXISTS idx_phases_project ON phases(project_id);
`

// Project is one analyzed workspace.
type Project struct {
	ID        int64
	RootPath  string
	Name      string
	CreatedAt time.Time
}

// Phase is a persisted phase record with its latest score merged in.
type Phase struct {
	ID        int64
	ProjectID int64
	Title     string
	Category  string
	Score     int
	Status    string
	Evidence  []string
	Missing   []string
	ScoredAt  time.Time
}

// UpsertProject inserts or returns the project for rootPath.
func (s *Store) UpsertProject(rootPath, name string) (int64, error) {
	_, err := s.db.Exec(
		`INSERT INTO projects (root_path, name, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(root_path) DO UPDATE SET name = excluded.name`,
		rootPath, name, time.Now(),
	)
	if err != nil {
		return 0, fmt.Errorf("upsert project: %w", err)
	}
	// LastInsertId is unreliable after ON CONFLICT updates, so look the id up.
	var id int64
	if err := s.db.QueryRow("SELECT id FROM projects WHERE root_path = ?", rootPath).Scan(&id); err != nil {
		return 0, fmt.Errorf("upsert project: lookup: %w", err)
	}
	return id, nil
}

// ProjectByRoot returns the project for rootPath, or nil when absent.
func (s *Store) ProjectByRoot(rootPath string) (*Project, error) {
	p := &Project{}
	err := s.db.QueryRow(
		"SELECT id, root_path, name, created_at FROM projects WHERE root_path = ?",
		rootPath,
	).Scan(&p.ID, &p.RootPath, &p.Name, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("project by root: %w", err)
	}
	return p, nil
}

// SavePhaseResult merges a scored result into the persisted phase record,
// creating the record when the title is new for the project.
func (s *Store) SavePhaseResult(projectID int64, title, category string, score int, status string, evidence, missing []string) error {
	ev, err := json.Marshal(evidence)
	if err != nil {
		return fmt.Errorf("save phase: marshal evidence: %w", err)
	}
	mi, err := json.Marshal(missing)
	if err != nil {
		return fmt.Errorf("save phase: marshal missing: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO phases (project_id, title, category, score, status, evidence, missing, scored_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(project_id, title) DO UPDATE SET
		   category = excluded.category,
		   score = excluded.score,
		   status = excluded.status,
		   evidence = excluded.evidence,
		   missing = excluded.missing,
		   scored_at = excluded.scored_at`,
		projectID, title, category, score, status, string(ev), string(mi), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("save phase: %w", err)
	}
	return nil
}

// PhasesByProject returns all phase records for a project, ordered by
// title.
func (s *Store) PhasesByProject(projectID int64) ([]*Phase, error) {
	rows, err := s.db.Query(
		`SELECT id, project_id, title, COALESCE(category, ''), score, status,
		        COALESCE(evidence, '[]'), COALESCE(missing, '[]'), scored_at
		 FROM phases WHERE project_id = ? ORDER BY title`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("phases by project: %w", err)
	}
	defer rows.Close()

	var phases []*Phase
	for rows.Next() {
		p := &Phase{}
		var ev, mi string
		if err := rows.Scan(&p.ID, &p.ProjectID, &p.Title, &p.Category, &p.Score, &p.Status, &ev, &mi, &p.ScoredAt); err != nil {
			return nil, fmt.Errorf("phases by project: scan: %w", err)
		}
		if err := json.Unmarshal([]byte(ev), &p.Evidence); err != nil {
			p.Evidence = nil
		}
		if err := json.Unmarshal([]byte(mi), &p.Missing); err != nil {
			p.Missing = nil
		}
		phases = append(phases, p)
	}
	return phases, rows.Err()
}
