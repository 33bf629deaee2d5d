// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store keeps the lifecycle state and results of web searches.
// It replaces ambient global state with an explicit store the server
// injects: searches are created, updated as the background pipeline makes
// progress, read by polling clients, and expired by a sweeper. The default
// DSN is ":memory:", so nothing outlives the process.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-scout/pkg/types"
)

// ErrNotFound is returned when a search id does not exist.
var ErrNotFound = errors.New("search not found")

// Status is the lifecycle state of a search.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Results holds the classified output of a completed search.
type Results struct {
	Classifications []types.PaperClassification `json:"classifications"`
	Summary         types.SearchSummary         `json:"summary"`
}

// Search is one tracked search with its current state.
type Search struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	Status    Status    `json:"status"`
	Progress  string    `json:"progress"`
	Error     string    `json:"error,omitempty"`
	Results   *Results  `json:"results,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store persists searches in SQLite.
type Store struct {
	db *sql.DB
}

// Open creates or opens the store at dsn. An empty dsn selects in-memory
// storage. The connection pool is capped at one connection because an
// in-memory SQLite database exists per connection.
func Open(dsn string) (*Store, error) {
	if dsn == "" {
		dsn = ":memory:"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening result store: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS searches (
		id TEXT PRIMARY KEY,
		query TEXT NOT NULL,
		status TEXT NOT NULL,
		progress TEXT,
		error TEXT,
		results TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`)
	return err
}

// Create registers a new running search and returns its id.
func (s *Store) Create(ctx context.Context, query string) (string, error) {
	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO searches (id, query, status, progress, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, query, StatusRunning, "Starting search...", now, now)
	if err != nil {
		return "", fmt.Errorf("creating search: %w", err)
	}
	return id, nil
}

// SetProgress updates the human-readable progress line of a running search.
func (s *Store) SetProgress(ctx context.Context, id, progress string) error {
	return s.update(ctx, id,
		`UPDATE searches SET progress = ?, updated_at = ? WHERE id = ?`,
		progress, time.Now().UTC(), id)
}

// Complete stores the results and marks the search completed.
func (s *Store) Complete(ctx context.Context, id string, results Results) error {
	blob, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("marshaling results: %w", err)
	}
	return s.update(ctx, id,
		`UPDATE searches SET status = ?, progress = ?, results = ?, updated_at = ? WHERE id = ?`,
		StatusCompleted, "Search completed", string(blob), time.Now().UTC(), id)
}

// Fail marks the search failed with a message.
func (s *Store) Fail(ctx context.Context, id, msg string) error {
	return s.update(ctx, id,
		`UPDATE searches SET status = ?, progress = ?, error = ?, updated_at = ? WHERE id = ?`,
		StatusFailed, "Search failed", msg, time.Now().UTC(), id)
}

func (s *Store) update(ctx context.Context, id, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating search %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Get returns one search including its results, if completed.
func (s *Store) Get(ctx context.Context, id string) (*Search, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, query, status, progress, COALESCE(error, ''), COALESCE(results, ''), created_at, updated_at
		 FROM searches WHERE id = ?`, id)

	var sr Search
	var blob string
	err := row.Scan(&sr.ID, &sr.Query, &sr.Status, &sr.Progress, &sr.Error, &blob, &sr.CreatedAt, &sr.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading search %s: %w", id, err)
	}

	if blob != "" {
		var results Results
		if err := json.Unmarshal([]byte(blob), &results); err != nil {
			return nil, fmt.Errorf("unmarshaling results for %s: %w", id, err)
		}
		sr.Results = &results
	}
	return &sr, nil
}

// List returns all searches newest first, without their result payloads.
func (s *Store) List(ctx context.Context) ([]Search, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, status, progress, COALESCE(error, ''), created_at, updated_at
		 FROM searches ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing searches: %w", err)
	}
	defer rows.Close()

	var searches []Search
	for rows.Next() {
		var sr Search
		if err := rows.Scan(&sr.ID, &sr.Query, &sr.Status, &sr.Progress, &sr.Error, &sr.CreatedAt, &sr.UpdatedAt); err != nil {
			return nil, err
		}
		searches = append(searches, sr)
	}
	return searches, rows.Err()
}

// Delete removes one search.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.update(ctx, id, `DELETE FROM searches WHERE id = ?`, id)
}

// DeleteExpired removes searches not updated within ttl and reports how
// many were removed. Running searches are kept regardless of age.
func (s *Store) DeleteExpired(ctx context.Context, ttl time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-ttl)
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM searches WHERE updated_at < ? AND status != ?`, cutoff, StatusRunning)
	if err != nil {
		return 0, fmt.Errorf("expiring searches: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}
