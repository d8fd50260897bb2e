// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records completed searches in a SQLite database so
// operators can review what was asked and what came back. The orchestrator
// never reads from it; every search queries the providers live.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/profile-search/pkg/types"
)

const defaultRecent = 20

// ErrDisabled is returned by NewStore when no database path is configured.
var ErrDisabled = errors.New("history disabled")

// Entry is one recorded search.
type Entry struct {
	ID         string               `json:"id" yaml:"id"`
	CreatedAt  time.Time            `json:"created_at" yaml:"created_at"`
	Query      string               `json:"query" yaml:"query"`
	Profile    types.Profile        `json:"profile" yaml:"profile"`
	MaxResults int                  `json:"max_results" yaml:"max_results"`
	BuyIntent  bool                 `json:"buy_intent" yaml:"buy_intent"`
	Failures   int                  `json:"failures" yaml:"failures"`
	Results    []types.SearchResult `json:"results" yaml:"results"`
}

// ProfileStats summarizes the recorded searches of one profile.
type ProfileStats struct {
	Profile    types.Profile `json:"profile" yaml:"profile"`
	Searches   int           `json:"searches" yaml:"searches"`
	AvgResults float64       `json:"avg_results" yaml:"avg_results"`
	Failures   int           `json:"failures" yaml:"failures"`
}

// Store manages the history SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the history database at cfg.Path and creates
// the schema if it does not exist.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, ErrDisabled
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

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
	statements := []string{
		`CREATE TABLE IF NOT EXISTS searches (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL,
			query TEXT NOT NULL,
			profile TEXT NOT NULL,
			max_results INTEGER NOT NULL,
			buy_intent INTEGER NOT NULL,
			failures INTEGER NOT NULL,
			result_count INTEGER NOT NULL,
			results TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_searches_profile ON searches(profile)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores e. A missing ID or timestamp is filled in.
func (s *Store) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if e.Results == nil {
		e.Results = []types.SearchResult{}
	}

	results, err := json.Marshal(e.Results)
	if err != nil {
		return e, fmt.Errorf("marshaling results: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO searches (id, created_at, query, profile, max_results, buy_intent, failures, result_count, results)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.CreatedAt.Format(time.RFC3339Nano), e.Query, string(e.Profile),
		e.MaxResults, e.BuyIntent, e.Failures, len(e.Results), string(results),
	)
	if err != nil {
		return e, fmt.Errorf("inserting search %s: %w", e.ID, err)
	}
	return e, nil
}

// Recent returns up to limit entries, newest first. A non-positive limit
// uses the default of 20.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultRecent
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, query, profile, max_results, buy_intent, failures, results
		FROM searches ORDER BY rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			createdAt string
			profile   string
			results   string
		)
		if err := rows.Scan(&e.ID, &createdAt, &e.Query, &profile, &e.MaxResults, &e.BuyIntent, &e.Failures, &results); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		e.Profile = types.Profile(profile)
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			e.CreatedAt = t
		}
		if err := json.Unmarshal([]byte(results), &e.Results); err != nil {
			return nil, fmt.Errorf("decoding results of %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Stats returns per-profile counts ordered by profile name.
func (s *Store) Stats(ctx context.Context) ([]ProfileStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT profile, count(*), avg(result_count), sum(failures)
		FROM searches GROUP BY profile ORDER BY profile`)
	if err != nil {
		return nil, fmt.Errorf("querying history stats: %w", err)
	}
	defer rows.Close()

	var stats []ProfileStats
	for rows.Next() {
		var (
			ps      ProfileStats
			profile string
		)
		if err := rows.Scan(&profile, &ps.Searches, &ps.AvgResults, &ps.Failures); err != nil {
			return nil, fmt.Errorf("scanning stats row: %w", err)
		}
		ps.Profile = types.Profile(profile)
		stats = append(stats, ps)
	}
	return stats, rows.Err()
}
