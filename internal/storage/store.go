package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/ergognome/discord-digest-bot/internal/core/domain"
	coreerrors "github.com/ergognome/discord-digest-bot/internal/core/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id              TEXT PRIMARY KEY,
	created_at      TEXT NOT NULL,
	days_covered    INTEGER NOT NULL,
	chunk_count     INTEGER NOT NULL,
	candidate_count INTEGER NOT NULL,
	update_count    INTEGER NOT NULL,
	status          TEXT NOT NULL,
	digest          TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);

CREATE TABLE IF NOT EXISTS updates (
	run_id       TEXT NOT NULL REFERENCES runs(id),
	position     INTEGER NOT NULL,
	text         TEXT NOT NULL,
	project_name TEXT,
	reference_url TEXT,
	channel_id   TEXT,
	message_id   TEXT,
	PRIMARY KEY (run_id, position)
);
`

// Store persists digest runs and their updates in SQLite.
type Store struct {
	db     *sql.DB
	logger *zerolog.Logger
}

// Open opens or creates the database at path and applies the schema.
func Open(path string, logger *zerolog.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()

		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// SaveRun writes a run and its updates in one transaction.
func (s *Store) SaveRun(ctx context.Context, run *domain.Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, days_covered, chunk_count, candidate_count, update_count, status, digest)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.Format(time.RFC3339), run.DaysCovered,
		run.ChunkCount, run.CandidateCount, run.UpdateCount, run.Status, run.Digest,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for i, u := range run.Updates {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO updates (run_id, position, text, project_name, reference_url, channel_id, message_id)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.ID, i, u.Text, u.ProjectName, u.ReferenceURL, u.ChannelID, u.MessageID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert update %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	s.logger.Debug().Str("run_id", run.ID).Int("updates", len(run.Updates)).Msg("run persisted")

	return nil
}

// GetRun loads a run and its updates by id.
func (s *Store) GetRun(ctx context.Context, id string) (*domain.Run, error) {
	var (
		run       domain.Run
		createdAt string
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, days_covered, chunk_count, candidate_count, update_count, status, digest
		 FROM runs WHERE id = ?`, id,
	).Scan(&run.ID, &createdAt, &run.DaysCovered, &run.ChunkCount, &run.CandidateCount, &run.UpdateCount, &run.Status, &run.Digest)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, coreerrors.ErrNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", id, err)
	}

	run.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse run timestamp: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT text, project_name, reference_url, channel_id, message_id
		 FROM updates WHERE run_id = ? ORDER BY position`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load updates for run %s: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var u domain.Candidate
		if err := rows.Scan(&u.Text, &u.ProjectName, &u.ReferenceURL, &u.ChannelID, &u.MessageID); err != nil {
			return nil, fmt.Errorf("failed to scan update: %w", err)
		}

		u.Valid = true
		run.Updates = append(run.Updates, u)
	}

	return &run, rows.Err()
}

// LatestRun returns the most recent run, or sql.ErrNoRows when none exist.
func (s *Store) LatestRun(ctx context.Context) (*domain.Run, error) {
	var id string

	err := s.db.QueryRowContext(ctx, `SELECT id FROM runs ORDER BY created_at DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("latest run: %w", coreerrors.ErrNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find latest run: %w", err)
	}

	return s.GetRun(ctx, id)
}

// Ping reports database health for readiness checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}
