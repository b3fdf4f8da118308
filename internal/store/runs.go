// Package store persists finished shop rounds in Postgres.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"shopsim/internal/sim"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrRunNotFound      = errors.New("run not found")
	ErrDuplicateRun     = errors.New("duplicate idempotency key")
	ErrEmptyIdempotency = errors.New("idempotency key is required")
)

const schemaSQL = `
CREATE SCHEMA IF NOT EXISTS shopsim;
CREATE TABLE IF NOT EXISTS shopsim.runs (
	id              uuid PRIMARY KEY,
	idempotency_key text NOT NULL UNIQUE,
	seed            bigint NOT NULL,
	step_count      integer NOT NULL,
	applied_count   integer NOT NULL,
	final_gold      integer NOT NULL,
	truncated       boolean NOT NULL,
	result          jsonb NOT NULL,
	created_at      timestamptz NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS runs_created_at_idx ON shopsim.runs (created_at DESC);
`

// Summary is a run without its trace.
type Summary struct {
	ID             uuid.UUID `json:"id"`
	IdempotencyKey string    `json:"idempotency_key"`
	Seed           int64     `json:"seed"`
	StepCount      int       `json:"step_count"`
	AppliedCount   int       `json:"applied_count"`
	FinalGold      int       `json:"final_gold"`
	Truncated      bool      `json:"truncated"`
	CreatedAt      time.Time `json:"created_at"`
}

type Run struct {
	Summary
	Result sim.Result `json:"result"`
}

// NewRun wraps a finished round for storage. A blank key gets a fresh one.
func NewRun(res sim.Result, idempotencyKey string) Run {
	key := strings.TrimSpace(idempotencyKey)
	if key == "" {
		key = uuid.NewString()
	}
	return Run{
		Summary: Summary{
			ID:             uuid.New(),
			IdempotencyKey: key,
			Seed:           res.Seed,
			StepCount:      len(res.Steps),
			AppliedCount:   res.Applied(),
			FinalGold:      res.Final.Gold,
			Truncated:      res.Truncated,
		},
		Result: res,
	}
}

type Runs struct {
	db *pgxpool.Pool
}

func NewRuns(db *pgxpool.Pool) *Runs {
	return &Runs{db: db}
}

func (s *Runs) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// SaveRun inserts run and fills in its creation time. A second run with the
// same idempotency key is rejected with ErrDuplicateRun.
func (s *Runs) SaveRun(ctx context.Context, run *Run) error {
	if strings.TrimSpace(run.IdempotencyKey) == "" {
		return ErrEmptyIdempotency
	}
	raw, err := json.Marshal(run.Result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	err = s.db.QueryRow(ctx, `
		INSERT INTO shopsim.runs (id, idempotency_key, seed, step_count, applied_count, final_gold, truncated, result)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`, run.ID, run.IdempotencyKey, run.Seed, run.StepCount, run.AppliedCount, run.FinalGold, run.Truncated, string(raw)).Scan(&run.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateRun
		}
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func (s *Runs) GetRun(ctx context.Context, id uuid.UUID) (Run, error) {
	var (
		run Run
		raw []byte
	)
	err := s.db.QueryRow(ctx, `
		SELECT id, idempotency_key, seed, step_count, applied_count, final_gold, truncated, created_at, result
		FROM shopsim.runs
		WHERE id = $1
	`, id).Scan(&run.ID, &run.IdempotencyKey, &run.Seed, &run.StepCount, &run.AppliedCount, &run.FinalGold, &run.Truncated, &run.CreatedAt, &raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	if err != nil {
		return Run{}, fmt.Errorf("select run: %w", err)
	}
	if err := json.Unmarshal(raw, &run.Result); err != nil {
		return Run{}, fmt.Errorf("decode result: %w", err)
	}
	return run, nil
}

// GetRunByKey returns the run stored under an idempotency key.
func (s *Runs) GetRunByKey(ctx context.Context, key string) (Summary, error) {
	var sum Summary
	err := s.db.QueryRow(ctx, `
		SELECT id, idempotency_key, seed, step_count, applied_count, final_gold, truncated, created_at
		FROM shopsim.runs
		WHERE idempotency_key = $1
	`, key).Scan(&sum.ID, &sum.IdempotencyKey, &sum.Seed, &sum.StepCount, &sum.AppliedCount, &sum.FinalGold, &sum.Truncated, &sum.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Summary{}, ErrRunNotFound
	}
	if err != nil {
		return Summary{}, fmt.Errorf("select run by key: %w", err)
	}
	return sum, nil
}

func (s *Runs) ListRuns(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, idempotency_key, seed, step_count, applied_count, final_gold, truncated, created_at
		FROM shopsim.runs
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	out := make([]Summary, 0, limit)
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(&sum.ID, &sum.IdempotencyKey, &sum.Seed, &sum.StepCount, &sum.AppliedCount, &sum.FinalGold, &sum.Truncated, &sum.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
