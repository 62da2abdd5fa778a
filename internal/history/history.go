package history

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Directive statuses recorded in the audit table.
const (
	StatusApplied = "applied"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// Entry is one row of the bootstrap_history audit table.
type Entry struct {
	ID           int64
	Directive    string
	Target       string
	Status       string
	PlanChecksum string
	AppliedAt    time.Time
	DurationMs   int
}

// RecordParams contains the fields needed to record a directive outcome.
type RecordParams struct {
	Directive    string
	Target       string
	Status       string
	PlanChecksum string
	DurationMs   int
}

// Recorder manages the bootstrap_history table in the admin database.
type Recorder struct {
	pool *pgxpool.Pool
}

// New creates a Recorder backed by the given admin connection pool.
func New(pool *pgxpool.Pool) *Recorder {
	return &Recorder{pool: pool}
}

// EnsureTable creates the bootstrap_history table if it does not exist.
func (r *Recorder) EnsureTable(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, createSchemaSQL)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTableCreation, err)
	}

	return nil
}

// Record appends one directive outcome to the audit table.
func (r *Recorder) Record(ctx context.Context, p RecordParams) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO bootstrap_history (directive, target, status, plan_checksum, duration_ms)
		 VALUES ($1, $2, $3, $4, $5)`,
		p.Directive, p.Target, p.Status, p.PlanChecksum, p.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("recording %s %s: %w", p.Directive, p.Target, err)
	}

	return nil
}

// List returns all recorded directive outcomes, oldest first.
func (r *Recorder) List(ctx context.Context) ([]Entry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, directive, target, status, plan_checksum, applied_at, duration_ms
		 FROM bootstrap_history
		 ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying bootstrap history: %w", err)
	}
	defer rows.Close()

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Entry, error) {
		var e Entry
		if scanErr := row.Scan(&e.ID, &e.Directive, &e.Target, &e.Status, &e.PlanChecksum, &e.AppliedAt, &e.DurationMs); scanErr != nil {
			return Entry{}, fmt.Errorf("scanning history row: %w", scanErr)
		}

		return e, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning bootstrap history: %w", err)
	}

	return entries, nil
}
