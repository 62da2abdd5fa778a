package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aqasim81/database-bootstrap-engine/internal/database"
	"github.com/aqasim81/database-bootstrap-engine/internal/history"
	"github.com/aqasim81/database-bootstrap-engine/internal/plan"
	"github.com/aqasim81/database-bootstrap-engine/internal/render"
)

// Progress status constants reported via ProgressEvent.
const (
	StatusStarting  = "starting"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
)

// ProgressEvent is emitted by the executor for each directive processed.
type ProgressEvent struct {
	Directive *plan.Directive
	Index     int
	SQL       string
	Status    string
	Duration  time.Duration
	Error     error
}

// DirectiveRecorder abstracts the bootstrap_history audit table for
// testability.
type DirectiveRecorder interface {
	EnsureTable(ctx context.Context) error
	Record(ctx context.Context, p history.RecordParams) error
}

// lockReleaser is returned by lockFn and must be released when done.
type lockReleaser interface {
	Release(ctx context.Context) error
}

// lockFunc acquires the bootstrap advisory lock and returns a releaser.
type lockFunc func(ctx context.Context) (lockReleaser, error)

// execFunc executes a single rendered statement on a pool.
type execFunc func(ctx context.Context, pool *pgxpool.Pool, sql string) error

// connectFunc opens a pool for a switched connection URL.
type connectFunc func(ctx context.Context, url string) (*pgxpool.Pool, error)

// existsFunc reports whether a create directive's target already exists.
type existsFunc func(ctx context.Context, pool *pgxpool.Pool, d *plan.Directive) (bool, error)

// Executor applies a bootstrap plan strictly in order against an
// administrative connection, switching connections when directed and
// aborting on the first failure. The advisory lock prevents concurrent
// runs against the same server.
type Executor struct {
	admin        *pgxpool.Pool
	adminURL     string
	recorder     DirectiveRecorder
	stmtTimeout  time.Duration
	dryRun       bool
	skipExisting bool
	onProgress   func(ProgressEvent)
	acquireLock  lockFunc
	execSQL      execFunc
	connect      connectFunc
	checkExists  existsFunc
}

// Option configures an Executor.
type Option func(*Executor)

// WithStatementTimeout sets the statement_timeout applied to switched
// connections.
func WithStatementTimeout(d time.Duration) Option {
	return func(e *Executor) { e.stmtTimeout = d }
}

// WithDryRun enables dry-run mode: directives are rendered and verified
// but nothing is executed, switched, or recorded.
func WithDryRun(b bool) Option {
	return func(e *Executor) { e.dryRun = b }
}

// WithSkipExisting enables catalog existence checks before create
// directives; creates whose target already exists are skipped instead of
// failing with ErrAlreadyExists.
func WithSkipExisting(b bool) Option {
	return func(e *Executor) { e.skipExisting = b }
}

// WithRecorder enables audit recording of each directive outcome.
func WithRecorder(r DirectiveRecorder) Option {
	return func(e *Executor) { e.recorder = r }
}

// WithProgressCallback sets a function called for each directive processed.
func WithProgressCallback(fn func(ProgressEvent)) Option {
	return func(e *Executor) { e.onProgress = fn }
}

// New creates an Executor over an administrative pool. adminURL is the
// URL that pool was opened with; switch_connection directives derive
// their target URLs from it.
func New(admin *pgxpool.Pool, adminURL string, opts ...Option) *Executor {
	e := &Executor{
		admin:    admin,
		adminURL: adminURL,
	}

	for _, opt := range opts {
		opt(e)
	}

	// Set defaults for injectable functions after options are applied,
	// so tests can override them via options.
	if e.acquireLock == nil {
		e.acquireLock = func(ctx context.Context) (lockReleaser, error) {
			return database.TryAcquireLock(ctx, e.admin)
		}
	}

	if e.execSQL == nil {
		e.execSQL = func(ctx context.Context, pool *pgxpool.Pool, sql string) error {
			_, err := pool.Exec(ctx, sql)

			return err
		}
	}

	if e.connect == nil {
		e.connect = func(ctx context.Context, url string) (*pgxpool.Pool, error) {
			return database.NewPool(ctx, url, e.stmtTimeout)
		}
	}

	if e.checkExists == nil {
		e.checkExists = targetExists
	}

	return e
}

// Run applies the plan's directives in order. The first failing directive
// aborts the remainder; effects of earlier directives stay in place.
func (e *Executor) Run(ctx context.Context, p *plan.Plan) error {
	lock, err := e.acquireLock(ctx)
	if err != nil {
		return fmt.Errorf("acquiring bootstrap lock: %w", err)
	}
	defer lock.Release(ctx) //nolint:errcheck // best-effort release on return

	if e.recorder != nil && !e.dryRun {
		if err := e.recorder.EnsureTable(ctx); err != nil {
			return err
		}
	}

	current := e.admin
	defer func() {
		if current != e.admin {
			current.Close()
		}
	}()

	for i := range p.Directives {
		if err := e.runOne(ctx, p, i, &current); err != nil {
			return err
		}
	}

	return nil
}

// runOne handles a single directive: render, skip checks, dry-run,
// execute or switch, record, and fire progress.
func (e *Executor) runOne(ctx context.Context, p *plan.Plan, idx int, current **pgxpool.Pool) error {
	d := &p.Directives[idx]

	sql, err := render.For(d)
	if err != nil {
		e.fireProgress(ProgressEvent{Directive: d, Index: idx, Status: StatusFailed, Error: err})

		return fmt.Errorf("directive %d (%s %s): %w", idx+1, d.Kind, d.Target(), err)
	}

	if d.Kind == plan.KindSwitchConnection {
		return e.switchConnection(ctx, d, idx, p.Checksum, current)
	}

	if e.skipExisting && isCreate(d.Kind) {
		exists, checkErr := e.checkExists(ctx, *current, d)
		if checkErr != nil {
			return fmt.Errorf("checking existence of %s %q: %w", d.Kind, d.Target(), checkErr)
		}

		if exists {
			e.fireProgress(ProgressEvent{Directive: d, Index: idx, SQL: sql, Status: StatusSkipped})
			e.record(ctx, d, p.Checksum, history.StatusSkipped, 0)

			return nil
		}
	}

	if e.dryRun {
		e.fireProgress(ProgressEvent{Directive: d, Index: idx, SQL: sql, Status: StatusSkipped})

		return nil
	}

	e.fireProgress(ProgressEvent{Directive: d, Index: idx, SQL: sql, Status: StatusStarting})

	start := time.Now()
	execErr := e.execSQL(ctx, *current, sql)
	duration := time.Since(start)

	if execErr != nil {
		execErr = classify(execErr)
		e.fireProgress(ProgressEvent{
			Directive: d,
			Index:     idx,
			SQL:       sql,
			Status:    StatusFailed,
			Duration:  duration,
			Error:     execErr,
		})
		e.record(ctx, d, p.Checksum, history.StatusFailed, duration)

		return fmt.Errorf("directive %d (%s %s): %w", idx+1, d.Kind, d.Target(), execErr)
	}

	e.fireProgress(ProgressEvent{
		Directive: d,
		Index:     idx,
		SQL:       sql,
		Status:    StatusCompleted,
		Duration:  duration,
	})
	e.record(ctx, d, p.Checksum, history.StatusApplied, duration)

	return nil
}

// switchConnection reconnects to the directive's target database and
// makes it the current connection. The admin pool stays open for the
// advisory lock and audit recording.
func (e *Executor) switchConnection(ctx context.Context, d *plan.Directive, idx int, checksum string, current **pgxpool.Pool) error {
	if e.dryRun {
		e.fireProgress(ProgressEvent{Directive: d, Index: idx, Status: StatusSkipped})

		return nil
	}

	targetURL, err := database.SwitchURL(e.adminURL, d.Database)
	if err != nil {
		return fmt.Errorf("directive %d (switch_connection %s): %w", idx+1, d.Database, err)
	}

	e.fireProgress(ProgressEvent{Directive: d, Index: idx, Status: StatusStarting})

	start := time.Now()
	pool, err := e.connect(ctx, targetURL)
	duration := time.Since(start)

	if err != nil {
		err = classify(err)
		e.fireProgress(ProgressEvent{
			Directive: d,
			Index:     idx,
			Status:    StatusFailed,
			Duration:  duration,
			Error:     err,
		})
		e.record(ctx, d, checksum, history.StatusFailed, duration)

		return fmt.Errorf("directive %d (switch_connection %s): %w", idx+1, d.Database, err)
	}

	if *current != e.admin {
		(*current).Close()
	}

	*current = pool

	e.fireProgress(ProgressEvent{
		Directive: d,
		Index:     idx,
		Status:    StatusCompleted,
		Duration:  duration,
	})
	e.record(ctx, d, checksum, history.StatusApplied, duration)

	return nil
}

// record appends an audit row when recording is enabled. A recording
// failure never masks the directive outcome.
func (e *Executor) record(ctx context.Context, d *plan.Directive, checksum, status string, duration time.Duration) {
	if e.recorder == nil || e.dryRun {
		return
	}

	_ = e.recorder.Record(ctx, history.RecordParams{ //nolint:errcheck // audit is advisory
		Directive:    string(d.Kind),
		Target:       d.Target(),
		Status:       status,
		PlanChecksum: checksum,
		DurationMs:   int(duration.Milliseconds()),
	})
}

func (e *Executor) fireProgress(event ProgressEvent) {
	if e.onProgress != nil {
		e.onProgress(event)
	}
}

func isCreate(k plan.Kind) bool {
	return k == plan.KindCreateRole || k == plan.KindCreateDatabase
}
