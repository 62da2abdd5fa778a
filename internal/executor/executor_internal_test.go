package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqasim81/database-bootstrap-engine/internal/history"
	"github.com/aqasim81/database-bootstrap-engine/internal/plan"
)

// mockLock implements lockReleaser for testing.
type mockLock struct {
	released bool
}

func (m *mockLock) Release(_ context.Context) error {
	m.released = true
	return nil
}

// mockRecorder implements DirectiveRecorder for testing.
type mockRecorder struct {
	ensureErr    error
	ensureCalled bool
	recorded     []history.RecordParams
}

func (m *mockRecorder) EnsureTable(_ context.Context) error {
	m.ensureCalled = true
	return m.ensureErr
}

func (m *mockRecorder) Record(_ context.Context, p history.RecordParams) error {
	m.recorded = append(m.recorded, p)
	return nil
}

func noopLockFn(_ context.Context) (lockReleaser, error) {
	return &mockLock{}, nil
}

func noExistsFn(_ context.Context, _ *pgxpool.Pool, _ *plan.Directive) (bool, error) {
	return false, nil
}

func scenarioPlan() *plan.Plan {
	return &plan.Plan{
		Checksum: "abc123",
		Directives: []plan.Directive{
			{Kind: plan.KindCreateRole, Name: "app_user", Password: "pw"},
			{Kind: plan.KindCreateDatabase, Name: "app_database", Owner: "app_user"},
			{Kind: plan.KindGrantAll, Database: "app_database", Role: "app_user"},
			{Kind: plan.KindSwitchConnection, Database: "app_database"},
			{Kind: plan.KindEnableCapability, Name: "vector"},
		},
	}
}

// testExecutor returns an Executor wired with recording mocks. executed
// collects every statement in execution order.
func testExecutor(executed *[]string, opts ...Option) *Executor {
	e := New(nil, "postgres://admin:pw@localhost:5432/postgres", opts...)
	e.acquireLock = noopLockFn
	e.checkExists = noExistsFn
	e.execSQL = func(_ context.Context, _ *pgxpool.Pool, sql string) error {
		*executed = append(*executed, sql)
		return nil
	}
	e.connect = func(_ context.Context, url string) (*pgxpool.Pool, error) {
		*executed = append(*executed, "connect "+url)
		return nil, nil //nolint:nilnil // no pool needed in unit tests
	}

	return e
}

func TestRun_executesDirectivesInOrder(t *testing.T) {
	t.Parallel()

	var executed []string

	e := testExecutor(&executed)

	err := e.Run(context.Background(), scenarioPlan())

	require.NoError(t, err)
	require.Len(t, executed, 5)
	assert.Contains(t, executed[0], "CREATE ROLE")
	assert.Contains(t, executed[1], "CREATE DATABASE")
	assert.Contains(t, executed[2], "GRANT ALL PRIVILEGES")
	assert.Equal(t, "connect postgres://admin:pw@localhost:5432/app_database", executed[3])
	assert.Contains(t, executed[4], "CREATE EXTENSION IF NOT EXISTS")
}

func TestRun_failFastAbortsRemainingDirectives(t *testing.T) {
	t.Parallel()

	var executed []string

	e := testExecutor(&executed)
	e.execSQL = func(_ context.Context, _ *pgxpool.Pool, sql string) error {
		executed = append(executed, sql)
		if len(executed) == 2 {
			return &pgconn.PgError{Code: codeDuplicateDatabase, Message: "database exists"}
		}

		return nil
	}

	err := e.Run(context.Background(), scenarioPlan())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlreadyExists)
	// First two executed, nothing after the failure.
	assert.Len(t, executed, 2)
}

func TestRun_lockNotAcquired(t *testing.T) {
	t.Parallel()

	var executed []string

	e := testExecutor(&executed)

	lockErr := errors.New("lock held elsewhere")
	e.acquireLock = func(_ context.Context) (lockReleaser, error) {
		return nil, lockErr
	}

	err := e.Run(context.Background(), scenarioPlan())

	require.Error(t, err)
	assert.ErrorIs(t, err, lockErr)
	assert.Empty(t, executed)
}

func TestRun_releasesLock(t *testing.T) {
	t.Parallel()

	var executed []string

	lock := &mockLock{}

	e := testExecutor(&executed)
	e.acquireLock = func(_ context.Context) (lockReleaser, error) {
		return lock, nil
	}

	require.NoError(t, e.Run(context.Background(), scenarioPlan()))
	assert.True(t, lock.released)
}

func TestRun_dryRunExecutesNothing(t *testing.T) {
	t.Parallel()

	var executed []string

	var events []ProgressEvent

	e := testExecutor(&executed,
		WithDryRun(true),
		WithProgressCallback(func(ev ProgressEvent) { events = append(events, ev) }),
	)

	err := e.Run(context.Background(), scenarioPlan())

	require.NoError(t, err)
	assert.Empty(t, executed)
	require.Len(t, events, 5)

	for _, ev := range events {
		assert.Equal(t, StatusSkipped, ev.Status)
	}
}

func TestRun_skipExistingSkipsCreates(t *testing.T) {
	t.Parallel()

	var executed []string

	e := testExecutor(&executed, WithSkipExisting(true))
	e.checkExists = func(_ context.Context, _ *pgxpool.Pool, d *plan.Directive) (bool, error) {
		return d.Kind == plan.KindCreateRole || d.Kind == plan.KindCreateDatabase, nil
	}

	err := e.Run(context.Background(), scenarioPlan())

	require.NoError(t, err)
	// Creates skipped; grant, switch, and capability still run.
	require.Len(t, executed, 3)
	assert.Contains(t, executed[0], "GRANT ALL PRIVILEGES")
	assert.Contains(t, executed[1], "connect ")
	assert.Contains(t, executed[2], "CREATE EXTENSION")
}

func TestRun_skipExistingCheckError(t *testing.T) {
	t.Parallel()

	var executed []string

	checkErr := errors.New("catalog query failed")

	e := testExecutor(&executed, WithSkipExisting(true))
	e.checkExists = func(_ context.Context, _ *pgxpool.Pool, _ *plan.Directive) (bool, error) {
		return false, checkErr
	}

	err := e.Run(context.Background(), scenarioPlan())

	require.Error(t, err)
	assert.ErrorIs(t, err, checkErr)
	assert.Empty(t, executed)
}

func TestRun_recordsOutcomes(t *testing.T) {
	t.Parallel()

	var executed []string

	rec := &mockRecorder{}

	e := testExecutor(&executed, WithRecorder(rec))

	err := e.Run(context.Background(), scenarioPlan())

	require.NoError(t, err)
	assert.True(t, rec.ensureCalled)
	require.Len(t, rec.recorded, 5)
	assert.Equal(t, "create_role", rec.recorded[0].Directive)
	assert.Equal(t, history.StatusApplied, rec.recorded[0].Status)
	assert.Equal(t, "abc123", rec.recorded[0].PlanChecksum)
	assert.Equal(t, "switch_connection", rec.recorded[3].Directive)
}

func TestRun_recordsFailure(t *testing.T) {
	t.Parallel()

	var executed []string

	rec := &mockRecorder{}

	e := testExecutor(&executed, WithRecorder(rec))
	e.execSQL = func(_ context.Context, _ *pgxpool.Pool, _ string) error {
		return &pgconn.PgError{Code: codeDuplicateObject, Message: "role exists"}
	}

	err := e.Run(context.Background(), scenarioPlan())

	require.Error(t, err)
	require.Len(t, rec.recorded, 1)
	assert.Equal(t, history.StatusFailed, rec.recorded[0].Status)
}

func TestRun_dryRunDoesNotTouchRecorder(t *testing.T) {
	t.Parallel()

	var executed []string

	rec := &mockRecorder{}

	e := testExecutor(&executed, WithRecorder(rec), WithDryRun(true))

	require.NoError(t, e.Run(context.Background(), scenarioPlan()))
	assert.False(t, rec.ensureCalled)
	assert.Empty(t, rec.recorded)
}

func TestRun_progressEventOrder(t *testing.T) {
	t.Parallel()

	var executed []string

	var statuses []string

	e := testExecutor(&executed, WithProgressCallback(func(ev ProgressEvent) {
		statuses = append(statuses, ev.Status)
	}))

	p := &plan.Plan{Directives: []plan.Directive{
		{Kind: plan.KindCreateRole, Name: "app_user", Password: "pw"},
	}}

	require.NoError(t, e.Run(context.Background(), p))
	assert.Equal(t, []string{StatusStarting, StatusCompleted}, statuses)
}

// --- classify tests ---

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		code string
		want error
	}{
		{"duplicate object", codeDuplicateObject, ErrAlreadyExists},
		{"duplicate database", codeDuplicateDatabase, ErrAlreadyExists},
		{"insufficient privilege", codeInsufficientPrivilege, ErrPermissionDenied},
		{"undefined object", codeUndefinedObject, ErrUnknownRole},
		{"invalid authorization", codeInvalidAuthorization, ErrUnknownRole},
		{"invalid catalog name", codeInvalidCatalogName, ErrUnknownDatabase},
		{"feature not supported", codeFeatureNotSupported, ErrUnsupportedCapability},
		{"undefined file", codeUndefinedFile, ErrUnsupportedCapability},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := classify(&pgconn.PgError{Code: tt.code, Message: "server message"})

			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "server message")
		})
	}
}

func TestClassify_unknownCodePassesThrough(t *testing.T) {
	t.Parallel()

	pgErr := &pgconn.PgError{Code: "57014", Message: "canceled"}

	err := classify(pgErr)

	assert.Equal(t, error(pgErr), err)
}

func TestClassify_nonPgErrorPassesThrough(t *testing.T) {
	t.Parallel()

	plainErr := errors.New("dial timeout")

	assert.Equal(t, plainErr, classify(plainErr))
}

func TestClassify_wrappedPgError(t *testing.T) {
	t.Parallel()

	wrapped := errors.Join(errors.New("outer"), &pgconn.PgError{Code: codeInvalidCatalogName, Message: "no such db"})

	assert.ErrorIs(t, classify(wrapped), ErrUnknownDatabase)
}
