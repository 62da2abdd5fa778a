package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqasim81/database-bootstrap-engine/internal/database"
)

func TestNewPool_invalidURL(t *testing.T) {
	t.Parallel()

	_, err := database.NewPool(context.Background(), "not-a-url\n", 0)

	require.Error(t, err)
	assert.ErrorIs(t, err, database.ErrInvalidDatabaseURL)
}

func TestNewPool_unreachableServer(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// Reserved TEST-NET address; nothing listens there.
	_, err := database.NewPool(ctx, "postgres://user:pw@192.0.2.1:5432/postgres?connect_timeout=1", 0)

	require.Error(t, err)
	assert.ErrorIs(t, err, database.ErrConnectionFailed)
}

func TestErrors_sentinel(t *testing.T) {
	t.Parallel()

	assert.EqualError(t, database.ErrInvalidDatabaseURL, "invalid database URL")
	assert.EqualError(t, database.ErrConnectionFailed, "database connection failed")
	assert.EqualError(t, database.ErrLockNotAcquired, "bootstrap lock not acquired")
}
