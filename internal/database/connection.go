package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// defaultMaxConns keeps the pool small; a bootstrap run issues one
// statement at a time and only needs a spare connection for the
// advisory lock.
const defaultMaxConns = 2

// NewPool creates a pgx connection pool for the given database URL.
// It parses the connection string, caps the pool size, applies the
// statement timeout as a session parameter (DDL such as CREATE DATABASE
// runs outside transactions, so per-transaction SET is not an option),
// and pings the server to verify connectivity.
func NewPool(ctx context.Context, databaseURL string, statementTimeout time.Duration) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDatabaseURL, err)
	}

	poolCfg.MaxConns = defaultMaxConns

	if statementTimeout > 0 {
		poolCfg.ConnConfig.RuntimeParams["statement_timeout"] =
			fmt.Sprintf("%d", statementTimeout.Milliseconds())
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()

		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	return pool, nil
}
