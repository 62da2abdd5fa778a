//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// pgvector image so enable_capability("vector") has an extension to install.
const (
	postgresImage = "pgvector/pgvector:pg16"
	adminDB       = "postgres"
	adminUser     = "postgres"
	adminPassword = "bootstrap"
)

// SetupPostgres starts a PostgreSQL 16 container with the vector extension
// available and returns an administrative connection pool plus its URL.
// The container and pool are automatically cleaned up when the test completes.
func SetupPostgres(t *testing.T) (*pgxpool.Pool, string) {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        postgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       adminDB,
			"POSTGRES_USER":     adminUser,
			"POSTGRES_PASSWORD": adminPassword,
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, container.Terminate(context.Background()))
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	dsn := "postgres://" + adminUser + ":" + adminPassword + "@" + host + ":" + port.Port() + "/" + adminDB + "?sslmode=disable"

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)

	t.Cleanup(func() {
		pool.Close()
	})

	require.NoError(t, pool.Ping(ctx))

	return pool, dsn
}
