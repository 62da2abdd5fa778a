package executor

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aqasim81/database-bootstrap-engine/internal/plan"
)

// targetExists checks the system catalogs for a create directive's
// target. Roles and databases are cluster-wide, so the check works on
// whichever database the run is currently connected to.
func targetExists(ctx context.Context, pool *pgxpool.Pool, d *plan.Directive) (bool, error) {
	var query string

	switch d.Kind {
	case plan.KindCreateRole:
		query = `SELECT EXISTS(SELECT 1 FROM pg_roles WHERE rolname = $1)`
	case plan.KindCreateDatabase:
		query = `SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)`
	case plan.KindGrantAll, plan.KindSwitchConnection, plan.KindEnableCapability:
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", plan.ErrUnknownKind, d.Kind)
	}

	var exists bool
	if err := pool.QueryRow(ctx, query, d.Name).Scan(&exists); err != nil {
		return false, fmt.Errorf("querying catalog for %q: %w", d.Name, err)
	}

	return exists, nil
}
