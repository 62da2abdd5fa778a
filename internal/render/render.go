package render

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/aqasim81/database-bootstrap-engine/internal/plan"
)

// For renders the single SQL statement for a directive. SwitchConnection
// carries no SQL (the executor reconnects instead) and returns "".
// The rendered statement is parse-checked before being returned.
func For(d *plan.Directive) (string, error) {
	var sql string

	switch d.Kind {
	case plan.KindCreateRole:
		password, err := d.ResolvePassword()
		if err != nil {
			return "", err
		}

		sql = CreateRoleSQL(d.Name, password, d.Superuser)
	case plan.KindCreateDatabase:
		sql = CreateDatabaseSQL(d.Name, d.Owner)
	case plan.KindGrantAll:
		sql = GrantAllSQL(d.Database, d.Role)
	case plan.KindSwitchConnection:
		return "", nil
	case plan.KindEnableCapability:
		sql = EnableCapabilitySQL(d.Name)
	default:
		return "", fmt.Errorf("%w: %q", plan.ErrUnknownKind, d.Kind)
	}

	if err := VerifySQL(sql); err != nil {
		return "", fmt.Errorf("rendering %s for %q: %w", d.Kind, d.Target(), err)
	}

	return sql, nil
}

// ForDisplay renders a directive's SQL for human output, with the role
// password replaced by a placeholder. It never reads password_env, so it
// works without the production environment present.
func ForDisplay(d *plan.Directive) (string, error) {
	if d.Kind != plan.KindCreateRole {
		return For(d)
	}

	sql := CreateRoleSQL(d.Name, "***", d.Superuser)
	if err := VerifySQL(sql); err != nil {
		return "", fmt.Errorf("rendering %s for %q: %w", d.Kind, d.Target(), err)
	}

	return sql, nil
}

// CreateRoleSQL renders a CREATE ROLE statement with LOGIN and an
// encrypted password. CREATE ROLE takes no bind parameters, so the
// password is embedded as an escaped literal.
func CreateRoleSQL(name, password string, superuser bool) string {
	opts := "LOGIN"
	if superuser {
		opts = "SUPERUSER LOGIN"
	}

	return fmt.Sprintf("CREATE ROLE %s WITH %s PASSWORD %s",
		quoteIdentifier(name), opts, quoteLiteral(password))
}

// CreateDatabaseSQL renders a CREATE DATABASE statement with an owner.
func CreateDatabaseSQL(name, owner string) string {
	return fmt.Sprintf("CREATE DATABASE %s OWNER %s",
		quoteIdentifier(name), quoteIdentifier(owner))
}

// GrantAllSQL renders a GRANT ALL PRIVILEGES ON DATABASE statement.
func GrantAllSQL(database, role string) string {
	return fmt.Sprintf("GRANT ALL PRIVILEGES ON DATABASE %s TO %s",
		quoteIdentifier(database), quoteIdentifier(role))
}

// EnableCapabilitySQL renders an idempotent CREATE EXTENSION statement
// for the currently connected database.
func EnableCapabilitySQL(name string) string {
	return fmt.Sprintf("CREATE EXTENSION IF NOT EXISTS %s", quoteIdentifier(name))
}

// quoteIdentifier double-quotes an identifier, escaping embedded quotes.
func quoteIdentifier(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// quoteLiteral single-quotes a string literal, doubling embedded quotes.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
