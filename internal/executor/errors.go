package executor

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Error taxonomy for directive failures. Each maps from one or more
// PostgreSQL SQLSTATE codes so callers can match with errors.Is.
var (
	// ErrAlreadyExists indicates the role or database is already present.
	ErrAlreadyExists = errors.New("entity already exists")
	// ErrPermissionDenied indicates the connecting principal lacks the
	// rights the directive needs.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrUnknownRole indicates a referenced role does not exist.
	ErrUnknownRole = errors.New("unknown role")
	// ErrUnknownDatabase indicates a referenced database does not exist.
	ErrUnknownDatabase = errors.New("unknown database")
	// ErrUnsupportedCapability indicates the server has no such extension
	// available to enable.
	ErrUnsupportedCapability = errors.New("capability not available on this server")
)

// SQLSTATE codes the executor maps onto the taxonomy.
const (
	codeDuplicateObject       = "42710" // CREATE ROLE on an existing role
	codeDuplicateDatabase     = "42P04" // CREATE DATABASE on an existing database
	codeInsufficientPrivilege = "42501"
	codeUndefinedObject       = "42704" // missing role in GRANT or OWNER
	codeInvalidAuthorization  = "28000" // missing role at connect time
	codeInvalidCatalogName    = "3D000" // connect to a missing database
	codeFeatureNotSupported   = "0A000"
	codeUndefinedFile         = "58P01" // missing extension control file
)

// classify wraps a server error with the matching taxonomy sentinel.
// Errors without a recognized SQLSTATE pass through unchanged.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeDuplicateObject, codeDuplicateDatabase:
		return fmt.Errorf("%w: %s", ErrAlreadyExists, pgErr.Message)
	case codeInsufficientPrivilege:
		return fmt.Errorf("%w: %s", ErrPermissionDenied, pgErr.Message)
	case codeUndefinedObject, codeInvalidAuthorization:
		return fmt.Errorf("%w: %s", ErrUnknownRole, pgErr.Message)
	case codeInvalidCatalogName:
		return fmt.Errorf("%w: %s", ErrUnknownDatabase, pgErr.Message)
	case codeFeatureNotSupported, codeUndefinedFile:
		return fmt.Errorf("%w: %s", ErrUnsupportedCapability, pgErr.Message)
	}

	return err
}
