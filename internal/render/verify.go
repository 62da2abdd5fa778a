package render

import (
	"errors"
	"fmt"

	"github.com/aqasim81/database-bootstrap-engine/internal/parser"
)

// ErrStatementCount indicates a rendered directive did not produce exactly
// one SQL statement. Quoting is the only injection boundary for DDL that
// takes no bind parameters, so every rendered statement is re-parsed and
// anything that splits into multiple statements is rejected.
var ErrStatementCount = errors.New("rendered directive must be exactly one statement")

// VerifySQL parses a rendered statement with the PostgreSQL parser and
// rejects it unless it is exactly one well-formed statement.
func VerifySQL(sql string) error {
	result, err := parser.Parse(sql)
	if err != nil {
		return fmt.Errorf("verifying rendered SQL: %w", err)
	}

	if len(result.Stmts) != 1 {
		return fmt.Errorf("%w: got %d", ErrStatementCount, len(result.Stmts))
	}

	return nil
}
