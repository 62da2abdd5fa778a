package rules

import (
	"fmt"

	"github.com/aqasim81/database-bootstrap-engine/internal/lint"
	"github.com/aqasim81/database-bootstrap-engine/internal/plan"
)

// DuplicateCreateRule detects a second create of a role or database the
// plan already created. The second create can only fail with an
// already-exists error (or be skipped under --skip-existing).
type DuplicateCreateRule struct{}

// NewDuplicateCreateRule creates a new DuplicateCreateRule.
func NewDuplicateCreateRule() *DuplicateCreateRule { return &DuplicateCreateRule{} }

// ID returns the rule identifier.
func (r *DuplicateCreateRule) ID() string { return "duplicate-create" }

// Check examines create directives for duplicated targets.
func (r *DuplicateCreateRule) Check(d *plan.Directive, ctx *lint.RuleContext) []lint.Finding {
	var kind string

	switch d.Kind {
	case plan.KindCreateRole:
		if !ctx.State.Roles[d.Name] {
			return nil
		}

		kind = "role"
	case plan.KindCreateDatabase:
		if !ctx.State.Databases[d.Name] {
			return nil
		}

		kind = "database"
	case plan.KindGrantAll, plan.KindSwitchConnection, plan.KindEnableCapability:
		return nil
	default:
		return nil
	}

	return []lint.Finding{{
		Rule:           r.ID(),
		Severity:       lint.Medium,
		Target:         d.Name,
		Message:        fmt.Sprintf("%s %q is created twice; the second create fails with already-exists", kind, d.Name),
		Suggestion:     "remove the duplicate directive",
		DirectiveIndex: ctx.DirectiveIndex,
	}}
}
