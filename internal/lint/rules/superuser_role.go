package rules

import (
	"fmt"

	"github.com/aqasim81/database-bootstrap-engine/internal/lint"
	"github.com/aqasim81/database-bootstrap-engine/internal/plan"
)

// SuperuserRoleRule flags create_role directives that request SUPERUSER.
// Application roles provisioned by a bootstrap plan almost never need it,
// and a superuser owner defeats the database-level grants that follow.
type SuperuserRoleRule struct{}

// NewSuperuserRoleRule creates a new SuperuserRoleRule.
func NewSuperuserRoleRule() *SuperuserRoleRule { return &SuperuserRoleRule{} }

// ID returns the rule identifier.
func (r *SuperuserRoleRule) ID() string { return "superuser-role" }

// Check examines create_role directives for the superuser flag.
func (r *SuperuserRoleRule) Check(d *plan.Directive, ctx *lint.RuleContext) []lint.Finding {
	if d.Kind != plan.KindCreateRole || !d.Superuser {
		return nil
	}

	return []lint.Finding{{
		Rule:           r.ID(),
		Severity:       lint.High,
		Target:         d.Name,
		Message:        fmt.Sprintf("role %q is created as SUPERUSER", d.Name),
		Suggestion:     "drop the superuser flag and grant only the privileges the application needs",
		DirectiveIndex: ctx.DirectiveIndex,
	}}
}
