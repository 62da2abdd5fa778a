package rules

import (
	"fmt"

	"github.com/aqasim81/database-bootstrap-engine/internal/lint"
	"github.com/aqasim81/database-bootstrap-engine/internal/plan"
)

// UndefinedReferenceRule detects directives that reference a role or
// database no earlier directive creates. Such plans fail at apply time
// with an unknown-role or unknown-database error from the server; this
// catches them before a connection is even opened.
type UndefinedReferenceRule struct{}

// NewUndefinedReferenceRule creates a new UndefinedReferenceRule.
func NewUndefinedReferenceRule() *UndefinedReferenceRule { return &UndefinedReferenceRule{} }

// ID returns the rule identifier.
func (r *UndefinedReferenceRule) ID() string { return "undefined-reference" }

// Check examines a directive for references to entities the plan has not
// yet created. References to pre-existing server entities are legitimate,
// so every finding is a High (not Critical) and names the missing entity.
func (r *UndefinedReferenceRule) Check(d *plan.Directive, ctx *lint.RuleContext) []lint.Finding {
	var findings []lint.Finding

	missingRole := func(role string) lint.Finding {
		return lint.Finding{
			Rule:           r.ID(),
			Severity:       lint.High,
			Target:         role,
			Message:        fmt.Sprintf("role %q is referenced before any directive creates it", role),
			Suggestion:     "add a create_role directive earlier in the plan, or confirm the role already exists on the server",
			DirectiveIndex: ctx.DirectiveIndex,
		}
	}

	missingDatabase := func(db string) lint.Finding {
		return lint.Finding{
			Rule:           r.ID(),
			Severity:       lint.High,
			Target:         db,
			Message:        fmt.Sprintf("database %q is referenced before any directive creates it", db),
			Suggestion:     "add a create_database directive earlier in the plan, or confirm the database already exists on the server",
			DirectiveIndex: ctx.DirectiveIndex,
		}
	}

	switch d.Kind {
	case plan.KindCreateDatabase:
		if !ctx.State.Roles[d.Owner] {
			findings = append(findings, missingRole(d.Owner))
		}
	case plan.KindGrantAll:
		if !ctx.State.Roles[d.Role] {
			findings = append(findings, missingRole(d.Role))
		}

		if !ctx.State.Databases[d.Database] {
			findings = append(findings, missingDatabase(d.Database))
		}
	case plan.KindSwitchConnection:
		if !ctx.State.Databases[d.Database] {
			findings = append(findings, missingDatabase(d.Database))
		}
	case plan.KindCreateRole, plan.KindEnableCapability:
		// no plan-level references; capability targeting is covered by
		// the capability-without-switch rule
	}

	return findings
}
