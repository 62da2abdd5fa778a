package rules

import (
	"fmt"

	"github.com/aqasim81/database-bootstrap-engine/internal/lint"
	"github.com/aqasim81/database-bootstrap-engine/internal/plan"
)

// minPasswordLength is the shortest literal password the rule accepts
// without flagging it.
const minPasswordLength = 8

// WeakPasswordRule flags empty, short, or plan-file-literal passwords on
// create_role directives.
type WeakPasswordRule struct{}

// NewWeakPasswordRule creates a new WeakPasswordRule.
func NewWeakPasswordRule() *WeakPasswordRule { return &WeakPasswordRule{} }

// ID returns the rule identifier.
func (r *WeakPasswordRule) ID() string { return "weak-password" }

// Check examines create_role directives for credential problems.
// password_env references are not resolved here; lint must not require
// the production environment to be present.
func (r *WeakPasswordRule) Check(d *plan.Directive, ctx *lint.RuleContext) []lint.Finding {
	if d.Kind != plan.KindCreateRole || d.PasswordEnv != "" {
		return nil
	}

	if d.Password == "" {
		return []lint.Finding{{
			Rule:           r.ID(),
			Severity:       lint.High,
			Target:         d.Name,
			Message:        fmt.Sprintf("role %q has an empty password", d.Name),
			Suggestion:     "set password_env to read the credential from the environment",
			DirectiveIndex: ctx.DirectiveIndex,
		}}
	}

	findings := []lint.Finding{{
		Rule:           r.ID(),
		Severity:       lint.Medium,
		Target:         d.Name,
		Message:        fmt.Sprintf("role %q has its password written literally in the plan file", d.Name),
		Suggestion:     "use password_env so the plan file carries no secrets",
		DirectiveIndex: ctx.DirectiveIndex,
	}}

	if len(d.Password) < minPasswordLength {
		findings = append(findings, lint.Finding{
			Rule:           r.ID(),
			Severity:       lint.Medium,
			Target:         d.Name,
			Message:        fmt.Sprintf("role %q has a password shorter than %d characters", d.Name, minPasswordLength),
			Suggestion:     "use a longer generated password",
			DirectiveIndex: ctx.DirectiveIndex,
		})
	}

	return findings
}
