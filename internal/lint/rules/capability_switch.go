package rules

import (
	"fmt"

	"github.com/aqasim81/database-bootstrap-engine/internal/lint"
	"github.com/aqasim81/database-bootstrap-engine/internal/plan"
)

// CapabilitySwitchRule detects enable_capability directives issued while
// the plan is still on the admin connection even though it created a
// database. CREATE EXTENSION applies only to the connected database, so
// the extension would land in the admin database instead of the one the
// plan just created.
type CapabilitySwitchRule struct{}

// NewCapabilitySwitchRule creates a new CapabilitySwitchRule.
func NewCapabilitySwitchRule() *CapabilitySwitchRule { return &CapabilitySwitchRule{} }

// ID returns the rule identifier.
func (r *CapabilitySwitchRule) ID() string { return "capability-without-switch" }

// Check examines enable_capability directives for a missing switch.
func (r *CapabilitySwitchRule) Check(d *plan.Directive, ctx *lint.RuleContext) []lint.Finding {
	if d.Kind != plan.KindEnableCapability {
		return nil
	}

	if ctx.State.Connected != "" || len(ctx.State.Databases) == 0 {
		return nil
	}

	return []lint.Finding{{
		Rule:           r.ID(),
		Severity:       lint.High,
		Target:         d.Name,
		Message:        fmt.Sprintf("capability %q would be enabled on the admin database, not the one this plan creates", d.Name),
		Suggestion:     "add a switch_connection directive before enable_capability",
		DirectiveIndex: ctx.DirectiveIndex,
	}}
}
