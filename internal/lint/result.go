package lint

import "github.com/aqasim81/database-bootstrap-engine/internal/plan"

// Finding represents a single problem detected in a bootstrap plan.
type Finding struct {
	Rule           string   // Rule ID (e.g., "undefined-reference")
	Severity       Severity // Seriousness level
	Target         string   // Affected role, database, or capability name
	Message        string   // Human-readable description of the problem
	Suggestion     string   // How to fix the plan
	DirectiveIndex int      // Index in the plan's directive list (0-based)
}

// Result holds all findings for a plan.
type Result struct {
	Plan        *plan.Plan
	Findings    []Finding
	MaxSeverity Severity // Highest severity across all findings
}

// HasHighOrCritical returns true if any finding is High or Critical severity.
func (r *Result) HasHighOrCritical() bool {
	return r.MaxSeverity >= High
}
