package rules

import "github.com/aqasim81/database-bootstrap-engine/internal/lint"

// NewDefaultRegistry returns a Registry with all built-in plan rules.
func NewDefaultRegistry() *lint.Registry {
	r := lint.NewRegistry()
	r.Register(NewUndefinedReferenceRule())
	r.Register(NewDuplicateCreateRule())
	r.Register(NewWeakPasswordRule())
	r.Register(NewSuperuserRoleRule())
	r.Register(NewCapabilitySwitchRule())

	return r
}
