package lint

import "github.com/aqasim81/database-bootstrap-engine/internal/plan"

// Option configures the Linter.
type Option func(*Linter)

// Linter runs registered rules against each directive of a plan, walking
// the plan in order and tracking the entity state earlier directives
// would have produced.
type Linter struct {
	registry *Registry
}

// New creates a new Linter with the given options.
func New(opts ...Option) *Linter {
	l := &Linter{
		registry: NewRegistry(),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// WithRegistry sets a custom rule registry.
func WithRegistry(r *Registry) Option {
	return func(l *Linter) { l.registry = r }
}

// Lint checks every directive in plan order and returns all findings.
func (l *Linter) Lint(p *plan.Plan) *Result {
	state := NewPlanState()

	var findings []Finding

	maxSeverity := Safe

	for i := range p.Directives {
		d := &p.Directives[i]
		ctx := &RuleContext{
			Plan:           p,
			DirectiveIndex: i,
			State:          state,
		}

		for _, rule := range l.registry.Rules() {
			fs := rule.Check(d, ctx)
			for j := range fs {
				if fs[j].Severity > maxSeverity {
					maxSeverity = fs[j].Severity
				}
			}

			findings = append(findings, fs...)
		}

		state.Apply(d)
	}

	return &Result{
		Plan:        p,
		Findings:    findings,
		MaxSeverity: maxSeverity,
	}
}
