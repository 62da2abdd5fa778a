package lint

import "github.com/aqasim81/database-bootstrap-engine/internal/plan"

// Rule is the interface all plan lint rules implement.
type Rule interface {
	// ID returns a unique kebab-case identifier for this rule.
	ID() string
	// Check examines a single directive and returns any findings.
	Check(d *plan.Directive, ctx *RuleContext) []Finding
}

// RuleContext provides a rule with the plan position and the entity state
// accumulated from earlier directives. State reflects the plan as it
// stands BEFORE the directive under inspection executes.
type RuleContext struct {
	Plan           *plan.Plan
	DirectiveIndex int
	State          *PlanState
}

// PlanState tracks entities the plan has created so far and the
// connection context, mirroring what a run would produce.
type PlanState struct {
	Roles     map[string]bool // role name -> created by an earlier directive
	Databases map[string]bool
	Connected string // database switched to; "" means the admin connection
}

// NewPlanState returns an empty state for the start of a plan walk.
func NewPlanState() *PlanState {
	return &PlanState{
		Roles:     make(map[string]bool),
		Databases: make(map[string]bool),
	}
}

// Apply folds a directive's effect into the state. Called by the linter
// after rules have inspected the directive.
func (s *PlanState) Apply(d *plan.Directive) {
	switch d.Kind {
	case plan.KindCreateRole:
		s.Roles[d.Name] = true
	case plan.KindCreateDatabase:
		s.Databases[d.Name] = true
	case plan.KindSwitchConnection:
		s.Connected = d.Database
	case plan.KindGrantAll, plan.KindEnableCapability:
		// no entity state change
	}
}

// Registry holds a collection of rules.
type Registry struct {
	rules []Rule
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a rule to the registry.
func (r *Registry) Register(rule Rule) {
	r.rules = append(r.rules, rule)
}

// Rules returns all registered rules.
func (r *Registry) Rules() []Rule {
	return r.rules
}
