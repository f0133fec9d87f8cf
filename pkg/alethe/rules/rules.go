// Package rules implements the Alethe rule kernel (§4.E): one pure
// validator function per named rule, dispatched by name through a table
// built here rather than through an interface hierarchy, mirroring the
// original checker's `get_rule` match statement in `checker/mod.rs` and
// its Go re-expression as a plain map of functions (the teacher's own
// `internal/parallel` package uses the same "function value in a map"
// dispatch style for its worker tasks).
package rules

import "github.com/hlabs/alethecheck/pkg/alethe"

// RuleArgs is the argument bundle every rule function receives.
type RuleArgs = alethe.RuleArgs

// Rule validates one step.
type Rule = alethe.Rule

// Table builds the full rule-name to validator mapping, wiring every rule
// spec.md names plus the four features supplemented from original_source/
// (reordering, eq_symmetric, or_intro, bind_let; see SPEC_FULL.md).
func Table() alethe.RuleTable {
	t := make(alethe.RuleTable)
	addTautologyRules(t)
	addClausificationRules(t)
	addResolutionRules(t)
	addEqualityRules(t)
	addQuantifierRules(t)
	addArithmeticRules(t)
	addSimplifyRules(t)
	addSubproofRules(t)
	return t
}
