package rules

import "testing"

func TestRuleResolutionTwoPremises(t *testing.T) {
	f := newFixture()
	a, b, c := f.boolVar("a"), f.boolVar("b"), f.boolVar("c")
	p1 := f.clause(a, b)
	p2 := f.clause(f.not(a), c)
	if err := ruleResolution(f.args(f.clause(b, c), p1, p2)); err != nil {
		t.Errorf("ruleResolution = %v, want nil", err)
	}
}

func TestRuleResolutionChain(t *testing.T) {
	f := newFixture()
	a, b, c, d := f.boolVar("a"), f.boolVar("b"), f.boolVar("c"), f.boolVar("d")
	p1 := f.clause(a, b)
	p2 := f.clause(f.not(a), c)
	p3 := f.clause(f.not(b), d)
	// p1, p2 resolve on a to (b, c); that resolves with p3 on b to (c, d).
	if err := ruleResolution(f.args(f.clause(c, d), p1, p2, p3)); err != nil {
		t.Errorf("ruleResolution chain = %v, want nil", err)
	}
}

func TestRuleResolutionMissingPivotFails(t *testing.T) {
	f := newFixture()
	a, b, c := f.boolVar("a"), f.boolVar("b"), f.boolVar("c")
	p1 := f.clause(a, b)
	p2 := f.clause(c) // shares no complementary literal with p1
	if err := ruleResolution(f.args(f.clause(a, b, c), p1, p2)); err == nil {
		t.Error("ruleResolution should reject premises with no resolvable pivot")
	}
}

func TestRuleResolutionLeftoverPivotFails(t *testing.T) {
	f := newFixture()
	a, b := f.boolVar("a"), f.boolVar("b")
	p1 := f.clause(a, b)
	p2 := f.clause(f.not(a))
	// Conclusion omits b, which should still be in the working set.
	if err := ruleResolution(f.args(f.clause(), p1, p2)); err == nil {
		t.Error("ruleResolution should reject a conclusion missing a remaining literal")
	}
}

func TestRuleReordering(t *testing.T) {
	f := newFixture()
	a, b, c := f.boolVar("a"), f.boolVar("b"), f.boolVar("c")
	prem := f.clause(a, b, c)
	if err := ruleReordering(f.args(f.clause(c, a, b), prem)); err != nil {
		t.Errorf("ruleReordering = %v, want nil", err)
	}
}

func TestRuleOrIntro(t *testing.T) {
	f := newFixture()
	a, b, c := f.boolVar("a"), f.boolVar("b"), f.boolVar("c")
	prem := f.clause(a, b)
	if err := ruleOrIntro(f.args(f.clause(a, b, c), prem)); err != nil {
		t.Errorf("ruleOrIntro = %v, want nil", err)
	}
	if err := ruleOrIntro(f.args(f.clause(a), prem)); err == nil {
		t.Error("ruleOrIntro should reject a conclusion shorter than the premise")
	}
}

func TestRuleTautology(t *testing.T) {
	f := newFixture()
	a := f.boolVar("a")
	prem := f.clause(a, f.not(a))
	yes := f.pool.Bool(true)
	if err := ruleTautology(f.args(f.clause(yes), prem)); err != nil {
		t.Errorf("ruleTautology = %v, want nil", err)
	}
	nonTaut := f.clause(a, f.boolVar("b"))
	if err := ruleTautology(f.args(f.clause(yes), nonTaut)); err == nil {
		t.Error("ruleTautology should reject a premise with no complementary pair")
	}
}

func TestRuleContraction(t *testing.T) {
	f := newFixture()
	a, b := f.boolVar("a"), f.boolVar("b")
	prem := f.clause(a, a, b, a)
	if err := ruleContraction(f.args(f.clause(a, b), prem)); err != nil {
		t.Errorf("ruleContraction = %v, want nil", err)
	}
	if err := ruleContraction(f.args(f.clause(b, a), prem)); err == nil {
		t.Error("ruleContraction should preserve first-occurrence order")
	}
}
