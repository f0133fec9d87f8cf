package rules

import "testing"

func TestRuleTrue(t *testing.T) {
	f := newFixture()
	yes := f.pool.Bool(true)
	if err := ruleTrue(f.args(f.clause(yes))); err != nil {
		t.Errorf("ruleTrue((cl true)) = %v, want nil", err)
	}
	no := f.pool.Bool(false)
	if err := ruleTrue(f.args(f.clause(no))); err == nil {
		t.Error("ruleTrue((cl false)) should fail")
	}
}

func TestRuleFalse(t *testing.T) {
	f := newFixture()
	notFalse := f.not(f.pool.Bool(false))
	if err := ruleFalse(f.args(f.clause(notFalse))); err != nil {
		t.Errorf("ruleFalse((cl (not false))) = %v, want nil", err)
	}
}

func TestRuleNotNot(t *testing.T) {
	f := newFixture()
	p := f.boolVar("p")
	tripleNeg := f.not(f.not(f.not(p)))
	if err := ruleNotNot(f.args(f.clause(tripleNeg, p))); err != nil {
		t.Errorf("ruleNotNot = %v, want nil", err)
	}
	if err := ruleNotNot(f.args(f.clause(tripleNeg, f.boolVar("q")))); err == nil {
		t.Error("ruleNotNot should reject a mismatched trailing literal")
	}
}

func TestRuleAndPosAndNeg(t *testing.T) {
	f := newFixture()
	a, b, c := f.boolVar("a"), f.boolVar("b"), f.boolVar("c")
	conj := f.and(a, b, c)

	if err := ruleAndPos(f.args(f.clause(f.not(conj), b))); err != nil {
		t.Errorf("ruleAndPos = %v, want nil", err)
	}
	if err := ruleAndPos(f.args(f.clause(f.not(conj), f.boolVar("d")))); err == nil {
		t.Error("ruleAndPos should reject a literal not in the conjunction")
	}

	if err := ruleAndNeg(f.args(f.clause(conj, f.not(a), f.not(b), f.not(c)))); err != nil {
		t.Errorf("ruleAndNeg = %v, want nil", err)
	}
	if err := ruleAndNeg(f.args(f.clause(conj, f.not(a), f.not(b)))); err == nil {
		t.Error("ruleAndNeg should reject a clause missing a negated conjunct")
	}
}

func TestRuleOrPosAndNeg(t *testing.T) {
	f := newFixture()
	a, b := f.boolVar("a"), f.boolVar("b")
	disj := f.or(a, b)

	if err := ruleOrPos(f.args(f.clause(f.not(disj), a, b))); err != nil {
		t.Errorf("ruleOrPos = %v, want nil", err)
	}
	if err := ruleOrNeg(f.args(f.clause(disj, f.not(a)))); err != nil {
		t.Errorf("ruleOrNeg = %v, want nil", err)
	}
}

func TestRuleImpliesPosAndNeg(t *testing.T) {
	f := newFixture()
	a, b := f.boolVar("a"), f.boolVar("b")
	imp := f.implies(a, b)

	if err := ruleImpliesPos(f.args(f.clause(f.not(imp), f.not(a), b))); err != nil {
		t.Errorf("ruleImpliesPos = %v, want nil", err)
	}
	if err := ruleImpliesNeg1(f.args(f.clause(imp, a))); err != nil {
		t.Errorf("ruleImpliesNeg1 = %v, want nil", err)
	}
	if err := ruleImpliesNeg2(f.args(f.clause(imp, f.not(b)))); err != nil {
		t.Errorf("ruleImpliesNeg2 = %v, want nil", err)
	}
}

func TestRuleEqSymmetric(t *testing.T) {
	f := newFixture()
	x, y := f.intVar("x"), f.intVar("y")
	cl := f.clause(f.not(f.eq(x, y)), f.eq(y, x))
	if err := ruleEqSymmetric(f.args(cl)); err != nil {
		t.Errorf("ruleEqSymmetric = %v, want nil", err)
	}
	bad := f.clause(f.not(f.eq(x, y)), f.eq(x, y))
	if err := ruleEqSymmetric(f.args(bad)); err == nil {
		t.Error("ruleEqSymmetric should reject an unflipped second literal")
	}
}

func TestRuleXorFamily(t *testing.T) {
	f := newFixture()
	a, b := f.boolVar("a"), f.boolVar("b")
	xor := f.xor(a, b)

	if err := ruleXorPos1(f.args(f.clause(f.not(xor), a, b))); err != nil {
		t.Errorf("ruleXorPos1 = %v, want nil", err)
	}
	if err := ruleXorPos2(f.args(f.clause(f.not(xor), f.not(a), f.not(b)))); err != nil {
		t.Errorf("ruleXorPos2 = %v, want nil", err)
	}
	if err := ruleXorNeg1(f.args(f.clause(xor, a, f.not(b)))); err != nil {
		t.Errorf("ruleXorNeg1 = %v, want nil", err)
	}
	if err := ruleXorNeg2(f.args(f.clause(xor, f.not(a), b))); err != nil {
		t.Errorf("ruleXorNeg2 = %v, want nil", err)
	}
}

func TestRuleEquivPosAndNeg(t *testing.T) {
	f := newFixture()
	p, q := f.boolVar("p"), f.boolVar("q")
	eq := f.eq(p, q)

	if err := ruleEquivPos1(f.args(f.clause(f.not(eq), f.not(p), q))); err != nil {
		t.Errorf("ruleEquivPos1 = %v, want nil", err)
	}
	if err := ruleEquivPos2(f.args(f.clause(f.not(eq), p, f.not(q)))); err != nil {
		t.Errorf("ruleEquivPos2 = %v, want nil", err)
	}
	if err := ruleEquivNeg1(f.args(f.clause(eq, p, q))); err != nil {
		t.Errorf("ruleEquivNeg1 = %v, want nil", err)
	}
	if err := ruleEquivNeg2(f.args(f.clause(eq, f.not(p), f.not(q)))); err != nil {
		t.Errorf("ruleEquivNeg2 = %v, want nil", err)
	}
}

func TestRuleIteFamily(t *testing.T) {
	f := newFixture()
	c, a, b := f.boolVar("c"), f.boolVar("a"), f.boolVar("b")
	ite := f.ite(c, a, b)

	if err := ruleItePos1(f.args(f.clause(f.not(ite), c, b))); err != nil {
		t.Errorf("ruleItePos1 = %v, want nil", err)
	}
	if err := ruleItePos2(f.args(f.clause(f.not(ite), f.not(c), a))); err != nil {
		t.Errorf("ruleItePos2 = %v, want nil", err)
	}
	if err := ruleIteNeg1(f.args(f.clause(ite, c, f.not(b)))); err != nil {
		t.Errorf("ruleIteNeg1 = %v, want nil", err)
	}
	if err := ruleIteNeg2(f.args(f.clause(ite, f.not(c), f.not(a)))); err != nil {
		t.Errorf("ruleIteNeg2 = %v, want nil", err)
	}
}

func TestRuleConnectiveDef(t *testing.T) {
	f := newFixture()
	a, b := f.boolVar("a"), f.boolVar("b")
	xor := f.xor(a, b)
	// The expansion side is trusted (see ruleConnectiveDef's doc comment);
	// only the triggering connective shape is checked.
	expansion := f.or(f.and(a, f.not(b)), f.and(f.not(a), b))
	if err := ruleConnectiveDef(f.args(f.clause(f.eq(xor, expansion)))); err != nil {
		t.Errorf("ruleConnectiveDef = %v, want nil", err)
	}
	if err := ruleConnectiveDef(f.args(f.clause(f.eq(a, b)))); err == nil {
		t.Error("ruleConnectiveDef should reject a plain '=' as the defined connective")
	}
}
