package rules

import (
	"testing"

	"github.com/hlabs/alethecheck/pkg/alethe"
)

func TestRuleForallInst(t *testing.T) {
	f := newFixture()
	x := f.intVar("x")
	three := f.constInt(3)
	body := f.eq(x, x)
	forall := f.pool.Quantifier(alethe.Forall, []alethe.Binding{{Name: "x", Sort: f.sortTerm("Int")}}, body)
	instantiated := f.eq(three, three)

	a := f.args(f.clause(f.not(forall), instantiated))
	a.Args = []*alethe.Term{x, three}
	if err := ruleForallInst(a); err != nil {
		t.Errorf("ruleForallInst = %v, want nil", err)
	}

	bad := f.args(f.clause(f.not(forall), instantiated))
	bad.Args = []*alethe.Term{x, f.constInt(4)}
	if err := ruleForallInst(bad); err == nil {
		t.Error("ruleForallInst should reject an instantiation not matching the conclusion")
	}

	// term-style: one bare term per binding, positionally matched
	positional := f.args(f.clause(f.not(forall), instantiated))
	positional.Args = []*alethe.Term{three}
	if err := ruleForallInst(positional); err != nil {
		t.Errorf("ruleForallInst (term-style arg) = %v, want nil", err)
	}

	missing := f.args(f.clause(f.not(forall), instantiated))
	if err := ruleForallInst(missing); !alethe.ErrNoArgGivenForBinding.Is(err) {
		t.Errorf("ruleForallInst with no argument = %v, want NoArgGivenForBinding", err)
	}
}

func TestRuleBind(t *testing.T) {
	f := newFixture()
	x := f.intVar("x")
	y := f.intVar("y")
	phi := f.eq(x, x)
	psi := f.eq(y, y)
	left := f.pool.Quantifier(alethe.Forall, []alethe.Binding{{Name: "x", Sort: f.sortTerm("Int")}}, phi)
	right := f.pool.Quantifier(alethe.Forall, []alethe.Binding{{Name: "y", Sort: f.sortTerm("Int")}}, psi)
	discharge := f.clause(f.eq(phi, psi))
	if err := ruleBind(f.args(f.clause(f.eq(left, right)), discharge)); err != nil {
		t.Errorf("ruleBind = %v, want nil", err)
	}
}

func TestRuleBindRejectsBindingCountMismatch(t *testing.T) {
	f := newFixture()
	x, y, z := f.intVar("x"), f.intVar("y"), f.intVar("z")
	phi := f.eq(x, x)
	left := f.pool.Quantifier(alethe.Forall, []alethe.Binding{{Name: "x", Sort: f.sortTerm("Int")}}, phi)
	right := f.pool.Quantifier(alethe.Forall, []alethe.Binding{
		{Name: "y", Sort: f.sortTerm("Int")},
		{Name: "z", Sort: f.sortTerm("Int")},
	}, f.eq(y, z))
	discharge := f.clause(f.eq(phi, f.eq(y, z)))
	if err := ruleBind(f.args(f.clause(f.eq(left, right)), discharge)); err == nil {
		t.Error("ruleBind should reject mismatched binding counts")
	}
}

func TestRuleQntJoin(t *testing.T) {
	f := newFixture()
	x, y := f.intVar("x"), f.intVar("y")
	body := f.eq(x, y)
	inner := f.pool.Quantifier(alethe.Forall, []alethe.Binding{{Name: "y", Sort: f.sortTerm("Int")}}, body)
	outer := f.pool.Quantifier(alethe.Forall, []alethe.Binding{{Name: "x", Sort: f.sortTerm("Int")}}, inner)
	joined := f.pool.Quantifier(alethe.Forall, []alethe.Binding{
		{Name: "x", Sort: f.sortTerm("Int")},
		{Name: "y", Sort: f.sortTerm("Int")},
	}, body)
	if err := ruleQntJoin(f.args(f.clause(f.eq(outer, joined)))); err != nil {
		t.Errorf("ruleQntJoin = %v, want nil", err)
	}
}

func TestRuleQntRmUnused(t *testing.T) {
	f := newFixture()
	x, y := f.intVar("x"), f.intVar("y")
	body := f.eq(x, x)
	withUnused := f.pool.Quantifier(alethe.Forall, []alethe.Binding{
		{Name: "x", Sort: f.sortTerm("Int")},
		{Name: "y", Sort: f.sortTerm("Int")},
	}, body)
	trimmed := f.pool.Quantifier(alethe.Forall, []alethe.Binding{{Name: "x", Sort: f.sortTerm("Int")}}, body)
	if err := ruleQntRmUnused(f.args(f.clause(f.eq(withUnused, trimmed)))); err != nil {
		t.Errorf("ruleQntRmUnused = %v, want nil", err)
	}
	_ = y
}

func TestRuleQntRmUnusedRejectsDroppingAFreeBinder(t *testing.T) {
	f := newFixture()
	x, y := f.intVar("x"), f.intVar("y")
	body := f.eq(x, y)
	withBoth := f.pool.Quantifier(alethe.Forall, []alethe.Binding{
		{Name: "x", Sort: f.sortTerm("Int")},
		{Name: "y", Sort: f.sortTerm("Int")},
	}, body)
	droppedY := f.pool.Quantifier(alethe.Forall, []alethe.Binding{{Name: "x", Sort: f.sortTerm("Int")}}, body)
	if err := ruleQntRmUnused(f.args(f.clause(f.eq(withBoth, droppedY)))); err == nil {
		t.Error("ruleQntRmUnused should reject dropping a binder that's free in the body")
	}
}

func TestRuleQntCnf(t *testing.T) {
	f := newFixture()
	x, y := f.intVar("x"), f.intVar("y")
	a, b := f.boolVar("a"), f.boolVar("b")
	intSort := f.sortTerm("Int")
	// phi = (or (<= x y) (and a b)); its CNF is
	// (and (or (<= x y) a) (or (<= x y) b))
	phi := f.or(f.le(x, y), f.and(a, b))
	q := f.pool.Quantifier(alethe.Forall, []alethe.Binding{{Name: "x", Sort: intSort}}, phi)

	clause1 := f.pool.Quantifier(alethe.Forall, []alethe.Binding{{Name: "x", Sort: intSort}}, f.or(f.le(x, y), a))
	if err := ruleQntCnf(f.args(f.clause(f.not(q), clause1))); err != nil {
		t.Errorf("ruleQntCnf = %v, want nil", err)
	}

	notAClause := f.pool.Quantifier(alethe.Forall, []alethe.Binding{{Name: "x", Sort: intSort}}, f.or(f.le(x, y), f.boolVar("c")))
	err := ruleQntCnf(f.args(f.clause(f.not(q), notAClause)))
	if !alethe.ErrClauseDoesntAppearInCnf.Is(err) {
		t.Errorf("ruleQntCnf with a foreign clause = %v, want ClauseDoesntAppearInCnf", err)
	}

	newBinder := f.pool.Quantifier(alethe.Forall, []alethe.Binding{{Name: "z", Sort: intSort}}, f.or(f.le(x, y), a))
	err = ruleQntCnf(f.args(f.clause(f.not(q), newBinder)))
	if !alethe.ErrCnfNewBindingIntroduced.Is(err) {
		t.Errorf("ruleQntCnf with an unknown binder = %v, want CnfNewBindingIntroduced", err)
	}

	bare := f.or(f.le(x, y), a)
	err = ruleQntCnf(f.args(f.clause(f.not(q), bare)))
	if !alethe.ErrCnfBindingIsMissing.Is(err) {
		t.Errorf("ruleQntCnf dropping a binder still free in the clause = %v, want CnfBindingIsMissing", err)
	}
}

func TestRuleOnePointExists(t *testing.T) {
	f := newFixture()
	x, y := f.intVar("x"), f.intVar("y")
	three := f.constInt(3)
	intSort := f.sortTerm("Int")

	// (exists ((x Int)) (= x 3)) collapses to true
	q := f.pool.Quantifier(alethe.Exists, []alethe.Binding{{Name: "x", Sort: intSort}}, f.eq(x, three))
	if err := ruleOnePoint(f.args(f.clause(f.eq(q, f.pool.Bool(true))))); err != nil {
		t.Errorf("ruleOnePoint (bare point) = %v, want nil", err)
	}

	// (exists ((x Int)) (and (= x 3) (<= x y))) collapses to (<= 3 y)
	q2 := f.pool.Quantifier(alethe.Exists, []alethe.Binding{{Name: "x", Sort: intSort}}, f.and(f.eq(x, three), f.le(x, y)))
	if err := ruleOnePoint(f.args(f.clause(f.eq(q2, f.le(three, y))))); err != nil {
		t.Errorf("ruleOnePoint (exists conjunct) = %v, want nil", err)
	}

	wrong := f.args(f.clause(f.eq(q2, f.le(f.constInt(4), y))))
	if err := ruleOnePoint(wrong); !alethe.ErrTermsNotEqual.Is(err) {
		t.Errorf("ruleOnePoint with the wrong substituted value = %v, want TermsNotEqual", err)
	}
}

func TestRuleOnePointForallImplication(t *testing.T) {
	f := newFixture()
	x, y := f.intVar("x"), f.intVar("y")
	three := f.constInt(3)
	intSort := f.sortTerm("Int")

	// (forall ((x Int)) (=> (= x 3) (<= x y))) collapses to (<= 3 y)
	q := f.pool.Quantifier(alethe.Forall, []alethe.Binding{{Name: "x", Sort: intSort}}, f.implies(f.eq(x, three), f.le(x, y)))
	if err := ruleOnePoint(f.args(f.clause(f.eq(q, f.le(three, y))))); err != nil {
		t.Errorf("ruleOnePoint (forall implication) = %v, want nil", err)
	}

	// (forall ((x Int)) (or (not (= x 3)) (<= x y))) collapses the same way
	q2 := f.pool.Quantifier(alethe.Forall, []alethe.Binding{{Name: "x", Sort: intSort}}, f.or(f.not(f.eq(x, three)), f.le(x, y)))
	if err := ruleOnePoint(f.args(f.clause(f.eq(q2, f.le(three, y))))); err != nil {
		t.Errorf("ruleOnePoint (forall negated disjunct) = %v, want nil", err)
	}
}

func TestRuleOnePointRejectsMissingPoint(t *testing.T) {
	f := newFixture()
	x, y := f.intVar("x"), f.intVar("y")
	intSort := f.sortTerm("Int")
	q := f.pool.Quantifier(alethe.Exists, []alethe.Binding{{Name: "x", Sort: intSort}}, f.le(x, y))
	err := ruleOnePoint(f.args(f.clause(f.eq(q, f.le(f.constInt(3), y)))))
	if !alethe.ErrNoPointForSubstitution.Is(err) {
		t.Errorf("ruleOnePoint with no point equality = %v, want NoPointForSubstitution", err)
	}
}
