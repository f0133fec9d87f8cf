package rules

import (
	"testing"

	"github.com/hlabs/alethecheck/pkg/alethe"
)

func TestRuleReflPlain(t *testing.T) {
	f := newFixture()
	x := f.intVar("x")
	if err := ruleRefl(f.args(f.clause(f.eq(x, x)))); err != nil {
		t.Errorf("ruleRefl = %v, want nil", err)
	}
	y := f.intVar("y")
	if err := ruleRefl(f.args(f.clause(f.eq(x, y)))); err == nil {
		t.Error("ruleRefl should reject distinct variables with no context binding them equal")
	}
}

func TestRuleReflThroughContextSubstitution(t *testing.T) {
	f := newFixture()
	x := f.intVar("x")
	three := f.constInt(3)
	ctx := alethe.NewContext(f.pool)
	if _, err := ctx.Push([]alethe.AnchorArg{{Var: x, Value: three}}, alethe.NewVarSet(x)); err != nil {
		t.Fatal(err)
	}
	args := f.args(f.clause(f.eq(x, three)))
	args.Context = ctx
	if err := ruleRefl(args); err != nil {
		t.Errorf("ruleRefl with x := 3 bound in context = %v, want nil", err)
	}
}

func TestRuleSymm(t *testing.T) {
	f := newFixture()
	x, y := f.intVar("x"), f.intVar("y")
	prem := f.clause(f.eq(x, y))
	if err := ruleSymm(f.args(f.clause(f.eq(y, x)), prem)); err != nil {
		t.Errorf("ruleSymm = %v, want nil", err)
	}
	if err := ruleSymm(f.args(f.clause(f.eq(x, y)), prem)); err == nil {
		t.Error("ruleSymm should reject an unflipped conclusion")
	}
}

func TestRuleNotSymm(t *testing.T) {
	f := newFixture()
	x, y := f.intVar("x"), f.intVar("y")
	prem := f.clause(f.not(f.eq(x, y)))
	if err := ruleNotSymm(f.args(f.clause(f.not(f.eq(y, x))), prem)); err != nil {
		t.Errorf("ruleNotSymm = %v, want nil", err)
	}
}

func TestRuleTransChainInOrder(t *testing.T) {
	f := newFixture()
	x, y, z := f.intVar("x"), f.intVar("y"), f.intVar("z")
	p1 := f.clause(f.eq(x, y))
	p2 := f.clause(f.eq(y, z))
	if err := ruleTrans(f.args(f.clause(f.eq(x, z)), p1, p2)); err != nil {
		t.Errorf("ruleTrans = %v, want nil", err)
	}
}

func TestRuleTransChainNeedsReordering(t *testing.T) {
	f := newFixture()
	w, x, y, z := f.intVar("w"), f.intVar("x"), f.intVar("y"), f.intVar("z")
	// Premises given out of order and with one flipped: (y=z) (x=y) (w=z).
	p1 := f.clause(f.eq(y, z))
	p2 := f.clause(f.eq(x, y))
	p3 := f.clause(f.eq(w, z))
	if err := ruleTrans(f.args(f.clause(f.eq(x, w)), p1, p2, p3)); err != nil {
		t.Errorf("ruleTrans with reordered/flipped premises = %v, want nil", err)
	}
}

func TestRuleTransBrokenChain(t *testing.T) {
	f := newFixture()
	x, y, z, w := f.intVar("x"), f.intVar("y"), f.intVar("z"), f.intVar("w")
	p1 := f.clause(f.eq(x, y))
	if err := ruleTrans(f.args(f.clause(f.eq(x, w)), p1, f.clause(f.eq(z, w)))); err == nil {
		t.Error("ruleTrans should reject a chain that never connects x to w")
	}
	_ = z
}

func TestRuleCong(t *testing.T) {
	f := newFixture()
	x1, x2, y1, y2 := f.intVar("x1"), f.intVar("x2"), f.intVar("y1"), f.intVar("y2")
	lhs := f.add(x1, y1)
	rhs := f.add(x2, y2)
	p1 := f.clause(f.eq(x1, x2))
	p2 := f.clause(f.eq(y1, y2))
	if err := ruleCong(f.args(f.clause(f.eq(lhs, rhs)), p1, p2)); err != nil {
		t.Errorf("ruleCong = %v, want nil", err)
	}
}

func TestRuleCongRejectsDifferentOperators(t *testing.T) {
	f := newFixture()
	x, y := f.intVar("x"), f.intVar("y")
	lhs := f.add(x, y)
	rhs, err := f.pool.Op(alethe.OpSub, []*alethe.Term{x, y})
	if err != nil {
		t.Fatal(err)
	}
	if err := ruleCong(f.args(f.clause(f.eq(lhs, rhs)))); err == nil {
		t.Error("ruleCong should reject a conclusion whose two sides use different operators")
	}
}

func TestRuleEqTransitive(t *testing.T) {
	f := newFixture()
	x, y, z := f.intVar("x"), f.intVar("y"), f.intVar("z")
	cl := f.clause(f.not(f.eq(x, y)), f.not(f.eq(y, z)), f.eq(x, z))
	if err := ruleEqTransitive(f.args(cl)); err != nil {
		t.Errorf("ruleEqTransitive = %v, want nil", err)
	}
	bad := f.clause(f.not(f.eq(x, y)), f.not(f.eq(y, z)), f.eq(x, f.intVar("w")))
	if err := ruleEqTransitive(f.args(bad)); err == nil {
		t.Error("ruleEqTransitive should reject a conclusion target that doesn't match the chain")
	}
}

func TestRuleEqReflexive(t *testing.T) {
	f := newFixture()
	x := f.intVar("x")
	if err := ruleEqReflexive(f.args(f.clause(f.eq(x, x)))); err != nil {
		t.Errorf("ruleEqReflexive = %v, want nil", err)
	}
}

func TestRuleEqCongruent(t *testing.T) {
	f := newFixture()
	t1, u1, t2, u2 := f.intVar("t1"), f.intVar("u1"), f.intVar("t2"), f.intVar("u2")
	lhs := f.add(t1, t2)
	rhs := f.add(u1, u2)
	cl := f.clause(f.not(f.eq(t1, u1)), f.not(f.eq(t2, u2)), f.eq(lhs, rhs))
	if err := ruleEqCongruent(f.args(cl)); err != nil {
		t.Errorf("ruleEqCongruent = %v, want nil", err)
	}
}

func TestRuleEqCongruentPred(t *testing.T) {
	f := newFixture()
	t1, u1 := f.boolVar("t1"), f.boolVar("u1")
	t2, u2 := f.boolVar("t2"), f.boolVar("u2")
	p := f.and(t1, t2)
	q := f.and(u1, u2)
	cl := f.clause(f.not(f.eq(t1, u1)), f.not(f.eq(t2, u2)), f.not(p), q)
	if err := ruleEqCongruentPred(f.args(cl)); err != nil {
		t.Errorf("ruleEqCongruentPred = %v, want nil", err)
	}
}
