package alethe

import "testing"

// TestContextPushResolvesChainedBindings exercises §4.D's motivating case:
// an anchor binding `x := 3` followed by `y := x` in the same textual
// order must leave y resolved all the way to 3 in FixedPoint, not just to
// x, since a later binding in the same anchor can depend on an earlier one.
func TestContextPushResolvesChainedBindings(t *testing.T) {
	p := NewPool()
	x := p.Var("x", intSortTerm(p))
	y := p.Var("y", intSortTerm(p))
	three := p.ConstInt(bigInt(3))

	ctx := NewContext(p)
	frame, err := ctx.Push([]AnchorArg{
		{Var: x, Value: three},
		{Var: y, Value: x},
	}, NewVarSet(x, y))
	if err != nil {
		t.Fatal(err)
	}
	got, ok := frame.FixedPoint.Lookup(y)
	if !ok {
		t.Fatal("y should be bound in the frame's FixedPoint substitution")
	}
	if got != three {
		t.Errorf("FixedPoint[y] = %s, want 3 (resolved through x := 3)", got)
	}
}

// TestContextPushCumulativeComposesWithParent checks that a nested anchor's
// Cumulative substitution reflects both its own bindings and the enclosing
// frame's, so a deeply nested step doesn't need to walk the whole chain.
func TestContextPushCumulativeComposesWithParent(t *testing.T) {
	p := NewPool()
	x := p.Var("x", intSortTerm(p))
	y := p.Var("y", intSortTerm(p))
	three := p.ConstInt(bigInt(3))

	ctx := NewContext(p)
	if _, err := ctx.Push([]AnchorArg{{Var: x, Value: three}}, NewVarSet(x)); err != nil {
		t.Fatal(err)
	}
	inner, err := ctx.Push([]AnchorArg{{Var: y, Value: x}}, NewVarSet(y))
	if err != nil {
		t.Fatal(err)
	}
	got, ok := inner.Cumulative.Lookup(y)
	if !ok {
		t.Fatal("y should be bound in the inner frame's Cumulative substitution")
	}
	if got != three {
		t.Errorf("Cumulative[y] = %s, want 3 (composed through the enclosing x := 3)", got)
	}
	if got, ok := inner.Cumulative.Lookup(x); !ok || got != three {
		t.Error("Cumulative should also carry the enclosing frame's own bindings")
	}
}

func TestContextPopRestoresEnclosingFrame(t *testing.T) {
	p := NewPool()
	x := p.Var("x", intSortTerm(p))
	three := p.ConstInt(bigInt(3))

	ctx := NewContext(p)
	if ctx.Top() != nil {
		t.Fatal("a fresh context should have no open frame")
	}
	if _, err := ctx.Push([]AnchorArg{{Var: x, Value: three}}, NewVarSet(x)); err != nil {
		t.Fatal(err)
	}
	if ctx.Depth() != 1 {
		t.Fatalf("Depth() = %d, want 1", ctx.Depth())
	}
	ctx.Pop()
	if ctx.Depth() != 0 {
		t.Fatalf("Depth() after Pop = %d, want 0", ctx.Depth())
	}
	if ctx.Top() != nil {
		t.Error("Top() after popping the only frame should be nil")
	}
}

func TestContextPushBoundAccumulatesAcrossFrames(t *testing.T) {
	p := NewPool()
	x := p.Var("x", intSortTerm(p))
	y := p.Var("y", intSortTerm(p))

	ctx := NewContext(p)
	if _, err := ctx.Push(nil, NewVarSet(x)); err != nil {
		t.Fatal(err)
	}
	inner, err := ctx.Push(nil, NewVarSet(y))
	if err != nil {
		t.Fatal(err)
	}
	if !inner.Bound.Contains(x) || !inner.Bound.Contains(y) {
		t.Error("a nested frame's Bound set should include every binder from root to this frame")
	}
}
