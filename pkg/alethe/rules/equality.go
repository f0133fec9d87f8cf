package rules

import "github.com/hlabs/alethecheck/pkg/alethe"

func addEqualityRules(t alethe.RuleTable) {
	t["refl"] = ruleRefl
	t["symm"] = ruleSymm
	t["not_symm"] = ruleNotSymm
	t["trans"] = ruleTrans
	t["cong"] = ruleCong
	t["eq_transitive"] = ruleEqTransitive
	t["eq_congruent"] = ruleEqCongruent
	t["eq_reflexive"] = ruleEqReflexive
	t["eq_congruent_pred"] = ruleEqCongruentPred
}

// ruleRefl checks the premise-less conclusion `(cl (= t t))`. Both sides
// are rewritten through the enclosing context frame's cumulative
// substitution first, which is what lets `refl` prove things like
// `(= x 3)` true inside a subproof where an anchor bound `x := 3`.
func ruleRefl(a alethe.RuleArgs) error {
	if len(a.Conclusion.Literals) != 1 {
		return wrongLen(a.Conclusion, 1)
	}
	l, r, ok := a.Conclusion.Literals[0].AsEquality()
	if !ok {
		return alethe.ErrTermOfWrongForm.New(a.Conclusion.Literals[0], "(= t t)")
	}
	if frame := a.Context.Top(); frame != nil {
		var err error
		if l, err = frame.Cumulative.Apply(l); err != nil {
			return err
		}
		if r, err = frame.Cumulative.Apply(r); err != nil {
			return err
		}
	}
	// equality modulo alpha or modulo reordering both count: refl is
	// where the checker's remaining deep-equality leniency lives, and it
	// is what lets a reconstructed proof's flip bridges re-check
	if !alethe.DeepEqual(l, r, alethe.ModeAlpha) && !alethe.DeepEqual(l, r, alethe.ModeReorderEq) {
		return alethe.ErrTermsNotEqual.New(l, r)
	}
	return nil
}

// ruleSymm checks premise `(= a b)` against conclusion `(cl (= b a))`.
func ruleSymm(a alethe.RuleArgs) error {
	p, err := onePremiseOneLiteral(a)
	if err != nil {
		return err
	}
	l, r, ok := p.AsEquality()
	if !ok {
		return alethe.ErrTermOfWrongForm.New(p, "(= a b)")
	}
	if len(a.Conclusion.Literals) != 1 {
		return wrongLen(a.Conclusion, 1)
	}
	cl, cr, ok := a.Conclusion.Literals[0].AsEquality()
	if !ok || cl != r || cr != l {
		return alethe.ErrTermOfWrongForm.New(a.Conclusion.Literals[0], "(= b a)")
	}
	return nil
}

// ruleNotSymm checks premise `(not (= a b))` against conclusion
// `(cl (not (= b a)))`.
func ruleNotSymm(a alethe.RuleArgs) error {
	p, err := onePremiseOneLiteral(a)
	if err != nil {
		return err
	}
	inner, ok := p.IsNegation()
	if !ok {
		return alethe.ErrTermOfWrongForm.New(p, "(not (= a b))")
	}
	l, r, ok := inner.AsEquality()
	if !ok {
		return alethe.ErrTermOfWrongForm.New(inner, "(= a b)")
	}
	if len(a.Conclusion.Literals) != 1 {
		return wrongLen(a.Conclusion, 1)
	}
	negC, ok := a.Conclusion.Literals[0].IsNegation()
	if !ok {
		return alethe.ErrTermOfWrongForm.New(a.Conclusion.Literals[0], "(not (= b a))")
	}
	cl, cr, ok := negC.AsEquality()
	if !ok || cl != r || cr != l {
		return alethe.ErrTermOfWrongForm.New(negC, "(= b a)")
	}
	return nil
}

// ruleTrans checks a chain of equality premises `(= t1 t2) (= t2 t3) ...
// (= t(n-1) tn)` against conclusion `(cl (= t1 tn))`. Premises may need to
// be taken in either direction and the chain may need reordering; this is
// exactly the ModeReorderEq case pkg/alethe/reconstruct.go exists to
// bridge when a strict downstream consumer needs explicit cong/refl/trans
// steps.
func ruleTrans(a alethe.RuleArgs) error {
	if len(a.Premises) < 1 {
		return alethe.ErrWrongNumberOfPremises.New("at least 1", len(a.Premises))
	}
	if len(a.Conclusion.Literals) != 1 {
		return wrongLen(a.Conclusion, 1)
	}
	want1, wantN, ok := a.Conclusion.Literals[0].AsEquality()
	if !ok {
		return alethe.ErrTermOfWrongForm.New(a.Conclusion.Literals[0], "(= t1 tn)")
	}
	type edge struct{ l, r *alethe.Term }
	edges := make([]edge, 0, len(a.Premises))
	for _, p := range a.Premises {
		if len(p.Literals) != 1 {
			return wrongLen(p, 1)
		}
		l, r, ok := p.Literals[0].AsEquality()
		if !ok {
			return alethe.ErrTermOfWrongForm.New(p.Literals[0], "(= a b)")
		}
		edges = append(edges, edge{l, r})
	}
	cur := want1
	used := make([]bool, len(edges))
	for step := 0; step < len(edges); step++ {
		found := false
		for i, e := range edges {
			if used[i] {
				continue
			}
			// pointer equality first, then equality modulo reordering of
			// equalities: the silent deep-equality use the reconstructor
			// later turns into explicit cong/refl/trans bridges.
			if e.l == cur || alethe.DeepEqual(e.l, cur, alethe.ModeReorderEq) {
				cur = e.r
				used[i] = true
				found = true
				break
			}
			if e.r == cur || alethe.DeepEqual(e.r, cur, alethe.ModeReorderEq) {
				cur = e.l
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			// report the first link that fails, in premise order
			for i, e := range edges {
				if !used[i] {
					return alethe.ErrBrokenTransitivityChain.New(cur, e.l)
				}
			}
		}
	}
	if cur != wantN && !alethe.DeepEqual(cur, wantN, alethe.ModeReorderEq) {
		return alethe.ErrBrokenTransitivityChain.New(cur, wantN)
	}
	return nil
}

// ruleCong checks that, for an n-ary application or operator term, each
// pair of corresponding arguments on the premise equalities' two sides
// justifies the conclusion's top-level equality between two applications
// of the same head/operator (§4.E congruence).
func ruleCong(a alethe.RuleArgs) error {
	if len(a.Conclusion.Literals) != 1 {
		return wrongLen(a.Conclusion, 1)
	}
	l, r, ok := a.Conclusion.Literals[0].AsEquality()
	if !ok {
		return alethe.ErrTermOfWrongForm.New(a.Conclusion.Literals[0], "(= f(...) f(...))")
	}
	var lArgs, rArgs []*alethe.Term
	switch {
	case l.Kind() == alethe.KindOp && r.Kind() == alethe.KindOp:
		if l.Op() != r.Op() {
			return alethe.ErrDifferentOperators.New(l.Op(), r.Op())
		}
		lArgs, rArgs = l.Args(), r.Args()
	case l.Kind() == alethe.KindApp && r.Kind() == alethe.KindApp:
		if l.Head() != r.Head() {
			return alethe.ErrDifferentFunctions.New(l.Head(), r.Head())
		}
		lArgs, rArgs = l.Args(), r.Args()
	default:
		return alethe.ErrNotApplicationOrOperation.New(l)
	}
	if len(lArgs) != len(rArgs) {
		return alethe.ErrDifferentNumberOfArguments.New(len(lArgs), len(rArgs))
	}
	pi := 0
	for i := range lArgs {
		if lArgs[i] == rArgs[i] {
			continue
		}
		if pi >= len(a.Premises) {
			return alethe.ErrMissingPremise.New(lArgs[i], rArgs[i])
		}
		p := a.Premises[pi]
		pi++
		if len(p.Literals) != 1 {
			return wrongLen(p, 1)
		}
		pl, pr, ok := p.Literals[0].AsEquality()
		if !ok || pl != lArgs[i] || pr != rArgs[i] {
			return alethe.ErrPremiseDoesntJustifyArgs.New(pl, pr, lArgs[i], rArgs[i])
		}
	}
	return nil
}

// ruleEqTransitive checks the tautology clause
// `(cl (not (= t1 t2)) (not (= t2 t3)) ... (= t1 tn))` without premises.
func ruleEqTransitive(a alethe.RuleArgs) error {
	if len(a.Conclusion.Literals) < 2 {
		return wrongLen(a.Conclusion, 2)
	}
	n := len(a.Conclusion.Literals)
	first, lastTarget, ok := a.Conclusion.Literals[n-1].AsEquality()
	if !ok {
		return alethe.ErrTermOfWrongForm.New(a.Conclusion.Literals[n-1], "(= t1 tn)")
	}
	cur := first
	for i := 0; i < n-1; i++ {
		neg, ok := a.Conclusion.Literals[i].IsNegation()
		if !ok {
			return alethe.ErrTermOfWrongForm.New(a.Conclusion.Literals[i], "(not (= ti ti+1))")
		}
		l, r, ok := neg.AsEquality()
		if !ok || l != cur {
			return alethe.ErrTermOfWrongForm.New(neg, "(= ti ti+1)")
		}
		cur = r
	}
	if cur != lastTarget {
		return alethe.ErrBrokenTransitivityChain.New(first, lastTarget)
	}
	return nil
}

// ruleEqReflexive checks the premise-less conclusion `(cl (= t t))` purely
// syntactically (up to alpha), the standalone tautology form distinct from
// ruleRefl's context-substitution-aware use inside a subproof.
func ruleEqReflexive(a alethe.RuleArgs) error {
	if len(a.Conclusion.Literals) != 1 {
		return wrongLen(a.Conclusion, 1)
	}
	l, r, ok := a.Conclusion.Literals[0].AsEquality()
	if !ok {
		return alethe.ErrTermOfWrongForm.New(a.Conclusion.Literals[0], "(= t t)")
	}
	if !alethe.DeepEqual(l, r, alethe.ModeAlpha) {
		return alethe.ErrTermsNotEqual.New(l, r)
	}
	return nil
}

// ruleEqCongruentPred is eq_congruent's dual for predicate (Boolean-sorted)
// applications: `(cl (not (= t1 u1)) ... (not (= tn un)) (not p(t1..tn))
// p(u1..un))`.
func ruleEqCongruentPred(a alethe.RuleArgs) error {
	n := len(a.Conclusion.Literals)
	if n < 2 {
		return wrongLen(a.Conclusion, 2)
	}
	negP, ok := a.Conclusion.Literals[n-2].IsNegation()
	if !ok {
		return alethe.ErrTermOfWrongForm.New(a.Conclusion.Literals[n-2], "(not p(t1..tn))")
	}
	posP := a.Conclusion.Literals[n-1]
	var lArgs, rArgs []*alethe.Term
	if negP.Kind() == alethe.KindOp && posP.Kind() == alethe.KindOp && negP.Op() == posP.Op() {
		lArgs, rArgs = negP.Args(), posP.Args()
	} else if negP.Kind() == alethe.KindApp && posP.Kind() == alethe.KindApp && negP.Head() == posP.Head() {
		lArgs, rArgs = negP.Args(), posP.Args()
	} else {
		return alethe.ErrNotApplicationOrOperation.New(negP)
	}
	if n-2 != len(lArgs) {
		return wrongLen(a.Conclusion, len(lArgs)+2)
	}
	for i := 0; i < n-2; i++ {
		neg, ok := a.Conclusion.Literals[i].IsNegation()
		if !ok {
			return alethe.ErrTermOfWrongForm.New(a.Conclusion.Literals[i], "(not (= ti ui))")
		}
		pl, pr, ok := neg.AsEquality()
		if !ok || pl != lArgs[i] || pr != rArgs[i] {
			return alethe.ErrPremiseDoesntJustifyArgs.New(pl, pr, lArgs[i], rArgs[i])
		}
	}
	return nil
}

// ruleEqCongruent checks the tautology clause
// `(cl (not (= t1 u1)) ... (not (= tn un)) (= f(t1..tn) f(u1..un)))`.
func ruleEqCongruent(a alethe.RuleArgs) error {
	if len(a.Conclusion.Literals) < 1 {
		return wrongLen(a.Conclusion, 1)
	}
	n := len(a.Conclusion.Literals)
	concl := a.Conclusion.Literals[n-1]
	l, r, ok := concl.AsEquality()
	if !ok {
		return alethe.ErrTermOfWrongForm.New(concl, "(= f(...) f(...))")
	}
	var lArgs, rArgs []*alethe.Term
	if l.Kind() == alethe.KindOp && r.Kind() == alethe.KindOp && l.Op() == r.Op() {
		lArgs, rArgs = l.Args(), r.Args()
	} else if l.Kind() == alethe.KindApp && r.Kind() == alethe.KindApp && l.Head() == r.Head() {
		lArgs, rArgs = l.Args(), r.Args()
	} else {
		return alethe.ErrNotApplicationOrOperation.New(l)
	}
	if n-1 != len(lArgs) {
		return wrongLen(a.Conclusion, len(lArgs)+1)
	}
	for i := 0; i < n-1; i++ {
		neg, ok := a.Conclusion.Literals[i].IsNegation()
		if !ok {
			return alethe.ErrTermOfWrongForm.New(a.Conclusion.Literals[i], "(not (= ti ui))")
		}
		pl, pr, ok := neg.AsEquality()
		if !ok || pl != lArgs[i] || pr != rArgs[i] {
			return alethe.ErrPremiseDoesntJustifyArgs.New(pl, pr, lArgs[i], rArgs[i])
		}
	}
	return nil
}
