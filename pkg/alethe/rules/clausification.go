package rules

import "github.com/hlabs/alethecheck/pkg/alethe"

// addClausificationRules wires the rules that turn a single structured
// premise into an equivalent clause (§4.E), ported from the original
// implementation's clausification.rs.
func addClausificationRules(t alethe.RuleTable) {
	t["distinct_elim"] = ruleDistinctElim
	t["and"] = ruleAnd
	t["not_or"] = ruleNotOr
	t["or"] = ruleOr
	t["not_and"] = ruleNotAnd
	t["implies"] = ruleImplies
	t["not_implies1"] = ruleNotImplies1
	t["not_implies2"] = ruleNotImplies2
	t["nary_elim"] = ruleNaryElim
	t["bfun_elim"] = ruleBfunElim
}

func onePremiseClause(a alethe.RuleArgs) (*alethe.Clause, error) {
	if len(a.Premises) != 1 {
		return nil, alethe.ErrWrongNumberOfPremises.New("1", len(a.Premises))
	}
	return a.Premises[0], nil
}

func onePremiseOneLiteral(a alethe.RuleArgs) (*alethe.Term, error) {
	p, err := onePremiseClause(a)
	if err != nil {
		return nil, err
	}
	if len(p.Literals) != 1 {
		return nil, wrongLen(p, 1)
	}
	return p.Literals[0], nil
}

// ruleAnd: premise `(and t1 ... tn)`, conclusion `(cl ti)` for any i; the
// step's args are not consulted.
func ruleAnd(a alethe.RuleArgs) error {
	term, err := onePremiseOneLiteral(a)
	if err != nil {
		return err
	}
	if term.Kind() != alethe.KindOp || term.Op() != alethe.OpAnd {
		return alethe.ErrTermOfWrongForm.New(term, "(and ...)")
	}
	if len(a.Conclusion.Literals) != 1 {
		return wrongLen(a.Conclusion, 1)
	}
	for _, arg := range term.Args() {
		if arg == a.Conclusion.Literals[0] {
			return nil
		}
	}
	return alethe.ErrTermDoesntAppearInOp.New(a.Conclusion.Literals[0], term)
}

// ruleNotOr: premise `(not (or t1 ... tn))`, conclusion `(cl (not ti))`.
func ruleNotOr(a alethe.RuleArgs) error {
	term, err := onePremiseOneLiteral(a)
	if err != nil {
		return err
	}
	inner, ok := term.IsNegation()
	if !ok || inner.Kind() != alethe.KindOp || inner.Op() != alethe.OpOr {
		return alethe.ErrTermOfWrongForm.New(term, "(not (or ...))")
	}
	if len(a.Conclusion.Literals) != 1 {
		return wrongLen(a.Conclusion, 1)
	}
	neg, ok := a.Conclusion.Literals[0].IsNegation()
	if !ok {
		return alethe.ErrTermOfWrongForm.New(a.Conclusion.Literals[0], "(not ti)")
	}
	for _, arg := range inner.Args() {
		if arg == neg {
			return nil
		}
	}
	return alethe.ErrTermDoesntAppearInOp.New(neg, inner)
}

// ruleOr: premise `(or t1 ... tn)`, conclusion `(cl t1 ... tn)`.
func ruleOr(a alethe.RuleArgs) error {
	term, err := onePremiseOneLiteral(a)
	if err != nil {
		return err
	}
	if term.Kind() != alethe.KindOp || term.Op() != alethe.OpOr {
		return alethe.ErrTermOfWrongForm.New(term, "(or ...)")
	}
	return sameTermSet(term.Args(), a.Conclusion.Literals)
}

// ruleNotAnd: premise `(not (and t1 ... tn))`, conclusion
// `(cl (not t1) ... (not tn))`.
func ruleNotAnd(a alethe.RuleArgs) error {
	term, err := onePremiseOneLiteral(a)
	if err != nil {
		return err
	}
	inner, ok := term.IsNegation()
	if !ok || inner.Kind() != alethe.KindOp || inner.Op() != alethe.OpAnd {
		return alethe.ErrTermOfWrongForm.New(term, "(not (and ...))")
	}
	if len(a.Conclusion.Literals) != len(inner.Args()) {
		return wrongLen(a.Conclusion, len(inner.Args()))
	}
	for i, arg := range inner.Args() {
		neg, ok := a.Conclusion.Literals[i].IsNegation()
		if !ok || neg != arg {
			return alethe.ErrTermDoesntAppearInOp.New(a.Conclusion.Literals[i], inner)
		}
	}
	return nil
}

// ruleImplies: premise `(=> a b)`, conclusion `(cl (not a) b)`.
func ruleImplies(a alethe.RuleArgs) error {
	term, err := onePremiseOneLiteral(a)
	if err != nil {
		return err
	}
	if term.Kind() != alethe.KindOp || term.Op() != alethe.OpImplies || len(term.Args()) != 2 {
		return alethe.ErrTermOfWrongForm.New(term, "(=> a b)")
	}
	if len(a.Conclusion.Literals) != 2 {
		return wrongLen(a.Conclusion, 2)
	}
	neg, ok := a.Conclusion.Literals[0].IsNegation()
	if !ok || neg != term.Args()[0] {
		return alethe.ErrTermOfWrongForm.New(a.Conclusion.Literals[0], "(not a)")
	}
	if a.Conclusion.Literals[1] != term.Args()[1] {
		return alethe.ErrTermsNotEqual.New(a.Conclusion.Literals[1], term.Args()[1])
	}
	return nil
}

// ruleNotImplies1: premise `(not (=> a b))`, conclusion `(cl a)`.
func ruleNotImplies1(a alethe.RuleArgs) error {
	return checkNotImplies(a, 0)
}

// ruleNotImplies2: premise `(not (=> a b))`, conclusion `(cl (not b))`.
func ruleNotImplies2(a alethe.RuleArgs) error {
	return checkNotImplies(a, 1)
}

func checkNotImplies(a alethe.RuleArgs, which int) error {
	term, err := onePremiseOneLiteral(a)
	if err != nil {
		return err
	}
	inner, ok := term.IsNegation()
	if !ok || inner.Kind() != alethe.KindOp || inner.Op() != alethe.OpImplies || len(inner.Args()) != 2 {
		return alethe.ErrTermOfWrongForm.New(term, "(not (=> a b))")
	}
	if len(a.Conclusion.Literals) != 1 {
		return wrongLen(a.Conclusion, 1)
	}
	operand := inner.Args()[which]
	if which == 0 {
		if a.Conclusion.Literals[0] != operand {
			return alethe.ErrTermsNotEqual.New(a.Conclusion.Literals[0], operand)
		}
		return nil
	}
	neg, ok := a.Conclusion.Literals[0].IsNegation()
	if !ok || neg != operand {
		return alethe.ErrTermOfWrongForm.New(a.Conclusion.Literals[0], "(not b)")
	}
	return nil
}

// ruleDistinctElim rewrites `(distinct t1 ... tn)` into its pairwise-
// disequality expansion, checking the conclusion is the unit clause
// `(cl (= (distinct t1 ... tn) expansion))`. With two elements the
// expansion is `(not (= t1 t2))` accepting either argument order; with
// n >= 3 it is the conjunction of all `(not (= ti tj))` in lexicographic
// (i, j) order, i < j, compared exactly — a reordered conjunction is
// rejected. More than two Boolean elements can never be pairwise distinct,
// so that expansion is the literal `false`.
func ruleDistinctElim(a alethe.RuleArgs) error {
	if len(a.Conclusion.Literals) != 1 {
		return wrongLen(a.Conclusion, 1)
	}
	lhs, rhs, ok := a.Conclusion.Literals[0].AsEquality()
	if !ok {
		return alethe.ErrTermOfWrongForm.New(a.Conclusion.Literals[0], "(= (distinct ...) expansion)")
	}
	if lhs.Kind() != alethe.KindOp || lhs.Op() != alethe.OpDistinct {
		return alethe.ErrTermOfWrongForm.New(lhs, "(distinct ...)")
	}
	terms := lhs.Args()
	if len(terms) == 2 {
		inner, ok := rhs.IsNegation()
		if !ok {
			return alethe.ErrTermOfWrongForm.New(rhs, "(not (= t1 t2))")
		}
		x, y, ok := inner.AsEquality()
		if !ok {
			return alethe.ErrTermOfWrongForm.New(inner, "(= t1 t2)")
		}
		if (x == terms[0] && y == terms[1]) || (x == terms[1] && y == terms[0]) {
			return nil
		}
		return alethe.ErrTermOfWrongForm.New(inner, "(= t1 t2)")
	}
	if a.Pool.SortOf(terms[0]).Kind == alethe.SortBool {
		if !rhs.IsBoolConst(false) {
			return alethe.ErrTermOfWrongForm.New(rhs, "false")
		}
		return nil
	}
	conjuncts := make([]*alethe.Term, 0, (len(terms)*(len(terms)-1))/2)
	for i := 0; i < len(terms); i++ {
		for j := i + 1; j < len(terms); j++ {
			eq, err := a.Pool.Op(alethe.OpEquals, []*alethe.Term{terms[i], terms[j]})
			if err != nil {
				return err
			}
			neq, err := a.Pool.Op(alethe.OpNot, []*alethe.Term{eq})
			if err != nil {
				return err
			}
			conjuncts = append(conjuncts, neq)
		}
	}
	want, err := a.Pool.Op(alethe.OpAnd, conjuncts)
	if err != nil {
		return err
	}
	if rhs != want {
		return alethe.ErrTermsNotEqual.New(rhs, want)
	}
	return nil
}

// ruleNaryElim checks conclusion `(cl (= original expansion))` where
// expansion rewrites an n-ary (n>2) application of a chainable, left- or
// right-associative operator into its binary form: a chainable operator
// (only `=`) becomes a conjunction of adjacent pairs, a left-associative
// operator (`+`, `-`, `*`) becomes a left-nested binary chain, and a
// right-associative operator (`=>`) becomes a right-nested binary chain.
func ruleNaryElim(a alethe.RuleArgs) error {
	original, result, err := simplifyPair(a)
	if err != nil {
		return err
	}
	if original.Kind() != alethe.KindOp {
		return alethe.ErrNotValidNaryTerm.New(original)
	}
	op := original.Op()
	args := original.Args()
	if len(args) <= 2 {
		return alethe.ErrNotValidNaryTerm.New(original)
	}
	var want *alethe.Term
	switch {
	case op.IsChainable():
		pairs := make([]*alethe.Term, 0, len(args)-1)
		for i := 0; i < len(args)-1; i++ {
			p, err := a.Pool.Op(op, []*alethe.Term{args[i], args[i+1]})
			if err != nil {
				return err
			}
			pairs = append(pairs, p)
		}
		want, err = a.Pool.Op(alethe.OpAnd, pairs)
		if err != nil {
			return err
		}
	case op.IsLeftAssoc():
		want = args[0]
		for i := 1; i < len(args); i++ {
			want, err = a.Pool.Op(op, []*alethe.Term{want, args[i]})
			if err != nil {
				return err
			}
		}
	case op.IsRightAssoc():
		want = args[len(args)-1]
		for i := len(args) - 2; i >= 0; i-- {
			want, err = a.Pool.Op(op, []*alethe.Term{args[i], want})
			if err != nil {
				return err
			}
		}
	default:
		return alethe.ErrNotValidNaryTerm.New(original)
	}
	if !alethe.DeepEqual(result, want, alethe.ModeReorderEq) {
		return alethe.ErrSimplificationFailed.New(original, want, result)
	}
	return nil
}

// ruleBfunElim checks the clausification of the single premise against the
// conclusion: the premise is rewritten first by expanding every quantifier
// over Boolean-sorted bindings into the conjunction (`forall`) or
// disjunction (`exists`) of its 2^k assignments, then by expanding every
// function application with a non-constant Boolean argument into a nested
// `ite` on that argument. The fully expanded term is compared against the
// conclusion modulo reordering of equalities.
func ruleBfunElim(a alethe.RuleArgs) error {
	psi, err := onePremiseOneLiteral(a)
	if err != nil {
		return err
	}
	if len(a.Conclusion.Literals) != 1 {
		return wrongLen(a.Conclusion, 1)
	}
	expanded, err := bfunFirstStep(a.Pool, psi)
	if err != nil {
		return err
	}
	expanded, err = bfunSecondStep(a.Pool, expanded)
	if err != nil {
		return err
	}
	if !alethe.DeepEqual(expanded, a.Conclusion.Literals[0], alethe.ModeReorderEq) {
		return alethe.ErrTermsNotEqual.New(expanded, a.Conclusion.Literals[0])
	}
	return nil
}

func isBoolSortTerm(s *alethe.Term) bool {
	return s != nil && s.Kind() == alethe.KindVar && s.VarName() == "Bool"
}

// bfunFirstStep expands Boolean-quantified bindings: each quantifier whose
// binding list contains k Boolean binders is replaced by the `and` (for
// forall) or `or` (for exists) of the body instantiated at all 2^k
// assignments, enumerated with the earliest binder varying fastest and
// `false` before `true`. Non-Boolean binders stay quantified inside each
// instance.
func bfunFirstStep(pool *alethe.Pool, t *alethe.Term) (*alethe.Term, error) {
	switch t.Kind() {
	case alethe.KindQuantifier:
		body, err := bfunFirstStep(pool, t.Body())
		if err != nil {
			return nil, err
		}
		var boolBinds, rest []alethe.Binding
		for _, b := range t.Bindings() {
			if isBoolSortTerm(b.Sort) {
				boolBinds = append(boolBinds, b)
			} else {
				rest = append(rest, b)
			}
		}
		if len(boolBinds) == 0 {
			if body == t.Body() {
				return t, nil
			}
			return pool.Quantifier(t.QuantifierKind(), t.Bindings(), body), nil
		}
		instances := make([]*alethe.Term, 0, 1<<len(boolBinds))
		for i := 0; i < 1<<len(boolBinds); i++ {
			sub := alethe.NewSubstitution(pool)
			for j, b := range boolBinds {
				v := pool.Var(b.Name, b.Sort)
				if err := sub.Insert(v, pool.Bool(i>>j&1 == 1)); err != nil {
					return nil, err
				}
			}
			inst, err := sub.Apply(body)
			if err != nil {
				return nil, err
			}
			if len(rest) > 0 {
				inst = pool.Quantifier(t.QuantifierKind(), rest, inst)
			}
			instances = append(instances, inst)
		}
		op := alethe.OpAnd
		if t.QuantifierKind() == alethe.Exists {
			op = alethe.OpOr
		}
		return pool.Op(op, instances)
	case alethe.KindOp:
		args, changed, err := bfunMapArgs(pool, t.Args(), bfunFirstStep)
		if err != nil {
			return nil, err
		}
		if !changed {
			return t, nil
		}
		return pool.Op(t.Op(), args)
	case alethe.KindApp:
		args, changed, err := bfunMapArgs(pool, t.Args(), bfunFirstStep)
		if err != nil {
			return nil, err
		}
		if !changed {
			return t, nil
		}
		return pool.App(t.Head(), args)
	default:
		return t, nil
	}
}

// bfunSecondStep expands function applications with a non-constant Boolean
// argument into a nested `ite` on that argument, recursing until every
// Boolean argument position of every application holds a constant.
func bfunSecondStep(pool *alethe.Pool, t *alethe.Term) (*alethe.Term, error) {
	switch t.Kind() {
	case alethe.KindApp:
		for _, arg := range t.Args() {
			if pool.SortOf(arg).Kind != alethe.SortBool || arg.IsBoolConst(true) || arg.IsBoolConst(false) {
				continue
			}
			thenArgs := make([]*alethe.Term, len(t.Args()))
			elseArgs := make([]*alethe.Term, len(t.Args()))
			for i, x := range t.Args() {
				if x == arg {
					thenArgs[i] = pool.Bool(true)
					elseArgs[i] = pool.Bool(false)
				} else {
					thenArgs[i] = x
					elseArgs[i] = x
				}
			}
			thenApp, err := pool.App(t.Head(), thenArgs)
			if err != nil {
				return nil, err
			}
			elseApp, err := pool.App(t.Head(), elseArgs)
			if err != nil {
				return nil, err
			}
			thenExp, err := bfunSecondStep(pool, thenApp)
			if err != nil {
				return nil, err
			}
			elseExp, err := bfunSecondStep(pool, elseApp)
			if err != nil {
				return nil, err
			}
			return pool.Op(alethe.OpIte, []*alethe.Term{arg, thenExp, elseExp})
		}
		args, changed, err := bfunMapArgs(pool, t.Args(), bfunSecondStep)
		if err != nil {
			return nil, err
		}
		if !changed {
			return t, nil
		}
		return pool.App(t.Head(), args)
	case alethe.KindOp:
		args, changed, err := bfunMapArgs(pool, t.Args(), bfunSecondStep)
		if err != nil {
			return nil, err
		}
		if !changed {
			return t, nil
		}
		return pool.Op(t.Op(), args)
	case alethe.KindQuantifier:
		body, err := bfunSecondStep(pool, t.Body())
		if err != nil {
			return nil, err
		}
		if body == t.Body() {
			return t, nil
		}
		return pool.Quantifier(t.QuantifierKind(), t.Bindings(), body), nil
	default:
		return t, nil
	}
}

func bfunMapArgs(pool *alethe.Pool, args []*alethe.Term, f func(*alethe.Pool, *alethe.Term) (*alethe.Term, error)) ([]*alethe.Term, bool, error) {
	out := make([]*alethe.Term, len(args))
	changed := false
	for i, a := range args {
		na, err := f(pool, a)
		if err != nil {
			return nil, false, err
		}
		if na != a {
			changed = true
		}
		out[i] = na
	}
	return out, changed, nil
}

// sameTermSet reports whether a and b contain the same terms, ignoring
// order; the two lists must have the same length, so a repeated term is
// not absorbed (the clause/"or"-argument relationship ruleOr checks).
func sameTermSet(a, b []*alethe.Term) error {
	if len(a) != len(b) {
		return alethe.ErrWrongLengthOfClause.New(len(a), len(b))
	}
	seen := make(map[*alethe.Term]bool, len(b))
	for _, x := range b {
		seen[x] = true
	}
	for _, x := range a {
		if !seen[x] {
			return alethe.ErrTermDoesntAppearInOp.New(x, nil)
		}
	}
	return nil
}
