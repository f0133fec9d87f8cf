package rules

import "github.com/hlabs/alethecheck/pkg/alethe"

func addQuantifierRules(t alethe.RuleTable) {
	t["forall_inst"] = ruleForallInst
	t["bind"] = ruleBind
	t["onepoint"] = ruleOnePoint
	t["qnt_join"] = ruleQntJoin
	t["qnt_rm_unused"] = ruleQntRmUnused
	t["qnt_cnf"] = ruleQntCnf
}

// ruleForallInst checks `(cl (not (forall ((x1 S1) ... (xn Sn)) phi))
// phi[x1 := t1, ..., xn := tn])`, where the xi := ti pairs come from the
// step's argument list (§4.E; this is the rule spec.md's `forall-inst`
// e2e scenario exercises).
func ruleForallInst(a alethe.RuleArgs) error {
	if len(a.Conclusion.Literals) != 2 {
		return wrongLen(a.Conclusion, 2)
	}
	inner, ok := a.Conclusion.Literals[0].IsNegation()
	if !ok || inner.Kind() != alethe.KindQuantifier || inner.QuantifierKind() != alethe.Forall {
		return alethe.ErrExpectedQuantifierTerm.New(a.Conclusion.Literals[0])
	}
	bindings := inner.Bindings()

	// Arguments come in two shapes (§4.E): assign-style `(var, term)`
	// pairs, order-insensitive but each naming a binding, or term-style
	// bare terms matched positionally, one per binding.
	assignStyle := len(bindings) > 0 && len(a.Args) == 2*len(bindings)
	if assignStyle {
		for i := 0; i < len(a.Args); i += 2 {
			if !a.Args[i].IsVar() {
				assignStyle = false
				break
			}
		}
	}

	sub := alethe.NewSubstitution(a.Pool)
	if assignStyle {
		for i := 0; i+1 < len(a.Args); i += 2 {
			if !bindingNamed(bindings, a.Args[i].VarName()) {
				return alethe.ErrNoBindingMatchesArg.New(a.Args[i])
			}
			if err := sub.Insert(a.Args[i], a.Args[i+1]); err != nil {
				return err
			}
		}
		for _, b := range bindings {
			found := false
			for i := 0; i+1 < len(a.Args); i += 2 {
				if a.Args[i].VarName() == b.Name {
					found = true
					break
				}
			}
			if !found {
				return alethe.ErrNoArgGivenForBinding.New(b.Name)
			}
		}
	} else {
		if len(a.Args) < len(bindings) {
			return alethe.ErrNoArgGivenForBinding.New(bindings[len(a.Args)].Name)
		}
		if len(a.Args) > len(bindings) {
			return alethe.ErrWrongNumberOfArgs.New(len(bindings), len(a.Args))
		}
		for i, b := range bindings {
			v := a.Pool.Var(b.Name, b.Sort)
			if err := sub.Insert(v, a.Args[i]); err != nil {
				return err
			}
		}
	}
	instantiated, err := sub.Apply(inner.Body())
	if err != nil {
		return err
	}
	if !alethe.DeepEqual(instantiated, a.Conclusion.Literals[1], alethe.ModeAlpha) {
		return alethe.ErrTermsNotEqual.New(instantiated, a.Conclusion.Literals[1])
	}
	return nil
}

func bindingNamed(bindings []alethe.Binding, name string) bool {
	for _, b := range bindings {
		if b.Name == name {
			return true
		}
	}
	return false
}

// ruleBind discharges a subproof proving phi, closing it into
// `(cl (= (forall ((x1 S1)...) phi) (forall ((y1 S1)...) psi)))` where each
// yi is a context-introduced renaming of the corresponding xi (§4.D/4.E).
// When a context frame is open, each renamed binder must be in that
// frame's Bound set, i.e. introduced by an enclosing anchor.
func ruleBind(a alethe.RuleArgs) error {
	if len(a.Conclusion.Literals) != 1 {
		return wrongLen(a.Conclusion, 1)
	}
	l, r, ok := a.Conclusion.Literals[0].AsEquality()
	if !ok || l.Kind() != alethe.KindQuantifier || r.Kind() != alethe.KindQuantifier {
		return alethe.ErrExpectedQuantifierTerm.New(a.Conclusion.Literals[0])
	}
	if l.QuantifierKind() != r.QuantifierKind() {
		return alethe.ErrExpectedQuantifierTerm.New(r)
	}
	if len(l.Bindings()) != len(r.Bindings()) {
		return alethe.ErrBindDifferentNumberOfBindings.New(len(l.Bindings()), len(r.Bindings()))
	}
	frame := a.Context.Top()
	for i, rb := range r.Bindings() {
		if rb.Name == l.Bindings()[i].Name {
			continue
		}
		rv := a.Pool.Var(rb.Name, rb.Sort)
		if a.Pool.FreeVars(l).Contains(rv) {
			return alethe.ErrBindBindingIsFreeVarInPhi.New(rb.Name)
		}
		if frame != nil && !frame.Bound.Contains(rv) {
			return alethe.ErrBindingIsNotInContext.New(rb.Name)
		}
	}
	if len(a.Premises) != 1 {
		return alethe.ErrWrongNumberOfPremises.New("1", len(a.Premises))
	}
	discharge := a.Premises[0]
	if len(discharge.Literals) != 1 {
		return wrongLen(discharge, 1)
	}
	pl, pr, ok := discharge.Literals[0].AsEquality()
	if !ok || pl != l.Body() || pr != r.Body() {
		return alethe.ErrTermOfWrongForm.New(discharge.Literals[0], "(= phi psi)")
	}
	return nil
}

// ruleQntJoin accepts merging of nested same-kind quantifiers
// `(forall B1 (forall B2 phi))` into `(forall B phi)` when the union of the
// left-hand bindings (in the order they're encountered, outer then inner)
// equals the right-hand binding list up to permutation.
func ruleQntJoin(a alethe.RuleArgs) error {
	if len(a.Conclusion.Literals) != 1 {
		return wrongLen(a.Conclusion, 1)
	}
	l, r, ok := a.Conclusion.Literals[0].AsEquality()
	if !ok || l.Kind() != alethe.KindQuantifier || r.Kind() != alethe.KindQuantifier {
		return alethe.ErrExpectedQuantifierTerm.New(a.Conclusion.Literals[0])
	}
	if l.QuantifierKind() != r.QuantifierKind() {
		return alethe.ErrExpectedQuantifierTerm.New(r)
	}
	outer := l.Body()
	if outer.Kind() != alethe.KindQuantifier || outer.QuantifierKind() != l.QuantifierKind() {
		return alethe.ErrExpectedQuantifierTerm.New(outer)
	}
	union := append(append([]alethe.Binding{}, l.Bindings()...), outer.Bindings()...)
	if len(union) != len(r.Bindings()) {
		return alethe.ErrJoinFailed.New()
	}
	seen := make(map[string]bool, len(union))
	for _, b := range union {
		seen[b.Name] = true
	}
	for _, b := range r.Bindings() {
		if !seen[b.Name] {
			return alethe.ErrJoinFailed.New()
		}
	}
	if !alethe.DeepEqual(outer.Body(), r.Body(), alethe.ModeAlpha) {
		return alethe.ErrTermsNotEqual.New(outer.Body(), r.Body())
	}
	return nil
}

// ruleQntRmUnused removes binders that do not appear free in the body:
// conclusion `(= (forall B phi) (forall B' phi))` where B' is B with every
// binding not free in phi dropped.
func ruleQntRmUnused(a alethe.RuleArgs) error {
	if len(a.Conclusion.Literals) != 1 {
		return wrongLen(a.Conclusion, 1)
	}
	l, r, ok := a.Conclusion.Literals[0].AsEquality()
	if !ok || l.Kind() != alethe.KindQuantifier {
		return alethe.ErrExpectedQuantifierTerm.New(a.Conclusion.Literals[0])
	}
	if r.Kind() != alethe.KindQuantifier {
		if !alethe.DeepEqual(l.Body(), r, alethe.ModeAlpha) {
			return alethe.ErrTermsNotEqual.New(l.Body(), r)
		}
		return nil
	}
	if l.QuantifierKind() != r.QuantifierKind() {
		return alethe.ErrExpectedQuantifierTerm.New(r)
	}
	fv := a.Pool.FreeVars(l.Body())
	for _, b := range r.Bindings() {
		found := false
		for _, lb := range l.Bindings() {
			if lb.Name == b.Name {
				found = true
				break
			}
		}
		if !found {
			return alethe.ErrBindingIsNotInContext.New(b.Name)
		}
	}
	for _, lb := range l.Bindings() {
		freeInBody := false
		for _, v := range fv.Slice() {
			if v.VarName() == lb.Name {
				freeInBody = true
				break
			}
		}
		keptInR := false
		for _, rb := range r.Bindings() {
			if rb.Name == lb.Name {
				keptInR = true
				break
			}
		}
		if freeInBody && !keptInR {
			return alethe.ErrCnfBindingIsMissing.New(lb.Name)
		}
	}
	if !alethe.DeepEqual(l.Body(), r.Body(), alethe.ModeAlpha) {
		return alethe.ErrTermsNotEqual.New(l.Body(), r.Body())
	}
	return nil
}

// ruleQntCnf accepts a clause that appears in some CNF expansion of the
// quantified body (§4.E): conclusion `(cl (not (forall B phi))
// (forall B' C))`, where C's literal set is one of the clauses obtained by
// converting phi to negation normal form (nested quantifiers flattened
// away, which is where B' may introduce inner binders) and distributing
// `or` over `and`. B' may name only binders from phi's scope
// (CnfNewBindingIntroduced) and must retain every outer binder still free
// in C (CnfBindingIsMissing).
func ruleQntCnf(a alethe.RuleArgs) error {
	if len(a.Conclusion.Literals) != 2 {
		return wrongLen(a.Conclusion, 2)
	}
	neg, ok := a.Conclusion.Literals[0].IsNegation()
	if !ok || neg.Kind() != alethe.KindQuantifier || neg.QuantifierKind() != alethe.Forall {
		return alethe.ErrExpectedQuantifierTerm.New(a.Conclusion.Literals[0])
	}
	clauseTerm := a.Conclusion.Literals[1]
	var newBinds []alethe.Binding
	if clauseTerm.Kind() == alethe.KindQuantifier {
		if clauseTerm.QuantifierKind() != alethe.Forall {
			return alethe.ErrExpectedQuantifierTerm.New(clauseTerm)
		}
		newBinds = clauseTerm.Bindings()
		clauseTerm = clauseTerm.Body()
	}

	scope := quantifierScope(neg)
	for _, nb := range newBinds {
		if !bindingNamed(scope, nb.Name) {
			return alethe.ErrCnfNewBindingIntroduced.New(nb.Name)
		}
	}
	for _, b := range neg.Bindings() {
		bv := a.Pool.Var(b.Name, b.Sort)
		if a.Pool.FreeVars(clauseTerm).Contains(bv) && !bindingNamed(newBinds, b.Name) {
			return alethe.ErrCnfBindingIsMissing.New(b.Name)
		}
	}

	normal, err := nnf(a.Pool, neg.Body(), false)
	if err != nil {
		return err
	}
	clauses, ok := cnfClauses(normal, cnfClauseLimit)
	if !ok {
		return alethe.ErrClauseDoesntAppearInCnf.New(clauseTerm)
	}
	want := disjuncts(clauseTerm)
	for _, c := range clauses {
		if sameLiteralSet(c, want) {
			return nil
		}
	}
	return alethe.ErrClauseDoesntAppearInCnf.New(clauseTerm)
}

// cnfClauseLimit bounds the or-over-and distribution; a body whose CNF
// exceeds it is rejected rather than searched further.
const cnfClauseLimit = 4096

// quantifierScope collects every binder visible inside q: its own binding
// list plus those of quantifiers nested in its body, which miniscoping and
// Skolemization may surface into the conclusion's binder list.
func quantifierScope(q *alethe.Term) []alethe.Binding {
	var out []alethe.Binding
	var walk func(t *alethe.Term)
	walk = func(t *alethe.Term) {
		switch t.Kind() {
		case alethe.KindQuantifier:
			out = append(out, t.Bindings()...)
			walk(t.Body())
		case alethe.KindOp:
			for _, arg := range t.Args() {
				walk(arg)
			}
		}
	}
	walk(q)
	return out
}

// nnf pushes negations down to the literals, flattening quantifiers into
// their bodies along the way (their binders are accounted for separately
// by the caller's scope checks).
func nnf(pool *alethe.Pool, t *alethe.Term, negated bool) (*alethe.Term, error) {
	if inner, ok := t.IsNegation(); ok {
		return nnf(pool, inner, !negated)
	}
	switch t.Kind() {
	case alethe.KindQuantifier:
		return nnf(pool, t.Body(), negated)
	case alethe.KindOp:
		mapArgs := func(op alethe.Operator, args []*alethe.Term, neg bool) (*alethe.Term, error) {
			out := make([]*alethe.Term, len(args))
			for i, arg := range args {
				n, err := nnf(pool, arg, neg)
				if err != nil {
					return nil, err
				}
				out[i] = n
			}
			return pool.Op(op, out)
		}
		switch t.Op() {
		case alethe.OpAnd:
			if negated {
				return mapArgs(alethe.OpOr, t.Args(), true)
			}
			return mapArgs(alethe.OpAnd, t.Args(), false)
		case alethe.OpOr:
			if negated {
				return mapArgs(alethe.OpAnd, t.Args(), true)
			}
			return mapArgs(alethe.OpOr, t.Args(), false)
		case alethe.OpImplies:
			if len(t.Args()) == 2 {
				ante, cons := t.Args()[0], t.Args()[1]
				if negated {
					// not (=> a b) is (and a (not b))
					na, err := nnf(pool, ante, false)
					if err != nil {
						return nil, err
					}
					nb, err := nnf(pool, cons, true)
					if err != nil {
						return nil, err
					}
					return pool.Op(alethe.OpAnd, []*alethe.Term{na, nb})
				}
				na, err := nnf(pool, ante, true)
				if err != nil {
					return nil, err
				}
				nb, err := nnf(pool, cons, false)
				if err != nil {
					return nil, err
				}
				return pool.Op(alethe.OpOr, []*alethe.Term{na, nb})
			}
		}
	}
	if negated {
		return pool.Op(alethe.OpNot, []*alethe.Term{t})
	}
	return t, nil
}

// cnfClauses distributes or over and on an NNF term, returning the clause
// list or false once limit clauses would be exceeded.
func cnfClauses(t *alethe.Term, limit int) ([][]*alethe.Term, bool) {
	if t.Kind() == alethe.KindOp {
		switch t.Op() {
		case alethe.OpAnd:
			var out [][]*alethe.Term
			for _, arg := range t.Args() {
				cs, ok := cnfClauses(arg, limit)
				if !ok {
					return nil, false
				}
				out = append(out, cs...)
				if len(out) > limit {
					return nil, false
				}
			}
			return out, true
		case alethe.OpOr:
			out := [][]*alethe.Term{nil}
			for _, arg := range t.Args() {
				cs, ok := cnfClauses(arg, limit)
				if !ok {
					return nil, false
				}
				if len(out)*len(cs) > limit {
					return nil, false
				}
				next := make([][]*alethe.Term, 0, len(out)*len(cs))
				for _, left := range out {
					for _, right := range cs {
						merged := make([]*alethe.Term, 0, len(left)+len(right))
						merged = append(merged, left...)
						merged = append(merged, right...)
						next = append(next, merged)
					}
				}
				out = next
			}
			return out, true
		}
	}
	return [][]*alethe.Term{{t}}, true
}

func disjuncts(t *alethe.Term) []*alethe.Term {
	if t.Kind() == alethe.KindOp && t.Op() == alethe.OpOr {
		return t.Args()
	}
	return []*alethe.Term{t}
}

// sameLiteralSet compares two literal slices as sets of interned pointers.
func sameLiteralSet(a, b []*alethe.Term) bool {
	in := func(set []*alethe.Term, x *alethe.Term) bool {
		for _, s := range set {
			if s == x {
				return true
			}
		}
		return false
	}
	for _, x := range a {
		if !in(b, x) {
			return false
		}
	}
	for _, x := range b {
		if !in(a, x) {
			return false
		}
	}
	return true
}

// ruleOnePoint checks the one-point rewrite (§4.E): the conclusion equates
// `(forall B phi)` (or `exists`) with the quantifier after eliminating
// every binder fixed by a point equality `(= x t)` in phi — a conjunct of
// an `exists` body, or an implication antecedent / negated disjunct of a
// `forall` body. Each eliminated binder's point value is substituted for
// it, the consumed point literals are dropped, and the result must match
// the right-hand side up to alpha.
func ruleOnePoint(a alethe.RuleArgs) error {
	if len(a.Conclusion.Literals) != 1 {
		return wrongLen(a.Conclusion, 1)
	}
	l, r, ok := a.Conclusion.Literals[0].AsEquality()
	if !ok || l.Kind() != alethe.KindQuantifier {
		return alethe.ErrExpectedQuantifierTerm.New(a.Conclusion.Literals[0])
	}
	kind := l.QuantifierKind()
	var kept []alethe.Binding
	if r.Kind() == alethe.KindQuantifier {
		if r.QuantifierKind() != kind {
			return alethe.ErrExpectedQuantifierTerm.New(r)
		}
		kept = r.Bindings()
	}
	if len(a.Premises) > 1 {
		return alethe.ErrWrongNumberOfPremises.New("0 or 1", len(a.Premises))
	}
	for _, kb := range kept {
		if !bindingNamed(l.Bindings(), kb.Name) {
			return alethe.ErrOnePointWrongBindings.New(bindingNames(l.Bindings()))
		}
	}
	var eliminated []alethe.Binding
	for _, lb := range l.Bindings() {
		if !bindingNamed(kept, lb.Name) {
			eliminated = append(eliminated, lb)
		}
	}
	if len(eliminated) == 0 {
		return alethe.ErrOnePointWrongBindings.New(bindingNames(l.Bindings()))
	}

	sub := alethe.NewSubstitution(a.Pool)
	consumed := make(map[*alethe.Term]bool, len(eliminated))
	for _, b := range eliminated {
		x := a.Pool.Var(b.Name, b.Sort)
		value, lit, ok := findPoint(kind, l.Body(), x)
		if !ok {
			return alethe.ErrNoPointForSubstitution.New(b.Name, l.Body())
		}
		if err := sub.Insert(x, value); err != nil {
			return err
		}
		consumed[lit] = true
	}
	reduced, err := dropPoints(a.Pool, kind, l.Body(), consumed)
	if err != nil {
		return err
	}
	expected, err := sub.Apply(reduced)
	if err != nil {
		return err
	}
	if len(kept) > 0 {
		expected = a.Pool.Quantifier(kind, kept, expected)
	}
	if !alethe.DeepEqual(expected, r, alethe.ModeAlpha) {
		return alethe.ErrTermsNotEqual.New(expected, r)
	}
	return nil
}

func bindingNames(bindings []alethe.Binding) string {
	out := ""
	for i, b := range bindings {
		if i > 0 {
			out += " "
		}
		out += b.Name
	}
	return out
}

// findPoint locates the point equality fixing x in body: for an exists,
// a conjunct `(= x t)` (either argument order); for a forall, the same
// shape inside an implication antecedent or under a negated disjunct. It
// returns the point's value and the literal that carried it.
func findPoint(kind alethe.QuantifierKind, body *alethe.Term, x *alethe.Term) (*alethe.Term, *alethe.Term, bool) {
	asPoint := func(eq *alethe.Term) (*alethe.Term, bool) {
		pl, pr, ok := eq.AsEquality()
		if !ok {
			return nil, false
		}
		if pl == x {
			return pr, true
		}
		if pr == x {
			return pl, true
		}
		return nil, false
	}
	if kind == alethe.Exists {
		for _, c := range conjuncts(body) {
			if v, ok := asPoint(c); ok {
				return v, c, true
			}
		}
		return nil, nil, false
	}
	if body.Kind() == alethe.KindOp && body.Op() == alethe.OpImplies && len(body.Args()) == 2 {
		for _, c := range conjuncts(body.Args()[0]) {
			if v, ok := asPoint(c); ok {
				return v, c, true
			}
		}
		return nil, nil, false
	}
	for _, d := range disjuncts(body) {
		if neg, ok := d.IsNegation(); ok {
			if v, ok := asPoint(neg); ok {
				return v, d, true
			}
		}
	}
	return nil, nil, false
}

func conjuncts(t *alethe.Term) []*alethe.Term {
	if t.Kind() == alethe.KindOp && t.Op() == alethe.OpAnd {
		return t.Args()
	}
	return []*alethe.Term{t}
}

// dropPoints removes the consumed point literals from body, preserving its
// conjunction/implication/disjunction structure and unwrapping whatever
// single operand remains.
func dropPoints(pool *alethe.Pool, kind alethe.QuantifierKind, body *alethe.Term, consumed map[*alethe.Term]bool) (*alethe.Term, error) {
	filter := func(terms []*alethe.Term) []*alethe.Term {
		var out []*alethe.Term
		for _, t := range terms {
			if !consumed[t] {
				out = append(out, t)
			}
		}
		return out
	}
	rebuild := func(op alethe.Operator, rest []*alethe.Term, empty bool) (*alethe.Term, error) {
		switch len(rest) {
		case 0:
			return pool.Bool(empty), nil
		case 1:
			return rest[0], nil
		default:
			return pool.Op(op, rest)
		}
	}
	if kind == alethe.Exists {
		rest := filter(conjuncts(body))
		return rebuild(alethe.OpAnd, rest, true)
	}
	if body.Kind() == alethe.KindOp && body.Op() == alethe.OpImplies && len(body.Args()) == 2 {
		rest := filter(conjuncts(body.Args()[0]))
		if len(rest) == 0 {
			return body.Args()[1], nil
		}
		ante, err := rebuild(alethe.OpAnd, rest, true)
		if err != nil {
			return nil, err
		}
		return pool.Op(alethe.OpImplies, []*alethe.Term{ante, body.Args()[1]})
	}
	rest := filter(disjuncts(body))
	return rebuild(alethe.OpOr, rest, false)
}
