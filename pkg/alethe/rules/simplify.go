package rules

import (
	"math/big"

	"github.com/hlabs/alethecheck/pkg/alethe"
)

func addSimplifyRules(t alethe.RuleTable) {
	t["and_simplify"] = ruleAndSimplify
	t["or_simplify"] = ruleOrSimplify
	t["not_simplify"] = ruleNotSimplify
	t["eq_simplify"] = ruleEqSimplify
	t["ite_simplify"] = ruleIteSimplify
	t["implies_simplify"] = ruleImpliesSimplify
	t["equiv_simplify"] = ruleEquivSimplify
	t["bool_simplify"] = ruleBoolSimplify
	t["qnt_simplify"] = ruleQntSimplify
	t["div_simplify"] = ruleDivSimplify
	t["prod_simplify"] = ruleProdSimplify
	t["minus_simplify"] = ruleMinusSimplify
	t["sum_simplify"] = ruleSumSimplify
	t["comp_simplify"] = ruleCompSimplify
	t["ac_simp"] = ruleAcSimp
}

// simplifyPair extracts (original, result) from a single-literal
// conclusion `(cl (= original result))`, the shape every *_simplify rule
// shares (§4.E).
func simplifyPair(a alethe.RuleArgs) (*alethe.Term, *alethe.Term, error) {
	if len(a.Conclusion.Literals) != 1 {
		return nil, nil, wrongLen(a.Conclusion, 1)
	}
	l, r, ok := a.Conclusion.Literals[0].AsEquality()
	if !ok {
		return nil, nil, alethe.ErrTermOfWrongForm.New(a.Conclusion.Literals[0], "(= original result)")
	}
	return l, r, nil
}

// rewriteStep applies one rule-specific rewrite at the root of t, returning
// t itself when nothing fires. The driver below handles recursion into
// subterms and the fixed-point loop.
type rewriteStep func(pool *alethe.Pool, t *alethe.Term) (*alethe.Term, error)

// simplifyToFixedPoint rewrites t bottom-up with step until nothing
// changes, failing with CycleInSimplification if a pass ever produces a
// term already seen on this rewrite path (§4.E's shared cycle guard; the
// seen set is keyed on interned pointers, which double as fingerprints).
func simplifyToFixedPoint(pool *alethe.Pool, t *alethe.Term, step rewriteStep) (*alethe.Term, error) {
	seen := map[*alethe.Term]bool{}
	cur := t
	for {
		if seen[cur] {
			return nil, alethe.ErrCycleInSimplification.New(cur)
		}
		seen[cur] = true
		next, err := rewritePass(pool, cur, step)
		if err != nil {
			return nil, err
		}
		if next == cur {
			return cur, nil
		}
		cur = next
	}
}

// rewritePass runs one bottom-up pass: children first, then the root.
func rewritePass(pool *alethe.Pool, t *alethe.Term, step rewriteStep) (*alethe.Term, error) {
	rebuilt := t
	switch t.Kind() {
	case alethe.KindOp:
		args, changed, err := bfunMapArgs(pool, t.Args(), func(p *alethe.Pool, a *alethe.Term) (*alethe.Term, error) {
			return rewritePass(p, a, step)
		})
		if err != nil {
			return nil, err
		}
		if changed {
			rebuilt, err = pool.Op(t.Op(), args)
			if err != nil {
				return nil, err
			}
		}
	case alethe.KindApp:
		args, changed, err := bfunMapArgs(pool, t.Args(), func(p *alethe.Pool, a *alethe.Term) (*alethe.Term, error) {
			return rewritePass(p, a, step)
		})
		if err != nil {
			return nil, err
		}
		if changed {
			rebuilt, err = pool.App(t.Head(), args)
			if err != nil {
				return nil, err
			}
		}
	case alethe.KindQuantifier:
		body, err := rewritePass(pool, t.Body(), step)
		if err != nil {
			return nil, err
		}
		if body != t.Body() {
			rebuilt = pool.Quantifier(t.QuantifierKind(), t.Bindings(), body)
		}
	}
	return step(pool, rebuilt)
}

// checkSimplify runs the rule's rewrite set to a fixed point on the
// conclusion's left-hand side and compares the normal form against the
// right-hand side, modulo reordering of equalities.
func checkSimplify(a alethe.RuleArgs, step rewriteStep) error {
	original, result, err := simplifyPair(a)
	if err != nil {
		return err
	}
	normal, err := simplifyToFixedPoint(a.Pool, original, step)
	if err != nil {
		return err
	}
	if !alethe.DeepEqual(normal, result, alethe.ModeReorderEq) {
		return alethe.ErrSimplificationFailed.New(original, normal, result)
	}
	return nil
}

// ruleAndSimplify rewrites `and` terms: `true` operands drop, duplicates
// collapse, any `false` operand or complementary pair short-circuits to
// `false`, and a singleton unwraps.
func ruleAndSimplify(a alethe.RuleArgs) error {
	original, _, err := simplifyPair(a)
	if err != nil {
		return err
	}
	if original.Kind() != alethe.KindOp || original.Op() != alethe.OpAnd {
		return alethe.ErrTermOfWrongForm.New(original, "(and ...)")
	}
	return checkSimplify(a, stepAnd)
}

func stepAnd(pool *alethe.Pool, t *alethe.Term) (*alethe.Term, error) {
	if t.Kind() != alethe.KindOp || t.Op() != alethe.OpAnd {
		return t, nil
	}
	return foldIdempotentChain(pool, t, alethe.OpAnd, true)
}

// ruleOrSimplify is and_simplify's dual for `or`.
func ruleOrSimplify(a alethe.RuleArgs) error {
	original, _, err := simplifyPair(a)
	if err != nil {
		return err
	}
	if original.Kind() != alethe.KindOp || original.Op() != alethe.OpOr {
		return alethe.ErrTermOfWrongForm.New(original, "(or ...)")
	}
	return checkSimplify(a, stepOr)
}

func stepOr(pool *alethe.Pool, t *alethe.Term) (*alethe.Term, error) {
	if t.Kind() != alethe.KindOp || t.Op() != alethe.OpOr {
		return t, nil
	}
	return foldIdempotentChain(pool, t, alethe.OpOr, false)
}

// foldIdempotentChain normalizes an and/or chain. identity is the neutral
// operand (`true` for and, `false` for or); its complement absorbs the
// whole chain, as does a complementary literal pair.
func foldIdempotentChain(pool *alethe.Pool, t *alethe.Term, op alethe.Operator, identity bool) (*alethe.Term, error) {
	var kept []*alethe.Term
	seen := map[*alethe.Term]bool{}
	for _, arg := range t.Args() {
		if arg.IsBoolConst(identity) {
			continue
		}
		if arg.IsBoolConst(!identity) {
			return pool.Bool(!identity), nil
		}
		if seen[arg] {
			continue
		}
		seen[arg] = true
		kept = append(kept, arg)
	}
	for _, arg := range kept {
		if neg, ok := arg.IsNegation(); ok && seen[neg] {
			return pool.Bool(!identity), nil
		}
	}
	switch len(kept) {
	case 0:
		return pool.Bool(identity), nil
	case 1:
		return kept[0], nil
	}
	if len(kept) == len(t.Args()) {
		return t, nil
	}
	return pool.Op(op, kept)
}

// ruleNotSimplify rewrites `not` terms: double negation unwraps and
// constant operands fold.
func ruleNotSimplify(a alethe.RuleArgs) error {
	original, _, err := simplifyPair(a)
	if err != nil {
		return err
	}
	if _, ok := original.IsNegation(); !ok {
		return alethe.ErrTermOfWrongForm.New(original, "(not p)")
	}
	return checkSimplify(a, stepNot)
}

func stepNot(pool *alethe.Pool, t *alethe.Term) (*alethe.Term, error) {
	inner, ok := t.IsNegation()
	if !ok {
		return t, nil
	}
	if nested, ok := inner.IsNegation(); ok {
		return nested, nil
	}
	if inner.IsBoolConst(true) {
		return pool.Bool(false), nil
	}
	if inner.IsBoolConst(false) {
		return pool.Bool(true), nil
	}
	return t, nil
}

// ruleEqSimplify rewrites equality terms: `(= t t)` folds to `true`,
// Boolean-constant operands fold to the other operand or its negation, and
// two unequal numeric constants fold to `false`.
func ruleEqSimplify(a alethe.RuleArgs) error {
	original, _, err := simplifyPair(a)
	if err != nil {
		return err
	}
	if _, _, ok := original.AsEquality(); !ok {
		return alethe.ErrTermOfWrongForm.New(original, "(= a b)")
	}
	return checkSimplify(a, stepEq)
}

func stepEq(pool *alethe.Pool, t *alethe.Term) (*alethe.Term, error) {
	l, r, ok := t.AsEquality()
	if !ok {
		return t, nil
	}
	if l == r {
		return pool.Bool(true), nil
	}
	for _, pair := range [][2]*alethe.Term{{l, r}, {r, l}} {
		if pair[0].IsBoolConst(true) {
			return pair[1], nil
		}
		if pair[0].IsBoolConst(false) {
			return pool.Op(alethe.OpNot, []*alethe.Term{pair[1]})
		}
	}
	if lc, ok := ratConstOf(l); ok {
		if rc, ok2 := ratConstOf(r); ok2 && lc.Cmp(rc) != 0 {
			return pool.Bool(false), nil
		}
	}
	return t, nil
}

// ruleImpliesSimplify rewrites `(=> a b)`: a `false` antecedent, `true`
// consequent or `a => a` folds to `true`; `true => b` folds to `b`;
// `a => false` folds to `(not a)`.
func ruleImpliesSimplify(a alethe.RuleArgs) error {
	original, _, err := simplifyPair(a)
	if err != nil {
		return err
	}
	if original.Kind() != alethe.KindOp || original.Op() != alethe.OpImplies || len(original.Args()) != 2 {
		return alethe.ErrTermOfWrongForm.New(original, "(=> a b)")
	}
	return checkSimplify(a, stepImplies)
}

func stepImplies(pool *alethe.Pool, t *alethe.Term) (*alethe.Term, error) {
	if t.Kind() != alethe.KindOp || t.Op() != alethe.OpImplies || len(t.Args()) != 2 {
		return t, nil
	}
	ante, cons := t.Args()[0], t.Args()[1]
	switch {
	case ante.IsBoolConst(false), cons.IsBoolConst(true), ante == cons:
		return pool.Bool(true), nil
	case ante.IsBoolConst(true):
		return cons, nil
	case cons.IsBoolConst(false):
		return pool.Op(alethe.OpNot, []*alethe.Term{ante})
	}
	return t, nil
}

// ruleEquivSimplify rewrites Boolean equalities beyond plain eq_simplify:
// `(= (not p) (not q))` folds to `(= p q)` and a negated side matching the
// other operand folds to `false`.
func ruleEquivSimplify(a alethe.RuleArgs) error {
	original, _, err := simplifyPair(a)
	if err != nil {
		return err
	}
	if _, _, ok := original.AsEquality(); !ok {
		return alethe.ErrTermOfWrongForm.New(original, "(= p q)")
	}
	return checkSimplify(a, stepEquiv)
}

func stepEquiv(pool *alethe.Pool, t *alethe.Term) (*alethe.Term, error) {
	l, r, ok := t.AsEquality()
	if !ok {
		return t, nil
	}
	if l == r {
		return pool.Bool(true), nil
	}
	negL, okL := l.IsNegation()
	negR, okR := r.IsNegation()
	switch {
	case okL && okR:
		return pool.Op(alethe.OpEquals, []*alethe.Term{negL, negR})
	case okL && negL == r, okR && negR == l:
		return pool.Bool(false), nil
	}
	return stepEq(pool, t)
}

// ruleBoolSimplify rewrites the De Morgan family: `(not (and ...))` to the
// `or` of negations, `(not (or ...))` to the `and` of negations, and
// `(not (=> a b))` to `(and a (not b))`.
func ruleBoolSimplify(a alethe.RuleArgs) error {
	original, _, err := simplifyPair(a)
	if err != nil {
		return err
	}
	if original.Kind() != alethe.KindOp {
		return alethe.ErrTermIsNotConnective.New(original)
	}
	switch original.Op() {
	case alethe.OpNot, alethe.OpAnd, alethe.OpOr, alethe.OpImplies:
	default:
		return alethe.ErrTermIsNotConnective.New(original)
	}
	return checkSimplify(a, stepBool)
}

func stepBool(pool *alethe.Pool, t *alethe.Term) (*alethe.Term, error) {
	inner, ok := t.IsNegation()
	if !ok {
		return t, nil
	}
	if inner.Kind() != alethe.KindOp {
		return t, nil
	}
	negAll := func(args []*alethe.Term) ([]*alethe.Term, error) {
		out := make([]*alethe.Term, len(args))
		for i, arg := range args {
			n, err := pool.Op(alethe.OpNot, []*alethe.Term{arg})
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	}
	switch inner.Op() {
	case alethe.OpAnd:
		negs, err := negAll(inner.Args())
		if err != nil {
			return nil, err
		}
		return pool.Op(alethe.OpOr, negs)
	case alethe.OpOr:
		negs, err := negAll(inner.Args())
		if err != nil {
			return nil, err
		}
		return pool.Op(alethe.OpAnd, negs)
	case alethe.OpImplies:
		if len(inner.Args()) != 2 {
			return t, nil
		}
		notB, err := pool.Op(alethe.OpNot, []*alethe.Term{inner.Args()[1]})
		if err != nil {
			return nil, err
		}
		return pool.Op(alethe.OpAnd, []*alethe.Term{inner.Args()[0], notB})
	}
	return stepNot(pool, t)
}

// ruleQntSimplify rewrites quantifiers with an empty binder list or a
// constant body to their body.
func ruleQntSimplify(a alethe.RuleArgs) error {
	original, _, err := simplifyPair(a)
	if err != nil {
		return err
	}
	if original.Kind() != alethe.KindQuantifier {
		return alethe.ErrExpectedQuantifierTerm.New(original)
	}
	return checkSimplify(a, stepQnt)
}

func stepQnt(pool *alethe.Pool, t *alethe.Term) (*alethe.Term, error) {
	if t.Kind() != alethe.KindQuantifier {
		return t, nil
	}
	if len(t.Bindings()) == 0 {
		return t.Body(), nil
	}
	if t.Body().IsBoolConst(true) || t.Body().IsBoolConst(false) {
		return t.Body(), nil
	}
	return t, nil
}

// The arithmetic simplification rules share constant folding over *big.Rat
// (the same evaluation ruleLaGeneric's linear combination uses), rendered
// back as an integer or rational literal according to the operand sort.

func ruleDivSimplify(a alethe.RuleArgs) error {
	return checkArithSimplify(a, alethe.OpDiv, stepDiv)
}

func ruleProdSimplify(a alethe.RuleArgs) error {
	return checkArithSimplify(a, alethe.OpMult, stepProd)
}

func ruleMinusSimplify(a alethe.RuleArgs) error {
	return checkArithSimplify(a, alethe.OpSub, stepMinus)
}

func ruleSumSimplify(a alethe.RuleArgs) error {
	return checkArithSimplify(a, alethe.OpAdd, stepSum)
}

func checkArithSimplify(a alethe.RuleArgs, op alethe.Operator, step rewriteStep) error {
	original, _, err := simplifyPair(a)
	if err != nil {
		return err
	}
	if original.Kind() != alethe.KindOp || original.Op() != op {
		return alethe.ErrSumProdSimplifyInvalidConclusion.New(original)
	}
	return checkSimplify(a, step)
}

// makeNum renders a rational as a term of the sort the surrounding operator
// works over: an integer literal when the sort is Int and the value is
// integral, a rational literal otherwise.
func makeNum(pool *alethe.Pool, sort *alethe.Sort, v *big.Rat) *alethe.Term {
	if sort != nil && sort.Kind == alethe.SortInt && v.IsInt() {
		return pool.ConstInt(v.Num())
	}
	return pool.ConstReal(v)
}

func stepSum(pool *alethe.Pool, t *alethe.Term) (*alethe.Term, error) {
	if t.Kind() != alethe.KindOp || t.Op() != alethe.OpAdd {
		return t, nil
	}
	konst := new(big.Rat)
	var rest []*alethe.Term
	for _, arg := range t.Args() {
		if c, ok := ratConstOf(arg); ok {
			konst.Add(konst, c)
		} else {
			rest = append(rest, arg)
		}
	}
	sort := pool.SortOf(t)
	if len(rest) == 0 {
		return makeNum(pool, sort, konst), nil
	}
	if konst.Sign() != 0 {
		rest = append(rest, makeNum(pool, sort, konst))
	}
	if len(rest) == 1 {
		return rest[0], nil
	}
	return pool.Op(alethe.OpAdd, rest)
}

func stepProd(pool *alethe.Pool, t *alethe.Term) (*alethe.Term, error) {
	if t.Kind() != alethe.KindOp || t.Op() != alethe.OpMult {
		return t, nil
	}
	konst := big.NewRat(1, 1)
	var rest []*alethe.Term
	for _, arg := range t.Args() {
		if c, ok := ratConstOf(arg); ok {
			konst.Mul(konst, c)
		} else {
			rest = append(rest, arg)
		}
	}
	sort := pool.SortOf(t)
	if konst.Sign() == 0 || len(rest) == 0 {
		return makeNum(pool, sort, konst), nil
	}
	if konst.Cmp(big.NewRat(1, 1)) != 0 {
		rest = append([]*alethe.Term{makeNum(pool, sort, konst)}, rest...)
	}
	if len(rest) == 1 {
		return rest[0], nil
	}
	return pool.Op(alethe.OpMult, rest)
}

func stepMinus(pool *alethe.Pool, t *alethe.Term) (*alethe.Term, error) {
	if t.Kind() != alethe.KindOp || t.Op() != alethe.OpSub {
		return t, nil
	}
	args := t.Args()
	sort := pool.SortOf(t)
	if len(args) == 1 {
		if c, ok := ratConstOf(args[0]); ok {
			return makeNum(pool, sort, new(big.Rat).Neg(c)), nil
		}
		return t, nil
	}
	if head, ok := ratConstOf(args[0]); ok {
		allConst := true
		acc := new(big.Rat).Set(head)
		for _, arg := range args[1:] {
			c, isConst := ratConstOf(arg)
			if !isConst {
				allConst = false
				break
			}
			acc.Sub(acc, c)
		}
		if allConst {
			return makeNum(pool, sort, acc), nil
		}
	}
	// `t - 0 ... - 0` drops the zero subtrahends
	var rest []*alethe.Term
	rest = append(rest, args[0])
	for _, arg := range args[1:] {
		if c, ok := ratConstOf(arg); ok && c.Sign() == 0 {
			continue
		}
		rest = append(rest, arg)
	}
	if len(rest) == 1 {
		return rest[0], nil
	}
	if len(rest) == len(args) {
		return t, nil
	}
	return pool.Op(alethe.OpSub, rest)
}

func stepDiv(pool *alethe.Pool, t *alethe.Term) (*alethe.Term, error) {
	if t.Kind() != alethe.KindOp || t.Op() != alethe.OpDiv || len(t.Args()) != 2 {
		return t, nil
	}
	num, den := t.Args()[0], t.Args()[1]
	sort := pool.SortOf(t)
	if dc, ok := ratConstOf(den); ok && dc.Sign() != 0 {
		if nc, ok2 := ratConstOf(num); ok2 {
			return makeNum(pool, sort, new(big.Rat).Quo(nc, dc)), nil
		}
		if dc.Cmp(big.NewRat(1, 1)) == 0 {
			return num, nil
		}
	}
	return t, nil
}

// ruleCompSimplify rewrites comparison terms: two constants fold to the
// Boolean verdict, and a reflexive comparison folds to its truth value.
func ruleCompSimplify(a alethe.RuleArgs) error {
	original, _, err := simplifyPair(a)
	if err != nil {
		return err
	}
	if original.Kind() != alethe.KindOp || !original.Op().IsComparison() || original.Op() == alethe.OpEquals {
		return alethe.ErrSumProdSimplifyInvalidConclusion.New(original)
	}
	return checkSimplify(a, stepComp)
}

func stepComp(pool *alethe.Pool, t *alethe.Term) (*alethe.Term, error) {
	if t.Kind() != alethe.KindOp || !t.Op().IsComparison() || t.Op() == alethe.OpEquals || len(t.Args()) != 2 {
		return t, nil
	}
	l, r := t.Args()[0], t.Args()[1]
	if lc, ok := ratConstOf(l); ok {
		if rc, ok2 := ratConstOf(r); ok2 {
			return pool.Bool(evalComparison(t.Op(), lc, rc)), nil
		}
	}
	if l == r {
		switch t.Op() {
		case alethe.OpLe, alethe.OpGe:
			return pool.Bool(true), nil
		case alethe.OpLt, alethe.OpGt:
			return pool.Bool(false), nil
		}
	}
	return t, nil
}

// ruleAcSimp flattens nested chains of an associative-commutative operator
// (`and`/`or`) and collapses duplicate operands. Per the upstream solver
// quirk §4.E preserves, the original is expanded lazily: the rule accepts
// the target as soon as any intermediate flattening matches it, not only
// the full normal form.
func ruleAcSimp(a alethe.RuleArgs) error {
	original, result, err := simplifyPair(a)
	if err != nil {
		return err
	}
	if original.Kind() != alethe.KindOp {
		return alethe.ErrAcSimpFailed.New(result, original)
	}
	op := original.Op()
	switch op {
	case alethe.OpAnd, alethe.OpOr:
	default:
		return alethe.ErrAcSimpFailed.New(result, original)
	}
	cur := original
	seen := map[*alethe.Term]bool{}
	for {
		if alethe.DeepEqual(cur, result, alethe.ModeReorderEq) {
			return nil
		}
		if seen[cur] {
			return alethe.ErrAcSimpFailed.New(result, original)
		}
		seen[cur] = true
		next, err := acFlattenOnce(a.Pool, cur, op)
		if err != nil {
			return err
		}
		if next == cur {
			return alethe.ErrAcSimpFailed.New(result, original)
		}
		cur = next
	}
}

// acFlattenOnce performs one flattening/deduplication pass over an AC
// operator chain.
func acFlattenOnce(pool *alethe.Pool, t *alethe.Term, op alethe.Operator) (*alethe.Term, error) {
	if t.Kind() != alethe.KindOp || t.Op() != op {
		return t, nil
	}
	var flat []*alethe.Term
	seen := map[*alethe.Term]bool{}
	changed := false
	for _, arg := range t.Args() {
		if arg.Kind() == alethe.KindOp && arg.Op() == op {
			changed = true
			for _, inner := range arg.Args() {
				if !seen[inner] {
					seen[inner] = true
					flat = append(flat, inner)
				}
			}
			continue
		}
		if seen[arg] {
			changed = true
			continue
		}
		seen[arg] = true
		flat = append(flat, arg)
	}
	if !changed {
		return t, nil
	}
	if len(flat) == 1 {
		return flat[0], nil
	}
	return pool.Op(op, flat)
}

// ruleIteSimplify rewrites `ite` terms: constant conditions and equal
// branches fold, `(ite c true false)` folds to the condition.
func ruleIteSimplify(a alethe.RuleArgs) error {
	original, _, err := simplifyPair(a)
	if err != nil {
		return err
	}
	if original.Kind() != alethe.KindOp || original.Op() != alethe.OpIte || len(original.Args()) != 3 {
		return alethe.ErrTermOfWrongForm.New(original, "(ite c a b)")
	}
	return checkSimplify(a, stepIte)
}

func stepIte(pool *alethe.Pool, t *alethe.Term) (*alethe.Term, error) {
	if t.Kind() != alethe.KindOp || t.Op() != alethe.OpIte || len(t.Args()) != 3 {
		return t, nil
	}
	cond, then, els := t.Args()[0], t.Args()[1], t.Args()[2]
	switch {
	case cond.IsBoolConst(true):
		return then, nil
	case cond.IsBoolConst(false):
		return els, nil
	case then == els:
		return then, nil
	case then.IsBoolConst(true) && els.IsBoolConst(false):
		return cond, nil
	case then.IsBoolConst(false) && els.IsBoolConst(true):
		return pool.Op(alethe.OpNot, []*alethe.Term{cond})
	}
	return t, nil
}
