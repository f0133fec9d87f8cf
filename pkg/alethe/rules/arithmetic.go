package rules

import (
	"math/big"

	"github.com/hlabs/alethecheck/pkg/alethe"
)

func addArithmeticRules(t alethe.RuleTable) {
	t["la_disequality"] = ruleLaDisequality
	t["la_generic"] = ruleLaGeneric
	t["lia_generic"] = ruleLiaGeneric
	t["la_rw_eq"] = ruleLaRwEq
	t["la_tautology"] = ruleLaTautology
}

// ruleLaRwEq checks the tautology clause
// `(cl (= (= t1 t2) (and (<= t1 t2) (<= t2 t1))))`, the linear-arithmetic
// rewrite of equality into a conjunction of non-strict inequalities.
func ruleLaRwEq(a alethe.RuleArgs) error {
	original, result, err := simplifyPair(a)
	if err != nil {
		return err
	}
	t1, t2, ok := original.AsEquality()
	if !ok {
		return alethe.ErrTermOfWrongForm.New(original, "(= t1 t2)")
	}
	if result.Kind() != alethe.KindOp || result.Op() != alethe.OpAnd || len(result.Args()) != 2 {
		return alethe.ErrTermOfWrongForm.New(result, "(and (<= t1 t2) (<= t2 t1))")
	}
	le1, le2 := result.Args()[0], result.Args()[1]
	if le1.Kind() != alethe.KindOp || le1.Op() != alethe.OpLe || len(le1.Args()) != 2 || le1.Args()[0] != t1 || le1.Args()[1] != t2 {
		return alethe.ErrExpectedLessEq.New(t1, t2)
	}
	if le2.Kind() != alethe.KindOp || le2.Op() != alethe.OpLe || len(le2.Args()) != 2 || le2.Args()[0] != t2 || le2.Args()[1] != t1 {
		return alethe.ErrExpectedLessEq.New(t2, t1)
	}
	return nil
}

// ruleLaTautology enumerates the recognized arithmetic tautology schemas:
// a single comparison literal that is identically true (or an identically
// false one under negation), and the two-literal excluded-middle forms
// pairing a comparison with its complement (`(cl (<= a b) (not (<= a b)))`,
// `(cl (< a b) (>= a b))` and the other complementary operator pairs, and
// the totality clause `(cl (<= a b) (<= b a))`).
func ruleLaTautology(a alethe.RuleArgs) error {
	lits := a.Conclusion.Literals
	switch len(lits) {
	case 1:
		if laLiteralHolds(lits[0]) {
			return nil
		}
		return alethe.ErrNotValidTautologyCase.New(lits[0])
	case 2:
		if laComplementary(lits[0], lits[1]) || laComplementary(lits[1], lits[0]) {
			return nil
		}
		if laTotality(lits[0], lits[1]) || laTotality(lits[1], lits[0]) {
			return nil
		}
		return alethe.ErrNotValidTautologyCase.New(lits[0])
	default:
		return wrongLen(a.Conclusion, 2)
	}
}

// laLiteralHolds reports whether a single comparison literal is identically
// true: reflexive non-strict comparisons, negated reflexive strict ones, and
// fully-constant comparisons that evaluate to true.
func laLiteralHolds(lit *alethe.Term) bool {
	term, negated := lit, false
	if inner, ok := lit.IsNegation(); ok {
		term, negated = inner, true
	}
	if term.Kind() != alethe.KindOp || !term.Op().IsComparison() || len(term.Args()) != 2 {
		return false
	}
	l, r := term.Args()[0], term.Args()[1]
	if lc, ok := ratConstOf(l); ok {
		if rc, ok2 := ratConstOf(r); ok2 {
			holds := evalComparison(term.Op(), lc, rc)
			return holds != negated
		}
	}
	if l != r {
		return false
	}
	switch term.Op() {
	case alethe.OpLe, alethe.OpGe, alethe.OpEquals:
		return !negated
	case alethe.OpLt, alethe.OpGt:
		return negated
	}
	return false
}

// laComplementary reports whether pos and other assert a comparison and its
// complement over the same operands: `(op a b)` with `(not (op a b))`, or
// `(< a b)` with `(>= a b)` and the analogous strict/non-strict pairs.
func laComplementary(pos, other *alethe.Term) bool {
	if neg, ok := other.IsNegation(); ok {
		return neg == pos
	}
	if pos.Kind() != alethe.KindOp || other.Kind() != alethe.KindOp {
		return false
	}
	if len(pos.Args()) != 2 || len(other.Args()) != 2 {
		return false
	}
	if pos.Args()[0] != other.Args()[0] || pos.Args()[1] != other.Args()[1] {
		return false
	}
	switch {
	case pos.Op() == alethe.OpLt && other.Op() == alethe.OpGe,
		pos.Op() == alethe.OpLe && other.Op() == alethe.OpGt,
		pos.Op() == alethe.OpGt && other.Op() == alethe.OpLe,
		pos.Op() == alethe.OpGe && other.Op() == alethe.OpLt:
		return true
	}
	return false
}

// laTotality recognizes `(cl (<= a b) (<= b a))` and its `>=` mirror.
func laTotality(x, y *alethe.Term) bool {
	if x.Kind() != alethe.KindOp || y.Kind() != alethe.KindOp || x.Op() != y.Op() {
		return false
	}
	if x.Op() != alethe.OpLe && x.Op() != alethe.OpGe {
		return false
	}
	if len(x.Args()) != 2 || len(y.Args()) != 2 {
		return false
	}
	return x.Args()[0] == y.Args()[1] && x.Args()[1] == y.Args()[0]
}

func evalComparison(op alethe.Operator, l, r *big.Rat) bool {
	c := l.Cmp(r)
	switch op {
	case alethe.OpLt:
		return c < 0
	case alethe.OpLe:
		return c <= 0
	case alethe.OpGt:
		return c > 0
	case alethe.OpGe:
		return c >= 0
	case alethe.OpEquals:
		return c == 0
	}
	return false
}

// ruleLaDisequality checks the tautology clause
// `(cl (= t1 t2) (not (<= t1 t2)) (not (<= t2 t1)))`.
func ruleLaDisequality(a alethe.RuleArgs) error {
	if len(a.Conclusion.Literals) != 3 {
		return wrongLen(a.Conclusion, 3)
	}
	t1, t2, ok := a.Conclusion.Literals[0].AsEquality()
	if !ok {
		return alethe.ErrTermOfWrongForm.New(a.Conclusion.Literals[0], "(= t1 t2)")
	}
	for i, want := range [][2]*alethe.Term{{t1, t2}, {t2, t1}} {
		neg, ok := a.Conclusion.Literals[i+1].IsNegation()
		if !ok || neg.Kind() != alethe.KindOp || neg.Op() != alethe.OpLe || len(neg.Args()) != 2 {
			return alethe.ErrTermOfWrongForm.New(a.Conclusion.Literals[i+1], "(not (<= a b))")
		}
		if neg.Args()[0] != want[0] || neg.Args()[1] != want[1] {
			return alethe.ErrExpectedLessEq.New(want[0], want[1])
		}
	}
	return nil
}

// linCombo is a linear form over opaque atom terms with rational
// coefficients plus a constant, the working representation ruleLaGeneric
// sums its scaled hypotheses into.
type linCombo struct {
	atoms map[*alethe.Term]*big.Rat
	order []*alethe.Term // first-insertion order, for deterministic error reporting
	konst *big.Rat
}

func newLinCombo() *linCombo {
	return &linCombo{atoms: make(map[*alethe.Term]*big.Rat), konst: new(big.Rat)}
}

func (lc *linCombo) addAtom(t *alethe.Term, coeff *big.Rat) {
	cur, ok := lc.atoms[t]
	if !ok {
		cur = new(big.Rat)
		lc.atoms[t] = cur
		lc.order = append(lc.order, t)
	}
	cur.Add(cur, coeff)
	if cur.Sign() == 0 {
		delete(lc.atoms, t)
	}
}

// firstResidual returns the earliest-added atom whose coefficient didn't
// cancel, if any.
func (lc *linCombo) firstResidual() (*alethe.Term, bool) {
	for _, t := range lc.order {
		if _, ok := lc.atoms[t]; ok {
			return t, true
		}
	}
	return nil, false
}

// addTerm folds coeff*t into the combination, descending through `+`, `-`,
// constant-scaled `*` and constant-divisor `/` nodes; anything else is an
// opaque atom.
func (lc *linCombo) addTerm(t *alethe.Term, coeff *big.Rat) {
	if c, ok := ratConstOf(t); ok {
		lc.konst.Add(lc.konst, new(big.Rat).Mul(coeff, c))
		return
	}
	if t.Kind() != alethe.KindOp {
		lc.addAtom(t, coeff)
		return
	}
	args := t.Args()
	switch t.Op() {
	case alethe.OpAdd:
		for _, arg := range args {
			lc.addTerm(arg, coeff)
		}
	case alethe.OpSub:
		if len(args) == 1 {
			lc.addTerm(args[0], new(big.Rat).Neg(coeff))
			return
		}
		lc.addTerm(args[0], coeff)
		neg := new(big.Rat).Neg(coeff)
		for _, arg := range args[1:] {
			lc.addTerm(arg, neg)
		}
	case alethe.OpMult:
		scale := new(big.Rat).Set(coeff)
		var nonConst []*alethe.Term
		for _, arg := range args {
			if c, ok := ratConstOf(arg); ok {
				scale.Mul(scale, c)
			} else {
				nonConst = append(nonConst, arg)
			}
		}
		switch len(nonConst) {
		case 0:
			lc.konst.Add(lc.konst, scale)
		case 1:
			lc.addTerm(nonConst[0], scale)
		default:
			lc.addAtom(t, coeff)
		}
	case alethe.OpDiv:
		if len(args) == 2 {
			if c, ok := ratConstOf(args[1]); ok && c.Sign() != 0 {
				lc.addTerm(args[0], new(big.Rat).Quo(coeff, c))
				return
			}
		}
		lc.addAtom(t, coeff)
	default:
		lc.addAtom(t, coeff)
	}
}

// ratConstOf evaluates a constant numeric term (an integer or rational
// literal, a unary-minus-wrapped one, or a constant quotient) to a *big.Rat.
func ratConstOf(t *alethe.Term) (*big.Rat, bool) {
	switch t.Kind() {
	case alethe.KindConst:
		switch t.ConstKind() {
		case alethe.ConstInt:
			return new(big.Rat).SetInt(t.IntValue()), true
		case alethe.ConstReal:
			return new(big.Rat).Set(t.RatValue()), true
		}
		return nil, false
	case alethe.KindOp:
		args := t.Args()
		switch t.Op() {
		case alethe.OpSub:
			if len(args) == 1 {
				if c, ok := ratConstOf(args[0]); ok {
					return c.Neg(c), true
				}
			}
		case alethe.OpDiv:
			if len(args) == 2 {
				num, ok1 := ratConstOf(args[0])
				den, ok2 := ratConstOf(args[1])
				if ok1 && ok2 && den.Sign() != 0 {
					return num.Quo(num, den), true
				}
			}
		}
	}
	return nil, false
}

// comboStrength orders the three normalized hypothesis shapes: an equality
// (`s = 0`), a non-strict bound (`s >= 0`), and a strict bound (`s > 0`).
type comboStrength uint8

const (
	strengthEq comboStrength = iota
	strengthGe
	strengthGt
)

// ruleLaGeneric is the linear-arithmetic nucleus (§4.E). The conclusion's
// literals, negated, form a hypothesis set; args gives one rational
// coefficient per literal. Each hypothesis is normalized to `s > 0`,
// `s >= 0` or `s = 0` with s a linear combination, scaled by the magnitude
// of its coefficient, and summed. The rule holds iff every atom cancels and
// the remaining constant comparison is identically false.
func ruleLaGeneric(a alethe.RuleArgs) error {
	lits := a.Conclusion.Literals
	if len(lits) == 0 {
		return wrongLen(a.Conclusion, 1)
	}
	if len(a.Args) != len(lits) {
		return alethe.ErrWrongNumberOfArgs.New(len(lits), len(a.Args))
	}
	sum := newLinCombo()
	strength := strengthEq
	for i, lit := range lits {
		coeff, ok := ratConstOf(a.Args[i])
		if !ok {
			return alethe.ErrExpectedNumber.New(a.Args[i])
		}
		coeff.Abs(coeff)
		term, negated := lit, false
		if inner, isNeg := lit.IsNegation(); isNeg {
			term, negated = inner, true
		}
		if term.Kind() != alethe.KindOp || !term.Op().IsComparison() || len(term.Args()) != 2 {
			return alethe.ErrInvalidDisequalityOp.New(term)
		}
		l, r := term.Args()[0], term.Args()[1]

		// The clause asserts the literal; its negation is the hypothesis
		// the combination refutes. Orient each hypothesis so its linear
		// form compares against zero from above.
		op := term.Op()
		if !negated {
			switch op {
			case alethe.OpLt:
				op = alethe.OpGe
			case alethe.OpLe:
				op = alethe.OpGt
			case alethe.OpGt:
				op = alethe.OpLe
			case alethe.OpGe:
				op = alethe.OpLt
			case alethe.OpEquals:
				// the negation of an equality is a disequality, which has
				// no place in a linear combination
				return alethe.ErrInvalidDisequalityOp.New(lit)
			}
		}
		var st comboStrength
		pos, neg := new(big.Rat).Set(coeff), new(big.Rat).Neg(coeff)
		switch op {
		case alethe.OpGt: // l - r > 0
			st = strengthGt
			sum.addTerm(l, pos)
			sum.addTerm(r, neg)
		case alethe.OpGe:
			st = strengthGe
			sum.addTerm(l, pos)
			sum.addTerm(r, neg)
		case alethe.OpLt: // r - l > 0
			st = strengthGt
			sum.addTerm(r, pos)
			sum.addTerm(l, neg)
		case alethe.OpLe:
			st = strengthGe
			sum.addTerm(r, pos)
			sum.addTerm(l, neg)
		case alethe.OpEquals:
			st = strengthEq
			sum.addTerm(l, pos)
			sum.addTerm(r, neg)
		}
		if st > strength {
			strength = st
		}
	}
	if atom, ok := sum.firstResidual(); ok {
		return alethe.ErrDisequalityIsNotContradiction.New(atom)
	}
	d := sum.konst
	switch strength {
	case strengthGt:
		// hypotheses sum to `d > 0`; contradictory iff d <= 0
		if d.Sign() > 0 {
			return alethe.ErrExpectedLessEq.New(d.RatString(), "0")
		}
	case strengthGe:
		// `d >= 0` must be false, so d < 0
		if d.Sign() >= 0 {
			return alethe.ErrExpectedLessThan.New(d.RatString(), "0")
		}
	case strengthEq:
		if d.Sign() == 0 {
			return alethe.ErrDisequalityIsNotContradiction.New(d.RatString())
		}
	}
	return nil
}

// ruleLiaGeneric is conservatively trusted: the integer-specific
// strengthening it certifies (branch-and-cut reasoning beyond the rational
// relaxation) is outside the core, exactly as la_generic's contract scopes
// it (§4.E).
func ruleLiaGeneric(alethe.RuleArgs) error { return nil }
