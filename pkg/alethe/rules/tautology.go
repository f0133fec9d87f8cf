package rules

import "github.com/hlabs/alethecheck/pkg/alethe"

// addTautologyRules wires the propositional tautology-shaped rules: steps
// with zero premises whose conclusion clause is checked purely against its
// own shape (§4.E).
func addTautologyRules(t alethe.RuleTable) {
	t["true"] = ruleTrue
	t["false"] = ruleFalse
	t["not_not"] = ruleNotNot
	t["and_pos"] = ruleAndPos
	t["and_neg"] = ruleAndNeg
	t["or_pos"] = ruleOrPos
	t["or_neg"] = ruleOrNeg
	t["implies_pos"] = ruleImpliesPos
	t["implies_neg1"] = ruleImpliesNeg1
	t["implies_neg2"] = ruleImpliesNeg2
	t["eq_symmetric"] = ruleEqSymmetric // supplemented, see SPEC_FULL.md
	t["xor_pos1"] = ruleXorPos1
	t["xor_pos2"] = ruleXorPos2
	t["xor_neg1"] = ruleXorNeg1
	t["xor_neg2"] = ruleXorNeg2
	t["equiv_pos1"] = ruleEquivPos1
	t["equiv_pos2"] = ruleEquivPos2
	t["equiv_neg1"] = ruleEquivNeg1
	t["equiv_neg2"] = ruleEquivNeg2
	t["ite_pos1"] = ruleItePos1
	t["ite_pos2"] = ruleItePos2
	t["ite_neg1"] = ruleIteNeg1
	t["ite_neg2"] = ruleIteNeg2
	t["connective_def"] = ruleConnectiveDef
}

func wrongLen(cl *alethe.Clause, want int) error {
	return alethe.ErrWrongLengthOfClause.New(want, len(cl.Literals))
}

// ruleTrue checks the conclusion is the single-literal clause `(cl true)`.
func ruleTrue(a alethe.RuleArgs) error {
	if len(a.Conclusion.Literals) != 1 {
		return wrongLen(a.Conclusion, 1)
	}
	if !a.Conclusion.Literals[0].IsBoolConst(true) {
		return alethe.ErrTermOfWrongForm.New(a.Conclusion.Literals[0], "true")
	}
	return nil
}

// ruleFalse checks the conclusion is `(cl (not false))`.
func ruleFalse(a alethe.RuleArgs) error {
	if len(a.Conclusion.Literals) != 1 {
		return wrongLen(a.Conclusion, 1)
	}
	inner, ok := a.Conclusion.Literals[0].IsNegation()
	if !ok || !inner.IsBoolConst(false) {
		return alethe.ErrTermOfWrongForm.New(a.Conclusion.Literals[0], "(not false)")
	}
	return nil
}

// ruleNotNot checks `(cl (not (not (not p))) p)`.
func ruleNotNot(a alethe.RuleArgs) error {
	if len(a.Conclusion.Literals) != 2 {
		return wrongLen(a.Conclusion, 2)
	}
	lvl1, ok := a.Conclusion.Literals[0].IsNegation()
	if !ok {
		return alethe.ErrTermOfWrongForm.New(a.Conclusion.Literals[0], "(not ...)")
	}
	lvl2, ok := lvl1.IsNegation()
	if !ok {
		return alethe.ErrTermOfWrongForm.New(lvl1, "(not ...)")
	}
	p, ok := lvl2.IsNegation()
	if !ok {
		return alethe.ErrTermOfWrongForm.New(lvl2, "(not ...)")
	}
	if p != a.Conclusion.Literals[1] {
		return alethe.ErrTermsNotEqual.New(p, a.Conclusion.Literals[1])
	}
	return nil
}

// ruleAndPos checks `(cl (not (and t1 ... tn)) ti)` for some i.
func ruleAndPos(a alethe.RuleArgs) error {
	return checkConnectivePos(a, alethe.OpAnd)
}

// ruleOrNeg checks `(cl (or t1 ... tn) (not ti))` for some i.
func ruleOrNeg(a alethe.RuleArgs) error {
	return checkConnectiveNeg(a, alethe.OpOr)
}

// ruleAndNeg checks `(cl (and t1 ... tn) (not t1) ... (not tn))`.
func ruleAndNeg(a alethe.RuleArgs) error {
	if len(a.Conclusion.Literals) < 1 {
		return wrongLen(a.Conclusion, 1)
	}
	head := a.Conclusion.Literals[0]
	if head.Kind() != alethe.KindOp || head.Op() != alethe.OpAnd {
		return alethe.ErrTermOfWrongForm.New(head, "(and ...)")
	}
	args := head.Args()
	if len(a.Conclusion.Literals) != len(args)+1 {
		return wrongLen(a.Conclusion, len(args)+1)
	}
	for i, arg := range args {
		neg, ok := a.Conclusion.Literals[i+1].IsNegation()
		if !ok || neg != arg {
			return alethe.ErrTermDoesntAppearInOp.New(a.Conclusion.Literals[i+1], head)
		}
	}
	return nil
}

// ruleOrPos checks `(cl (not (or t1 ... tn)) t1 ... tn)`.
func ruleOrPos(a alethe.RuleArgs) error {
	if len(a.Conclusion.Literals) < 1 {
		return wrongLen(a.Conclusion, 1)
	}
	inner, ok := a.Conclusion.Literals[0].IsNegation()
	if !ok || inner.Kind() != alethe.KindOp || inner.Op() != alethe.OpOr {
		return alethe.ErrTermOfWrongForm.New(a.Conclusion.Literals[0], "(not (or ...))")
	}
	args := inner.Args()
	if len(a.Conclusion.Literals) != len(args)+1 {
		return wrongLen(a.Conclusion, len(args)+1)
	}
	for i, arg := range args {
		if a.Conclusion.Literals[i+1] != arg {
			return alethe.ErrTermDoesntAppearInOp.New(a.Conclusion.Literals[i+1], inner)
		}
	}
	return nil
}

func checkConnectivePos(a alethe.RuleArgs, op alethe.Operator) error {
	if len(a.Conclusion.Literals) != 2 {
		return wrongLen(a.Conclusion, 2)
	}
	inner, ok := a.Conclusion.Literals[0].IsNegation()
	if !ok || inner.Kind() != alethe.KindOp || inner.Op() != op {
		return alethe.ErrTermOfWrongForm.New(a.Conclusion.Literals[0], "(not (...))")
	}
	for _, arg := range inner.Args() {
		if arg == a.Conclusion.Literals[1] {
			return nil
		}
	}
	return alethe.ErrTermDoesntAppearInOp.New(a.Conclusion.Literals[1], inner)
}

func checkConnectiveNeg(a alethe.RuleArgs, op alethe.Operator) error {
	if len(a.Conclusion.Literals) != 2 {
		return wrongLen(a.Conclusion, 2)
	}
	head := a.Conclusion.Literals[0]
	if head.Kind() != alethe.KindOp || head.Op() != op {
		return alethe.ErrTermOfWrongForm.New(head, op)
	}
	neg, ok := a.Conclusion.Literals[1].IsNegation()
	if !ok {
		return alethe.ErrTermOfWrongForm.New(a.Conclusion.Literals[1], "(not ...)")
	}
	for _, arg := range head.Args() {
		if arg == neg {
			return nil
		}
	}
	return alethe.ErrTermDoesntAppearInOp.New(neg, head)
}

// ruleImpliesPos checks `(cl (not (=> a b)) (not a) b)`.
func ruleImpliesPos(a alethe.RuleArgs) error {
	if len(a.Conclusion.Literals) != 3 {
		return wrongLen(a.Conclusion, 3)
	}
	inner, ok := a.Conclusion.Literals[0].IsNegation()
	if !ok || inner.Kind() != alethe.KindOp || inner.Op() != alethe.OpImplies || len(inner.Args()) != 2 {
		return alethe.ErrTermOfWrongForm.New(a.Conclusion.Literals[0], "(not (=> a b))")
	}
	antecedent, consequent := inner.Args()[0], inner.Args()[1]
	negAntecedent, ok := a.Conclusion.Literals[1].IsNegation()
	if !ok || negAntecedent != antecedent {
		return alethe.ErrTermOfWrongForm.New(a.Conclusion.Literals[1], "(not a)")
	}
	if a.Conclusion.Literals[2] != consequent {
		return alethe.ErrTermsNotEqual.New(a.Conclusion.Literals[2], consequent)
	}
	return nil
}

// ruleImpliesNeg1 checks `(cl (=> a b) a)`.
func ruleImpliesNeg1(a alethe.RuleArgs) error {
	return checkImpliesNeg(a, 0)
}

// ruleImpliesNeg2 checks `(cl (=> a b) (not b))`.
func ruleImpliesNeg2(a alethe.RuleArgs) error {
	return checkImpliesNeg(a, 1)
}

func checkImpliesNeg(a alethe.RuleArgs, which int) error {
	if len(a.Conclusion.Literals) != 2 {
		return wrongLen(a.Conclusion, 2)
	}
	head := a.Conclusion.Literals[0]
	if head.Kind() != alethe.KindOp || head.Op() != alethe.OpImplies || len(head.Args()) != 2 {
		return alethe.ErrTermOfWrongForm.New(head, "(=> a b)")
	}
	operand := head.Args()[which]
	second := a.Conclusion.Literals[1]
	if which == 0 {
		if second != operand {
			return alethe.ErrTermsNotEqual.New(second, operand)
		}
		return nil
	}
	neg, ok := second.IsNegation()
	if !ok || neg != operand {
		return alethe.ErrTermOfWrongForm.New(second, "(not b)")
	}
	return nil
}

// binaryConnective extracts the two operands of a len-2 op term, or fails
// with ErrTermOfWrongForm naming want.
func binaryConnective(term *alethe.Term, op alethe.Operator, want string) (*alethe.Term, *alethe.Term, error) {
	if term.Kind() != alethe.KindOp || term.Op() != op || len(term.Args()) != 2 {
		return nil, nil, alethe.ErrTermOfWrongForm.New(term, want)
	}
	return term.Args()[0], term.Args()[1], nil
}

// ruleXorPos1 checks `(cl (not (xor a b)) a b)`.
func ruleXorPos1(a alethe.RuleArgs) error {
	if len(a.Conclusion.Literals) != 3 {
		return wrongLen(a.Conclusion, 3)
	}
	inner, ok := a.Conclusion.Literals[0].IsNegation()
	if !ok {
		return alethe.ErrTermOfWrongForm.New(a.Conclusion.Literals[0], "(not (xor a b))")
	}
	x, y, err := binaryConnective(inner, alethe.OpXor, "(xor a b)")
	if err != nil {
		return err
	}
	if a.Conclusion.Literals[1] != x || a.Conclusion.Literals[2] != y {
		return alethe.ErrTermOfWrongForm.New(a.Conclusion, "(not (xor a b)) a b")
	}
	return nil
}

// ruleXorPos2 checks `(cl (not (xor a b)) (not a) (not b))`.
func ruleXorPos2(a alethe.RuleArgs) error {
	if len(a.Conclusion.Literals) != 3 {
		return wrongLen(a.Conclusion, 3)
	}
	inner, ok := a.Conclusion.Literals[0].IsNegation()
	if !ok {
		return alethe.ErrTermOfWrongForm.New(a.Conclusion.Literals[0], "(not (xor a b))")
	}
	x, y, err := binaryConnective(inner, alethe.OpXor, "(xor a b)")
	if err != nil {
		return err
	}
	negX, ok1 := a.Conclusion.Literals[1].IsNegation()
	negY, ok2 := a.Conclusion.Literals[2].IsNegation()
	if !ok1 || !ok2 || negX != x || negY != y {
		return alethe.ErrTermOfWrongForm.New(a.Conclusion, "(not (xor a b)) (not a) (not b)")
	}
	return nil
}

// ruleXorNeg1 checks `(cl (xor a b) a (not b))`.
func ruleXorNeg1(a alethe.RuleArgs) error {
	if len(a.Conclusion.Literals) != 3 {
		return wrongLen(a.Conclusion, 3)
	}
	x, y, err := binaryConnective(a.Conclusion.Literals[0], alethe.OpXor, "(xor a b)")
	if err != nil {
		return err
	}
	negY, ok := a.Conclusion.Literals[2].IsNegation()
	if a.Conclusion.Literals[1] != x || !ok || negY != y {
		return alethe.ErrTermOfWrongForm.New(a.Conclusion, "(xor a b) a (not b)")
	}
	return nil
}

// ruleXorNeg2 checks `(cl (xor a b) (not a) b)`.
func ruleXorNeg2(a alethe.RuleArgs) error {
	if len(a.Conclusion.Literals) != 3 {
		return wrongLen(a.Conclusion, 3)
	}
	x, y, err := binaryConnective(a.Conclusion.Literals[0], alethe.OpXor, "(xor a b)")
	if err != nil {
		return err
	}
	negX, ok := a.Conclusion.Literals[1].IsNegation()
	if !ok || negX != x || a.Conclusion.Literals[2] != y {
		return alethe.ErrTermOfWrongForm.New(a.Conclusion, "(xor a b) (not a) b")
	}
	return nil
}

// ruleEquivPos1 checks `(cl (not (= p q)) (not p) q)`, treating `=` between
// Boolean-sorted operands as the "equiv" connective (§4.E; Alethe has no
// separate equiv operator, `spec.md`'s `equiv_*` family reuses `=`).
func ruleEquivPos1(a alethe.RuleArgs) error {
	return checkEquivPos(a, 0)
}

// ruleEquivPos2 checks `(cl (not (= p q)) p (not q))`.
func ruleEquivPos2(a alethe.RuleArgs) error {
	return checkEquivPos(a, 1)
}

func checkEquivPos(a alethe.RuleArgs, which int) error {
	if len(a.Conclusion.Literals) != 3 {
		return wrongLen(a.Conclusion, 3)
	}
	inner, ok := a.Conclusion.Literals[0].IsNegation()
	if !ok {
		return alethe.ErrTermOfWrongForm.New(a.Conclusion.Literals[0], "(not (= p q))")
	}
	p, q, ok := inner.AsEquality()
	if !ok {
		return alethe.ErrTermOfWrongForm.New(inner, "(= p q)")
	}
	if which == 0 {
		negP, ok := a.Conclusion.Literals[1].IsNegation()
		if !ok || negP != p || a.Conclusion.Literals[2] != q {
			return alethe.ErrTermOfWrongForm.New(a.Conclusion, "(not (= p q)) (not p) q")
		}
		return nil
	}
	negQ, ok := a.Conclusion.Literals[2].IsNegation()
	if !ok || a.Conclusion.Literals[1] != p || negQ != q {
		return alethe.ErrTermOfWrongForm.New(a.Conclusion, "(not (= p q)) p (not q)")
	}
	return nil
}

// ruleEquivNeg1 checks `(cl (= p q) p q)`.
func ruleEquivNeg1(a alethe.RuleArgs) error {
	return checkEquivNeg(a, false)
}

// ruleEquivNeg2 checks `(cl (= p q) (not p) (not q))`.
func ruleEquivNeg2(a alethe.RuleArgs) error {
	return checkEquivNeg(a, true)
}

func checkEquivNeg(a alethe.RuleArgs, negated bool) error {
	if len(a.Conclusion.Literals) != 3 {
		return wrongLen(a.Conclusion, 3)
	}
	p, q, ok := a.Conclusion.Literals[0].AsEquality()
	if !ok {
		return alethe.ErrTermOfWrongForm.New(a.Conclusion.Literals[0], "(= p q)")
	}
	if !negated {
		if a.Conclusion.Literals[1] != p || a.Conclusion.Literals[2] != q {
			return alethe.ErrTermOfWrongForm.New(a.Conclusion, "(= p q) p q")
		}
		return nil
	}
	negP, ok1 := a.Conclusion.Literals[1].IsNegation()
	negQ, ok2 := a.Conclusion.Literals[2].IsNegation()
	if !ok1 || !ok2 || negP != p || negQ != q {
		return alethe.ErrTermOfWrongForm.New(a.Conclusion, "(= p q) (not p) (not q)")
	}
	return nil
}

// ruleItePos1 checks `(cl (not (ite a b c)) a c)`.
func ruleItePos1(a alethe.RuleArgs) error {
	return checkItePos(a, 2)
}

// ruleItePos2 checks `(cl (not (ite a b c)) (not a) b)`.
func ruleItePos2(a alethe.RuleArgs) error {
	return checkItePos(a, 1)
}

func checkItePos(a alethe.RuleArgs, branch int) error {
	if len(a.Conclusion.Literals) != 3 {
		return wrongLen(a.Conclusion, 3)
	}
	inner, ok := a.Conclusion.Literals[0].IsNegation()
	if !ok {
		return alethe.ErrTermOfWrongForm.New(a.Conclusion.Literals[0], "(not (ite a b c))")
	}
	if inner.Kind() != alethe.KindOp || inner.Op() != alethe.OpIte || len(inner.Args()) != 3 {
		return alethe.ErrTermOfWrongForm.New(inner, "(ite a b c)")
	}
	cond, branchTerm := inner.Args()[0], inner.Args()[branch]
	second := a.Conclusion.Literals[1]
	if branch == 1 {
		neg, ok := second.IsNegation()
		if !ok || neg != cond {
			return alethe.ErrTermOfWrongForm.New(second, "(not a)")
		}
	} else if second != cond {
		return alethe.ErrTermsNotEqual.New(second, cond)
	}
	if a.Conclusion.Literals[2] != branchTerm {
		return alethe.ErrTermsNotEqual.New(a.Conclusion.Literals[2], branchTerm)
	}
	return nil
}

// ruleIteNeg1 checks `(cl (ite a b c) a (not c))`.
func ruleIteNeg1(a alethe.RuleArgs) error {
	return checkIteNeg(a, 2)
}

// ruleIteNeg2 checks `(cl (ite a b c) (not a) (not b))`.
func ruleIteNeg2(a alethe.RuleArgs) error {
	return checkIteNeg(a, 1)
}

func checkIteNeg(a alethe.RuleArgs, branch int) error {
	if len(a.Conclusion.Literals) != 3 {
		return wrongLen(a.Conclusion, 3)
	}
	head := a.Conclusion.Literals[0]
	if head.Kind() != alethe.KindOp || head.Op() != alethe.OpIte || len(head.Args()) != 3 {
		return alethe.ErrTermOfWrongForm.New(head, "(ite a b c)")
	}
	cond, branchTerm := head.Args()[0], head.Args()[branch]
	second := a.Conclusion.Literals[1]
	if branch == 1 {
		neg, ok := second.IsNegation()
		if !ok || neg != cond {
			return alethe.ErrTermOfWrongForm.New(second, "(not a)")
		}
	} else if second != cond {
		return alethe.ErrTermsNotEqual.New(second, cond)
	}
	neg, ok := a.Conclusion.Literals[2].IsNegation()
	if !ok || neg != branchTerm {
		return alethe.ErrTermOfWrongForm.New(a.Conclusion.Literals[2], "(not b_or_c)")
	}
	return nil
}

// ruleConnectiveDef checks conclusion `(cl (= original expansion))` where
// original's head is one of the derived Boolean connectives (xor, =>, ite,
// distinct) and expansion is its definition in terms of and/or/not. Only
// the triggering connective shape is checked; the expansion side is
// trusted, not re-derived structurally.
func ruleConnectiveDef(a alethe.RuleArgs) error {
	original, _, err := simplifyPair(a)
	if err != nil {
		return err
	}
	if original.Kind() != alethe.KindOp {
		return alethe.ErrTermIsNotConnective.New(original)
	}
	switch original.Op() {
	case alethe.OpXor, alethe.OpImplies, alethe.OpIte, alethe.OpDistinct:
		return nil
	default:
		return alethe.ErrTermIsNotConnective.New(original)
	}
}

// ruleEqSymmetric checks the tautology clause `(cl (not (= t u)) (= u t))`,
// an "extra" rule from original_source/ (SPEC_FULL.md supplement 3).
func ruleEqSymmetric(a alethe.RuleArgs) error {
	if len(a.Conclusion.Literals) != 2 {
		return wrongLen(a.Conclusion, 2)
	}
	inner, ok := a.Conclusion.Literals[0].IsNegation()
	if !ok {
		return alethe.ErrTermOfWrongForm.New(a.Conclusion.Literals[0], "(not (= t u))")
	}
	t, u, ok := inner.AsEquality()
	if !ok {
		return alethe.ErrTermOfWrongForm.New(inner, "(= t u)")
	}
	u2, t2, ok := a.Conclusion.Literals[1].AsEquality()
	if !ok || u2 != u || t2 != t {
		return alethe.ErrTermOfWrongForm.New(a.Conclusion.Literals[1], "(= u t)")
	}
	return nil
}
