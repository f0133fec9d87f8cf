package rules

import (
	"strconv"

	"github.com/hlabs/alethecheck/pkg/alethe"
)

// addSubproofRules wires the rules that run only in the closing step of a
// subproof and consult the enclosing subproof's command list via
// RuleArgs.Subproof (§4.E). `bind` and `onepoint` are also subproof-closing
// but live in quantifiers.go since they share machinery with the other
// quantifier rules.
func addSubproofRules(t alethe.RuleTable) {
	t["subproof"] = ruleSubproof
	t["let"] = ruleLet
	t["sko_ex"] = ruleSkoEx
	t["sko_forall"] = ruleSkoForall
	t["bind_let"] = ruleBindLet
}

// ruleSubproof discharges every `assume` command in the enclosing
// subproof's body as a negated literal in the conclusion, in the order the
// assumes appeared, followed by whatever the body actually proved.
func ruleSubproof(a alethe.RuleArgs) error {
	if a.Subproof == nil {
		return alethe.ErrMustBeLastStepInSubproof.New()
	}
	var assumes []*alethe.Term
	for _, cmd := range a.Subproof {
		if cmd.Kind == alethe.CommandAssume {
			assumes = append(assumes, cmd.Term)
		}
	}
	if len(a.Conclusion.Literals) < len(assumes) {
		return alethe.ErrWrongLengthOfClause.New(len(assumes), len(a.Conclusion.Literals))
	}
	for i, assume := range assumes {
		neg, ok := a.Conclusion.Literals[i].IsNegation()
		if !ok {
			return alethe.ErrDischargeMustBeAssume.New(a.Conclusion.Literals[i])
		}
		if !alethe.DeepEqual(neg, assume, alethe.ModeReorderEq) {
			return alethe.ErrDischargeMustBeAssume.New(a.Conclusion.Literals[i])
		}
	}
	return nil
}

// ruleLet checks one equality step per `let` binding: the conclusion
// equates two `let` terms whose binders share names pairwise, and each
// binding's value-equality is justified by exactly one premise.
func ruleLet(a alethe.RuleArgs) error {
	if len(a.Conclusion.Literals) != 1 {
		return wrongLen(a.Conclusion, 1)
	}
	l, r, ok := a.Conclusion.Literals[0].AsEquality()
	if !ok || l.Kind() != alethe.KindLet || r.Kind() != alethe.KindLet {
		return alethe.ErrTermOfWrongForm.New(a.Conclusion.Literals[0], "(= (let ...) (let ...))")
	}
	lb, rb := l.Bindings(), r.Bindings()
	if len(lb) != len(rb) {
		return alethe.ErrWrongNumberOfLetBindings.New(len(lb), len(rb))
	}
	if len(a.Premises) != len(lb) {
		return alethe.ErrWrongNumberOfPremises.New(strconv.Itoa(len(lb)), len(a.Premises))
	}
	for i := range lb {
		if lb[i].Name != rb[i].Name {
			return alethe.ErrTermOfWrongForm.New(r, "a binder list with identical names to "+l.String())
		}
		p := a.Premises[i]
		if len(p.Literals) != 1 {
			return wrongLen(p, 1)
		}
		pl, pr, ok := p.Literals[0].AsEquality()
		if !ok || pl != lb[i].Value || pr != rb[i].Value {
			return alethe.ErrPremiseDoesntJustifyLet.New(pl, pr, rb[i].Value, lb[i].Value)
		}
	}
	if !alethe.DeepEqual(l.Body(), r.Body(), alethe.ModeAlpha) {
		return alethe.ErrTermsNotEqual.New(l.Body(), r.Body())
	}
	return nil
}

// ruleBindLet matches a `let`/`let` equality conclusion against the
// previous subproof step's body equality, consuming zero premises when the
// two bodies are already syntactically identical or one premise proving
// their equality otherwise (extras.rs's bind_let, wired for the
// reconstructor's Let case; see pkg/alethe/reconstruct.go).
func ruleBindLet(a alethe.RuleArgs) error {
	if len(a.Conclusion.Literals) != 1 {
		return wrongLen(a.Conclusion, 1)
	}
	l, r, ok := a.Conclusion.Literals[0].AsEquality()
	if !ok || l.Kind() != alethe.KindLet || r.Kind() != alethe.KindLet {
		return alethe.ErrTermOfWrongForm.New(a.Conclusion.Literals[0], "(= (let ...) (let ...))")
	}
	lb, rb := l.Bindings(), r.Bindings()
	if len(lb) != len(rb) {
		return alethe.ErrWrongNumberOfLetBindings.New(len(lb), len(rb))
	}
	for i := range lb {
		if lb[i].Name != rb[i].Name {
			return alethe.ErrTermOfWrongForm.New(r, "a binder list with identical names to "+l.String())
		}
	}
	switch len(a.Premises) {
	case 0:
		if !alethe.DeepEqual(l.Body(), r.Body(), alethe.ModeAlpha) {
			return alethe.ErrTermsNotEqual.New(l.Body(), r.Body())
		}
	case 1:
		p := a.Premises[0]
		if len(p.Literals) != 1 {
			return wrongLen(p, 1)
		}
		pl, pr, ok := p.Literals[0].AsEquality()
		if !ok || pl != l.Body() || pr != r.Body() {
			return alethe.ErrPremiseDoesntJustifyLet.New(pl, pr, r.Body(), l.Body())
		}
	default:
		return alethe.ErrWrongNumberOfPremises.New("0 or 1", len(a.Premises))
	}
	return nil
}

// ruleSkoEx verifies Skolemization of an existential: the conclusion
// equates `(exists binds phi)` with phi after each bound variable is
// replaced by a Hilbert choice term witnessing it (§4.E).
func ruleSkoEx(a alethe.RuleArgs) error {
	return checkSkolem(a, alethe.Exists, false)
}

// ruleSkoForall is sko_ex's dual for universal quantification: each bound
// variable is replaced by a choice term witnessing a counterexample to the
// negated body.
func ruleSkoForall(a alethe.RuleArgs) error {
	return checkSkolem(a, alethe.Forall, true)
}

func checkSkolem(a alethe.RuleArgs, kind alethe.QuantifierKind, negate bool) error {
	if len(a.Conclusion.Literals) != 1 {
		return wrongLen(a.Conclusion, 1)
	}
	l, r, ok := a.Conclusion.Literals[0].AsEquality()
	if !ok || l.Kind() != alethe.KindQuantifier || l.QuantifierKind() != kind {
		return alethe.ErrExpectedQuantifierTerm.New(a.Conclusion.Literals[0])
	}
	sub := alethe.NewSubstitution(a.Pool)
	body := l.Body()
	for _, b := range l.Bindings() {
		bv := a.Pool.Var(b.Name, b.Sort)
		witnessBody := body
		if negate {
			neg, err := a.Pool.Op(alethe.OpNot, []*alethe.Term{body})
			if err != nil {
				return err
			}
			witnessBody = neg
		}
		witness := a.Pool.Choice(alethe.Binding{Name: b.Name, Sort: b.Sort}, witnessBody)
		if err := sub.Insert(bv, witness); err != nil {
			return err
		}
	}
	expected, err := sub.Apply(body)
	if err != nil {
		return err
	}
	if !alethe.DeepEqual(expected, r, alethe.ModeReorderEq) {
		return alethe.ErrTermsNotEqual.New(expected, r)
	}
	return nil
}
