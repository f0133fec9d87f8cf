package rules

import "github.com/hlabs/alethecheck/pkg/alethe"

func addResolutionRules(t alethe.RuleTable) {
	t["resolution"] = ruleResolution
	t["th_resolution"] = ruleResolution // same checking algorithm; th_resolution additionally trusts theory lemmas among its premises, which this checker treats identically since it never re-derives theory facts
	t["reordering"] = ruleReordering     // supplemented, see SPEC_FULL.md
	t["or_intro"] = ruleOrIntro          // supplemented, see SPEC_FULL.md
	t["tautology"] = ruleTautology
	t["contraction"] = ruleContraction
}

// ruleTautology checks that the single premise clause contains some
// literal and its negation, and that the conclusion is the unit clause
// `(cl true)`.
func ruleTautology(a alethe.RuleArgs) error {
	p, err := onePremiseClause(a)
	if err != nil {
		return err
	}
	found := false
	for _, l := range p.Literals {
		neg, ok := l.IsNegation()
		if !ok {
			continue
		}
		for _, m := range p.Literals {
			if m == neg {
				found = true
				break
			}
		}
		if found {
			break
		}
	}
	if !found {
		return alethe.ErrTautologyFailed.New()
	}
	if len(a.Conclusion.Literals) != 1 || !a.Conclusion.Literals[0].IsBoolConst(true) {
		return alethe.ErrTermOfWrongForm.New(a.Conclusion, "(cl true)")
	}
	return nil
}

// ruleContraction checks that the conclusion is the single premise's
// clause with duplicate literals removed, order preserved.
func ruleContraction(a alethe.RuleArgs) error {
	p, err := onePremiseClause(a)
	if err != nil {
		return err
	}
	var want []*alethe.Term
	seen := make(map[*alethe.Term]bool, len(p.Literals))
	for _, l := range p.Literals {
		if !seen[l] {
			seen[l] = true
			want = append(want, l)
		}
	}
	if len(a.Conclusion.Literals) != len(want) {
		return wrongLen(a.Conclusion, len(want))
	}
	for i, l := range want {
		if a.Conclusion.Literals[i] != l {
			return alethe.ErrTermsNotEqual.New(a.Conclusion.Literals[i], l)
		}
	}
	return nil
}

// ruleResolution checks that repeatedly resolving the premise clauses on
// complementary pivots can produce the conclusion clause. It implements
// the standard multi-premise propositional resolution used throughout
// Alethe: maintain a working multiset of literals seeded from the first
// premise, and for each subsequent premise find exactly one literal that
// is the negation of a literal already in the working set, removing both
// and adding everything else from that premise.
func ruleResolution(a alethe.RuleArgs) error {
	if len(a.Premises) < 1 {
		return alethe.ErrWrongNumberOfPremises.New("at least 1", len(a.Premises))
	}
	// working is a multiset: a literal contributed twice stays twice until
	// a pivot removes one occurrence; only the final conclusion comparison
	// flattens it to a set.
	working := map[*alethe.Term]int{}
	for _, lit := range a.Premises[0].Literals {
		working[lit]++
	}
	for _, premise := range a.Premises[1:] {
		pivot, pivotNeg, ok := findPivot(working, premise.Literals)
		if !ok {
			return alethe.ErrTautologyFailed.New()
		}
		working[pivotNeg]--
		if working[pivotNeg] == 0 {
			delete(working, pivotNeg)
		}
		for _, lit := range premise.Literals {
			if lit == pivot {
				continue
			}
			working[lit]++
		}
	}
	for _, lit := range a.Conclusion.Literals {
		if _, ok := working[lit]; !ok {
			return alethe.ErrResolutionMissingTerm.New(lit)
		}
		delete(working, lit)
	}
	if len(working) > 0 {
		// report the first surviving literal in premise order
		for _, premise := range a.Premises {
			for _, lit := range premise.Literals {
				if _, ok := working[lit]; ok {
					return alethe.ErrRemainingPivot.New(lit)
				}
			}
		}
	}
	return nil
}

// findPivot looks for a literal in premise whose negation is already in
// working (or vice versa), returning the literal from premise's side and
// its complement.
func findPivot(working map[*alethe.Term]int, premise []*alethe.Term) (pivot, pivotNeg *alethe.Term, ok bool) {
	for _, lit := range premise {
		if neg, isNeg := lit.IsNegation(); isNeg && working[neg] > 0 {
			return lit, neg, true
		}
	}
	for w, n := range working {
		if n == 0 {
			continue
		}
		if neg, isNeg := w.IsNegation(); isNeg {
			for _, lit := range premise {
				if lit == neg {
					return lit, w, true
				}
			}
		}
	}
	return nil, nil, false
}

// ruleReordering checks that the conclusion clause is the single premise's
// clause with its literals reordered (an "extra" rule from
// original_source/, SPEC_FULL.md supplement 2).
func ruleReordering(a alethe.RuleArgs) error {
	p, err := onePremiseClause(a)
	if err != nil {
		return err
	}
	counts := make(map[*alethe.Term]int, len(p.Literals))
	for _, l := range p.Literals {
		counts[l]++
	}
	for _, l := range a.Conclusion.Literals {
		if counts[l] == 0 {
			return alethe.ErrReorderingExtraTerm.New(l)
		}
		counts[l]--
	}
	for _, l := range p.Literals {
		if counts[l] > 0 {
			return alethe.ErrReorderingMissingTerm.New(l)
		}
	}
	return nil
}

// ruleOrIntro checks the conclusion clause extends the single premise's
// clause with a suffix of new disjuncts (an "extra" rule from
// original_source/, SPEC_FULL.md supplement 3).
func ruleOrIntro(a alethe.RuleArgs) error {
	p, err := onePremiseClause(a)
	if err != nil {
		return err
	}
	if len(a.Conclusion.Literals) < len(p.Literals) {
		return wrongLen(a.Conclusion, len(p.Literals))
	}
	for i, lit := range p.Literals {
		if a.Conclusion.Literals[i] != lit {
			return alethe.ErrTermsNotEqual.New(a.Conclusion.Literals[i], lit)
		}
	}
	return nil
}
