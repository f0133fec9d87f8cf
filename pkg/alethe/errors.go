package alethe

import (
	"fmt"

	"gopkg.in/src-d/go-errors.v1"
)

// Every checker-visible failure is a *errors.Kind-produced error (§7). Kinds
// are grouped by the taxonomy sections spec.md lays out; callers distinguish
// failures with Kind.Is, the same pattern used by dolthub/go-mysql-server's
// auth package for its own error family.
var (
	// Structural errors.
	ErrWrongNumberOfPremises        = errors.NewKind("expected %s premises, got %d")
	ErrWrongLengthOfClause          = errors.NewKind("expected %d terms in clause, got %d")
	ErrWrongNumberOfArgs            = errors.NewKind("expected %v arguments, got %d")
	ErrWrongNumberOfStepsInSubproof = errors.NewKind("expected %s commands in subproof, got %d")
	ErrWrongNumberOfTermsInOp       = errors.NewKind("expected %s terms in '%s' term, got %d")
	ErrTermOfWrongForm              = errors.NewKind("term '%s' is of the wrong form, expected %s")
	ErrNotValidNaryTerm             = errors.NewKind("term '%s' is not a valid n-ary operation")
	ErrTermDoesntAppearInOp         = errors.NewKind("expected term '%s' to appear in '%s' term")

	// Equality errors.
	ErrTermsNotEqual = errors.NewKind("expected terms to be equal: '%s' and '%s'")
	ErrExpectedToBe  = errors.NewKind("expected %s '%s' to be '%s'")

	// Resolution family.
	ErrTautologyFailed        = errors.NewKind("couldn't find complementary pair in resolution chain")
	ErrRemainingPivot         = errors.NewKind("pivot was not eliminated: '%s'")
	ErrResolutionMissingTerm  = errors.NewKind("term in conclusion was not produced by resolution: '%s'")

	// Congruence.
	ErrMissingPremise             = errors.NewKind("no premise justifies equality of arguments '%s' and '%s'")
	ErrPremiseDoesntJustifyArgs   = errors.NewKind("premise '(= %s %s)' doesn't justify conclusion arguments '%s' and '%s'")
	ErrDifferentFunctions         = errors.NewKind("functions don't match: '%s' and '%s'")
	ErrDifferentOperators         = errors.NewKind("operators don't match: '%s' and '%s'")
	ErrDifferentNumberOfArguments = errors.NewKind("different numbers of arguments: %d and %d")
	ErrNotApplicationOrOperation  = errors.NewKind("term is not an application or operation: '%s'")

	// Quantifiers.
	ErrNoBindingMatchesArg    = errors.NewKind("argument doesn't match any binding: '%s'")
	ErrNoArgGivenForBinding   = errors.NewKind("no argument was given for binding '%s'")
	ErrExpectedQuantifierTerm = errors.NewKind("expected quantifier term, got '%s'")
	ErrJoinFailed             = errors.NewKind("union of left-hand bindings does not equal right-hand binding list")
	ErrCnfNewBindingIntroduced = errors.NewKind("unknown binding introduced in right-hand side: '%s'")
	ErrCnfBindingIsMissing    = errors.NewKind("binding is missing in right-hand side: '%s'")
	ErrClauseDoesntAppearInCnf = errors.NewKind("result clause doesn't appear in the CNF of the original term: '%s'")

	// Linear arithmetic.
	ErrNotValidTautologyCase     = errors.NewKind("term '%s' doesn't match any arithmetic tautology case")
	ErrInvalidDisequalityOp      = errors.NewKind("term '%s' is not a valid disequality operation")
	ErrTooManyArgsInDisequality  = errors.NewKind("too many arguments in disequality '%s'")
	ErrDisequalityIsNotContradiction = errors.NewKind("final disequality is not contradictory: %s")
	ErrExpectedLessThan          = errors.NewKind("expected term '%s' to be less than term '%s'")
	ErrExpectedLessEq            = errors.NewKind("expected term '%s' to be less than or equal to term '%s'")

	// Subproof-closing rules.
	ErrDischargeMustBeAssume      = errors.NewKind("discharge must be an 'assume' command: '%s'")
	ErrBindBindingIsFreeVarInPhi  = errors.NewKind("binding '%s' appears as a free variable in phi")
	ErrBindDifferentNumberOfBindings = errors.NewKind("left and right quantifiers have different numbers of bindings: %d and %d")
	ErrBindingIsNotInContext      = errors.NewKind("binding '%s' was not introduced in the enclosing context")
	ErrWrongNumberOfLetBindings   = errors.NewKind("expected %d bindings in 'let' term, got %d")
	ErrPremiseDoesntJustifyLet    = errors.NewKind("premise '(= %s %s)' doesn't justify substitution of '%s' for '%s'")
	ErrNoPointForSubstitution     = errors.NewKind("no point equality for binding '%s' appears in '%s'")
	ErrOnePointWrongBindings      = errors.NewKind("expected binding list in right-hand side to be '%s'")

	// Simplification.
	ErrSimplificationFailed          = errors.NewKind("simplifying '%s' resulted in '%s', expected result to be '%s'")
	ErrCycleInSimplification         = errors.NewKind("encountered a cycle while simplifying term: '%s'")
	ErrSumProdSimplifyInvalidConclusion = errors.NewKind("'%s' is not a valid simplification result for this rule")
	ErrTermIsNotConnective           = errors.NewKind("term '%s' is not a connective")
	ErrIsNotIteSubterm               = errors.NewKind("term '%s' does not appear as a subterm of the root term")
	ErrBrokenTransitivityChain       = errors.NewKind("broken transitivity chain: can't prove '(= %s %s)'")
	ErrAcSimpFailed                  = errors.NewKind("couldn't reach '%s' by simplifying '%s'")
	ErrReorderingMissingTerm         = errors.NewKind("term '%s' is missing from the conclusion clause")
	ErrReorderingExtraTerm           = errors.NewKind("term '%s' was not expected in the conclusion clause")

	// Step argument shape.
	ErrExpectedTermStyleArg   = errors.NewKind("expected a term-style argument, got '%s'")
	ErrExpectedAssignStyleArg = errors.NewKind("expected an assign-style (:= var term) argument, got '%s'")
	ErrExpectedBoolConstant   = errors.NewKind("expected a Boolean constant, got '%s'")
	ErrExpectedNumber         = errors.NewKind("expected a numeric constant, got '%s'")

	// Global.
	ErrUnknownRule           = errors.NewKind("unknown rule: '%s'")
	ErrPremiseNotFound       = errors.NewKind("premise not found: '%s'")
	ErrUnmatchedAssume       = errors.NewKind("assumed term doesn't match any problem premise: '%s'")
	ErrMustBeLastStepInSubproof = errors.NewKind("this rule can only be used in the last step of a subproof")
	ErrUnspecified           = errors.NewKind("unspecified error")
	ErrMaxSubproofDepthExceeded = errors.NewKind("subproof nesting exceeds configured maximum: %d")
)

// MalformedTermError is raised by the term pool when a would-be term
// violates an operator's arity or sort rules (§4.A). It is a plain error
// (not a *errors.Kind) because it is a construction-time programmer error
// aimed at the pool's caller, not a step in the §7 checker-error taxonomy
// that a rule can return.
type MalformedTermError struct {
	Op     Operator
	Index  int
	Want   *Sort
	Got    *Sort
	Reason string
}

func (e *MalformedTermError) Error() string {
	if e.Reason != "" {
		if e.Got != nil {
			return fmt.Sprintf("malformed term: operator %s %s (got %s)", e.Op, e.Reason, e.Got)
		}
		return fmt.Sprintf("malformed term: operator %s %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("malformed term: operator %s argument %d: expected sort %s, got %s",
		e.Op, e.Index, e.Want, e.Got)
}

// CycleInSubstitutionError is raised by Substitution.Insert when the new
// binding would make the substitution's dependency graph cyclic (§4.B).
type CycleInSubstitutionError struct {
	Var   *Term
	Value *Term
}

func (e *CycleInSubstitutionError) Error() string {
	return fmt.Sprintf("substitution of '%s' for '%s' would introduce a cycle", e.Value, e.Var)
}

// ShadowingError is raised when a substitution's domain variable is also
// bound inside its own range in a way renaming cannot resolve (defensive;
// in practice the renamer in rename.go always finds a fresh name, so this
// is reserved for the degenerate case of an exhausted name supply).
type ShadowingError struct {
	Var *Term
}

func (e *ShadowingError) Error() string {
	return fmt.Sprintf("could not find a fresh name to avoid capturing '%s'", e.Var)
}
