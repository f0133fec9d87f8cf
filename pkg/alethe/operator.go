package alethe

import "fmt"

// Operator enumerates the built-in operators a KindOp term can carry (§3).
// Chainable/variadic operators (And, Or, Equals, Distinct, Add, Sub, Mult,
// Implies) are stored with their full argument list; nary_elim is the rule
// that relates that n-ary form to its pairwise/nested binary expansion.
type Operator uint8

const (
	OpNot Operator = iota
	OpAnd
	OpOr
	OpImplies
	OpXor
	OpEquals
	OpDistinct
	OpIte

	OpAdd
	OpSub
	OpMult
	OpDiv
	OpIntDiv // "div"
	OpMod
	OpLt
	OpLe
	OpGt
	OpGe
)

var operatorNames = map[Operator]string{
	OpNot:      "not",
	OpAnd:      "and",
	OpOr:       "or",
	OpImplies:  "=>",
	OpXor:      "xor",
	OpEquals:   "=",
	OpDistinct: "distinct",
	OpIte:      "ite",
	OpAdd:      "+",
	OpSub:      "-",
	OpMult:     "*",
	OpDiv:      "/",
	OpIntDiv:   "div",
	OpMod:      "mod",
	OpLt:       "<",
	OpLe:       "<=",
	OpGt:       ">",
	OpGe:       ">=",
}

func (o Operator) String() string {
	if name, ok := operatorNames[o]; ok {
		return name
	}
	return fmt.Sprintf("<unknown-op-%d>", uint8(o))
}

// IsChainable reports whether the operator's multi-arity term is related to
// a pairwise-AND form by nary_elim (only "=").
func (o Operator) IsChainable() bool { return o == OpEquals }

// IsLeftAssoc reports whether the operator's multi-arity term is related to
// a left-nested binary form by nary_elim ("+", "-", "*").
func (o Operator) IsLeftAssoc() bool {
	return o == OpAdd || o == OpSub || o == OpMult
}

// IsRightAssoc reports whether the operator's multi-arity term is related
// to a right-nested binary form by nary_elim ("=>").
func (o Operator) IsRightAssoc() bool { return o == OpImplies }

// IsComparison reports whether the operator is a chainable arithmetic
// comparison (used by comp_simplify and la_generic).
func (o Operator) IsComparison() bool {
	switch o {
	case OpLt, OpLe, OpGt, OpGe, OpEquals:
		return true
	default:
		return false
	}
}

// checkOperatorSorts validates an operator application's arity and operand
// sorts, and returns the sort of the resulting term. It is the "operator's
// argument count and sorts satisfy that operator's arity/sort rules, or
// construction is rejected" invariant from §3/§4.A.
func checkOperatorSorts(op Operator, args []*Term, sortOf func(*Term) (*Sort, error)) (*Sort, error) {
	sorts := make([]*Sort, len(args))
	for i, a := range args {
		s, err := sortOf(a)
		if err != nil {
			return nil, err
		}
		sorts[i] = s
	}

	allEqualTo := func(want *Sort) error {
		for i, s := range sorts {
			if !s.Equal(want) {
				return &MalformedTermError{Op: op, Index: i, Want: want, Got: s}
			}
		}
		return nil
	}
	allSameSort := func() (*Sort, error) {
		if len(sorts) == 0 {
			return nil, &MalformedTermError{Op: op, Reason: "expects at least one argument"}
		}
		for i := 1; i < len(sorts); i++ {
			if !sorts[i].Equal(sorts[0]) {
				return nil, &MalformedTermError{Op: op, Index: i, Want: sorts[0], Got: sorts[i]}
			}
		}
		return sorts[0], nil
	}
	allNumeric := func() (*Sort, error) {
		s, err := allSameSort()
		if err != nil {
			return nil, err
		}
		if !s.IsNumeric() {
			return nil, &MalformedTermError{Op: op, Reason: "expects numeric arguments", Got: s}
		}
		return s, nil
	}

	switch op {
	case OpNot:
		if len(args) != 1 {
			return nil, &MalformedTermError{Op: op, Reason: "expects exactly 1 argument"}
		}
		return BoolSort(), allEqualTo(BoolSort())
	case OpAnd, OpOr:
		if len(args) < 1 {
			return nil, &MalformedTermError{Op: op, Reason: "expects at least 1 argument"}
		}
		return BoolSort(), allEqualTo(BoolSort())
	case OpImplies:
		if len(args) < 2 {
			return nil, &MalformedTermError{Op: op, Reason: "expects at least 2 arguments"}
		}
		return BoolSort(), allEqualTo(BoolSort())
	case OpXor:
		if len(args) != 2 {
			return nil, &MalformedTermError{Op: op, Reason: "expects exactly 2 arguments"}
		}
		return BoolSort(), allEqualTo(BoolSort())
	case OpEquals, OpDistinct:
		if len(args) < 2 {
			return nil, &MalformedTermError{Op: op, Reason: "expects at least 2 arguments"}
		}
		_, err := allSameSort()
		return BoolSort(), err
	case OpIte:
		if len(args) != 3 {
			return nil, &MalformedTermError{Op: op, Reason: "expects exactly 3 arguments"}
		}
		if !sorts[0].Equal(BoolSort()) {
			return nil, &MalformedTermError{Op: op, Index: 0, Want: BoolSort(), Got: sorts[0]}
		}
		if !sorts[1].Equal(sorts[2]) {
			return nil, &MalformedTermError{Op: op, Index: 2, Want: sorts[1], Got: sorts[2]}
		}
		return sorts[1], nil
	case OpAdd, OpMult:
		if len(args) < 1 {
			return nil, &MalformedTermError{Op: op, Reason: "expects at least 1 argument"}
		}
		return allNumeric()
	case OpSub:
		if len(args) < 1 {
			return nil, &MalformedTermError{Op: op, Reason: "expects at least 1 argument"}
		}
		return allNumeric()
	case OpDiv:
		if len(args) < 2 {
			return nil, &MalformedTermError{Op: op, Reason: "expects at least 2 arguments"}
		}
		return allNumeric()
	case OpIntDiv, OpMod:
		if len(args) != 2 {
			return nil, &MalformedTermError{Op: op, Reason: "expects exactly 2 arguments"}
		}
		return IntSort(), allEqualTo(IntSort())
	case OpLt, OpLe, OpGt, OpGe:
		if len(args) < 2 {
			return nil, &MalformedTermError{Op: op, Reason: "expects at least 2 arguments"}
		}
		_, err := allNumeric()
		return BoolSort(), err
	default:
		return nil, &MalformedTermError{Op: op, Reason: "unknown operator"}
	}
}
