package alethe

import (
	"fmt"
	"math/big"
	"strings"
)

// Kind discriminates the variant a Term holds. Every Term carries exactly
// one of these shapes, mirroring the teacher's tagged Term/Atom/Pair split
// in core.go but widened to the full Alethe term grammar (§3).
type Kind uint8

const (
	KindConst Kind = iota
	KindVar
	KindOp
	KindApp
	KindQuantifier
	KindChoice
	KindLet
	KindLambda
)

func (k Kind) String() string {
	switch k {
	case KindConst:
		return "const"
	case KindVar:
		return "var"
	case KindOp:
		return "op"
	case KindApp:
		return "app"
	case KindQuantifier:
		return "quantifier"
	case KindChoice:
		return "choice"
	case KindLet:
		return "let"
	case KindLambda:
		return "lambda"
	default:
		return "unknown"
	}
}

// ConstKind discriminates the four constant literal shapes (§3).
type ConstKind uint8

const (
	ConstInt ConstKind = iota
	ConstReal
	ConstString
	ConstBool
)

// QuantifierKind is forall or exists.
type QuantifierKind uint8

const (
	Forall QuantifierKind = iota
	Exists
)

func (q QuantifierKind) String() string {
	if q == Forall {
		return "forall"
	}
	return "exists"
}

// Binding is one (name, sort) pair in a quantifier, let, or lambda binding
// list. The sort is itself a Term (§3: "the sort itself is represented as a
// term, enabling uniform hashing"); for let bindings, Sort is nil and Value
// holds the bound value term instead.
type Binding struct {
	Name  string
	Sort  *Term // quantifier / lambda binder sort-as-term; nil for let bindings
	Value *Term // let binding value; nil for quantifier/lambda binders
}

// Term is a hash-consed node in the Alethe term DAG. Term values are only
// ever constructed through a Pool, which guarantees that any two Terms with
// the same shape are the same pointer (§3 invariants). Term is otherwise
// immutable: the sort/freeVars/hash fields are write-once caches populated
// lazily by the pool that interned the term.
type Term struct {
	kind Kind

	// KindConst
	constKind ConstKind
	intVal    *big.Int
	ratVal    *big.Rat
	strVal    string
	boolVal   bool

	// KindVar
	varName string
	varSort *Term // the declared sort, represented as a term

	// KindOp / KindApp
	op   Operator // valid when kind == KindOp
	head *Term    // valid when kind == KindApp
	args []*Term  // Op operands, or App arguments

	// KindQuantifier / KindChoice / KindLet / KindLambda
	qKind    QuantifierKind // valid when kind == KindQuantifier
	bindings []Binding
	body     *Term

	// Pool-maintained caches. Populated on first use, never invalidated
	// (§4.A: "The sort cache is populated on first sort_of and never
	// invalidated").
	sort     *Sort
	freeVars *VarSet
	hash     uint64
}

// Kind returns the term's shape discriminator.
func (t *Term) Kind() Kind { return t.kind }

// IsVar reports whether t is a logic (typed) variable.
func (t *Term) IsVar() bool { return t.kind == KindVar }

// IsConst reports whether t is a literal constant.
func (t *Term) IsConst() bool { return t.kind == KindConst }

// VarName returns the variable's name; valid only when IsVar().
func (t *Term) VarName() string { return t.varName }

// VarSortTerm returns the term-as-sort the variable was declared with.
func (t *Term) VarSortTerm() *Term { return t.varSort }

// Op returns the operator; valid only when Kind() == KindOp.
func (t *Term) Op() Operator { return t.op }

// Args returns the operator's operands, or an App's arguments.
func (t *Term) Args() []*Term { return t.args }

// Head returns the function being applied; valid only when Kind() == KindApp.
func (t *Term) Head() *Term { return t.head }

// QuantifierKind returns forall/exists; valid only for KindQuantifier.
func (t *Term) QuantifierKind() QuantifierKind { return t.qKind }

// Bindings returns the binder list of a quantifier, choice, let, or lambda.
func (t *Term) Bindings() []Binding { return t.bindings }

// Body returns the body of a quantifier, choice, let, or lambda.
func (t *Term) Body() *Term { return t.body }

// ConstKind returns the literal's shape; valid only when IsConst().
func (t *Term) ConstKind() ConstKind { return t.constKind }

// IntValue returns the arbitrary-precision integer literal.
func (t *Term) IntValue() *big.Int { return t.intVal }

// RatValue returns the arbitrary-precision rational literal.
func (t *Term) RatValue() *big.Rat { return t.ratVal }

// StringValue returns the string literal.
func (t *Term) StringValue() string { return t.strVal }

// BoolValue returns the Boolean literal.
func (t *Term) BoolValue() bool { return t.boolVal }

// IsBoolConst reports whether t is the Boolean literal true or false.
func (t *Term) IsBoolConst(value bool) bool {
	return t.kind == KindConst && t.constKind == ConstBool && t.boolVal == value
}

// IsNegation reports whether t is (not x), returning x if so.
func (t *Term) IsNegation() (*Term, bool) {
	if t.kind == KindOp && t.op == OpNot && len(t.args) == 1 {
		return t.args[0], true
	}
	return nil, false
}

// AsEquality reports whether t is a binary (= a b), returning a, b if so.
func (t *Term) AsEquality() (*Term, *Term, bool) {
	if t.kind == KindOp && t.op == OpEquals && len(t.args) == 2 {
		return t.args[0], t.args[1], true
	}
	return nil, nil, false
}

// String renders a term in SMT-LIB-like s-expression syntax. This is used
// for diagnostics only; it never participates in equality or hashing.
func (t *Term) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t *Term) write(b *strings.Builder) {
	switch t.kind {
	case KindConst:
		switch t.constKind {
		case ConstInt:
			b.WriteString(t.intVal.String())
		case ConstReal:
			b.WriteString(t.ratVal.RatString())
		case ConstString:
			fmt.Fprintf(b, "%q", t.strVal)
		case ConstBool:
			if t.boolVal {
				b.WriteString("true")
			} else {
				b.WriteString("false")
			}
		}
	case KindVar:
		b.WriteString(t.varName)
	case KindOp:
		fmt.Fprintf(b, "(%s", t.op)
		for _, a := range t.args {
			b.WriteByte(' ')
			a.write(b)
		}
		b.WriteByte(')')
	case KindApp:
		b.WriteByte('(')
		t.head.write(b)
		for _, a := range t.args {
			b.WriteByte(' ')
			a.write(b)
		}
		b.WriteByte(')')
	case KindQuantifier:
		fmt.Fprintf(b, "(%s (", t.qKind)
		for i, bd := range t.bindings {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(b, "(%s %s)", bd.Name, bd.Sort)
		}
		b.WriteString(") ")
		t.body.write(b)
		b.WriteByte(')')
	case KindChoice:
		bd := t.bindings[0]
		fmt.Fprintf(b, "(choice ((%s %s)) ", bd.Name, bd.Sort)
		t.body.write(b)
		b.WriteByte(')')
	case KindLet:
		b.WriteString("(let (")
		for i, bd := range t.bindings {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(b, "(%s %s)", bd.Name, bd.Value)
		}
		b.WriteString(") ")
		t.body.write(b)
		b.WriteByte(')')
	case KindLambda:
		b.WriteString("(lambda (")
		for i, bd := range t.bindings {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(b, "(%s %s)", bd.Name, bd.Sort)
		}
		b.WriteString(") ")
		t.body.write(b)
		b.WriteByte(')')
	default:
		b.WriteString("<bad-term>")
	}
}
