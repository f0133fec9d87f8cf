package alethe

import (
	"math/big"
	"sync"

	"github.com/mitchellh/hashstructure/v2"
)

// Pool is the hash-consing term table (§4.A). Every Term in a proof run is
// built through exactly one Pool; two calls that construct the same shape
// return the identical *Term pointer, so structural equality collapses to
// pointer equality everywhere else in this package.
//
// Interning is amortized O(#immediate children): each constructor hashes a
// small key built from the node's own fields plus the *already-cached*
// uint64 hash of each child (computed when that child was itself interned),
// never the child's full subtree. Bucket collisions are broken by an exact
// shallow comparison that also only looks at immediate children, relying on
// those children already being canonical pointers.
//
// Pool is not safe for concurrent use by multiple checker runs sharing
// state beyond the mutex below; the mutex only protects the intern table
// itself, matching §5's "one Pool per proof run" invariant — callers that
// want to check many proofs concurrently use one Pool per goroutine (see
// internal/batch), not one Pool shared across goroutines.
type Pool struct {
	mu      sync.Mutex
	buckets map[uint64][]*Term

	boolTrue  *Term
	boolFalse *Term
}

// NewPool returns an empty term pool.
func NewPool() *Pool {
	return &Pool{buckets: make(map[uint64][]*Term)}
}

func hashOf(key interface{}) uint64 {
	h, err := hashstructure.Hash(key, hashstructure.FormatV2, nil)
	if err != nil {
		// The key types below are all plain value types (strings, uint64s,
		// slices thereof); hashstructure only errors on unsupported kinds
		// (channels, funcs), which never appear in a hash key here.
		panic("alethe: unhashable intern key: " + err.Error())
	}
	return h
}

func (p *Pool) intern(h uint64, same func(*Term) bool, build func() *Term) *Term {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, cand := range p.buckets[h] {
		if same(cand) {
			return cand
		}
	}
	t := build()
	t.hash = h
	p.buckets[h] = append(p.buckets[h], t)
	return t
}

func sameArgs(a, b []*Term) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func childHashes(args []*Term) []uint64 {
	hs := make([]uint64, len(args))
	for i, a := range args {
		hs[i] = a.hash
	}
	return hs
}

// Bool, True and False return the canonical Boolean literal terms.
func (p *Pool) Bool(v bool) *Term {
	if v {
		return p.boolTrueTerm()
	}
	return p.boolFalseTerm()
}

func (p *Pool) boolTrueTerm() *Term {
	if p.boolTrue == nil {
		p.boolTrue = p.ConstBool(true)
	}
	return p.boolTrue
}

func (p *Pool) boolFalseTerm() *Term {
	if p.boolFalse == nil {
		p.boolFalse = p.ConstBool(false)
	}
	return p.boolFalse
}

type constKey struct {
	Kind Kind
	CK   ConstKind
	Int  string
	Rat  string
	Str  string
	Bool bool
}

// ConstInt interns an arbitrary-precision integer literal.
func (p *Pool) ConstInt(v *big.Int) *Term {
	key := constKey{Kind: KindConst, CK: ConstInt, Int: v.String()}
	h := hashOf(key)
	return p.intern(h, func(c *Term) bool {
		return c.kind == KindConst && c.constKind == ConstInt && c.intVal.Cmp(v) == 0
	}, func() *Term {
		return &Term{kind: KindConst, constKind: ConstInt, intVal: new(big.Int).Set(v), sort: IntSort(), freeVars: EmptyVarSet}
	})
}

// ConstReal interns an arbitrary-precision rational literal.
func (p *Pool) ConstReal(v *big.Rat) *Term {
	key := constKey{Kind: KindConst, CK: ConstReal, Rat: v.RatString()}
	h := hashOf(key)
	return p.intern(h, func(c *Term) bool {
		return c.kind == KindConst && c.constKind == ConstReal && c.ratVal.Cmp(v) == 0
	}, func() *Term {
		return &Term{kind: KindConst, constKind: ConstReal, ratVal: new(big.Rat).Set(v), sort: RealSort(), freeVars: EmptyVarSet}
	})
}

// ConstString interns a string literal.
func (p *Pool) ConstString(v string) *Term {
	key := constKey{Kind: KindConst, CK: ConstString, Str: v}
	h := hashOf(key)
	return p.intern(h, func(c *Term) bool {
		return c.kind == KindConst && c.constKind == ConstString && c.strVal == v
	}, func() *Term {
		return &Term{kind: KindConst, constKind: ConstString, strVal: v, sort: StringSort(), freeVars: EmptyVarSet}
	})
}

// ConstBool interns a Boolean literal.
func (p *Pool) ConstBool(v bool) *Term {
	key := constKey{Kind: KindConst, CK: ConstBool, Bool: v}
	h := hashOf(key)
	return p.intern(h, func(c *Term) bool {
		return c.kind == KindConst && c.constKind == ConstBool && c.boolVal == v
	}, func() *Term {
		return &Term{kind: KindConst, constKind: ConstBool, boolVal: v, sort: BoolSort(), freeVars: EmptyVarSet}
	})
}

type varKey struct {
	Kind     Kind
	Name     string
	SortHash uint64
}

// Var interns a typed logic variable. sortTerm is the term-as-sort the
// variable was declared with (§3); its actual *Sort is decoded eagerly so
// SortOf never has to re-walk the declaration.
func (p *Pool) Var(name string, sortTerm *Term) *Term {
	key := varKey{Kind: KindVar, Name: name, SortHash: sortTerm.hash}
	h := hashOf(key)
	return p.intern(h, func(c *Term) bool {
		return c.kind == KindVar && c.varName == name && c.varSort == sortTerm
	}, func() *Term {
		t := &Term{kind: KindVar, varName: name, varSort: sortTerm, sort: sortFromTerm(sortTerm)}
		t.freeVars = NewVarSet(t)
		return t
	})
}

type varSortKey struct {
	Kind Kind
	Name string
	Sort string
}

// VarWithSort interns a typed variable whose sort is given directly rather
// than decoded from a sort-as-term. Function symbols need this form: their
// function sorts are what App validates against, and `sortFromTerm` can
// only produce one from an explicit `->` application.
func (p *Pool) VarWithSort(name string, sort *Sort) *Term {
	key := varSortKey{Kind: KindVar, Name: name, Sort: sort.String()}
	h := hashOf(key)
	return p.intern(h, func(c *Term) bool {
		return c.kind == KindVar && c.varName == name && c.varSort == nil && c.sort.Equal(sort)
	}, func() *Term {
		t := &Term{kind: KindVar, varName: name, sort: sort}
		t.freeVars = NewVarSet(t)
		return t
	})
}

type opKey struct {
	Kind Kind
	Op   Operator
	Args []uint64
}

// Op interns an operator application, validating arity and operand sorts
// against the operator's rules before construction succeeds (§4.A).
func (p *Pool) Op(op Operator, args []*Term) (*Term, error) {
	sort, err := checkOperatorSorts(op, args, func(t *Term) (*Sort, error) { return t.sort, nil })
	if err != nil {
		return nil, err
	}
	key := opKey{Kind: KindOp, Op: op, Args: childHashes(args)}
	h := hashOf(key)
	return p.intern(h, func(c *Term) bool {
		return c.kind == KindOp && c.op == op && sameArgs(c.args, args)
	}, func() *Term {
		fv := EmptyVarSet
		for _, a := range args {
			fv = fv.Union(a.freeVars)
		}
		return &Term{kind: KindOp, op: op, args: args, sort: sort, freeVars: fv}
	}), nil
}

type appKey struct {
	Kind Kind
	Head uint64
	Args []uint64
}

// App interns a function application. head's sort must be a SortFun whose
// argument sorts match args exactly.
func (p *Pool) App(head *Term, args []*Term) (*Term, error) {
	if head.sort == nil || head.sort.Kind != SortFun {
		return nil, &MalformedTermError{Reason: "application head is not a function", Got: head.sort}
	}
	if len(head.sort.Args) != len(args) {
		return nil, &MalformedTermError{Reason: "wrong number of arguments in application"}
	}
	for i, a := range args {
		if !a.sort.Equal(head.sort.Args[i]) {
			return nil, &MalformedTermError{Index: i, Want: head.sort.Args[i], Got: a.sort}
		}
	}
	key := appKey{Kind: KindApp, Head: head.hash, Args: childHashes(args)}
	h := hashOf(key)
	return p.intern(h, func(c *Term) bool {
		return c.kind == KindApp && c.head == head && sameArgs(c.args, args)
	}, func() *Term {
		fv := head.freeVars
		for _, a := range args {
			fv = fv.Union(a.freeVars)
		}
		return &Term{kind: KindApp, head: head, args: args, sort: head.sort.Result, freeVars: fv}
	}), nil
}

type bindKey struct {
	Name string
	Hash uint64
}

type quantKey struct {
	Kind  Kind
	QKind QuantifierKind
	Binds []bindKey
	Body  uint64
}

// Quantifier interns a forall/exists term. The bound variables are removed
// from the body's free-variable set (§4.A's binder invariant).
func (p *Pool) Quantifier(qk QuantifierKind, bindings []Binding, body *Term) *Term {
	binds := make([]bindKey, len(bindings))
	boundVars := make([]*Term, 0, len(bindings))
	for i, b := range bindings {
		binds[i] = bindKey{Name: b.Name, Hash: b.Sort.hash}
	}
	key := quantKey{Kind: KindQuantifier, QKind: qk, Binds: binds, Body: body.hash}
	h := hashOf(key)
	return p.intern(h, func(c *Term) bool {
		return c.kind == KindQuantifier && c.qKind == qk && c.body == body && sameBindings(c.bindings, bindings)
	}, func() *Term {
		fv := body.freeVars
		for _, b := range bindings {
			if bv, ok := findBoundVar(body, b.Name); ok {
				boundVars = append(boundVars, bv)
			}
		}
		fv = fv.RemoveAll(NewVarSet(boundVars...))
		return &Term{kind: KindQuantifier, qKind: qk, bindings: bindings, body: body, sort: BoolSort(), freeVars: fv}
	})
}

// Choice interns a Hilbert choice term `((_ choice ((x S)) body)`.
func (p *Pool) Choice(binding Binding, body *Term) *Term {
	key := quantKey{Kind: KindChoice, Binds: []bindKey{{Name: binding.Name, Hash: binding.Sort.hash}}, Body: body.hash}
	h := hashOf(key)
	bindings := []Binding{binding}
	return p.intern(h, func(c *Term) bool {
		return c.kind == KindChoice && c.body == body && sameBindings(c.bindings, bindings)
	}, func() *Term {
		fv := body.freeVars
		if bv, ok := findBoundVar(body, binding.Name); ok {
			fv = fv.Remove(bv)
		}
		return &Term{kind: KindChoice, bindings: bindings, body: body, sort: binding.Sort.sort, freeVars: fv}
	})
}

type letBindKey struct {
	Name  string
	Value uint64
}

type letKey struct {
	Binds []letBindKey
	Body  uint64
}

// Let interns a `let` term, binding each name to its value term in body.
func (p *Pool) Let(bindings []Binding, body *Term) *Term {
	binds := make([]letBindKey, len(bindings))
	for i, b := range bindings {
		binds[i] = letBindKey{Name: b.Name, Value: b.Value.hash}
	}
	key := letKey{Binds: binds, Body: body.hash}
	h := hashOf(key)
	return p.intern(h, func(c *Term) bool {
		return c.kind == KindLet && c.body == body && sameBindings(c.bindings, bindings)
	}, func() *Term {
		fv := body.freeVars
		bound := make([]*Term, 0, len(bindings))
		for _, b := range bindings {
			if bv, ok := findBoundVar(body, b.Name); ok {
				bound = append(bound, bv)
			}
		}
		fv = fv.RemoveAll(NewVarSet(bound...))
		for _, b := range bindings {
			fv = fv.Union(b.Value.freeVars)
		}
		return &Term{kind: KindLet, bindings: bindings, body: body, sort: body.sort, freeVars: fv}
	})
}

// Lambda interns a lambda term.
func (p *Pool) Lambda(bindings []Binding, body *Term) *Term {
	binds := make([]bindKey, len(bindings))
	for i, b := range bindings {
		binds[i] = bindKey{Name: b.Name, Hash: b.Sort.hash}
	}
	key := quantKey{Kind: KindLambda, Binds: binds, Body: body.hash}
	h := hashOf(key)
	argSorts := make([]*Sort, len(bindings))
	return p.intern(h, func(c *Term) bool {
		return c.kind == KindLambda && c.body == body && sameBindings(c.bindings, bindings)
	}, func() *Term {
		fv := body.freeVars
		bound := make([]*Term, 0, len(bindings))
		for i, b := range bindings {
			argSorts[i] = sortFromTerm(b.Sort)
			if bv, ok := findBoundVar(body, b.Name); ok {
				bound = append(bound, bv)
			}
		}
		fv = fv.RemoveAll(NewVarSet(bound...))
		return &Term{kind: KindLambda, bindings: bindings, body: body, sort: FunSort(argSorts, body.sort), freeVars: fv}
	})
}

func sameBindings(a, b []Binding) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || a[i].Sort != b[i].Sort || a[i].Value != b[i].Value {
			return false
		}
	}
	return true
}

// findBoundVar looks up the variable terms appearing free in body whose
// name matches a binder, so the binder's own Var term (already interned
// when the binder list was built) can be removed from the body's free-var
// set. Binders are expected to reuse the same Var term object the body
// refers to; this lookup guards against a caller passing a differently-
// shaped binding whose name happens to coincide.
func findBoundVar(body *Term, name string) (*Term, bool) {
	for v := range body.freeVars.m {
		if v.varName == name {
			return v, true
		}
	}
	return nil, false
}

// sortFromTerm decodes a sort-as-term into its *Sort value (§3). A sort
// term is either a bare variable naming a primitive or atomic sort, or an
// application encoding a parametric sort (Array, BitVec).
func sortFromTerm(t *Term) *Sort {
	switch t.kind {
	case KindVar:
		switch t.varName {
		case "Bool":
			return BoolSort()
		case "Int":
			return IntSort()
		case "Real":
			return RealSort()
		case "String":
			return StringSort()
		default:
			return AtomSort(t.varName)
		}
	case KindApp:
		if t.head.kind == KindVar {
			switch t.head.varName {
			case "Array":
				if len(t.args) == 2 {
					return ArraySort(sortFromTerm(t.args[0]), sortFromTerm(t.args[1]))
				}
			case "BitVec":
				if len(t.args) == 1 && t.args[0].kind == KindConst && t.args[0].constKind == ConstInt {
					return BitVecSort(int(t.args[0].intVal.Int64()))
				}
			case "->":
				if len(t.args) >= 2 {
					argSorts := make([]*Sort, len(t.args)-1)
					for i, a := range t.args[:len(t.args)-1] {
						argSorts[i] = sortFromTerm(a)
					}
					return FunSort(argSorts, sortFromTerm(t.args[len(t.args)-1]))
				}
			}
		}
		return AtomSort(t.String())
	default:
		return AtomSort(t.String())
	}
}

// SortOf returns the sort of any term built by this pool. Every
// constructor above computes and caches the sort eagerly, so this is
// always O(1); the method exists so callers don't need to reach into the
// term's private fields.
func (p *Pool) SortOf(t *Term) *Sort { return t.sort }

// FreeVars returns the set of free variables in t, computed and cached
// eagerly at construction time (§4.A).
func (p *Pool) FreeVars(t *Term) *VarSet { return t.freeVars }

// ApplySubstitution applies sub to t, interning the result in this pool
// (§4.A). It is a convenience wrapper over Substitution.Apply for callers
// holding the pool rather than the substitution's own pool reference.
func (p *Pool) ApplySubstitution(t *Term, sub *Substitution) (*Term, error) {
	return sub.Apply(t)
}
