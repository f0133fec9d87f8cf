package alethe

// Substitution is a finite mapping from variable terms to replacement
// terms, applied capture-avoidingly by Apply (§4.B). It is built
// incrementally with Insert, which rejects any binding that would make the
// map's dependency graph cyclic (x := f(y), y := g(x)), mirroring the
// teacher's Substitution type in core.go but generalized from a single
// logic-variable binding to the Alethe notion of simultaneous substitution.
type Substitution struct {
	pool *Pool
	m    map[*Term]*Term
}

// NewSubstitution returns an empty substitution over pool.
func NewSubstitution(pool *Pool) *Substitution {
	return &Substitution{pool: pool, m: make(map[*Term]*Term)}
}

// Len reports the number of bindings.
func (s *Substitution) Len() int { return len(s.m) }

// Lookup returns the term v is bound to, if any.
func (s *Substitution) Lookup(v *Term) (*Term, bool) {
	t, ok := s.m[v]
	return t, ok
}

// Insert adds a binding from v to value. It fails with
// *CycleInSubstitutionError if value's free variables, expanded through the
// substitution already built so far, would include v itself.
func (s *Substitution) Insert(v, value *Term) error {
	if s.occurs(v, value, make(map[*Term]bool)) {
		return &CycleInSubstitutionError{Var: v, Value: value}
	}
	s.m[v] = value
	return nil
}

// occurs reports whether v transitively occurs in the expansion of t under
// the bindings already present in s, guarding against infinite recursion
// with a visited set (mirrors the teacher's occurs-check walk in
// nominal_subst.go, generalized from single bindings to a substitution map).
func (s *Substitution) occurs(v, t *Term, visited map[*Term]bool) bool {
	if visited[t] {
		return false
	}
	visited[t] = true
	if t == v {
		return true
	}
	if !t.freeVars.Contains(v) {
		return false
	}
	for fv := range t.freeVars.m {
		if fv == v {
			return true
		}
		if bound, ok := s.m[fv]; ok && s.occurs(v, bound, visited) {
			return true
		}
	}
	return false
}

// Apply substitutes every free occurrence of a bound variable in t with its
// mapped value, renaming bound variables that would otherwise capture a
// free variable introduced by the substitution (§4.B). Results are memoized
// per (s, t) pair for the lifetime of the call via cache.
func (s *Substitution) Apply(t *Term) (*Term, error) {
	return s.apply(t, newRenamer(s.pool), make(map[*Term]*Term))
}

func (s *Substitution) apply(t *Term, ren *Renamer, cache map[*Term]*Term) (*Term, error) {
	if out, ok := cache[t]; ok {
		return out, nil
	}
	out, err := s.applyUncached(t, ren, cache)
	if err != nil {
		return nil, err
	}
	cache[t] = out
	return out, nil
}

func (s *Substitution) applyUncached(t *Term, ren *Renamer, cache map[*Term]*Term) (*Term, error) {
	if t.freeVars.Len() == 0 && t.kind != KindVar {
		return t, nil
	}
	switch t.kind {
	case KindConst:
		return t, nil
	case KindVar:
		if v, ok := s.m[t]; ok {
			return v, nil
		}
		return t, nil
	case KindOp:
		args, changed, err := s.applyAll(t.args, ren, cache)
		if err != nil {
			return nil, err
		}
		if !changed {
			return t, nil
		}
		return s.pool.Op(t.op, args)
	case KindApp:
		head, err := s.apply(t.head, ren, cache)
		if err != nil {
			return nil, err
		}
		args, argsChanged, err := s.applyAllSlice(t.args, ren, cache)
		if err != nil {
			return nil, err
		}
		if head == t.head && !argsChanged {
			return t, nil
		}
		return s.pool.App(head, args)
	case KindQuantifier, KindLambda, KindChoice:
		return s.applyBinder(t, ren, cache)
	case KindLet:
		return s.applyLet(t, ren, cache)
	default:
		return t, nil
	}
}

func (s *Substitution) applyAll(args []*Term, ren *Renamer, cache map[*Term]*Term) ([]*Term, bool, error) {
	return s.applyAllSlice(args, ren, cache)
}

func (s *Substitution) applyAllSlice(args []*Term, ren *Renamer, cache map[*Term]*Term) ([]*Term, bool, error) {
	out := make([]*Term, len(args))
	changed := false
	for i, a := range args {
		na, err := s.apply(a, ren, cache)
		if err != nil {
			return nil, false, err
		}
		if na != a {
			changed = true
		}
		out[i] = na
	}
	if !changed {
		return args, false, nil
	}
	return out, true, nil
}

// incomingFreeVars is the set of free variables the substitution's range
// introduces into scope, used to decide whether a binder needs renaming.
func (s *Substitution) incomingFreeVars() *VarSet {
	fv := EmptyVarSet
	for _, v := range s.m {
		fv = fv.Union(v.freeVars)
	}
	return fv
}

func (s *Substitution) applyBinder(t *Term, ren *Renamer, cache map[*Term]*Term) (*Term, error) {
	incoming := s.incomingFreeVars()
	bindings := make([]Binding, len(t.bindings))
	inner := s
	fork := func() {
		if inner == s {
			// fork a child substitution so sibling binders in this same
			// list don't see each other's renames prematurely.
			child := NewSubstitution(s.pool)
			for k, v := range s.m {
				child.m[k] = v
			}
			inner = child
		}
	}
	modified := false
	for i, b := range t.bindings {
		bv, _ := findBoundVar(t.body, b.Name)
		_, shadowsDomain := s.Lookup(bv)
		switch {
		case bv != nil && incoming.Contains(bv):
			// renaming is required: leaving the binder as-is would let a
			// free variable introduced by σ's range be captured by it.
			fresh := ren.Fresh(b.Name, b.Sort)
			fork()
			inner.m[bv] = fresh
			bindings[i] = Binding{Name: fresh.varName, Sort: b.Sort}
			modified = true
		case bv != nil && shadowsDomain:
			// the binder shadows σ's domain: bound occurrences of bv must
			// not be substituted, so drop bv from the inner map rather than
			// renaming (no capture risk, the name itself is fine).
			fork()
			delete(inner.m, bv)
			bindings[i] = b
			modified = true
		default:
			bindings[i] = b
		}
	}
	body, err := inner.apply(t.body, ren, make(map[*Term]*Term))
	if err != nil {
		return nil, err
	}
	if !modified && body == t.body {
		return t, nil
	}
	switch t.kind {
	case KindQuantifier:
		return s.pool.Quantifier(t.qKind, bindings, body), nil
	case KindLambda:
		return s.pool.Lambda(bindings, body), nil
	case KindChoice:
		return s.pool.Choice(bindings[0], body), nil
	default:
		return t, nil
	}
}

func (s *Substitution) applyLet(t *Term, ren *Renamer, cache map[*Term]*Term) (*Term, error) {
	incoming := s.incomingFreeVars()
	bindings := make([]Binding, len(t.bindings))
	changed := false
	inner := s
	fork := func() {
		if inner == s {
			child := NewSubstitution(s.pool)
			for k, v := range s.m {
				child.m[k] = v
			}
			inner = child
		}
	}
	for i, b := range t.bindings {
		val, err := s.apply(b.Value, ren, cache)
		if err != nil {
			return nil, err
		}
		if val != b.Value {
			changed = true
		}
		bv, _ := findBoundVar(t.body, b.Name)
		_, shadowsDomain := s.Lookup(bv)
		name := b.Name
		switch {
		case bv != nil && incoming.Contains(bv):
			// renaming is required: leaving the binder as-is would let a
			// free variable introduced by σ's range be captured by it.
			fresh := ren.Fresh(b.Name, bv.varSort)
			fork()
			inner.m[bv] = fresh
			name = fresh.varName
			changed = true
		case bv != nil && shadowsDomain:
			// the binder shadows σ's domain: bound occurrences of bv must
			// not be substituted, so drop bv from the inner map rather than
			// renaming.
			fork()
			delete(inner.m, bv)
			changed = true
		}
		bindings[i] = Binding{Name: name, Value: val}
	}
	body, err := inner.apply(t.body, ren, make(map[*Term]*Term))
	if err != nil {
		return nil, err
	}
	if !changed && body == t.body {
		return t, nil
	}
	return s.pool.Let(bindings, body), nil
}
