package alethe

// DeepEqMode selects one of the three term-equivalence relations the
// checker needs (§4.C): plain structural equality, equality up to
// alpha-renaming of bound variables, and equality up to reordering the two
// arguments of an equality node (so `(= a b)` and `(= b a)` compare equal).
// Because terms are hash-consed, ModeSyntactic almost always short-circuits
// on pointer equality; the recursive walk below exists for comparing terms
// built from different Pools and for the two richer modes.
type DeepEqMode uint8

const (
	ModeSyntactic DeepEqMode = iota
	ModeAlpha
	ModeReorderEq
)

// DeepEqual reports whether a and b are equivalent under mode.
func DeepEqual(a, b *Term, mode DeepEqMode) bool {
	return deepEqual(a, b, mode, newAlphaEnv())
}

// alphaEnv tracks the correspondence between bound variables introduced on
// each side of an ModeAlpha comparison. Entries are added on entry to a
// binder and removed again once that binder's body comparison returns,
// giving ordinary lexical scoping for the duration of one DeepEqual call.
type alphaEnv struct {
	fwd map[*Term]*Term
	bwd map[*Term]*Term
}

func newAlphaEnv() *alphaEnv {
	return &alphaEnv{fwd: make(map[*Term]*Term), bwd: make(map[*Term]*Term)}
}

func deepEqual(a, b *Term, mode DeepEqMode, env *alphaEnv) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if mode == ModeAlpha {
		if ra, ok := env.fwd[a]; ok {
			return ra == b
		}
		if _, ok := env.bwd[b]; ok {
			return false
		}
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindConst:
		if a.constKind != b.constKind {
			return false
		}
		switch a.constKind {
		case ConstInt:
			return a.intVal.Cmp(b.intVal) == 0
		case ConstReal:
			return a.ratVal.Cmp(b.ratVal) == 0
		case ConstString:
			return a.strVal == b.strVal
		case ConstBool:
			return a.boolVal == b.boolVal
		default:
			return false
		}
	case KindVar:
		return a.varName == b.varName && deepEqual(a.varSort, b.varSort, mode, env)
	case KindOp:
		if a.op != b.op {
			return false
		}
		if mode == ModeReorderEq && a.op == OpEquals && len(a.args) == 2 && len(b.args) == 2 {
			if deepEqual(a.args[0], b.args[0], mode, env) && deepEqual(a.args[1], b.args[1], mode, env) {
				return true
			}
			return deepEqual(a.args[0], b.args[1], mode, env) && deepEqual(a.args[1], b.args[0], mode, env)
		}
		return deepEqualSlice(a.args, b.args, mode, env)
	case KindApp:
		return deepEqual(a.head, b.head, mode, env) && deepEqualSlice(a.args, b.args, mode, env)
	case KindQuantifier:
		return a.qKind == b.qKind && deepEqualBinder(a.bindings, a.body, b.bindings, b.body, mode, env)
	case KindChoice, KindLambda, KindLet:
		return deepEqualBinder(a.bindings, a.body, b.bindings, b.body, mode, env)
	default:
		return false
	}
}

func deepEqualSlice(a, b []*Term, mode DeepEqMode, env *alphaEnv) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !deepEqual(a[i], b[i], mode, env) {
			return false
		}
	}
	return true
}

func deepEqualBinder(ab []Binding, abody *Term, bb []Binding, bbody *Term, mode DeepEqMode, env *alphaEnv) bool {
	if len(ab) != len(bb) {
		return false
	}
	var added []*Term
	ok := true
outer:
	for i := range ab {
		av, aHas := findBoundVar(abody, ab[i].Name)
		bv, bHas := findBoundVar(bbody, bb[i].Name)
		if mode == ModeAlpha {
			if aHas != bHas {
				ok = false
				break outer
			}
			if aHas {
				env.fwd[av] = bv
				env.bwd[bv] = av
				added = append(added, av)
			}
		} else if ab[i].Name != bb[i].Name {
			ok = false
			break outer
		}
		if !deepEqual(ab[i].Sort, bb[i].Sort, mode, env) {
			ok = false
			break outer
		}
		if !deepEqual(ab[i].Value, bb[i].Value, mode, env) {
			ok = false
			break outer
		}
	}
	if ok {
		ok = deepEqual(abody, bbody, mode, env)
	}
	for _, av := range added {
		bv := env.fwd[av]
		delete(env.fwd, av)
		delete(env.bwd, bv)
	}
	return ok
}
