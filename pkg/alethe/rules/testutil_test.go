package rules

import (
	"math/big"

	"github.com/hlabs/alethecheck/pkg/alethe"
)

type fixture struct {
	pool *alethe.Pool
}

func newFixture() *fixture {
	return &fixture{pool: alethe.NewPool()}
}

func (f *fixture) boolVar(name string) *alethe.Term {
	return f.pool.Var(name, f.sortTerm("Bool"))
}

func (f *fixture) intVar(name string) *alethe.Term {
	return f.pool.Var(name, f.sortTerm("Int"))
}

func (f *fixture) sortTerm(name string) *alethe.Term {
	return sortSingleton(name)
}

var sortSingletons = map[string]*alethe.Term{}

// sortSingleton returns a stable, never-interned sort-as-term value for a
// primitive sort name, shared across every fixture so that two variables
// declared with "Int" compare equal on their VarSortTerm.
func sortSingleton(name string) *alethe.Term {
	if t, ok := sortSingletons[name]; ok {
		return t
	}
	p := alethe.NewPool()
	// Var requires a non-nil sort-as-term argument; what that placeholder
	// actually is doesn't matter here; no test ever asks for the sort of a
	// sort, only for the sort of an ordinary variable declared with it.
	t := p.Var(name, p.ConstBool(true))
	sortSingletons[name] = t
	return t
}

func (f *fixture) constInt(v int64) *alethe.Term {
	return f.pool.ConstInt(big.NewInt(v))
}

func (f *fixture) eq(a, b *alethe.Term) *alethe.Term {
	t, err := f.pool.Op(alethe.OpEquals, []*alethe.Term{a, b})
	if err != nil {
		panic(err)
	}
	return t
}

func (f *fixture) not(a *alethe.Term) *alethe.Term {
	t, err := f.pool.Op(alethe.OpNot, []*alethe.Term{a})
	if err != nil {
		panic(err)
	}
	return t
}

func (f *fixture) and(args ...*alethe.Term) *alethe.Term {
	t, err := f.pool.Op(alethe.OpAnd, args)
	if err != nil {
		panic(err)
	}
	return t
}

func (f *fixture) or(args ...*alethe.Term) *alethe.Term {
	t, err := f.pool.Op(alethe.OpOr, args)
	if err != nil {
		panic(err)
	}
	return t
}

func (f *fixture) implies(a, b *alethe.Term) *alethe.Term {
	t, err := f.pool.Op(alethe.OpImplies, []*alethe.Term{a, b})
	if err != nil {
		panic(err)
	}
	return t
}

func (f *fixture) xor(a, b *alethe.Term) *alethe.Term {
	t, err := f.pool.Op(alethe.OpXor, []*alethe.Term{a, b})
	if err != nil {
		panic(err)
	}
	return t
}

func (f *fixture) ite(cond, then, els *alethe.Term) *alethe.Term {
	t, err := f.pool.Op(alethe.OpIte, []*alethe.Term{cond, then, els})
	if err != nil {
		panic(err)
	}
	return t
}

func (f *fixture) distinct(args ...*alethe.Term) *alethe.Term {
	t, err := f.pool.Op(alethe.OpDistinct, args)
	if err != nil {
		panic(err)
	}
	return t
}

func (f *fixture) le(a, b *alethe.Term) *alethe.Term {
	t, err := f.pool.Op(alethe.OpLe, []*alethe.Term{a, b})
	if err != nil {
		panic(err)
	}
	return t
}

func (f *fixture) lt(a, b *alethe.Term) *alethe.Term {
	t, err := f.pool.Op(alethe.OpLt, []*alethe.Term{a, b})
	if err != nil {
		panic(err)
	}
	return t
}

func (f *fixture) ge(a, b *alethe.Term) *alethe.Term {
	t, err := f.pool.Op(alethe.OpGe, []*alethe.Term{a, b})
	if err != nil {
		panic(err)
	}
	return t
}

func (f *fixture) app(head *alethe.Term, args ...*alethe.Term) *alethe.Term {
	t, err := f.pool.App(head, args)
	if err != nil {
		panic(err)
	}
	return t
}

func (f *fixture) add(args ...*alethe.Term) *alethe.Term {
	t, err := f.pool.Op(alethe.OpAdd, args)
	if err != nil {
		panic(err)
	}
	return t
}

func (f *fixture) clause(lits ...*alethe.Term) *alethe.Clause {
	return alethe.NewClause(lits...)
}

func (f *fixture) args(conclusion *alethe.Clause, premises ...*alethe.Clause) RuleArgs {
	return RuleArgs{
		Pool:       f.pool,
		Context:    alethe.NewContext(f.pool),
		Conclusion: conclusion,
		Premises:   premises,
	}
}
