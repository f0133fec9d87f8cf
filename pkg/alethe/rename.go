package alethe

import "strconv"

// Renamer hands out deterministic fresh variable names for capture
// avoidance, the same base-name-plus-counter scheme the teacher's
// renameBound helper in nominal_subst.go uses for its single-binder case,
// generalized here to the multi-binder quantifier/let/lambda forms (§4.B).
// A Renamer is single-use: create one per top-level Apply call so the
// counter sequence, and therefore the chosen names, is a pure function of
// how many renames that one substitution needed.
type Renamer struct {
	pool    *Pool
	counter int
}

func newRenamer(pool *Pool) *Renamer {
	return &Renamer{pool: pool}
}

// Fresh returns a new variable term named base with a numeric suffix that
// has not been used by this Renamer before, declared with sortTerm.
func (r *Renamer) Fresh(base string, sortTerm *Term) *Term {
	r.counter++
	name := base + "!" + strconv.Itoa(r.counter)
	return r.pool.Var(name, sortTerm)
}
