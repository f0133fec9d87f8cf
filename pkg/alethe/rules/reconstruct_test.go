package rules

import (
	"testing"

	"github.com/hlabs/alethecheck/pkg/alethe"
)

// TestReconstructedTransChainRechecks drives the walker with reconstruction
// enabled over a trans chain whose middle link holds only modulo reordering
// of equalities, then re-checks the emitted proof: every link in the
// rewritten chain must hold syntactically, with the one flip isolated in an
// explicit refl bridge step.
func TestReconstructedTransChainRechecks(t *testing.T) {
	f := newFixture()
	p, q := f.boolVar("p"), f.boolVar("q")
	xv, yv := f.boolVar("X"), f.boolVar("Y")
	pq := f.eq(p, q)
	qp := f.eq(q, p)

	proof := &alethe.Proof{
		Commands: []*alethe.ProofCommand{
			{ID: "a0", Kind: alethe.CommandAssume, Term: f.eq(xv, pq)},
			{ID: "a1", Kind: alethe.CommandAssume, Term: f.eq(qp, yv)},
			{
				ID:       "t0",
				Kind:     alethe.CommandStep,
				Rule:     "trans",
				Premises: []alethe.PremiseRef{{ID: "a0"}, {ID: "a1"}},
				Clause:   alethe.NewClause(f.eq(xv, yv)),
			},
		},
	}
	checker := alethe.NewChecker(f.pool, Table(), alethe.Config{IsRunningTest: true, Reconstruct: true})
	if err := checker.Check(proof); err != nil {
		t.Fatalf("Check() = %v, want nil", err)
	}
	out := checker.ReconstructedProof()
	if len(out) != 4 {
		t.Fatalf("len(reconstructed) = %d, want 4 (two assumes, one bridge, one trans)", len(out))
	}
	bridge := out[2]
	if bridge.Rule != "refl" {
		t.Errorf("bridge rule = %q, want refl", bridge.Rule)
	}
	if len(bridge.Clause.Literals) != 1 {
		t.Fatalf("bridge clause length = %d, want 1", len(bridge.Clause.Literals))
	}
	bl, br, ok := bridge.Clause.Literals[0].AsEquality()
	if !ok || bl != pq || br != qp {
		t.Errorf("bridge conclusion = %s, want (= (= p q) (= q p))", bridge.Clause.Literals[0])
	}

	recheck := alethe.NewChecker(f.pool, Table(), alethe.Config{IsRunningTest: true})
	if err := recheck.Check(&alethe.Proof{Commands: out}); err != nil {
		t.Errorf("re-checking the reconstructed proof = %v, want nil", err)
	}
}

// TestReconstructPassThrough confirms a proof with no deep-equality use
// reconstructs to an equivalent command list with no bridge steps.
func TestReconstructPassThrough(t *testing.T) {
	f := newFixture()
	x, y, z := f.intVar("x"), f.intVar("y"), f.intVar("z")
	proof := &alethe.Proof{
		Commands: []*alethe.ProofCommand{
			{ID: "a0", Kind: alethe.CommandAssume, Term: f.eq(x, y)},
			{ID: "a1", Kind: alethe.CommandAssume, Term: f.eq(y, z)},
			{
				ID:       "t0",
				Kind:     alethe.CommandStep,
				Rule:     "trans",
				Premises: []alethe.PremiseRef{{ID: "a0"}, {ID: "a1"}},
				Clause:   alethe.NewClause(f.eq(x, z)),
			},
		},
	}
	checker := alethe.NewChecker(f.pool, Table(), alethe.Config{IsRunningTest: true, Reconstruct: true})
	if err := checker.Check(proof); err != nil {
		t.Fatalf("Check() = %v, want nil", err)
	}
	out := checker.ReconstructedProof()
	if len(out) != len(proof.Commands) {
		t.Fatalf("len(reconstructed) = %d, want %d", len(out), len(proof.Commands))
	}
	if err := checker.ReconstructionWarnings(); err != nil {
		t.Errorf("ReconstructionWarnings() = %v, want nil", err)
	}
}
