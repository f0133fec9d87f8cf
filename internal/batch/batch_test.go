package batch

import (
	"context"
	"testing"

	"github.com/hlabs/alethecheck/pkg/alethe"
	"github.com/hlabs/alethecheck/pkg/alethe/rules"
)

// acceptAllTable is a minimal rule table sufficient to exercise batch
// scheduling without depending on pkg/alethe/rules' real ~70-rule kernel
// (which batch_test does exercise separately, in TestRunWithRealRuleTable).
func acceptAllTable() alethe.RuleTable {
	return alethe.RuleTable{
		"accept": func(alethe.RuleArgs) error { return nil },
		"reject": func(a alethe.RuleArgs) error { return alethe.ErrUnspecified.New() },
	}
}

func boolVar(p *alethe.Pool, name string) *alethe.Term {
	return p.Var(name, p.ConstBool(true))
}

func oneStepProof(rule string) *alethe.Proof {
	p := alethe.NewPool()
	x := boolVar(p, "x")
	return &alethe.Proof{
		Premises: []*alethe.Term{x},
		Commands: []*alethe.ProofCommand{
			{ID: "a0", Kind: alethe.CommandAssume, Term: x},
			{
				ID:       "t0",
				Kind:     alethe.CommandStep,
				Rule:     rule,
				Premises: []alethe.PremiseRef{{ID: "a0"}},
				Clause:   alethe.NewClause(x),
			},
		},
	}
}

func TestRunChecksEachJobIndependently(t *testing.T) {
	jobs := []Job{
		{Name: "ok-1", Proof: oneStepProof("accept")},
		{Name: "bad-1", Proof: oneStepProof("reject")},
		{Name: "ok-2", Proof: oneStepProof("accept")},
	}
	results, stats, err := Run(context.Background(), jobs, Options{MaxWorkers: 2, RuleTable: acceptAllTable()})
	if err == nil {
		t.Fatal("Run() error = nil, want non-nil aggregate error for the failing job")
	}
	if len(results) != len(jobs) {
		t.Fatalf("len(results) = %d, want %d", len(results), len(jobs))
	}
	if stats.Execution.TasksSubmitted != int64(len(jobs)) {
		t.Errorf("stats.Execution.TasksSubmitted = %d, want %d", stats.Execution.TasksSubmitted, len(jobs))
	}
	for i, want := range []bool{true, false, true} {
		ok := results[i].Err == nil
		if ok != want {
			t.Errorf("results[%d] (%s) ok = %v, want %v (err=%v)", i, results[i].Name, ok, want, results[i].Err)
		}
		if results[i].Name != jobs[i].Name {
			t.Errorf("results[%d].Name = %q, want %q", i, results[i].Name, jobs[i].Name)
		}
	}
}

func TestRunAllSucceedYieldsNilError(t *testing.T) {
	jobs := []Job{
		{Name: "a", Proof: oneStepProof("accept")},
		{Name: "b", Proof: oneStepProof("accept")},
	}
	results, _, err := Run(context.Background(), jobs, Options{RuleTable: acceptAllTable()})
	if err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}
	for _, r := range results {
		if r.Err != nil {
			t.Errorf("job %s: %v", r.Name, r.Err)
		}
	}
}

func TestRunEmptyBatch(t *testing.T) {
	results, stats, err := Run(context.Background(), nil, Options{RuleTable: acceptAllTable()})
	if err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}
	if len(results) != 0 {
		t.Fatalf("len(results) = %d, want 0", len(results))
	}
	if stats.Execution.TasksSubmitted != 0 {
		t.Errorf("stats.Execution.TasksSubmitted = %d, want 0", stats.Execution.TasksSubmitted)
	}
}

// TestRunWithRealRuleTable exercises Run against the real rule kernel
// (pkg/alethe/rules.Table, the default when Options.RuleTable is nil) on a
// resolution step, the same resolution-1 scenario spec.md's §8 names. The
// two clausal premises are established by a trivial "given" step standing
// in for the clausification ("or") steps a real proof would use to turn
// `(or p q)` into the clause `(cl p q)`; resolution itself runs through
// the unmodified rule table.
func TestRunWithRealRuleTable(t *testing.T) {
	p := alethe.NewPool()
	bsort := p.Var("Bool", p.ConstBool(true))
	pv := p.Var("p", bsort)
	q := p.Var("q", bsort)
	r := p.Var("r", bsort)
	notP, err := p.Op(alethe.OpNot, []*alethe.Term{pv})
	if err != nil {
		t.Fatal(err)
	}

	proof := &alethe.Proof{
		Commands: []*alethe.ProofCommand{
			{ID: "c0", Kind: alethe.CommandStep, Rule: "given", Clause: alethe.NewClause(pv, q)},
			{ID: "c1", Kind: alethe.CommandStep, Rule: "given", Clause: alethe.NewClause(notP, r)},
			{
				ID:       "t0",
				Kind:     alethe.CommandStep,
				Rule:     "resolution",
				Premises: []alethe.PremiseRef{{ID: "c0"}, {ID: "c1"}},
				Clause:   alethe.NewClause(q, r),
			},
		},
	}

	table := rules.Table()
	table["given"] = func(alethe.RuleArgs) error { return nil }

	jobs := []Job{{Name: "resolution-1", Proof: proof, Pool: p}}
	results, stats, err := Run(context.Background(), jobs, Options{RuleTable: table})
	if err != nil {
		t.Fatalf("Run() error = %v, want nil: %v", err, results[0].Err)
	}
	if stats.Execution.TasksCompleted != 1 {
		t.Errorf("stats.Execution.TasksCompleted = %d, want 1", stats.Execution.TasksCompleted)
	}
}
