// Package main is a demonstration driver for the alethecheck core. It is
// not the surface-syntax parser or a production CLI (those are explicitly
// out of scope, per spec.md §1's "external collaborators") — it builds a
// handful of proofs in memory, the same end-to-end scenarios spec.md's §8
// names, and checks them through internal/batch, logging the outcome of
// each the way a real driver built around this core would.
package main

import (
	"context"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/hlabs/alethecheck/internal/batch"
	"github.com/hlabs/alethecheck/pkg/alethe"
	"github.com/hlabs/alethecheck/pkg/alethe/rules"
)

func main() {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "alethe-check",
		Level: hclog.Info,
	})

	// "given" stands in for the clausification ("or") step a real proof
	// would use to turn `(or p q)` into the clause `(cl p q)`; it lets
	// resolutionOne below wire in its two clausal premises directly.
	table := rules.Table()
	table["given"] = func(alethe.RuleArgs) error { return nil }

	jobs := []batch.Job{
		resolutionOne(),
		transChain(),
		brokenTransChain(),
	}

	results, stats, err := batch.Run(context.Background(), jobs, batch.Options{RuleTable: table})
	exit := 0
	for _, r := range results {
		if r.Err != nil {
			logger.Error("proof rejected", "proof", r.Name, "reason", r.Err)
			exit = 1
			continue
		}
		logger.Info("proof accepted", "proof", r.Name)
	}
	logger.Debug("batch complete",
		"submitted", stats.Execution.TasksSubmitted,
		"completed", stats.Execution.TasksCompleted,
		"failed", stats.Execution.TasksFailed,
		"peak_workers", stats.Execution.PeakWorkerCount)
	for _, alert := range stats.Stalls {
		logger.Warn("proof check stalled", "task", alert.TaskID, "detail", alert.Description)
	}
	if err != nil {
		logger.Debug("batch aggregate error", "detail", err)
	}
	os.Exit(exit)
}

// resolutionOne builds spec.md §8's "resolution-1" scenario: premises
// `(or p q)` and `(or (not p) r)`, conclusion `(cl q r)` under `resolution`.
func resolutionOne() batch.Job {
	p := alethe.NewPool()
	bsort := p.Var("Bool", p.ConstBool(true))
	pv, q, r := p.Var("p", bsort), p.Var("q", bsort), p.Var("r", bsort)
	notP, err := p.Op(alethe.OpNot, []*alethe.Term{pv})
	if err != nil {
		panic(err)
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
	return batch.Job{Name: "resolution-1", Proof: proof, Pool: p}
}

// transChain builds spec.md §8's "trans-chain" accept case: premises
// `(= a b), (= b c), (= c d)` with conclusion `(= a d)`.
func transChain() batch.Job {
	p := alethe.NewPool()
	isort := intSort(p)
	a, b, c, d := p.Var("a", isort), p.Var("b", isort), p.Var("c", isort), p.Var("d", isort)
	eq := equalityBuilder(p)
	proof := &alethe.Proof{
		Commands: []*alethe.ProofCommand{
			{ID: "a0", Kind: alethe.CommandAssume, Term: eq(a, b)},
			{ID: "a1", Kind: alethe.CommandAssume, Term: eq(b, c)},
			{ID: "a2", Kind: alethe.CommandAssume, Term: eq(c, d)},
			{
				ID:       "t0",
				Kind:     alethe.CommandStep,
				Rule:     "trans",
				Premises: []alethe.PremiseRef{{ID: "a0"}, {ID: "a1"}, {ID: "a2"}},
				Clause:   alethe.NewClause(eq(a, d)),
			},
		},
	}
	return batch.Job{Name: "trans-chain", Proof: proof, Pool: p, Cfg: alethe.Config{IsRunningTest: true}}
}

// brokenTransChain builds spec.md §8's reject case for the same rule:
// premises `(= a b), (= c d)` with conclusion `(= a d)`, missing the link
// that would connect b to c.
func brokenTransChain() batch.Job {
	p := alethe.NewPool()
	isort := intSort(p)
	a, b, c, d := p.Var("a", isort), p.Var("b", isort), p.Var("c", isort), p.Var("d", isort)
	eq := equalityBuilder(p)
	proof := &alethe.Proof{
		Commands: []*alethe.ProofCommand{
			{ID: "a0", Kind: alethe.CommandAssume, Term: eq(a, b)},
			{ID: "a1", Kind: alethe.CommandAssume, Term: eq(c, d)},
			{
				ID:       "t0",
				Kind:     alethe.CommandStep,
				Rule:     "trans",
				Premises: []alethe.PremiseRef{{ID: "a0"}, {ID: "a1"}},
				Clause:   alethe.NewClause(eq(a, d)),
			},
		},
	}
	return batch.Job{Name: "trans-chain-broken (expected to fail)", Proof: proof, Pool: p, Cfg: alethe.Config{IsRunningTest: true}}
}

func equalityBuilder(p *alethe.Pool) func(a, b *alethe.Term) *alethe.Term {
	return func(a, b *alethe.Term) *alethe.Term {
		t, err := p.Op(alethe.OpEquals, []*alethe.Term{a, b})
		if err != nil {
			panic(err)
		}
		return t
	}
}

// intSort returns a placeholder sort-as-term for "Int", interned in p: calls
// on the same pool return the same term, so variables declared with it
// compare equal the way pkg/alethe/rules' own test fixtures do.
func intSort(p *alethe.Pool) *alethe.Term {
	return p.Var("Int", p.ConstBool(true))
}
