// Package batch checks many independent Alethe proofs concurrently. Each
// proof gets its own pkg/alethe.Pool and pkg/alethe.Checker — never shared
// across goroutines, preserving §5's single-pool-per-check invariant — so
// the only thing shared between workers is the internal/parallel.WorkerPool
// that schedules them (§9: "a reimplementation may parallelize across
// independent proof files trivially"). Every job is also registered with
// the pool's DeadlockDetector for the duration of its check, so a proof
// whose resolution search or simplification cycle guard goes pathological
// surfaces as a named stall alert instead of silently hanging the batch.
package batch

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/hlabs/alethecheck/internal/parallel"
	"github.com/hlabs/alethecheck/pkg/alethe"
	"github.com/hlabs/alethecheck/pkg/alethe/rules"
)

// Job is one proof file to check.
type Job struct {
	// Name identifies the job in Result and in any error returned (e.g. a
	// file path); it has no meaning to the checker itself.
	Name  string
	Proof *alethe.Proof
	// Pool is the term pool Proof's terms were interned in. It must not be
	// shared with any other job: rules compare and build terms through the
	// checker's pool, so handing the checker a different pool than the one
	// the proof was built in would break interned-pointer equality (§5's
	// one-pool-per-check invariant). Nil gets a fresh pool, which is only
	// correct for an empty proof.
	Pool *alethe.Pool
	Cfg  alethe.Config
}

// Result is one job's outcome.
type Result struct {
	Name string
	Err  error
}

// Options controls the worker pool backing Run.
type Options struct {
	// MaxWorkers bounds concurrency; zero uses one worker per CPU (see
	// parallel.NewWorkerPool).
	MaxWorkers int
	// RuleTable overrides the rule table every job's Checker uses; nil uses
	// rules.Table() (the full ~70-rule kernel).
	RuleTable alethe.RuleTable
}

// Stats reports how a batch run went: the underlying worker pool's
// execution statistics (tasks submitted/completed/failed, scaling events,
// throughput) plus any stall alerts its DeadlockDetector raised while the
// batch was running.
type Stats struct {
	Execution parallel.ExecutionStats
	Stalls    []parallel.DeadlockAlert
}

// Run checks every job in jobs concurrently, one Pool and one Checker per
// job, and returns one Result per job in the same order jobs were given
// (jobs complete in whatever order their workers finish; each worker
// writes its Result into its job's own slot of the slice). The
// aggregate *multierror.Error collects every job's failure so a caller can
// decide whether to treat any failure as fatal to the whole batch.
func Run(ctx context.Context, jobs []Job, opts Options) ([]Result, Stats, error) {
	table := opts.RuleTable
	if table == nil {
		table = rules.Table()
	}

	pool := parallel.NewWorkerPool(opts.MaxWorkers)
	detector := pool.GetDeadlockDetector()

	results := make([]Result, len(jobs))
	var wg sync.WaitGroup
	var mu sync.Mutex
	var errs *multierror.Error
	var stalls []parallel.DeadlockAlert
	stopDraining := make(chan struct{})
	drained := make(chan struct{})
	alerts := detector.GetAlerts()
	go func() {
		defer close(drained)
		for {
			select {
			case alert := <-alerts:
				mu.Lock()
				stalls = append(stalls, alert)
				mu.Unlock()
			case <-stopDraining:
				// the detector's alert channel is never closed (it outlives
				// this batch), so drain whatever is already buffered and
				// return instead of ranging forever.
				for {
					select {
					case alert := <-alerts:
						mu.Lock()
						stalls = append(stalls, alert)
						mu.Unlock()
					default:
						return
					}
				}
			}
		}
	}()

	for i, job := range jobs {
		i, job := i, job
		wg.Add(1)
		task := func() {
			defer wg.Done()
			detector.RegisterTask(job.Name, fmt.Sprintf("checking proof %q (%d commands)", job.Name, len(job.Proof.Commands)))
			defer detector.UnregisterTask(job.Name)
			termPool := job.Pool
			if termPool == nil {
				termPool = alethe.NewPool()
			}
			checker := alethe.NewChecker(termPool, table, job.Cfg)
			err := checker.Check(job.Proof)
			results[i] = Result{Name: job.Name, Err: err}
			if err != nil {
				mu.Lock()
				errs = multierror.Append(errs, fmt.Errorf("%s: %w", job.Name, err))
				mu.Unlock()
			}
		}
		if err := pool.Submit(ctx, task); err != nil {
			wg.Done()
			results[i] = Result{Name: job.Name, Err: err}
			mu.Lock()
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", job.Name, err))
			mu.Unlock()
			continue
		}
	}
	wg.Wait()
	pool.Shutdown()
	close(stopDraining)
	<-drained

	mu.Lock()
	stats := Stats{Execution: pool.GetStats().GetStats(), Stalls: stalls}
	mu.Unlock()

	return results, stats, errs.ErrorOrNil()
}
