// Package sweep runs many independent solves in parallel. Each solve owns
// its problem instance and solver, so no locking is needed; goroutines
// share nothing but the outcome slice, written at distinct indices.
package sweep

import (
	"context"
	"sync"

	"github.com/san-kum/newtlab/internal/newton"
)

// Outcome pairs a starting iterate with what the solver made of it.
type Outcome struct {
	Start  newton.State
	Result *newton.Result
	Err    error
}

// Run solves from every starting point concurrently. build must return a
// fresh Problem per call; problem instances are not shared across
// goroutines.
func Run(ctx context.Context, build func() newton.Problem, cfg newton.Config, starts []newton.State) []Outcome {
	outcomes := make([]Outcome, len(starts))

	var wg sync.WaitGroup
	for i, start := range starts {
		wg.Add(1)
		go func(idx int, x0 newton.State) {
			defer wg.Done()

			outcomes[idx].Start = x0.Clone()

			solver, err := newton.New(build(), cfg)
			if err != nil {
				outcomes[idx].Err = err
				return
			}
			outcomes[idx].Result, outcomes[idx].Err = solver.Solve(ctx, x0)
		}(i, start)
	}
	wg.Wait()

	return outcomes
}

// Ray builds count starting points t*seed with t spaced evenly over
// [from, to]. Sweeping along a problem's own seed direction keeps the
// family one-parameter without forcing every component equal, which some
// problems cannot tolerate.
func Ray(seed newton.State, count int, from, to float64) []newton.State {
	if count <= 0 {
		return nil
	}

	starts := make([]newton.State, count)
	for i := range starts {
		t := from
		if count > 1 {
			t = from + (to-from)*float64(i)/float64(count-1)
		}
		x := make(newton.State, len(seed))
		for j := range x {
			x[j] = t * seed[j]
		}
		starts[i] = x
	}
	return starts
}

// Diagonal builds count starting points t*ones(dim) with t spaced evenly
// over [from, to].
func Diagonal(dim, count int, from, to float64) []newton.State {
	seed := make(newton.State, dim)
	for i := range seed {
		seed[i] = 1.0
	}
	return Ray(seed, count, from, to)
}
