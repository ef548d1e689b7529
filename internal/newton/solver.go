package newton

import (
	"context"
	"fmt"
)

type Solver struct {
	problem   Problem
	cfg       Config
	observers []Observer
}

func New(problem Problem, cfg Config) (*Solver, error) {
	if problem == nil {
		return nil, fmt.Errorf("%w: problem is required", ErrBadConfig)
	}
	if n := problem.Dim(); n <= 0 {
		return nil, fmt.Errorf("%w: problem dimension must be positive, got %d", ErrBadConfig, n)
	}
	if cfg.MaxIterations < 0 {
		return nil, fmt.Errorf("%w: max iterations must not be negative, got %d", ErrBadConfig, cfg.MaxIterations)
	}
	if cfg.Tolerance < 0 {
		return nil, fmt.Errorf("%w: tolerance must not be negative, got %g", ErrBadConfig, cfg.Tolerance)
	}
	if cfg.Projection != nil && len(cfg.Projection) != problem.Dim() {
		return nil, fmt.Errorf("%w: projection has %d tags for dimension %d", ErrBadConfig, len(cfg.Projection), problem.Dim())
	}
	return &Solver{
		problem:   problem,
		cfg:       cfg,
		observers: make([]Observer, 0),
	}, nil
}

func (s *Solver) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Solve iterates from x0 toward a root of the problem's residual. The
// returned Result always carries the last iterate; a non-nil error is
// reserved for precondition violations and invalid numerics, never for
// plain non-convergence.
//
// The residual norm is checked before the Jacobian is evaluated, so a
// starting point already inside tolerance converges with zero steps and
// never touches the linear solve.
func (s *Solver) Solve(ctx context.Context, x0 State) (*Result, error) {
	n := s.problem.Dim()
	if len(x0) != n {
		return nil, fmt.Errorf("%w: initial state has %d components, problem wants %d", ErrDimensionMismatch, len(x0), n)
	}
	if !x0.IsValid() {
		return nil, fmt.Errorf("initial state: %w", ErrInvalidState)
	}

	x := x0.Clone()
	result := &Result{
		State: x,
		Trace: make([]Iteration, 0, s.cfg.MaxIterations+1),
	}

	for k := 0; ; k++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		f := s.problem.Residual(x)
		if len(f) != n {
			return result, fmt.Errorf("%w: residual has %d components at iteration %d, want %d", ErrDimensionMismatch, len(f), k, n)
		}
		if !f.IsValid() {
			return result, fmt.Errorf("residual at iteration %d: %w", k, ErrInvalidState)
		}

		norm := f.Norm()
		result.Iterations = k
		result.ResidualNorm = norm
		s.record(result, k, x, norm)

		for _, o := range s.observers {
			o.OnIteration(k, x, norm)
		}

		if norm < s.cfg.Tolerance {
			result.Status = StatusConverged
			return result, nil
		}
		if k >= s.cfg.MaxIterations {
			result.Status = StatusExhausted
			return result, nil
		}

		j := s.problem.Jacobian(x)
		if r, c := j.Dims(); r != n || c != n {
			return result, fmt.Errorf("%w: jacobian is %dx%d at iteration %d, want %dx%d", ErrDimensionMismatch, r, c, k, n, n)
		}

		delta, err := solveStep(j, f)
		if err != nil {
			result.Status = StatusSingular
			return result, nil
		}

		for i := range x {
			x[i] += delta[i]
		}
		s.cfg.Projection.Apply(x)
	}
}

func (s *Solver) record(result *Result, k int, x State, norm float64) {
	it := Iteration{Index: k, Norm: norm}
	if s.cfg.KeepTrace {
		it.State = x.Clone()
	}
	result.Trace = append(result.Trace, it)
}
