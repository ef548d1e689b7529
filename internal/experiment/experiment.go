package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/newtlab/internal/newton"
)

type Config struct {
	Problem       string
	InitState     []float64
	Tolerance     float64
	MaxIterations int
	Projection    newton.Projection
	KeepTrace     bool
}

// Experiment owns one configured solver run.
type Experiment struct {
	cfg    Config
	solver *newton.Solver
}

func New(cfg Config) *Experiment {
	return &Experiment{cfg: cfg}
}

func (e *Experiment) Setup(p newton.Problem, observers ...newton.Observer) error {
	solver, err := newton.New(p, newton.Config{
		MaxIterations: e.cfg.MaxIterations,
		Tolerance:     e.cfg.Tolerance,
		Projection:    e.cfg.Projection,
		KeepTrace:     e.cfg.KeepTrace,
	})
	if err != nil {
		return err
	}
	for _, o := range observers {
		solver.AddObserver(o)
	}
	e.solver = solver
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*newton.Result, error) {
	if e.solver == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	x0 := make(newton.State, len(e.cfg.InitState))
	copy(x0, e.cfg.InitState)

	return e.solver.Solve(ctx, x0)
}
