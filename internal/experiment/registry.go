package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/newtlab/internal/newton"
	"github.com/san-kum/newtlab/internal/problems"
)

type Registry struct {
	problems map[string]func() newton.Problem
}

func NewRegistry() *Registry {
	r := &Registry{
		problems: make(map[string]func() newton.Problem),
	}

	r.problems["allocation"] = func() newton.Problem { return problems.NewAllocation() }
	r.problems["intersection"] = func() newton.Problem { return problems.NewIntersection() }
	r.problems["flat"] = func() newton.Problem { return problems.NewFlat() }

	return r
}

func (r *Registry) GetProblem(name string) (newton.Problem, error) {
	fn, ok := r.problems[name]
	if !ok {
		return nil, fmt.Errorf("unknown problem: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListProblems() []string {
	names := make([]string, 0, len(r.problems))
	for name := range r.problems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultInitState is the starting iterate a problem was designed for: the
// problem's own seed when it names one, otherwise the conventional all-ones
// start, which for the allocation system reproduces the canonical run.
func DefaultInitState(p newton.Problem) newton.State {
	if s, ok := p.(problems.Starter); ok {
		return s.DefaultStart().Clone()
	}
	x := make(newton.State, p.Dim())
	for i := range x {
		x[i] = 1.0
	}
	return x
}

// DefaultProjectionName names the projection a problem was designed for.
// KKT-style systems clamp every component non-negative; plain root finds
// run unconstrained.
func DefaultProjectionName(name string) string {
	switch name {
	case "allocation":
		return "clamp"
	default:
		return "free"
	}
}

func DefaultProjection(name string, dim int) newton.Projection {
	if DefaultProjectionName(name) == "clamp" {
		return newton.ClampAll(dim)
	}
	return newton.FreeAll(dim)
}
