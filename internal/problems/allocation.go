package problems

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/newtlab/internal/newton"
)

// Diagnoser reports derived quantities of a candidate state. Values are
// purely presentational; nothing here feeds back into the solve.
type Diagnoser interface {
	Diagnostics(x newton.State) map[string]float64
}

// Configurable problems accept coefficient overrides by name.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Starter problems name a starting iterate inside their convergence basin.
// Problems without one start from all ones.
type Starter interface {
	DefaultStart() newton.State
}

// Allocation is the Lagrangian stationarity system of the two-variable
// program
//
//	min  c1*x1 + c2*x2
//	s.t. x1 + x2 = budget      (multiplier l1)
//	     -x1 = 0               (multiplier l2)
//	     -x2 = 0               (multiplier l3)
//	     x1^2 + x2^2 = quad    (multiplier mu)
//
// State layout: [x1, x2, l1, l2, l3, mu].
//
// With the default parameters the constraint set is infeasible (x1 = x2 = 0
// contradicts x1 + x2 = 4), and the three linear constraint gradients are
// linearly dependent, so the exact Jacobian is singular at every point. The
// solver reports a failure on this problem every run; it exists as the
// canonical diagnostic case, not as something that converges.
type Allocation struct {
	C1, C2 float64
	Budget float64
	Quad   float64
}

func NewAllocation() *Allocation {
	return &Allocation{
		C1:     3.0,
		C2:     4.0,
		Budget: 4.0,
		Quad:   4.0,
	}
}

func (a *Allocation) Dim() int { return 6 }

func (a *Allocation) Residual(s newton.State) newton.State {
	x1, x2 := s[0], s[1]
	l1, l2, l3 := s[2], s[3], s[4]
	mu := s[5]

	return newton.State{
		a.C1 + l1 - l2 + 2*mu*x1,
		a.C2 + l1 - l3 + 2*mu*x2,
		x1 + x2 - a.Budget,
		-x1,
		-x2,
		x1*x1 + x2*x2 - a.Quad,
	}
}

func (a *Allocation) Jacobian(s newton.State) *mat.Dense {
	x1, x2, mu := s[0], s[1], s[5]

	return mat.NewDense(6, 6, []float64{
		2 * mu, 0, 1, -1, 0, 2 * x1,
		0, 2 * mu, 1, 0, -1, 2 * x2,
		1, 1, 0, 0, 0, 0,
		-1, 0, 0, 0, 0, 0,
		0, -1, 0, 0, 0, 0,
		2 * x1, 2 * x2, 0, 0, 0, 0,
	})
}

// Objective evaluates the underlying linear objective at a state.
func (a *Allocation) Objective(s newton.State) float64 {
	return a.C1*s[0] + a.C2*s[1]
}

// Diagnostics returns the objective value and the complementarity product
// of each multiplier with its constraint slack.
func (a *Allocation) Diagnostics(s newton.State) map[string]float64 {
	x1, x2 := s[0], s[1]
	return map[string]float64{
		"objective":   a.Objective(s),
		"comp_budget": s[2] * (x1 + x2 - a.Budget),
		"comp_x1":     s[3] * -x1,
		"comp_x2":     s[4] * -x2,
		"comp_quad":   s[5] * (x1*x1 + x2*x2 - a.Quad),
	}
}

func (a *Allocation) GetParams() map[string]float64 {
	return map[string]float64{
		"c1":     a.C1,
		"c2":     a.C2,
		"budget": a.Budget,
		"quad":   a.Quad,
	}
}

func (a *Allocation) SetParam(name string, value float64) error {
	switch name {
	case "c1":
		a.C1 = value
	case "c2":
		a.C2 = value
	case "budget":
		a.Budget = value
	case "quad":
		a.Quad = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
