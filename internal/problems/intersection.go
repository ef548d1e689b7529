package problems

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/newtlab/internal/newton"
)

// Intersection finds a point lying on both the circle x^2 + y^2 = r^2 and
// the line x + y = sum. State layout: [x, y]. Well posed away from the
// tangency case, so this is the lab's converging example.
type Intersection struct {
	Radius float64
	Sum    float64
}

func NewIntersection() *Intersection {
	return &Intersection{
		Radius: 2.0,
		Sum:    2.0,
	}
}

func (c *Intersection) Dim() int { return 2 }

// DefaultStart sits off the x = y diagonal. On the diagonal the circle and
// line gradients are parallel and the Jacobian drops rank, so an all-ones
// start would fail on the first step.
func (c *Intersection) DefaultStart() newton.State {
	return newton.State{1.5, 0.5}
}

func (c *Intersection) Residual(s newton.State) newton.State {
	x, y := s[0], s[1]
	return newton.State{
		x*x + y*y - c.Radius*c.Radius,
		x + y - c.Sum,
	}
}

func (c *Intersection) Jacobian(s newton.State) *mat.Dense {
	x, y := s[0], s[1]
	return mat.NewDense(2, 2, []float64{
		2 * x, 2 * y,
		1, 1,
	})
}

func (c *Intersection) GetParams() map[string]float64 {
	return map[string]float64{
		"radius": c.Radius,
		"sum":    c.Sum,
	}
}

func (c *Intersection) SetParam(name string, value float64) error {
	switch name {
	case "radius":
		c.Radius = value
	case "sum":
		c.Sum = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
