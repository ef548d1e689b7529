package problems

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/newtlab/internal/newton"
)

// Flat is a degenerate system whose Jacobian vanishes everywhere while the
// residual stays away from zero. No Newton step exists at any point, so
// every solve reports the singular outcome. Kept in the registry to make
// the failure path easy to demonstrate.
type Flat struct{}

func NewFlat() *Flat { return &Flat{} }

func (f *Flat) Dim() int { return 2 }

func (f *Flat) Residual(s newton.State) newton.State {
	return newton.State{s[0] + 1, s[1] + 1}
}

func (f *Flat) Jacobian(s newton.State) *mat.Dense {
	return mat.NewDense(2, 2, nil)
}
