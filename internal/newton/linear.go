package newton

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// solveStep solves the dense linear system J*delta = -F for one Newton
// step. Singular or ill-conditioned J surfaces as ErrSingularJacobian;
// garbage is never returned.
func solveStep(j *mat.Dense, f State) (State, error) {
	n := len(f)
	rhs := make([]float64, n)
	for i, v := range f {
		rhs[i] = -v
	}

	var delta mat.VecDense
	if err := delta.SolveVec(j, mat.NewVecDense(n, rhs)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingularJacobian, err)
	}

	step := make(State, n)
	for i := range step {
		step[i] = delta.AtVec(i)
	}
	if !step.IsValid() {
		return nil, ErrSingularJacobian
	}
	return step, nil
}
