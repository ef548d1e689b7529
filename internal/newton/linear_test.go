package newton

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestSolveStep(t *testing.T) {
	j := mat.NewDense(2, 2, []float64{2, 0, 0, 4})
	f := State{2, 8}

	delta, err := solveStep(j, f)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}

	if math.Abs(delta[0]+1) > 1e-12 {
		t.Errorf("expected delta[0] = -1, got %f", delta[0])
	}
	if math.Abs(delta[1]+2) > 1e-12 {
		t.Errorf("expected delta[1] = -2, got %f", delta[1])
	}
}

func TestSolveStepCoupled(t *testing.T) {
	// J = [[1, 1], [1, -1]], F = (2, 0) => delta = (-1, -1)
	j := mat.NewDense(2, 2, []float64{1, 1, 1, -1})
	f := State{2, 0}

	delta, err := solveStep(j, f)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}

	if math.Abs(delta[0]+1) > 1e-12 || math.Abs(delta[1]+1) > 1e-12 {
		t.Errorf("expected (-1, -1), got %v", delta)
	}
}

func TestSolveStepSingular(t *testing.T) {
	j := mat.NewDense(2, 2, nil)
	f := State{1, 1}

	if _, err := solveStep(j, f); !errors.Is(err, ErrSingularJacobian) {
		t.Errorf("expected singular jacobian error, got %v", err)
	}
}

func TestSolveStepDependentRows(t *testing.T) {
	j := mat.NewDense(2, 2, []float64{1, 2, 2, 4})
	f := State{1, 1}

	if _, err := solveStep(j, f); !errors.Is(err, ErrSingularJacobian) {
		t.Errorf("expected singular jacobian error, got %v", err)
	}
}
