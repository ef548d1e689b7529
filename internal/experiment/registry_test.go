package experiment

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/newtlab/internal/newton"
)

func TestRegistryGetProblem(t *testing.T) {
	r := NewRegistry()

	prob, err := r.GetProblem("allocation")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if prob.Dim() != 6 {
		t.Errorf("expected dimension 6, got %d", prob.Dim())
	}

	if _, err := r.GetProblem("nonexistent"); err == nil {
		t.Error("expected error for unknown problem")
	}
}

func TestRegistryListProblems(t *testing.T) {
	names := NewRegistry().ListProblems()
	if len(names) < 3 {
		t.Fatalf("expected at least 3 problems, got %d", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("problem list not sorted: %v", names)
		}
	}
}

func TestDefaultInitState(t *testing.T) {
	r := NewRegistry()
	prob, _ := r.GetProblem("allocation")

	x0 := DefaultInitState(prob)
	if len(x0) != 6 {
		t.Fatalf("expected 6 components, got %d", len(x0))
	}
	for i, v := range x0 {
		if v != 1.0 {
			t.Errorf("component %d: expected 1.0, got %f", i, v)
		}
	}

	prob, _ = r.GetProblem("intersection")
	x0 = DefaultInitState(prob)
	if x0[0] == x0[1] {
		t.Errorf("intersection default start must leave the singular diagonal: %v", x0)
	}
}

// The registry defaults (start and projection) must carry the converging
// example to its root; an all-ones start would sit exactly where the
// intersection Jacobian is rank deficient.
func TestDefaultsConvergeOnIntersection(t *testing.T) {
	r := NewRegistry()
	prob, err := r.GetProblem("intersection")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	solver, err := newton.New(prob, newton.Config{
		MaxIterations: 100,
		Tolerance:     1e-6,
		Projection:    DefaultProjection("intersection", prob.Dim()),
	})
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	result, err := solver.Solve(context.Background(), DefaultInitState(prob))
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if !result.Converged() {
		t.Fatalf("default start on the converging example did not converge: %s", result.Status)
	}
	if math.Abs(result.State[0]-2) > 1e-5 || math.Abs(result.State[1]) > 1e-5 {
		t.Errorf("expected root near (2, 0), got %v", result.State)
	}
}

func TestDefaultProjection(t *testing.T) {
	p := DefaultProjection("allocation", 6)
	for _, b := range p {
		if b != newton.ClampNonNegative {
			t.Error("allocation should clamp every component")
		}
	}

	p = DefaultProjection("intersection", 2)
	for _, b := range p {
		if b != newton.Free {
			t.Error("intersection should be unconstrained")
		}
	}
}

func TestExperimentRun(t *testing.T) {
	r := NewRegistry()
	prob, err := r.GetProblem("intersection")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	exp := New(Config{
		Problem:       "intersection",
		InitState:     []float64{1.5, 0.5},
		Tolerance:     1e-6,
		MaxIterations: 100,
		Projection:    newton.FreeAll(2),
	})
	if err := exp.Setup(prob); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !result.Converged() {
		t.Errorf("expected convergence, got %s", result.Status)
	}
}

func TestExperimentNotSetup(t *testing.T) {
	exp := New(Config{Problem: "intersection"})
	if _, err := exp.Run(context.Background()); err == nil {
		t.Error("expected error for experiment without setup")
	}
}
