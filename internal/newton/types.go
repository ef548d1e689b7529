package newton

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Norm returns the Euclidean norm.
func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Problem supplies the residual system F(x) = 0 and its analytic Jacobian.
// Residual and Jacobian must be pure: deterministic and free of side
// effects, or the convergence guarantees do not hold.
type Problem interface {
	Dim() int
	Residual(x State) State
	Jacobian(x State) *mat.Dense
}

// Func adapts two bare closures into a Problem.
type Func struct {
	N int
	R func(x State) State
	J func(x State) *mat.Dense
}

func (f Func) Dim() int { return f.N }

func (f Func) Residual(x State) State { return f.R(x) }

func (f Func) Jacobian(x State) *mat.Dense { return f.J(x) }

// Bound tags a single state component with a post-step projection rule.
type Bound int

const (
	// Free leaves the component untouched.
	Free Bound = iota
	// ClampNonNegative clamps the component to zero from below. Standard
	// KKT theory wants this for inequality multipliers only; equality
	// multipliers are sign-free, so clamping everything is a modeling
	// choice, not a theorem.
	ClampNonNegative
)

// Projection is a per-component bound policy, one tag per state component.
// A nil Projection leaves the state unconstrained.
type Projection []Bound

// ClampAll tags every component ClampNonNegative.
func ClampAll(n int) Projection {
	p := make(Projection, n)
	for i := range p {
		p[i] = ClampNonNegative
	}
	return p
}

// FreeAll tags every component Free.
func FreeAll(n int) Projection {
	return make(Projection, n)
}

// Apply projects x in place.
func (p Projection) Apply(x State) {
	for i, b := range p {
		if i >= len(x) {
			return
		}
		if b == ClampNonNegative && x[i] < 0 {
			x[i] = 0
		}
	}
}

type Config struct {
	// MaxIterations bounds the number of Newton steps. Zero means a single
	// convergence check on the initial state and no steps.
	MaxIterations int
	// Tolerance is the residual-norm threshold for convergence.
	Tolerance float64
	// Projection is applied to the state after every step. Nil means no
	// projection.
	Projection Projection
	// KeepTrace records every iterate in the result, not just norms.
	KeepTrace bool
}

func DefaultConfig() Config {
	return Config{
		MaxIterations: 100,
		Tolerance:     1e-6,
	}
}

// Status is the terminal outcome of a solve.
type Status int

const (
	// StatusConverged means the residual norm dropped below tolerance.
	StatusConverged Status = iota
	// StatusExhausted means the iteration budget ran out. A normal,
	// reportable outcome, not an error.
	StatusExhausted
	// StatusSingular means a Newton step could not be computed because the
	// Jacobian was singular or numerically degenerate.
	StatusSingular
)

func (s Status) String() string {
	switch s {
	case StatusConverged:
		return "converged"
	case StatusExhausted:
		return "exhausted"
	case StatusSingular:
		return "singular"
	default:
		return "unknown"
	}
}

// Iteration is one recorded point of the solve trace.
type Iteration struct {
	Index int
	Norm  float64
	State State
}

// Result is the terminal state of a solve. State holds the last iterate
// regardless of status, for diagnostics.
type Result struct {
	Status       Status
	State        State
	Iterations   int
	ResidualNorm float64
	Trace        []Iteration
}

func (r *Result) Converged() bool { return r.Status == StatusConverged }

// Observer is notified once per iteration with the pre-step iterate and its
// residual norm.
type Observer interface {
	OnIteration(k int, x State, norm float64)
}
