// Package newton provides a dense Newton-Raphson solver for small systems
// of nonlinear equations.
//
// The package defines the fundamental types for root finding on
// fixed-dimension residual systems:
//
//   - [State]: vector of unknowns
//   - [Problem]: interface supplying residual and analytic Jacobian
//   - [Projection]: per-component bound policy applied after each step
//   - [Solver]: drives the iteration to a root
//
// The intended application is Lagrangian stationarity systems (KKT
// conditions of small constrained programs), where the unknowns mix primal
// variables and multipliers, but nothing in the solver is specific to that
// use. Jacobians are supplied in closed form; no differentiation is
// performed here.
//
// # Example
//
//	prob := problems.NewIntersection()
//	solver, _ := newton.New(prob, newton.DefaultConfig())
//	result, _ := solver.Solve(ctx, newton.State{1.5, 0.5})
//
// # Thread Safety
//
// Solver instances are NOT thread-safe. Each Solve call owns its buffers
// exclusively, so independent solves may run on separate Solver instances
// concurrently without locking.
package newton
