// Package problems provides stationarity systems for the newton solver.
//
// Each problem implements [newton.Problem] with a closed-form Jacobian:
//
//   - [Allocation]: KKT stationarity of a 2-variable allocation program
//   - [Intersection]: circle/line intersection, a well-posed 2x2 system
//   - [Flat]: vanishing-Jacobian system, exercises the singular path
//
// Problems with KKT structure also implement [Diagnoser] so callers can
// report objective value and complementarity products for a returned
// state. Complementarity is diagnostic only; the solver never enforces it.
package problems
