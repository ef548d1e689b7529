package newton

import "errors"

// Domain errors for solver operations.
var (
	// ErrInvalidState indicates a state or residual with NaN or Inf entries.
	ErrInvalidState = errors.New("newton: invalid state (NaN or Inf detected)")

	// ErrDimensionMismatch indicates residual or Jacobian dimensions that do
	// not match the problem dimension.
	ErrDimensionMismatch = errors.New("newton: dimension mismatch between state, residual and jacobian")

	// ErrSingularJacobian indicates the linear step could not be computed
	// because the Jacobian is singular or numerically degenerate.
	ErrSingularJacobian = errors.New("newton: jacobian is singular or ill-conditioned")

	// ErrBadConfig indicates an invalid solver configuration.
	ErrBadConfig = errors.New("newton: invalid solver configuration")
)
