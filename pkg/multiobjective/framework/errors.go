package framework

import "errors"

var (
	// ErrShapeMismatch is returned when a vector does not have the arity the
	// problem or grid expects.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrInvalidProblem is returned for empty or malformed problem definitions.
	ErrInvalidProblem = errors.New("invalid problem")
	// ErrInvalidOptions is returned for malformed state or DOE options.
	ErrInvalidOptions = errors.New("invalid options")
	// ErrGridExhausted is returned by the sampler once every grid point has been issued.
	ErrGridExhausted = errors.New("grid exhausted")
)
