package field

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidGeometry indicates a non-positive radius, length or turn count.
	ErrInvalidGeometry = errors.New("field: invalid geometry (must be strictly positive)")

	// ErrNonFinite indicates a NaN or Inf construction parameter.
	ErrNonFinite = errors.New("field: parameter is NaN or Inf")
)

// ParameterError reports which construction parameter was rejected.
type ParameterError struct {
	Source  string
	Param   string
	Value   float64
	Wrapped error
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("%s: %s=%g: %v", e.Source, e.Param, e.Value, e.Wrapped)
}

func (e *ParameterError) Unwrap() error {
	return e.Wrapped
}
