package compositor

import (
	"errors"
	"fmt"
)

// ErrNilWindow is raised when a required window argument is nil.
var ErrNilWindow = errors.New("window is nil")

// ArgumentError is the panic value for a violated argument contract.
type ArgumentError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("compositor.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *ArgumentError) Unwrap() error { return e.Err }
