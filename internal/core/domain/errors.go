package domain

import "fmt"

// LoadError reports that an input image could not be opened or decoded.
// It aborts the comparison; there are no partial-success semantics.
type LoadError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load image %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying decode or I/O error.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError wraps an underlying error with the offending path.
func NewLoadError(path string, err error) *LoadError {
	return &LoadError{Path: path, Err: err}
}
