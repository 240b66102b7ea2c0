package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned when no extractor handles a file suffix.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrOCRUnavailable is returned by recognizers that cannot run on this host.
	ErrOCRUnavailable = errors.New("optical character recognition unavailable")

	// ErrPDFUnavailable is returned by PDF text sources that cannot run.
	ErrPDFUnavailable = errors.New("pdf text extraction unavailable")
)

// ValidationError names the offending field of structurally invalid facts.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError with a formatted reason.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
