package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Validation errors
	ErrConfigInvalid    = errors.New("invalid review configuration")
	ErrNegativeCount    = fmt.Errorf("%w: negative count", ErrConfigInvalid)
	ErrPhaseMismatch    = fmt.Errorf("%w: exclusion breakdown does not reconcile with phase total", ErrConfigInvalid)
	ErrFlowInconsistent = fmt.Errorf("%w: phase totals do not reconcile with initial records", ErrConfigInvalid)

	// Agreement errors
	ErrEmptyTally = fmt.Errorf("%w: reviewer tally is empty", ErrConfigInvalid)
)

// NewValidationError creates a field-level configuration error
func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrConfigInvalid, field, reason)
}

// IsConfigError reports whether err is a configuration validation error
func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfigInvalid)
}
