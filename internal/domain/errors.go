package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Common domain errors. The scoring fold itself degrades silently on bad
// data; these errors surface only at configuration and lookup boundaries.
var (
	// ErrInvalidConfiguration indicates that configuration is invalid or incomplete.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrEmptyRoster indicates that a roster-dependent lookup found no teams.
	ErrEmptyRoster = errors.New("empty team roster")

	// ErrUnknownTeam indicates that a requested team code is not in the roster.
	ErrUnknownTeam = errors.New("unknown team")
)

// ValidationError carries the individual issues a configuration entity
// failed on, so callers can report every problem at once instead of the
// first one. It unwraps to ErrInvalidConfiguration.
type ValidationError struct {
	// Entity names the configuration entity that failed validation.
	Entity string

	// Issues lists the individual validation failures.
	Issues []string
}

// NewValidationError creates a ValidationError for the given entity.
func NewValidationError(entity string, issues ...string) *ValidationError {
	return &ValidationError{Entity: entity, Issues: issues}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return fmt.Sprintf("%s: %s: %s", ErrInvalidConfiguration, e.Entity, e.Issues[0])
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidConfiguration, e.Entity, strings.Join(e.Issues, "; "))
}

// Unwrap lets errors.Is match ErrInvalidConfiguration.
func (e *ValidationError) Unwrap() error { return ErrInvalidConfiguration }
