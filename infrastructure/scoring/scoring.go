// Package scoring provides the marking rule resolver: the pure mapping
// from (section, position type, category) onto placement base points and
// from grades onto bonus points.
package scoring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"

	"github.com/asherv/festrank/internal/domain"
)

// Common errors returned by scoring configuration.
var (
	// ErrNoRules is returned when a marking configuration carries no position rules.
	ErrNoRules = errors.New("marking configuration has no position rules")

	// ErrNoGrades is returned when a marking configuration carries no grade table.
	ErrNoGrades = errors.New("marking configuration has no grade table")
)

// Package-level validator instance for configuration validation.
// Uses go-playground/validator v10 for struct tag-based validation.
var validate = validator.New()

// folder performs Unicode-aware case folding for rule-input normalization.
// Marking inputs arrive from documents with arbitrary casing.
var folder = cases.Fold()

// norm folds and trims a rule input for case-insensitive matching.
func norm(s string) string { return folder.String(strings.TrimSpace(s)) }

// configError converts validator field errors into a domain
// ValidationError listing every failed constraint.
func configError(entity string, err error) error {
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return fmt.Errorf("%s: %w", entity, err)
	}
	issues := make([]string, 0, len(fields))
	for _, f := range fields {
		issues = append(issues, fmt.Sprintf("%s failed %q", f.Namespace(), f.Tag()))
	}
	return domain.NewValidationError(entity, issues...)
}
