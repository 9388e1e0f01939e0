package domain

import (
	"fmt"
	"strings"
)

// Violation is a single failed invariant. Code is stable for callers that
// localize messages.
type Violation struct {
	Field   string
	Code    string
	Message string
}

func (v Violation) String() string {
	if v.Field == "" {
		return v.Message
	}
	return v.Field + ": " + v.Message
}

// ValidationError carries every violation found on an entity.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether any violation carries code.
func (e *ValidationError) Has(code string) bool {
	for _, v := range e.Violations {
		if v.Code == code {
			return true
		}
	}
	return false
}

// NewValidationError returns nil when there are no violations.
func NewValidationError(violations []Violation) error {
	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{Violations: violations}
}

// ConflictError reports that a generated code is already taken.
type ConflictError struct {
	Code string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("code %s already exists", e.Code)
}

// NotFoundError reports a missing referenced entity.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.Key)
}

// PermissionError reports that an actor may not perform an action.
type PermissionError struct {
	Action string
	Reason string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("not allowed to %s: %s", e.Action, e.Reason)
}

// CycleDetectedError reports a dependency cycle found while cascading.
// Path lists task codes in walk order, ending with the revisited task.
type CycleDetectedError struct {
	Path []string
}

func (e *CycleDetectedError) Error() string {
	return "dependency cycle: " + strings.Join(e.Path, " -> ")
}
