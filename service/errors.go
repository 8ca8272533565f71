package service

import (
	"errors"
	"fmt"
)

var (
	// ErrPermissionDenied is returned whenever the requesting user lacks
	// access, uniformly whether or not the target exists.
	ErrPermissionDenied = errors.New("permission denied")

	ErrCaseNotFound     = errors.New("case not found")
	ErrDraftNotFound    = errors.New("draft not found")
	ErrExportNotFound   = errors.New("export not found")
	ErrTemplateNotFound = errors.New("template not found")

	ErrGenerationFailed = errors.New("failed to generate draft content")
)

// ValidationError carries a user-actionable message for invalid input or
// preconditions (no evidence, unsupported export format, missing
// rendering capability)
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a formatted validation error
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
