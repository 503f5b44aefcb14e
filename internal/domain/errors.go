package domain

import (
	"errors"
	"strings"
)

var (
	ErrNotFound               = errors.New("resource not found")
	ErrEmptyFile              = errors.New("file is empty")
	ErrFileTooLarge           = errors.New("file size exceeds 5MB")
	ErrUnsupportedFileType    = errors.New("only images and PDFs are supported")
	ErrExtractionFailed       = errors.New("bill data extraction failed")
	ErrAuditFailed            = errors.New("billing error detection failed")
	ErrLetterGenerationFailed = errors.New("appeal letter generation failed")
	ErrPersistenceFailed      = errors.New("failed to save analysis")
)

// ValidationError carries every constraint the inbound document violated.
// No pipeline stage runs when one is returned.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, " ")
}

// NewValidationError builds a ValidationError from one or more violations.
func NewValidationError(violations ...string) *ValidationError {
	return &ValidationError{Violations: violations}
}
