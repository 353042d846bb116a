package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is matched by every InvalidInputError via errors.Is
var ErrInvalidInput = errors.New("invalid resume input")

// ValidationError signals missing or malformed request input
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// InvalidInputError signals a resume value that violates its basic shape
type InvalidInputError struct {
	Reason string
	Err    error
}

func (e *InvalidInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid resume input: %s: %v", e.Reason, e.Err)
	}
	return "invalid resume input: " + e.Reason
}

func (e *InvalidInputError) Unwrap() error {
	return e.Err
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ErrHistoryUnavailable is returned when score history has no backing store
var ErrHistoryUnavailable = errors.New("score history is not configured")
