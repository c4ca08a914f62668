package services

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the workflow services. Controllers map these
// to HTTP status codes with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
)

func notFoundf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

func invalidStatef(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidState)...)
}

func conflictf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrConflict)...)
}

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}
