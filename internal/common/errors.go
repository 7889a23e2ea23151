// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Service errors.
	ErrServiceUnavailable = errors.New("analysis service unavailable")
	ErrUnexpectedResponse = errors.New("unexpected response from analysis service")

	// Input errors.
	ErrNoImage      = errors.New("no image provided")
	ErrInvalidImage = errors.New("invalid image")

	// Session errors.
	ErrNoAnalysis        = errors.New("no analysis available")
	ErrReportUnavailable = errors.New("report not available")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// UserMessage returns the friendliest text available for err: the message of
// the outermost UserError, or err's own text.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage
	}
	return err.Error()
}
