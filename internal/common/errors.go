// Package common provides shared errors, logging helpers and retry logic.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Storage errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")
	ErrNotPersisted   = errors.New("change not saved")

	// Ledger validation errors.
	ErrInvalidMobile         = errors.New("mobile number must be exactly 9 digits")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrInvalidInvestmentType = errors.New("invalid investment type")
	ErrInvalidCheck          = errors.New("invalid check")

	// Authentication errors.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")

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
