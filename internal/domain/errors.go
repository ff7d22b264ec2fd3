// Package domain holds the account state model and the sentinel errors shared
// by services and controllers. Callers match errors with errors.Is.
package domain

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrDuplicate  = errors.New("duplicate record")

	// registration conflicts
	ErrUsernameTaken = errors.New("username is already taken")
	ErrEmailTaken    = errors.New("user already exists with this email")

	// verification
	ErrCodeExpired     = errors.New("verification code expired, please sign up again to generate a new code")
	ErrCodeMismatch    = errors.New("incorrect verification code")
	ErrTooManyAttempts = errors.New("too many verification attempts, try again later")

	// auth
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotVerified        = errors.New("please verify your account before login")
	ErrForbidden          = errors.New("not authorized")

	// collaborators
	ErrDispatch = errors.New("failed to send verification email")
	ErrMedia    = errors.New("failed to upload image")
)
