package domain

import "errors"

// Sentinel errors for the host user domain. Messages are surfaced to API clients.
var (
	ErrUserNotFound      = errors.New("User not found.")
	ErrIncorrectPassword = errors.New("Incorrect current password.")
	ErrInvalidPassword   = errors.New("invalid password")
	ErrInvalidProfile    = errors.New("No profile fields provided.")
)

// Password form errors. Each matches ErrInvalidPassword with errors.Is.
var (
	ErrCurrentPasswordRequired = passwordError("Current password is required.")
	ErrPasswordFieldsRequired  = passwordError("Current, new, and confirm password are required.")
	ErrPasswordLength          = passwordError("Password must be between 8 and 72 characters long.")
	ErrPasswordMismatch        = passwordError("New password and confirm password do not match.")
)

type passwordError string

func (e passwordError) Error() string { return string(e) }

func (e passwordError) Is(target error) bool { return target == ErrInvalidPassword }
