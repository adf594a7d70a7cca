package services

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/wono/hostpanel/services/hostuser/domain"
)

// Password length bounds. bcrypt ignores input past 72 bytes.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// ValidateNewPassword checks the change-password form.
func ValidateNewPassword(current, next, confirm string) error {
	if current == "" || next == "" || confirm == "" {
		return domain.ErrPasswordFieldsRequired
	}
	if len(next) < MinPasswordLength || len(next) > MaxPasswordLength {
		return domain.ErrPasswordLength
	}
	if next != confirm {
		return domain.ErrPasswordMismatch
	}
	return nil
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword returns ErrIncorrectPassword when password does not match hash.
func CheckPassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return domain.ErrIncorrectPassword
	}
	if err != nil {
		return fmt.Errorf("compare password: %w", err)
	}
	return nil
}
