package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the website domain. Use errors.Is() to check these.
// Messages are surfaced verbatim to API clients.
var (
	// ErrTemplateNotFound indicates no template exists for the derived search key.
	ErrTemplateNotFound = errors.New("Template not found")

	// ErrTemplateAlreadyExists indicates a template already owns the search key.
	ErrTemplateAlreadyExists = errors.New("Template for this company already exists")

	// ErrInvalidSearchKey indicates the company name slugs to an empty search key.
	ErrInvalidSearchKey = errors.New("Provide a valid company name")

	// ErrCompanyNotRegistered indicates the owning company is missing from the registry.
	ErrCompanyNotRegistered = errors.New("Company not found")

	// ErrImageLimitExceeded is matched by every *LimitError.
	ErrImageLimitExceeded = errors.New("image limit exceeded")

	// ErrInvalidTemplate indicates the merged document violates a required-field
	// or cardinality rule.
	ErrInvalidTemplate = errors.New("invalid template")

	// ErrInvalidPayload indicates a malformed request field or an unreadable image.
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrStaleRevision indicates the template changed since the caller read it.
	ErrStaleRevision = errors.New("Template was modified by another request; reload and retry")
)

// LimitError reports a per-section image cardinality violation.
type LimitError struct {
	Section  string
	Limit    int
	Received int
	Message  string
}

func (e *LimitError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s: at most %d images allowed (received %d)", e.Section, e.Limit, e.Received)
}

// Is makes errors.Is(err, ErrImageLimitExceeded) match any *LimitError.
func (e *LimitError) Is(target error) bool {
	return target == ErrImageLimitExceeded
}

// ValidationError lists the fields that failed document validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Template validation failed: %s", strings.Join(e.Fields, ", "))
}

// Is makes errors.Is(err, ErrInvalidTemplate) match any *ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidTemplate
}
