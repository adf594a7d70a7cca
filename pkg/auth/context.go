// Package auth resolves the host principal from the shared Redis session and
// carries it through request contexts.
//
// Session keys should be 32 or 64 bytes for HMAC authentication and 16, 24 or
// 32 bytes for AES encryption:
//
//	openssl rand -base64 32
package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Role is the capability granted to an authenticated session.
type Role string

const (
	// RoleHost is a company member managing their own workspace.
	RoleHost Role = "host"
	// RoleDirectorySync is the trusted directory integration. Template creation
	// from this role skips the company registry check and link registration.
	RoleDirectorySync Role = "directory-sync"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleHost || r == RoleDirectorySync
}

// Principal is the authenticated caller attached to the request context.
type Principal struct {
	UserID    uuid.UUID
	CompanyID string
	Role      Role
}

// Trusted reports whether the principal may bypass company registration checks.
func (p Principal) Trusted() bool {
	return p.Role == RoleDirectorySync
}

// contextKey is an unexported type to prevent key collisions in context.
type contextKey string

const principalKey contextKey = "principal"

var (
	// ErrUnauthenticated is returned when no Principal exists in the request context.
	// Handlers should return 401 when this error occurs.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden is returned when the principal may not act on the requested resource.
	ErrForbidden = errors.New("forbidden")
)

// PrincipalFromCtx extracts the authenticated caller from the request context.
func PrincipalFromCtx(ctx context.Context) (Principal, error) {
	p, ok := ctx.Value(principalKey).(Principal)
	if !ok || p.UserID == uuid.Nil {
		return Principal{}, ErrUnauthenticated
	}
	return p, nil
}

// WithPrincipal returns a new context with p attached.
// Used by authentication middleware after validating the session.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// RequireSameUser returns ErrForbidden unless the principal in ctx is userID.
func RequireSameUser(ctx context.Context, userID uuid.UUID) error {
	p, err := PrincipalFromCtx(ctx)
	if err != nil {
		return err
	}
	if p.UserID != userID {
		return ErrForbidden
	}
	return nil
}
