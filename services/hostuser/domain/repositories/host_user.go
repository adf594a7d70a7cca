package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/wono/hostpanel/services/hostuser/domain/models"
)

// HostUserRepository persists host users.
type HostUserRepository interface {
	// GetByID returns ErrUserNotFound when no user matches.
	GetByID(ctx context.Context, id uuid.UUID) (*models.HostUser, error)
	UpdateProfile(ctx context.Context, u *models.HostUser) error
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}
