package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/wono/hostpanel/pkg/logger"
	"github.com/wono/hostpanel/services/hostuser/domain"
	"github.com/wono/hostpanel/services/hostuser/domain/models"
	"github.com/wono/hostpanel/services/hostuser/domain/repositories"
	domainsvcs "github.com/wono/hostpanel/services/hostuser/domain/services"
)

// ProfileService manages a host user's own profile and password.
type ProfileService struct {
	repo repositories.HostUserRepository
	log  logger.Logger
}

func NewProfileService(repo repositories.HostUserRepository, log logger.Logger) *ProfileService {
	return &ProfileService{repo: repo, log: log}
}

// UpdateProfile applies the set fields of upd and returns the stored user.
func (s *ProfileService) UpdateProfile(ctx context.Context, id uuid.UUID, upd models.ProfileUpdate) (*models.HostUser, error) {
	if upd.Empty() {
		return nil, domain.ErrInvalidProfile
	}
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Apply(upd)
	if err := s.repo.UpdateProfile(ctx, u); err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "profile updated", "user_id", id)
	return u, nil
}

// VerifyPassword checks password against the stored hash.
func (s *ProfileService) VerifyPassword(ctx context.Context, id uuid.UUID, password string) error {
	if password == "" {
		return domain.ErrCurrentPasswordRequired
	}
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return domainsvcs.CheckPassword(u.PasswordHash, password)
}

// ChangePassword replaces the password after verifying the current one.
func (s *ProfileService) ChangePassword(ctx context.Context, id uuid.UUID, current, next, confirm string) error {
	if err := domainsvcs.ValidateNewPassword(current, next, confirm); err != nil {
		return err
	}
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := domainsvcs.CheckPassword(u.PasswordHash, current); err != nil {
		return err
	}
	hash, err := domainsvcs.HashPassword(next)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePasswordHash(ctx, id, hash); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "password changed", "user_id", id)
	return nil
}
