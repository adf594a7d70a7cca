package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/wono/hostpanel/pkg/database"
	"github.com/wono/hostpanel/services/hostuser/domain"
	"github.com/wono/hostpanel/services/hostuser/domain/models"
	"github.com/wono/hostpanel/services/hostuser/domain/repositories"
)

const (
	selectHostUser = `SELECT id, company_id, name, email, phone, designation, linkedin_profile,
	languages, address, profile_image, is_active, password_hash, created_at, updated_at
	FROM host_users WHERE id = $1`

	updateProfile = `UPDATE host_users SET name = $2, designation = $3, phone = $4,
	linkedin_profile = $5, languages = $6, address = $7, profile_image = $8,
	is_active = $9, updated_at = now()
	WHERE id = $1 RETURNING updated_at`

	updatePassword = `UPDATE host_users SET password_hash = $2, updated_at = now() WHERE id = $1`
)

// HostUserRepository implements repositories.HostUserRepository against PostgreSQL.
type HostUserRepository struct {
	db *database.Database
}

// NewHostUserRepository returns a HostUserRepository backed by db.
func NewHostUserRepository(db *database.Database) *HostUserRepository {
	return &HostUserRepository{db: db}
}

var _ repositories.HostUserRepository = (*HostUserRepository)(nil)

func (r *HostUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.HostUser, error) {
	var (
		u         models.HostUser
		languages []byte
	)
	err := r.db.DB().QueryRowContext(ctx, selectHostUser, id).Scan(
		&u.ID, &u.CompanyID, &u.Name, &u.Email, &u.Phone, &u.Designation, &u.LinkedInProfile,
		&languages, &u.Address, &u.ProfileImage, &u.IsActive, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query host user: %w", err)
	}
	if err := json.Unmarshal(languages, &u.Languages); err != nil {
		return nil, fmt.Errorf("decode languages: %w", err)
	}
	return &u, nil
}

func (r *HostUserRepository) UpdateProfile(ctx context.Context, u *models.HostUser) error {
	languages := u.Languages
	if languages == nil {
		languages = []string{}
	}
	raw, err := json.Marshal(languages)
	if err != nil {
		return fmt.Errorf("encode languages: %w", err)
	}
	err = r.db.DB().QueryRowContext(ctx, updateProfile,
		u.ID, u.Name, u.Designation, u.Phone, u.LinkedInProfile, raw, u.Address, u.ProfileImage, u.IsActive,
	).Scan(&u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("update host user: %w", err)
	}
	return nil
}

func (r *HostUserRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	res, err := r.db.DB().ExecContext(ctx, updatePassword, id, hash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update password rows: %w", err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
