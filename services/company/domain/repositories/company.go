package repositories

import (
	"context"

	"github.com/wono/hostpanel/services/company/domain/models"
)

// CompanyRepository reads and flags host companies.
type CompanyRepository interface {
	// FindByName and FindByID return ErrCompanyNotFound when nothing matches.
	FindByName(ctx context.Context, name string) (*models.Company, error)
	FindByID(ctx context.Context, companyID string) (*models.Company, error)
	// SetHasTemplate returns ErrCompanyNotFound when no row was updated.
	SetHasTemplate(ctx context.Context, name string, has bool) error
}
