package registry

import (
	"context"

	companymodels "github.com/wono/hostpanel/services/company/domain/models"
	"github.com/wono/hostpanel/services/website/domain/models"
)

// CompanyFinder is the slice of the company context the website context uses.
type CompanyFinder interface {
	FindByName(ctx context.Context, name string) (*companymodels.Company, error)
	SetHasTemplate(ctx context.Context, name string) error
}

// CompanyRegistry adapts the company service to the builder's registry port.
type CompanyRegistry struct {
	companies CompanyFinder
}

// NewCompanyRegistry returns a CompanyRegistry over companies.
func NewCompanyRegistry(companies CompanyFinder) *CompanyRegistry {
	return &CompanyRegistry{companies: companies}
}

// FindByName returns (nil, nil) when the company is not registered.
func (r *CompanyRegistry) FindByName(ctx context.Context, name string) (*models.CompanyRef, error) {
	c, err := r.companies.FindByName(ctx, name)
	if err != nil || c == nil {
		return nil, err
	}
	return &models.CompanyRef{ID: c.CompanyID, Name: c.CompanyName}, nil
}

// SetHasTemplate flags the company as owning a website template.
func (r *CompanyRegistry) SetHasTemplate(ctx context.Context, name string) error {
	return r.companies.SetHasTemplate(ctx, name)
}
