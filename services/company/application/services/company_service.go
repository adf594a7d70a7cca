package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/wono/hostpanel/services/company/domain"
	"github.com/wono/hostpanel/services/company/domain/models"
	"github.com/wono/hostpanel/services/company/domain/repositories"
)

// CompanyService is the company registry used by other bounded contexts.
type CompanyService struct {
	repo repositories.CompanyRepository
}

// NewCompanyService returns a CompanyService backed by repo.
func NewCompanyService(repo repositories.CompanyRepository) *CompanyService {
	return &CompanyService{repo: repo}
}

// FindByName returns (nil, nil) when no company has that name.
func (s *CompanyService) FindByName(ctx context.Context, name string) (*models.Company, error) {
	c, err := s.repo.FindByName(ctx, name)
	if errors.Is(err, domain.ErrCompanyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find company by name: %w", err)
	}
	return c, nil
}

// FindByID returns (nil, nil) when no company has that id.
func (s *CompanyService) FindByID(ctx context.Context, companyID string) (*models.Company, error) {
	c, err := s.repo.FindByID(ctx, companyID)
	if errors.Is(err, domain.ErrCompanyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find company by id: %w", err)
	}
	return c, nil
}

// SetHasTemplate marks the named company as owning a website template.
// Returns ErrCompanyNotFound when the company is missing.
func (s *CompanyService) SetHasTemplate(ctx context.Context, name string) error {
	if err := s.repo.SetHasTemplate(ctx, name, true); err != nil {
		return fmt.Errorf("set has template: %w", err)
	}
	return nil
}
