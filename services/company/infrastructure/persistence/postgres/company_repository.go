package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wono/hostpanel/pkg/database"
	"github.com/wono/hostpanel/services/company/domain"
	"github.com/wono/hostpanel/services/company/domain/models"
	"github.com/wono/hostpanel/services/company/domain/repositories"
)

const companyColumns = `company_id, company_name, industry, company_size, city, state, country,
	website_url, linkedin_url, is_registered, has_website_template, created_at, updated_at`

// CompanyRepository implements repositories.CompanyRepository against PostgreSQL.
type CompanyRepository struct {
	db *database.Database
}

// NewCompanyRepository returns a CompanyRepository backed by db.
func NewCompanyRepository(db *database.Database) *CompanyRepository {
	return &CompanyRepository{db: db}
}

var _ repositories.CompanyRepository = (*CompanyRepository)(nil)

// FindByName looks a company up by its exact name.
func (r *CompanyRepository) FindByName(ctx context.Context, name string) (*models.Company, error) {
	row := r.db.DB().QueryRowContext(ctx,
		`SELECT `+companyColumns+` FROM host_companies WHERE company_name = $1`, models.NormalizeName(name))
	return scanCompany(row)
}

// FindByID looks a company up by its id.
func (r *CompanyRepository) FindByID(ctx context.Context, companyID string) (*models.Company, error) {
	row := r.db.DB().QueryRowContext(ctx,
		`SELECT `+companyColumns+` FROM host_companies WHERE company_id = $1`, companyID)
	return scanCompany(row)
}

// SetHasTemplate flags whether the named company owns a website template.
func (r *CompanyRepository) SetHasTemplate(ctx context.Context, name string, has bool) error {
	res, err := r.db.DB().ExecContext(ctx,
		`UPDATE host_companies SET has_website_template = $2, updated_at = now() WHERE company_name = $1`,
		models.NormalizeName(name), has)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update company rows: %w", err)
	}
	if n == 0 {
		return domain.ErrCompanyNotFound
	}
	return nil
}

func scanCompany(row *sql.Row) (*models.Company, error) {
	var c models.Company
	err := row.Scan(
		&c.CompanyID, &c.CompanyName, &c.Industry, &c.CompanySize, &c.City, &c.State, &c.Country,
		&c.WebsiteURL, &c.LinkedinURL, &c.IsRegistered, &c.HasWebsiteTemplate, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("query company: %w", err)
	}
	return &c, nil
}
