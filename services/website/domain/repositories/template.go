package repositories

import (
	"context"

	"github.com/wono/hostpanel/services/website/domain/models"
)

// Visibility narrows lookups by activation state.
type Visibility int

const (
	AnyVisibility Visibility = iota
	ActiveOnly
	InactiveOnly
)

// Matches reports whether a template with the given state passes v.
func (v Visibility) Matches(isActive bool) bool {
	switch v {
	case ActiveOnly:
		return isActive
	case InactiveOnly:
		return !isActive
	default:
		return true
	}
}

// MutateFunc edits the locked template in place. Returning an error aborts the update.
type MutateFunc func(ctx context.Context, t *models.Template) error

// TemplateRepository is the template document store.
type TemplateRepository interface {
	Exists(ctx context.Context, searchKey string) (bool, error)
	// Create inserts t. Returns ErrTemplateAlreadyExists when the search key is taken.
	Create(ctx context.Context, t *models.Template) error
	// GetBySearchKey returns ErrTemplateNotFound when no template matches.
	GetBySearchKey(ctx context.Context, searchKey string, v Visibility) (*models.Template, error)
	List(ctx context.Context, v Visibility) ([]*models.Template, error)
	// SetActive reports whether a row changed. A missing search key is not an error.
	SetActive(ctx context.Context, searchKey string, active bool) (bool, error)
	// Update locks the template, checks expectedRevision, applies mutate, validates
	// and commits with the revision incremented, all in one transaction.
	Update(ctx context.Context, searchKey string, expectedRevision int64, mutate MutateFunc) (*models.Template, error)
}
