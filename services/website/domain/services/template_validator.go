package services

import (
	"fmt"
	"strings"

	"github.com/wono/hostpanel/services/website/domain"
	"github.com/wono/hostpanel/services/website/domain/models"
)

// ValidateTemplate checks the invariants every persisted template must satisfy:
// required scalars, at least one non-blank about paragraph, complete products,
// and per-section image cardinality. Returns a *domain.ValidationError or a
// *domain.LimitError.
func ValidateTemplate(t *models.Template) error {
	if t == nil {
		return &domain.ValidationError{Fields: []string{"template"}}
	}

	var missing []string
	required := []struct {
		field string
		value string
	}{
		{"searchKey", t.SearchKey},
		{"companyName", t.CompanyName},
		{"title", t.Title},
		{"subTitle", t.SubTitle},
		{"email", t.Email},
		{"phone", t.Phone},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.field)
		}
	}
	if !hasParagraph(t.About) {
		missing = append(missing, "about")
	}
	for i, p := range t.Products {
		if strings.TrimSpace(p.Type) == "" {
			missing = append(missing, fmt.Sprintf("products[%d].type", i))
		}
		if strings.TrimSpace(p.Name) == "" {
			missing = append(missing, fmt.Sprintf("products[%d].name", i))
		}
		if strings.TrimSpace(p.Description) == "" {
			missing = append(missing, fmt.Sprintf("products[%d].description", i))
		}
	}
	if len(missing) > 0 {
		return &domain.ValidationError{Fields: missing}
	}

	return ValidateImageCounts(t)
}

// ValidateImageCounts checks only the per-section cardinality limits.
func ValidateImageCounts(t *models.Template) error {
	if err := CheckHero(len(t.HeroImages)); err != nil {
		return err
	}
	if err := CheckGallery(len(t.Gallery)); err != nil {
		return err
	}
	for _, p := range t.Products {
		if err := CheckProductImages(p.Name, len(p.Images)); err != nil {
			return err
		}
	}
	return nil
}

func hasParagraph(about []string) bool {
	for _, p := range about {
		if strings.TrimSpace(p) != "" {
			return true
		}
	}
	return false
}
