package services

import (
	"fmt"

	"github.com/wono/hostpanel/services/website/domain"
	"github.com/wono/hostpanel/services/website/domain/models"
)

// Per-section image cardinality limits.
const (
	MaxLogoImages        = 1
	MaxHeroImages        = 5
	MaxGalleryImages     = 40
	MaxProductImages     = 10
	MaxTestimonialImages = 1
)

// Section names; also used as object key segments.
const (
	SectionLogo        = "companyLogo"
	SectionHero        = "heroImages"
	SectionGallery     = "gallery"
	SectionProduct     = "productImages"
	SectionTestimonial = "testimonialImages"
)

// CheckLogo fails when a template would hold more than one logo.
func CheckLogo(total int) error {
	if total > MaxLogoImages {
		return &domain.LimitError{
			Section: SectionLogo, Limit: MaxLogoImages, Received: total,
			Message: "Only one company logo is allowed.",
		}
	}
	return nil
}

// CheckHero fails when kept plus new hero images exceed the limit.
func CheckHero(total int) error {
	if total > MaxHeroImages {
		return &domain.LimitError{
			Section: SectionHero, Limit: MaxHeroImages, Received: total,
			Message: fmt.Sprintf("Cannot exceed %d hero images (received %d).", MaxHeroImages, total),
		}
	}
	return nil
}

// CheckGallery fails when kept plus new gallery images exceed the limit.
func CheckGallery(total int) error {
	if total > MaxGalleryImages {
		return &domain.LimitError{
			Section: SectionGallery, Limit: MaxGalleryImages, Received: total,
			Message: fmt.Sprintf("Cannot exceed %d gallery images (received %d).", MaxGalleryImages, total),
		}
	}
	return nil
}

// CheckProductImages fails when one product would hold more than ten images.
func CheckProductImages(productName string, total int) error {
	if total > MaxProductImages {
		if productName == "" {
			productName = "Unnamed product"
		}
		return &domain.LimitError{
			Section: SectionProduct, Limit: MaxProductImages, Received: total,
			Message: fmt.Sprintf("Max %d images allowed per product (%s).", MaxProductImages, productName),
		}
	}
	return nil
}

// CheckTestimonialImages fails when one testimonial would hold more than one image.
func CheckTestimonialImages(total int) error {
	if total > MaxTestimonialImages {
		return &domain.LimitError{
			Section: SectionTestimonial, Limit: MaxTestimonialImages, Received: total,
			Message: "Only 1 image allowed per testimonial.",
		}
	}
	return nil
}

// PartitionImages splits existing into the handles whose ID is in keep and the rest.
// Both results preserve the order of existing.
func PartitionImages(existing []models.ImageHandle, keep []string) (kept, removed []models.ImageHandle) {
	keepSet := make(map[string]struct{}, len(keep))
	for _, id := range keep {
		keepSet[id] = struct{}{}
	}
	kept = []models.ImageHandle{}
	for _, img := range existing {
		if _, ok := keepSet[img.ID]; ok {
			kept = append(kept, img)
		} else {
			removed = append(removed, img)
		}
	}
	return kept, removed
}
