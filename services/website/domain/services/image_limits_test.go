package services

import (
	"errors"
	"testing"

	"github.com/wono/hostpanel/services/website/domain"
	"github.com/wono/hostpanel/services/website/domain/models"
)

func TestLimitChecks(t *testing.T) {
	tests := []struct {
		name    string
		check   func() error
		wantErr string
	}{
		{"one logo", func() error { return CheckLogo(1) }, ""},
		{"two logos", func() error { return CheckLogo(2) }, "Only one company logo is allowed."},
		{"five hero", func() error { return CheckHero(5) }, ""},
		{"six hero", func() error { return CheckHero(6) }, "Cannot exceed 5 hero images (received 6)."},
		{"forty gallery", func() error { return CheckGallery(40) }, ""},
		{"forty one gallery", func() error { return CheckGallery(41) }, "Cannot exceed 40 gallery images (received 41)."},
		{"ten product images", func() error { return CheckProductImages("Desk", 10) }, ""},
		{"eleven product images", func() error { return CheckProductImages("Desk", 11) }, "Max 10 images allowed per product (Desk)."},
		{"unnamed product", func() error { return CheckProductImages("", 11) }, "Max 10 images allowed per product (Unnamed product)."},
		{"one testimonial image", func() error { return CheckTestimonialImages(1) }, ""},
		{"two testimonial images", func() error { return CheckTestimonialImages(2) }, "Only 1 image allowed per testimonial."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, domain.ErrImageLimitExceeded) {
				t.Fatalf("expected ErrImageLimitExceeded, got %v", err)
			}
			if err.Error() != tt.wantErr {
				t.Fatalf("message = %q, want %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func handles(ids ...string) []models.ImageHandle {
	out := make([]models.ImageHandle, len(ids))
	for i, id := range ids {
		out[i] = models.ImageHandle{ID: id, URL: "https://cdn/" + id}
	}
	return out
}

func ids(hs []models.ImageHandle) []string {
	out := make([]string, len(hs))
	for i, h := range hs {
		out[i] = h.ID
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPartitionImages(t *testing.T) {
	tests := []struct {
		name        string
		existing    []models.ImageHandle
		keep        []string
		wantKept    []string
		wantRemoved []string
	}{
		{"keep all", handles("a", "b"), []string{"a", "b"}, []string{"a", "b"}, []string{}},
		{"keep none", handles("a", "b"), []string{}, []string{}, []string{"a", "b"}},
		{"keep first", handles("a", "b", "c"), []string{"a"}, []string{"a"}, []string{"b", "c"}},
		{"order follows existing", handles("a", "b", "c"), []string{"c", "a"}, []string{"a", "c"}, []string{"b"}},
		{"unknown ids ignored", handles("a"), []string{"zzz", "a"}, []string{"a"}, []string{}},
		{"empty existing", nil, []string{"a"}, []string{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kept, removed := PartitionImages(tt.existing, tt.keep)
			if !equal(ids(kept), tt.wantKept) {
				t.Errorf("kept = %v, want %v", ids(kept), tt.wantKept)
			}
			if !equal(ids(removed), tt.wantRemoved) {
				t.Errorf("removed = %v, want %v", ids(removed), tt.wantRemoved)
			}
			if kept == nil {
				t.Error("kept must be non-nil")
			}
		})
	}
}
