package services

import (
	"context"

	"github.com/wono/hostpanel/pkg/cache"
	"github.com/wono/hostpanel/pkg/objectstore"
	"github.com/wono/hostpanel/services/website/domain/events"
	"github.com/wono/hostpanel/services/website/domain/models"
)

// AssetStore uploads and removes template images.
type AssetStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (objectstore.Object, error)
	// DeleteByURL must succeed when the object is already gone.
	DeleteByURL(ctx context.Context, url string) error
}

// Transcoder normalizes uploaded images to one encoding.
type Transcoder interface {
	Normalize(data []byte) ([]byte, error)
	ContentType() string
	Extension() string
}

// CompanyRegistry looks up host companies. FindByName returns (nil, nil) when
// no company has that name.
type CompanyRegistry interface {
	FindByName(ctx context.Context, name string) (*models.CompanyRef, error)
	SetHasTemplate(ctx context.Context, name string) error
}

// LinkPublisher attaches the public template URL to the company's directory listing.
type LinkPublisher interface {
	RegisterTemplateLink(ctx context.Context, companyName, link string) error
}

// OrphanReporter records stored objects no template references anymore.
type OrphanReporter interface {
	ReportOrphans(ctx context.Context, event events.AssetsOrphanedEvent) error
}

// TemplateCache is the published-site read cache.
type TemplateCache interface {
	Get(ctx context.Context, searchKey string) (*cache.CachedTemplate, error)
	Set(ctx context.Context, t *cache.CachedTemplate) error
	Delete(ctx context.Context, searchKey string) error
}
