package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	pkgcache "github.com/wono/hostpanel/pkg/cache"
	"github.com/wono/hostpanel/pkg/logger"
	"github.com/wono/hostpanel/services/website/domain"
	"github.com/wono/hostpanel/services/website/domain/models"
	"github.com/wono/hostpanel/services/website/domain/repositories"
	domainsvcs "github.com/wono/hostpanel/services/website/domain/services"
)

// VisibilityService activates templates and serves the public lookups.
// Single-template reads go through the Redis cache when one is configured.
type VisibilityService struct {
	repo  repositories.TemplateRepository
	cache TemplateCache
	log   logger.Logger
}

// NewVisibilityService returns a VisibilityService. cache may be nil.
func NewVisibilityService(repo repositories.TemplateRepository, cache TemplateCache, log logger.Logger) *VisibilityService {
	return &VisibilityService{repo: repo, cache: cache, log: log}
}

// Activate sets isActive on the template for searchKey. It does not check that
// the template exists or is complete, so unknown keys succeed as a no-op.
func (s *VisibilityService) Activate(ctx context.Context, searchKey string) error {
	searchKey = domainsvcs.SearchKey(searchKey)
	if searchKey == "" {
		return nil
	}
	changed, err := s.repo.SetActive(ctx, searchKey, true)
	if err != nil {
		return fmt.Errorf("activate template: %w", err)
	}
	if !changed {
		return nil
	}
	s.log.InfoContext(ctx, "template activated", "search_key", searchKey)
	if s.cache == nil {
		return nil
	}

	ctx = context.WithoutCancel(ctx)
	t, err := s.repo.GetBySearchKey(ctx, searchKey, repositories.AnyVisibility)
	if err != nil {
		s.log.WarnContext(ctx, "reload after activation failed", "search_key", searchKey, "error", err)
		dropCached(ctx, s.cache, s.log, searchKey)
		return nil
	}
	refreshCached(ctx, s.cache, s.log, t)
	return nil
}

// Get returns the template whose search key derives from name, if it passes v.
// Returns ErrTemplateNotFound otherwise.
//  1. Check Redis first; a cached entry that fails v is a miss for this filter.
//  2. On cache miss (or cache error), query Postgres.
//  3. Asynchronously warm the cache with the Postgres result.
func (s *VisibilityService) Get(ctx context.Context, name string, v repositories.Visibility) (*models.Template, error) {
	searchKey := domainsvcs.SearchKey(name)
	if searchKey == "" {
		return nil, domain.ErrTemplateNotFound
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, searchKey)
		switch {
		case err == nil:
			if !v.Matches(cached.IsActive) {
				return nil, domain.ErrTemplateNotFound
			}
			var t models.Template
			if err := json.Unmarshal(cached.Document, &t); err == nil {
				return &t, nil
			}
		case !errors.Is(err, redis.Nil):
			s.log.WarnContext(ctx, "template cache read failed", "search_key", searchKey, "error", err)
		}
	}

	t, err := s.repo.GetBySearchKey(ctx, searchKey, repositories.AnyVisibility)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		go s.warm(context.WithoutCancel(ctx), t)
	}

	if !v.Matches(t.IsActive) {
		return nil, domain.ErrTemplateNotFound
	}
	return t, nil
}

// ListActive returns every published template.
func (s *VisibilityService) ListActive(ctx context.Context) ([]*models.Template, error) {
	return s.list(ctx, repositories.ActiveOnly)
}

// ListInactive returns every unpublished template.
func (s *VisibilityService) ListInactive(ctx context.Context) ([]*models.Template, error) {
	return s.list(ctx, repositories.InactiveOnly)
}

func (s *VisibilityService) list(ctx context.Context, v repositories.Visibility) ([]*models.Template, error) {
	templates, err := s.repo.List(ctx, v)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	if templates == nil {
		templates = []*models.Template{}
	}
	return templates, nil
}

// Warm stores t in the read cache. Used by the worker on template events.
func (s *VisibilityService) Warm(ctx context.Context, searchKey string) error {
	if s.cache == nil {
		return nil
	}
	t, err := s.repo.GetBySearchKey(ctx, searchKey, repositories.AnyVisibility)
	if errors.Is(err, domain.ErrTemplateNotFound) {
		return s.cache.Delete(ctx, searchKey)
	}
	if err != nil {
		return err
	}
	return s.set(ctx, t)
}

func (s *VisibilityService) warm(ctx context.Context, t *models.Template) {
	if err := s.set(ctx, t); err != nil {
		s.log.WarnContext(ctx, "template cache warm failed", "search_key", t.SearchKey, "error", err)
	}
}

func (s *VisibilityService) set(ctx context.Context, t *models.Template) error {
	return cacheTemplate(ctx, s.cache, t)
}

func cacheTemplate(ctx context.Context, c TemplateCache, t *models.Template) error {
	doc, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal template: %w", err)
	}
	return c.Set(ctx, &pkgcache.CachedTemplate{
		SearchKey: t.SearchKey,
		Revision:  t.Revision,
		IsActive:  t.IsActive,
		Document:  doc,
	})
}

// refreshCached writes a freshly committed template through to the cache.
// The entry then carries the new revision, so a slower warm holding an older
// read is ignored by the cache. A failed write drops the entry instead.
func refreshCached(ctx context.Context, c TemplateCache, log logger.Logger, t *models.Template) {
	if err := cacheTemplate(ctx, c, t); err != nil {
		log.WarnContext(ctx, "template cache refresh failed", "search_key", t.SearchKey, "error", err)
		dropCached(ctx, c, log, t.SearchKey)
	}
}

func dropCached(ctx context.Context, c TemplateCache, log logger.Logger, searchKey string) {
	if err := c.Delete(ctx, searchKey); err != nil {
		log.WarnContext(ctx, "template cache invalidation failed", "search_key", searchKey, "error", err)
	}
}
