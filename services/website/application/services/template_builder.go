package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wono/hostpanel/pkg/auth"
	"github.com/wono/hostpanel/pkg/logger"
	"github.com/wono/hostpanel/services/website/domain"
	"github.com/wono/hostpanel/services/website/domain/events"
	"github.com/wono/hostpanel/services/website/domain/models"
	"github.com/wono/hostpanel/services/website/domain/repositories"
	domainsvcs "github.com/wono/hostpanel/services/website/domain/services"
)

// LinkWarning is returned with a created template when the company flag or the
// directory link could not be updated.
const LinkWarning = "Failed to add link. Check if the company is listed in Nomads."

// CreateResult is a created template plus an optional degraded-success warning.
type CreateResult struct {
	Template *models.Template
	Warning  string
}

// BuilderDeps groups the collaborators of TemplateBuilder.
type BuilderDeps struct {
	Repo        repositories.TemplateRepository
	Store       AssetStore
	Transcoder  Transcoder
	Registry    CompanyRegistry
	Links       LinkPublisher
	Orphans     OrphanReporter
	Cache       TemplateCache
	Log         logger.Logger
	LinkFor     func(searchKey string) string
	Concurrency int
}

// TemplateBuilder creates and edits templates. Object-store side effects happen
// outside the document transaction; every one is logged with an op_id and
// uploads left behind by a failed commit are reported as orphans.
type TemplateBuilder struct {
	repo     repositories.TemplateRepository
	assets   *assetOps
	registry CompanyRegistry
	links    LinkPublisher
	orphans  OrphanReporter
	cache    TemplateCache
	log      logger.Logger
	linkFor  func(string) string
	metrics  *builderMetrics
}

// NewTemplateBuilder wires a TemplateBuilder. Registry, Links, Orphans and Cache may be nil.
func NewTemplateBuilder(d BuilderDeps) *TemplateBuilder {
	m := newBuilderMetrics()
	linkFor := d.LinkFor
	if linkFor == nil {
		linkFor = func(key string) string { return "https://" + key + ".wono.co/" }
	}
	return &TemplateBuilder{
		repo: d.Repo,
		assets: &assetOps{
			store:       d.Store,
			transcoder:  d.Transcoder,
			concurrency: d.Concurrency,
			metrics:     m,
			now:         time.Now,
		},
		registry: d.Registry,
		links:    d.Links,
		orphans:  d.Orphans,
		cache:    d.Cache,
		log:      d.Log,
		linkFor:  linkFor,
		metrics:  m,
	}
}

// Create builds a new template. Every check runs before the first upload:
// search key, company registration (skipped for trusted callers), image limits,
// required fields and uniqueness.
func (b *TemplateBuilder) Create(ctx context.Context, in CreateTemplateInput) (*CreateResult, error) {
	searchKey := domainsvcs.SearchKey(in.CompanyName)
	if searchKey == "" {
		return nil, domain.ErrInvalidSearchKey
	}

	trusted := false
	if p, err := auth.PrincipalFromCtx(ctx); err == nil {
		trusted = p.Trusted()
	}

	var company *models.CompanyRef
	if !trusted && b.registry != nil {
		var err error
		company, err = b.registry.FindByName(ctx, in.CompanyName)
		if err != nil {
			return nil, fmt.Errorf("find company: %w", err)
		}
		if company == nil {
			return nil, domain.ErrCompanyNotRegistered
		}
	}

	plan, err := planCreate(searchKey, in)
	if err != nil {
		return nil, err
	}
	if company != nil && plan.next.CompanyID == "" {
		plan.next.CompanyID = company.ID
	}
	if err := domainsvcs.ValidateTemplate(plan.next); err != nil {
		return nil, err
	}

	exists, err := b.repo.Exists(ctx, searchKey)
	if err != nil {
		return nil, fmt.Errorf("check template: %w", err)
	}
	if exists {
		return nil, domain.ErrTemplateAlreadyExists
	}

	opID := uuid.New()
	log := b.log.With("op_id", opID.String(), "search_key", searchKey, "op", "create")

	stored, err := b.assets.upload(ctx, log, searchKey, plan.jobs)
	if err != nil {
		b.reportOrphans(ctx, log, opID, searchKey, urlsOf(stored), "upload failed")
		return nil, err
	}
	plan.resolve(stored)

	if err := b.repo.Create(ctx, plan.next); err != nil {
		b.reportOrphans(ctx, log, opID, searchKey, urlsOf(stored), "create failed: "+err.Error())
		return nil, err
	}
	b.metrics.templatesCreated.Add(ctx, 1)
	log.InfoContext(ctx, "template created", "assets", len(stored))

	result := &CreateResult{Template: plan.next}
	if trusted {
		return result, nil
	}

	if b.registry != nil {
		if err := b.registry.SetHasTemplate(ctx, in.CompanyName); err != nil {
			log.WarnContext(ctx, "mark company has template failed", "error", err)
			result.Warning = LinkWarning
		}
	}
	if b.links != nil {
		if err := b.links.RegisterTemplateLink(ctx, in.CompanyName, b.linkFor(searchKey)); err != nil {
			log.WarnContext(ctx, "register template link failed", "error", err)
			result.Warning = LinkWarning
		}
	}
	return result, nil
}

// Edit merges in into the stored template. The plan is computed and checked
// first; uploads follow; deletions and the merge run inside the store's
// transaction against the revision that was planned on.
func (b *TemplateBuilder) Edit(ctx context.Context, in EditTemplateInput) (*models.Template, error) {
	name := in.SearchKey
	if name == "" {
		name = in.CompanyName
	}
	searchKey := domainsvcs.SearchKey(name)
	if searchKey == "" {
		return nil, domain.ErrInvalidSearchKey
	}

	current, err := b.repo.GetBySearchKey(ctx, searchKey, repositories.AnyVisibility)
	if err != nil {
		return nil, err
	}
	if in.ExpectedRevision != nil && *in.ExpectedRevision != current.Revision {
		return nil, domain.ErrStaleRevision
	}

	plan, err := planEdit(current, in)
	if err != nil {
		return nil, err
	}
	if err := domainsvcs.ValidateTemplate(plan.next); err != nil {
		return nil, err
	}

	opID := uuid.New()
	log := b.log.With("op_id", opID.String(), "search_key", searchKey, "op", "edit")

	stored, err := b.assets.upload(ctx, log, searchKey, plan.jobs)
	if err != nil {
		b.reportOrphans(ctx, log, opID, searchKey, urlsOf(stored), "upload failed")
		return nil, err
	}
	plan.resolve(stored)

	var deleted []string
	updated, err := b.repo.Update(ctx, searchKey, current.Revision, func(ctx context.Context, t *models.Template) error {
		next := plan.next.Clone()
		next.SearchKey = t.SearchKey
		next.IsActive = t.IsActive
		next.Revision = t.Revision
		next.CreatedAt = t.CreatedAt
		*t = *next
		deleted = b.assets.remove(ctx, log, plan.removals)
		return nil
	})
	if err != nil {
		b.reportOrphans(ctx, log, opID, searchKey, urlsOf(stored), "edit failed: "+err.Error())
		if len(deleted) > 0 {
			log.ErrorContext(ctx, "assets deleted before failed commit; template still references them",
				"urls", deleted, "error", err)
		}
		return nil, err
	}

	b.metrics.templatesEdited.Add(ctx, 1)
	log.InfoContext(ctx, "template updated", "revision", updated.Revision,
		"uploaded", len(stored), "deleted", len(deleted))
	if b.cache != nil {
		refreshCached(context.WithoutCancel(ctx), b.cache, log, updated)
	}
	return updated, nil
}

// reportOrphans logs stored objects no document references and hands them to
// the orphan sweep. It never fails the caller.
func (b *TemplateBuilder) reportOrphans(ctx context.Context, log logger.Logger, opID uuid.UUID, searchKey string, urls []string, reason string) {
	if len(urls) == 0 {
		return
	}
	b.metrics.orphaned(ctx, len(urls))
	log.ErrorContext(ctx, "orphaned assets", "urls", urls, "reason", reason)
	if b.orphans == nil {
		return
	}
	err := b.orphans.ReportOrphans(context.WithoutCancel(ctx), events.AssetsOrphanedEvent{
		EventID:     uuid.New(),
		Version:     1,
		OperationID: opID,
		SearchKey:   searchKey,
		URLs:        urls,
		Reason:      reason,
		OccurredAt:  time.Now().UTC(),
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.ErrorContext(ctx, "report orphaned assets failed", "error", err)
	}
}
