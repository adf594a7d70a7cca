package services

import (
	"github.com/wono/hostpanel/pkg/app"
	"github.com/wono/hostpanel/pkg/cache"
	"github.com/wono/hostpanel/pkg/transcode"
	companysvcs "github.com/wono/hostpanel/services/company/application/services"
	"github.com/wono/hostpanel/services/website/infrastructure/messaging"
	"github.com/wono/hostpanel/services/website/infrastructure/persistence/postgres"
	"github.com/wono/hostpanel/services/website/infrastructure/registry"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Builder    *TemplateBuilder
	Visibility *VisibilityService
}

// New wires all website application services with infrastructure from the Application container.
func New(a *app.Application) *Services {
	repo := postgres.NewTemplateRepository(a.Db, a.EventBus)

	var templateCache TemplateCache
	if a.Redis != nil {
		templateCache = cache.NewTemplateCache(a.Redis, a.Config.TemplateCacheTTL)
	}

	deps := BuilderDeps{
		Repo:        repo,
		Transcoder:  transcode.New(),
		Registry:    registry.NewCompanyRegistry(companysvcs.New(a).Company),
		Cache:       templateCache,
		Log:         a.Logger,
		LinkFor:     a.Config.TemplateLink,
		Concurrency: a.Config.AssetUploadConcurrency,
	}
	if a.Storage != nil {
		deps.Store = a.Storage
	}
	if a.Directory != nil {
		deps.Links = a.Directory
	}
	if a.EventBus != nil {
		deps.Orphans = messaging.NewOrphanPublisher(a.EventBus)
	}

	return &Services{
		Builder:    NewTemplateBuilder(deps),
		Visibility: NewVisibilityService(repo, templateCache, a.Logger),
	}
}
