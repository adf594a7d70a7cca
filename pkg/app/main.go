package app

import (
	"github.com/gorilla/sessions"

	"github.com/wono/hostpanel/pkg/cache"
	"github.com/wono/hostpanel/pkg/config"
	"github.com/wono/hostpanel/pkg/database"
	"github.com/wono/hostpanel/pkg/directory"
	"github.com/wono/hostpanel/pkg/events"
	"github.com/wono/hostpanel/pkg/logger"
	"github.com/wono/hostpanel/pkg/objectstore"
	"github.com/wono/hostpanel/pkg/workflows"
)

// Application holds shared infrastructure dependencies for all services.
// Pass to every service's Routes function during server initialization.
//
// Logging: app.Logger is backed by a trace-aware handler. Use slog's context methods
// and trace_id, span_id, and request_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "template created", "search_key", key)
//	app.Logger.ErrorContext(ctx, "failed to save", "error", err)
//
// Use app.Logger.Info/Error (no context) only for startup and shutdown messages.
type Application struct {
	Config         *config.Config
	Db             *database.Database
	Logger         logger.Logger
	EventBus       *events.EventBus
	Redis          *cache.RedisClient
	Storage        *objectstore.Store
	Directory      *directory.Client
	TemporalClient *workflows.TemporalClient // nil unless TEMPORAL_ENABLED
	SessionStore   sessions.Store            // Redis-backed session store; nil in worker process
}
