package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wono/hostpanel/pkg/app"
	"github.com/wono/hostpanel/pkg/cache"
	"github.com/wono/hostpanel/pkg/config"
	"github.com/wono/hostpanel/pkg/database"
	"github.com/wono/hostpanel/pkg/events"
	"github.com/wono/hostpanel/pkg/httpx"
	"github.com/wono/hostpanel/pkg/logger"
	"github.com/wono/hostpanel/pkg/objectstore"
	"github.com/wono/hostpanel/pkg/telemetry"
	"github.com/wono/hostpanel/pkg/workflows"
	websiteSvcs "github.com/wono/hostpanel/services/website/application/services"
	websiteEvents "github.com/wono/hostpanel/services/website/domain/events"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx := context.Background()

	otelShutdown, metricsHandler, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DefinitionDatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer pool.Close()
	log.Info("database pool connected")

	eventBus, err := events.NewEventBus(cfg, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer redisClient.Close() //nolint:errcheck
	log.Info("redis connected")

	storage, err := objectstore.New(cfg)
	if err != nil {
		log.Error("failed to setup object store", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	appConfig := &app.Application{
		Config:   cfg,
		Db:       pool,
		Logger:   log,
		EventBus: eventBus,
		Redis:    redisClient,
		Storage:  storage,
	}

	var sweeper assetSweeper = directSweeper{store: storage}
	if cfg.TemporalEnabled {
		temporalClient, err := workflows.NewTemporalClient(ctx, cfg.TemporalHostPort, cfg.TemporalNamespace, cfg.TemporalTaskQueue, log)
		if err != nil {
			log.Error("failed to initialize temporal client", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer temporalClient.Close()
		appConfig.TemporalClient = temporalClient

		w := workflows.NewSweepWorker(temporalClient.Client, cfg.TemporalTaskQueue, storage)
		if err := w.Start(); err != nil {
			log.Error("failed to start temporal worker", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer w.Stop()
		sweeper = temporalSweeper{client: temporalClient}
		log.Info("temporal sweep worker started", "task_queue", cfg.TemporalTaskQueue)
	}

	if err := registerSubscribers(ctx, appConfig, sweeper); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	health := httpx.HealthChecks{
		Database: pool,
		Redis:    redisClient,
		EventBus: eventBus,
		Storage:  storage,
	}
	if appConfig.TemporalClient != nil {
		health.Temporal = appConfig.TemporalClient
	}
	probes := chi.NewRouter()
	probes.Get("/health", httpx.HealthHandler(health))
	probes.Handle("/metrics", metricsHandler)
	probeSrv := httpx.NewServer(cfg.WorkerHTTPAddr, probes, 0)
	go func() {
		log.Info("worker probes listening", "addr", probeSrv.Addr)
		if err := probeSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("worker probe server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := probeSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("probe server shutdown", "error", err)
	}

	// EventBus.Close() (via defer) waits up to 30s for in-flight handlers.
	log.Info("worker stopped")
}

// registerSubscribers wires all domain event handlers.
// Add new topics here as more services publish events.
func registerSubscribers(ctx context.Context, a *app.Application, sweeper assetSweeper) error {
	website := websiteSvcs.New(a)
	handlers := map[string]events.Handler{
		websiteEvents.TopicTemplateCreated: handleTemplateChanged(website.Visibility, a.Logger),
		websiteEvents.TopicTemplateUpdated: handleTemplateChanged(website.Visibility, a.Logger),
		websiteEvents.TopicAssetsOrphaned:  handleAssetsOrphaned(sweeper, a.Logger),
	}

	topics := make([]string, 0, len(handlers))
	for topic, h := range handlers {
		errCh, err := a.EventBus.Subscribe(ctx, topic, h)
		if err != nil {
			return err
		}

		// Drain subscriber errors in background so the channel never blocks.
		go func() {
			for err := range errCh {
				a.Logger.ErrorContext(ctx, "subscriber error", "topic", topic, "error", err)
				telemetry.CaptureError(ctx, err)
			}
		}()
		topics = append(topics, topic)
	}

	a.Logger.Info("event subscribers registered", "topics", topics)
	return nil
}
