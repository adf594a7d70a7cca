package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/wono/hostpanel/pkg/events"
	"github.com/wono/hostpanel/pkg/logger"
	"github.com/wono/hostpanel/pkg/workflows"
	websiteEvents "github.com/wono/hostpanel/services/website/domain/events"
)

// templateWarmer refreshes the read cache for one template.
type templateWarmer interface {
	Warm(ctx context.Context, searchKey string) error
}

// assetSweeper removes orphaned objects.
type assetSweeper interface {
	Sweep(ctx context.Context, evt websiteEvents.AssetsOrphanedEvent) error
}

// templateChanged is the part of the created and updated payloads the worker needs.
type templateChanged struct {
	SearchKey string `json:"search_key"`
	Revision  int64  `json:"revision"`
}

// handleTemplateChanged returns a handler for website.template.* events.
// Handlers must be idempotent: the bus retries failures per its RetryPolicy.
// Warms the Redis read-model cache so public lookups are served from cache.
func handleTemplateChanged(w templateWarmer, log logger.Logger) events.Handler {
	return func(ctx context.Context, msg *message.Message) error {
		evt, err := events.DecodeEvent[templateChanged](msg)
		if err != nil {
			return err
		}
		if evt.SearchKey == "" {
			log.WarnContext(ctx, "template event without search key", "message_id", msg.UUID)
			return nil
		}
		ctx = logger.ContextWith(ctx, "search_key", evt.SearchKey, "message_id", msg.UUID)
		if err := w.Warm(ctx, evt.SearchKey); err != nil {
			// Cache warming is best-effort; log but do not fail the handler.
			log.WarnContext(ctx, "cache warm failed", "error", err)
			return nil
		}
		log.InfoContext(ctx, "cache warmed", "revision", evt.Revision)
		return nil
	}
}

// handleAssetsOrphaned returns a handler for website.assets.orphaned events.
// A failed sweep is returned so the bus retries it; deletes are idempotent.
func handleAssetsOrphaned(s assetSweeper, log logger.Logger) events.Handler {
	return func(ctx context.Context, msg *message.Message) error {
		evt, err := events.DecodeEvent[websiteEvents.AssetsOrphanedEvent](msg)
		if err != nil {
			return err
		}
		if len(evt.URLs) == 0 {
			return nil
		}
		ctx = logger.ContextWith(ctx, "operation_id", evt.OperationID, "search_key", evt.SearchKey)
		if err := s.Sweep(ctx, evt); err != nil {
			return fmt.Errorf("sweep %s: %w", evt.OperationID, err)
		}
		log.InfoContext(ctx, "orphaned assets swept", "urls", len(evt.URLs))
		return nil
	}
}

// directSweeper deletes orphans inline from the subscriber.
type directSweeper struct {
	store workflows.AssetDeleter
}

func (s directSweeper) Sweep(ctx context.Context, evt websiteEvents.AssetsOrphanedEvent) error {
	var errs []error
	for _, url := range evt.URLs {
		if err := s.store.DeleteByURL(ctx, url); err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", url, err))
		}
	}
	return errors.Join(errs...)
}

// temporalSweeper hands orphans to SweepOrphanedAssetsWorkflow.
type temporalSweeper struct {
	client *workflows.TemporalClient
}

func (s temporalSweeper) Sweep(ctx context.Context, evt websiteEvents.AssetsOrphanedEvent) error {
	_, err := s.client.StartAssetSweep(ctx, workflows.SweepInput{
		OperationID: evt.OperationID.String(),
		SearchKey:   evt.SearchKey,
		URLs:        evt.URLs,
	})
	return err
}
