package messaging

import (
	"context"
	"fmt"

	"github.com/wono/hostpanel/pkg/events"
	domainevents "github.com/wono/hostpanel/services/website/domain/events"
)

// Publisher is satisfied by *events.EventBus.
type Publisher interface {
	PublishEvent(ctx context.Context, topic string, event any, version int) error
}

// OrphanPublisher sends AssetsOrphanedEvent to the worker's sweep.
// It publishes outside any transaction: the failed operation has nothing to commit.
type OrphanPublisher struct {
	bus Publisher
}

// NewOrphanPublisher returns an OrphanPublisher backed by bus.
func NewOrphanPublisher(bus Publisher) *OrphanPublisher {
	return &OrphanPublisher{bus: bus}
}

var _ Publisher = (*events.EventBus)(nil)

// ReportOrphans publishes event on website.assets.orphaned.
func (p *OrphanPublisher) ReportOrphans(ctx context.Context, event domainevents.AssetsOrphanedEvent) error {
	if err := p.bus.PublishEvent(ctx, domainevents.TopicAssetsOrphaned, event, event.Version); err != nil {
		return fmt.Errorf("publish orphaned assets: %w", err)
	}
	return nil
}
