package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
)

const (
	outboxTopic = "_website_outbox"
	outboxGroup = "website-outbox-relay"
)

var (
	ErrNoOutbox      = errors.New("events: bus was built without an outbox")
	ErrOutboxRunning = errors.New("events: outbox forwarder already started")
)

// outbox routes publishes through an internal topic that the forwarder daemon
// relays to the real one.
type outbox struct {
	mu  sync.Mutex
	fwd *forwarder.Forwarder
}

func (o *outbox) wrap(pub message.Publisher) message.Publisher {
	return forwarder.NewPublisher(pub, forwarder.PublisherConfig{ForwarderTopic: outboxTopic})
}

func (o *outbox) close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fwd == nil {
		return nil
	}
	if err := o.fwd.Close(); err != nil {
		return fmt.Errorf("events: close forwarder: %w", err)
	}
	return nil
}

// StartForwarder runs the outbox relay in the background and blocks until it is
// accepting messages.
func (q *EventBus) StartForwarder(ctx context.Context) error {
	if q.outbox == nil {
		return ErrNoOutbox
	}
	q.outbox.mu.Lock()
	if q.outbox.fwd != nil {
		q.outbox.mu.Unlock()
		return ErrOutboxRunning
	}

	wlog := newWatermillLogger(q.log)
	sub, err := newSQLSubscriber(q.db, outboxGroup, wlog)
	if err != nil {
		q.outbox.mu.Unlock()
		return err
	}
	target, err := watermillsql.NewPublisher(q.db, publisherConfig(true), wlog)
	if err != nil {
		q.outbox.mu.Unlock()
		_ = sub.Close()
		return fmt.Errorf("events: new forwarder publisher: %w", err)
	}
	fwd, err := forwarder.NewForwarder(sub, target, wlog, forwarder.Config{ForwarderTopic: outboxTopic})
	if err != nil {
		q.outbox.mu.Unlock()
		_ = target.Close()
		_ = sub.Close()
		return fmt.Errorf("events: create forwarder: %w", err)
	}
	q.outbox.fwd = fwd
	q.outbox.mu.Unlock()

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		q.log.InfoContext(ctx, "events: outbox forwarder started", "topic", outboxTopic)
		if err := fwd.Run(ctx); err != nil {
			q.log.ErrorContext(ctx, "events: outbox forwarder stopped", "error", err)
			return
		}
		q.log.InfoContext(ctx, "events: outbox forwarder stopped")
	}()

	select {
	case <-fwd.Running():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("events: waiting for forwarder: %w", ctx.Err())
	}
}
