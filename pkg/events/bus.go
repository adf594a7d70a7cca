// Package events carries website domain events over PostgreSQL using Watermill's
// SQL transport.
//
// The API process publishes template and asset events inside the same transaction
// that writes the template row (see PublishEventTx). With the outbox forwarder
// enabled those messages land in an internal queue first and are relayed to their
// topic by a background daemon, so a crash after commit never loses an event.
//
// The worker process subscribes with a shared consumer group: each message is
// handled by exactly one replica. Handlers must be idempotent since a failing
// handler is retried according to the bus RetryPolicy before the message is Nacked.
package events

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/wono/hostpanel/pkg/config"
	"github.com/wono/hostpanel/pkg/logger"
)

const (
	drainTimeout  = 30 * time.Second
	errBufferSize = 100
)

// Handler processes one message. A nil return acks it.
type Handler func(ctx context.Context, msg *message.Message) error

// EventBus publishes and consumes domain events stored in PostgreSQL.
type EventBus struct {
	db         *sql.DB
	publisher  message.Publisher
	subscriber *watermillsql.Subscriber
	outbox     *outbox // nil unless built with NewEventBusWithForwarder
	retry      RetryPolicy
	log        logger.Logger
	wg         sync.WaitGroup
}

// NewEventBus builds a bus that publishes straight to topic tables. Used by the
// worker, which only consumes.
func NewEventBus(cfg *config.Config, log logger.Logger) (*EventBus, error) {
	return newEventBus(cfg, log, false)
}

// NewEventBusWithForwarder builds a bus whose publishes go through the outbox
// queue. Call StartForwarder before serving traffic.
func NewEventBusWithForwarder(cfg *config.Config, log logger.Logger) (*EventBus, error) {
	return newEventBus(cfg, log, true)
}

func newEventBus(cfg *config.Config, log logger.Logger, withOutbox bool) (*EventBus, error) {
	db, err := sql.Open("pgx", cfg.DefinitionDatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("events: open db: %w", err)
	}

	wlog := newWatermillLogger(log)

	pub, err := watermillsql.NewPublisher(db, publisherConfig(true), wlog)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("events: new publisher: %w", err)
	}

	sub, err := newSQLSubscriber(db, cfg.ConsumerGroup(), wlog)
	if err != nil {
		_ = pub.Close()
		_ = db.Close()
		return nil, err
	}

	bus := &EventBus{
		db:         db,
		publisher:  pub,
		subscriber: sub,
		retry:      RetryPolicy{Attempts: cfg.EventRetryAttempts, BaseDelay: cfg.EventRetryBaseDelay}.normalized(),
		log:        log,
	}
	if withOutbox {
		bus.outbox = &outbox{}
		bus.publisher = bus.outbox.wrap(pub)
	}
	return bus, nil
}

func publisherConfig(autoInit bool) watermillsql.PublisherConfig {
	return watermillsql.PublisherConfig{
		SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
		AutoInitializeSchema: autoInit,
	}
}

func newSQLSubscriber(db *sql.DB, group string, wlog *watermillLogger) (*watermillsql.Subscriber, error) {
	sub, err := watermillsql.NewSubscriber(db, watermillsql.SubscriberConfig{
		SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
		OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
		InitializeSchema: true,
		ConsumerGroup:    group,
	}, wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new subscriber (%s): %w", group, err)
	}
	return sub, nil
}

// NewTxPublisher returns a publisher whose inserts run inside tx. Schema
// tables already exist by the time a bus is built, so no initialization runs here.
func (q *EventBus) NewTxPublisher(tx *sql.Tx) (message.Publisher, error) {
	pub, err := watermillsql.NewPublisher(tx, publisherConfig(false), newWatermillLogger(q.log))
	if err != nil {
		return nil, fmt.Errorf("events: new tx publisher: %w", err)
	}
	if q.outbox != nil {
		return q.outbox.wrap(pub), nil
	}
	return pub, nil
}

// Publish sends msgs to topic with the caller's trace context attached.
func (q *EventBus) Publish(ctx context.Context, topic string, msgs ...*message.Message) error {
	for _, msg := range msgs {
		injectTrace(ctx, msg)
	}
	if err := q.publisher.Publish(topic, msgs...); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s: %w", topic, err)
	}
	return nil
}

// Subscribe consumes topic in the background until ctx is done or the bus is
// closed. Errors that survive every retry are sent on the returned channel,
// which the caller must drain.
func (q *EventBus) Subscribe(ctx context.Context, topic string, handler Handler) (<-chan error, error) {
	ch, err := q.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("events: subscribe to %s: %w", topic, err)
	}

	errCh := make(chan error, errBufferSize)

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		defer close(errCh)

		for msg := range ch {
			msgCtx := extractTrace(ctx, msg)
			if err := q.retry.run(msgCtx, msg, handler, q.log); err != nil {
				msg.Nack()
				select {
				case errCh <- fmt.Errorf("%s/%s: %w", topic, msg.Metadata.Get(MetadataEventID), err):
				default:
					q.log.ErrorContext(msgCtx, "events: error channel full, dropping error",
						"error", err, "topic", topic, "event_id", msg.Metadata.Get(MetadataEventID))
				}
				continue
			}
			msg.Ack()
		}
	}()

	return errCh, nil
}

// Ping checks the bus database connection.
func (q *EventBus) Ping(ctx context.Context) error {
	if err := q.db.PingContext(ctx); err != nil {
		return fmt.Errorf("events: ping db: %w", err)
	}
	return nil
}

// Close stops consuming, stops the forwarder, waits for in-flight handlers
// and releases the connection.
func (q *EventBus) Close() error {
	if err := q.subscriber.Close(); err != nil {
		return fmt.Errorf("events: close subscriber: %w", err)
	}
	if q.outbox != nil {
		if err := q.outbox.close(); err != nil {
			return err
		}
	}

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(drainTimeout):
		q.log.Error("events: timed out waiting for in-flight handlers")
	}

	if err := q.publisher.Close(); err != nil {
		return fmt.Errorf("events: close publisher: %w", err)
	}
	return q.db.Close()
}
