package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Metadata keys set on every domain event message.
const (
	MetadataEventID      = "event_id"
	MetadataEventVersion = "event_version"
)

// NewEventMessage marshals event as the payload of a new message and stamps the
// event id and schema version into its metadata.
func NewEventMessage(event any, version int) (*message.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("events: marshal payload: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(MetadataEventID, msg.UUID)
	msg.Metadata.Set(MetadataEventVersion, strconv.Itoa(version))
	return msg, nil
}

// DecodeEvent unmarshals the payload of msg into T.
func DecodeEvent[T any](msg *message.Message) (T, error) {
	var ev T
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		return ev, fmt.Errorf("events: decode %s: %w", msg.UUID, err)
	}
	return ev, nil
}

// PublishEvent publishes event outside any transaction.
func (q *EventBus) PublishEvent(ctx context.Context, topic string, event any, version int) error {
	msg, err := NewEventMessage(event, version)
	if err != nil {
		return err
	}
	return q.Publish(ctx, topic, msg)
}

// PublishEventTx publishes event inside tx so it commits or rolls back with the
// caller's writes.
func (q *EventBus) PublishEventTx(tx *sql.Tx, topic string, event any, version int) error {
	msg, err := NewEventMessage(event, version)
	if err != nil {
		return err
	}
	p, err := q.NewTxPublisher(tx)
	if err != nil {
		return fmt.Errorf("events: tx publisher: %w", err)
	}
	if err := p.Publish(topic, msg); err != nil {
		return fmt.Errorf("events: publish to %s: %w", topic, err)
	}
	return nil
}
