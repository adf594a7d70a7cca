package events

import (
	"time"

	"github.com/google/uuid"
)

// Watermill topics published by the website context.
const (
	TopicTemplateCreated = "website.template.created"
	TopicTemplateUpdated = "website.template.updated"
	TopicAssetsOrphaned  = "website.assets.orphaned"
)

// TemplateCreatedEvent is published in the same transaction that inserts a template.
type TemplateCreatedEvent struct {
	EventID     uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version     int       `json:"version"`  // Schema version; increment on breaking changes
	SearchKey   string    `json:"search_key"`
	CompanyName string    `json:"company_name"`
	Revision    int64     `json:"revision"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// TemplateUpdatedEvent is published when an edit commits or activation changes state.
type TemplateUpdatedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	Version    int       `json:"version"`
	SearchKey  string    `json:"search_key"`
	Revision   int64     `json:"revision"`
	IsActive   bool      `json:"is_active"`
	OccurredAt time.Time `json:"occurred_at"`
}

// AssetsOrphanedEvent lists stored objects that no template references after a
// failed create or edit. The worker deletes them.
type AssetsOrphanedEvent struct {
	EventID     uuid.UUID `json:"event_id"`
	Version     int       `json:"version"`
	OperationID uuid.UUID `json:"operation_id"`
	SearchKey   string    `json:"search_key"`
	URLs        []string  `json:"urls"`
	Reason      string    `json:"reason"`
	OccurredAt  time.Time `json:"occurred_at"`
}
