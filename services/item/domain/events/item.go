package events

import (
	"time"

	"github.com/google/uuid"
)

// TopicItemCreated is the Watermill topic published when an Item is created.
const TopicItemCreated = "item.created"

// ItemCreatedEventVersion is the current schema version of ItemCreatedEvent.
const ItemCreatedEventVersion = 1

// ItemCreatedEvent is written to the outbox in the same transaction as the
// item row. It carries the full item so consumers never read back the store.
type ItemCreatedEvent struct {
	EventID    uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int       `json:"version"`  // Schema version; increment on breaking changes
	ItemID     uuid.UUID `json:"item_id"`
	Name       string    `json:"name"`
	Value      float64   `json:"value"`
	OccurredAt time.Time `json:"occurred_at"`
}
