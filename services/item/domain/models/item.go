package models

import (
	"time"

	"github.com/google/uuid"
)

// Item is the only aggregate of this bounded context. Items are immutable
// once created.
type Item struct {
	ID        uuid.UUID
	Name      ItemName
	Value     ItemValue
	CreatedAt time.Time
}

// NewItem constructs an Item with a generated ID and the current UTC time.
// CreatedAt is rounded up to whole microseconds, the resolution of the store,
// so the value handed back equals the one read back later and is never
// earlier than the moment of the call.
func NewItem(name ItemName, value ItemValue) *Item {
	return &Item{
		ID:        uuid.New(),
		Name:      name,
		Value:     value,
		CreatedAt: ceilMicro(time.Now().UTC()),
	}
}

func ceilMicro(t time.Time) time.Time {
	tr := t.Truncate(time.Microsecond)
	if tr.Before(t) {
		tr = tr.Add(time.Microsecond)
	}
	return tr
}
