package main

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/ghuser/itemsvc/pkg/logger"
	itemEvents "github.com/ghuser/itemsvc/services/item/domain/events"
	"github.com/ghuser/itemsvc/services/item/domain/models"
)

type recordingWarmer struct {
	items []*models.Item
}

func (w *recordingWarmer) Warm(_ context.Context, item *models.Item) {
	w.items = append(w.items, item)
}

func TestHandleItemCreated(t *testing.T) {
	warmer := &recordingWarmer{}
	handler := handleItemCreated(warmer, logger.NewWithWriter(io.Discard, "error"))

	evt := itemEvents.ItemCreatedEvent{
		EventID:    uuid.New(),
		Version:    itemEvents.ItemCreatedEventVersion,
		ItemID:     uuid.New(),
		Name:       "widget",
		Value:      3.5,
		OccurredAt: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if err := handler(context.Background(), message.NewMessage("1", payload)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(warmer.items) != 1 {
		t.Fatalf("expected 1 warmed item, got %d", len(warmer.items))
	}
	got := warmer.items[0]
	if got.ID != evt.ItemID || got.Name != "widget" || got.Value != 3.5 || !got.CreatedAt.Equal(evt.OccurredAt) {
		t.Errorf("unexpected warmed item: %+v", got)
	}
}

func TestHandleItemCreated_BadPayload(t *testing.T) {
	warmer := &recordingWarmer{}
	handler := handleItemCreated(warmer, logger.NewWithWriter(io.Discard, "error"))

	if err := handler(context.Background(), message.NewMessage("1", []byte("{"))); err == nil {
		t.Fatal("expected error for undecodable payload")
	}
	if len(warmer.items) != 0 {
		t.Fatal("nothing should be warmed on a bad payload")
	}
}
