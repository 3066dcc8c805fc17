package models

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewItem(t *testing.T) {
	t.Run("sets fields", func(t *testing.T) {
		item := NewItem("widget", 3.5)
		if item.ID == uuid.Nil {
			t.Fatal("expected non-zero UUID for ID")
		}
		if item.ID.Version() != 4 {
			t.Errorf("expected UUID v4, got v%d", item.ID.Version())
		}
		if item.Name != "widget" || item.Value != 3.5 {
			t.Fatalf("unexpected item: %+v", item)
		}
	})

	t.Run("CreatedAt is now, UTC, microsecond precision", func(t *testing.T) {
		before := time.Now().UTC()
		item := NewItem("widget", 1)
		after := time.Now().UTC().Add(time.Microsecond)

		if item.CreatedAt.Location() != time.UTC {
			t.Errorf("expected UTC, got %v", item.CreatedAt.Location())
		}
		if item.CreatedAt.Before(before) || item.CreatedAt.After(after) {
			t.Fatalf("CreatedAt %v not between %v and %v", item.CreatedAt, before, after)
		}
		if item.CreatedAt.Nanosecond()%1000 != 0 {
			t.Errorf("CreatedAt has sub-microsecond precision: %v", item.CreatedAt)
		}
	})

	t.Run("degenerate input is accepted", func(t *testing.T) {
		item := NewItem("", -42)
		if item.Name != "" || item.Value != -42 {
			t.Fatalf("unexpected item: %+v", item)
		}
	})

	t.Run("generates unique IDs on each call", func(t *testing.T) {
		seen := make(map[uuid.UUID]bool)
		for range 1000 {
			id := NewItem("widget", 1).ID
			if seen[id] {
				t.Fatalf("duplicate ID %s", id)
			}
			seen[id] = true
		}
	})
}

func TestCeilMicro(t *testing.T) {
	base := time.Date(2024, 1, 15, 10, 30, 0, 5000, time.UTC)
	if got := ceilMicro(base); !got.Equal(base) {
		t.Errorf("whole microsecond changed: %v", got)
	}
	if got := ceilMicro(base.Add(1)); !got.Equal(base.Add(time.Microsecond)) {
		t.Errorf("expected round up, got %v", got)
	}
}

func TestNewItemValue(t *testing.T) {
	tests := []struct {
		name    string
		in      float64
		wantErr bool
	}{
		{"positive", 3.5, false},
		{"zero", 0, false},
		{"negative", -1e9, false},
		{"max float", math.MaxFloat64, false},
		{"NaN", math.NaN(), true},
		{"+Inf", math.Inf(1), true},
		{"-Inf", math.Inf(-1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewItemValue(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewItemValue(%v) error = %v, wantErr = %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && v.Float64() != tt.in {
				t.Errorf("got %v, want %v", v.Float64(), tt.in)
			}
		})
	}
}

func TestItemName(t *testing.T) {
	if ItemName("hello").String() != "hello" {
		t.Fatal("String mismatch")
	}
	for _, blank := range []ItemName{"", " ", "\t\n"} {
		if !blank.IsBlank() {
			t.Errorf("%q should be blank", blank)
		}
	}
	if ItemName(" a ").IsBlank() {
		t.Error(`" a " should not be blank`)
	}
}
