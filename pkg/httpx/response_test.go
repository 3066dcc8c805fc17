package httpx_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ghuser/itemsvc/pkg/httpx"
)

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	httpx.JSON(w, http.StatusCreated, map[string]any{"name": "widget", "value": 3.5})

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("unexpected Content-Type: %q", ct)
	}
	if xct := w.Header().Get("X-Content-Type-Options"); xct != "nosniff" {
		t.Errorf("expected nosniff, got %q", xct)
	}
	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if body["value"] != 3.5 {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestJSON_EmptySliceIsArray(t *testing.T) {
	w := httptest.NewRecorder()
	httpx.JSON(w, http.StatusOK, []string{})

	if got := w.Body.String(); got != "[]\n" {
		t.Errorf("expected [], got %q", got)
	}
}

func TestJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	httpx.JSONError(w, http.StatusNotFound, "item not found")

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if w.Code != http.StatusNotFound || body["error"] != "item not found" {
		t.Errorf("unexpected response %d %v", w.Code, body)
	}
}

func TestSafeError(t *testing.T) {
	err := errors.New("list items: dial tcp 10.0.0.5:5432: connection refused")

	tests := []struct {
		name         string
		status       int
		isProduction bool
		want         string
	}{
		{"development shows detail", http.StatusInternalServerError, false, err.Error()},
		{"production hides 5xx detail", http.StatusInternalServerError, true, "Internal Server Error"},
		{"production keeps 4xx detail", http.StatusNotFound, true, err.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := httpx.SafeError(err, tt.status, tt.isProduction); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
