package handlers

import (
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/itemsvc/services/item/domain/models"
)

// ItemResponse is the JSON shape of an item in every response.
type ItemResponse struct {
	ID        uuid.UUID `json:"id"         example:"123e4567-e89b-12d3-a456-426614174000"`
	Name      string    `json:"name"       example:"widget"`
	Value     float64   `json:"value"      example:"3.5"`
	CreatedAt time.Time `json:"created_at" example:"2024-01-15T10:30:00.123456Z"`
} // @name Item

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"item not found"`
} // @name ErrorResponse

// ValidationErrorResponse is returned with 422 when request fields are missing or mistyped.
type ValidationErrorResponse struct {
	Error  string            `json:"error"  example:"Validation failed"`
	Fields map[string]string `json:"fields"`
} // @name ValidationErrorResponse

func toResponse(item *models.Item) ItemResponse {
	return ItemResponse{
		ID:        item.ID,
		Name:      item.Name.String(),
		Value:     item.Value.Float64(),
		CreatedAt: item.CreatedAt,
	}
}
