package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/itemsvc/services/item/domain/models"
)

// MaxListItems is the hard ceiling on rows returned by a list query. It is
// not configurable and there is no way to page past it.
const MaxListItems = 100

// ItemRepository is the persistence interface for the Item aggregate.
// The domain layer owns this interface; infrastructure implements it.
// Every method issues exactly one statement against the shared pool.
type ItemRepository interface {
	// Save inserts a new Item. Returns ErrItemAlreadyExists on a primary key collision.
	Save(ctx context.Context, item *models.Item) error

	// GetByID returns the Item with the given ID or ErrItemNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error)

	// ListRecent returns at most limit items, newest CreatedAt first.
	// An empty store yields an empty, non-nil slice.
	ListRecent(ctx context.Context, limit int) ([]*models.Item, error)
}
