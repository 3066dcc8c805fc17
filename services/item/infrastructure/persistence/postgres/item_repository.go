package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ghuser/itemsvc/pkg/database"
	"github.com/ghuser/itemsvc/pkg/events"
	itemdomain "github.com/ghuser/itemsvc/services/item/domain"
	domainevents "github.com/ghuser/itemsvc/services/item/domain/events"
	"github.com/ghuser/itemsvc/services/item/domain/models"
	"github.com/ghuser/itemsvc/services/item/infrastructure/persistence/postgres/db"
)

const uniqueViolation = "23505"

// ItemRepository implements repositories.ItemRepository against PostgreSQL.
type ItemRepository struct {
	db  *database.Database
	bus *events.EventBus
}

// NewItemRepository returns an ItemRepository backed by the given connection pool.
// bus may be nil, in which case Save is a single INSERT with no outbox write.
func NewItemRepository(database *database.Database, bus *events.EventBus) *ItemRepository {
	return &ItemRepository{db: database, bus: bus}
}

// Save persists a new Item. With an event bus the row and its ItemCreatedEvent
// are committed in one transaction.
// Returns ErrItemAlreadyExists on unique constraint violations.
func (r *ItemRepository) Save(ctx context.Context, item *models.Item) error {
	if r.bus == nil {
		return insert(ctx, db.New(r.db.DB()), item)
	}
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := insert(ctx, db.New(tx), item); err != nil {
			return err
		}
		if err := r.publishCreated(ctx, tx, item); err != nil {
			return fmt.Errorf("publish item created: %w", err)
		}
		return nil
	})
}

func insert(ctx context.Context, q *db.Queries, item *models.Item) error {
	err := q.InsertItem(ctx, db.InsertItemParams{
		ID:        item.ID,
		Name:      item.Name.String(),
		Value:     item.Value.Float64(),
		CreatedAt: item.CreatedAt,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return itemdomain.ErrItemAlreadyExists
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID retrieves an Item by ID. Returns ErrItemNotFound if not found.
func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	row, err := db.New(r.db.DB()).GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, itemdomain.ErrItemNotFound
		}
		return nil, fmt.Errorf("query item: %w", err)
	}
	return rowToItem(row), nil
}

// ListRecent returns up to limit items, newest first.
func (r *ItemRepository) ListRecent(ctx context.Context, limit int) ([]*models.Item, error) {
	rows, err := db.New(r.db.DB()).ListRecentItems(ctx, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}

	items := make([]*models.Item, len(rows))
	for i, row := range rows {
		items[i] = rowToItem(row)
	}
	return items, nil
}

func (r *ItemRepository) publishCreated(ctx context.Context, tx *sql.Tx, item *models.Item) error {
	event := domainevents.ItemCreatedEvent{
		EventID:    uuid.New(),
		Version:    domainevents.ItemCreatedEventVersion,
		ItemID:     item.ID,
		Name:       item.Name.String(),
		Value:      item.Value.Float64(),
		OccurredAt: item.CreatedAt,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_id", event.EventID.String())
	msg.Metadata.Set("event_version", strconv.Itoa(event.Version))
	return r.bus.PublishTx(ctx, tx, domainevents.TopicItemCreated, msg)
}

// rowToItem maps a db.Item to a domain models.Item.
func rowToItem(row db.Item) *models.Item {
	return &models.Item{
		ID:        row.ID,
		Name:      models.ItemName(row.Name),
		Value:     models.ItemValue(row.Value),
		CreatedAt: row.CreatedAt.UTC(),
	}
}
