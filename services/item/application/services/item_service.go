package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	pkgcache "github.com/ghuser/itemsvc/pkg/cache"
	"github.com/ghuser/itemsvc/pkg/logger"
	itemdomain "github.com/ghuser/itemsvc/services/item/domain"
	"github.com/ghuser/itemsvc/services/item/domain/models"
	"github.com/ghuser/itemsvc/services/item/domain/repositories"
	domainsvcs "github.com/ghuser/itemsvc/services/item/domain/services"
)

const (
	instrumentationName = "github.com/ghuser/itemsvc/services/item"
	cacheWriteTimeout   = 2 * time.Second
)

// ItemCache is the read-through cache used by GetByID. Get returns redis.Nil on a miss.
type ItemCache interface {
	Get(ctx context.Context, itemID uuid.UUID) (*pkgcache.CachedItem, error)
	Set(ctx context.Context, item *pkgcache.CachedItem) error
}

// ItemService orchestrates creation and retrieval of Items.
// Event publishing is handled by the repository layer (outbox pattern).
type ItemService struct {
	repo    repositories.ItemRepository
	cache   ItemCache // nil when Redis is disabled
	strict  bool
	log     logger.Logger
	tracer  trace.Tracer
	created metric.Int64Counter
}

// NewItemService returns an ItemService. cache may be nil. strict enables the
// name rules in domain/services.ValidateName.
func NewItemService(repo repositories.ItemRepository, cache ItemCache, strict bool, log logger.Logger) *ItemService {
	s := &ItemService{
		repo:   repo,
		cache:  cache,
		strict: strict,
		log:    log,
		tracer: otel.Tracer(instrumentationName),
	}
	created, err := otel.Meter(instrumentationName).Int64Counter("items_created_total",
		metric.WithDescription("Items persisted through POST /items"))
	if err != nil {
		log.Warn("items_created_total counter unavailable", "error", err)
	}
	s.created = created
	return s
}

// Create assigns an id and timestamp, validates, and persists a new Item.
func (s *ItemService) Create(ctx context.Context, name string, value float64) (*models.Item, error) {
	ctx, span := s.tracer.Start(ctx, "ItemService.Create")
	defer span.End()

	itemValue, err := models.NewItemValue(value)
	if err != nil {
		return nil, s.fail(span, fmt.Errorf("%w: %w", itemdomain.ErrInvalidItemValue, err))
	}

	item := models.NewItem(models.ItemName(name), itemValue)
	span.SetAttributes(attribute.String("item.id", item.ID.String()))

	if err := domainsvcs.ValidateItemForCreation(item, s.strict); err != nil {
		return nil, s.fail(span, fmt.Errorf("%w: %w", itemdomain.ErrInvalidItemName, err))
	}

	if err := s.repo.Save(ctx, item); err != nil {
		return nil, s.fail(span, fmt.Errorf("save item: %w", err))
	}

	if s.created != nil {
		s.created.Add(ctx, 1)
	}
	return item, nil
}

// GetByID retrieves an Item using a read-through cache:
//  1. Check Redis first.
//  2. On a miss or cache error, query the store.
//  3. Warm the cache in the background with the store result.
func (s *ItemService) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	ctx, span := s.tracer.Start(ctx, "ItemService.GetByID",
		trace.WithAttributes(attribute.String("item.id", id.String())))
	defer span.End()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		switch {
		case err == nil:
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return fromCache(cached), nil
		case !errors.Is(err, redis.Nil):
			s.log.WarnContext(ctx, "item cache read failed", "item_id", id, "error", err)
		}
		span.SetAttributes(attribute.Bool("cache.hit", false))
	}

	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, itemdomain.ErrItemNotFound) {
			return nil, err
		}
		return nil, s.fail(span, fmt.Errorf("get item: %w", err))
	}

	if s.cache != nil {
		go s.warm(context.WithoutCancel(ctx), item)
	}

	return item, nil
}

// List returns the most recent items, newest first, capped at MaxListItems.
func (s *ItemService) List(ctx context.Context) ([]*models.Item, error) {
	ctx, span := s.tracer.Start(ctx, "ItemService.List")
	defer span.End()

	items, err := s.repo.ListRecent(ctx, repositories.MaxListItems)
	if err != nil {
		return nil, s.fail(span, fmt.Errorf("list items: %w", err))
	}
	span.SetAttributes(attribute.Int("items.count", len(items)))
	return items, nil
}

// Warm writes item to the cache. Failures are logged, never returned.
func (s *ItemService) Warm(ctx context.Context, item *models.Item) {
	if s.cache == nil {
		return
	}
	s.warm(ctx, item)
}

func (s *ItemService) warm(ctx context.Context, item *models.Item) {
	ctx, cancel := context.WithTimeout(ctx, cacheWriteTimeout)
	defer cancel()
	if err := s.cache.Set(ctx, toCache(item)); err != nil {
		s.log.WarnContext(ctx, "item cache write failed", "item_id", item.ID, "error", err)
	}
}

func (s *ItemService) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func toCache(item *models.Item) *pkgcache.CachedItem {
	return &pkgcache.CachedItem{
		ID:        item.ID,
		Name:      item.Name.String(),
		Value:     item.Value.Float64(),
		CreatedAt: item.CreatedAt,
	}
}

func fromCache(c *pkgcache.CachedItem) *models.Item {
	return &models.Item{
		ID:        c.ID,
		Name:      models.ItemName(c.Name),
		Value:     models.ItemValue(c.Value),
		CreatedAt: c.CreatedAt,
	}
}
