package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// ItemCacheTTL bounds memory use; items never change, so expiry is the
	// only way an entry leaves the cache.
	ItemCacheTTL = 24 * time.Hour

	itemCacheKeyPrefix = "item"
)

// CachedItem is the read model stored in Redis as a hash.
type CachedItem struct {
	ID        uuid.UUID
	Name      string
	Value     float64
	CreatedAt time.Time
}

// ItemCache reads and writes item entries.
// Key format: "item:{itemID}"
type ItemCache struct {
	client *RedisClient
}

// NewItemCache creates a new ItemCache backed by the given RedisClient.
func NewItemCache(r *RedisClient) *ItemCache {
	return &ItemCache{client: r}
}

// Get retrieves a cached item.
// Returns redis.Nil when the key does not exist or has expired.
func (c *ItemCache) Get(ctx context.Context, itemID uuid.UUID) (*CachedItem, error) {
	vals, err := c.client.Client().HGetAll(ctx, Key(itemID)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil
	}
	return decode(vals)
}

// Set writes item as a hash and refreshes its TTL in one round trip.
func (c *ItemCache) Set(ctx context.Context, item *CachedItem) error {
	key := Key(item.ID)
	pipe := c.client.Client().TxPipeline()
	pipe.HSet(ctx, key, encode(item))
	pipe.Expire(ctx, key, ItemCacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Key builds the Redis key for an item.
func Key(itemID uuid.UUID) string {
	return itemCacheKeyPrefix + ":" + itemID.String()
}

func encode(item *CachedItem) map[string]any {
	return map[string]any{
		"id":         item.ID.String(),
		"name":       item.Name,
		"value":      strconv.FormatFloat(item.Value, 'g', -1, 64),
		"created_at": item.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func decode(vals map[string]string) (*CachedItem, error) {
	id, err := uuid.Parse(vals["id"])
	if err != nil {
		return nil, fmt.Errorf("cache parse id: %w", err)
	}
	value, err := strconv.ParseFloat(vals["value"], 64)
	if err != nil {
		return nil, fmt.Errorf("cache parse value: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, vals["created_at"])
	if err != nil {
		return nil, fmt.Errorf("cache parse created_at: %w", err)
	}
	return &CachedItem{
		ID:        id,
		Name:      vals["name"],
		Value:     value,
		CreatedAt: createdAt.UTC(),
	}, nil
}
