// Package sqlite stores items in a single SQLite file for local development.
// created_at is kept as unix microseconds so ordering and round trips are exact.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/ghuser/itemsvc/pkg/database"
	itemdomain "github.com/ghuser/itemsvc/services/item/domain"
	"github.com/ghuser/itemsvc/services/item/domain/models"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS items (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		value      REAL NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS items_created_at_idx ON items (created_at DESC)`,
}

// EnsureSchema creates the items table if it does not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite schema: %w", err)
		}
	}
	return nil
}

// ItemRepository implements repositories.ItemRepository on SQLite.
type ItemRepository struct {
	db *database.Database
}

func NewItemRepository(database *database.Database) *ItemRepository {
	return &ItemRepository{db: database}
}

// Save inserts item. Returns ErrItemAlreadyExists on a primary key collision.
func (r *ItemRepository) Save(ctx context.Context, item *models.Item) error {
	_, err := r.db.DB().ExecContext(ctx,
		`INSERT INTO items (id, name, value, created_at) VALUES (?, ?, ?, ?)`,
		item.ID.String(), item.Name.String(), item.Value.Float64(), item.CreatedAt.UnixMicro(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return itemdomain.ErrItemAlreadyExists
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID returns the item with id or ErrItemNotFound.
func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	row := r.db.DB().QueryRowContext(ctx,
		`SELECT id, name, value, created_at FROM items WHERE id = ?`, id.String())
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, itemdomain.ErrItemNotFound
		}
		return nil, fmt.Errorf("query item: %w", err)
	}
	return item, nil
}

// ListRecent returns up to limit items, newest first.
func (r *ItemRepository) ListRecent(ctx context.Context, limit int) ([]*models.Item, error) {
	rows, err := r.db.DB().QueryContext(ctx,
		`SELECT id, name, value, created_at FROM items ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	items := make([]*models.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (*models.Item, error) {
	var (
		id        string
		name      string
		value     float64
		createdAt int64
	)
	if err := s.Scan(&id, &name, &value, &createdAt); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("corrupt item id %q: %w", id, err)
	}
	return &models.Item{
		ID:        parsed,
		Name:      models.ItemName(name),
		Value:     models.ItemValue(value),
		CreatedAt: time.UnixMicro(createdAt).UTC(),
	}, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlitedrv.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	return false
}
