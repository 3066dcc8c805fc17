package services

import (
	"context"
	"fmt"

	"github.com/ghuser/itemsvc/pkg/app"
	"github.com/ghuser/itemsvc/pkg/cache"
	"github.com/ghuser/itemsvc/pkg/database"
	domainevents "github.com/ghuser/itemsvc/services/item/domain/events"
	"github.com/ghuser/itemsvc/services/item/domain/repositories"
	"github.com/ghuser/itemsvc/services/item/infrastructure/persistence/postgres"
	"github.com/ghuser/itemsvc/services/item/infrastructure/persistence/sqlite"
)

// TopicsPublished lists the topics the item repository writes inside transactions.
var TopicsPublished = []string{domainevents.TopicItemCreated}

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Item *ItemService
}

// New wires all item application services with infrastructure from the Application container.
func New(a *app.Application) *Services {
	var itemCache ItemCache
	if a.Redis != nil {
		itemCache = cache.NewItemCache(a.Redis)
	}
	strict := a.Config != nil && a.Config.StrictValidation
	return &Services{
		Item: NewItemService(newRepository(a), itemCache, strict, a.Logger),
	}
}

func newRepository(a *app.Application) repositories.ItemRepository {
	if a.Db.Driver() == database.DriverSQLite {
		return sqlite.NewItemRepository(a.Db)
	}
	return postgres.NewItemRepository(a.Db, a.EventBus)
}

// PrepareStore readies the backing store before the first request. SQLite
// creates its table; PostgreSQL is provisioned out of band and only needs
// the event bus outbox tables.
func PrepareStore(ctx context.Context, a *app.Application) error {
	if a.Db.Driver() == database.DriverSQLite {
		return sqlite.EnsureSchema(ctx, a.Db.DB())
	}
	if a.EventBus != nil {
		if err := a.EventBus.EnsureTopics(TopicsPublished...); err != nil {
			return fmt.Errorf("prepare outbox: %w", err)
		}
	}
	return nil
}
