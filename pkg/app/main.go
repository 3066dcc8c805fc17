// Package app holds the dependency container shared by every bounded context.
package app

import (
	"github.com/ghuser/itemsvc/pkg/cache"
	"github.com/ghuser/itemsvc/pkg/config"
	"github.com/ghuser/itemsvc/pkg/database"
	"github.com/ghuser/itemsvc/pkg/events"
	"github.com/ghuser/itemsvc/pkg/logger"
)

// Application holds shared infrastructure dependencies for all services.
// Built once in main and passed to every service's route registration.
//
// Optional dependencies are nil when disabled:
//   - EventBus: nil on SQLite or with EVENTS_ENABLED=false
//   - Redis: nil when REDIS_URL is empty
//
// Logging: app.Logger is backed by a trace-aware handler, so trace_id, span_id
// and request_id are injected automatically when the context methods are used:
//
//	app.Logger.InfoContext(ctx, "processing item", "item_id", id)
//	app.Logger.ErrorContext(ctx, "failed to save", "error", err)
type Application struct {
	Config   *config.Config
	Db       *database.Database
	Logger   logger.Logger
	EventBus *events.EventBus
	Redis    *cache.RedisClient
}
