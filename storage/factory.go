package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/batchhost/batchhost/config"
)

// mongoDatabaseName is the database batchhost uses within a Mongo
// deployment. Storage.DSN may still point at a different server; the
// database name itself is not separately configurable because batchhost
// owns exactly one collection (batch_records) within it.
const mongoDatabaseName = "batchhost"

// NewStore builds the Store selected by cfg.Driver. Driver "" or "none"
// returns a NopStore that discards every record — the audit log is purely
// optional observability, never load-bearing for batching itself.
func NewStore(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (Store, error) {
	switch cfg.Driver {
	case "", "none":
		return NopStore{}, nil
	case "postgres", "mysql", "sqlite":
		return NewGormStore(cfg, logger)
	case "mongo":
		return NewMongoStore(ctx, cfg.DSNOrDefault(), mongoDatabaseName)
	default:
		return nil, fmt.Errorf("storage: unsupported driver %q", cfg.Driver)
	}
}
