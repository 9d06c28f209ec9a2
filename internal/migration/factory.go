package migration

import (
	"fmt"

	appconfig "github.com/batchhost/batchhost/config"
)

// NewMigratorFromConfig creates a new migrator from application configuration
func NewMigratorFromConfig(cfg *appconfig.Config) (*DefaultMigrator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	return NewMigratorFromStorageConfig(cfg.Storage)
}

// NewMigratorFromStorageConfig creates a new migrator from the audit-log
// storage configuration. Driver "none" and "mongo" have no schema_migrations
// table and return an error — callers should skip migration entirely for
// those drivers.
func NewMigratorFromStorageConfig(storageCfg appconfig.StorageConfig) (*DefaultMigrator, error) {
	dbType, err := ParseDatabaseType(storageCfg.Driver)
	if err != nil {
		return nil, fmt.Errorf("invalid database type: %w", err)
	}

	migCfg := &Config{
		DatabaseType:   dbType,
		DatabaseURL:    storageCfg.DSNOrDefault(),
		MigrationsPath: storageCfg.MigrationsPath,
		TableName:      "schema_migrations",
	}

	return NewMigrator(migCfg)
}

// NewMigratorFromURL creates a new migrator from a database URL
func NewMigratorFromURL(dbType, dbURL string) (*DefaultMigrator, error) {
	dt, err := ParseDatabaseType(dbType)
	if err != nil {
		return nil, err
	}

	return NewMigrator(&Config{
		DatabaseType: dt,
		DatabaseURL:  dbURL,
		TableName:    "schema_migrations",
	})
}
