package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	glebarezsqlite "github.com/glebarez/sqlite"

	"github.com/batchhost/batchhost/config"
	"github.com/batchhost/batchhost/internal/database"
)

// GormStore persists batch records through GORM, over whichever SQL
// dialect config.StorageConfig.Driver selects. Schema changes are applied
// out of band by internal/migration before the store is opened — GormStore
// itself never auto-migrates, so a dirty migration state surfaces as a
// plain query error rather than a silent schema drift.
type GormStore struct {
	db   *gorm.DB
	pool *database.PoolManager
}

// NewGormStore opens a GORM connection for cfg.Driver (postgres, mysql, or
// sqlite) and wraps it in a database.PoolManager for connection tuning and
// background health checks.
func NewGormStore(cfg config.StorageConfig, logger *zap.Logger) (*GormStore, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", cfg.Driver, err)
	}

	poolCfg := database.DefaultPoolConfig()
	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxOpenConns = cfg.MaxOpenConns
	}
	if cfg.MaxIdleConns > 0 {
		poolCfg.MaxIdleConns = cfg.MaxIdleConns
	}
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.ConnMaxLifetime = cfg.ConnMaxLifetime
	}

	pm, err := database.NewPoolManager(db, poolCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("storage: pool manager: %w", err)
	}

	return &GormStore{db: db, pool: pm}, nil
}

func dialectorFor(cfg config.StorageConfig) (gorm.Dialector, error) {
	dsn := cfg.DSNOrDefault()
	switch cfg.Driver {
	case "postgres":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "sqlite":
		return glebarezsqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("storage: unsupported gorm driver %q", cfg.Driver)
	}
}

func (s *GormStore) Write(ctx context.Context, rec BatchRecord) error {
	return s.db.WithContext(ctx).Create(&rec).Error
}

func (s *GormStore) Get(ctx context.Context, batchID string) (BatchRecord, error) {
	var rec BatchRecord
	err := s.db.WithContext(ctx).Where("batch_id = ?", batchID).First(&rec).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return BatchRecord{}, ErrNotFound
		}
		return BatchRecord{}, err
	}
	return rec, nil
}

func (s *GormStore) Recent(ctx context.Context, limit int) ([]BatchRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var recs []BatchRecord
	err := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&recs).Error
	return recs, err
}

func (s *GormStore) Close() error {
	return s.pool.Close()
}
