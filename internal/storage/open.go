package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"masterblog/internal/config"
	"masterblog/internal/middleware"
	"masterblog/internal/models"

	"github.com/spf13/afero"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open builds the Store selected by cfg.StorageDriver. The returned close
// function releases any database connection and is never nil.
func Open(ctx context.Context, cfg *config.Config) (Store, func() error, error) {
	noop := func() error { return nil }
	policy := ParseCorruptPolicy(cfg.CorruptReadPolicy)

	switch cfg.StorageDriver {
	case config.DriverJSON:
		store := NewJSONFileStore(afero.NewOsFs(), cfg.PostsFile, policy)
		return Instrument(store, config.DriverJSON), noop, nil

	case config.DriverMemory:
		return Instrument(NewMemoryStore(models.ExamplePosts()), config.DriverMemory), noop, nil

	case config.DriverSQLite, config.DriverPostgres:
		db, err := openDB(cfg)
		if err != nil {
			return nil, noop, err
		}
		closeFn := func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}
		store, err := OpenSQLStore(ctx, db)
		if err != nil {
			_ = closeFn()
			return nil, noop, err
		}
		return Instrument(store, cfg.StorageDriver), closeFn, nil
	}

	return nil, noop, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
}

func openDB(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.StorageDriver {
	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
			}
		}
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		dialector = postgres.Open(cfg.DatabaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newSQLLogger(cfg.StorageDriver, cfg.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	middleware.Logger.Info("Database connected successfully")
	return db, nil
}
