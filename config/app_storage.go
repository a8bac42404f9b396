package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/launchline/go-waitlist-kit/internal/log"
	"github.com/launchline/go-waitlist-kit/pkg/kv"
	"github.com/launchline/go-waitlist-kit/pkg/migrations"
	"github.com/launchline/go-waitlist-kit/pkg/utils"
	"gorm.io/gorm"
)

const (
	StorageDriverFile     = "file"
	StorageDriverMemory   = "memory"
	StorageDriverSQLite   = "sqlite"
	StorageDriverPostgres = "postgres"
	StorageDriverRedis    = "redis"
)

var ErrUnknownStorageDriver = &StorageError{Message: "unknown storage driver"}

type StorageError struct {
	Message string
}

func (e *StorageError) Error() string {
	return e.Message
}

type StorageConfig struct {
	// Driver selects the medium. The default is the JSON file store,
	// which needs nothing installed.
	Driver   string
	FilePath string
	// SQLitePath backs the sqlite driver. ":memory:" is accepted.
	SQLitePath string
	// Resilient wraps the medium with retries and a circuit breaker.
	Resilient bool
	// RunMigrations applies the SQL migration files instead of GORM
	// auto-migration for the sqlite and postgres drivers.
	RunMigrations bool
	MigrationsDir string
}

func NewStorageConfig() *StorageConfig {
	return &StorageConfig{
		Driver:        strings.ToLower(utils.GetEnvTrimmedOrDefault("STORAGE_DRIVER", StorageDriverFile)),
		FilePath:      utils.GetEnvTrimmedOrDefault("STORAGE_FILE_PATH", "data/waitlist.json"),
		SQLitePath:    utils.GetEnvTrimmedOrDefault("STORAGE_SQLITE_PATH", "data/waitlist.db"),
		Resilient:     utils.GetEnvBoolOrDefault("STORAGE_RESILIENT", true),
		RunMigrations: utils.GetEnvBoolOrDefault("STORAGE_RUN_MIGRATIONS", false),
		MigrationsDir: utils.GetEnvTrimmedOrDefault("STORAGE_MIGRATIONS_DIR", "migrations"),
	}
}

func (sc *StorageConfig) NewStorage(logger *log.Logger) (kv.Store, error) {
	var medium kv.Store

	switch sc.Driver {
	case StorageDriverMemory:
		logger.Info("Using in-memory storage; signups will not survive a restart")
		medium = kv.NewMemoryStore()

	case StorageDriverFile:
		store, err := kv.NewFileStore(sc.FilePath)
		if err != nil {
			logger.Error("Failed to open storage file", "path", sc.FilePath, "error", err)
			return nil, err
		}
		logger.Info("Using file storage", "path", sc.FilePath)
		medium = store

	case StorageDriverSQLite:
		db, err := NewSQLiteDatabase(logger, sc.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := sc.prepareSchema(logger, db, migrations.DriverSQLite); err != nil {
			CloseDatabase(db, logger)
			return nil, err
		}
		store, err := kv.NewGormStore(db)
		if err != nil {
			CloseDatabase(db, logger)
			return nil, err
		}
		medium = store

	case StorageDriverPostgres:
		db, err := NewPostgresDatabase(logger, nil)
		if err != nil {
			return nil, err
		}
		if err := sc.prepareSchema(logger, db, migrations.DriverPostgres); err != nil {
			CloseDatabase(db, logger)
			return nil, err
		}
		store, err := kv.NewGormStore(db)
		if err != nil {
			CloseDatabase(db, logger)
			return nil, err
		}
		medium = store

	case StorageDriverRedis:
		store, err := newRedisStorage(logger)
		if err != nil {
			return nil, err
		}
		medium = store

	default:
		logger.Error("Unknown storage driver", "driver", sc.Driver)
		return nil, fmt.Errorf("%w: %q", ErrUnknownStorageDriver, sc.Driver)
	}

	if sc.Resilient {
		medium = kv.NewResilientStore(medium, nil)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := medium.Ping(ctx); err != nil {
		logger.Error("Storage health check failed", "driver", sc.Driver, "error", err)
		CloseStorage(medium, logger)
		return nil, err
	}

	return medium, nil
}

// prepareSchema brings kv_slots up to date, through the SQL migration
// files when configured and GORM auto-migration otherwise.
func (sc *StorageConfig) prepareSchema(logger *log.Logger, db *gorm.DB, migrationDriver string) error {
	if !sc.RunMigrations {
		return AutoMigrate(logger, db, &kv.Slot{})
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("Failed to get SQL DB instance for migration", "error", err)
		return fmt.Errorf("get sql db for migration: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	return migrations.Up(ctx, sqlDB, migrations.Config{
		Driver: migrationDriver,
		Dir:    sc.MigrationsDir,
		Logger: logger,
	})
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func NewRedisConfig() *RedisConfig {
	return &RedisConfig{
		Host:     os.Getenv("REDIS_HOST"),
		Port:     utils.GetEnvOrDefault("REDIS_PORT", "6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0, // Slots and throttle state share DB 0
	}
}

func (rc *RedisConfig) IsConfigured() bool {
	return rc.Host != ""
}

func newRedisStorage(logger *log.Logger) (*kv.RedisStore, error) {
	rc := NewRedisConfig()
	if !rc.IsConfigured() {
		logger.Error("Storage (Redis) configuration is missing")
		return nil, &StorageError{Message: "redis host is not configured"}
	}

	store, err := kv.NewRedisStore(&kv.RedisConfig{
		Host:      rc.Host,
		Port:      rc.Port,
		Password:  rc.Password,
		DB:        rc.DB,
		KeyPrefix: utils.GetEnvTrimmed("REDIS_KEY_PREFIX"),
	})
	if err != nil {
		logger.Error("Failed to connect to Storage (Redis)", "error", err)
		return nil, err
	}

	logger.Info("Storage (Redis) connected successfully")
	return store, nil
}

func CloseStorage(storage kv.Store, logger *log.Logger) error {
	if storage == nil {
		logger.Info("No storage provided; skipping storage close")
		return nil
	}

	if err := storage.Close(); err != nil {
		logger.Error("Failed to close storage", "error", err)
		return err
	}

	logger.Info("Storage closed")
	return nil
}
