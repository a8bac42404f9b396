package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/launchline/go-waitlist-kit/internal/log"
	"github.com/launchline/go-waitlist-kit/pkg/constants"
	"github.com/launchline/go-waitlist-kit/pkg/kv"
	"github.com/launchline/go-waitlist-kit/pkg/utils"
	"github.com/prometheus/client_golang/prometheus"
)

type ApplicationConfig struct {
	// Storage is the durable medium the waitlist persists to.
	Storage         kv.Store
	Logger          *log.Logger
	Config          *AppConfig
	MetricsRegistry *prometheus.Registry
	TracingShutdown func(context.Context) error
}

type AppConfig struct {
	JoinThrottleRequests int
	JoinThrottleWindow   time.Duration
	MetricsEnabled       bool
}

func NewAppConfig() *AppConfig {
	config := &AppConfig{
		JoinThrottleRequests: constants.DefaultJoinThrottleRequests,
		JoinThrottleWindow:   constants.DefaultJoinThrottleWindow(),
		MetricsEnabled:       utils.GetEnvBoolOrDefault("METRICS_ENABLED", true),
	}

	// Override from environment variables
	if reqStr := os.Getenv("JOIN_THROTTLE_REQUESTS"); reqStr != "" {
		if parsed, err := strconv.Atoi(reqStr); err == nil && parsed > 0 {
			config.JoinThrottleRequests = parsed
		}
	}

	if winStr := os.Getenv("JOIN_THROTTLE_WINDOW"); winStr != "" {
		if parsed, err := time.ParseDuration(winStr); err == nil && parsed > 0 {
			config.JoinThrottleWindow = parsed
		}
	}

	return config
}

func (ac *ApplicationConfig) Cleanup() {
	if ac.TracingShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ac.TracingShutdown(ctx); err != nil {
			ac.Logger.Error("Failed to shutdown tracer provider", "error", err)
		}
	}

	if ac.Storage != nil {
		_ = CloseStorage(ac.Storage, ac.Logger)
	}

	ac.Logger.Info("Application cleanup completed")
}

func LoadApplicationConfiguration(logger *log.Logger) (*ApplicationConfig, error) {
	InitializeEnvFile(logger)

	tracingShutdown, err := SetupTracing(logger)
	if err != nil {
		return nil, err
	}

	storageConfig := NewStorageConfig()

	// Auto-migration is the development default for database drivers;
	// production schemas go through the SQL migration files.
	dbBacked := storageConfig.Driver == StorageDriverSQLite || storageConfig.Driver == StorageDriverPostgres
	if dbBacked && !storageConfig.RunMigrations {
		if err := ValidateAutoMigrateAllowed(GetAppEnv()); err != nil {
			return nil, fmt.Errorf("%w; set STORAGE_RUN_MIGRATIONS=true to use the SQL migration files", err)
		}
	}

	storage, err := storageConfig.NewStorage(logger)
	if err != nil {
		return nil, err
	}

	appConfig := NewAppConfig()

	var registry *prometheus.Registry
	if appConfig.MetricsEnabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(prometheus.NewGoCollector())
		registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	} else {
		logger.Info("Metrics disabled (METRICS_ENABLED=false)")
	}

	logger.Info("Application configuration loaded successfully")

	return &ApplicationConfig{
		Storage:         storage,
		Logger:          logger,
		Config:          appConfig,
		MetricsRegistry: registry,
		TracingShutdown: tracingShutdown,
	}, nil
}
