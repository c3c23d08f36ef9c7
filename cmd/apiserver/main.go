// API server entry point for TimebarKeeper.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/TimebarKeeper/internal/application/scheduling"
	"github.com/turtacn/TimebarKeeper/internal/config"
	"github.com/turtacn/TimebarKeeper/internal/infrastructure/database/postgres"
	"github.com/turtacn/TimebarKeeper/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/TimebarKeeper/internal/infrastructure/database/redis"
	"github.com/turtacn/TimebarKeeper/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/TimebarKeeper/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/TimebarKeeper/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/turtacn/TimebarKeeper/internal/interfaces/http"
	"github.com/turtacn/TimebarKeeper/internal/interfaces/http/handlers"
	"github.com/turtacn/TimebarKeeper/internal/interfaces/http/middleware"
)

const defaultConfigPath = "configs/config.yaml"

// Build-time variables injected via ldflags.
var version = "dev"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: []string{cfg.Log.Output},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.Info("starting TimebarKeeper API server",
		logging.String("version", version),
		logging.Int("port", cfg.Server.Port))

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", logging.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger logging.Logger) error {
	// PostgreSQL
	conn, err := postgres.NewConnection(postgres.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		Database:        cfg.Database.DBName,
		Username:        cfg.Database.User,
		Password:        cfg.Database.Password,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	}, logger)
	if err != nil {
		return fmt.Errorf("postgres connection: %w", err)
	}
	defer conn.Close()

	if cfg.Database.MigrationPath != "" {
		if err := conn.RunMigrations(cfg.Database.MigrationPath); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
	}

	// Redis backs the notice-type cache and the cross-instance case locks.
	// With redis disabled the engine reads the catalog directly and relies
	// on database transactions alone.
	var (
		noticeTypeCache scheduling.NoticeTypeCache
		caseLocker      scheduling.CaseLocker
	)
	healthCheckers := []handlers.HealthChecker{&postgresHealthAdapter{conn: conn}}
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(&redis.RedisConfig{
			Mode:         "standalone",
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		}, logger)
		if err != nil {
			return fmt.Errorf("redis connection: %w", err)
		}
		defer redisClient.Close()

		cache := redis.NewRedisCache(redisClient, logger,
			redis.WithPrefix(cfg.Redis.KeyPrefix),
			redis.WithDefaultTTL(cfg.Redis.DefaultTTL))
		if cfg.Cache.Enabled {
			noticeTypeCache = redis.NewNoticeTypeCache(cache, cfg.Cache.NoticeTypeTTL, logger)
		}
		caseLocker = redis.NewCaseLocker(redis.NewLockFactory(redisClient, logger), logger)
		healthCheckers = append(healthCheckers, &redisHealthAdapter{client: redisClient})
	}

	// Kafka event publishing is optional; the engine degrades to silence.
	var publisher scheduling.EventPublisher
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(kafka.ProducerConfig{
			Brokers:    cfg.Kafka.Brokers,
			MaxRetries: cfg.Kafka.ProducerRetries,
			BatchSize:  cfg.Kafka.BatchSize,
		}, logger)
		if err != nil {
			return fmt.Errorf("kafka producer: %w", err)
		}
		defer producer.Close()
		publisher = kafka.NewEventPublisher(producer, logger)
	}

	// Scheduling engine
	store := repositories.NewStore(conn, logger)
	reconciler := scheduling.NewReconciler(logger)
	svc := scheduling.NewService(store, reconciler, noticeTypeCache, publisher, caseLocker, logger,
		scheduling.WithDefaultReminderOffsets(cfg.Scheduler.DefaultReminderOffsets))

	// Metrics
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            "tbk",
		Subsystem:            "api",
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, logger)
	if err != nil {
		return fmt.Errorf("metrics collector: %w", err)
	}
	appMetrics := prometheus.NewAppMetrics(collector)

	// HTTP surface
	limiter := middleware.NewTokenBucketLimiter(100, 200, 0)
	defer limiter.Stop()

	router := httpserver.NewRouter(httpserver.RouterConfig{
		SchedulingHandler: handlers.NewSchedulingHandler(svc, logger),
		HealthHandler: handlers.NewHealthHandler(version, healthCheckers...),
		RateLimiter:      limiter,
		Logger:           logger,
		MetricsCollector: collector,
		AppMetrics:       appMetrics,
	})

	server := httpserver.NewServer(httpserver.ServerConfig{
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.ReadTimeout * 4,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, router, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutdown signal received", logging.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Stop(ctx)
}

// loadConfig loads from file when present, otherwise from TBK_* environment
// variables alone.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.LoadFromEnv()
	}
	return config.Load(path)
}

//Personal.AI order the ending
