// Command apiserver runs the ChemRisk-Intelligence HTTP API: catalog loading,
// the risk scoring engine, optional Redis result caching and Kafka alerting,
// and the Prometheus-instrumented chi router.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/turtacn/ChemRisk-Intelligence/internal/application/analysis"
	"github.com/turtacn/ChemRisk-Intelligence/internal/config"
	"github.com/turtacn/ChemRisk-Intelligence/internal/domain/reaction"
	"github.com/turtacn/ChemRisk-Intelligence/internal/infrastructure/catalog"
	"github.com/turtacn/ChemRisk-Intelligence/internal/infrastructure/database/postgres"
	"github.com/turtacn/ChemRisk-Intelligence/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/ChemRisk-Intelligence/internal/infrastructure/database/redis"
	"github.com/turtacn/ChemRisk-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/ChemRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemRisk-Intelligence/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/turtacn/ChemRisk-Intelligence/internal/interfaces/http"
	"github.com/turtacn/ChemRisk-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/ChemRisk-Intelligence/internal/interfaces/http/middleware"
)

// Build-time variables injected via ldflags.
var (
	version = "dev"
)

const (
	startupTimeout = 30 * time.Second

	rateLimitRequests = 120
	rateLimitWindow   = time.Minute
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: CHEMRISK_* env vars)")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: logger initialization failed: %v\n", err)
		os.Exit(1)
	}
	logger.Info("starting apiserver",
		logging.String("version", version),
		logging.Int("port", cfg.Server.Port),
		logging.String("catalog_source", cfg.Catalog.Source),
	)

	if err := run(cfg, logger); err != nil {
		logger.Fatal("apiserver failed", logging.Err(err))
	}
}

func run(cfg *config.Config, logger logging.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	// Metrics registry.
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            "chemrisk",
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, logger)
	if err != nil {
		return fmt.Errorf("metrics initialization failed: %w", err)
	}
	appMetrics := prometheus.NewAppMetrics(collector)

	// Reference catalog.
	var checkers []handlers.HealthChecker
	cat, closeCatalog, err := loadCatalog(ctx, cfg, logger, &checkers)
	if err != nil {
		return fmt.Errorf("catalog loading failed: %w", err)
	}
	defer closeCatalog()

	// Scoring engine and service decorations.
	engine := analysis.NewEngine(
		cat.Substances,
		cat.Incompatibilities,
		reaction.DefaultRegistry(),
		engineConfig(cfg),
		logger.Named("engine"),
	)

	opts := []analysis.ServiceOption{
		analysis.WithMetrics(prometheus.NewAnalysisMetrics(appMetrics)),
	}

	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(cfg.Redis, logger.Named("redis"))
		if err != nil {
			return fmt.Errorf("redis initialization failed: %w", err)
		}
		defer redisClient.Close()

		cache := redis.NewCache(redisClient, logger.Named("cache"),
			redis.WithPrefix(cfg.Redis.KeyPrefix),
			redis.WithDefaultTTL(cfg.Redis.DefaultTTL),
		)
		opts = append(opts, analysis.WithCache(cache, cfg.Redis.DefaultTTL))
		checkers = append(checkers, redisHealthAdapter{client: redisClient})
	}

	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(cfg.Kafka, logger.Named("kafka"))
		if err != nil {
			return fmt.Errorf("kafka initialization failed: %w", err)
		}
		defer producer.Close()

		opts = append(opts, analysis.WithAlertPublisher(kafka.NewAlertPublisher(producer)))
	}

	service := analysis.NewService(engine, logger.Named("analysis"), opts...)
	logger.Info("engine ready", logging.Int("substances", service.SubstanceCount()))

	// HTTP surface.
	router := httpserver.NewRouter(httpserver.RouterConfig{
		AnalysisHandler:  handlers.NewAnalysisHandler(service, cfg.Server.MaxBodySize, logger.Named("http")),
		SubstanceHandler: handlers.NewSubstanceHandler(service),
		HealthHandler:    handlers.NewHealthHandler(version, checkers...),
		RateLimiter:      middleware.NewTokenBucketLimiter(rateLimitRequests, rateLimitWindow),
		MetricsHandler:   collector.Handler(),
		AppMetrics:       appMetrics,
		Logger:           logger.Named("http"),
	})

	srv := httpserver.NewServer(cfg.Server, router, logger.Named("http"))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down", logging.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// loadConfig loads from the explicit file when given, otherwise from
// CHEMRISK_* environment variables with platform defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadFromEnv()
}

// loadCatalog builds the reference catalog from the configured source.  The
// returned closer releases the database connection in Postgres mode; it is a
// no-op for CSV.
func loadCatalog(ctx context.Context, cfg *config.Config, logger logging.Logger, checkers *[]handlers.HealthChecker) (*catalog.Catalog, func(), error) {
	switch cfg.Catalog.Source {
	case "postgres":
		conn, err := postgres.NewConnection(cfg.Database, logger.Named("postgres"))
		if err != nil {
			return nil, nil, err
		}
		if cfg.Database.MigrationPath != "" {
			if err := conn.RunMigrations(cfg.Database.MigrationPath); err != nil {
				conn.Close()
				return nil, nil, err
			}
		}

		repo := repositories.NewCatalogRepository(conn.DB(), logger.Named("catalog"))
		cat, err := catalog.LoadFromSource(ctx, repo, logger)
		if err != nil {
			conn.Close()
			return nil, nil, err
		}

		*checkers = append(*checkers, postgresHealthAdapter{conn: conn})
		return cat, func() { conn.Close() }, nil

	default:
		cat, err := catalog.Load(cfg.Catalog, logger)
		if err != nil {
			return nil, nil, err
		}
		return cat, func() {}, nil
	}
}

// engineConfig maps the validated configuration onto the engine parameters.
func engineConfig(cfg *config.Config) analysis.Config {
	return analysis.Config{
		Weights: analysis.Weights{
			Inflammability:  cfg.Scoring.Weights.Inflammability,
			Toxicity:        cfg.Scoring.Weights.Toxicity,
			Incompatibility: cfg.Scoring.Weights.Incompatibility,
		},
		MediumRiskThreshold:           cfg.Scoring.MediumRiskThreshold,
		HighRiskThreshold:             cfg.Scoring.HighRiskThreshold,
		InflammabilityActionThreshold: cfg.Scoring.InflammabilityActionThreshold,
		ToxicityActionThreshold:       cfg.Scoring.ToxicityActionThreshold,
		HighTemperatureC:              cfg.Scoring.HighTemperatureC,
		MaxSubstances:                 cfg.Analysis.MaxSubstances,
	}
}
