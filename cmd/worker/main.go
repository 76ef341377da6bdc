// Command worker consumes analysis alert events from Kafka and relays them to
// the operational log.  It runs separately from the API server so alert
// handling never competes with request latency, and exposes its own health
// and metrics endpoints for the scheduler.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/turtacn/ChemRisk-Intelligence/internal/application/analysis"
	"github.com/turtacn/ChemRisk-Intelligence/internal/config"
	"github.com/turtacn/ChemRisk-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/ChemRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemRisk-Intelligence/internal/infrastructure/monitoring/prometheus"
)

const (
	defaultGroupID   = "chemrisk-alert-worker"
	defaultProbeAddr = ":8081"

	shutdownGrace = 10 * time.Second
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: CHEMRISK_* env vars)")
	groupID := flag.String("group", defaultGroupID, "Kafka consumer group ID")
	probeAddr := flag.String("probe-addr", defaultProbeAddr, "listen address for health and metrics endpoints")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "worker: logger initialization failed: %v\n", err)
		os.Exit(1)
	}

	if !cfg.Kafka.Enabled {
		logger.Fatal("kafka is disabled in configuration; the worker has nothing to consume")
	}

	if err := run(cfg, *groupID, *probeAddr, logger); err != nil {
		logger.Fatal("worker failed", logging.Err(err))
	}
}

func run(cfg *config.Config, groupID, probeAddr string, logger logging.Logger) error {
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace: "chemrisk",
		Subsystem: "worker",
	}, logger)
	if err != nil {
		return fmt.Errorf("metrics initialization failed: %w", err)
	}

	alertsProcessed := collector.RegisterCounter(
		"alerts_processed_total",
		"Number of analysis alert events processed, by risk level.",
		"level",
	)
	alertsFailed := collector.RegisterCounter(
		"alerts_failed_total",
		"Number of alert events that could not be decoded.",
	)

	consumer := kafka.NewConsumer(cfg.Kafka, kafka.TopicAnalysisAlert, groupID, logger.Named("consumer"))
	defer consumer.Close()

	// Probe endpoints for the scheduler.
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, `{"status":"ok"}`)
	})
	mux.Handle("/metrics", collector.Handler())

	probeSrv := &http.Server{Addr: probeAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := probeSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("probe server error", logging.Err(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("worker consuming",
		logging.String("topic", kafka.TopicAnalysisAlert),
		logging.String("group", groupID),
	)

	handler := func(ctx context.Context, envelope *kafka.EventEnvelope) error {
		var alert analysis.Alert
		if err := json.Unmarshal(envelope.Payload, &alert); err != nil {
			// Commit and drop: a malformed payload never becomes readable.
			alertsFailed.WithLabelValues().Inc()
			logger.Warn("dropping undecodable alert payload",
				logging.String("event_id", envelope.EventID),
				logging.Err(err),
			)
			return nil
		}

		alertsProcessed.WithLabelValues(string(alert.RiskLevel)).Inc()
		logger.Warn("analysis alert",
			logging.String("analysis_id", alert.AnalysisID),
			logging.Float64("score_global", alert.GlobalScore),
			logging.String("niveau_risque", string(alert.RiskLevel)),
			logging.Any("substances", alert.Substances),
			logging.Any("reactions", alert.Reactions),
		)
		return nil
	}

	if err := consumer.Run(ctx, handler); err != nil {
		return fmt.Errorf("consumer stopped: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := probeSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("probe server shutdown error", logging.Err(err))
	}

	logger.Info("worker stopped")
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadFromEnv()
}
