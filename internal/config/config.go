// Package config defines all configuration structures for the
// ChemRisk-Intelligence platform.  No I/O or parsing logic lives here — only
// plain data types and validation.
package config

import (
	"fmt"
	"math"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// CatalogConfig selects the reference-data source and its locations.
// Reference data is loaded once at startup and read-only afterwards.
type CatalogConfig struct {
	// Source is "csv" or "postgres".
	Source string `mapstructure:"source"`

	// SubstancesPath and IncompatibilitiesPath locate the CSV catalogs when
	// Source is "csv".
	SubstancesPath        string `mapstructure:"substances_path"`
	IncompatibilitiesPath string `mapstructure:"incompatibilities_path"`
}

// DatabaseConfig holds PostgreSQL connection parameters for the
// Postgres-backed reference catalog.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MinConns        int           `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrationPath   string        `mapstructure:"migration_path"`
}

// RedisConfig holds Redis connection parameters for the analysis result cache.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// KafkaConfig holds Apache Kafka producer parameters for risk alert events.
type KafkaConfig struct {
	Enabled         bool     `mapstructure:"enabled"`
	Brokers         []string `mapstructure:"brokers"`
	ProducerRetries int      `mapstructure:"producer_retries"`
	BatchSize       int      `mapstructure:"batch_size"`
	TimeoutMS       int      `mapstructure:"timeout_ms"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `mapstructure:"format"` // "json" | "console"
	Output string `mapstructure:"output"`
}

// WeightsConfig holds the per-category aggregation weights.
// The three weights must sum to exactly 1.0; Validate enforces this at load
// time so the aggregator never re-checks per call.
type WeightsConfig struct {
	Inflammability  float64 `mapstructure:"inflammability"`
	Toxicity        float64 `mapstructure:"toxicity"`
	Incompatibility float64 `mapstructure:"incompatibility"`
}

// ScoringConfig holds the score thresholds of the risk engine.  All values are
// immutable after load and passed into the engine as parameters, never read
// from ambient state.
type ScoringConfig struct {
	Weights WeightsConfig `mapstructure:"weights"`

	// MediumRiskThreshold and HighRiskThreshold split the global score into
	// FAIBLE / MOYEN / ELEVE.  Must satisfy 0 < medium < high <= 100.
	MediumRiskThreshold float64 `mapstructure:"medium_risk_threshold"`
	HighRiskThreshold   float64 `mapstructure:"high_risk_threshold"`

	// Category action thresholds for the recommendation engine.
	InflammabilityActionThreshold float64 `mapstructure:"inflammability_action_threshold"`
	ToxicityActionThreshold       float64 `mapstructure:"toxicity_action_threshold"`

	// HighTemperatureC is the lab temperature above which flammability
	// context warnings are emitted.
	HighTemperatureC float64 `mapstructure:"high_temperature_c"`
}

// AnalysisConfig holds request-level limits.
type AnalysisConfig struct {
	MaxSubstances int `mapstructure:"max_substances"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure for the entire platform.
// Every infrastructure component and application service reads its settings
// from the relevant sub-struct.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Log      LogConfig      `mapstructure:"log"`
	Scoring  ScoringConfig  `mapstructure:"scoring"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// weightSumTolerance absorbs binary floating-point representation error when
// checking that the three weights sum to 1.0.
const weightSumTolerance = 1e-9

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers must treat any error as
// fatal to startup, never to an individual analysis.
func (c *Config) Validate() error {
	// Server
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	// Catalog
	switch c.Catalog.Source {
	case "csv":
		if c.Catalog.SubstancesPath == "" {
			return fmt.Errorf("config: catalog.substances_path is required when catalog.source is csv")
		}
		if c.Catalog.IncompatibilitiesPath == "" {
			return fmt.Errorf("config: catalog.incompatibilities_path is required when catalog.source is csv")
		}
	case "postgres":
		if c.Database.Host == "" {
			return fmt.Errorf("config: database.host is required when catalog.source is postgres")
		}
		if c.Database.Port < 1 || c.Database.Port > 65535 {
			return fmt.Errorf("config: database.port %d is out of range [1, 65535]", c.Database.Port)
		}
		if c.Database.User == "" {
			return fmt.Errorf("config: database.user is required when catalog.source is postgres")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("config: database.db_name is required when catalog.source is postgres")
		}
		if c.Database.MaxConns < 1 {
			return fmt.Errorf("config: database.max_conns must be >= 1, got %d", c.Database.MaxConns)
		}
	default:
		return fmt.Errorf("config: catalog.source %q is invalid; expected csv|postgres", c.Catalog.Source)
	}

	// Redis
	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			return fmt.Errorf("config: redis.addr is required when redis.enabled is true")
		}
		if c.Redis.DB < 0 {
			return fmt.Errorf("config: redis.db must be >= 0, got %d", c.Redis.DB)
		}
	}

	// Kafka
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("config: kafka.brokers must contain at least one broker address when kafka.enabled is true")
	}

	// Scoring weights
	w := c.Scoring.Weights
	for name, val := range map[string]float64{
		"inflammability":  w.Inflammability,
		"toxicity":        w.Toxicity,
		"incompatibility": w.Incompatibility,
	} {
		if val < 0 || val > 1 {
			return fmt.Errorf("config: scoring.weights.%s %v is out of range [0, 1]", name, val)
		}
	}
	if sum := w.Inflammability + w.Toxicity + w.Incompatibility; math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("config: scoring.weights must sum to 1.0, got %v", sum)
	}

	// Risk thresholds must be strictly increasing.
	if c.Scoring.MediumRiskThreshold <= 0 || c.Scoring.HighRiskThreshold > 100 ||
		c.Scoring.MediumRiskThreshold >= c.Scoring.HighRiskThreshold {
		return fmt.Errorf("config: scoring thresholds must satisfy 0 < medium (%v) < high (%v) <= 100",
			c.Scoring.MediumRiskThreshold, c.Scoring.HighRiskThreshold)
	}
	if c.Scoring.InflammabilityActionThreshold < 0 || c.Scoring.InflammabilityActionThreshold > 100 {
		return fmt.Errorf("config: scoring.inflammability_action_threshold %v is out of range [0, 100]",
			c.Scoring.InflammabilityActionThreshold)
	}
	if c.Scoring.ToxicityActionThreshold < 0 || c.Scoring.ToxicityActionThreshold > 100 {
		return fmt.Errorf("config: scoring.toxicity_action_threshold %v is out of range [0, 100]",
			c.Scoring.ToxicityActionThreshold)
	}

	// Analysis
	if c.Analysis.MaxSubstances < 1 {
		return fmt.Errorf("config: analysis.max_substances must be >= 1, got %d", c.Analysis.MaxSubstances)
	}

	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}
