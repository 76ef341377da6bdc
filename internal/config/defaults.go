// Package config provides configuration loading, defaults, and validation for
// the ChemRisk-Intelligence platform.
package config

import "time"

// Default value constants.
const (
	DefaultServerPort = 8080
	DefaultServerMode = "release"

	DefaultCatalogSource         = "csv"
	DefaultSubstancesPath        = "data/substances.csv"
	DefaultIncompatibilitiesPath = "data/incompatibilites.csv"

	DefaultDBHost     = "localhost"
	DefaultDBPort     = 5432
	DefaultDBName     = "chemrisk"
	DefaultDBMaxConns = 25

	DefaultRedisAddr = "localhost:6379"

	DefaultKafkaBroker = "localhost:9092"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// Aggregation weights.  Toxicity carries the largest weight: exposure is
	// the dominant hazard path in routine laboratory handling.
	DefaultWeightInflammability  = 0.35
	DefaultWeightToxicity        = 0.40
	DefaultWeightIncompatibility = 0.25

	// Global score thresholds: < medium is FAIBLE, < high is MOYEN, else ELEVE.
	DefaultMediumRiskThreshold = 40.0
	DefaultHighRiskThreshold   = 70.0

	// Category thresholds that trigger targeted recommendations.
	DefaultInflammabilityActionThreshold = 60.0
	DefaultToxicityActionThreshold       = 70.0

	// Lab temperature above which flammability warnings mention evaporation.
	DefaultHighTemperatureC = 30.0

	DefaultMaxSubstances = 10
)

// ApplyDefaults fills every zero-value field in cfg with the platform default.
// Fields already set by the caller are left unchanged so that explicit
// configuration always wins.  Must be called after unmarshalling and before
// Validate so optional-but-defaulted fields are never seen as missing.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	// ── Catalog ───────────────────────────────────────────────────────────────
	if cfg.Catalog.Source == "" {
		cfg.Catalog.Source = DefaultCatalogSource
	}
	if cfg.Catalog.SubstancesPath == "" {
		cfg.Catalog.SubstancesPath = DefaultSubstancesPath
	}
	if cfg.Catalog.IncompatibilitiesPath == "" {
		cfg.Catalog.IncompatibilitiesPath = DefaultIncompatibilitiesPath
	}

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = 10 * time.Minute
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = "chemrisk"
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.ProducerRetries == 0 {
		cfg.Kafka.ProducerRetries = 3
	}

	// ── Scoring ───────────────────────────────────────────────────────────────
	// A weight sum of zero means "not configured"; a partially-set weight
	// block is left alone so Validate can reject it.
	w := &cfg.Scoring.Weights
	if w.Inflammability == 0 && w.Toxicity == 0 && w.Incompatibility == 0 {
		w.Inflammability = DefaultWeightInflammability
		w.Toxicity = DefaultWeightToxicity
		w.Incompatibility = DefaultWeightIncompatibility
	}
	if cfg.Scoring.MediumRiskThreshold == 0 {
		cfg.Scoring.MediumRiskThreshold = DefaultMediumRiskThreshold
	}
	if cfg.Scoring.HighRiskThreshold == 0 {
		cfg.Scoring.HighRiskThreshold = DefaultHighRiskThreshold
	}
	if cfg.Scoring.InflammabilityActionThreshold == 0 {
		cfg.Scoring.InflammabilityActionThreshold = DefaultInflammabilityActionThreshold
	}
	if cfg.Scoring.ToxicityActionThreshold == 0 {
		cfg.Scoring.ToxicityActionThreshold = DefaultToxicityActionThreshold
	}
	if cfg.Scoring.HighTemperatureC == 0 {
		cfg.Scoring.HighTemperatureC = DefaultHighTemperatureC
	}

	// ── Analysis ──────────────────────────────────────────────────────────────
	if cfg.Analysis.MaxSubstances == 0 {
		cfg.Analysis.MaxSubstances = DefaultMaxSubstances
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}
