// Package integration exercises the Postgres-backed catalog against a real
// database started through testcontainers.  The tests are opt-in: set
// CHEMRISK_INTEGRATION_TEST=1 and have a Docker daemon available.
package integration

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/turtacn/ChemRisk-Intelligence/internal/application/analysis"
	"github.com/turtacn/ChemRisk-Intelligence/internal/config"
	"github.com/turtacn/ChemRisk-Intelligence/internal/domain/reaction"
	"github.com/turtacn/ChemRisk-Intelligence/internal/infrastructure/catalog"
	"github.com/turtacn/ChemRisk-Intelligence/internal/infrastructure/database/postgres"
	"github.com/turtacn/ChemRisk-Intelligence/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/ChemRisk-Intelligence/internal/infrastructure/monitoring/logging"
	analysistypes "github.com/turtacn/ChemRisk-Intelligence/pkg/types/analysis"
)

const envIntegrationEnabled = "CHEMRISK_INTEGRATION_TEST"

func skipIfNoIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv(envIntegrationEnabled) == "" {
		t.Skipf("skipping integration test: set %s=1 to enable", envIntegrationEnabled)
	}
}

// startPostgres launches a PostgreSQL 16 container and returns the matching
// database configuration.
func startPostgres(t *testing.T) config.DatabaseConfig {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "chemrisk_test",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	mappedPort, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)
	port, err := strconv.Atoi(mappedPort.Port())
	require.NoError(t, err)

	return config.DatabaseConfig{
		Host:     host,
		Port:     port,
		User:     "test",
		Password: "test",
		DBName:   "chemrisk_test",
		SSLMode:  "disable",
	}
}

func TestPostgresCatalog_MigrateAndLoad(t *testing.T) {
	skipIfNoIntegration(t)

	dbCfg := startPostgres(t)
	logger := logging.NewNopLogger()

	conn, err := postgres.NewConnection(dbCfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, conn.RunMigrations("../../migrations"))

	repo := repositories.NewCatalogRepository(conn.DB(), logger)
	cat, err := catalog.LoadFromSource(context.Background(), repo, logger)
	require.NoError(t, err)

	assert.Equal(t, 30, cat.Substances.Len())
	assert.Len(t, cat.Incompatibilities.All(), 13)

	// Seeded rows carry their full detail.
	s, ok := cat.Substances.Resolve("Acétone")
	require.True(t, ok)
	assert.Equal(t, "67-64-1", s.CASNumber)
	require.NotNil(t, s.FlashPointC)
	assert.Equal(t, -20.0, *s.FlashPointC)
}

func TestPostgresCatalog_EngineEndToEnd(t *testing.T) {
	skipIfNoIntegration(t)

	dbCfg := startPostgres(t)
	logger := logging.NewNopLogger()

	conn, err := postgres.NewConnection(dbCfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, conn.RunMigrations("../../migrations"))

	repo := repositories.NewCatalogRepository(conn.DB(), logger)
	cat, err := catalog.LoadFromSource(context.Background(), repo, logger)
	require.NoError(t, err)

	engine := analysis.NewEngine(
		cat.Substances,
		cat.Incompatibilities,
		reaction.DefaultRegistry(),
		analysis.Config{
			Weights: analysis.Weights{
				Inflammability:  config.DefaultWeightInflammability,
				Toxicity:        config.DefaultWeightToxicity,
				Incompatibility: config.DefaultWeightIncompatibility,
			},
			MediumRiskThreshold:           config.DefaultMediumRiskThreshold,
			HighRiskThreshold:             config.DefaultHighRiskThreshold,
			InflammabilityActionThreshold: config.DefaultInflammabilityActionThreshold,
			ToxicityActionThreshold:       config.DefaultToxicityActionThreshold,
			HighTemperatureC:              config.DefaultHighTemperatureC,
			MaxSubstances:                 config.DefaultMaxSubstances,
		},
		logger,
	)
	service := analysis.NewService(engine, logger)

	result, err := service.Analyze(context.Background(), &analysistypes.Request{
		Substances: []string{"Acétone"},
	})
	require.NoError(t, err)
	assert.Equal(t, 49.5, result.GlobalScore)
	assert.Equal(t, "MOYEN", string(result.RiskLevel))

	// A seeded dangerous pair surfaces with its reaction product.
	result, err = service.Analyze(context.Background(), &analysistypes.Request{
		Substances: []string{"Chloroforme", "Eau de Javel"},
	})
	require.NoError(t, err)
	require.Len(t, result.Details.Incompatibilities, 1)
	inc := result.Details.Incompatibilities[0]
	assert.Equal(t, 90.0, inc.Score)
	assert.Equal(t, "Phosgène", inc.Product)
}
