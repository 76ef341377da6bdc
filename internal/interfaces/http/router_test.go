package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ChemRisk-Intelligence/internal/application/analysis"
	"github.com/turtacn/ChemRisk-Intelligence/internal/domain/reaction"
	"github.com/turtacn/ChemRisk-Intelligence/internal/domain/substance"
	"github.com/turtacn/ChemRisk-Intelligence/internal/infrastructure/catalog"
	"github.com/turtacn/ChemRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemRisk-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/ChemRisk-Intelligence/internal/interfaces/http/middleware"
	analysistypes "github.com/turtacn/ChemRisk-Intelligence/pkg/types/analysis"
)

func routerSubstance(t *testing.T, cas, name string, fp *float64, tox substance.ToxicityLevel, cat substance.Category) *substance.Substance {
	t.Helper()
	s, err := substance.NewSubstance(cas, name, fp, tox, cat)
	require.NoError(t, err)
	return s
}

func newTestRouter(t *testing.T, limiter middleware.RateLimiter) http.Handler {
	t.Helper()

	fp := -20.0
	substances := []*substance.Substance{
		routerSubstance(t, "7732-18-5", "Eau", nil, substance.ToxicityNonToxic, substance.CategoryWater),
		routerSubstance(t, "67-64-1", "Acétone", &fp, substance.ToxicityHarmful, substance.CategoryFlammable),
		routerSubstance(t, "7664-93-9", "Acide sulfurique", nil, substance.ToxicityToxic, substance.CategoryAcid),
		routerSubstance(t, "1310-73-2", "Hydroxyde de sodium", nil, substance.ToxicityToxic, substance.CategoryBase),
	}
	cat := catalog.Build(substances, nil, logging.NewNopLogger())

	engine := analysis.NewEngine(cat.Substances, cat.Incompatibilities, reaction.DefaultRegistry(), analysis.Config{
		Weights:             analysis.Weights{Inflammability: 0.35, Toxicity: 0.40, Incompatibility: 0.25},
		MediumRiskThreshold: 40,
		HighRiskThreshold:   70,

		InflammabilityActionThreshold: 60,
		ToxicityActionThreshold:       70,
		HighTemperatureC:              30,

		MaxSubstances: 20,
	}, logging.NewNopLogger())
	service := analysis.NewService(engine, logging.NewNopLogger())

	return NewRouter(RouterConfig{
		AnalysisHandler:  handlers.NewAnalysisHandler(service, 1<<20, logging.NewNopLogger()),
		SubstanceHandler: handlers.NewSubstanceHandler(service),
		HealthHandler:    handlers.NewHealthHandler("test"),
		RateLimiter:      limiter,
		Logger:           logging.NewNopLogger(),
	})
}

func TestRouter_AnalyzeEndToEnd(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses",
		strings.NewReader(`{"substances":["Acétone"]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result analysistypes.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 49.5, result.GlobalScore)
	assert.Equal(t, "MOYEN", string(result.RiskLevel))

	// The wire format keeps its French field names.
	assert.Contains(t, rec.Body.String(), `"score_global"`)
	assert.Contains(t, rec.Body.String(), `"niveau_risque"`)
	assert.Contains(t, rec.Body.String(), `"substances_analysees"`)
}

func TestRouter_AnalyzeValidation(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", strings.NewReader(`{"substances":[]}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "la liste de substances est vide")
}

func TestRouter_SubstanceListing(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/substances?q=acide", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Acide sulfurique")
	assert.Contains(t, rec.Body.String(), `"total":1`)
}

func TestRouter_HealthProbes(t *testing.T) {
	router := newTestRouter(t, nil)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestRouter_RateLimitAppliesToAPIOnly(t *testing.T) {
	router := newTestRouter(t, middleware.NewTokenBucketLimiter(1, time.Minute))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/substances", nil)
	req.RemoteAddr = "10.1.2.3:1234"

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Probes stay reachable for the throttled client.
	probe := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	probe.RemoteAddr = "10.1.2.3:1234"
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, probe)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_UnknownRoute(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
