package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds every metric the service exposes.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Analysis engine
	AnalysesTotal             CounterVec
	AnalysisDuration          HistogramVec
	UnresolvedSubstancesTotal CounterVec
	DangerousReactionsTotal   CounterVec

	// Catalog
	CatalogSubstances GaugeVec

	// Cache and messaging
	CacheHitsTotal       CounterVec
	CacheMissesTotal     CounterVec
	AlertsPublishedTotal CounterVec
}

var (
	DefaultHTTPDurationBuckets     = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}
	DefaultAnalysisDurationBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1}
)

// NewAppMetrics registers every metric on the collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	return &AppMetrics{
		HTTPRequestsTotal:   collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code"),
		HTTPRequestDuration: collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path"),
		HTTPActiveRequests:  collector.RegisterGauge("http_active_requests", "In-flight HTTP requests", "method"),

		AnalysesTotal:             collector.RegisterCounter("analyses_total", "Completed analyses by risk level", "level"),
		AnalysisDuration:          collector.RegisterHistogram("analysis_duration_seconds", "Analysis duration", DefaultAnalysisDurationBuckets, "level"),
		UnresolvedSubstancesTotal: collector.RegisterCounter("unresolved_substances_total", "Requested substances the catalog could not resolve"),
		DangerousReactionsTotal:   collector.RegisterCounter("dangerous_reactions_total", "Dangerous reactions detected in analyses"),

		CatalogSubstances: collector.RegisterGauge("catalog_substances", "Substances loaded in the catalog", "source"),

		CacheHitsTotal:       collector.RegisterCounter("cache_hits_total", "Analysis cache hits"),
		CacheMissesTotal:     collector.RegisterCounter("cache_misses_total", "Analysis cache misses"),
		AlertsPublishedTotal: collector.RegisterCounter("alerts_published_total", "Analysis alerts published", "topic"),
	}
}

// ObserveHTTPRequest records one completed HTTP request.
func (m *AppMetrics) ObserveHTTPRequest(method, path string, status int, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// AnalysisMetrics adapts AppMetrics to the analysis service's metrics
// contract.
type AnalysisMetrics struct {
	app *AppMetrics
}

func NewAnalysisMetrics(app *AppMetrics) *AnalysisMetrics {
	return &AnalysisMetrics{app: app}
}

func (m *AnalysisMetrics) ObserveAnalysis(level string, d time.Duration) {
	m.app.AnalysesTotal.WithLabelValues(level).Inc()
	m.app.AnalysisDuration.WithLabelValues(level).Observe(d.Seconds())
}

func (m *AnalysisMetrics) AddUnresolvedSubstances(n int) {
	m.app.UnresolvedSubstancesTotal.WithLabelValues().Add(float64(n))
}

func (m *AnalysisMetrics) AddDangerousReactions(n int) {
	m.app.DangerousReactionsTotal.WithLabelValues().Add(float64(n))
}

func (m *AnalysisMetrics) IncCacheHit() {
	m.app.CacheHitsTotal.WithLabelValues().Inc()
}

func (m *AnalysisMetrics) IncCacheMiss() {
	m.app.CacheMissesTotal.WithLabelValues().Inc()
}
