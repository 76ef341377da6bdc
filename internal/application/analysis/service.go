package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/turtacn/ChemRisk-Intelligence/internal/domain/substance"
	"github.com/turtacn/ChemRisk-Intelligence/internal/infrastructure/monitoring/logging"
	analysistypes "github.com/turtacn/ChemRisk-Intelligence/pkg/types/analysis"
	"github.com/turtacn/ChemRisk-Intelligence/pkg/types/common"
)

// ResultCache is the slice of the cache surface the service needs.  The
// redis cache satisfies it; a nil cache disables caching entirely.
type ResultCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Alert is published when an analysis demands attention: the global level
// reached ELEVE, or a dangerous gas-generating reaction was detected.
type Alert struct {
	AnalysisID  string           `json:"analysis_id"`
	GlobalScore float64          `json:"score_global"`
	RiskLevel   common.RiskLevel `json:"niveau_risque"`
	Substances  []string         `json:"substances"`
	Reactions   []string         `json:"reactions,omitempty"`
	OccurredAt  time.Time        `json:"occurred_at"`
}

// AlertPublisher delivers alerts to the messaging layer.  A nil publisher
// disables alerting.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, alert Alert) error
}

// Metrics receives the service-level measurements.  A nil Metrics disables
// instrumentation.
type Metrics interface {
	ObserveAnalysis(level string, d time.Duration)
	AddUnresolvedSubstances(n int)
	AddDangerousReactions(n int)
	IncCacheHit()
	IncCacheMiss()
}

// Service wraps the engine with result caching, alert publication and
// metrics.  None of these layers ever changes a result: the engine output
// for a request is the same with or without them.
type Service struct {
	engine    *Engine
	cache     ResultCache
	publisher AlertPublisher
	metrics   Metrics
	cacheTTL  time.Duration
	logger    logging.Logger
}

type ServiceOption func(*Service)

func WithCache(cache ResultCache, ttl time.Duration) ServiceOption {
	return func(s *Service) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

func WithAlertPublisher(p AlertPublisher) ServiceOption {
	return func(s *Service) { s.publisher = p }
}

func WithMetrics(m Metrics) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

func NewService(engine *Engine, logger logging.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &Service{engine: engine, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze serves from cache when possible, otherwise runs the engine and
// stores the result.  Cache and publisher failures are logged and swallowed:
// the analysis result never depends on infrastructure health.
func (s *Service) Analyze(ctx context.Context, req *analysistypes.Request) (*analysistypes.Result, error) {
	started := time.Now()

	key, keyErr := requestKey(req)
	if s.cache != nil && keyErr == nil {
		var cached analysistypes.Result
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			if s.metrics != nil {
				s.metrics.IncCacheHit()
			}
			return &cached, nil
		}
		if s.metrics != nil {
			s.metrics.IncCacheMiss()
		}
	}

	result, err := s.engine.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && keyErr == nil {
		if err := s.cache.Set(ctx, key, result, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache analysis result", logging.Err(err))
		}
	}

	s.observe(result, time.Since(started))
	s.publishAlert(ctx, req, result)
	return result, nil
}

// SubstanceCount reports the size of the loaded catalog, for health checks.
func (s *Service) SubstanceCount() int {
	return len(s.engine.substances.All())
}

// Substances exposes the loaded catalog in load order.
func (s *Service) Substances() []*analysistypes.SubstanceSummary {
	all := s.engine.substances.All()
	out := make([]*analysistypes.SubstanceSummary, 0, len(all))
	for _, sub := range all {
		out = append(out, summarize(sub))
	}
	return out
}

// ResolveSubstance looks a single token up the same way the engine does,
// by CAS number first and normalized name second.
func (s *Service) ResolveSubstance(token string) (*analysistypes.SubstanceSummary, bool) {
	sub, ok := s.engine.substances.Resolve(token)
	if !ok {
		return nil, false
	}
	return summarize(sub), true
}

func summarize(sub *substance.Substance) *analysistypes.SubstanceSummary {
	return &analysistypes.SubstanceSummary{
		CAS:           sub.CASNumber,
		Name:          sub.Name,
		FlashPointC:   sub.FlashPointC,
		ToxicityLevel: string(sub.ToxicityLevel),
		Category:      string(sub.Category),
	}
}

func (s *Service) observe(result *analysistypes.Result, d time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveAnalysis(string(result.RiskLevel), d)

	unresolved := 0
	for _, sub := range result.Substances {
		if sub.CAS == unresolvedCAS {
			unresolved++
		}
	}
	if unresolved > 0 {
		s.metrics.AddUnresolvedSubstances(unresolved)
	}
	if n := len(reactionNames(result)); n > 0 {
		s.metrics.AddDangerousReactions(n)
	}
}

func (s *Service) publishAlert(ctx context.Context, req *analysistypes.Request, result *analysistypes.Result) {
	if s.publisher == nil {
		return
	}
	reactions := reactionNames(result)
	if result.RiskLevel != common.RiskEleve && len(reactions) == 0 {
		return
	}
	alert := Alert{
		AnalysisID:  string(common.NewID()),
		GlobalScore: result.GlobalScore,
		RiskLevel:   result.RiskLevel,
		Substances:  append([]string(nil), req.Substances...),
		Reactions:   reactions,
		OccurredAt:  time.Now().UTC(),
	}
	if err := s.publisher.PublishAlert(ctx, alert); err != nil {
		s.logger.Error("failed to publish analysis alert", logging.Err(err))
	}
}

func reactionNames(result *analysistypes.Result) []string {
	var names []string
	for _, inc := range result.Details.Incompatibilities {
		if inc.Product != "" {
			names = append(names, inc.Product)
		}
	}
	return names
}

// requestKey derives a deterministic cache key from the request.  JSON
// marshaling sorts map keys, so equal requests always hash identically.
func requestKey(req *analysistypes.Request) (string, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return "analysis:" + hex.EncodeToString(sum[:]), nil
}
