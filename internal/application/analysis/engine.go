package analysis

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/turtacn/ChemRisk-Intelligence/internal/domain/reaction"
	"github.com/turtacn/ChemRisk-Intelligence/internal/domain/substance"
	"github.com/turtacn/ChemRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemRisk-Intelligence/pkg/errors"
	analysistypes "github.com/turtacn/ChemRisk-Intelligence/pkg/types/analysis"
)

// unresolvedCAS marks tokens that matched nothing in the catalog.
const unresolvedCAS = "N/A"

// Config carries the scoring parameters of the engine.  It is built from the
// validated application configuration and immutable afterwards.
type Config struct {
	Weights             Weights
	MediumRiskThreshold float64
	HighRiskThreshold   float64

	InflammabilityActionThreshold float64
	ToxicityActionThreshold       float64
	HighTemperatureC              float64

	MaxSubstances int
}

// Engine runs one full analysis: token resolution, per-substance rules,
// pairwise incompatibility scan, aggregation, recommendations and warnings.
// It holds only immutable reference data and is safe for concurrent use.
type Engine struct {
	substances  substance.Repository
	inflam      InflammabilityRule
	tox         *ToxicityRule
	incompat    *IncompatibilityRule
	aggregator  *Aggregator
	environment *EnvironmentAssessor
	recommender *Recommender

	maxSubstances int
	logger        logging.Logger
}

func NewEngine(
	substances substance.Repository,
	incompatibilities substance.IncompatibilityRepository,
	reactions *reaction.Registry,
	cfg Config,
	logger logging.Logger,
) *Engine {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Engine{
		substances:  substances,
		tox:         NewToxicityRule(),
		incompat:    NewIncompatibilityRule(incompatibilities, reactions),
		aggregator:  NewAggregator(cfg.Weights, cfg.MediumRiskThreshold, cfg.HighRiskThreshold),
		environment: NewEnvironmentAssessor(cfg.InflammabilityActionThreshold, cfg.ToxicityActionThreshold, cfg.HighTemperatureC),
		recommender: NewRecommender(cfg.InflammabilityActionThreshold, cfg.ToxicityActionThreshold),

		maxSubstances: cfg.MaxSubstances,
		logger:        logger,
	}
}

// Analyze scores the requested substances.  The only error path is request
// validation; unknown substances degrade to warnings with conservative
// defaults.  The context is accepted for interface symmetry with the cached
// service wrapper; the computation itself never blocks.
func (e *Engine) Analyze(_ context.Context, req *analysistypes.Request) (*analysistypes.Result, error) {
	tokens, err := e.validate(req)
	if err != nil {
		return nil, err
	}

	assessments, unresolvedWarnings := e.assess(tokens)
	findings := e.scanPairs(assessments)
	agg := e.aggregator.Aggregate(assessments, findings)

	warnings := make([]string, 0, len(unresolvedWarnings)+2)
	warnings = append(warnings, unresolvedWarnings...)

	quantities, quantityWarnings := matchQuantities(req.Quantities, assessments)
	warnings = append(warnings, quantityWarnings...)

	for _, f := range findings {
		if f.Reaction != nil {
			warnings = append(warnings, f.Reaction.Warning)
		}
	}
	warnings = append(warnings, e.environment.Assess(req.LabContext, agg, assessments)...)

	result := e.assemble(assessments, findings, agg, quantities, dedupPreserveOrder(warnings))

	e.logger.Info("analysis completed",
		logging.Int("substances", len(tokens)),
		logging.Int("findings", len(findings)),
		logging.Float64("score", result.GlobalScore),
		logging.String("level", string(result.RiskLevel)),
	)
	return result, nil
}

// ─────────────────────────────────────────────
// Validation and resolution
// ─────────────────────────────────────────────

func (e *Engine) validate(req *analysistypes.Request) ([]string, error) {
	if req == nil || len(req.Substances) == 0 {
		return nil, errors.Validation("la liste de substances est vide")
	}
	if len(req.Substances) > e.maxSubstances {
		return nil, errors.Validation(fmt.Sprintf(
			"trop de substances : %d demandées, maximum %d", len(req.Substances), e.maxSubstances))
	}
	tokens := make([]string, len(req.Substances))
	for i, raw := range req.Substances {
		token := strings.TrimSpace(raw)
		if token == "" {
			return nil, errors.Validation(fmt.Sprintf("substance vide à la position %d", i+1))
		}
		tokens[i] = token
	}
	return tokens, nil
}

func (e *Engine) assess(tokens []string) ([]SubstanceAssessment, []string) {
	assessments := make([]SubstanceAssessment, 0, len(tokens))
	var warnings []string

	for _, token := range tokens {
		resolved := ResolvedSubstance{Token: token}
		if s, ok := e.substances.Resolve(token); ok {
			resolved.Substance = s
			resolved.Resolved = true
		} else {
			// Placeholder with no flash point and no classification:
			// the rules fall back to their conservative defaults.
			resolved.Substance = &substance.Substance{Name: token}
			warnings = append(warnings, fmt.Sprintf(
				"Substance non reconnue : %s (valeurs par défaut prudentes appliquées)", token))
			e.logger.Warn("unresolved substance", logging.String("token", token))
		}
		assessments = append(assessments, SubstanceAssessment{
			ResolvedSubstance: resolved,
			Inflammability:    e.inflam.Evaluate(resolved.Substance),
			Toxicity:          e.tox.Evaluate(resolved.Substance),
		})
	}
	return assessments, warnings
}

// scanPairs checks every unordered pair of resolved substances exactly once,
// in request order.  Two tokens resolving to the same catalog entry are not
// compared against each other.
func (e *Engine) scanPairs(assessments []SubstanceAssessment) []Finding {
	var findings []Finding
	for i := 0; i < len(assessments); i++ {
		if !assessments[i].Resolved {
			continue
		}
		for j := i + 1; j < len(assessments); j++ {
			if !assessments[j].Resolved {
				continue
			}
			a, b := assessments[i].Substance, assessments[j].Substance
			if a.CASNumber == b.CASNumber {
				continue
			}
			if f, ok := e.incompat.EvaluatePair(a, b); ok {
				findings = append(findings, f)
			}
		}
	}
	return findings
}

// ─────────────────────────────────────────────
// Quantities
// ─────────────────────────────────────────────

// matchQuantities attaches each declared quantity to the assessment whose
// token, catalog name or CAS number it designates.  Keys that designate none
// of the requested substances produce a warning.
func matchQuantities(quantities map[string]float64, assessments []SubstanceAssessment) (map[int]float64, []string) {
	if len(quantities) == 0 {
		return nil, nil
	}

	matched := make(map[int]float64, len(quantities))
	var unknown []string
	for key, amount := range quantities {
		idx := -1
		normalizedKey := substance.Normalize(key)
		for i, sa := range assessments {
			if substance.Normalize(sa.Token) == normalizedKey ||
				substance.Normalize(sa.Substance.Name) == normalizedKey ||
				sa.Substance.CASNumber == key {
				idx = i
				break
			}
		}
		if idx < 0 {
			unknown = append(unknown, key)
			continue
		}
		matched[idx] = amount
	}

	// Map iteration order is random: sort the misses so warnings stay
	// deterministic.
	var warnings []string
	if len(unknown) > 0 {
		sort.Strings(unknown)
		for _, key := range unknown {
			warnings = append(warnings, fmt.Sprintf(
				"Quantité fournie pour une substance absente de la demande : %s", key))
		}
	}
	return matched, warnings
}

// ─────────────────────────────────────────────
// Response assembly
// ─────────────────────────────────────────────

func (e *Engine) assemble(
	assessments []SubstanceAssessment,
	findings []Finding,
	agg Aggregation,
	quantities map[int]float64,
	warnings []string,
) *analysistypes.Result {
	reports := make([]analysistypes.SubstanceReport, 0, len(assessments))
	for i, sa := range assessments {
		report := analysistypes.SubstanceReport{
			Name: sa.Substance.Name,
			CAS:  sa.Substance.CASNumber,
			Inflammability: analysistypes.ScoreLevel{
				Score: sa.Inflammability.Score,
				Level: sa.Inflammability.Level,
			},
			Toxicity: analysistypes.ScoreLevel{
				Score: sa.Toxicity.Score,
				Level: sa.Toxicity.Level,
			},
		}
		if !sa.Resolved {
			report.CAS = unresolvedCAS
		}
		if amount, ok := quantities[i]; ok {
			amount := amount
			report.Quantity = &amount
		}
		reports = append(reports, report)
	}

	incompatDetails := make([]analysistypes.IncompatibilityDetail, 0, len(findings))
	for _, f := range findings {
		incompatDetails = append(incompatDetails, analysistypes.IncompatibilityDetail{
			Substances:   f.SubstanceA + " + " + f.SubstanceB,
			Score:        f.Score,
			Level:        string(f.Level),
			Explanation:  f.Explanation,
			ReactionType: f.ReactionType,
			Product:      f.ReactionProduct,
			Formula:      f.ProductFormula,
			Equation:     f.ReactionEquation,
		})
	}

	recommendations := e.recommender.Recommend(agg, findings)
	if warnings == nil {
		warnings = []string{}
	}

	return &analysistypes.Result{
		GlobalScore: agg.GlobalScore,
		RiskLevel:   agg.RiskLevel,
		Details: analysistypes.Details{
			Inflammability: analysistypes.CategoryDetail{
				Score:       agg.InflammabilityScore,
				Explanation: categoryExplanation(assessments, agg.InflammabilityScore, func(sa SubstanceAssessment) Evaluation { return sa.Inflammability }),
			},
			Toxicity: analysistypes.CategoryDetail{
				Score:       agg.ToxicityScore,
				Explanation: categoryExplanation(assessments, agg.ToxicityScore, func(sa SubstanceAssessment) Evaluation { return sa.Toxicity }),
			},
			Incompatibilities: incompatDetails,
			GlobalExplanation: e.globalExplanation(agg),
		},
		Substances:      reports,
		Recommendations: recommendations,
		Warnings:        warnings,
	}
}

// categoryExplanation names the first substance that reaches the category
// maximum and repeats its rule explanation.
func categoryExplanation(assessments []SubstanceAssessment, max float64, pick func(SubstanceAssessment) Evaluation) string {
	for _, sa := range assessments {
		if ev := pick(sa); ev.Score == max {
			return sa.Substance.Name + " : " + ev.Explanation
		}
	}
	return ""
}

func (e *Engine) globalExplanation(agg Aggregation) string {
	w := e.aggregator.weights
	return fmt.Sprintf(
		"Score global de %s/100 (niveau %s) : moyenne pondérée de l'inflammabilité (%s × %s), de la toxicité (%s × %s) et des incompatibilités (%s × %s)",
		trimFloat(agg.GlobalScore), agg.RiskLevel,
		trimFloat(agg.InflammabilityScore), trimFloat(w.Inflammability),
		trimFloat(agg.ToxicityScore), trimFloat(w.Toxicity),
		trimFloat(agg.IncompatibilityScore), trimFloat(w.Incompatibility),
	)
}
