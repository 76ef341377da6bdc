package analysis

import (
	"github.com/turtacn/ChemRisk-Intelligence/internal/domain/reaction"
	"github.com/turtacn/ChemRisk-Intelligence/internal/domain/substance"
)

// ─────────────────────────────────────────────
// Incompatibility scores per risk level
// ─────────────────────────────────────────────

const (
	scoreIncompatSevere = 90.0
	scoreIncompatHigh   = 60.0
	scoreIncompatMedium = 30.0
	scoreIncompatLow    = 15.0
)

var incompatLevelScores = map[substance.IncompatRiskLevel]float64{
	substance.IncompatSevere: scoreIncompatSevere,
	substance.IncompatHigh:   scoreIncompatHigh,
	substance.IncompatMedium: scoreIncompatMedium,
	substance.IncompatLow:    scoreIncompatLow,
}

// levelForScore maps a numeric score back onto a risk level.  Used when a
// dangerous-reaction floor raises a pair above its catalog level.
func levelForScore(score float64) substance.IncompatRiskLevel {
	switch {
	case score >= scoreIncompatSevere:
		return substance.IncompatSevere
	case score >= scoreIncompatHigh:
		return substance.IncompatHigh
	case score >= scoreIncompatMedium:
		return substance.IncompatMedium
	default:
		return substance.IncompatLow
	}
}

// categoryPairRule is a chemistry heuristic applied when no catalog record
// covers a pair.  Categories are matched in either order.
type categoryPairRule struct {
	a, b        substance.Category
	level       substance.IncompatRiskLevel
	explanation string
}

var categoryPairRules = []categoryPairRule{
	{substance.CategoryAcid, substance.CategoryCyanide, substance.IncompatSevere,
		"Le contact d'un acide avec un cyanure libère du cyanure d'hydrogène, un gaz mortel"},
	{substance.CategoryAcid, substance.CategoryBase, substance.IncompatHigh,
		"La réaction acide-base est fortement exothermique et peut provoquer des projections"},
	{substance.CategoryOxidizer, substance.CategoryReducer, substance.IncompatHigh,
		"Le mélange d'un oxydant et d'un réducteur peut provoquer une réaction violente"},
	{substance.CategoryOxidizer, substance.CategoryFlammable, substance.IncompatHigh,
		"Un oxydant au contact d'un produit inflammable augmente fortement le risque d'incendie"},
	{substance.CategoryAcid, substance.CategorySulfide, substance.IncompatHigh,
		"Le contact d'un acide avec un sulfure libère du sulfure d'hydrogène, un gaz toxique"},
	{substance.CategoryWater, substance.CategoryWaterReactive, substance.IncompatMedium,
		"Cette substance réagit au contact de l'eau"},
}

func (r categoryPairRule) matches(ca, cb substance.Category) bool {
	return (ca == r.a && cb == r.b) || (ca == r.b && cb == r.a)
}

// IncompatibilityRule evaluates substance pairs: catalog records first,
// category heuristics second, with the dangerous-reaction registry applied as
// a score floor on top of either path.
type IncompatibilityRule struct {
	records   substance.IncompatibilityRepository
	reactions *reaction.Registry
}

func NewIncompatibilityRule(records substance.IncompatibilityRepository, reactions *reaction.Registry) *IncompatibilityRule {
	if reactions == nil {
		reactions = reaction.DefaultRegistry()
	}
	return &IncompatibilityRule{records: records, reactions: reactions}
}

// EvaluatePair returns a finding for the pair, or false when the two
// substances are considered compatible.  The pair (a, b) and (b, a) always
// yield the same finding.
func (r *IncompatibilityRule) EvaluatePair(a, b *substance.Substance) (Finding, bool) {
	if a == nil || b == nil {
		return Finding{}, false
	}

	finding, found := r.fromCatalog(a, b)
	if !found {
		finding, found = r.fromCategories(a, b)
	}

	// The registry applies even to pairs the catalog scores low: a known
	// gas-generating reaction overrides any milder assessment.
	if dr, ok := r.reactions.Match(a, b); ok {
		if !found {
			finding = Finding{
				SubstanceA:  a.Name,
				SubstanceB:  b.Name,
				Explanation: dr.Warning,
			}
			found = true
		}
		if dr.MinScore > finding.Score {
			finding.Score = dr.MinScore
			finding.Level = levelForScore(dr.MinScore)
		}
		finding.ReactionType = "degagement_gaz_toxique"
		finding.ReactionProduct = dr.Product
		finding.ProductFormula = dr.Formula
		finding.ReactionEquation = dr.Equation
		finding.Reaction = dr
	}

	return finding, found
}

func (r *IncompatibilityRule) fromCatalog(a, b *substance.Substance) (Finding, bool) {
	if r.records == nil {
		return Finding{}, false
	}
	rec, ok := r.records.Lookup(a.CASNumber, b.CASNumber)
	if !ok {
		return Finding{}, false
	}
	return Finding{
		SubstanceA:       a.Name,
		SubstanceB:       b.Name,
		Score:            incompatLevelScores[rec.RiskLevel],
		Level:            rec.RiskLevel,
		Explanation:      rec.Explanation,
		ReactionType:     rec.ReactionType,
		ReactionProduct:  rec.ReactionProduct,
		ProductFormula:   rec.ProductFormula,
		ReactionEquation: rec.ReactionEquation,
	}, true
}

func (r *IncompatibilityRule) fromCategories(a, b *substance.Substance) (Finding, bool) {
	for _, rule := range categoryPairRules {
		if rule.matches(a.Category, b.Category) {
			return Finding{
				SubstanceA:  a.Name,
				SubstanceB:  b.Name,
				Score:       incompatLevelScores[rule.level],
				Level:       rule.level,
				Explanation: rule.explanation,
			}, true
		}
	}
	return Finding{}, false
}
