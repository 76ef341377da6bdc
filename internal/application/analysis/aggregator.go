package analysis

import (
	"github.com/turtacn/ChemRisk-Intelligence/pkg/types/common"
)

// Weights holds the contribution of each risk category to the global score.
// They are validated at configuration load time to sum to 1.
type Weights struct {
	Inflammability  float64
	Toxicity        float64
	Incompatibility float64
}

// Aggregation is the scored summary of an analysis before it is rendered
// into the response shape.
type Aggregation struct {
	InflammabilityScore  float64
	ToxicityScore        float64
	IncompatibilityScore float64
	GlobalScore          float64
	RiskLevel            common.RiskLevel
}

// Aggregator combines per-substance evaluations into category scores and a
// global score.  Each category keeps the MAXIMUM score observed, never a sum:
// two mildly flammable solvents are not more flammable than one.
type Aggregator struct {
	weights         Weights
	mediumThreshold float64
	highThreshold   float64
}

func NewAggregator(weights Weights, mediumThreshold, highThreshold float64) *Aggregator {
	return &Aggregator{
		weights:         weights,
		mediumThreshold: mediumThreshold,
		highThreshold:   highThreshold,
	}
}

func (a *Aggregator) Aggregate(assessments []SubstanceAssessment, findings []Finding) Aggregation {
	var agg Aggregation
	for _, sa := range assessments {
		if sa.Inflammability.Score > agg.InflammabilityScore {
			agg.InflammabilityScore = sa.Inflammability.Score
		}
		if sa.Toxicity.Score > agg.ToxicityScore {
			agg.ToxicityScore = sa.Toxicity.Score
		}
	}
	for _, f := range findings {
		if f.Score > agg.IncompatibilityScore {
			agg.IncompatibilityScore = f.Score
		}
	}

	global := a.weights.Inflammability*agg.InflammabilityScore +
		a.weights.Toxicity*agg.ToxicityScore +
		a.weights.Incompatibility*agg.IncompatibilityScore
	if global < 0 {
		global = 0
	}
	if global > 100 {
		global = 100
	}
	agg.GlobalScore = round2(global)
	agg.RiskLevel = a.levelFor(agg.GlobalScore)
	return agg
}

func (a *Aggregator) levelFor(score float64) common.RiskLevel {
	switch {
	case score < a.mediumThreshold:
		return common.RiskFaible
	case score < a.highThreshold:
		return common.RiskMoyen
	default:
		return common.RiskEleve
	}
}
