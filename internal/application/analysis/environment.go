package analysis

import (
	"github.com/turtacn/ChemRisk-Intelligence/internal/domain/substance"
	analysistypes "github.com/turtacn/ChemRisk-Intelligence/pkg/types/analysis"
)

const highHumidityPercent = 70.0

// EnvironmentAssessor turns the optional lab context into warnings.  It never
// changes any score: the same substances yield the same global score whatever
// the room looks like.
type EnvironmentAssessor struct {
	inflammabilityThreshold float64
	toxicityThreshold       float64
	highTemperatureC        float64
}

func NewEnvironmentAssessor(inflammabilityThreshold, toxicityThreshold, highTemperatureC float64) *EnvironmentAssessor {
	return &EnvironmentAssessor{
		inflammabilityThreshold: inflammabilityThreshold,
		toxicityThreshold:       toxicityThreshold,
		highTemperatureC:        highTemperatureC,
	}
}

// Assess returns context warnings in a fixed order: ventilation, temperature,
// humidity.  A nil context means nothing is known about the room and produces
// no warnings.
func (e *EnvironmentAssessor) Assess(ctx *analysistypes.LabContext, agg Aggregation, assessments []SubstanceAssessment) []string {
	if ctx == nil {
		return nil
	}

	var warnings []string

	if ctx.Ventilation != nil && !*ctx.Ventilation && agg.ToxicityScore >= e.toxicityThreshold {
		warnings = append(warnings,
			"Local non ventilé avec des substances toxiques : risque d'accumulation de vapeurs dangereuses")
	}

	if ctx.TemperatureC != nil && *ctx.TemperatureC > e.highTemperatureC && agg.InflammabilityScore >= e.inflammabilityThreshold {
		warnings = append(warnings,
			"Température élevée ("+trimFloat(*ctx.TemperatureC)+" °C) en présence de substances inflammables : risque d'inflammation accru")
	}

	if ctx.HumidityPercent != nil && *ctx.HumidityPercent >= highHumidityPercent && hasWaterReactive(assessments) {
		warnings = append(warnings,
			"Humidité élevée ("+trimFloat(*ctx.HumidityPercent)+" %) en présence d'une substance réagissant à l'eau")
	}

	return warnings
}

func hasWaterReactive(assessments []SubstanceAssessment) bool {
	for _, sa := range assessments {
		if sa.Substance != nil && sa.Substance.Category == substance.CategoryWaterReactive {
			return true
		}
	}
	return false
}
