package analysis

import (
	"fmt"

	"github.com/turtacn/ChemRisk-Intelligence/internal/domain/substance"
)

// Inflammability levels and their fixed scores.  The level-to-score pairs are
// a closed table: adding a level is a compile-visible change here and in
// evaluate below.
const (
	LevelVeryFlammable     = "VERY_FLAMMABLE"
	LevelFlammable         = "FLAMMABLE"
	LevelSlightlyFlammable = "SLIGHTLY_FLAMMABLE"
	LevelNonFlammable      = "NON_FLAMMABLE"

	scoreVeryFlammable     = 90.0
	scoreFlammable         = 60.0
	scoreSlightlyFlammable = 20.0
	scoreNonFlammable      = 5.0
)

// Flash point boundaries in degrees Celsius.  Each boundary is half-open on
// the lower bound: a flash point of exactly 23 is FLAMMABLE, not VERY_FLAMMABLE.
const (
	flashPointVeryFlammableMax     = 23.0
	flashPointFlammableMax         = 60.0
	flashPointSlightlyFlammableMax = 100.0
)

// InflammabilityRule scores a substance from its flash point alone.
// Stateless; the zero value is ready to use.
type InflammabilityRule struct{}

// Evaluate implements Rule.  A substance without a flash point cannot sustain
// vapor ignition and scores as NON_FLAMMABLE.
func (InflammabilityRule) Evaluate(s *substance.Substance) Evaluation {
	if s == nil || s.FlashPointC == nil {
		return Evaluation{
			Score:       scoreNonFlammable,
			Level:       LevelNonFlammable,
			Explanation: "Pas de point d'éclair défini : substance considérée non inflammable",
		}
	}

	fp := *s.FlashPointC
	switch {
	case fp < flashPointVeryFlammableMax:
		return Evaluation{
			Score:       scoreVeryFlammable,
			Level:       LevelVeryFlammable,
			Explanation: fmt.Sprintf("Point d'éclair de %s °C (< 23 °C) : substance très inflammable", trimFloat(fp)),
		}
	case fp < flashPointFlammableMax:
		return Evaluation{
			Score:       scoreFlammable,
			Level:       LevelFlammable,
			Explanation: fmt.Sprintf("Point d'éclair de %s °C (23-60 °C) : substance inflammable", trimFloat(fp)),
		}
	case fp < flashPointSlightlyFlammableMax:
		return Evaluation{
			Score:       scoreSlightlyFlammable,
			Level:       LevelSlightlyFlammable,
			Explanation: fmt.Sprintf("Point d'éclair de %s °C (60-100 °C) : substance peu inflammable", trimFloat(fp)),
		}
	default:
		return Evaluation{
			Score:       scoreNonFlammable,
			Level:       LevelNonFlammable,
			Explanation: fmt.Sprintf("Point d'éclair de %s °C (>= 100 °C) : substance non inflammable", trimFloat(fp)),
		}
	}
}
