package analysis

import (
	"strings"

	"github.com/turtacn/ChemRisk-Intelligence/internal/domain/substance"
)

// ─────────────────────────────────────────────
// Toxicity scores per classification level
// ─────────────────────────────────────────────

const (
	scoreVeryToxic     = 95.0
	scoreToxic         = 70.0
	scoreHarmful       = 45.0
	scoreIrritant      = 25.0
	scoreSlightlyToxic = 10.0
	scoreNonToxic      = 0.0
)

// hazardKeywordTiers maps hazard-note fragments to a toxicity level, checked
// in order of decreasing severity.  Keywords are matched against the
// normalized form of the notes, so accents are irrelevant.
var hazardKeywordTiers = []struct {
	keywords []string
	level    substance.ToxicityLevel
}{
	{[]string{"cancerigene", "cancerogene", "mutagene", "reprotoxique", "tres toxique", "mortel"}, substance.ToxicityVeryToxic},
	{[]string{"corrosif", "toxicite aigue", "toxique"}, substance.ToxicityToxic},
	{[]string{"irritant", "irritation"}, substance.ToxicitySlightlyToxic},
}

// ToxicityRule scores a substance from its toxicity classification.  When the
// classification is missing it falls back to keyword heuristics over the
// hazard notes, and defaults to HARMFUL when those match nothing: an unknown
// toxicity is treated as moderately dangerous rather than safe.
type ToxicityRule struct{}

func NewToxicityRule() *ToxicityRule { return &ToxicityRule{} }

func (r *ToxicityRule) Evaluate(s *substance.Substance) Evaluation {
	if s == nil {
		return defaultToxicity("Substance inconnue")
	}

	level := s.ToxicityLevel
	origin := "classification"
	if level == "" {
		level = classifyFromNotes(s.HazardNotes)
		origin = "mentions de danger"
	}

	switch level {
	case substance.ToxicityVeryToxic:
		return Evaluation{Score: scoreVeryToxic, Level: string(level),
			Explanation: "Substance classée très toxique (" + origin + ")"}
	case substance.ToxicityToxic:
		return Evaluation{Score: scoreToxic, Level: string(level),
			Explanation: "Substance classée toxique (" + origin + ")"}
	case substance.ToxicityHarmful:
		return Evaluation{Score: scoreHarmful, Level: string(level),
			Explanation: "Substance classée nocive (" + origin + ")"}
	case substance.ToxicityIrritant:
		return Evaluation{Score: scoreIrritant, Level: string(level),
			Explanation: "Substance classée irritante (" + origin + ")"}
	case substance.ToxicitySlightlyToxic:
		return Evaluation{Score: scoreSlightlyToxic, Level: string(level),
			Explanation: "Substance classée peu toxique (" + origin + ")"}
	case substance.ToxicityNonToxic:
		return Evaluation{Score: scoreNonToxic, Level: string(level),
			Explanation: "Substance classée non toxique (" + origin + ")"}
	default:
		return defaultToxicity(s.Name)
	}
}

func defaultToxicity(name string) Evaluation {
	return Evaluation{
		Score:       scoreHarmful,
		Level:       string(substance.ToxicityHarmful),
		Explanation: "Toxicité inconnue pour " + name + " : classée nocive par précaution",
	}
}

// classifyFromNotes infers a toxicity level from free-text hazard notes.
// Returns the empty level when nothing matches, which the caller maps to the
// conservative default.
func classifyFromNotes(notes string) substance.ToxicityLevel {
	if notes == "" {
		return ""
	}
	normalized := substance.Normalize(notes)
	for _, tier := range hazardKeywordTiers {
		for _, kw := range tier.keywords {
			if strings.Contains(normalized, kw) {
				return tier.level
			}
		}
	}
	return ""
}
