package substance

import (
	"fmt"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// Enumerations
// ─────────────────────────────────────────────────────────────────────────────

// ToxicityLevel is the structured toxicity classification of a substance.
type ToxicityLevel string

const (
	ToxicityVeryToxic     ToxicityLevel = "VERY_TOXIC"
	ToxicityToxic         ToxicityLevel = "TOXIC"
	ToxicityHarmful       ToxicityLevel = "HARMFUL"
	ToxicityIrritant      ToxicityLevel = "IRRITANT"
	ToxicitySlightlyToxic ToxicityLevel = "SLIGHTLY_TOXIC"
	ToxicityNonToxic      ToxicityLevel = "NON_TOXIC"
)

// toxicitySynonyms maps catalog spellings (English enum values and the French
// labels used by the upstream reference CSVs) to the canonical level.
var toxicitySynonyms = map[string]ToxicityLevel{
	"very_toxic":     ToxicityVeryToxic,
	"tres_toxique":   ToxicityVeryToxic,
	"toxic":          ToxicityToxic,
	"toxique":        ToxicityToxic,
	"harmful":        ToxicityHarmful,
	"nocif":          ToxicityHarmful,
	"irritant":       ToxicityIrritant,
	"slightly_toxic": ToxicitySlightlyToxic,
	"peu_toxique":    ToxicitySlightlyToxic,
	"non_toxic":      ToxicityNonToxic,
	"non_toxique":    ToxicityNonToxic,
}

// ParseToxicityLevel resolves a catalog string to a ToxicityLevel.
// Matching is case-insensitive and accepts both English enum values and the
// French labels of the reference CSVs.  ok is false for unknown values.
func ParseToxicityLevel(s string) (ToxicityLevel, bool) {
	key := strings.ReplaceAll(Normalize(s), " ", "_")
	level, ok := toxicitySynonyms[key]
	return level, ok
}

// Category is the coarse chemical family used by the generic incompatibility
// heuristics when no explicit pair record exists.
type Category string

const (
	CategoryAcid          Category = "acid"
	CategoryBase          Category = "base"
	CategoryOxidizer      Category = "oxidizer"
	CategoryReducer       Category = "reducer"
	CategoryFlammable     Category = "flammable"
	CategoryCyanide       Category = "cyanide"
	CategorySulfide       Category = "sulfide"
	CategoryWater         Category = "water"
	CategoryWaterReactive Category = "water_reactive"
	CategorySolvent       Category = "solvent"
	CategoryNeutral       Category = "neutral"
)

var categorySynonyms = map[string]Category{
	"acid":           CategoryAcid,
	"acide":          CategoryAcid,
	"base":           CategoryBase,
	"oxidizer":       CategoryOxidizer,
	"oxydant":        CategoryOxidizer,
	"reducer":        CategoryReducer,
	"reducteur":      CategoryReducer,
	"flammable":      CategoryFlammable,
	"inflammable":    CategoryFlammable,
	"cyanide":        CategoryCyanide,
	"cyanure":        CategoryCyanide,
	"sulfide":        CategorySulfide,
	"sulfure":        CategorySulfide,
	"water":          CategoryWater,
	"eau":            CategoryWater,
	"water_reactive": CategoryWaterReactive,
	"reactif_eau":    CategoryWaterReactive,
	"hydroreactif":   CategoryWaterReactive,
	"solvent":        CategorySolvent,
	"solvant":        CategorySolvent,
	"neutral":        CategoryNeutral,
	"neutre":         CategoryNeutral,
}

// ParseCategory resolves a catalog string to a Category.  Unknown values map
// to CategoryNeutral, which participates in no heuristic, so an unexpected
// catalog spelling can only understate risk within the heuristic path.
func ParseCategory(s string) Category {
	if cat, ok := categorySynonyms[strings.ReplaceAll(Normalize(s), " ", "_")]; ok {
		return cat
	}
	return CategoryNeutral
}

// ─────────────────────────────────────────────────────────────────────────────
// Substance
// ─────────────────────────────────────────────────────────────────────────────

// Substance is an immutable reference record describing one chemical.
// Records are loaded once at process start and never mutated afterwards, so
// concurrent requests may read them without coordination.
type Substance struct {
	// CASNumber is the unique registry identifier, e.g. "67-64-1".
	CASNumber string

	// Name is the canonical display name, e.g. "Acétone".
	Name string

	// FlashPointC is the flash point in degrees Celsius; nil when the
	// substance has no measurable flash point.
	FlashPointC *float64

	// ToxicityLevel is the structured classification; empty when the catalog
	// carries only free-text hazard descriptors.
	ToxicityLevel ToxicityLevel

	// HazardNotes carries free-text hazard descriptors used by the keyword
	// fallback when ToxicityLevel is empty.
	HazardNotes string

	// Category is the coarse chemical family for heuristic pair matching.
	Category Category

	// normalizedName caches Normalize(Name); populated by NewSubstance.
	normalizedName string
}

// NewSubstance constructs a validated Substance.  The CAS number must match
// the registry pattern and the name must be non-blank.
func NewSubstance(cas, name string, flashPointC *float64, toxicity ToxicityLevel, category Category) (*Substance, error) {
	if !IsCASNumber(cas) {
		return nil, fmt.Errorf("substance: invalid CAS number %q", cas)
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("substance: name is required for CAS %s", cas)
	}
	return &Substance{
		CASNumber:      strings.TrimSpace(cas),
		Name:           strings.TrimSpace(name),
		FlashPointC:    flashPointC,
		ToxicityLevel:  toxicity,
		Category:       category,
		normalizedName: Normalize(name),
	}, nil
}

// NormalizedName returns the cached canonical form of the substance name.
// Substances built without NewSubstance compute it lazily-equivalent via
// Normalize.
func (s *Substance) NormalizedName() string {
	if s.normalizedName == "" {
		return Normalize(s.Name)
	}
	return s.normalizedName
}

// ─────────────────────────────────────────────────────────────────────────────
// Incompatibility records
// ─────────────────────────────────────────────────────────────────────────────

// IncompatRiskLevel classifies the severity of a known incompatibility pair.
type IncompatRiskLevel string

const (
	IncompatSevere IncompatRiskLevel = "SEVERE"
	IncompatHigh   IncompatRiskLevel = "HIGH"
	IncompatMedium IncompatRiskLevel = "MEDIUM"
	IncompatLow    IncompatRiskLevel = "LOW"
)

var incompatSynonyms = map[string]IncompatRiskLevel{
	"severe":   IncompatSevere,
	"critique": IncompatSevere,
	"high":     IncompatHigh,
	"eleve":    IncompatHigh,
	"medium":   IncompatMedium,
	"moyen":    IncompatMedium,
	"low":      IncompatLow,
	"faible":   IncompatLow,
}

// ParseIncompatRiskLevel resolves a catalog string to an IncompatRiskLevel.
func ParseIncompatRiskLevel(s string) (IncompatRiskLevel, bool) {
	level, ok := incompatSynonyms[strings.ReplaceAll(Normalize(s), " ", "_")]
	return level, ok
}

// IncompatibilityRecord is an immutable reference record describing a known
// risky combination of two substances.  The pair is unordered: a record for
// (A, B) answers lookups for (B, A) identically.
type IncompatibilityRecord struct {
	// SubstanceA and SubstanceB name the two endpoints as written in the
	// catalog; resolution against the substance index happens at load time.
	SubstanceA string
	SubstanceB string

	RiskLevel    IncompatRiskLevel
	ReactionType string
	Explanation  string

	// Optional reaction data surfaced in the analysis response.
	ReactionProduct  string
	ProductFormula   string
	ReactionEquation string
}
