// Package analysis defines the wire-level request and response shapes of the
// risk analysis API.  Field names are French on the wire, matching the
// contract consumed by the laboratory front end; Go identifiers stay English.
package analysis

import (
	"github.com/turtacn/ChemRisk-Intelligence/pkg/types/common"
)

// Request is the payload accepted by POST /api/v1/analyses.
type Request struct {
	// Substances is required, non-empty, and must not contain blank entries.
	Substances []string `json:"substances"`

	// Quantities optionally maps a requested substance name to an amount.
	// Unknown keys produce a warning, never an error.
	Quantities map[string]float64 `json:"quantites,omitempty"`

	// LabContext optionally describes the handling environment.
	LabContext *LabContext `json:"contexte_labo,omitempty"`
}

// LabContext carries the environmental parameters of the handling area.
type LabContext struct {
	// Ventilation is nil when unspecified; an unspecified ventilation state
	// is treated as ventilated and produces no exposure warning.
	Ventilation     *bool    `json:"ventilation,omitempty"`
	TemperatureC    *float64 `json:"temperature_c,omitempty"`
	HumidityPercent *float64 `json:"humidite_percent,omitempty"`
}

// CategoryDetail is the per-category score and explanation in the response.
type CategoryDetail struct {
	Score       float64 `json:"score"`
	Explanation string  `json:"explication"`
}

// IncompatibilityDetail describes one risky pair found in the request.
type IncompatibilityDetail struct {
	Substances   string  `json:"substances"`
	Score        float64 `json:"score"`
	Level        string  `json:"niveau"`
	Explanation  string  `json:"explication"`
	ReactionType string  `json:"type_reaction,omitempty"`
	Product      string  `json:"produit_reaction,omitempty"`
	Formula      string  `json:"formule_produit,omitempty"`
	Equation     string  `json:"equation_reaction,omitempty"`
}

// Details groups the category breakdown of the global score.
type Details struct {
	Inflammability    CategoryDetail          `json:"inflammabilite"`
	Toxicity          CategoryDetail          `json:"toxicite"`
	Incompatibilities []IncompatibilityDetail `json:"incompatibilites"`
	GlobalExplanation string                  `json:"explication_globale"`
}

// ScoreLevel pairs a numeric score with its qualitative level.
type ScoreLevel struct {
	Score float64 `json:"score"`
	Level string  `json:"niveau"`
}

// SubstanceReport is the per-substance entry of substances_analysees.
type SubstanceReport struct {
	Name           string     `json:"nom"`
	CAS            string     `json:"cas"`
	Quantity       *float64   `json:"quantite,omitempty"`
	Inflammability ScoreLevel `json:"inflammabilite"`
	Toxicity       ScoreLevel `json:"toxicite"`
}

// SubstanceSummary is the catalog listing entry returned by the substance
// endpoints and the CLI.
type SubstanceSummary struct {
	CAS           string   `json:"cas"`
	Name          string   `json:"nom"`
	FlashPointC   *float64 `json:"point_eclair,omitempty"`
	ToxicityLevel string   `json:"toxicite,omitempty"`
	Category      string   `json:"categorie,omitempty"`
}

// Result is the complete analysis response.
//
// Recomputing GlobalScore from the per-category scores in Details and the
// configured weights reproduces score_global exactly; the engine guarantees
// byte-identical output for identical input.
type Result struct {
	GlobalScore     float64           `json:"score_global"`
	RiskLevel       common.RiskLevel  `json:"niveau_risque"`
	Details         Details           `json:"details"`
	Substances      []SubstanceReport `json:"substances_analysees"`
	Recommendations []string          `json:"recommandations"`
	Warnings        []string          `json:"avertissements"`
}
