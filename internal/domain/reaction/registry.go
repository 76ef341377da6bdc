// Package reaction provides the registry of known dangerous chemical
// combinations: pairs whose mixture emits a hazardous product regardless of
// how the generic incompatibility rules would score them.  When a requested
// pair triggers a registry entry, the incompatibility finding is floored at
// the entry's minimum score and the emitted product is surfaced in the
// response together with dedicated warnings and recommendations.
package reaction

import (
	"strings"

	"github.com/turtacn/ChemRisk-Intelligence/internal/domain/substance"
)

// Trigger matches one side of a dangerous combination, either by a keyword
// found in the normalized substance name or by chemical category.
type Trigger struct {
	// Keywords are normalized name fragments; any hit matches.
	Keywords []string

	// Category matches when the substance carries this category.  Empty
	// means keyword-only matching.
	Category substance.Category
}

// Matches reports whether s satisfies the trigger.
func (t Trigger) Matches(s *substance.Substance) bool {
	if t.Category != "" && s.Category == t.Category {
		return true
	}
	name := s.NormalizedName()
	for _, kw := range t.Keywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

// DangerousReaction describes one known dangerous combination and the data to
// surface when it is detected.
type DangerousReaction struct {
	// Name labels the reaction, e.g. "Formation de phosgène".
	Name string

	// TriggerA and TriggerB match the two sides of the pair; matching is
	// order-independent.
	TriggerA Trigger
	TriggerB Trigger

	// Product, Formula, and Equation describe the emitted compound.
	Product  string
	Formula  string
	Equation string

	// MinScore floors the incompatibility finding for the pair.
	MinScore float64

	// Warning is appended to avertissements when the pair is detected.
	Warning string

	// Recommendations are appended to recommandations when detected.
	Recommendations []string
}

// Matches reports whether the unordered pair (a, b) triggers the reaction.
func (r *DangerousReaction) Matches(a, b *substance.Substance) bool {
	if a == nil || b == nil {
		return false
	}
	return (r.TriggerA.Matches(a) && r.TriggerB.Matches(b)) ||
		(r.TriggerA.Matches(b) && r.TriggerB.Matches(a))
}

// Registry holds dangerous reactions and answers pair queries.  The registry
// is immutable after construction.
type Registry struct {
	reactions []*DangerousReaction
}

// NewRegistry builds a Registry over reactions, preserving order.
func NewRegistry(reactions []*DangerousReaction) *Registry {
	return &Registry{reactions: reactions}
}

// Match returns the first reaction triggered by the unordered pair (a, b),
// in registry order, or ok=false when none matches.
func (reg *Registry) Match(a, b *substance.Substance) (*DangerousReaction, bool) {
	for _, r := range reg.reactions {
		if r.Matches(a, b) {
			return r, true
		}
	}
	return nil, false
}

// All returns the registered reactions in order.
func (reg *Registry) All() []*DangerousReaction {
	return reg.reactions
}

// DefaultRegistry returns the built-in dangerous combinations of common
// laboratory chemicals.
func DefaultRegistry() *Registry {
	bleach := Trigger{Keywords: []string{"javel", "hypochlorite"}}
	return NewRegistry([]*DangerousReaction{
		{
			Name:     "Formation de phosgène",
			TriggerA: Trigger{Keywords: []string{"chloroforme"}},
			TriggerB: bleach,
			Product:  "Phosgène",
			Formula:  "COCl2",
			Equation: "CHCl3 + NaOCl -> COCl2 + NaCl + HCl",
			MinScore: 90,
			Warning:  "DANGER : le mélange chloroforme / eau de Javel dégage du phosgène (COCl2), gaz hautement toxique",
			Recommendations: []string{
				"Ne jamais mélanger le chloroforme avec de l'eau de Javel",
				"Stocker ces produits dans des armoires séparées",
			},
		},
		{
			Name:     "Dégagement de dichlore",
			TriggerA: Trigger{Keywords: []string{"acide chlorhydrique", "chlorhydrique"}},
			TriggerB: bleach,
			Product:  "Dichlore",
			Formula:  "Cl2",
			Equation: "2 HCl + NaOCl -> Cl2 + NaCl + H2O",
			MinScore: 90,
			Warning:  "DANGER : le mélange acide chlorhydrique / eau de Javel dégage du dichlore (Cl2), gaz suffocant",
			Recommendations: []string{
				"Ne jamais verser d'acide dans l'eau de Javel",
				"Travailler sous sorbonne pour toute manipulation de ces produits",
			},
		},
		{
			Name:     "Dégagement de cyanure d'hydrogène",
			TriggerA: Trigger{Keywords: []string{"cyanure"}, Category: substance.CategoryCyanide},
			TriggerB: Trigger{Keywords: []string{"acide"}, Category: substance.CategoryAcid},
			Product:  "Cyanure d'hydrogène",
			Formula:  "HCN",
			Equation: "NaCN + HCl -> HCN + NaCl",
			MinScore: 95,
			Warning:  "DANGER EXTRÊME : le contact cyanure / acide libère du cyanure d'hydrogène (HCN), mortel par inhalation",
			Recommendations: []string{
				"Isoler strictement les cyanures de tout acide",
				"Prévoir un kit d'antidote (hydroxocobalamine) à proximité",
			},
		},
		{
			Name:     "Formation de chloramines",
			TriggerA: Trigger{Keywords: []string{"ammoniaque", "ammoniac"}},
			TriggerB: bleach,
			Product:  "Chloramines",
			Formula:  "NH2Cl",
			Equation: "NH3 + NaOCl -> NH2Cl + NaOH",
			MinScore: 85,
			Warning:  "DANGER : le mélange ammoniaque / eau de Javel forme des chloramines, vapeurs toxiques pour les voies respiratoires",
			Recommendations: []string{
				"Ne jamais mélanger de produits ammoniaqués avec de l'eau de Javel",
				"Ventiler immédiatement en cas de mélange accidentel",
			},
		},
	})
}
