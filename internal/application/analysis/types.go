// Package analysis implements the rule-based risk scoring engine: three
// independent category rules (inflammability, toxicity, pairwise
// incompatibility), weighted aggregation into one explainable global score,
// and synthesis of deduplicated recommendations and warnings.
//
// Everything in this package is deterministic: identical input always yields
// byte-identical output.  Reference data and scoring configuration are
// immutable after load; request-scoped values are owned by a single call.
package analysis

import (
	"github.com/turtacn/ChemRisk-Intelligence/internal/domain/reaction"
	"github.com/turtacn/ChemRisk-Intelligence/internal/domain/substance"
)

// Evaluation is the common outcome shape of every category rule: a bounded
// score, a qualitative level, and a human-readable explanation.  New risk
// categories plug into aggregation by producing this same shape.
type Evaluation struct {
	Score       float64
	Level       string
	Explanation string
}

// Rule is the capability shared by the per-substance evaluators.
type Rule interface {
	Evaluate(s *substance.Substance) Evaluation
}

// ResolvedSubstance is the per-request pairing of an input token with its
// catalog record.  Substance is a conservative placeholder when Resolved is
// false: unknown tokens are assessed with default attributes (no flash point,
// toxicity HARMFUL) rather than aborting the analysis.
type ResolvedSubstance struct {
	Token     string
	Substance *substance.Substance
	Resolved  bool
}

// SubstanceAssessment carries the two per-substance rule outcomes.
type SubstanceAssessment struct {
	ResolvedSubstance

	Inflammability Evaluation
	Toxicity       Evaluation
}

// Finding describes one risky pair detected among the requested substances.
type Finding struct {
	SubstanceA string
	SubstanceB string

	Score       float64
	Level       substance.IncompatRiskLevel
	Explanation string

	ReactionType     string
	ReactionProduct  string
	ProductFormula   string
	ReactionEquation string

	// Reaction is non-nil when the pair triggered the dangerous-reaction
	// registry; its warnings and recommendations feed the response.
	Reaction *reaction.DangerousReaction
}
