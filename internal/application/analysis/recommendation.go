package analysis

import (
	"github.com/turtacn/ChemRisk-Intelligence/pkg/types/common"
)

// Recommender produces French handling recommendations from the aggregated
// scores.  Output order is fixed: baseline for the risk level, then
// category-specific advice, then dangerous-reaction advice, with exact
// duplicates removed while keeping first occurrence.
type Recommender struct {
	inflammabilityThreshold float64
	toxicityThreshold       float64
}

func NewRecommender(inflammabilityThreshold, toxicityThreshold float64) *Recommender {
	return &Recommender{
		inflammabilityThreshold: inflammabilityThreshold,
		toxicityThreshold:       toxicityThreshold,
	}
}

func (r *Recommender) Recommend(agg Aggregation, findings []Finding) []string {
	recs := make([]string, 0, 8)

	switch agg.RiskLevel {
	case common.RiskFaible:
		recs = append(recs,
			"Respecter les bonnes pratiques de laboratoire habituelles",
			"Porter les équipements de protection individuelle de base (blouse, lunettes, gants)")
	case common.RiskMoyen:
		recs = append(recs,
			"Manipuler sous surveillance et limiter les quantités au strict nécessaire",
			"Vérifier la disponibilité des équipements d'urgence (douche, rince-œil)")
	case common.RiskEleve:
		recs = append(recs,
			"Manipulation réservée à du personnel formé, avec protocole validé au préalable",
			"Prévenir un collègue avant toute manipulation et ne jamais travailler seul")
	}

	if agg.InflammabilityScore >= r.inflammabilityThreshold {
		recs = append(recs,
			"Éloigner toute source d'ignition (flammes, étincelles, surfaces chaudes)",
			"Garder un extincteur adapté à portée de main")
	}
	if agg.ToxicityScore >= r.toxicityThreshold {
		recs = append(recs,
			"Travailler sous sorbonne obligatoirement",
			"Porter un masque de protection respiratoire adapté")
	}
	if len(findings) > 0 {
		recs = append(recs,
			"Stocker les produits incompatibles dans des zones séparées")
	}
	for _, f := range findings {
		if f.Reaction != nil {
			recs = append(recs, f.Reaction.Recommendations...)
		}
	}

	return dedupPreserveOrder(recs)
}

// dedupPreserveOrder removes exact duplicates, keeping the first occurrence.
func dedupPreserveOrder(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}
