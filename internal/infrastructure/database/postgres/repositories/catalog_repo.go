package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/turtacn/ChemRisk-Intelligence/internal/domain/substance"
	"github.com/turtacn/ChemRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemRisk-Intelligence/pkg/errors"
)

// CatalogRepository reads the substance and incompatibility reference tables.
// Rows are returned in insertion order (ascending id) so the name-resolution
// precedence of the in-memory index matches the seed order.
type CatalogRepository struct {
	db     queryExecutor
	logger logging.Logger
}

// NewCatalogRepository creates a repository over db.
func NewCatalogRepository(db *sql.DB, logger logging.Logger) *CatalogRepository {
	return &CatalogRepository{db: db, logger: logger}
}

const listSubstancesQuery = `
SELECT cas, nom, point_eclair, toxicite, categorie, mentions_danger
FROM substances
ORDER BY id`

// ListSubstances returns every substance record.  A malformed row aborts the
// load: the catalog is trusted reference data and a partial catalog would
// silently understate risk.
func (r *CatalogRepository) ListSubstances(ctx context.Context) ([]*substance.Substance, error) {
	rows, err := r.db.QueryContext(ctx, listSubstancesQuery)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to query substances")
	}
	defer rows.Close()

	var substances []*substance.Substance
	for rows.Next() {
		s, err := scanSubstance(rows)
		if err != nil {
			return nil, err
		}
		substances = append(substances, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate substances")
	}
	if len(substances) == 0 {
		return nil, errors.New(errors.ErrCodeCatalogEmpty, "substances table contains no rows")
	}
	r.logger.Debug("loaded substances from database", logging.Int("count", len(substances)))
	return substances, nil
}

func scanSubstance(row scanner) (*substance.Substance, error) {
	var (
		cas, name    string
		flashPoint   sql.NullFloat64
		toxicityRaw  sql.NullString
		categoryRaw  sql.NullString
		hazardsNotes sql.NullString
	)
	if err := row.Scan(&cas, &name, &flashPoint, &toxicityRaw, &categoryRaw, &hazardsNotes); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan substance row")
	}

	var fp *float64
	if flashPoint.Valid {
		v := flashPoint.Float64
		fp = &v
	}

	var toxicity substance.ToxicityLevel
	if toxicityRaw.String != "" {
		level, ok := substance.ParseToxicityLevel(toxicityRaw.String)
		if !ok {
			return nil, errors.New(errors.ErrCodeCatalogParseError,
				fmt.Sprintf("substances: CAS %s: unknown toxicite %q", cas, toxicityRaw.String))
		}
		toxicity = level
	}

	s, err := substance.NewSubstance(cas, name, fp, toxicity, substance.ParseCategory(categoryRaw.String))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCatalogParseError, "substances: invalid row")
	}
	s.HazardNotes = hazardsNotes.String
	return s, nil
}

const listIncompatibilitiesQuery = `
SELECT substance_a, substance_b, niveau_risque, type_reaction, justification,
       produit_reaction, formule_produit, equation_reaction
FROM incompatibilites
ORDER BY id`

// ListIncompatibilities returns every known risky pair.
func (r *CatalogRepository) ListIncompatibilities(ctx context.Context) ([]*substance.IncompatibilityRecord, error) {
	rows, err := r.db.QueryContext(ctx, listIncompatibilitiesQuery)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to query incompatibilities")
	}
	defer rows.Close()

	var records []*substance.IncompatibilityRecord
	for rows.Next() {
		rec, err := scanIncompatibility(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate incompatibilities")
	}
	r.logger.Debug("loaded incompatibilities from database", logging.Int("count", len(records)))
	return records, nil
}

func scanIncompatibility(row scanner) (*substance.IncompatibilityRecord, error) {
	var (
		a, b, levelRaw             string
		reaction, explanation      sql.NullString
		product, formula, equation sql.NullString
	)
	if err := row.Scan(&a, &b, &levelRaw, &reaction, &explanation, &product, &formula, &equation); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan incompatibility row")
	}

	level, ok := substance.ParseIncompatRiskLevel(levelRaw)
	if !ok {
		return nil, errors.New(errors.ErrCodeCatalogParseError,
			fmt.Sprintf("incompatibilites: %s + %s: unknown niveau_risque %q", a, b, levelRaw))
	}

	return &substance.IncompatibilityRecord{
		SubstanceA:       a,
		SubstanceB:       b,
		RiskLevel:        level,
		ReactionType:     reaction.String,
		Explanation:      explanation.String,
		ReactionProduct:  product.String,
		ProductFormula:   formula.String,
		ReactionEquation: equation.String,
	}, nil
}
