package catalog

import (
	"context"

	"github.com/turtacn/ChemRisk-Intelligence/internal/config"
	"github.com/turtacn/ChemRisk-Intelligence/internal/domain/substance"
	"github.com/turtacn/ChemRisk-Intelligence/internal/infrastructure/monitoring/logging"
)

// Catalog bundles the two loaded reference indexes.
type Catalog struct {
	Substances        *substance.Index
	Incompatibilities *substance.IncompatIndex
}

// Load reads both CSV files and builds the resolution indexes.  Records whose
// endpoints cannot be resolved against the substance index are logged and
// excluded from lookups; every other problem is fatal.
func Load(cfg config.CatalogConfig, logger logging.Logger) (*Catalog, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	substances, err := LoadSubstances(cfg.SubstancesPath)
	if err != nil {
		return nil, err
	}
	records, err := LoadIncompatibilities(cfg.IncompatibilitiesPath)
	if err != nil {
		return nil, err
	}

	cat := Build(substances, records, logger)
	logger.Info("catalog loaded",
		logging.String("substances_path", cfg.SubstancesPath),
		logging.Int("substances", cat.Substances.Len()),
		logging.String("incompatibilities_path", cfg.IncompatibilitiesPath),
		logging.Int("incompatibilities", len(cat.Incompatibilities.All())),
	)
	return cat, nil
}

// Source is a database-backed provider of the reference records.  The
// Postgres catalog repository satisfies it.
type Source interface {
	ListSubstances(ctx context.Context) ([]*substance.Substance, error)
	ListIncompatibilities(ctx context.Context) ([]*substance.IncompatibilityRecord, error)
}

// LoadFromSource builds the catalog from a database source instead of CSV
// files.
func LoadFromSource(ctx context.Context, src Source, logger logging.Logger) (*Catalog, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	substances, err := src.ListSubstances(ctx)
	if err != nil {
		return nil, err
	}
	records, err := src.ListIncompatibilities(ctx)
	if err != nil {
		return nil, err
	}

	cat := Build(substances, records, logger)
	logger.Info("catalog loaded",
		logging.String("source", "postgres"),
		logging.Int("substances", cat.Substances.Len()),
		logging.Int("incompatibilities", len(cat.Incompatibilities.All())),
	)
	return cat, nil
}

// Build assembles the indexes from already-loaded slices, preserving slice
// order.  Both the CSV and the database loaders feed through here.
func Build(substances []*substance.Substance, records []*substance.IncompatibilityRecord, logger logging.Logger) *Catalog {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	index := substance.NewIndex(substances)
	incompat := substance.NewIncompatIndex(records, index)
	for _, rec := range incompat.Unresolvable {
		logger.Warn("incompatibility record references unknown substance",
			logging.String("substance_a", rec.SubstanceA),
			logging.String("substance_b", rec.SubstanceB),
		)
	}
	return &Catalog{Substances: index, Incompatibilities: incompat}
}
