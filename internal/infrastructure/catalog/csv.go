// Package catalog loads the substance and incompatibility reference data
// that the analysis engine resolves against.  The CSV loaders preserve file
// order: resolution precedence depends on it.
package catalog

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/turtacn/ChemRisk-Intelligence/internal/domain/substance"
	"github.com/turtacn/ChemRisk-Intelligence/pkg/errors"
)

// Substance CSV columns.
const (
	colCAS        = "cas"
	colName       = "nom"
	colFlashPoint = "point_eclair"
	colToxicity   = "toxicite"
	colCategory   = "categorie"
	colNotes      = "mentions_danger"
)

// Incompatibility CSV columns.
const (
	colSubstanceA  = "substance_a"
	colSubstanceB  = "substance_b"
	colRiskLevel   = "niveau_risque"
	colReaction    = "type_reaction"
	colExplanation = "justification"
	colProduct     = "produit_reaction"
	colFormula     = "formule_produit"
	colEquation    = "equation_reaction"
)

// LoadSubstances reads a substance catalog file.  The header row names the
// columns; column order is free.  cas and nom are required per row,
// point_eclair may be empty, an unknown categorie degrades to neutral.
func LoadSubstances(path string) ([]*substance.Substance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCatalogLoadFailed,
			fmt.Sprintf("cannot open substance catalog %s", path))
	}
	defer f.Close()
	return ParseSubstances(f, path)
}

// ParseSubstances reads substance rows from r; name is used in error messages.
func ParseSubstances(r io.Reader, name string) ([]*substance.Substance, error) {
	reader := newReader(r)

	header, err := readHeader(reader, name, colCAS, colName)
	if err != nil {
		return nil, err
	}

	var substances []*substance.Substance
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, parseError(name, line, err.Error())
		}

		row := header.row(record)
		s, err := substanceFromRow(row)
		if err != nil {
			return nil, parseError(name, line, err.Error())
		}
		substances = append(substances, s)
	}

	if len(substances) == 0 {
		return nil, errors.New(errors.ErrCodeCatalogEmpty,
			fmt.Sprintf("substance catalog %s contains no rows", name))
	}
	return substances, nil
}

func substanceFromRow(row rowMap) (*substance.Substance, error) {
	var flashPoint *float64
	if raw := row.get(colFlashPoint); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid point_eclair %q", raw)
		}
		flashPoint = &v
	}

	var toxicity substance.ToxicityLevel
	if raw := row.get(colToxicity); raw != "" {
		level, ok := substance.ParseToxicityLevel(raw)
		if !ok {
			return nil, fmt.Errorf("unknown toxicite %q", raw)
		}
		toxicity = level
	}

	s, err := substance.NewSubstance(
		row.get(colCAS),
		row.get(colName),
		flashPoint,
		toxicity,
		substance.ParseCategory(row.get(colCategory)),
	)
	if err != nil {
		return nil, err
	}
	s.HazardNotes = row.get(colNotes)
	return s, nil
}

// LoadIncompatibilities reads known risky pairs.  Endpoint names are matched
// against the substance index at startup.
func LoadIncompatibilities(path string) ([]*substance.IncompatibilityRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCatalogLoadFailed,
			fmt.Sprintf("cannot open incompatibility catalog %s", path))
	}
	defer f.Close()
	return ParseIncompatibilities(f, path)
}

// ParseIncompatibilities reads incompatibility rows from r.
func ParseIncompatibilities(r io.Reader, name string) ([]*substance.IncompatibilityRecord, error) {
	reader := newReader(r)

	header, err := readHeader(reader, name, colSubstanceA, colSubstanceB, colRiskLevel)
	if err != nil {
		return nil, err
	}

	var records []*substance.IncompatibilityRecord
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, parseError(name, line, err.Error())
		}

		row := header.row(record)
		a, b := row.get(colSubstanceA), row.get(colSubstanceB)
		if a == "" || b == "" {
			return nil, parseError(name, line, "substance_a and substance_b are required")
		}
		level, ok := substance.ParseIncompatRiskLevel(row.get(colRiskLevel))
		if !ok {
			return nil, parseError(name, line, fmt.Sprintf("unknown niveau_risque %q", row.get(colRiskLevel)))
		}

		records = append(records, &substance.IncompatibilityRecord{
			SubstanceA:       a,
			SubstanceB:       b,
			RiskLevel:        level,
			ReactionType:     row.get(colReaction),
			Explanation:      row.get(colExplanation),
			ReactionProduct:  row.get(colProduct),
			ProductFormula:   row.get(colFormula),
			ReactionEquation: row.get(colEquation),
		})
	}
	return records, nil
}

// ─────────────────────────────────────────────
// Header handling
// ─────────────────────────────────────────────

// newReader builds a csv.Reader with the delimiter sniffed from the header
// line.  The upstream reference files use the French semicolon convention;
// comma-separated files work as well.
func newReader(r io.Reader) *csv.Reader {
	buffered := bufio.NewReader(r)
	peek, _ := buffered.Peek(4096)
	headerLine := peek
	if i := bytes.IndexByte(peek, '\n'); i >= 0 {
		headerLine = peek[:i]
	}

	reader := csv.NewReader(buffered)
	reader.TrimLeadingSpace = true
	if bytes.Count(headerLine, []byte{';'}) > bytes.Count(headerLine, []byte{','}) {
		reader.Comma = ';'
	}
	return reader
}

type headerMap map[string]int

type rowMap struct {
	header headerMap
	record []string
}

func (h headerMap) row(record []string) rowMap {
	return rowMap{header: h, record: record}
}

func (r rowMap) get(col string) string {
	idx, ok := r.header[col]
	if !ok || idx >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[idx])
}

func readHeader(reader *csv.Reader, name string, required ...string) (headerMap, error) {
	record, err := reader.Read()
	if err != nil {
		return nil, parseError(name, 1, "missing header row")
	}
	// Rows may have fewer populated trailing columns than the header.
	reader.FieldsPerRecord = -1

	header := make(headerMap, len(record))
	for i, col := range record {
		header[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range required {
		if _, ok := header[col]; !ok {
			return nil, parseError(name, 1, fmt.Sprintf("missing required column %q", col))
		}
	}
	return header, nil
}

func parseError(name string, line int, detail string) error {
	return errors.New(errors.ErrCodeCatalogParseError,
		fmt.Sprintf("%s:%d: %s", name, line, detail))
}
