package substance

import (
	"strings"
)

// Index is the in-memory Repository implementation shared by every catalog
// source: CSV and Postgres loaders both produce a substance slice and hand it
// to NewIndex.  The slice order is the load order and drives the substring
// tie-break.
type Index struct {
	ordered []*Substance
	byCAS   map[string]*Substance
	byName  map[string]*Substance
}

// NewIndex builds an Index over substances.  Later records never shadow
// earlier ones: on duplicate CAS numbers or names the first record wins,
// mirroring the first-match-in-load-order contract.
func NewIndex(substances []*Substance) *Index {
	idx := &Index{
		ordered: make([]*Substance, 0, len(substances)),
		byCAS:   make(map[string]*Substance, len(substances)),
		byName:  make(map[string]*Substance, len(substances)),
	}
	for _, s := range substances {
		if s == nil {
			continue
		}
		idx.ordered = append(idx.ordered, s)
		if _, exists := idx.byCAS[s.CASNumber]; !exists {
			idx.byCAS[s.CASNumber] = s
		}
		name := s.NormalizedName()
		if _, exists := idx.byName[name]; !exists {
			idx.byName[name] = s
		}
	}
	return idx
}

// Resolve implements Repository.
func (idx *Index) Resolve(token string) (*Substance, bool) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return nil, false
	}

	// 1. Exact CAS identifier.
	if IsCASNumber(trimmed) {
		if s, ok := idx.byCAS[trimmed]; ok {
			return s, true
		}
	}

	normalized := Normalize(trimmed)
	if normalized == "" {
		return nil, false
	}

	// 2. Exact normalized name.
	if s, ok := idx.byName[normalized]; ok {
		return s, true
	}

	// 3. Substring within normalized name, in load order.
	for _, s := range idx.ordered {
		if strings.Contains(s.NormalizedName(), normalized) {
			return s, true
		}
	}

	return nil, false
}

// All implements Repository.
func (idx *Index) All() []*Substance {
	return idx.ordered
}

// Len returns the number of indexed substances.
func (idx *Index) Len() int {
	return len(idx.ordered)
}

// ─────────────────────────────────────────────────────────────────────────────
// Incompatibility index
// ─────────────────────────────────────────────────────────────────────────────

// IncompatIndex is the in-memory IncompatibilityRepository implementation.
// Records are keyed by the unordered CAS pair of their endpoints, resolved
// against the substance index at build time.
type IncompatIndex struct {
	ordered []*IncompatibilityRecord
	byPair  map[string]*IncompatibilityRecord

	// Unresolvable holds catalog records whose endpoints did not resolve
	// against the substance index.  They are excluded from lookups; callers
	// log them once at startup.
	Unresolvable []*IncompatibilityRecord
}

// pairKey builds the order-independent map key for two CAS numbers.
func pairKey(casA, casB string) string {
	if casA > casB {
		casA, casB = casB, casA
	}
	return casA + "|" + casB
}

// NewIncompatIndex builds an IncompatIndex over records, resolving each
// record's endpoint names through substances.  On duplicate pairs the first
// record wins.
func NewIncompatIndex(records []*IncompatibilityRecord, substances Repository) *IncompatIndex {
	idx := &IncompatIndex{
		ordered: make([]*IncompatibilityRecord, 0, len(records)),
		byPair:  make(map[string]*IncompatibilityRecord, len(records)),
	}
	for _, r := range records {
		if r == nil {
			continue
		}
		a, okA := substances.Resolve(r.SubstanceA)
		b, okB := substances.Resolve(r.SubstanceB)
		if !okA || !okB {
			idx.Unresolvable = append(idx.Unresolvable, r)
			continue
		}
		idx.ordered = append(idx.ordered, r)
		key := pairKey(a.CASNumber, b.CASNumber)
		if _, exists := idx.byPair[key]; !exists {
			idx.byPair[key] = r
		}
	}
	return idx
}

// Lookup implements IncompatibilityRepository.
func (idx *IncompatIndex) Lookup(casA, casB string) (*IncompatibilityRecord, bool) {
	r, ok := idx.byPair[pairKey(casA, casB)]
	return r, ok
}

// All implements IncompatibilityRepository.
func (idx *IncompatIndex) All() []*IncompatibilityRecord {
	return idx.ordered
}
