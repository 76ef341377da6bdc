package substance

// Repository resolves a free-text token to a substance reference record.
//
// Matching precedence, evaluated in this fixed order with the first hit
// winning:
//
//  1. exact identifier match against CASNumber;
//  2. exact match of the normalized token against the normalized Name;
//  3. substring match of the normalized token within the normalized Name,
//     iterated in the repository's load order, returning the first match.
//
// The load-order tie-break for substring matches is a documented contract:
// it is what makes resolution reproducible when several names could match.
//
// Reference data is loaded once at process start and read-only afterwards,
// so implementations serve concurrent readers without coordination and take
// no context.
type Repository interface {
	// Resolve returns the matching substance, or ok=false when no rule of
	// the precedence chain matches.  An unresolved token is never an error.
	Resolve(token string) (*Substance, bool)

	// All returns every substance in load order.  Callers must not mutate
	// the returned records.
	All() []*Substance
}

// IncompatibilityRepository answers pair lookups against the known
// incompatibility records.  Lookup is order-independent: (A, B) and (B, A)
// return the identical record.
type IncompatibilityRepository interface {
	// Lookup returns the record for the unordered CAS pair, or ok=false when
	// the combination is not listed.
	Lookup(casA, casB string) (*IncompatibilityRecord, bool)

	// All returns every record in load order.
	All() []*IncompatibilityRecord
}
