// Package substance provides the core domain model for chemical reference
// data in the ChemRisk-Intelligence platform: substance records, toxicity and
// category enumerations, incompatibility records, token normalization, and
// the in-memory indexes the risk engine resolves against.
package substance

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	casPattern           = regexp.MustCompile(`^\d{2,7}-\d{2}-\d$`)
	parentheticalPattern = regexp.MustCompile(`\([^)]*\)`)
	whitespacePattern    = regexp.MustCompile(`\s+`)

	// diacriticStripper decomposes to NFD, drops combining marks, and
	// recomposes, turning "éthanol" into "ethanol".
	diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Normalize canonicalizes a free-text substance token for matching: lowercase,
// parenthetical qualifiers removed (purity percentages, vendor notes),
// diacritics stripped, and whitespace runs collapsed to single spaces.
// Pure function; an empty or blank token normalizes to the empty string.
func Normalize(token string) string {
	s := strings.ToLower(token)
	s = parentheticalPattern.ReplaceAllString(s, " ")
	if stripped, _, err := transform.String(diacriticStripper, s); err == nil {
		s = stripped
	}
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// IsCASNumber reports whether token matches the CAS registry number pattern:
// 2-7 digits, hyphen, 2 digits, hyphen, 1 check digit.
func IsCASNumber(token string) bool {
	return casPattern.MatchString(strings.TrimSpace(token))
}
