package analysis

import (
	"math"
	"strconv"
)

// trimFloat renders a float without trailing zeros ("-20", "23.5", "49.5").
// All response text goes through it so that identical inputs produce
// byte-identical output.
func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// round2 rounds to two decimals.  Applied once to the weighted sum; the
// returned per-category scores are exact table values, so recomputing the
// global score from the response reproduces it exactly.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
