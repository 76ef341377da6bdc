package substance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSubstance(t *testing.T) {
	fp := -20.0
	s, err := NewSubstance("67-64-1", "Acétone", &fp, ToxicityHarmful, CategorySolvent)
	require.NoError(t, err)
	assert.Equal(t, "67-64-1", s.CASNumber)
	assert.Equal(t, "acetone", s.NormalizedName())
	require.NotNil(t, s.FlashPointC)
	assert.Equal(t, -20.0, *s.FlashPointC)
}

func TestNewSubstanceInvalid(t *testing.T) {
	_, err := NewSubstance("not-a-cas", "Acétone", nil, ToxicityHarmful, CategorySolvent)
	assert.ErrorContains(t, err, "invalid CAS number")

	_, err = NewSubstance("67-64-1", "  ", nil, ToxicityHarmful, CategorySolvent)
	assert.ErrorContains(t, err, "name is required")
}

func TestParseToxicityLevel(t *testing.T) {
	tests := []struct {
		in   string
		want ToxicityLevel
	}{
		{"VERY_TOXIC", ToxicityVeryToxic},
		{"tres_toxique", ToxicityVeryToxic},
		{"Très toxique", ToxicityVeryToxic},
		{"toxique", ToxicityToxic},
		{"NOCIF", ToxicityHarmful},
		{"irritant", ToxicityIrritant},
		{"peu toxique", ToxicitySlightlyToxic},
		{"non_toxique", ToxicityNonToxic},
		{"NON_TOXIC", ToxicityNonToxic},
	}
	for _, tt := range tests {
		level, ok := ParseToxicityLevel(tt.in)
		require.True(t, ok, tt.in)
		assert.Equal(t, tt.want, level, tt.in)
	}

	_, ok := ParseToxicityLevel("radioactif")
	assert.False(t, ok)
}

func TestParseCategory(t *testing.T) {
	assert.Equal(t, CategoryAcid, ParseCategory("acide"))
	assert.Equal(t, CategoryOxidizer, ParseCategory("Oxydant"))
	assert.Equal(t, CategoryWaterReactive, ParseCategory("reactif_eau"))
	assert.Equal(t, CategoryWater, ParseCategory("eau"))
	// Unknown spellings degrade to neutral, which matches no heuristic.
	assert.Equal(t, CategoryNeutral, ParseCategory("mystere"))
}

func TestParseIncompatRiskLevel(t *testing.T) {
	for in, want := range map[string]IncompatRiskLevel{
		"SEVERE": IncompatSevere,
		"eleve":  IncompatHigh,
		"MOYEN":  IncompatMedium,
		"low":    IncompatLow,
	} {
		level, ok := ParseIncompatRiskLevel(in)
		require.True(t, ok, in)
		assert.Equal(t, want, level, in)
	}

	_, ok := ParseIncompatRiskLevel("extreme")
	assert.False(t, ok)
}
