package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ChemRisk-Intelligence/internal/domain/substance"
	analysistypes "github.com/turtacn/ChemRisk-Intelligence/pkg/types/analysis"
)

func boolPtr(v bool) *bool { return &v }

func testEnvironment() *EnvironmentAssessor {
	return NewEnvironmentAssessor(60, 70, 30)
}

func TestEnvironmentNilContext(t *testing.T) {
	warnings := testEnvironment().Assess(nil, Aggregation{ToxicityScore: 95}, nil)
	assert.Empty(t, warnings)
}

func TestEnvironmentVentilation(t *testing.T) {
	e := testEnvironment()
	agg := Aggregation{ToxicityScore: 70}

	t.Run("unventilated with toxic substances", func(t *testing.T) {
		warnings := e.Assess(&analysistypes.LabContext{Ventilation: boolPtr(false)}, agg, nil)
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], "non ventilé")
	})

	t.Run("unspecified ventilation treated as ventilated", func(t *testing.T) {
		warnings := e.Assess(&analysistypes.LabContext{}, agg, nil)
		assert.Empty(t, warnings)
	})

	t.Run("ventilated", func(t *testing.T) {
		warnings := e.Assess(&analysistypes.LabContext{Ventilation: boolPtr(true)}, agg, nil)
		assert.Empty(t, warnings)
	})

	t.Run("unventilated below threshold", func(t *testing.T) {
		warnings := e.Assess(&analysistypes.LabContext{Ventilation: boolPtr(false)}, Aggregation{ToxicityScore: 45}, nil)
		assert.Empty(t, warnings)
	})
}

func TestEnvironmentTemperature(t *testing.T) {
	e := testEnvironment()
	agg := Aggregation{InflammabilityScore: 90}

	t.Run("hot room with flammable substances", func(t *testing.T) {
		warnings := e.Assess(&analysistypes.LabContext{TemperatureC: fp(35)}, agg, nil)
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], "35 °C")
	})

	t.Run("threshold temperature produces no warning", func(t *testing.T) {
		warnings := e.Assess(&analysistypes.LabContext{TemperatureC: fp(30)}, agg, nil)
		assert.Empty(t, warnings)
	})

	t.Run("hot room without flammables", func(t *testing.T) {
		warnings := e.Assess(&analysistypes.LabContext{TemperatureC: fp(35)}, Aggregation{InflammabilityScore: 5}, nil)
		assert.Empty(t, warnings)
	})
}

func TestEnvironmentHumidity(t *testing.T) {
	e := testEnvironment()
	sodium, err := substance.NewSubstance("7440-23-5", "Sodium", nil, substance.ToxicityHarmful, substance.CategoryWaterReactive)
	require.NoError(t, err)
	assessments := []SubstanceAssessment{{ResolvedSubstance: ResolvedSubstance{Substance: sodium, Resolved: true}}}

	t.Run("humid room with water reactive substance", func(t *testing.T) {
		warnings := e.Assess(&analysistypes.LabContext{HumidityPercent: fp(80)}, Aggregation{}, assessments)
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], "Humidité élevée")
	})

	t.Run("humid room without water reactive substance", func(t *testing.T) {
		warnings := e.Assess(&analysistypes.LabContext{HumidityPercent: fp(80)}, Aggregation{}, nil)
		assert.Empty(t, warnings)
	})

	t.Run("dry room", func(t *testing.T) {
		warnings := e.Assess(&analysistypes.LabContext{HumidityPercent: fp(40)}, Aggregation{}, assessments)
		assert.Empty(t, warnings)
	})
}

func TestEnvironmentWarningOrder(t *testing.T) {
	e := testEnvironment()
	ctx := &analysistypes.LabContext{
		Ventilation:  boolPtr(false),
		TemperatureC: fp(40),
	}
	warnings := e.Assess(ctx, Aggregation{ToxicityScore: 95, InflammabilityScore: 90}, nil)
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "non ventilé")
	assert.Contains(t, warnings[1], "Température élevée")
}
