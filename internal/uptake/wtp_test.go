package uptake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableWithStdErrors() *CoefficientTable {
	table := BuiltinTable()
	sc := table.Scenarios[Scenario1]
	sc.Classes[0].Weights = AttributeWeights{EfficacySelf: 2, RiskSelf: -1, CostSelf: -0.1}
	sc.Classes[0].StdErrors = AttributeWeights{EfficacySelf: 0.5, RiskSelf: 0.25, CostSelf: 0.02}
	table.Scenarios[Scenario1] = sc
	return table
}

func TestComputeWTP_BuiltinScenarioOne(t *testing.T) {
	engine := newTestEngine(t)

	estimates, err := engine.ComputeWTP(Scenario1)
	require.NoError(t, err)
	require.Len(t, estimates, 4)

	assert.Equal(t, "Risk-Averse", estimates[0].Label)
	assert.Equal(t, EfficacySelf, estimates[0].Attribute)
	assert.InDelta(t, 26.06/0.065, estimates[0].Value, 1e-9)
	assert.InDelta(t, -28.35/0.065, estimates[1].Value, 1e-9)
	assert.Equal(t, 2, estimates[2].Class)
	assert.InDelta(t, 6.88/0.396, estimates[2].Value, 1e-9)

	for _, est := range estimates {
		assert.False(t, est.StandardErrorAvailable)
		assert.Zero(t, est.StandardError)
		assert.Zero(t, est.Lower)
		assert.Zero(t, est.Upper)
	}
}

func TestComputeWTP_ScenarioThreeIncludesOthers(t *testing.T) {
	engine := newTestEngine(t)

	estimates, err := engine.ComputeWTP(Scenario3)
	require.NoError(t, err)
	require.Len(t, estimates, 8)

	seen := map[Attribute]int{}
	for _, est := range estimates {
		seen[est.Attribute]++
		assert.False(t, est.Attribute.IsCost())
	}
	assert.Equal(t, map[Attribute]int{
		EfficacySelf: 2, RiskSelf: 2, EfficacyOthers: 2, RiskOthers: 2,
	}, seen)

	// others attributes are priced against the self cost coefficient
	assert.InDelta(t, 12.89/0.039, estimates[2].Value, 1e-9)
}

func TestComputeWTP_SignFollowsAttribute(t *testing.T) {
	engine := newTestEngine(t)

	for _, s := range Scenarios() {
		estimates, err := engine.ComputeWTP(s)
		require.NoError(t, err)
		for _, est := range estimates {
			if est.Attribute == EfficacySelf {
				assert.Greater(t, est.Value, 0.0)
			}
		}
	}
}

func TestDeltaMethodSE(t *testing.T) {
	assert.InDelta(t, 6.4031242374328485, DeltaMethodSE(2, 0.5, -0.1, 0.02), 1e-12)
	assert.Zero(t, DeltaMethodSE(2, 0, -0.1, 0))
	assert.InDelta(t, 20, WTPRatio(2, -0.1), 1e-12)
}

func TestComputeWTP_ConfidenceInterval(t *testing.T) {
	engine, err := NewEngine(tableWithStdErrors())
	require.NoError(t, err)

	estimates, err := engine.ComputeWTP(Scenario1)
	require.NoError(t, err)

	eff := estimates[0]
	require.True(t, eff.StandardErrorAvailable)
	assert.InDelta(t, 20, eff.Value, 1e-12)
	assert.InDelta(t, 6.4031242374328485, eff.StandardError, 1e-12)
	assert.InDelta(t, 20-1.959963984540054*6.4031242374328485, eff.Lower, 1e-6)
	assert.InDelta(t, 20+1.959963984540054*6.4031242374328485, eff.Upper, 1e-6)
	assert.Equal(t, DefaultConfidenceLevel, eff.ConfidenceLevel)

	// class 2 publishes no standard errors
	assert.False(t, estimates[2].StandardErrorAvailable)

	narrow, err := engine.ComputeWTPWithConfidence(Scenario1, 0.90)
	require.NoError(t, err)
	assert.InDelta(t, 20+1.6448536269514722*6.4031242374328485, narrow[0].Upper, 1e-6)
	assert.Less(t, narrow[0].Upper, eff.Upper)
}

func TestComputeWTP_Errors(t *testing.T) {
	engine := newTestEngine(t)

	var vErr *ValidationError
	for _, level := range []float64{0, 1, -0.5, 1.5} {
		_, err := engine.ComputeWTPWithConfidence(Scenario1, level)
		assert.ErrorAs(t, err, &vErr, "level %v", level)
	}

	var cfgErr *ConfigurationError
	_, err := engine.ComputeWTP(Scenario(0))
	assert.ErrorAs(t, err, &cfgErr)

	table := BuiltinTable()
	sc := table.Scenarios[Scenario2]
	sc.Classes[1].Weights.CostSelf = 0
	table.Scenarios[Scenario2] = sc
	zeroCost, err := NewEngine(table)
	require.NoError(t, err)

	_, err = zeroCost.ComputeWTP(Scenario2)
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, Scenario2, cfgErr.Scenario)
}

func TestComputeWTP_RecoversAttributeCoefficients(t *testing.T) {
	engine := newTestEngine(t)

	for _, s := range Scenarios() {
		coefs, err := engine.Coefficients(s)
		require.NoError(t, err)
		estimates, err := engine.ComputeWTP(s)
		require.NoError(t, err)

		want := 4
		if s.IncludesOthers() {
			want = 8
		}
		require.Len(t, estimates, want, "scenario %d", s)

		for _, est := range estimates {
			c := coefs.Classes[est.Class-1]
			assert.Equal(t, c.Label, est.Label)
			assert.InDelta(t, c.Weights.Get(est.Attribute), est.Value*(-c.Weights.CostSelf), 1e-9,
				"scenario %d class %d %s", s, est.Class, est.Attribute)
		}
	}
}
