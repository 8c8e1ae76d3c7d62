package uptake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evenProfile() RespondentProfile {
	return RespondentProfile{Age: 0, Gender: GenderFemale, Race: RaceBlack, Income: IncomeOther}
}

func TestSweep_CostCurve(t *testing.T) {
	// with this intercept the even profile splits evenly between classes
	table := BuiltinTable()
	sc := table.Scenarios[Scenario1]
	sc.Membership.Intercept = 0.82
	table.Scenarios[Scenario1] = sc
	engine, err := NewEngine(table)
	require.NoError(t, err)

	result, err := engine.Sweep(Scenario1, evenProfile(), AttributeLevels{}, CostSelf, SweepRange{From: 300, To: 500, Step: 10})
	require.NoError(t, err)

	require.Len(t, result.Points, 21)
	assert.Equal(t, CostSelf, result.Attribute)
	assert.Equal(t, 300.0, result.Points[0].Value)
	assert.Equal(t, 400.0, result.Points[10].Value)
	assert.Equal(t, 500.0, result.Points[20].Value)

	for i := 1; i < len(result.Points); i++ {
		assert.Less(t, result.Points[i].Uptake, result.Points[i-1].Uptake)
	}

	assert.InDelta(t, 0.15715994303087294, result.Points[10].Uptake, 1e-12)
	assert.Equal(t, result.Points[0].Uptake, result.Summary.Max)
	assert.Equal(t, result.Points[20].Uptake, result.Summary.Min)
	assert.InDelta(t, 0.15715994303087294, result.Summary.Median, 1e-12)
	assert.Greater(t, result.Summary.Mean, result.Summary.Min)
	assert.Less(t, result.Summary.Mean, result.Summary.Max)
}

func TestSweep_SinglePoint(t *testing.T) {
	engine := newTestEngine(t)

	result, err := engine.Sweep(Scenario2, referenceProfile(), AttributeLevels{CostSelf: 10}, EfficacySelf, SweepRange{From: 5, To: 5, Step: 1})
	require.NoError(t, err)

	require.Len(t, result.Points, 1)
	assert.Equal(t, result.Points[0].Uptake, result.Summary.Mean)
}

func TestSweep_MatchesEvaluate(t *testing.T) {
	engine := newTestEngine(t)
	profile := referenceProfile()
	levels := AttributeLevels{EfficacySelf: 0.5, CostSelf: 900}

	result, err := engine.Sweep(Scenario3, profile, levels, RiskOthers, SweepRange{From: 0, To: 1, Step: 0.25})
	require.NoError(t, err)
	require.Len(t, result.Points, 5)

	for _, pt := range result.Points {
		want, err := engine.Evaluate(Scenario3, profile, levels.With(RiskOthers, pt.Value))
		require.NoError(t, err)
		assert.Equal(t, want.Uptake, pt.Uptake)
	}
}

func TestSweep_Validation(t *testing.T) {
	engine := newTestEngine(t)
	profile := referenceProfile()

	tests := []struct {
		name      string
		scenario  Scenario
		attribute Attribute
		rng       SweepRange
		field     string
	}{
		{"zero step", Scenario1, CostSelf, SweepRange{From: 0, To: 10, Step: 0}, "step"},
		{"negative step", Scenario1, CostSelf, SweepRange{From: 0, To: 10, Step: -1}, "step"},
		{"inverted range", Scenario1, CostSelf, SweepRange{From: 10, To: 0, Step: 1}, "to"},
		{"too many points", Scenario1, CostSelf, SweepRange{From: 0, To: 9999, Step: 0.5}, "step"},
		{"others in scenario one", Scenario1, RiskOthers, SweepRange{From: 0, To: 10, Step: 1}, "attribute"},
		{"others in scenario two", Scenario2, CostOthers, SweepRange{From: 0, To: 10, Step: 1}, "attribute"},
		{"unknown attribute", Scenario3, Attribute("comfort"), SweepRange{From: 0, To: 10, Step: 1}, "attribute"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Sweep(tt.scenario, profile, AttributeLevels{}, tt.attribute, tt.rng)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}

	_, err := engine.Sweep(Scenario(5), profile, AttributeLevels{}, CostSelf, SweepRange{From: 0, To: 1, Step: 1})
	var cfgErr *ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestSweep_MaxGrid(t *testing.T) {
	engine := newTestEngine(t)

	result, err := engine.Sweep(Scenario1, referenceProfile(), AttributeLevels{}, CostSelf, SweepRange{From: 0, To: 9999, Step: 1})
	require.NoError(t, err)
	assert.Len(t, result.Points, MaxSweepPoints)
}
