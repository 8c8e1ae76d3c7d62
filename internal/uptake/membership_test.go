package uptake

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helpers
// ==========================

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(nil)
	require.NoError(t, err)
	return engine
}

func referenceProfile() RespondentProfile {
	return RespondentProfile{
		Age:        40,
		Gender:     GenderFemale,
		Race:       RaceWhite,
		Income:     IncomeHigh,
		HasDegree:  true,
		GoodHealth: true,
	}
}

// ==========================
// Logistic
// ==========================

func TestLogistic(t *testing.T) {
	assert.Equal(t, 0.5, logistic(0))
	assert.Equal(t, 1.0, logistic(1000))
	assert.Equal(t, 0.0, logistic(-1000))
	assert.False(t, math.IsNaN(logistic(-800)))

	for _, x := range []float64{0.1, 1, 3.5, 12, 30} {
		assert.InDelta(t, 1, logistic(x)+logistic(-x), 1e-12, "x=%v", x)
	}
}

// ==========================
// Membership
// ==========================

func TestComputeMembership_ReferenceProfile(t *testing.T) {
	engine := newTestEngine(t)

	m, err := engine.ComputeMembership(Scenario1, referenceProfile())
	require.NoError(t, err)

	assert.Equal(t, [2]string{"Risk-Averse", "Cost-Sensitive"}, m.Labels)
	assert.InDelta(t, 22.11, m.LogOdds, 1e-9)
	assert.InDelta(t, 0.9999999997501099, m.P1(), 1e-12)
	assert.InDelta(t, 2.4989e-10, m.P2(), 1e-13)
}

func TestComputeMembership_ProbabilitiesSumToOne(t *testing.T) {
	engine := newTestEngine(t)

	profiles := []RespondentProfile{
		referenceProfile(),
		{Age: 18, Gender: GenderMale, Race: RaceBlack, Income: IncomeOther},
		{Age: 120, Gender: GenderFemale, Race: RaceOther, Income: IncomeHigh, GoodHealth: true},
		{Age: 0.5, Gender: GenderFemale, Race: RaceBlack, Income: IncomeOther},
		{Age: -5, Gender: GenderMale, Race: RaceWhite, Income: IncomeOther, HasDegree: true},
	}

	for _, s := range Scenarios() {
		for _, p := range profiles {
			m, err := engine.ComputeMembership(s, p)
			require.NoError(t, err)
			assert.InDelta(t, 1, m.P1()+m.P2(), 1e-12, "scenario %d profile %+v", s, p)
			assert.GreaterOrEqual(t, m.P1(), 0.0)
			assert.LessOrEqual(t, m.P1(), 1.0)
		}
	}
}

func TestComputeMembership_ClassLabels(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		scenario Scenario
		labels   [2]string
	}{
		{Scenario1, [2]string{"Risk-Averse", "Cost-Sensitive"}},
		{Scenario2, [2]string{"Equity-Focused", "Cost-Sensitive"}},
		{Scenario3, [2]string{"Equity-Focused", "Self-Focused"}},
	}

	for _, tt := range tests {
		t.Run(tt.scenario.String(), func(t *testing.T) {
			m, err := engine.ComputeMembership(tt.scenario, referenceProfile())
			require.NoError(t, err)
			assert.Equal(t, tt.labels, m.Labels)
		})
	}
}

func TestComputeMembership_AgeRaisesClassOneShare(t *testing.T) {
	engine := newTestEngine(t)

	p := RespondentProfile{Gender: GenderFemale, Race: RaceBlack, Income: IncomeOther}
	prev := -1.0
	for age := -20.0; age <= 20; age += 0.5 {
		p.Age = age
		m, err := engine.ComputeMembership(Scenario1, p)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, m.P1(), prev, "age %v", age)
		prev = m.P1()
	}
}

func TestComputeMembership_UnknownScenario(t *testing.T) {
	engine := newTestEngine(t)

	for _, s := range []Scenario{0, 4, -1} {
		_, err := engine.ComputeMembership(s, referenceProfile())
		var cfgErr *ConfigurationError
		require.True(t, errors.As(err, &cfgErr), "scenario %d", s)
	}
}

func TestComputeMembership_TableMissingScenario(t *testing.T) {
	table := BuiltinTable()
	delete(table.Scenarios, Scenario2)
	engine := &Engine{table: table}

	_, err := engine.ComputeMembership(Scenario2, referenceProfile())
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, Scenario2, cfgErr.Scenario)

	_, err = NewEngine(table)
	assert.ErrorAs(t, err, &cfgErr)
}

func TestNewMembership(t *testing.T) {
	m := NewMembership([2]string{"A", "B"}, 0.25)
	assert.Equal(t, 0.25, m.P1())
	assert.Equal(t, 0.75, m.P2())

	m = NewMembership([2]string{"A", "B"}, 1.2)
	assert.Equal(t, 1.0, m.P1())
	assert.Equal(t, 0.0, m.P2())
}
