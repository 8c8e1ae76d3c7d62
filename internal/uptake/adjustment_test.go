package uptake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjustmentWeights_Factor(t *testing.T) {
	tests := []struct {
		name    string
		profile RespondentProfile
		want    float64
	}{
		{
			name:    "baseline",
			profile: RespondentProfile{Age: 40, Gender: GenderMale, Race: RaceWhite, Income: IncomeOther},
			want:    1.0,
		},
		{
			name:    "under thirty",
			profile: RespondentProfile{Age: 25, Gender: GenderMale, Race: RaceBlack, Income: IncomeOther},
			want:    0.9,
		},
		{
			name:    "fifties female",
			profile: RespondentProfile{Age: 55, Gender: GenderFemale, Race: RaceOther, Income: IncomeOther},
			want:    1.1,
		},
		{
			name:    "sixty five with degree",
			profile: RespondentProfile{Age: 65, Gender: GenderMale, Race: RaceWhite, Income: IncomeOther, HasDegree: true},
			want:    1.2,
		},
		{
			name: "clamped to max",
			profile: RespondentProfile{
				Age: 70, Gender: GenderFemale, Race: RaceWhite, Income: IncomeHigh,
				HasDegree: true, GoodHealth: true,
			},
			want: 1.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, DefaultAdjustmentWeights.Factor(tt.profile), 1e-12)
		})
	}
}

func TestAdjustmentWeights_ClampedToMin(t *testing.T) {
	w := DefaultAdjustmentWeights
	w.Base = 0.2

	assert.Equal(t, 0.5, w.Factor(RespondentProfile{Age: 20}))
}

func TestAdjustWTP(t *testing.T) {
	engine, err := NewEngine(tableWithStdErrors())
	require.NoError(t, err)
	estimates, err := engine.ComputeWTP(Scenario1)
	require.NoError(t, err)

	profile := RespondentProfile{Age: 55, Gender: GenderFemale, Race: RaceOther, Income: IncomeOther}
	adjusted, factor := AdjustWTP(estimates, profile, DefaultAdjustmentWeights)

	assert.InDelta(t, 1.1, factor, 1e-12)
	require.Len(t, adjusted, len(estimates))
	assert.InDelta(t, estimates[0].Value*1.1, adjusted[0].Value, 1e-9)
	assert.InDelta(t, estimates[0].StandardError*1.1, adjusted[0].StandardError, 1e-9)
	assert.InDelta(t, estimates[0].Lower*1.1, adjusted[0].Lower, 1e-9)
	assert.InDelta(t, estimates[0].Upper*1.1, adjusted[0].Upper, 1e-9)
	assert.Zero(t, adjusted[2].Lower)

	// inputs are left untouched
	assert.InDelta(t, 20, estimates[0].Value, 1e-12)
}
