package uptake

import "math"

// AdjustmentWeights drive the demographic WTP adjustment. The factor is a
// presentation heuristic layered on top of the model, not an estimate.
type AdjustmentWeights struct {
	Base         float64
	AgeUnder30   float64
	Age50To64    float64
	Age65AndOver float64
	Female       float64
	HighIncome   float64
	Degree       float64
	GoodHealth   float64
	Min          float64
	Max          float64
}

// DefaultAdjustmentWeights are the factors applied when none are configured.
var DefaultAdjustmentWeights = AdjustmentWeights{
	Base:         1.0,
	AgeUnder30:   -0.10,
	Age50To64:    0.05,
	Age65AndOver: 0.10,
	Female:       0.05,
	HighIncome:   0.25,
	Degree:       0.10,
	GoodHealth:   0.05,
	Min:          0.5,
	Max:          1.5,
}

// Factor computes the multiplier for a profile, clamped to [Min, Max].
func (w AdjustmentWeights) Factor(p RespondentProfile) float64 {
	f := w.Base
	switch {
	case p.Age < 30:
		f += w.AgeUnder30
	case p.Age >= 65:
		f += w.Age65AndOver
	case p.Age >= 50:
		f += w.Age50To64
	}
	f += w.Female * p.female()
	f += w.HighIncome * p.highIncome()
	f += w.Degree * indicator(p.HasDegree)
	f += w.GoodHealth * indicator(p.GoodHealth)
	return math.Min(w.Max, math.Max(w.Min, f))
}

// AdjustWTP scales every estimate (value, SE and interval) by the profile's
// factor and returns the adjusted copies together with the factor.
func AdjustWTP(estimates []WTPEstimate, p RespondentProfile, w AdjustmentWeights) ([]WTPEstimate, float64) {
	factor := w.Factor(p)
	out := make([]WTPEstimate, len(estimates))
	for i, est := range estimates {
		est.Value *= factor
		if est.StandardErrorAvailable {
			est.StandardError *= factor
			est.Lower *= factor
			est.Upper *= factor
		}
		out[i] = est
	}
	return out, factor
}
