package uptake

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultConfidenceLevel is the coverage of WTP confidence intervals.
const DefaultConfidenceLevel = 0.95

// WTPEstimate is the willingness to pay for one attribute in one class,
// expressed in cost units per unit of the attribute.
type WTPEstimate struct {
	Class                  int       `json:"class"`
	Label                  string    `json:"label"`
	Attribute              Attribute `json:"attribute"`
	Value                  float64   `json:"value"`
	StandardError          float64   `json:"standardError"`
	StandardErrorAvailable bool      `json:"standardErrorAvailable"`
	ConfidenceLevel        float64   `json:"confidenceLevel,omitempty"`
	Lower                  float64   `json:"lower,omitempty"`
	Upper                  float64   `json:"upper,omitempty"`
}

// WTPRatio is attrCoef / -costCoef.
func WTPRatio(attrCoef, costCoef float64) float64 {
	return attrCoef / -costCoef
}

// DeltaMethodSE is the first-order delta-method standard error of
// attrCoef / -costCoef. The two estimators are treated as independent, so
// the covariance term is omitted and the result is an approximation.
func DeltaMethodSE(attrCoef, attrSE, costCoef, costSE float64) float64 {
	a := attrSE / -costCoef
	b := attrCoef * costSE / (costCoef * costCoef)
	return math.Sqrt(a*a + b*b)
}

// wtpAttributes are the non-cost attributes WTP is reported for.
func wtpAttributes(includeOthers bool) []Attribute {
	attrs := []Attribute{EfficacySelf, RiskSelf}
	if includeOthers {
		attrs = append(attrs, EfficacyOthers, RiskOthers)
	}
	return attrs
}

// ComputeWTP returns WTP estimates at DefaultConfidenceLevel.
func (e *Engine) ComputeWTP(s Scenario) ([]WTPEstimate, error) {
	return e.ComputeWTPWithConfidence(s, DefaultConfidenceLevel)
}

// ComputeWTPWithConfidence returns one estimate per class and non-cost
// attribute, ratioed against the self cost coefficient. Intervals are only
// filled in when the table carries standard errors for both coefficients.
func (e *Engine) ComputeWTPWithConfidence(s Scenario, level float64) ([]WTPEstimate, error) {
	if !(level > 0 && level < 1) {
		return nil, &ValidationError{Field: "confidenceLevel", Reason: fmt.Sprintf("must be in (0,1), got %v", level)}
	}
	sc, err := e.table.Lookup(s)
	if err != nil {
		return nil, err
	}

	z := distuv.UnitNormal.Quantile(1 - (1-level)/2)
	attrs := wtpAttributes(sc.IncludesOthers())
	out := make([]WTPEstimate, 0, len(attrs)*len(sc.Classes))

	for i, c := range sc.Classes {
		cost := c.Weights.CostSelf
		if cost == 0 {
			return nil, &ConfigurationError{
				Scenario: s,
				Reason:   fmt.Sprintf("class %q has a zero cost coefficient, WTP is undefined", c.Label),
			}
		}
		costSE := c.StdErrors.CostSelf

		for _, a := range attrs {
			coef := c.Weights.Get(a)
			est := WTPEstimate{
				Class:     i + 1,
				Label:     c.Label,
				Attribute: a,
				Value:     WTPRatio(coef, cost),
			}
			attrSE := c.StdErrors.Get(a)
			if attrSE > 0 && costSE > 0 {
				se := DeltaMethodSE(coef, attrSE, cost, costSE)
				est.StandardError = se
				est.StandardErrorAvailable = true
				est.ConfidenceLevel = level
				est.Lower = est.Value - z*se
				est.Upper = est.Value + z*se
			}
			out = append(out, est)
		}
	}
	return out, nil
}
