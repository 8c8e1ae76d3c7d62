package uptake

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// MaxSweepPoints bounds the size of one sensitivity grid.
const MaxSweepPoints = 10000

type SweepPoint struct {
	Value  float64 `json:"value"`
	Uptake float64 `json:"uptake"`
}

type SweepSummary struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

type SweepResult struct {
	Scenario  Scenario     `json:"scenario"`
	Attribute Attribute    `json:"attribute"`
	Points    []SweepPoint `json:"points"`
	Summary   SweepSummary `json:"summary"`
}

// SweepRange is an inclusive grid from From to To in increments of Step.
type SweepRange struct {
	From float64
	To   float64
	Step float64
}

func (r SweepRange) points() (int, error) {
	if !(r.Step > 0) {
		return 0, &ValidationError{Field: "step", Reason: "must be positive"}
	}
	if math.IsNaN(r.From) || math.IsNaN(r.To) || r.To < r.From {
		return 0, &ValidationError{Field: "to", Reason: fmt.Sprintf("must not be below from (%v)", r.From)}
	}
	n := math.Floor((r.To-r.From)/r.Step+1e-9) + 1
	if n > MaxSweepPoints {
		return 0, &ValidationError{Field: "step", Reason: fmt.Sprintf("grid has %.0f points, limit is %d", n, MaxSweepPoints)}
	}
	return int(n), nil
}

// Sweep re-evaluates the overall uptake while attribute a moves across r,
// holding the profile and the other attribute levels fixed.
func (e *Engine) Sweep(s Scenario, p RespondentProfile, l AttributeLevels, a Attribute, r SweepRange) (*SweepResult, error) {
	sc, err := e.table.Lookup(s)
	if err != nil {
		return nil, err
	}
	if _, err := ParseAttribute(string(a)); err != nil {
		return nil, err
	}
	if a.IsOthers() && !sc.IncludesOthers() {
		return nil, &ValidationError{
			Field:  "attribute",
			Reason: fmt.Sprintf("%s does not enter utility in scenario %d", a, int(s)),
		}
	}
	n, err := r.points()
	if err != nil {
		return nil, err
	}

	m := membershipFor(sc, p)
	points := make([]SweepPoint, n)
	curve := make(stats.Float64Data, n)
	for i := 0; i < n; i++ {
		v := r.From + float64(i)*r.Step
		u := blend(m, classChoicesFor(sc, l.With(a, v)))
		points[i] = SweepPoint{Value: v, Uptake: u}
		curve[i] = u
	}

	summary, err := summarize(curve)
	if err != nil {
		return nil, err
	}
	return &SweepResult{Scenario: s, Attribute: a, Points: points, Summary: summary}, nil
}

func summarize(curve stats.Float64Data) (SweepSummary, error) {
	var (
		out SweepSummary
		err error
	)
	if out.Min, err = stats.Min(curve); err != nil {
		return out, fmt.Errorf("sweep min: %w", err)
	}
	if out.Max, err = stats.Max(curve); err != nil {
		return out, fmt.Errorf("sweep max: %w", err)
	}
	if out.Mean, err = stats.Mean(curve); err != nil {
		return out, fmt.Errorf("sweep mean: %w", err)
	}
	if out.Median, err = stats.Median(curve); err != nil {
		return out, fmt.Errorf("sweep median: %w", err)
	}
	return out, nil
}
