// internal/workers/uptake/predict-uptake/models.go
package predictuptake

import "plan-uptake-workers/internal/uptake"

type Input struct {
	Scenario   uptake.Scenario
	Profile    uptake.RespondentProfile
	Attributes uptake.AttributeLevels
	// SaveRecord is nil when the job leaves the choice to configuration.
	SaveRecord *bool
}

type Output struct {
	ClassLabels            []string  `json:"classLabels"`
	ClassProbabilities     []float64 `json:"classProbabilities"`
	ClassPlanProbabilities []float64 `json:"classPlanProbabilities"`
	UptakeProbability      float64   `json:"uptakeProbability"`
	FormattedMembership    string    `json:"formattedMembership"`
	FormattedUptake        string    `json:"formattedUptake"`
	CoefficientTable       string    `json:"coefficientTable"`
	RecordID               string    `json:"recordId,omitempty"`
}
