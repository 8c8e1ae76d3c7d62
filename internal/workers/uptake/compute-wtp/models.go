// internal/workers/uptake/compute-wtp/models.go
package computewtp

import "plan-uptake-workers/internal/uptake"

type Input struct {
	Scenario        uptake.Scenario
	ConfidenceLevel float64
	Adjust          bool
	Profile         uptake.RespondentProfile
}

type Output struct {
	WTPEstimates     []uptake.WTPEstimate `json:"wtpEstimates"`
	AdjustmentFactor float64              `json:"adjustmentFactor"`
	ConfidenceLevel  float64              `json:"confidenceLevel"`
}
