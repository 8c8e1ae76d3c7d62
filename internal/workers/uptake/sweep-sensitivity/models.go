// internal/workers/uptake/sweep-sensitivity/models.go
package sweepsensitivity

import "plan-uptake-workers/internal/uptake"

type Input struct {
	Scenario   uptake.Scenario
	Profile    uptake.RespondentProfile
	Attributes uptake.AttributeLevels
	Attribute  uptake.Attribute
	Range      uptake.SweepRange
}

type Output struct {
	Attribute    uptake.Attribute    `json:"sweepAttribute"`
	SweepPoints  []uptake.SweepPoint `json:"sweepPoints"`
	SweepSummary uptake.SweepSummary `json:"sweepSummary"`
}
