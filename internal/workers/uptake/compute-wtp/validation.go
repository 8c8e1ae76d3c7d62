// internal/workers/uptake/compute-wtp/validation.go
package computewtp

import (
	"plan-uptake-workers/internal/common/validation"
	"plan-uptake-workers/internal/workers/uptake/input"
)

func GetInputSchema() validation.JSONSchema {
	props := input.ProfileProperties()
	props["scenario"] = input.ScenarioProperty()
	props["adjust"] = validation.Property{
		Type:        "boolean",
		Description: "Scale estimates by the respondent's demographic factor",
	}
	props["confidenceLevel"] = validation.Property{
		Type:        "number",
		Description: "Confidence interval coverage, strictly between 0 and 1",
		Minimum:     validation.FloatPtr(0),
		Maximum:     validation.FloatPtr(1),
	}
	return validation.JSONSchema{
		Type:                 "object",
		Properties:           props,
		Required:             []string{"scenario"},
		AdditionalProperties: true,
	}
}
