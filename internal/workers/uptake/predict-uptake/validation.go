// internal/workers/uptake/predict-uptake/validation.go
package predictuptake

import (
	"plan-uptake-workers/internal/common/validation"
	"plan-uptake-workers/internal/workers/uptake/input"
)

func GetInputSchema() validation.JSONSchema {
	props, required := input.EvaluationSchemaParts()
	props["saveRecord"] = validation.Property{
		Type:        "boolean",
		Description: "Append the evaluation to the saved-record store",
	}
	return validation.JSONSchema{
		Type:                 "object",
		Properties:           props,
		Required:             required,
		AdditionalProperties: true,
	}
}
