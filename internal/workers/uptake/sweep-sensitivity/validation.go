// internal/workers/uptake/sweep-sensitivity/validation.go
package sweepsensitivity

import (
	"plan-uptake-workers/internal/common/validation"
	"plan-uptake-workers/internal/workers/uptake/input"
)

func GetInputSchema() validation.JSONSchema {
	props, required := input.EvaluationSchemaParts()
	props["attribute"] = validation.Property{
		Type:        "string",
		Description: "Attribute to vary, e.g. costSelf",
	}
	props["from"] = validation.Property{Type: "number", Description: "First grid value"}
	props["to"] = validation.Property{Type: "number", Description: "Last grid value (inclusive)"}
	props["step"] = validation.Property{Type: "number", Description: "Grid increment, must be positive"}

	return validation.JSONSchema{
		Type:                 "object",
		Properties:           props,
		Required:             append(required, "attribute", "from", "to", "step"),
		AdditionalProperties: true,
	}
}
