// internal/workers/uptake/export-records/validation.go
package exportrecords

import "plan-uptake-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"format": {
				Type:        "string",
				Description: "Report format",
				Enum:        []interface{}{"pdf", "xlsx"},
			},
			"limit": {
				Type:        "integer",
				Description: "Export only the most recent records",
				Minimum:     validation.FloatPtr(0),
			},
		},
		Required:             []string{"format"},
		AdditionalProperties: true,
	}
}
