package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() JSONSchema {
	return JSONSchema{
		Type:     "object",
		Required: []string{"age", "gender"},
		Properties: map[string]Property{
			"age": {
				Type:    "number",
				Minimum: FloatPtr(18),
				Maximum: FloatPtr(120),
			},
			"gender": {
				Type: "string",
				Enum: []interface{}{"male", "female"},
			},
			"scenario": {
				Enum: []interface{}{1, 2, 3, "1", "2", "3"},
			},
			"note": {
				Type:      "string",
				MaxLength: IntPtr(5),
			},
		},
		AdditionalProperties: false,
	}
}

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name  string
		input map[string]interface{}
		field string
		code  string
	}{
		{
			name:  "missing required",
			input: map[string]interface{}{"age": 30.0},
			field: "gender",
			code:  "REQUIRED_FIELD_MISSING",
		},
		{
			name:  "below minimum",
			input: map[string]interface{}{"age": 17.0, "gender": "male"},
			field: "age",
			code:  "MINIMUM_VIOLATION",
		},
		{
			name:  "above maximum",
			input: map[string]interface{}{"age": 121.0, "gender": "male"},
			field: "age",
			code:  "MAXIMUM_VIOLATION",
		},
		{
			name:  "wrong type",
			input: map[string]interface{}{"age": "forty", "gender": "male"},
			field: "age",
			code:  "INVALID_TYPE",
		},
		{
			name:  "bad enum",
			input: map[string]interface{}{"age": 40.0, "gender": "other"},
			field: "gender",
			code:  "INVALID_ENUM_VALUE",
		},
		{
			name:  "scenario out of enum",
			input: map[string]interface{}{"age": 40.0, "gender": "male", "scenario": 4.0},
			field: "scenario",
			code:  "INVALID_ENUM_VALUE",
		},
		{
			name:  "too long",
			input: map[string]interface{}{"age": 40.0, "gender": "male", "note": "far too long"},
			field: "note",
			code:  "MAX_LENGTH_VIOLATION",
		},
		{
			name:  "extra field",
			input: map[string]interface{}{"age": 40.0, "gender": "male", "colour": "red"},
			field: "colour",
			code:  "EXTRA_FIELD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateInput(tt.input, testSchema())
			require.False(t, result.Valid)
			require.NotEmpty(t, result.Errors)
			assert.Equal(t, tt.field, result.Errors[0].Field)
			assert.Equal(t, tt.code, result.Errors[0].Code)
			assert.True(t, result.HasField(tt.field))
		})
	}
}

func TestValidateInput_Valid(t *testing.T) {
	for _, scenario := range []interface{}{1.0, "3"} {
		result := ValidateInput(map[string]interface{}{
			"age":      18.0,
			"gender":   "female",
			"scenario": scenario,
		}, testSchema())
		assert.True(t, result.Valid, "%v", result.GetErrorMessages())
		assert.Empty(t, result.Errors)
	}
}

func TestValidateInput_AdditionalPropertiesAllowed(t *testing.T) {
	schema := testSchema()
	schema.AdditionalProperties = true

	result := ValidateInput(map[string]interface{}{"age": 50.0, "gender": "male", "processVar": true}, schema)
	assert.True(t, result.Valid)
}

func TestGetErrorMessages(t *testing.T) {
	result := ValidateInput(map[string]interface{}{}, testSchema())
	require.False(t, result.Valid)

	messages := result.GetErrorMessages()
	require.Len(t, messages, 2)
	assert.Contains(t, messages[0], "age:")
	assert.Contains(t, messages[1], "gender:")
}
