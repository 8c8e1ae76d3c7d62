// internal/common/validation/schema.go
package validation

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

type JSONSchema struct {
	Type                 string              `json:"type"`
	Properties           map[string]Property `json:"properties"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties bool                `json:"additionalProperties"`
}

// Property describes one job variable. An empty Type accepts any JSON type,
// which lets Enum mix numbers and strings.
type Property struct {
	Type        string        `json:"type,omitempty"`
	Description string        `json:"description,omitempty"`
	Default     interface{}   `json:"default,omitempty"`
	Minimum     *float64      `json:"minimum,omitempty"`
	Maximum     *float64      `json:"maximum,omitempty"`
	Enum        []interface{} `json:"enum,omitempty"`
	Pattern     *string       `json:"pattern,omitempty"`
	MinLength   *int          `json:"minLength,omitempty"`
	MaxLength   *int          `json:"maxLength,omitempty"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// errorCodes maps gojsonschema result types onto the codes reported to workflows.
var errorCodes = map[string]string{
	"required":                        "REQUIRED_FIELD_MISSING",
	"invalid_type":                    "INVALID_TYPE",
	"number_gte":                      "MINIMUM_VIOLATION",
	"number_gt":                       "MINIMUM_VIOLATION",
	"number_lte":                      "MAXIMUM_VIOLATION",
	"number_lt":                       "MAXIMUM_VIOLATION",
	"enum":                            "INVALID_ENUM_VALUE",
	"string_gte":                      "MIN_LENGTH_VIOLATION",
	"string_lte":                      "MAX_LENGTH_VIOLATION",
	"pattern":                         "PATTERN_MISMATCH",
	"additional_property_not_allowed": "EXTRA_FIELD",
}

// ValidateInput checks job variables against schema. Errors are sorted by
// field so messages are stable across runs.
func ValidateInput(input map[string]interface{}, schema JSONSchema) *ValidationResult {
	doc, err := json.Marshal(schema)
	if err != nil {
		return invalidSchema(err)
	}
	if input == nil {
		input = map[string]interface{}{}
	}

	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(doc), gojsonschema.NewGoLoader(input))
	if err != nil {
		return invalidSchema(err)
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		errs = append(errs, convert(re))
	}
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })

	return &ValidationResult{
		Valid:  result.Valid(),
		Errors: errs,
	}
}

func convert(re gojsonschema.ResultError) ValidationError {
	field := re.Field()
	if re.Type() == "required" {
		if p, ok := re.Details()["property"].(string); ok {
			field = p
		}
	}
	if re.Type() == "additional_property_not_allowed" {
		if p, ok := re.Details()["property"].(string); ok {
			field = p
		}
	}

	code, ok := errorCodes[re.Type()]
	if !ok {
		code = strings.ToUpper(re.Type())
	}
	return ValidationError{
		Field:   field,
		Message: re.Description(),
		Code:    code,
	}
}

func invalidSchema(err error) *ValidationResult {
	return &ValidationResult{
		Valid: false,
		Errors: []ValidationError{{
			Field:   "(schema)",
			Message: err.Error(),
			Code:    "INVALID_SCHEMA",
		}},
	}
}

// GetErrorMessages returns one "field: message" line per error.
func (r *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		messages[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return messages
}

// HasField reports whether any error concerns field.
func (r *ValidationResult) HasField(field string) bool {
	for _, e := range r.Errors {
		if e.Field == field {
			return true
		}
	}
	return false
}

func FloatPtr(v float64) *float64 { return &v }

func IntPtr(v int) *int { return &v }
