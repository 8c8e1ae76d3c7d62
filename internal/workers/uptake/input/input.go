// internal/workers/uptake/input/input.go

// Package input holds the job-variable schema and parsing shared by the
// uptake workers.
package input

import (
	"fmt"

	"plan-uptake-workers/internal/common/validation"
	"plan-uptake-workers/internal/uptake"
)

const (
	MinAge  = 18
	MaxAge  = 120
	MaxCost = 9999
)

var profileFields = []string{"age", "gender", "race", "income", "degree", "goodHealth"}

// ProfileFields lists the respondent variables in schema order.
func ProfileFields() []string {
	return append([]string(nil), profileFields...)
}

var selfAttributeFields = []string{"efficacySelf", "riskSelf", "costSelf"}

// ScenarioProperty carries no type. Numbers and numeric strings are both
// accepted and ParseScenario reports unknown values.
func ScenarioProperty() validation.Property {
	return validation.Property{Description: "Scenario identifier (1, 2 or 3)"}
}

func ProfileProperties() map[string]validation.Property {
	return map[string]validation.Property{
		"age": {
			Type:        "number",
			Description: "Respondent age in years",
			Minimum:     validation.FloatPtr(MinAge),
			Maximum:     validation.FloatPtr(MaxAge),
		},
		"gender": {
			Type:        "string",
			Description: "male or female",
		},
		"race": {
			Type:        "string",
			Description: "white, black or other",
		},
		"income": {
			Type:        "string",
			Description: "high or other",
		},
		"degree": {
			Description: "Has a college degree (boolean or yes/no)",
		},
		"goodHealth": {
			Description: "Self-reported good health (boolean or yes/no)",
		},
	}
}

func AttributeProperties() map[string]validation.Property {
	pct := func(desc string) validation.Property {
		return validation.Property{
			Type:        "number",
			Description: desc,
			Minimum:     validation.FloatPtr(0),
			Maximum:     validation.FloatPtr(100),
		}
	}
	cost := func(desc string) validation.Property {
		return validation.Property{
			Type:        "number",
			Description: desc,
			Minimum:     validation.FloatPtr(0),
			Maximum:     validation.FloatPtr(MaxCost),
		}
	}
	return map[string]validation.Property{
		"efficacySelf":   pct("Efficacy for self (percent)"),
		"riskSelf":       pct("Risk for self (percent)"),
		"costSelf":       cost("Cost to self"),
		"efficacyOthers": pct("Efficacy for others (percent)"),
		"riskOthers":     pct("Risk for others (percent)"),
		"costOthers":     cost("Cost to others"),
	}
}

// AttributeBounds returns the accepted range of an attribute level.
func AttributeBounds(a uptake.Attribute) (min, max float64) {
	if a.IsCost() {
		return 0, MaxCost
	}
	return 0, 100
}

// EvaluationSchemaParts returns the properties and required fields of a
// full evaluation request. Callers add their own fields before validating.
func EvaluationSchemaParts() (map[string]validation.Property, []string) {
	props := map[string]validation.Property{"scenario": ScenarioProperty()}
	for k, v := range ProfileProperties() {
		props[k] = v
	}
	for k, v := range AttributeProperties() {
		props[k] = v
	}
	required := append([]string{"scenario"}, profileFields...)
	required = append(required, selfAttributeFields...)
	return props, required
}

// ParseScenario reads the "scenario" variable.
func ParseScenario(vars map[string]interface{}) (uptake.Scenario, error) {
	return uptake.ScenarioFromValue(vars["scenario"])
}

// ParseProfile reads a respondent profile from validated job variables.
func ParseProfile(vars map[string]interface{}) (uptake.RespondentProfile, error) {
	var p uptake.RespondentProfile

	age, err := number(vars, "age")
	if err != nil {
		return p, err
	}
	p.Age = age

	if p.Gender, err = uptake.ParseGender(str(vars, "gender")); err != nil {
		return p, err
	}
	if p.Race, err = uptake.ParseRace(str(vars, "race")); err != nil {
		return p, err
	}
	if p.Income, err = uptake.ParseIncomeLevel(str(vars, "income")); err != nil {
		return p, err
	}
	if p.HasDegree, err = yesNo(vars, "degree"); err != nil {
		return p, err
	}
	if p.GoodHealth, err = yesNo(vars, "goodHealth"); err != nil {
		return p, err
	}
	return p, nil
}

// ParseAttributes reads attribute levels. Others attributes default to zero.
func ParseAttributes(vars map[string]interface{}) (uptake.AttributeLevels, error) {
	var l uptake.AttributeLevels
	for _, a := range uptake.AllAttributes() {
		raw, ok := vars[string(a)]
		if !ok || raw == nil {
			if a.IsOthers() {
				continue
			}
			return l, &uptake.ValidationError{Field: string(a), Reason: "is required"}
		}
		v, err := toFloat(string(a), raw)
		if err != nil {
			return l, err
		}
		l = l.With(a, v)
	}
	return l, nil
}

// HasAnyProfileField reports whether any respondent variable is present.
func HasAnyProfileField(vars map[string]interface{}) bool {
	for _, f := range profileFields {
		if _, ok := vars[f]; ok {
			return true
		}
	}
	return false
}

func number(vars map[string]interface{}, field string) (float64, error) {
	raw, ok := vars[field]
	if !ok || raw == nil {
		return 0, &uptake.ValidationError{Field: field, Reason: "is required"}
	}
	return toFloat(field, raw)
}

func toFloat(field string, raw interface{}) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	}
	return 0, &uptake.ValidationError{Field: field, Reason: fmt.Sprintf("expected a number, got %T", raw)}
}

func str(vars map[string]interface{}, field string) string {
	s, _ := vars[field].(string)
	return s
}

func yesNo(vars map[string]interface{}, field string) (bool, error) {
	switch v := vars[field].(type) {
	case bool:
		return v, nil
	case string:
		return uptake.ParseYesNo(field, v)
	case nil:
		return false, &uptake.ValidationError{Field: field, Reason: "is required"}
	default:
		return false, &uptake.ValidationError{Field: field, Reason: fmt.Sprintf("expected yes or no, got %T", v)}
	}
}
