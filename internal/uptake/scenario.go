// Package uptake implements the latent-class plan uptake model: class
// membership from respondent covariates, per-class plan choice from attribute
// levels, willingness-to-pay and sensitivity sweeps.
package uptake

import (
	"fmt"
	"strconv"
	"strings"
)

// Scenario selects a coefficient set and the attributes that enter utility.
type Scenario int

const (
	Scenario1 Scenario = iota + 1
	Scenario2
	Scenario3
)

// Scenarios lists every supported scenario in ascending order.
func Scenarios() []Scenario {
	return []Scenario{Scenario1, Scenario2, Scenario3}
}

func (s Scenario) Valid() bool {
	return s >= Scenario1 && s <= Scenario3
}

// IncludesOthers reports whether the others attributes enter utility.
// Only scenario 3 models them.
func (s Scenario) IncludesOthers() bool {
	return s == Scenario3
}

func (s Scenario) String() string {
	return strconv.Itoa(int(s))
}

// ParseScenario accepts "1", "2" or "3".
func ParseScenario(raw string) (Scenario, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || !Scenario(n).Valid() {
		return 0, &ConfigurationError{Reason: fmt.Sprintf("unknown scenario %q", raw)}
	}
	return Scenario(n), nil
}

// ScenarioFromValue converts a decoded JSON value (number or string) into a
// Scenario. Non-integral numbers are rejected.
func ScenarioFromValue(v interface{}) (Scenario, error) {
	switch val := v.(type) {
	case Scenario:
		if !val.Valid() {
			return 0, &ConfigurationError{Reason: fmt.Sprintf("unknown scenario %d", int(val))}
		}
		return val, nil
	case int:
		return ScenarioFromValue(Scenario(val))
	case int64:
		return ScenarioFromValue(Scenario(val))
	case float64:
		if val != float64(int(val)) {
			return 0, &ConfigurationError{Reason: fmt.Sprintf("unknown scenario %v", val)}
		}
		return ScenarioFromValue(Scenario(int(val)))
	case string:
		return ParseScenario(val)
	case nil:
		return 0, &ConfigurationError{Reason: "scenario is required"}
	default:
		return 0, &ConfigurationError{Reason: fmt.Sprintf("unsupported scenario type %T", v)}
	}
}
