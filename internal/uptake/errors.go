package uptake

import "fmt"

// ConfigurationError reports an unknown scenario or an unusable coefficient
// table. It is never retried.
type ConfigurationError struct {
	Scenario Scenario
	Reason   string
}

func (e *ConfigurationError) Error() string {
	if e.Scenario != 0 {
		return fmt.Sprintf("configuration error (scenario %d): %s", int(e.Scenario), e.Reason)
	}
	return "configuration error: " + e.Reason
}

// ErrorCode maps the error onto the shared job error codes.
func (e *ConfigurationError) ErrorCode() string { return "CONFIGURATION_ERROR" }

// ValidationError reports a caller-supplied value the model cannot accept.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Reason
	}
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) ErrorCode() string { return "VALIDATION_FAILED" }
