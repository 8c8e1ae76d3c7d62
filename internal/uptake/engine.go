package uptake

import "math"

// Engine evaluates the model against one coefficient table. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	table *CoefficientTable
}

// NewEngine validates table and wraps it. A nil table selects BuiltinTable.
func NewEngine(table *CoefficientTable) (*Engine, error) {
	if table == nil {
		table = BuiltinTable()
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return &Engine{table: table}, nil
}

func (e *Engine) TableName() string    { return e.table.Name }
func (e *Engine) TableVersion() string { return e.table.Version }

// Coefficients returns the coefficient set of scenario s.
func (e *Engine) Coefficients(s Scenario) (ScenarioCoefficients, error) {
	return e.table.Lookup(s)
}

// logistic is 1/(1+exp(-x)) without overflowing exp for large |x|.
func logistic(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	z := math.Exp(x)
	return z / (1 + z)
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
