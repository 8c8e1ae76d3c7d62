package uptake

// EvaluationResult is the outcome of one full model evaluation.
type EvaluationResult struct {
	Scenario     Scenario       `json:"scenario"`
	TableName    string         `json:"tableName"`
	TableVersion string         `json:"tableVersion"`
	Membership   Membership     `json:"membership"`
	Classes      [2]ClassChoice `json:"classes"`
	Uptake       float64        `json:"uptake"`
}

// ClassPlanProbabilities returns P(plan|class) in class order.
func (r *EvaluationResult) ClassPlanProbabilities() [2]float64 {
	return [2]float64{r.Classes[0].PlanProbability, r.Classes[1].PlanProbability}
}

// Evaluate computes class membership and the overall uptake probability.
func (e *Engine) Evaluate(s Scenario, p RespondentProfile, l AttributeLevels) (*EvaluationResult, error) {
	sc, err := e.table.Lookup(s)
	if err != nil {
		return nil, err
	}
	m := membershipFor(sc, p)
	choices := classChoicesFor(sc, l)
	return &EvaluationResult{
		Scenario:     s,
		TableName:    e.table.Name,
		TableVersion: e.table.Version,
		Membership:   m,
		Classes:      choices,
		Uptake:       blend(m, choices),
	}, nil
}
