package uptake

// ClassChoice is the plan-versus-opt-out outcome within one latent class.
type ClassChoice struct {
	Label           string  `json:"label"`
	PlanUtility     float64 `json:"planUtility"`
	OptOutUtility   float64 `json:"optOutUtility"`
	PlanProbability float64 `json:"planProbability"`
}

// ChoiceProbability is the binary logit probability of the plan:
// 1 / (1 + exp(uOptOut - uPlan)).
func ChoiceProbability(uPlan, uOptOut float64) float64 {
	return logistic(uPlan - uOptOut)
}

// ClassChoiceProbabilities returns the per-class plan probabilities for the
// given attribute levels. Others attributes only count in scenarios that
// model them.
func (e *Engine) ClassChoiceProbabilities(s Scenario, l AttributeLevels) ([2]ClassChoice, error) {
	sc, err := e.table.Lookup(s)
	if err != nil {
		return [2]ClassChoice{}, err
	}
	return classChoicesFor(sc, l), nil
}

func classChoicesFor(sc ScenarioCoefficients, l AttributeLevels) [2]ClassChoice {
	var out [2]ClassChoice
	for i, c := range sc.Classes {
		u := c.PlanUtility(l, sc.IncludesOthers())
		out[i] = ClassChoice{
			Label:           c.Label,
			PlanUtility:     u,
			OptOutUtility:   c.OptOut,
			PlanProbability: ChoiceProbability(u, c.OptOut),
		}
	}
	return out
}

// ComputeUptake blends the per-class plan probabilities by class membership.
func (e *Engine) ComputeUptake(s Scenario, m Membership, l AttributeLevels) (float64, error) {
	choices, err := e.ClassChoiceProbabilities(s, l)
	if err != nil {
		return 0, err
	}
	return blend(m, choices), nil
}

// blend clamps only to absorb rounding; the weights already sum to one.
func blend(m Membership, c [2]ClassChoice) float64 {
	return clamp01(m.P1()*c[0].PlanProbability + m.P2()*c[1].PlanProbability)
}
