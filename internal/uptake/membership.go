package uptake

// Membership is the probability of belonging to each latent class.
// Probabilities[1] is defined as 1 - Probabilities[0].
type Membership struct {
	Labels        [2]string  `json:"labels"`
	Probabilities [2]float64 `json:"probabilities"`
	LogOdds       float64    `json:"logOdds"`
}

func (m Membership) P1() float64 { return m.Probabilities[0] }
func (m Membership) P2() float64 { return m.Probabilities[1] }

// NewMembership builds a Membership from an explicit class 1 probability.
func NewMembership(labels [2]string, p1 float64) Membership {
	p1 = clamp01(p1)
	return Membership{Labels: labels, Probabilities: [2]float64{p1, 1 - p1}}
}

// ComputeMembership assigns the respondent to the two latent classes of
// scenario s with a binary logit on the demographic covariates.
func (e *Engine) ComputeMembership(s Scenario, p RespondentProfile) (Membership, error) {
	sc, err := e.table.Lookup(s)
	if err != nil {
		return Membership{}, err
	}
	return membershipFor(sc, p), nil
}

func membershipFor(sc ScenarioCoefficients, p RespondentProfile) Membership {
	xb := sc.Membership.LinearPredictor(p)
	p1 := logistic(xb)
	return Membership{
		Labels:        sc.Labels(),
		Probabilities: [2]float64{p1, 1 - p1},
		LogOdds:       xb,
	}
}
