package uptake

import "fmt"

// MembershipCoefficients are the binary logit weights for membership in
// class 1. Age enters as a continuous covariate; the rest are indicators.
type MembershipCoefficients struct {
	Intercept  float64 `mapstructure:"intercept" yaml:"intercept"`
	Female     float64 `mapstructure:"female" yaml:"female"`
	Age        float64 `mapstructure:"age" yaml:"age"`
	White      float64 `mapstructure:"white" yaml:"white"`
	Black      float64 `mapstructure:"black" yaml:"black"`
	HighIncome float64 `mapstructure:"high_income" yaml:"high_income"`
	Degree     float64 `mapstructure:"degree" yaml:"degree"`
	GoodHealth float64 `mapstructure:"good_health" yaml:"good_health"`
}

// LinearPredictor returns the log-odds of class 1 for the profile.
func (c MembershipCoefficients) LinearPredictor(p RespondentProfile) float64 {
	return c.Intercept +
		c.Female*p.female() +
		c.Age*p.Age +
		c.White*p.white() +
		c.Black*p.black() +
		c.HighIncome*p.highIncome() +
		c.Degree*indicator(p.HasDegree) +
		c.GoodHealth*indicator(p.GoodHealth)
}

// ClassCoefficients describe the plan and opt-out utilities of one latent class.
// A zero StdErrors entry means no standard error was published.
type ClassCoefficients struct {
	Label     string           `mapstructure:"label" yaml:"label"`
	ASC       float64          `mapstructure:"asc" yaml:"asc"`
	OptOut    float64          `mapstructure:"opt_out" yaml:"opt_out"`
	Weights   AttributeWeights `mapstructure:"weights" yaml:"weights"`
	StdErrors AttributeWeights `mapstructure:"std_errors" yaml:"std_errors,omitempty"`
}

// PlanUtility is ASC plus the weighted attribute levels.
func (c ClassCoefficients) PlanUtility(l AttributeLevels, includeOthers bool) float64 {
	return c.ASC + c.Weights.Dot(l, includeOthers)
}

// ScenarioCoefficients is the full coefficient set of one scenario.
type ScenarioCoefficients struct {
	Scenario   Scenario
	Membership MembershipCoefficients
	Classes    [2]ClassCoefficients
}

func (s ScenarioCoefficients) IncludesOthers() bool {
	return s.Scenario.IncludesOthers()
}

// Labels returns the two class labels in class order.
func (s ScenarioCoefficients) Labels() [2]string {
	return [2]string{s.Classes[0].Label, s.Classes[1].Label}
}

// CoefficientTable is a named, versioned set of scenario coefficients.
// Tables are immutable once handed to an Engine.
type CoefficientTable struct {
	Name      string
	Version   string
	Scenarios map[Scenario]ScenarioCoefficients
}

// Lookup returns the coefficients for s.
func (t *CoefficientTable) Lookup(s Scenario) (ScenarioCoefficients, error) {
	if !s.Valid() {
		return ScenarioCoefficients{}, &ConfigurationError{Scenario: s, Reason: "unknown scenario"}
	}
	sc, ok := t.Scenarios[s]
	if !ok {
		return ScenarioCoefficients{}, &ConfigurationError{
			Scenario: s,
			Reason:   fmt.Sprintf("coefficient table %s has no entry for the scenario", t.Name),
		}
	}
	return sc, nil
}

// Validate checks that every scenario is present with two labelled classes.
func (t *CoefficientTable) Validate() error {
	if t.Name == "" {
		return &ConfigurationError{Reason: "coefficient table name is required"}
	}
	for _, s := range Scenarios() {
		sc, err := t.Lookup(s)
		if err != nil {
			return err
		}
		if sc.Scenario != s {
			return &ConfigurationError{Scenario: s, Reason: fmt.Sprintf("entry is keyed as scenario %d", int(sc.Scenario))}
		}
		for i, c := range sc.Classes {
			if c.Label == "" {
				return &ConfigurationError{Scenario: s, Reason: fmt.Sprintf("class %d has no label", i+1)}
			}
		}
	}
	return nil
}

const (
	BuiltinTableName    = "table3-exact"
	BuiltinTableVersion = "1"
)

// BuiltinTable returns the published coefficient table. No standard errors
// were published alongside it, so StdErrors are left at zero.
func BuiltinTable() *CoefficientTable {
	return &CoefficientTable{
		Name:    BuiltinTableName,
		Version: BuiltinTableVersion,
		Scenarios: map[Scenario]ScenarioCoefficients{
			Scenario1: {
				Scenario: Scenario1,
				Membership: MembershipCoefficients{
					Intercept: 0.53, Female: -0.29, Age: 0.54, White: -0.26,
					Black: -0.53, HighIncome: 0.45, Degree: 0.11, GoodHealth: -0.03,
				},
				Classes: [2]ClassCoefficients{
					{
						Label: "Risk-Averse", ASC: -2.28, OptOut: -27.50,
						Weights: AttributeWeights{EfficacySelf: 26.06, RiskSelf: -28.35, CostSelf: -0.065},
					},
					{
						Label: "Cost-Sensitive", ASC: -0.25, OptOut: 2.49,
						Weights: AttributeWeights{EfficacySelf: 6.88, RiskSelf: -5.21, CostSelf: -0.396},
					},
				},
			},
			Scenario2: {
				Scenario: Scenario2,
				Membership: MembershipCoefficients{
					Intercept: 0.76, Female: -0.40, Age: 0.68, White: -0.53,
					Black: -0.73, HighIncome: -0.05, Degree: 0.02, GoodHealth: 0.06,
				},
				Classes: [2]ClassCoefficients{
					{
						Label: "Equity-Focused", ASC: -0.82, OptOut: -18.15,
						Weights: AttributeWeights{EfficacySelf: 21.03, RiskSelf: -14.61, CostSelf: -0.094},
					},
					{
						Label: "Cost-Sensitive", ASC: 0.18, OptOut: 4.62,
						Weights: AttributeWeights{EfficacySelf: 7.15, RiskSelf: 0.15, CostSelf: -0.363},
					},
				},
			},
			Scenario3: {
				Scenario: Scenario3,
				Membership: MembershipCoefficients{
					Intercept: 1.21, Female: -0.44, Age: 0.66, White: -0.22,
					Black: -0.45, HighIncome: -0.30, Degree: 0.08, GoodHealth: -0.003,
				},
				Classes: [2]ClassCoefficients{
					{
						Label: "Equity-Focused", ASC: -0.81, OptOut: -40.78,
						Weights: AttributeWeights{
							EfficacySelf: 33.29, RiskSelf: -17.52, CostSelf: -0.039,
							EfficacyOthers: 12.89, RiskOthers: -22.16, CostOthers: -0.90,
						},
					},
					{
						Label: "Self-Focused", ASC: -0.82, OptOut: 4.16,
						Weights: AttributeWeights{
							EfficacySelf: 7.10, RiskSelf: -6.69, CostSelf: -0.353,
							EfficacyOthers: 1.44, RiskOthers: 0.28, CostOthers: -0.23,
						},
					},
				},
			},
		},
	}
}
