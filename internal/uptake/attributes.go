package uptake

import "fmt"

// Attribute names one plan attribute.
type Attribute string

const (
	EfficacySelf   Attribute = "efficacySelf"
	RiskSelf       Attribute = "riskSelf"
	CostSelf       Attribute = "costSelf"
	EfficacyOthers Attribute = "efficacyOthers"
	RiskOthers     Attribute = "riskOthers"
	CostOthers     Attribute = "costOthers"
)

var (
	selfAttributes   = []Attribute{EfficacySelf, RiskSelf, CostSelf}
	othersAttributes = []Attribute{EfficacyOthers, RiskOthers, CostOthers}
)

// AllAttributes lists the six attributes in table order.
func AllAttributes() []Attribute {
	return append(append([]Attribute{}, selfAttributes...), othersAttributes...)
}

func ParseAttribute(v string) (Attribute, error) {
	for _, a := range AllAttributes() {
		if string(a) == v {
			return a, nil
		}
	}
	return "", &ValidationError{Field: "attribute", Reason: fmt.Sprintf("unknown attribute %q", v)}
}

// IsOthers reports whether the attribute describes the effect on others.
func (a Attribute) IsOthers() bool {
	return a == EfficacyOthers || a == RiskOthers || a == CostOthers
}

func (a Attribute) IsCost() bool {
	return a == CostSelf || a == CostOthers
}

// AttributeLevels are the plan attribute values of one evaluation. Efficacy
// and risk are percentages, cost is a currency amount. The others fields are
// ignored outside scenarios that model effects on others.
type AttributeLevels struct {
	EfficacySelf   float64 `json:"efficacySelf"`
	RiskSelf       float64 `json:"riskSelf"`
	CostSelf       float64 `json:"costSelf"`
	EfficacyOthers float64 `json:"efficacyOthers"`
	RiskOthers     float64 `json:"riskOthers"`
	CostOthers     float64 `json:"costOthers"`
}

func (l AttributeLevels) Get(a Attribute) float64 {
	switch a {
	case EfficacySelf:
		return l.EfficacySelf
	case RiskSelf:
		return l.RiskSelf
	case CostSelf:
		return l.CostSelf
	case EfficacyOthers:
		return l.EfficacyOthers
	case RiskOthers:
		return l.RiskOthers
	case CostOthers:
		return l.CostOthers
	}
	return 0
}

// With returns a copy of l with attribute a set to v.
func (l AttributeLevels) With(a Attribute, v float64) AttributeLevels {
	switch a {
	case EfficacySelf:
		l.EfficacySelf = v
	case RiskSelf:
		l.RiskSelf = v
	case CostSelf:
		l.CostSelf = v
	case EfficacyOthers:
		l.EfficacyOthers = v
	case RiskOthers:
		l.RiskOthers = v
	case CostOthers:
		l.CostOthers = v
	}
	return l
}

// AttributeWeights holds one coefficient (or standard error) per attribute.
type AttributeWeights struct {
	EfficacySelf   float64 `mapstructure:"efficacy_self" yaml:"efficacy_self" json:"efficacySelf"`
	RiskSelf       float64 `mapstructure:"risk_self" yaml:"risk_self" json:"riskSelf"`
	CostSelf       float64 `mapstructure:"cost_self" yaml:"cost_self" json:"costSelf"`
	EfficacyOthers float64 `mapstructure:"efficacy_others" yaml:"efficacy_others" json:"efficacyOthers"`
	RiskOthers     float64 `mapstructure:"risk_others" yaml:"risk_others" json:"riskOthers"`
	CostOthers     float64 `mapstructure:"cost_others" yaml:"cost_others" json:"costOthers"`
}

func (w AttributeWeights) Get(a Attribute) float64 {
	return AttributeLevels(w).Get(a)
}

// Dot sums weight times level over the self attributes and, when
// includeOthers is set, the others attributes.
func (w AttributeWeights) Dot(l AttributeLevels, includeOthers bool) float64 {
	sum := 0.0
	for _, a := range selfAttributes {
		sum += w.Get(a) * l.Get(a)
	}
	if includeOthers {
		for _, a := range othersAttributes {
			sum += w.Get(a) * l.Get(a)
		}
	}
	return sum
}
