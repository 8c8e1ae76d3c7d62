package uptake

import (
	"fmt"
	"strings"
)

// FormatPercent renders a fraction as a percentage with two decimals.
func FormatPercent(fraction float64) string {
	return fmt.Sprintf("%.2f%%", fraction*100)
}

// FormatMembership renders one "<label>: <pct>" line per class.
func FormatMembership(m Membership) string {
	lines := make([]string, 0, len(m.Labels))
	for i, label := range m.Labels {
		lines = append(lines, fmt.Sprintf("%s: %s", label, FormatPercent(m.Probabilities[i])))
	}
	return strings.Join(lines, "\n")
}

func FormatUptake(uptake float64) string {
	return "Probability of Plan Uptake (vs. Opt-Out): " + FormatPercent(uptake)
}
