package recommend

import (
	"fmt"
	"strings"
)

// Urgency levels
const (
	UrgencyHigh   = "HIGH"
	UrgencyMedium = "MEDIUM"
	UrgencyLow    = "LOW"
)

const (
	urgencyBase             = 1.0
	urgencyAgeCriticalYears = 5.0
	urgencyAgeHighYears     = 4.0
	urgencyAgeCriticalBump  = 1.5
	urgencyAgeHighBump      = 0.8
	urgencyPerfThreshold    = 0.70
	urgencyPerfBump         = 0.7
	urgencySensitivityFloor = 2.0
	urgencySensitivityBump  = 0.3
	urgencyHighThreshold    = 2.0
	urgencyMediumThreshold  = 1.3
)

// urgencyScore rates how pressing replacement is, combining device age,
// measured performance degradation, and the persona's exposure to lag.
func (e *Engine) urgencyScore(p deviceProfile) (score float64, level, rationale string) {
	score = urgencyBase
	var factors []string

	switch {
	case p.ageYears >= urgencyAgeCriticalYears:
		score += urgencyAgeCriticalBump
		factors = append(factors, fmt.Sprintf("device age (%.1fy) exceeds critical threshold (%.0fy)", p.ageYears, urgencyAgeCriticalYears))
	case p.ageYears >= urgencyAgeHighYears:
		score += urgencyAgeHighBump
		factors = append(factors, fmt.Sprintf("device age (%.1fy) above recommended (%.0fy)", p.ageYears, urgencyAgeHighYears))
	}

	lossPct, _ := e.coster.productivityLoss(p, p.ageYears)
	if performance := 1 - lossPct; performance < urgencyPerfThreshold {
		score += urgencyPerfBump
		factors = append(factors, fmt.Sprintf("performance degraded to %.0f%%", performance*100))
	}

	if p.persona.LagSensitivity >= urgencySensitivityFloor {
		score += urgencySensitivityBump
		factors = append(factors, fmt.Sprintf("high-impact role (%s)", p.persona.ID))
	}

	switch {
	case score >= urgencyHighThreshold:
		level = UrgencyHigh
	case score >= urgencyMediumThreshold:
		level = UrgencyMedium
	default:
		level = UrgencyLow
	}

	rationale = "device within normal parameters"
	if len(factors) > 0 {
		rationale = strings.Join(factors, " | ")
	}
	return score, level, rationale
}
