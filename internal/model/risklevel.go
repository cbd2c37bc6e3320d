package model

// RiskLevel is the four-step classification of a risk score.
//
// Design decision: We use string constants rather than iota-based integers
// because the level is serialized verbatim into JSON reports and the
// reports table, and readable values there beat an extra mapping layer.
type RiskLevel string

// Risk levels in ascending order of severity.
const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelMedium   RiskLevel = "medium"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"
)

// Risk level score boundaries. Each boundary is closed on the lower edge:
// a score of exactly 30 is medium, 60 is high, 80 is critical.
const (
	mediumThreshold   = 30
	highThreshold     = 60
	criticalThreshold = 80
)

// RiskLevelForScore classifies a risk score into a level.
// This is the single source of truth for the score-to-level step function;
// every CheckResult the evaluator emits must satisfy
// result.RiskLevel == RiskLevelForScore(result.RiskScore).
func RiskLevelForScore(score int) RiskLevel {
	switch {
	case score >= criticalThreshold:
		return RiskLevelCritical
	case score >= highThreshold:
		return RiskLevelHigh
	case score >= mediumThreshold:
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}

// String returns the wire representation of the risk level.
func (l RiskLevel) String() string {
	return string(l)
}

// ClampScore clamps a risk score into the valid [0,100] range.
// The additive heuristics cannot exceed 100 with the documented constants,
// but the clamp keeps the invariant independent of future tuning.
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
