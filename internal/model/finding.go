package model

import "time"

// FindingType categorizes a rendered finding block in the PDF report.
type FindingType string

// Finding block categories. Each maps to a fixed accent color in the
// rendered report.
const (
	FindingInfo    FindingType = "info"
	FindingWarning FindingType = "warning"
	FindingDanger  FindingType = "danger"
	FindingSuccess FindingType = "success"
)

// Finding is a single rendered observation in the PDF report.
//
// This is a rendering-only projection and deliberately not the same as
// CheckResult.Findings: the PDF path renders a fixed list keyed by
// (type, level), while CheckResult.Findings carries what the evaluator
// actually observed for that run.
type Finding struct {
	// Type selects the accent color and marker for the block.
	Type FindingType `json:"type"`

	// Title is the short bold heading of the block.
	Title string `json:"title"`

	// Description is the explanatory body text.
	Description string `json:"description"`
}

// ReportData is the input record for PDF rendering.
// It is assembled by the caller from a CheckResult plus the static
// findings/metadata lookups, or reconstructed from a persisted report.
type ReportData struct {
	// ModuleType is the check category the report covers.
	ModuleType CheckType `json:"moduleType"` //nolint:tagliatelle // camelCase matches stored report JSON

	// TargetValue is the checked input string.
	TargetValue string `json:"targetValue"` //nolint:tagliatelle // camelCase matches stored report JSON

	// RiskLevel and RiskScore must satisfy
	// RiskLevel == RiskLevelForScore(RiskScore).
	RiskLevel RiskLevel `json:"riskLevel"` //nolint:tagliatelle // camelCase matches stored report JSON
	RiskScore int       `json:"riskScore"` //nolint:tagliatelle // camelCase matches stored report JSON

	// Timestamp is when the underlying check ran.
	Timestamp time.Time `json:"timestamp"`

	// UserID identifies the requesting user for the report footer.
	UserID string `json:"userId"` //nolint:tagliatelle // camelCase matches stored report JSON

	// Findings are the blocks to render, in order.
	Findings []Finding `json:"findings"`

	// Sources names the data providers listed at the end of the report.
	Sources []string `json:"sources"`

	// Metadata holds optional key/value rows for the technical details
	// table. A nil or empty map skips the section.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// FindingsFromResult converts the evaluator's own findings list into
// renderable blocks. Callers that want the PDF to show exactly what the
// evaluator observed (instead of the static per-type projection) build
// their ReportData with this.
func FindingsFromResult(result *CheckResult) []Finding {
	findings := make([]Finding, 0, len(result.Findings))
	for _, text := range result.Findings {
		findings = append(findings, Finding{
			Type:        findingTypeForLevel(result.RiskLevel),
			Title:       text,
			Description: "Observed by the " + result.Type.Label() + " heuristic.",
		})
	}
	return findings
}

// findingTypeForLevel maps a risk level to the block category used when
// rendering evaluator findings directly.
func findingTypeForLevel(level RiskLevel) FindingType {
	switch level {
	case RiskLevelCritical, RiskLevelHigh:
		return FindingDanger
	case RiskLevelMedium:
		return FindingWarning
	default:
		return FindingInfo
	}
}
