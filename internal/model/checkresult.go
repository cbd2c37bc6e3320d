package model

import "time"

// CheckResult is the outcome of a single check.
// It is created once inside the check service, never mutated afterwards,
// and persisted verbatim as JSON by the storage layer.
//
// Design decision: Details is an open map rather than a per-type struct
// because the six heuristics produce disjoint field sets and the consumers
// (API, bot text, metadata table) treat it as opaque key/value data. A
// tagged union would add six types with no shared behavior.
type CheckResult struct {
	// Type identifies which heuristic produced the result.
	Type CheckType `json:"type"`

	// Target is the validated input string, unmodified.
	Target string `json:"target"`

	// RiskScore is the computed risk score in [0,100].
	RiskScore int `json:"riskScore"` //nolint:tagliatelle // camelCase matches stored report JSON

	// RiskLevel is derived from RiskScore via RiskLevelForScore.
	RiskLevel RiskLevel `json:"riskLevel"` //nolint:tagliatelle // camelCase matches stored report JSON

	// Summary is a one-line human-readable restatement of target and level.
	Summary string `json:"summary"`

	// Details holds type-specific structured fields.
	// Keys vary by Type; there is no fixed schema across types.
	Details map[string]any `json:"details"`

	// Findings lists human-readable observations in ascending severity
	// order. Always non-empty: a "nothing suspicious" fallback is appended
	// when no heuristic condition triggers.
	Findings []string `json:"findings"`

	// Sources names the data providers consulted. Fixed per type except
	// for the IP path, where the geolocation provider is real.
	Sources []string `json:"sources"`

	// Timestamp is the creation instant of the result.
	Timestamp time.Time `json:"timestamp"`
}
