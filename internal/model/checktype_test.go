package model

import "testing"

// TestParseCheckType tests conversion of raw strings to check types.
func TestParseCheckType(t *testing.T) {
	t.Parallel()

	for _, typ := range AllCheckTypes {
		got, ok := ParseCheckType(typ.String())
		if !ok {
			t.Errorf("ParseCheckType(%q) not recognized", typ)
		}
		if got != typ {
			t.Errorf("ParseCheckType(%q) = %q, expected %q", typ, got, typ)
		}
	}

	for _, invalid := range []string{"", "ipv4", "btc", "IP", "wallet "} {
		if _, ok := ParseCheckType(invalid); ok {
			t.Errorf("ParseCheckType(%q) unexpectedly recognized", invalid)
		}
	}
}

// TestCheckTypeLabel confirms every recognized type has a distinct label.
func TestCheckTypeLabel(t *testing.T) {
	t.Parallel()

	seen := make(map[string]CheckType, len(AllCheckTypes))
	for _, typ := range AllCheckTypes {
		label := typ.Label()
		if label == "" || label == typ.String() {
			t.Errorf("CheckType(%q).Label() = %q, expected a descriptive label", typ, label)
		}
		if prev, dup := seen[label]; dup {
			t.Errorf("label %q shared by %q and %q", label, prev, typ)
		}
		seen[label] = typ
	}

	// Unrecognized types fall back to their raw string.
	if got := CheckType("cve").Label(); got != "cve" {
		t.Errorf("unknown type label = %q, expected raw string fallback", got)
	}
}

// TestFindingsFromResult verifies the evaluator-findings projection keeps
// order and picks block categories from the risk level.
func TestFindingsFromResult(t *testing.T) {
	t.Parallel()

	result := &CheckResult{
		Type:      CheckTypeDomain,
		Target:    "example.com",
		RiskScore: 65,
		RiskLevel: RiskLevelHigh,
		Findings:  []string{"first", "second"},
	}

	findings := FindingsFromResult(result)
	if len(findings) != 2 {
		t.Fatalf("got %d findings, expected 2", len(findings))
	}
	if findings[0].Title != "first" || findings[1].Title != "second" {
		t.Errorf("finding order not preserved: %+v", findings)
	}
	for _, f := range findings {
		if f.Type != FindingDanger {
			t.Errorf("finding type = %q, expected %q for high risk", f.Type, FindingDanger)
		}
	}
}
