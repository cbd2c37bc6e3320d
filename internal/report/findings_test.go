package report

import (
	"testing"
	"time"

	"github.com/darkshare/darkshare/internal/model"
)

// TestGenerateFindings verifies the static per-type projection: four
// blocks per known type, with risk-sensitive blocks flipping tone by
// level.
func TestGenerateFindings(t *testing.T) {
	t.Parallel()

	t.Run("four blocks for every known type", func(t *testing.T) {
		t.Parallel()

		for _, typ := range model.AllCheckTypes {
			for _, level := range []model.RiskLevel{
				model.RiskLevelLow, model.RiskLevelMedium,
				model.RiskLevelHigh, model.RiskLevelCritical,
			} {
				findings := GenerateFindings(typ, level)
				if len(findings) != 4 {
					t.Errorf("GenerateFindings(%q, %q) returned %d blocks, expected 4",
						typ, level, len(findings))
				}
				for _, f := range findings {
					if f.Title == "" || f.Description == "" {
						t.Errorf("GenerateFindings(%q, %q) returned empty block %+v", typ, level, f)
					}
				}
			}
		}
	})

	t.Run("risk-sensitive blocks flip with level", func(t *testing.T) {
		t.Parallel()

		low := GenerateFindings(model.CheckTypeWallet, model.RiskLevelLow)
		if low[3].Type != model.FindingSuccess {
			t.Errorf("low-risk sanctions block type = %q, expected success", low[3].Type)
		}

		critical := GenerateFindings(model.CheckTypeWallet, model.RiskLevelCritical)
		if critical[3].Type != model.FindingDanger {
			t.Errorf("critical sanctions block type = %q, expected danger", critical[3].Type)
		}
		if critical[2].Type != model.FindingWarning {
			t.Errorf("critical mixer block type = %q, expected warning", critical[2].Type)
		}
	})

	t.Run("disposable block flips at medium", func(t *testing.T) {
		t.Parallel()

		medium := GenerateFindings(model.CheckTypeEmail, model.RiskLevelMedium)
		if medium[2].Type != model.FindingWarning {
			t.Errorf("medium disposable block type = %q, expected warning", medium[2].Type)
		}
	})

	t.Run("unknown type gets fallback block", func(t *testing.T) {
		t.Parallel()

		findings := GenerateFindings(model.CheckType("cve"), model.RiskLevelLow)
		if len(findings) != 1 {
			t.Fatalf("fallback returned %d blocks, expected 1", len(findings))
		}
		if findings[0].Title != "Analysis Complete" {
			t.Errorf("fallback title = %q", findings[0].Title)
		}
	})
}

// TestGenerateMetadata verifies the technical-details rows per type.
func TestGenerateMetadata(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)

	for _, typ := range model.AllCheckTypes {
		metadata := GenerateMetadata(typ, now)
		if len(metadata) != 4 {
			t.Errorf("GenerateMetadata(%q) returned %d rows, expected 4", typ, len(metadata))
		}
	}

	wallet := GenerateMetadata(model.CheckTypeWallet, now)
	if wallet["Chain"] != "Ethereum Mainnet" {
		t.Errorf("wallet chain = %q", wallet["Chain"])
	}
	if wallet["Last Activity"] != "2026-01-15" {
		t.Errorf("wallet last activity = %q", wallet["Last Activity"])
	}

	unknown := GenerateMetadata(model.CheckType("iot"), now)
	if unknown["Analysis Type"] != "iot" {
		t.Errorf("unknown metadata = %v", unknown)
	}
}
