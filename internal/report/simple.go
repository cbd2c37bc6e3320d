package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/darkshare/darkshare/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with a score bar and clear
// section formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose enables finding descriptions in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with finding descriptions.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full report record in human-readable format.
func (w *SimpleWriter) Write(data *model.ReportData) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, data)
	w.writeRisk(&sb, data)
	w.writeFindings(&sb, data.Findings)
	w.writeMetadata(&sb, data.Metadata)
	w.writeSources(&sb, data.Sources)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// WriteResult outputs a report assembled from a bare check result.
func (w *SimpleWriter) WriteResult(result *model.CheckResult) (int, error) {
	return w.Write(FromResult(result, ""))
}

// writeHeader writes the report header with check information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, data *model.ReportData) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        DARKSHARE RISK REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Target:      %s\n", truncateString(data.TargetValue, 50)))
	sb.WriteString(fmt.Sprintf("Check Type:  %s\n", data.ModuleType.Label()))
	sb.WriteString(fmt.Sprintf("Checked At:  %s\n", data.Timestamp.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString("\n")
}

// writeRisk writes the score, level, verdict, and an ASCII score bar.
func (w *SimpleWriter) writeRisk(sb *strings.Builder, data *model.ReportData) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("RISK ASSESSMENT\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  SCORE:   %d / 100\n", data.RiskScore))
	sb.WriteString(fmt.Sprintf("  LEVEL:   %s\n", strings.ToUpper(data.RiskLevel.String())))

	// 50-cell score bar, one cell per two points.
	filled := data.RiskScore / 2
	sb.WriteString(fmt.Sprintf("  [%s%s]\n\n", strings.Repeat("#", filled), strings.Repeat(".", 50-filled)))

	verdict := verdictFor(data.RiskLevel, data.RiskScore)
	sb.WriteString(fmt.Sprintf("  VERDICT: %s\n", verdict.title))
	sb.WriteString(fmt.Sprintf("           %s\n", verdict.description))
	sb.WriteString("\n")
}

// writeFindings writes the finding blocks with severity markers.
func (w *SimpleWriter) writeFindings(sb *strings.Builder, findings []model.Finding) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("ANALYSIS FINDINGS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(findings) == 0 {
		sb.WriteString("  No findings recorded\n\n")
		return
	}

	for _, finding := range findings {
		sb.WriteString(fmt.Sprintf("  [%s] %s\n", findingSymbol(finding.Type), finding.Title))
		if w.verbose && finding.Description != "" {
			sb.WriteString(fmt.Sprintf("      %s\n", finding.Description))
		}
	}
	sb.WriteString("\n")
}

// findingSymbol returns the ASCII marker for a finding block category.
func findingSymbol(typ model.FindingType) string {
	switch typ {
	case model.FindingDanger:
		return "x"
	case model.FindingWarning:
		return "!"
	case model.FindingSuccess:
		return "+"
	default:
		return "i"
	}
}

// writeMetadata writes the technical-details rows, if any.
func (w *SimpleWriter) writeMetadata(sb *strings.Builder, metadata map[string]string) {
	if len(metadata) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("TECHNICAL DETAILS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, key := range sortedKeys(metadata) {
		sb.WriteString(fmt.Sprintf("  %-22s %s\n", key+":", metadata[key]))
	}
	sb.WriteString("\n")
}

// writeSources writes the consulted data providers.
func (w *SimpleWriter) writeSources(sb *strings.Builder, sources []string) {
	if len(sources) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("DATA SOURCES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, source := range sources {
		sb.WriteString(fmt.Sprintf("  [+] %s\n", source))
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by DARKSHARE v4.0 Risk Intelligence\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

// sortedKeys returns the map keys in sorted order for stable output.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
