package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/darkshare/darkshare/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report record in Markdown format.
func (w *MarkdownWriter) Write(data *model.ReportData) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, data)
	w.writeAlert(md, data.RiskLevel, data.RiskScore)
	w.writeFindings(md, data.Findings)
	w.writeMetadata(md, data.Metadata)
	w.writeSources(md, data.Sources)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteResult outputs a report assembled from a bare check result.
func (w *MarkdownWriter) WriteResult(result *model.CheckResult) (int, error) {
	return w.Write(FromResult(result, ""))
}

// writeHeader writes the report header with check information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, data *model.ReportData) {
	md.H1("DARKSHARE Risk Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Target", "`" + truncateString(data.TargetValue, 50) + "`"},
			{"Check Type", data.ModuleType.Label()},
			{"Checked At", data.Timestamp.Format("2006-01-02 15:04:05 MST")},
			{"Risk Score", strconv.Itoa(data.RiskScore) + " / 100"},
			{"Risk Level", strings.ToUpper(data.RiskLevel.String())},
		},
	})
	md.PlainText("")
}

// writeAlert writes an alert matching the verdict for the risk level.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, level model.RiskLevel, score int) {
	verdict := verdictFor(level, score)
	switch level {
	case model.RiskLevelCritical:
		md.Cautionf("%s %s", verdict.title, verdict.description)
	case model.RiskLevelHigh:
		md.Warningf("%s %s", verdict.title, verdict.description)
	case model.RiskLevelMedium:
		md.Importantf("%s %s", verdict.title, verdict.description)
	default:
		md.Note(verdict.title + " " + verdict.description)
	}
	md.PlainText("")
}

// writeFindings writes the finding blocks as a table with per-row markers.
func (w *MarkdownWriter) writeFindings(md *markdown.Markdown, findings []model.Finding) {
	md.H2("Analysis Findings")
	md.PlainText("")

	if len(findings) == 0 {
		md.PlainText("No findings recorded.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(findings))
	for i, f := range findings {
		rows[i] = []string{
			findingMarker(f.Type) + " " + f.Title,
			truncateString(f.Description, 80),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Finding", "Detail"},
		Rows:   rows,
	})
	md.PlainText("")
}

// findingMarker returns the emoji marker for a finding block category.
func findingMarker(typ model.FindingType) string {
	switch typ {
	case model.FindingDanger:
		return "🔴"
	case model.FindingWarning:
		return "🟡"
	case model.FindingSuccess:
		return "🟢"
	default:
		return "🔵"
	}
}

// writeMetadata writes the technical details table, if any.
func (w *MarkdownWriter) writeMetadata(md *markdown.Markdown, metadata map[string]string) {
	if len(metadata) == 0 {
		return
	}

	md.H2("Technical Details")
	md.PlainText("")

	rows := make([][]string, 0, len(metadata))
	for _, key := range sortedKeys(metadata) {
		rows = append(rows, []string{key, metadata[key]})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Key", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeSources writes the consulted data providers.
func (w *MarkdownWriter) writeSources(md *markdown.Markdown, sources []string) {
	md.H2("Data Sources")
	md.PlainText("")

	if len(sources) == 0 {
		md.PlainText("No external sources consulted.")
		md.PlainText("")
		return
	}

	md.BulletList(sources...)
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by DARKSHARE v4.0 Risk Intelligence*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
