package report

import (
	"io"

	"github.com/darkshare/darkshare/internal/model"
)

// Writer defines the interface for report output.
// Implementations write check results in various formats.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or network
// connections with the same API.
type Writer interface {
	// Write outputs the full report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(data *model.ReportData) (int, error)

	// WriteResult outputs a report assembled from a bare check result.
	// This is the path used right after a check, before any report
	// record exists.
	WriteResult(result *model.CheckResult) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface is different
// from io.Writer - we write reports, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(data *model.ReportData) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(data)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteResult outputs the assembled result report to all configured Writers.
func (m *MultiWriter) WriteResult(result *model.CheckResult) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteResult(result)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// FromResult assembles the renderable report record for a check result.
// Findings come from the static per-type projection so a report rebuilt
// from a persisted result looks identical to one rendered at check time.
func FromResult(result *model.CheckResult, userID string) *model.ReportData {
	return &model.ReportData{
		ModuleType:  result.Type,
		TargetValue: result.Target,
		RiskLevel:   result.RiskLevel,
		RiskScore:   result.RiskScore,
		Timestamp:   result.Timestamp,
		UserID:      userID,
		Findings:    GenerateFindings(result.Type, result.RiskLevel),
		Sources:     result.Sources,
		Metadata:    GenerateMetadata(result.Type, result.Timestamp),
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
