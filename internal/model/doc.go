// Package model defines the core data structures used throughout darkshare.
//
// This package contains the following main types:
//   - CheckType: The category of object being checked (ip, wallet, ...)
//   - RiskLevel: The four-step classification of a risk score
//   - CheckResult: The result of a single check, produced by internal/check
//   - Finding: A rendered observation used by the PDF report
//   - ReportData: The input record for PDF rendering
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (check, report, database, server) need to
// use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for API output and
// database storage.
package model
