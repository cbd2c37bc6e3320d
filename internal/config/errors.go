package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than fmt.Errorf()
// because we don't need to include dynamic values in these messages.
var (
	// ErrNoTarget is returned when no value to check is specified.
	// This error occurs when neither --list nor a positional argument
	// provides a target.
	ErrNoTarget = errors.New("no target specified: provide a value to check or use --list")

	// ErrInvalidTimeout is returned when the lookup timeout is not positive.
	// A timeout of zero or negative would fail every geolocation call.
	ErrInvalidTimeout = errors.New("invalid lookup timeout: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	// A batch size of zero would mean no concurrent checks, effectively
	// stopping processing.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when more than one of --json,
	// --markdown, and --pdf is specified. Only one output format can be
	// used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: choose one of --json, --markdown, --pdf")

	// ErrPDFRequiresFile is returned when --pdf is requested without an
	// output file. The PDF is binary and is never written to a terminal.
	ErrPDFRequiresFile = errors.New("pdf output requires --output FILE")
)
