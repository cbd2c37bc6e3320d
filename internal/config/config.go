package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values match the hosted product's behavior where applicable.
const (
	// DefaultGeoIPEndpoint is the geolocation provider queried for IP checks.
	// The endpoint speaks the ip-api.com JSON dialect; any provider with the
	// same response shape can be substituted via configuration.
	DefaultGeoIPEndpoint = "http://ip-api.com/json"

	// DefaultLookupTimeout bounds the single outbound geolocation call.
	// Five seconds is generous for a geolocation API; on expiry the IP
	// evaluator falls back to baseline scoring instead of failing the check.
	DefaultLookupTimeout = 5 * time.Second

	// DefaultBatchSize of 10 concurrent checks balances throughput with
	// provider politeness. Only the IP path makes outbound calls, and free
	// geolocation tiers rate-limit aggressively above this.
	DefaultBatchSize = 10

	// DefaultListenAddress is the HTTP API listen address for serve mode.
	DefaultListenAddress = ":8080"

	// DefaultLanguage is the language code for validation errors and
	// summaries. Ukrainian is the product's primary audience.
	DefaultLanguage = "uk"

	// AppName is the application name used for XDG directory paths.
	AppName = "darkshare"

	// AuthWindow is the maximum accepted age of a Telegram login payload.
	// Payloads older than this are considered replayed and rejected.
	AuthWindow = 24 * time.Hour
)

// Config holds all configuration options for DarkShare.
// This struct is designed to be populated from CLI flags and the optional
// config file, and passed through the application via dependency injection
// rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CheckConfig, ServerConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// GeoIPEndpoint is the base URL of the geolocation provider.
	GeoIPEndpoint string

	// LookupTimeout is the timeout for the outbound geolocation call.
	LookupTimeout time.Duration

	// Language selects the locale for validation errors and summaries.
	// Accepts a BCP 47 code; unsupported codes fall back to Ukrainian.
	Language string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, info and above are logged.
	Verbose bool

	// BatchSize is the number of concurrent checks when processing
	// multiple targets.
	BatchSize int

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .darkshare in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// CheckType forces the check category for all targets. When empty,
	// the category is inferred per target.
	CheckType string

	// JSONReport enables JSON report output instead of human-readable format.
	// Mutually exclusive with MarkdownReport and PDFReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output.
	// Mutually exclusive with JSONReport and PDFReport.
	MarkdownReport bool

	// PDFReport enables PDF report output. Requires ReportFile since the
	// document is binary.
	PDFReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// Targets is the list of values to check.
	Targets []string

	// ListenAddress is the HTTP API listen address for serve mode.
	ListenAddress string

	// BotToken is the Telegram bot token used to verify login payloads.
	// Optional; when empty the auth endpoints reject all payloads.
	BotToken string

	// DBDir is the directory path for storing the SQLite database.
	// When set, check results are saved for history and the activity feed.
	// When empty, results are not persisted.
	// Defaults to XDG data directory (~/.local/share/darkshare on Linux).
	DBDir string

	// SaveToDB indicates whether to save check results to the database.
	// This is automatically set to true when DBDir is configured.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout, endpoint).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		GeoIPEndpoint: DefaultGeoIPEndpoint,
		LookupTimeout: DefaultLookupTimeout,
		BatchSize:     DefaultBatchSize,
		Language:      DefaultLanguage,
		ListenAddress: DefaultListenAddress,
	}
}

// XDGDataDir returns the XDG data directory for DarkShare.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/darkshare
// On macOS: ~/Library/Application Support/darkshare
// On Windows: %LOCALAPPDATA%\darkshare
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for DarkShare.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any check begins.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	// Zero timeout would fail every IP lookup immediately
	if c.LookupTimeout <= 0 {
		return ErrInvalidTimeout
	}

	// BatchSize must be positive; zero would mean no checking
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	// Exactly one output format may be selected
	formats := 0
	for _, enabled := range []bool{c.JSONReport, c.MarkdownReport, c.PDFReport} {
		if enabled {
			formats++
		}
	}
	if formats > 1 {
		return ErrConflictingReportFormats
	}

	// A binary document cannot go to a terminal
	if c.PDFReport && c.ReportFile == "" {
		return ErrPDFRequiresFile
	}

	return nil
}
