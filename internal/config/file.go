package config

import "time"

// File represents the structure of the .darkshare configuration file.
// Every field is optional; unset fields keep the built-in defaults or the
// values already set from CLI flags.
type File struct {
	// Server holds HTTP API settings for serve mode.
	Server ServerFile `yaml:"server,omitempty"`

	// GeoIP holds geolocation provider settings.
	GeoIP GeoIPFile `yaml:"geoip,omitempty"`

	// Language is the locale for validation errors and summaries.
	Language string `yaml:"language,omitempty"`

	// Database is the directory for the SQLite database. Setting it
	// enables persistence.
	Database string `yaml:"database,omitempty"`
}

// ServerFile holds the server section of the configuration file.
type ServerFile struct {
	// Listen is the HTTP API listen address, e.g. ":8080".
	Listen string `yaml:"listen,omitempty"`

	// BotToken is the Telegram bot token used to verify login payloads.
	// Prefer setting this via the DARKSHARE_BOT_TOKEN environment variable;
	// the file option exists for development setups.
	BotToken string `yaml:"botToken,omitempty"`
}

// GeoIPFile holds the geoip section of the configuration file.
type GeoIPFile struct {
	// Endpoint is the base URL of the geolocation provider.
	Endpoint string `yaml:"endpoint,omitempty"`

	// TimeoutSeconds is the lookup timeout in whole seconds.
	TimeoutSeconds int `yaml:"timeoutSeconds,omitempty"`
}

// Apply merges the file values into the given Config.
// CLI flags win: only fields still at their default are overridden, since
// Apply runs after flag parsing and checks against the defaults.
func (f *File) Apply(c *Config) {
	if f.Server.Listen != "" && c.ListenAddress == DefaultListenAddress {
		c.ListenAddress = f.Server.Listen
	}
	if f.Server.BotToken != "" && c.BotToken == "" {
		c.BotToken = f.Server.BotToken
	}
	if f.GeoIP.Endpoint != "" && c.GeoIPEndpoint == DefaultGeoIPEndpoint {
		c.GeoIPEndpoint = f.GeoIP.Endpoint
	}
	if f.GeoIP.TimeoutSeconds > 0 && c.LookupTimeout == DefaultLookupTimeout {
		c.LookupTimeout = time.Duration(f.GeoIP.TimeoutSeconds) * time.Second
	}
	if f.Language != "" && c.Language == DefaultLanguage {
		c.Language = f.Language
	}
	if f.Database != "" && c.DBDir == "" {
		c.DBDir = f.Database
		c.SaveToDB = true
	}
}
