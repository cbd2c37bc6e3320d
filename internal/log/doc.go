// Package log provides secure logging functionality with automatic sanitization
// of sensitive information, built on top of the standard slog package.
//
// This package extends slog to provide:
//   - Automatic redaction of credential values (cookies, tokens, secrets)
//   - Partial masking of checked targets (emails, phone numbers, wallets)
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//
// # Security Features
//
// The SecureHandler automatically sanitizes sensitive information in log output:
//   - HTTP headers (Authorization, Cookie, Set-Cookie, X-Api-Key)
//   - Secret values detected by pattern matching (bot tokens, JWTs, keys)
//   - Checked targets, which are end-user PII and must not be logged raw
//
// Even in verbose mode, sensitive values are masked to prevent accidental
// exposure of secrets or PII in logs that may be shared or stored.
//
// # Usage
//
//	// Create a secure logger
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//
//	// Use as a standard slog.Logger
//	logger.Info("check completed",
//	    "target", "user@example.com", // Will be masked to "u***@example.com"
//	    "score", 65,
//	)
//
//	// Set as default logger
//	slog.SetDefault(logger)
package log
