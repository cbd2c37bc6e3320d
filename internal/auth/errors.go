package auth

import "errors"

// Authentication errors.
// Handlers map all three to the same 401 response so that an attacker
// cannot distinguish a bad signature from an expired payload; the
// distinction exists for logging.
var (
	// ErrMissingHash is returned when the payload carries no "hash" field.
	ErrMissingHash = errors.New("telegram auth: missing hash field")

	// ErrHashMismatch is returned when the recomputed HMAC does not match
	// the hash field. Either the payload was tampered with or it was
	// signed with a different bot token.
	ErrHashMismatch = errors.New("telegram auth: hash mismatch")

	// ErrExpiredAuth is returned when auth_date is missing, malformed,
	// or older than the freshness window.
	ErrExpiredAuth = errors.New("telegram auth: auth_date expired")
)
