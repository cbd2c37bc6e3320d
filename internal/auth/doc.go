// Package auth verifies Telegram login-widget payloads.
//
// The widget appends a "hash" field computed as HMAC-SHA256 over the
// remaining fields (sorted, newline-joined k=v pairs) keyed by the SHA-256
// of the bot token. A payload is accepted only when the signature matches
// and its auth_date is within the freshness window (24 hours by default).
package auth
