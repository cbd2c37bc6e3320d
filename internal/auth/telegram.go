package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Verifier validates Telegram login-widget payloads.
//
// The widget signs its fields with HMAC-SHA256 keyed by the SHA-256 of the
// bot token. Verification rebuilds the data-check string (all fields except
// "hash", sorted, joined as k=v lines) and compares digests.
type Verifier struct {
	// botToken is the Telegram bot token used to derive the HMAC key.
	botToken string

	// window is how old an auth_date may be before the payload is rejected.
	window time.Duration

	// clock returns the current time. Injectable for testing.
	clock func() time.Time
}

// VerifierOption configures a Verifier.
type VerifierOption func(*Verifier)

// WithWindow overrides the default 24 hour auth_date freshness window.
func WithWindow(window time.Duration) VerifierOption {
	return func(v *Verifier) {
		v.window = window
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(clock func() time.Time) VerifierOption {
	return func(v *Verifier) {
		v.clock = clock
	}
}

// NewVerifier creates a Verifier for the given bot token.
func NewVerifier(botToken string, opts ...VerifierOption) *Verifier {
	v := &Verifier{
		botToken: botToken,
		window:   24 * time.Hour,
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify checks a login-widget payload. The map holds the raw query
// parameters the widget sends (id, first_name, username, photo_url,
// auth_date, hash). It returns nil only when the signature matches and
// auth_date is within the freshness window.
func (v *Verifier) Verify(data map[string]string) error {
	gotHash, ok := data["hash"]
	if !ok || gotHash == "" {
		return ErrMissingHash
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		if k == "hash" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+data[k])
	}
	checkString := strings.Join(lines, "\n")

	secret := sha256.Sum256([]byte(v.botToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(checkString))
	want := mac.Sum(nil)

	got, err := hex.DecodeString(gotHash)
	if err != nil || !hmac.Equal(got, want) {
		return ErrHashMismatch
	}

	authDate, err := strconv.ParseInt(data["auth_date"], 10, 64)
	if err != nil {
		return ErrExpiredAuth
	}
	if v.clock().Unix()-authDate > int64(v.window/time.Second) {
		return ErrExpiredAuth
	}
	return nil
}

// Sign computes the widget hash for a payload. Used by tests and by the
// local development login page to fabricate valid payloads.
func Sign(data map[string]string, botToken string) string {
	keys := make([]string, 0, len(data))
	for k := range data {
		if k == "hash" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+data[k])
	}

	secret := sha256.Sum256([]byte(botToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(mac.Sum(nil))
}
