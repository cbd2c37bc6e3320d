package check

import (
	"math/rand/v2"
	"testing"

	"golang.org/x/text/language"
)

// newTestService creates a Service with a fixed random seed and English
// summaries so assertions are deterministic and readable.
func newTestService(opts ...ServiceOption) *Service {
	base := []ServiceOption{
		WithRand(rand.New(rand.NewPCG(1, 2))),
		WithLanguage(language.English),
	}
	return NewService(append(base, opts...)...)
}

// TestValidateInput exercises the per-type syntactic rules, including the
// documented loosenesses (out-of-range IP octets pass, phone accepts
// non-digits).
func TestValidateInput(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		typ   string
		value string
		valid bool
	}{
		// ip
		{"valid ip", "ip", "8.8.8.8", true},
		{"out-of-range octets pass", "ip", "999.999.999.999", true},
		{"not an ip", "ip", "not-an-ip", false},
		{"too few octets", "ip", "1.2.3", false},
		{"four-digit octet", "ip", "1234.1.1.1", false},

		// wallet
		{"valid wallet", "wallet", "0x" + repeat("a", 20), true},
		{"wallet missing prefix", "wallet", "abc", false},
		{"wallet too short", "wallet", "0xabc", false},

		// email
		{"valid email", "email", "user@example.com", true},
		{"email without at", "email", "no-at-sign", false},
		{"email without dot", "email", "user@localhost", false},

		// domain
		{"valid domain", "domain", "example.com", true},
		{"domain without dot", "domain", "localhost", false},
		{"domain too short", "domain", "a.b", false},

		// url
		{"https url", "url", "https://example.com", true},
		{"http url", "url", "http://example.com", true},
		{"bare domain rejected", "url", "example.com", false},
		{"ftp rejected", "url", "ftp://example.com", false},

		// phone
		{"valid phone", "phone", "+380501234567", true},
		{"phone too short", "phone", "12345", false},
	}

	svc := newTestService()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			result := svc.ValidateInput(tc.typ, tc.value)
			if result.Valid != tc.valid {
				t.Errorf("ValidateInput(%q, %q).Valid = %v, expected %v",
					tc.typ, tc.value, result.Valid, tc.valid)
			}
			if !result.Valid && result.Error == "" {
				t.Error("invalid result carries no error message")
			}
			if result.Valid && result.Error != "" {
				t.Errorf("valid result carries error message %q", result.Error)
			}
		})
	}
}

// TestValidateInputLocalizedError verifies the error message follows the
// service language.
func TestValidateInputLocalizedError(t *testing.T) {
	t.Parallel()

	english := newTestService()
	if got := english.ValidateInput("ip", "nope").Error; got != "Invalid IP format. Example: 8.8.8.8" {
		t.Errorf("english error = %q", got)
	}

	ukrainian := newTestService(WithLanguage(language.Ukrainian))
	if got := ukrainian.ValidateInput("ip", "nope").Error; got != "Невірний формат IP. Приклад: 8.8.8.8" {
		t.Errorf("ukrainian error = %q", got)
	}
}

// TestValidateInputUnknownType confirms unknown types pass validation;
// rejecting them is PerformCheck's job.
func TestValidateInputUnknownType(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	if result := svc.ValidateInput("cve", "CVE-2024-1234"); !result.Valid {
		t.Errorf("unknown type should pass validation, got %+v", result)
	}
}

// repeat is a tiny strings.Repeat wrapper to keep table literals short.
func repeat(s string, n int) string {
	out := ""
	for range n {
		out += s
	}
	return out
}
