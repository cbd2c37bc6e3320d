package check

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"unicode/utf8"

	"golang.org/x/text/language"

	"github.com/darkshare/darkshare/internal/geoip"
	"github.com/darkshare/darkshare/internal/model"
)

// TestPerformCheckUnknownType verifies the facade rejects unrecognized
// types with ErrUnknownType instead of panicking.
func TestPerformCheckUnknownType(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	_, err := svc.PerformCheck(context.Background(), "cve", "CVE-2024-1234")
	if !errors.Is(err, ErrUnknownType) {
		t.Errorf("error = %v, expected ErrUnknownType", err)
	}
}

// TestPerformCheckInvariants runs every type over a spread of inputs and
// random seeds, asserting the cross-cutting result invariants: score in
// range, level consistent with score, findings never empty, target and
// timestamp populated.
func TestPerformCheckInvariants(t *testing.T) {
	t.Parallel()

	server := geoServer(t, `{"status":"success","proxy":true,"isp":"OVH SAS"}`)

	inputs := map[string][]string{
		"ip":     {"8.8.8.8", "203.0.113.99", "999.999.999.999"},
		"wallet": {"0x" + repeat("ab", 20), "0x722122df12d4e14e13ac3b6895a86e84145b6967", "0x" + repeat("AB", 9)},
		"phone":  {"+380501234567", "+1 555", "00012345678901234"},
		"email":  {"user@example.com", "x@mailinator.com", "a@b@c.com"},
		"domain": {"example.com", "paypal-secure-12345.xyz", "sub.domain.example.org"},
		"url":    {"https://example.com", "http://1.2.3.4/login?redirect=x", "not a url"},
	}

	for seed := range uint64(5) {
		svc := NewService(
			WithRand(rand.New(rand.NewPCG(seed, seed+1))),
			WithLanguage(language.English),
			WithGeoIP(geoip.NewClient(geoip.WithEndpoint(server.URL))),
		)

		for typ, values := range inputs {
			for _, value := range values {
				result, err := svc.PerformCheck(context.Background(), typ, value)
				if err != nil {
					t.Fatalf("PerformCheck(%q, %q) returned error: %v", typ, value, err)
				}
				if result.RiskScore < 0 || result.RiskScore > 100 {
					t.Errorf("%s %q: score %d out of range", typ, value, result.RiskScore)
				}
				if result.RiskLevel != model.RiskLevelForScore(result.RiskScore) {
					t.Errorf("%s %q: level %q inconsistent with score %d",
						typ, value, result.RiskLevel, result.RiskScore)
				}
				if len(result.Findings) == 0 {
					t.Errorf("%s %q: findings are empty", typ, value)
				}
				if result.Target != value {
					t.Errorf("%s %q: target modified to %q", typ, value, result.Target)
				}
				if result.Timestamp.IsZero() {
					t.Errorf("%s %q: zero timestamp", typ, value)
				}
				if result.Summary == "" {
					t.Errorf("%s %q: empty summary", typ, value)
				}
				if len(result.Sources) == 0 {
					t.Errorf("%s %q: no sources", typ, value)
				}
			}
		}
	}
}

// TestPerformCheckConcurrent runs many checks in parallel on one Service
// to exercise the guarded random source under the race detector.
func TestPerformCheckConcurrent(t *testing.T) {
	t.Parallel()

	svc := newTestService()

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.PerformCheck(context.Background(), "wallet", "0x"+repeat("cd", 20)); err != nil {
				t.Errorf("PerformCheck returned error: %v", err)
			}
			if _, err := svc.PerformCheck(context.Background(), "domain", "example.org"); err != nil {
				t.Errorf("PerformCheck returned error: %v", err)
			}
		}()
	}
	wg.Wait()
}

// TestSummaryLanguage verifies the summary follows the configured locale.
func TestSummaryLanguage(t *testing.T) {
	t.Parallel()

	uk := newTestService(WithLanguage(language.Ukrainian))
	result, err := uk.PerformCheck(context.Background(), "domain", "example.com")
	if err != nil {
		t.Fatalf("PerformCheck returned error: %v", err)
	}
	if result.Summary != "Домен example.com має LOW рівень ризику" {
		t.Errorf("ukrainian summary = %q", result.Summary)
	}
}

// TestShorten verifies summary truncation keeps rune boundaries intact,
// so non-Latin targets never produce invalid UTF-8 in summaries.
func TestShorten(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		value  string
		maxLen int
		want   string
	}{
		{"short unchanged", "example.com", 30, "example.com"},
		{"ascii truncated", "secure-login-payment-verify.example.com", 10, "secure-log..."},
		{"cyrillic truncated", "перевірка-безпеки-акаунту-держбанку.укр", 17, "перевірка-безпеки..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := shorten(tt.value, tt.maxLen)
			if got != tt.want {
				t.Errorf("shorten(%q, %d) = %q, want %q", tt.value, tt.maxLen, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("shorten(%q, %d) produced invalid UTF-8: %q", tt.value, tt.maxLen, got)
			}
		})
	}
}
