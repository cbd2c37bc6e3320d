package check

import (
	"context"
	"strings"
	"time"

	"github.com/darkshare/darkshare/internal/model"
)

// Email heuristic weights.
const (
	emailBaseScore = 15

	emailShortLocalWeight = 10
	emailDigitsWeight     = 15
	emailSpamWeight       = 20
	emailDisposableWeight = 50

	// emailInvalidScore is the fixed score for addresses that do not
	// contain exactly one @. The level follows from the score like
	// everywhere else.
	emailInvalidScore = 80

	minLocalPartLength = 3
)

// Domain classification labels written into details.domainType.
const (
	domainTypeFree       = "Free Provider"
	domainTypeDisposable = "Disposable"
	domainTypeCustom     = "Custom Domain"
)

// freeProviders are domain fragments of the large free mail providers.
var freeProviders = []string{
	"gmail", "outlook", "yahoo", "hotmail", "icloud", "proton", "ukr.net", "i.ua",
}

// disposableProviders are domain fragments of throwaway mail services.
var disposableProviders = []string{
	"mailinator", "tempmail", "10minutemail", "guerrillamail",
	"yopmail", "trashmail", "throwaway", "sharklasers",
}

// spamPatterns are substrings typical of non-personal or probe addresses.
// The address is matched in full, so "admin@" only fires on the local part
// boundary.
var spamPatterns = []string{"noreply", "no-reply", "test", "admin@", "support@", "info@", "spam"}

// knownBreaches feeds the cosmetic breach list in the result details.
var knownBreaches = []string{"LinkedIn 2021", "Adobe 2013", "Dropbox 2012", "Facebook 2019", "Twitter 2022"}

// emailSources lists the data providers named on email reports.
var emailSources = []string{"HaveIBeenPwned", "Hunter.io", "EmailRep", "DeHashed"}

// checkEmail scores an email address. Pure function of the input plus
// cosmetic random draws; makes no network calls.
func (s *Service) checkEmail(_ context.Context, value string, now time.Time) *model.CheckResult {
	// The validator only requires "@" and "." to be present, so a value
	// with several @ can reach this point. Exactly one is required for
	// scoring; anything else is a fixed high-risk invalid-format result.
	if strings.Count(value, "@") != 1 {
		return s.newResult(model.CheckTypeEmail, value, value, emailInvalidScore,
			map[string]any{"error": "invalid email format"},
			[]string{"Invalid email format"},
			emailSources, now,
		)
	}

	local, domain, _ := strings.Cut(value, "@")
	lower := strings.ToLower(value)
	lowerDomain := strings.ToLower(domain)

	score := emailBaseScore
	findings := make([]string, 0, 3)

	domainType := domainTypeCustom
	disposable := false
	for _, d := range disposableProviders {
		if strings.Contains(lowerDomain, d) {
			domainType = domainTypeDisposable
			disposable = true
			break
		}
	}
	if !disposable {
		for _, f := range freeProviders {
			if strings.Contains(lowerDomain, f) {
				domainType = domainTypeFree
				break
			}
		}
	}

	// Conditions in ascending severity order.
	if len(local) < minLocalPartLength {
		score += emailShortLocalWeight
		findings = append(findings, "Local part is unusually short")
	}
	if isAllDigits(local) {
		score += emailDigitsWeight
		findings = append(findings, "Local part consists entirely of digits")
	}
	for _, pattern := range spamPatterns {
		if strings.Contains(lower, pattern) {
			score += emailSpamWeight
			findings = append(findings, "Address matches a known spam naming pattern ("+pattern+")")
			break
		}
	}
	if disposable {
		score += emailDisposableWeight
		findings = append(findings, "Domain belongs to a disposable email provider")
	}

	if len(findings) == 0 {
		findings = append(findings, "No leaks found")
	}

	breachCount := 0
	if score > 40 {
		breachCount = min(score/25, len(knownBreaches))
	}

	details := map[string]any{
		"domain":      domain,
		"domainType":  domainType,
		"valid":       true,
		"deliverable": s.float64n() > 0.1,
		"breaches":    knownBreaches[:breachCount],
		"breachCount": breachCount,
	}

	return s.newResult(model.CheckTypeEmail, value, value, score, details, findings, emailSources, now)
}

// isAllDigits reports whether s is non-empty and contains only ASCII digits.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
