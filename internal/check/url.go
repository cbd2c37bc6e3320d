package check

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/darkshare/darkshare/internal/model"
)

// URL heuristic weights.
const (
	urlBaseScore = 15

	urlSuspiciousPathWeight = 15
	urlSubdomainsWeight     = 15
	urlRedirectQueryWeight  = 20
	urlPlainHTTPWeight      = 25
	urlShortenerWeight      = 30
	urlPhishingHostWeight   = 30
	urlIPHostWeight         = 35

	// urlInvalidScore is the fixed score for values that do not parse
	// as a well-formed URL.
	urlInvalidScore = 60

	// maxHostLabels is the label count above which a hostname carries
	// more than two subdomain levels beyond the base domain.
	maxHostLabels = 4
)

// urlShorteners are hostnames of link-shortening services that hide the
// real destination.
var urlShorteners = map[string]bool{
	"bit.ly": true, "t.co": true, "goo.gl": true, "tinyurl.com": true,
	"ow.ly": true, "is.gd": true, "buff.ly": true,
}

// urlSuspiciousPatterns are substrings typical of malware droppers and
// credential-harvesting pages. Only the first match contributes.
var urlSuspiciousPatterns = []string{
	".exe", ".zip", ".rar", "php?", "download", "login",
	"signin", "account", "verify", "secure",
}

// urlPhishingHostPatterns are hostname fragments used to fake login or
// verification subdomains.
var urlPhishingHostPatterns = []string{"login-", "-verify", "-secure", "account-", "update-"}

// urlRedirectParams are query fragments indicating an open-redirect hop.
var urlRedirectParams = []string{"redirect", "url=", "goto"}

// dottedQuadPattern matches a literal IPv4 hostname.
var dottedQuadPattern = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}$`)

// urlSources lists the data providers named on URL reports.
var urlSources = []string{"VirusTotal", "Google Safe Browsing", "PhishTank", "URLVoid", "Sucuri"}

// urlSummaryLength bounds the target shown in the one-line summary.
const urlSummaryLength = 40

// checkURL scores a full URL. Pure function of the input; makes no
// network calls and never fetches the URL.
func (s *Service) checkURL(_ context.Context, value string, now time.Time) *model.CheckResult {
	parsed, err := url.Parse(value)
	if err != nil || parsed.Hostname() == "" {
		return s.newResult(model.CheckTypeURL, value, shorten(value, urlSummaryLength), urlInvalidScore,
			map[string]any{"error": "invalid URL format"},
			[]string{"Invalid URL format"},
			urlSources, now,
		)
	}

	host := strings.ToLower(parsed.Hostname())
	lower := strings.ToLower(value)

	score := urlBaseScore
	findings := make([]string, 0, 4)

	// Conditions in ascending severity order.
	for _, pattern := range urlSuspiciousPatterns {
		if strings.Contains(lower, pattern) {
			score += urlSuspiciousPathWeight
			findings = append(findings, "URL contains a suspicious pattern ("+pattern+")")
			break
		}
	}
	if strings.Count(host, ".")+1 > maxHostLabels {
		score += urlSubdomainsWeight
		findings = append(findings, "Unusually deep subdomain nesting")
	}
	if containsAny(strings.ToLower(parsed.RawQuery), urlRedirectParams) {
		score += urlRedirectQueryWeight
		findings = append(findings, "Query string suggests an open redirect")
	}
	if parsed.Scheme == "http" {
		score += urlPlainHTTPWeight
		findings = append(findings, "Connection is not encrypted (plain HTTP)")
	}
	shortener := urlShorteners[host]
	if shortener {
		score += urlShortenerWeight
		findings = append(findings, "Hostname is a known link shortener")
	}
	if containsAny(host, urlPhishingHostPatterns) {
		score += urlPhishingHostWeight
		findings = append(findings, "Hostname matches a phishing naming pattern")
	}
	if dottedQuadPattern.MatchString(host) {
		score += urlIPHostWeight
		findings = append(findings, "Hostname is a literal IP address")
	}

	if len(findings) == 0 {
		findings = append(findings, "Safe link")
	}

	details := map[string]any{
		"domain":    host,
		"protocol":  parsed.Scheme,
		"path":      parsed.Path,
		"ssl":       parsed.Scheme == "https",
		"shortener": shortener,
	}

	return s.newResult(model.CheckTypeURL, value, shorten(value, urlSummaryLength), score,
		details, findings, urlSources, now)
}

// containsAny reports whether s contains any of the given substrings.
func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
