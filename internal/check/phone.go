package check

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/darkshare/darkshare/internal/model"
)

// Phone heuristic weights.
const (
	phoneBaseScore = 15

	phoneShortWeight   = 30
	phoneLongWeight    = 20
	phonePatternWeight = 40

	// E.164 bounds used by the length heuristics.
	phoneMinDigits = 10
	phoneMaxDigits = 15
)

// phonePrefix describes a dialing prefix with its country and the
// carriers commonly seen behind it.
type phonePrefix struct {
	country  string
	carriers []string
}

// phonePrefixes maps dialing prefixes to country and carrier guesses.
// Lookup is longest-match, so +380 wins over +38 for Ukrainian numbers.
var phonePrefixes = map[string]phonePrefix{
	"+380": {country: "Ukraine", carriers: []string{"Kyivstar", "Vodafone", "lifecell"}},
	"+38":  {country: "Ukraine", carriers: []string{"Kyivstar", "Vodafone", "lifecell"}},
	"+1":   {country: "USA/Canada", carriers: []string{"Verizon", "AT&T", "T-Mobile"}},
	"+44":  {country: "United Kingdom", carriers: []string{"EE", "O2", "Vodafone UK"}},
	"+49":  {country: "Germany", carriers: []string{"Telekom", "Vodafone DE", "O2"}},
	"+48":  {country: "Poland", carriers: []string{"Orange", "Play", "Plus"}},
}

// phoneStripPattern removes the whitespace and punctuation people type
// into phone numbers, keeping only digits and a leading plus.
var phoneStripPattern = regexp.MustCompile(`[\s\-().]+`)

// phoneZeroPattern matches a repeated-leading-zero prefix, a pattern
// common in spoofed caller IDs.
var phoneZeroPattern = regexp.MustCompile(`^\+?000`)

// phoneSources lists the data providers named on phone reports.
var phoneSources = []string{"NumVerify", "Twilio Lookup", "SpamDB", "CallerID"}

// checkPhone scores a phone number. Pure function of the input plus
// cosmetic random draws; makes no network calls.
func (s *Service) checkPhone(_ context.Context, value string, now time.Time) *model.CheckResult {
	normalized := phoneStripPattern.ReplaceAllString(value, "")
	digits := strings.TrimPrefix(normalized, "+")

	score := phoneBaseScore
	findings := make([]string, 0, 2)

	country, carrier := guessPrefix(normalized, s.intn)

	// Conditions in ascending severity order.
	if len(digits) > phoneMaxDigits {
		score += phoneLongWeight
		findings = append(findings, "Number exceeds the E.164 maximum length")
	}
	if len(digits) < phoneMinDigits {
		score += phoneShortWeight
		findings = append(findings, "Number is unusually short for an international number")
	}
	if phoneZeroPattern.MatchString(normalized) {
		score += phonePatternWeight
		findings = append(findings, "Suspicious repeated-zero prefix pattern")
	}

	if len(findings) == 0 {
		findings = append(findings, "Standard mobile number")
	}

	details := map[string]any{
		"normalized": normalized,
		"length":     len(digits),
		"country":    country,
		"carrier":    carrier,
		"type":       "Mobile",
		"valid":      true,
	}

	return s.newResult(model.CheckTypePhone, value, value, score, details, findings, phoneSources, now)
}

// guessPrefix resolves country and carrier by the longest matching
// dialing prefix. The carrier is a uniform pick among the prefix's known
// carriers; unknown prefixes yield "Unknown" for both.
func guessPrefix(normalized string, intn func(int) int) (country, carrier string) {
	prefixes := make([]string, 0, len(phonePrefixes))
	for p := range phonePrefixes {
		prefixes = append(prefixes, p)
	}
	// Longest prefix first so +380 is tried before +38 and +1.
	sort.Slice(prefixes, func(i, j int) bool { return len(prefixes[i]) > len(prefixes[j]) })

	for _, p := range prefixes {
		if strings.HasPrefix(normalized, p) {
			info := phonePrefixes[p]
			return info.country, info.carriers[intn(len(info.carriers))]
		}
	}
	return "Unknown", "Unknown"
}
