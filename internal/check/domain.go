package check

import (
	"context"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/idna"

	"github.com/darkshare/darkshare/internal/model"
)

// Domain heuristic weights.
const (
	domainBaseScore = 15

	domainPartsWeight      = 15
	domainHyphensWeight    = 15
	domainLengthWeight     = 20
	domainDigitsWeight     = 25
	domainBadTLDWeight     = 30
	domainTyposquatWeight  = 40

	maxDomainLength  = 50
	maxDomainParts   = 3
	maxDomainHyphens = 2
)

// suspiciousTLDs are top-level domains with disproportionate abuse rates
// (mostly free or near-free registrations).
var suspiciousTLDs = map[string]bool{
	"tk": true, "ml": true, "ga": true, "cf": true, "gq": true,
	"xyz": true, "top": true, "work": true, "click": true, "loan": true,
}

// trustedTLDs produce an informational finding but no score change.
var trustedTLDs = map[string]bool{
	"com": true, "org": true, "net": true, "edu": true, "gov": true,
	"ua": true, "uk": true, "de": true, "eu": true,
}

// popularBrands are brand names commonly targeted by typosquatting.
var popularBrands = []string{
	"google", "facebook", "apple", "microsoft", "amazon", "paypal", "netflix",
}

// domainDigitsPattern matches five or more consecutive digits, a marker
// of machine-generated domains.
var domainDigitsPattern = regexp.MustCompile(`\d{5,}`)

// domainSources lists the data providers named on domain reports.
var domainSources = []string{"WHOIS", "SSL Labs", "DNSDumpster", "OFAC", "PhishTank"}

// checkDomain scores a bare domain name. Pure function of the input plus
// cosmetic random draws; makes no network calls.
func (s *Service) checkDomain(_ context.Context, value string, now time.Time) *model.CheckResult {
	domain := normalizeDomain(value)

	score := domainBaseScore
	findings := make([]string, 0, 4)

	tld := ""
	if idx := strings.LastIndex(domain, "."); idx >= 0 {
		tld = domain[idx+1:]
	}

	if trustedTLDs[tld] {
		findings = append(findings, "Trusted top-level domain (."+tld+")")
	}

	// Conditions in ascending severity order.
	if strings.Count(domain, ".")+1 > maxDomainParts {
		score += domainPartsWeight
		findings = append(findings, "Deeply nested subdomain structure")
	}
	if strings.Count(domain, "-") > maxDomainHyphens {
		score += domainHyphensWeight
		findings = append(findings, "Excessive hyphenation in domain name")
	}
	if len(domain) > maxDomainLength {
		score += domainLengthWeight
		findings = append(findings, "Domain name is unusually long")
	}
	if domainDigitsPattern.MatchString(domain) {
		score += domainDigitsWeight
		findings = append(findings, "Long digit sequence suggests a machine-generated domain")
	}
	if suspiciousTLDs[tld] {
		score += domainBadTLDWeight
		findings = append(findings, "Top-level domain ."+tld+" has a high abuse rate")
	}
	if brand := typosquatTarget(domain); brand != "" {
		score += domainTyposquatWeight
		findings = append(findings, "Possible typosquatting of "+brand)
	}

	if len(findings) == 0 {
		findings = append(findings, "Legitimate domain with clean history")
	}

	registrars := []string{"GoDaddy", "Namecheap", "Cloudflare"}
	details := map[string]any{
		"domain":    domain,
		"tld":       tld,
		"length":    len(domain),
		"registrar": registrars[s.intn(len(registrars))],
		"sslIssuer": "Let's Encrypt",
	}

	return s.newResult(model.CheckTypeDomain, value, domain, score, details, findings, domainSources, now)
}

// normalizeDomain strips scheme, www prefix, and path, lower-cases the
// rest, and converts internationalized names to their ASCII (punycode)
// form so the substring heuristics are not evaded with unicode lookalikes.
func normalizeDomain(value string) string {
	domain := strings.ToLower(strings.TrimSpace(value))
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	domain = strings.TrimPrefix(domain, "www.")
	if idx := strings.IndexByte(domain, '/'); idx >= 0 {
		domain = domain[:idx]
	}

	if ascii, err := idna.Lookup.ToASCII(domain); err == nil {
		return ascii
	}
	return domain
}

// typosquatTarget returns the brand a domain appears to impersonate, or
// an empty string. A domain containing a brand name is suspicious unless
// it is exactly brand.com or a subdomain of it.
func typosquatTarget(domain string) string {
	for _, brand := range popularBrands {
		if !strings.Contains(domain, brand) {
			continue
		}
		if domain == brand+".com" || strings.HasSuffix(domain, "."+brand+".com") {
			continue
		}
		return brand
	}
	return ""
}
