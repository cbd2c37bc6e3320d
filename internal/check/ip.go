package check

import (
	"context"
	"strings"
	"time"

	"github.com/darkshare/darkshare/internal/model"
)

// IP heuristic weights.
const (
	ipBaseScore = 20

	// ipFallbackScore is the fixed score used when the geolocation
	// lookup fails or times out. The check must still produce a verdict,
	// so degraded results land just inside the medium band.
	ipFallbackScore = 30

	ipProxyWeight   = 30
	ipHostingWeight = 20
	ipCloudWeight   = 15
)

// cloudProviders are ISP/org name fragments that indicate the address
// belongs to a cloud provider rather than a residential network.
var cloudProviders = []string{
	"digitalocean",
	"amazon",
	"google cloud",
	"azure",
	"vultr",
	"linode",
	"ovh",
}

// ipSources lists the data providers named on IP reports. Only the
// geolocation provider is actually consulted.
var ipSources = []string{"IP-API", "AbuseIPDB", "MaxMind GeoIP", "Shodan", "VirusTotal"}

// checkIP scores an IPv4 address using one bounded geolocation lookup.
//
// This is the only evaluator that may suspend. On provider failure or
// timeout it resolves with the fixed fallback score instead of returning
// an error: graceful degradation over hard failure is the product's
// always-produce-a-verdict contract. No retries.
func (s *Service) checkIP(ctx context.Context, value string, now time.Time) *model.CheckResult {
	loc, err := s.geo.Lookup(ctx, value)
	if err != nil {
		s.logger.Warn("geolocation lookup failed, using fallback score",
			"target", value,
			"error", err,
		)

		return s.newResult(model.CheckTypeIP, value, value, ipFallbackScore,
			map[string]any{
				"lookupFailed": true,
			},
			[]string{"Geolocation lookup failed; risk assessed from baseline heuristics only"},
			ipSources, now,
		)
	}

	score := ipBaseScore
	findings := make([]string, 0, 3)

	// Conditions in ascending severity order.
	ispOrg := strings.ToLower(loc.ISP + " " + loc.Org)
	for _, provider := range cloudProviders {
		if strings.Contains(ispOrg, provider) {
			score += ipCloudWeight
			findings = append(findings, "ISP matches a known cloud provider ("+provider+")")
			break
		}
	}
	if loc.Hosting {
		score += ipHostingWeight
		findings = append(findings, "Address belongs to a hosting provider or data center range")
	}
	if loc.Proxy {
		score += ipProxyWeight
		findings = append(findings, "Proxy, VPN, or Tor exit node detected")
	}

	if len(findings) == 0 {
		findings = append(findings, "No suspicious activity detected")
	}

	details := map[string]any{
		"country":     loc.Country,
		"countryCode": loc.CountryCode,
		"city":        loc.City,
		"regionName":  loc.RegionName,
		"isp":         loc.ISP,
		"org":         loc.Org,
		"asn":         loc.AS,
		"timezone":    loc.Timezone,
		"lat":         loc.Lat,
		"lon":         loc.Lon,
		"proxy":       loc.Proxy,
		"hosting":     loc.Hosting,
	}

	return s.newResult(model.CheckTypeIP, value, value, score, details, findings, ipSources, now)
}
