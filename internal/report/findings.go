package report

import (
	"time"

	"github.com/darkshare/darkshare/internal/model"
)

// GenerateFindings returns the fixed finding blocks rendered for a report
// of the given type and risk level. Front-ends call this directly when
// reconstructing a PDF from a persisted result that stored only the raw
// check output.
//
// The blocks are a static per-type projection: each type always renders
// the same four headings, and only the tone of the risk-sensitive blocks
// flips with the level.
func GenerateFindings(typ model.CheckType, level model.RiskLevel) []model.Finding {
	risky := level == model.RiskLevelHigh || level == model.RiskLevelCritical
	elevated := risky || level == model.RiskLevelMedium

	switch typ {
	case model.CheckTypeIP:
		return []model.Finding{
			{Type: model.FindingInfo, Title: "Geolocation Identified", Description: "IP location resolved to specific geographic region."},
			{Type: model.FindingInfo, Title: "ISP/ASN Data Retrieved", Description: "Provider and network information extracted successfully."},
			pick(risky, "Blacklist Check",
				model.FindingDanger, "IP found on multiple abuse databases.",
				model.FindingSuccess, "IP not found on major blacklist databases."),
			{Type: model.FindingInfo, Title: "Proxy/VPN Detection", Description: "Analyzed for proxy, VPN, or Tor exit node characteristics."},
		}
	case model.CheckTypeWallet:
		return []model.Finding{
			{Type: model.FindingInfo, Title: "Transaction History", Description: "Complete transaction history analyzed for patterns."},
			{Type: model.FindingInfo, Title: "Token Holdings", Description: "Current token balances and NFT holdings identified."},
			pick(risky, "Mixer Interaction",
				model.FindingWarning, "Interaction with known mixing services detected.",
				model.FindingSuccess, "No interaction with mixing services found."),
			pick(risky, "Sanctions Check",
				model.FindingDanger, "Address flagged by sanctions databases.",
				model.FindingSuccess, "Address not found in OFAC/EU sanctions lists."),
		}
	case model.CheckTypePhone:
		return []model.Finding{
			{Type: model.FindingInfo, Title: "Number Type Detection", Description: "Carrier type and line classification identified."},
			pick(risky, "VOIP Detection",
				model.FindingWarning, "Virtual/VOIP number detected - higher fraud risk.",
				model.FindingInfo, "Standard mobile carrier number verified."),
			{Type: model.FindingInfo, Title: "Geographic Origin", Description: "Country and region of registration identified."},
			pick(risky, "Fraud Reports",
				model.FindingDanger, "Number reported for spam/fraud activity.",
				model.FindingSuccess, "No fraud reports associated with this number."),
		}
	case model.CheckTypeEmail:
		return []model.Finding{
			{Type: model.FindingInfo, Title: "Email Validation", Description: "Syntax and domain verification completed."},
			pick(risky, "Data Breach Check",
				model.FindingDanger, "Email found in multiple data breach databases.",
				model.FindingSuccess, "Email not found in known data breaches."),
			pick(elevated, "Disposable Check",
				model.FindingWarning, "Email uses temporary/disposable provider.",
				model.FindingSuccess, "Email is from legitimate provider."),
			{Type: model.FindingInfo, Title: "Domain Age", Description: "Email domain registration history analyzed."},
		}
	case model.CheckTypeDomain:
		return []model.Finding{
			{Type: model.FindingInfo, Title: "WHOIS Analysis", Description: "Domain registration details and history retrieved."},
			{Type: model.FindingInfo, Title: "SSL Certificate", Description: "SSL/TLS certificate validity and issuer verified."},
			pick(risky, "Registration Country",
				model.FindingWarning, "Domain registered in high-risk jurisdiction.",
				model.FindingSuccess, "Domain registered in standard jurisdiction."),
			pick(risky, "Sanctions Check",
				model.FindingDanger, "Domain owner on sanctions list.",
				model.FindingSuccess, "No sanctions associated with domain owner."),
		}
	case model.CheckTypeURL:
		return []model.Finding{
			{Type: model.FindingInfo, Title: "URL Analysis", Description: "URL structure and parameters analyzed for anomalies."},
			pick(risky, "Malware Scan",
				model.FindingDanger, "Malicious content detected at URL.",
				model.FindingSuccess, "No malware detected at target URL."),
			pick(risky, "Phishing Check",
				model.FindingDanger, "URL matches known phishing patterns.",
				model.FindingSuccess, "URL does not match phishing indicators."),
			{Type: model.FindingInfo, Title: "Redirect Analysis", Description: "URL redirect chain analyzed for suspicious hops."},
		}
	default:
		return []model.Finding{
			{Type: model.FindingInfo, Title: "Analysis Complete", Description: "Target analyzed using available intelligence sources."},
		}
	}
}

// pick builds the risk-sensitive finding block: the "on" variant when the
// condition holds, the "off" variant otherwise. Both variants share a title.
func pick(on bool, title string, onType model.FindingType, onDesc string, offType model.FindingType, offDesc string) model.Finding {
	if on {
		return model.Finding{Type: onType, Title: title, Description: onDesc}
	}
	return model.Finding{Type: offType, Title: title, Description: offDesc}
}

// GenerateMetadata returns the technical-details rows rendered for a
// report of the given type. Values are fixed representatives rather than
// live measurements; the table is advisory context, not evidence, and
// fixed values keep report reconstruction deterministic.
func GenerateMetadata(typ model.CheckType, now time.Time) map[string]string {
	day := now.UTC().Format("2006-01-02")

	switch typ {
	case model.CheckTypeIP:
		return map[string]string{
			"Analysis Duration": "2.3s",
			"Databases Checked": "12",
			"API Calls Made":    "5",
			"Last Updated":      day,
		}
	case model.CheckTypeWallet:
		return map[string]string{
			"Chain":                 "Ethereum Mainnet",
			"Transactions Analyzed": "284",
			"First Activity":        "2021-03-15",
			"Last Activity":         day,
		}
	case model.CheckTypePhone:
		return map[string]string{
			"Carrier Type":      "Mobile",
			"Country Code":      "+380",
			"Databases Checked": "8",
			"Risk Signals":      "2",
		}
	case model.CheckTypeEmail:
		return map[string]string{
			"Domain MX Records":    "Valid",
			"Breach Databases":     "15",
			"Account Age Estimate": "2+ years",
			"Disposable Status":    "No",
		}
	case model.CheckTypeDomain:
		return map[string]string{
			"Domain Age":  "5 years",
			"Registrar":   "Cloudflare",
			"SSL Issuer":  "Let's Encrypt",
			"DNS Records": "12",
		}
	case model.CheckTypeURL:
		return map[string]string{
			"Response Code": "200",
			"Redirects":     "1",
			"Content Type":  "text/html",
			"Scan Engines":  "70",
		}
	default:
		return map[string]string{"Analysis Type": string(typ)}
	}
}
