package model

// CheckType identifies which heuristic produced a check result.
// The zero value is not a valid check type; use ParseCheckType to
// convert user-supplied strings.
type CheckType string

// The six recognized check categories. The string values double as the
// wire format used by the HTTP API, the CLI --type flag, and the
// object_type column in the database.
const (
	// CheckTypeIP checks an IPv4 address via a geolocation lookup.
	CheckTypeIP CheckType = "ip"

	// CheckTypeWallet checks an EVM-style wallet address.
	CheckTypeWallet CheckType = "wallet"

	// CheckTypePhone checks a phone number.
	CheckTypePhone CheckType = "phone"

	// CheckTypeEmail checks an email address.
	CheckTypeEmail CheckType = "email"

	// CheckTypeDomain checks a bare domain name.
	CheckTypeDomain CheckType = "domain"

	// CheckTypeURL checks a full URL.
	CheckTypeURL CheckType = "url"
)

// AllCheckTypes lists every recognized check type in declaration order.
// Used for CLI help text and exhaustive tests.
var AllCheckTypes = []CheckType{
	CheckTypeIP,
	CheckTypeWallet,
	CheckTypePhone,
	CheckTypeEmail,
	CheckTypeDomain,
	CheckTypeURL,
}

// ParseCheckType converts a raw string into a CheckType.
// Returns false if the string is not one of the six recognized categories.
func ParseCheckType(s string) (CheckType, bool) {
	switch CheckType(s) {
	case CheckTypeIP, CheckTypeWallet, CheckTypePhone,
		CheckTypeEmail, CheckTypeDomain, CheckTypeURL:
		return CheckType(s), true
	default:
		return "", false
	}
}

// String returns the wire representation of the check type.
func (t CheckType) String() string {
	return string(t)
}

// Label returns the human-readable module label used in report headers.
func (t CheckType) Label() string {
	switch t {
	case CheckTypeIP:
		return "IP/GEO Analysis"
	case CheckTypeWallet:
		return "Blockchain Scan"
	case CheckTypePhone:
		return "Phone Check"
	case CheckTypeEmail:
		return "Email Leak Check"
	case CheckTypeDomain:
		return "Domain Intel"
	case CheckTypeURL:
		return "URL Risk Scan"
	default:
		return string(t)
	}
}
