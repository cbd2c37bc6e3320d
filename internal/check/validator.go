package check

import (
	"regexp"
	"strings"

	"github.com/darkshare/darkshare/internal/i18n"
	"github.com/darkshare/darkshare/internal/model"
)

// ValidationResult is the outcome of a syntactic pre-check.
// Error carries a localized, user-correctable message and is only set
// when Valid is false.
type ValidationResult struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// ipPattern matches four dot-separated 1-3 digit groups.
// Deliberately loose: it accepts out-of-range octets such as
// 999.999.999.999. Do not tighten this without changing the documented
// validation contract; out-of-range addresses are rejected later by the
// geolocation provider and degrade to the fallback score.
var ipPattern = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}$`)

// Minimum lengths for the cheap per-type checks.
const (
	minWalletLength = 20
	minDomainLength = 4
	minPhoneLength  = 6
)

// validSyntax reports whether value passes the syntactic rule for typ.
// All rules are pure string predicates with no I/O. Unrecognized types
// pass; the unknown-type error belongs to PerformCheck.
func validSyntax(typ model.CheckType, value string) bool {
	switch typ {
	case model.CheckTypeIP:
		return ipPattern.MatchString(value)
	case model.CheckTypeWallet:
		return strings.HasPrefix(value, "0x") && len(value) >= minWalletLength
	case model.CheckTypeEmail:
		return strings.Contains(value, "@") && strings.Contains(value, ".")
	case model.CheckTypeDomain:
		return strings.Contains(value, ".") && len(value) >= minDomainLength
	case model.CheckTypeURL:
		return strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://")
	case model.CheckTypePhone:
		return len(value) >= minPhoneLength
	default:
		return true
	}
}

// ValidateInput performs the syntactic pre-check for the given type and
// value. It never returns an error value other than the localized message:
// validation failure is a user problem, not a system one.
//
// This gate is mandatory before PerformCheck; the evaluators assume their
// input already passed it and do not re-validate.
func (s *Service) ValidateInput(typ, value string) ValidationResult {
	checkType, ok := model.ParseCheckType(typ)
	if !ok {
		// Unknown types pass validation; PerformCheck rejects them
		// with ErrUnknownType so integration errors are not dressed
		// up as user input errors.
		return ValidationResult{Valid: true}
	}

	if !validSyntax(checkType, value) {
		return ValidationResult{
			Valid: false,
			Error: i18n.ValidationError(s.lang, checkType),
		}
	}
	return ValidationResult{Valid: true}
}
