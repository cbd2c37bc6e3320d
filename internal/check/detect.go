package check

import (
	"regexp"
	"strings"

	"github.com/darkshare/darkshare/internal/model"
)

// phoneShapePattern matches digit strings with optional +, spaces,
// parentheses, and dashes. Used only for detection, not validation.
var phoneShapePattern = regexp.MustCompile(`^\+?[\d\s()-]{6,}$`)

// DetectType infers the check type from the shape of the input.
// The order matters: a URL also contains dots, a wallet also matches the
// loose phone shape, so the more specific shapes are tried first.
// Returns false when no shape matches.
func DetectType(value string) (model.CheckType, bool) {
	value = strings.TrimSpace(value)
	switch {
	case strings.HasPrefix(value, "http://"), strings.HasPrefix(value, "https://"):
		return model.CheckTypeURL, true
	case ipPattern.MatchString(value):
		return model.CheckTypeIP, true
	case strings.HasPrefix(value, "0x"):
		return model.CheckTypeWallet, true
	case strings.Contains(value, "@"):
		return model.CheckTypeEmail, true
	case phoneShapePattern.MatchString(value):
		return model.CheckTypePhone, true
	case strings.Contains(value, "."):
		return model.CheckTypeDomain, true
	default:
		return "", false
	}
}
