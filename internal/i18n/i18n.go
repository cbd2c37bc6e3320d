package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/darkshare/darkshare/internal/model"
)

// Supported languages in matcher priority order.
// Ukrainian is first because it is the product's primary audience and
// the language the original bot launched with.
var supported = []language.Tag{
	language.Ukrainian,
	language.English,
	language.Russian,
}

// matcher resolves arbitrary language tags to the closest supported one.
var matcher = language.NewMatcher(supported)

// DefaultLanguage is used when no language preference is available.
var DefaultLanguage = language.Ukrainian

// Match resolves a raw language code (BCP 47, Accept-Language, or a bare
// Telegram language_code such as "uk") to a supported language.
// Unknown or empty input falls back to DefaultLanguage.
func Match(code string) language.Tag {
	if code == "" {
		return DefaultLanguage
	}
	tags, _, err := language.ParseAcceptLanguage(code)
	if err != nil || len(tags) == 0 {
		return DefaultLanguage
	}
	_, index, conf := matcher.Match(tags...)
	if conf == language.No {
		return DefaultLanguage
	}
	return supported[index]
}

// validationMessages maps a language to the per-type validation error
// messages. The Ukrainian strings are the originals; English and Russian
// are the product's own translations of the same table.
var validationMessages = map[language.Tag]map[model.CheckType]string{
	language.Ukrainian: {
		model.CheckTypeIP:     "Невірний формат IP. Приклад: 8.8.8.8",
		model.CheckTypeWallet: "Невірний формат гаманця. Приклад: 0x1234...abcd",
		model.CheckTypeEmail:  "Невірний email. Приклад: user@example.com",
		model.CheckTypeDomain: "Невірний домен. Приклад: example.com",
		model.CheckTypeURL:    "URL має починатися з http:// або https://",
		model.CheckTypePhone:  "Невірний номер телефону",
	},
	language.English: {
		model.CheckTypeIP:     "Invalid IP format. Example: 8.8.8.8",
		model.CheckTypeWallet: "Invalid wallet format. Example: 0x1234...abcd",
		model.CheckTypeEmail:  "Invalid email. Example: user@example.com",
		model.CheckTypeDomain: "Invalid domain. Example: example.com",
		model.CheckTypeURL:    "URL must start with http:// or https://",
		model.CheckTypePhone:  "Invalid phone number",
	},
	language.Russian: {
		model.CheckTypeIP:     "Неправильный формат IP. Пример: 8.8.8.8",
		model.CheckTypeWallet: "Неправильный формат кошелька. Пример: 0x1234...abcd",
		model.CheckTypeEmail:  "Неправильный email. Пример: user@example.com",
		model.CheckTypeDomain: "Неправильный домен. Пример: example.com",
		model.CheckTypeURL:    "URL должен начинаться с http:// или https://",
		model.CheckTypePhone:  "Неправильный номер телефона",
	},
}

// summaryTemplates maps a language to the per-type one-line summary.
// Placeholders: first %s is the (possibly shortened) target, second %s is
// the upper-cased risk level.
var summaryTemplates = map[language.Tag]map[model.CheckType]string{
	language.Ukrainian: {
		model.CheckTypeIP:     "IP %s має %s рівень ризику",
		model.CheckTypeWallet: "Гаманець %s має %s рівень ризику",
		model.CheckTypePhone:  "Номер %s має %s рівень ризику",
		model.CheckTypeEmail:  "Email %s має %s рівень ризику",
		model.CheckTypeDomain: "Домен %s має %s рівень ризику",
		model.CheckTypeURL:    "URL %s має %s рівень ризику",
	},
	language.English: {
		model.CheckTypeIP:     "IP %s has %s risk level",
		model.CheckTypeWallet: "Wallet %s has %s risk level",
		model.CheckTypePhone:  "Number %s has %s risk level",
		model.CheckTypeEmail:  "Email %s has %s risk level",
		model.CheckTypeDomain: "Domain %s has %s risk level",
		model.CheckTypeURL:    "URL %s has %s risk level",
	},
	language.Russian: {
		model.CheckTypeIP:     "IP %s имеет %s уровень риска",
		model.CheckTypeWallet: "Кошелёк %s имеет %s уровень риска",
		model.CheckTypePhone:  "Номер %s имеет %s уровень риска",
		model.CheckTypeEmail:  "Email %s имеет %s уровень риска",
		model.CheckTypeDomain: "Домен %s имеет %s уровень риска",
		model.CheckTypeURL:    "URL %s имеет %s уровень риска",
	},
}

// ValidationError returns the localized validation error message for the
// given check type. Falls back to Ukrainian for unsupported languages and
// to a generic message for unrecognized types.
func ValidationError(lang language.Tag, typ model.CheckType) string {
	table, ok := validationMessages[lang]
	if !ok {
		table = validationMessages[DefaultLanguage]
	}
	if msg, ok := table[typ]; ok {
		return msg
	}
	return table[model.CheckTypeDomain]
}

// Summary formats the localized one-line check summary.
// The risk level is rendered upper-cased, matching the original product.
func Summary(lang language.Tag, typ model.CheckType, target string, level model.RiskLevel) string {
	table, ok := summaryTemplates[lang]
	if !ok {
		table = summaryTemplates[DefaultLanguage]
	}
	tmpl, ok := table[typ]
	if !ok {
		tmpl = "%s: %s"
	}
	return fmt.Sprintf(tmpl, target, strings.ToUpper(level.String()))
}

// monthNames holds genitive month names for long-date formatting.
// English uses nominative forms since English has no genitive months.
var monthNames = map[language.Tag][12]string{
	language.Ukrainian: {
		"січня", "лютого", "березня", "квітня", "травня", "червня",
		"липня", "серпня", "вересня", "жовтня", "листопада", "грудня",
	},
	language.English: {
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	},
	language.Russian: {
		"января", "февраля", "марта", "апреля", "мая", "июня",
		"июля", "августа", "сентября", "октября", "ноября", "декабря",
	},
}

// LongDate formats day, month index (1-12), and year as a locale-aware
// long date, e.g. "15 січня 2026" or "15 January 2026".
func LongDate(lang language.Tag, day, month, year int) string {
	names, ok := monthNames[lang]
	if !ok {
		names = monthNames[language.English]
	}
	if month < 1 || month > 12 {
		return fmt.Sprintf("%02d.%02d.%d", day, month, year)
	}
	return fmt.Sprintf("%d %s %d", day, names[month-1], year)
}
