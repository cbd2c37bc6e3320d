// Package i18n provides the localized string tables used by the check
// pipeline: validator error messages and check summaries.
//
// The tables are static data trimmed to the strings the core actually
// emits. Language negotiation uses golang.org/x/text/language so HTTP
// Accept-Language values and Telegram language codes both resolve to a
// supported language without hand-rolled parsing.
package i18n
