package analytics

import "strings"

var monthNames = map[string][12]string{
	"es": {"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"},
	"en": {"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
	"pt": {"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"},
}

// MonthNames returns abbreviated month names for locale ("es" when empty).
// Region suffixes such as "en-US" are ignored; unknown locales get English.
func MonthNames(locale string) [12]string {
	if locale == "" {
		locale = DefaultLocale
	}
	lang, _, _ := strings.Cut(strings.ToLower(locale), "-")
	lang, _, _ = strings.Cut(lang, "_")
	if names, ok := monthNames[lang]; ok {
		return names
	}
	return monthNames["en"]
}
