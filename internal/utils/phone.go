package utils

import (
	"regexp"
	"strings"
)

// CountryDialCodes maps ISO country codes offered by the phone picker to
// their dial prefixes.
var CountryDialCodes = map[string]string{
	"TR": "+90",
	"US": "+1",
	"GB": "+44",
	"DE": "+49",
	"FR": "+33",
	"IT": "+39",
	"ES": "+34",
	"NL": "+31",
	"BE": "+32",
	"AT": "+43",
	"CH": "+41",
	"SE": "+46",
	"NO": "+47",
	"DK": "+45",
	"FI": "+358",
	"PL": "+48",
	"GR": "+30",
	"PT": "+351",
	"AE": "+971",
	"SA": "+966",
	"RU": "+7",
}

var (
	phoneSeparators = regexp.MustCompile(`[\s\-().]`)
	e164Regex       = regexp.MustCompile(`^\+[1-9]\d{7,14}$`)
)

// NormalizePhone strips separators and, when the number has no "+" prefix,
// prepends the dial code of countryCode (dropping one trunk "0").
func NormalizePhone(countryCode, phone string) string {
	p := phoneSeparators.ReplaceAllString(strings.TrimSpace(phone), "")
	if p == "" || strings.HasPrefix(p, "+") {
		return p
	}
	if strings.HasPrefix(p, "00") {
		return "+" + p[2:]
	}
	dial, ok := CountryDialCodes[strings.ToUpper(countryCode)]
	if !ok {
		return p
	}
	return dial + strings.TrimPrefix(p, "0")
}

// IsValidPhone accepts E.164 numbers; separators are ignored.
func IsValidPhone(phone string) bool {
	p := phoneSeparators.ReplaceAllString(strings.TrimSpace(phone), "")
	return e164Regex.MatchString(p)
}
