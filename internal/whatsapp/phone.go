package whatsapp

import "strings"

// Digits strips every non-digit character from the value.
func Digits(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteString(string(r))
		}
	}
	return b.String()
}

// Normalize converts a raw phone number to international digits, assuming
// the default country code when the number carries none.
func Normalize(value, defaultCountryCode string) string {
	digits := Digits(value)
	if digits == "" {
		return ""
	}
	if defaultCountryCode != "" && !strings.HasPrefix(digits, defaultCountryCode) {
		digits = defaultCountryCode + digits
	}
	return digits
}

// Address renders the provider address for a normalized number.
func Address(normalized string) string {
	return "whatsapp:+" + normalized
}
