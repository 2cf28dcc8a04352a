package courier

import (
	"fmt"
	"strings"
)

const (
	phoneDigits       = 11
	countryCodePrefix = "880"
)

// NormalizePhone reduces a recipient phone number to the 11-digit local form
// Bangladeshi carriers require. All non-digit characters are stripped; a
// 13-digit result starting with the 880 country code loses the prefix.
// Anything that is not exactly 11 digits afterwards fails with
// ErrInvalidPhone.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 13 && strings.HasPrefix(digits, countryCodePrefix) {
		digits = "0" + digits[len(countryCodePrefix):]
	}
	if len(digits) != phoneDigits {
		return "", fmt.Errorf("%w: %q normalized to %d digits, want %d", ErrInvalidPhone, raw, len(digits), phoneDigits)
	}
	return digits, nil
}
