package domain

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Phone is a canonical E.164 phone number, e.g. "+15552223333".
type Phone string

// ValidatePhoneNumber parses a raw phone number and returns its canonical
// E.164 form. Formatting characters (spaces, hyphens, parentheses) are
// accepted and stripped. When the number has no leading "+", defaultRegion
// (an ISO 3166-1 alpha-2 code such as "US") supplies the country context.
func ValidatePhoneNumber(raw, defaultRegion string) (Phone, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidPhone)
	}

	digits := countDigits(raw)
	if digits < 7 || digits > 15 {
		return "", fmt.Errorf("%w: implausible length", ErrInvalidPhone)
	}

	num, err := phonenumbers.Parse(raw, defaultRegion)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPhone, err)
	}

	if !phonenumbers.IsPossibleNumber(num) {
		return "", ErrInvalidPhone
	}

	return Phone(phonenumbers.Format(num, phonenumbers.E164)), nil
}

// FormatPhoneForDisplay renders a phone number in grouped international
// notation, e.g. "+1 555-222-3333". Unparseable input is passed through
// unchanged rather than failing: display formatting must never crash.
func FormatPhoneForDisplay(raw string, defaultRegion string) string {
	num, err := phonenumbers.Parse(strings.TrimSpace(raw), defaultRegion)
	if err != nil {
		return raw
	}

	return phonenumbers.Format(num, phonenumbers.INTERNATIONAL)
}

// MaskPhone hides all but the trailing digits of a phone number for
// read-only surfaces.
func MaskPhone(p Phone) string {
	s := string(p)
	if len(s) <= 4 {
		return s
	}

	return strings.Repeat("•", len(s)-4) + s[len(s)-4:]
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}

	return n
}
