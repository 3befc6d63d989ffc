package phone

import (
	"errors"
	"strings"
)

var (
	ErrEmpty         = errors.New("phone: empty input")
	ErrInvalidLength = errors.New("phone: invalid length")
)

// DefaultCountryCode is prefixed to bare 10-digit numbers.
const DefaultCountryCode = "91"

// Normalizer canonicalizes raw contact numbers into the digits-only key
// used for uniqueness checks and lookups everywhere else in the system.
type Normalizer struct {
	countryCode string
}

func New(countryCode string) Normalizer {
	if countryCode == "" {
		countryCode = DefaultCountryCode
	}
	return Normalizer{countryCode: countryCode}
}

func (n Normalizer) CountryCode() string { return n.countryCode }

// Normalize strips separators and enforces the countrycode+10 canonical
// form. A bare 10-digit number gets the country code prefixed; a number
// already carrying it is accepted as-is. Anything else fails with
// ErrInvalidLength. Pure function, safe to call repeatedly: the output is
// its own fixed point.
func (n Normalizer) Normalize(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ErrEmpty
	}

	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			// tolerated, never stored
		default:
			// separators (spaces, dashes, parens) dropped
		}
	}
	// non-blank input with no digits at all is a malformed number, not an
	// empty one
	digits := b.String()
	if digits == "" {
		return "", ErrInvalidLength
	}

	full := len(n.countryCode) + 10
	switch {
	case len(digits) == 10:
		return n.countryCode + digits, nil
	case len(digits) == full && strings.HasPrefix(digits, n.countryCode):
		return digits, nil
	default:
		return "", ErrInvalidLength
	}
}
