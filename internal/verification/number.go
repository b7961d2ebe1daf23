package verification

import (
	"strings"

	"golang.org/x/text/width"
)

// Lengths of the composed parts.
const (
	ExpiryYearLength   = 4
	SecurityCodeLength = 4
	NumberLength       = BirthDigitsLength + ExpiryYearLength + SecurityCodeLength
)

// Compose concatenates the birthdate digits, expiry year and security code.
// Callers must pass four-digit expiry and security values; nothing is checked here.
func Compose(birthDigits, expiryYear, securityCode string) string {
	return birthDigits + expiryYear + securityCode
}

// Number is a computed Verification Number B together with its parts.
type Number struct {
	Digits       string `json:"digits"`
	BirthDigits  string `json:"birth"`
	DateDisplay  string `json:"date"`
	ExpiryYear   string `json:"expiry"`
	SecurityCode string `json:"code"`
}

// NewNumber composes a Number from already validated parts.
func NewNumber(birthDigits, dateDisplay, expiryYear, securityCode string) Number {
	return Number{
		Digits:       Compose(birthDigits, expiryYear, securityCode),
		BirthDigits:  birthDigits,
		DateDisplay:  dateDisplay,
		ExpiryYear:   expiryYear,
		SecurityCode: securityCode,
	}
}

// IsZero reports whether no number has been computed.
func (n Number) IsZero() bool { return n.Digits == "" }

// IsFourDigits reports whether s is exactly four ASCII digits.
func IsFourDigits(s string) bool {
	if len(s) != 4 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// NormalizeDigits folds full-width digits to ASCII and drops every other character.
func NormalizeDigits(s string) string {
	folded := width.Fold.String(s)
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FoldDigits folds full-width characters and trims spaces without dropping anything,
// so malformed input still fails IsFourDigits.
func FoldDigits(s string) string {
	return strings.TrimSpace(width.Fold.String(s))
}
