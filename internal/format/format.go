package format

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// EraDate renders an era-calendar selection as printed on the card, e.g. "昭和31年10月5日".
func EraDate(era, year, month, day string) string {
	if era == "" || year == "" || month == "" || day == "" {
		return ""
	}
	return era + year + month + day
}

// WesternDate renders a Western-calendar selection, e.g. "1998年9月12日".
func WesternDate(year, month, day string) string {
	if year == "" || month == "" || day == "" {
		return ""
	}
	return year + month + day
}

// BirthCaption is the caption printed under the card photo ("…生").
func BirthCaption(display string) string {
	if display == "" {
		return ""
	}
	return display + "生"
}

// ExpiryCaption renders the expiry line of the card preview for a four-digit year.
// Example: ExpiryCaption("2025", "ja") => "2025年01月01日まで"
func ExpiryCaption(year, lang string) string {
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil || y <= 0 {
		return ""
	}
	return FmtDate(time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC), lang)
}

// FmtDate formats an expiry date in a locale-friendly form.
func FmtDate(t time.Time, lang string) string {
	switch strings.ToLower(lang) {
	case "ja":
		return t.Format("2006年01月02日") + "まで"
	default:
		return "Valid until " + t.Format("Jan 2, 2006")
	}
}

// Mask hides a secret value, keeping its length visible.
func Mask(s string) string {
	return strings.Repeat("•", utf8.RuneCountInString(s))
}

// GroupDigits splits a verification number into its 6-4-4 parts for display.
// Values of any other length are returned unchanged.
func GroupDigits(s string) string {
	if len(s) != 14 {
		return s
	}
	return s[:6] + " " + s[6:10] + " " + s[10:]
}
