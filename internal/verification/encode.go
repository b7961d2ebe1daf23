package verification

import (
	"fmt"
	"strings"

	"finitefield.org/verinum-web/internal/calendar"
)

// BirthDigitsLength is the length of an encoded birthdate (YYMMDD).
const BirthDigitsLength = 6

// EncodeEraDate formats an era-calendar date as YYMMDD, e.g. 昭和31年10月5日 -> "311005".
// 元年 encodes as "01". It returns "" when any input is missing or unreadable.
func EncodeEraDate(era, yearLabel, monthLabel, dayLabel string) string {
	if strings.TrimSpace(era) == "" {
		return ""
	}
	year, ok := calendar.ParseYearLabel(yearLabel)
	if !ok {
		return ""
	}
	return encode(year, monthLabel, dayLabel)
}

// EncodeWesternDate formats a Western-calendar date as YYMMDD using the last two digits
// of the year, e.g. 1998年9月12日 -> "980912".
func EncodeWesternDate(yearLabel, monthLabel, dayLabel string) string {
	year, ok := calendar.ParseYearLabel(yearLabel)
	if !ok {
		return ""
	}
	return encode(year, monthLabel, dayLabel)
}

func encode(year int, monthLabel, dayLabel string) string {
	month, ok := calendar.ParseMonthLabel(monthLabel)
	if !ok {
		return ""
	}
	day, ok := calendar.ParseDayLabel(dayLabel)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%02d%02d%02d", year%100, month, day)
}
