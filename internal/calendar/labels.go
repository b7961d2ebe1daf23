package calendar

import (
	"strconv"
	"strings"

	"golang.org/x/text/width"

	"finitefield.org/verinum-web/internal/wareki"
)

// Label suffixes used by the selectors.
const (
	YearSuffix  = "年"
	MonthSuffix = "月"
	DaySuffix   = "日"
)

// YearLabel renders n as a year option ("1998年").
func YearLabel(n int) string { return strconv.Itoa(n) + YearSuffix }

// MonthLabel renders m as a month option ("9月").
func MonthLabel(m int) string { return strconv.Itoa(m) + MonthSuffix }

// DayLabel renders d as a day option ("12日").
func DayLabel(d int) string { return strconv.Itoa(d) + DaySuffix }

// ParseYearLabel extracts the number from a year label. 元年 parses as 1.
func ParseYearLabel(label string) (int, bool) {
	label = normalize(label)
	if label == wareki.FirstYearLabel {
		return 1, true
	}
	n, ok := parseNumber(label, YearSuffix)
	if !ok || n < 1 {
		return 0, false
	}
	return n, true
}

// ParseMonthLabel extracts the month from "10月". Values outside 1-12 are rejected.
func ParseMonthLabel(label string) (int, bool) {
	n, ok := parseNumber(normalize(label), MonthSuffix)
	if !ok || n < 1 || n > 12 {
		return 0, false
	}
	return n, true
}

// ParseDayLabel extracts the day from "5日". Values outside 1-31 are rejected.
func ParseDayLabel(label string) (int, bool) {
	n, ok := parseNumber(normalize(label), DaySuffix)
	if !ok || n < 1 || n > 31 {
		return 0, false
	}
	return n, true
}

// normalize trims the label and folds full-width digits to ASCII.
func normalize(label string) string {
	return strings.TrimSpace(width.Fold.String(label))
}

func parseNumber(label, suffix string) (int, bool) {
	digits := strings.TrimSpace(strings.TrimSuffix(label, suffix))
	if digits == "" {
		return 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}
