package calendar

import (
	"finitefield.org/verinum-web/internal/wareki"
)

// Western year bounds offered by the year selector.
const (
	MinWesternYear = 1900
	MaxWesternYear = 2024
)

var monthDays = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// Enumerator produces the option lists of the birthdate selectors.
type Enumerator struct {
	eras *wareki.Table
}

// NewEnumerator returns an enumerator backed by the given era table.
func NewEnumerator(eras *wareki.Table) *Enumerator {
	if eras == nil {
		eras = wareki.New()
	}
	return &Enumerator{eras: eras}
}

// Eras exposes the backing table.
func (e *Enumerator) Eras() *wareki.Table { return e.eras }

// YearLabelsFor returns the year labels of era in table order; empty when the era is unknown.
func (e *Enumerator) YearLabelsFor(era string) []string {
	labels := e.eras.YearLabels(era)
	if labels == nil {
		return []string{}
	}
	return labels
}

// WesternYearLabels returns 1900年 through 2024年 ascending.
func (e *Enumerator) WesternYearLabels() []string {
	out := make([]string, 0, MaxWesternYear-MinWesternYear+1)
	for y := MinWesternYear; y <= MaxWesternYear; y++ {
		out = append(out, YearLabel(y))
	}
	return out
}

// MonthLabels returns 1月 through 12月.
func (e *Enumerator) MonthLabels() []string {
	out := make([]string, 0, 12)
	for m := 1; m <= 12; m++ {
		out = append(out, MonthLabel(m))
	}
	return out
}

// DayLabels returns the day labels for a year label and month label. The year label is
// read as a plain number, so 元年 counts as year 1 and era labels are not resolved.
// Use DayLabelsForEra when the era is known.
func (e *Enumerator) DayLabels(yearLabel, monthLabel string) []string {
	year, ok := ParseYearLabel(yearLabel)
	if !ok {
		return []string{}
	}
	month, ok := ParseMonthLabel(monthLabel)
	if !ok {
		return []string{}
	}
	return dayLabels(DaysIn(year, month))
}

// DayLabelsForEra resolves the era year to its Western year before counting days.
func (e *Enumerator) DayLabelsForEra(era, yearLabel, monthLabel string) []string {
	year, ok := e.eras.WesternYearFor(era, yearLabel)
	if !ok {
		return []string{}
	}
	month, ok := ParseMonthLabel(monthLabel)
	if !ok {
		return []string{}
	}
	return dayLabels(DaysIn(year, month))
}

func dayLabels(n int) []string {
	out := make([]string, 0, n)
	for d := 1; d <= n; d++ {
		out = append(out, DayLabel(d))
	}
	return out
}

// IsLeap reports whether year is a Gregorian leap year.
func IsLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysIn returns the number of days in month (1-12) of year, or 0 for an invalid month.
func DaysIn(year, month int) int {
	if month < 1 || month > 12 {
		return 0
	}
	if month == 2 && IsLeap(year) {
		return 29
	}
	return monthDays[month-1]
}

// ValidDay reports whether day exists in the given month.
func ValidDay(year, month, day int) bool {
	return day >= 1 && day <= DaysIn(year, month)
}
