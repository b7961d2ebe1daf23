package wizard

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"finitefield.org/verinum-web/internal/calendar"
	"finitefield.org/verinum-web/internal/format"
	"finitefield.org/verinum-web/internal/verification"
	"finitefield.org/verinum-web/internal/wareki"
)

// Defaults applied to a fresh session.
var (
	DefaultEraDate     = EraDate{Era: wareki.Showa, Year: "31年", Month: "10月", Day: "5日"}
	DefaultWesternDate = WesternDate{Year: "1998年", Month: "9月", Day: "12日"}
	DefaultExpiryYear  = "2025"
)

// Machine applies wizard actions. It holds no session data; every action takes a State
// and returns the next one.
type Machine struct {
	enum *calendar.Enumerator
}

// NewMachine constructs a Machine backed by the given enumerator.
func NewMachine(enum *calendar.Enumerator) (*Machine, error) {
	if enum == nil {
		return nil, errEnumeratorIsRequired
	}
	return &Machine{enum: enum}, nil
}

// Enumerator returns the option source used by the machine.
func (m *Machine) Enumerator() *calendar.Enumerator { return m.enum }

// Initial returns the state of a new session.
func (m *Machine) Initial() State {
	return State{
		Step:       StepBirthdate,
		Calendar:   CalendarEra,
		Era:        DefaultEraDate,
		Western:    DefaultWesternDate,
		ExpiryYear: DefaultExpiryYear,
	}
}

// Reset discards all progress.
func (m *Machine) Reset() State { return m.Initial() }

// Normalize repairs a state decoded from a client cookie.
func (m *Machine) Normalize(s State) State {
	if s.IsZero() || !s.Step.Valid() {
		return m.Initial()
	}
	if _, ok := ParseCalendar(string(s.Calendar)); !ok {
		s.Calendar = CalendarEra
	}
	if s.Step != StepResult {
		s.Result = verification.Number{}
	}
	if s.Step == StepResult && s.Result.IsZero() {
		s.Step = StepSecurityCode
	}
	return s
}

// SwitchCalendar changes the active calendar and carries the current selection over.
// When the year has no counterpart in the target calendar, the target keeps its previous value.
func (m *Machine) SwitchCalendar(s State, to Calendar) (State, error) {
	to, ok := ParseCalendar(string(to))
	if !ok {
		return s, ErrUnknownCalendar
	}
	if to == s.Calendar {
		return s, nil
	}
	switch to {
	case CalendarEra:
		if year, ok := calendar.ParseYearLabel(s.Western.Year); ok {
			if ey, ok := m.enum.Eras().EraYearFor(year); ok {
				s.Era = EraDate{Era: ey.Era, Year: ey.Label, Month: s.Western.Month, Day: s.Western.Day}
			}
		}
	case CalendarWestern:
		if year, ok := m.enum.Eras().WesternYearFor(s.Era.Era, s.Era.Year); ok && inWesternRange(year) {
			s.Western = WesternDate{Year: calendar.YearLabel(year), Month: s.Era.Month, Day: s.Era.Day}
		}
	}
	s.Calendar = to
	return s, nil
}

// SelectEraDate stores an era-calendar selection. A year label missing from the era and a
// day that does not exist in the chosen month are cleared.
func (m *Machine) SelectEraDate(s State, d EraDate) State {
	d = EraDate{
		Era:   strings.TrimSpace(d.Era),
		Year:  strings.TrimSpace(d.Year),
		Month: strings.TrimSpace(d.Month),
		Day:   strings.TrimSpace(d.Day),
	}
	if d.Year != "" && !m.enum.Eras().HasYearLabel(d.Era, d.Year) {
		d.Year = ""
	}
	if d.Day != "" && d.Year != "" && d.Month != "" {
		if !slices.Contains(m.enum.DayLabelsForEra(d.Era, d.Year, d.Month), d.Day) {
			d.Day = ""
		}
	}
	s.Era = d
	return s
}

// SelectWesternDate stores a Western-calendar selection, clearing a day that does not exist.
func (m *Machine) SelectWesternDate(s State, d WesternDate) State {
	d = WesternDate{
		Year:  strings.TrimSpace(d.Year),
		Month: strings.TrimSpace(d.Month),
		Day:   strings.TrimSpace(d.Day),
	}
	if d.Day != "" && d.Year != "" && d.Month != "" {
		if !slices.Contains(m.enum.DayLabels(d.Year, d.Month), d.Day) {
			d.Day = ""
		}
	}
	s.Western = d
	return s
}

// SetExpiryYear stores the expiry year input, limited to four characters.
func (m *Machine) SetExpiryYear(s State, v string) State {
	s.ExpiryYear = truncate(verification.FoldDigits(v), verification.ExpiryYearLength)
	return s
}

// SetSecurityCode stores the security code input. Non-digits are dropped.
func (m *Machine) SetSecurityCode(s State, v string) State {
	s.SecurityCode = truncate(verification.NormalizeDigits(v), verification.SecurityCodeLength)
	return s
}

// BirthDigits returns the YYMMDD code of the active selection, or "" when it is not resolved.
func (m *Machine) BirthDigits(s State) string {
	if !m.DateResolved(s) {
		return ""
	}
	switch s.Calendar {
	case CalendarWestern:
		return verification.EncodeWesternDate(s.Western.Year, s.Western.Month, s.Western.Day)
	default:
		return verification.EncodeEraDate(s.Era.Era, s.Era.Year, s.Era.Month, s.Era.Day)
	}
}

// DateDisplay renders the active selection for people ("昭和31年10月5日").
func (m *Machine) DateDisplay(s State) string {
	switch s.Calendar {
	case CalendarWestern:
		return format.WesternDate(s.Western.Year, s.Western.Month, s.Western.Day)
	default:
		return format.EraDate(s.Era.Era, s.Era.Year, s.Era.Month, s.Era.Day)
	}
}

// DateResolved reports whether the active selection names an existing day.
func (m *Machine) DateResolved(s State) bool {
	switch s.Calendar {
	case CalendarWestern:
		year, ok := calendar.ParseYearLabel(s.Western.Year)
		if !ok || !inWesternRange(year) {
			return false
		}
		return slices.Contains(m.enum.DayLabels(s.Western.Year, s.Western.Month), strings.TrimSpace(s.Western.Day))
	case CalendarEra:
		return slices.Contains(m.enum.DayLabelsForEra(s.Era.Era, s.Era.Year, s.Era.Month), strings.TrimSpace(s.Era.Day))
	default:
		return false
	}
}

// Next validates the current step and advances. Leaving the security code step
// computes the verification number.
func (m *Machine) Next(s State) (State, error) {
	switch s.Step {
	case StepBirthdate:
		if m.BirthDigits(s) == "" {
			return s, ErrIncompleteDate
		}
		s.Step = StepExpiry
	case StepExpiry:
		if !verification.IsFourDigits(s.ExpiryYear) {
			return s, ErrInvalidExpiryYear
		}
		s.Step = StepSecurityCode
	case StepSecurityCode:
		if !verification.IsFourDigits(s.SecurityCode) {
			return s, ErrInvalidSecurityCode
		}
		birth := m.BirthDigits(s)
		if birth == "" {
			return s, fmt.Errorf("compose number: %w", ErrIncompleteDate)
		}
		s.Result = verification.NewNumber(birth, m.DateDisplay(s), s.ExpiryYear, s.SecurityCode)
		s.Step = StepResult
	case StepResult:
		return s, nil
	default:
		return s, ErrUnknownStep
	}
	return s, nil
}

// Back returns to the previous step. The first step has nowhere to go back to.
func (m *Machine) Back(s State) State {
	switch s.Step {
	case StepExpiry, StepSecurityCode:
		s.Step--
	case StepResult:
		s.Step = StepSecurityCode
		s.Result = verification.Number{}
	}
	return s
}

func inWesternRange(year int) bool {
	return year >= calendar.MinWesternYear && year <= calendar.MaxWesternYear
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
