package wizard

import (
	"errors"
	"strings"

	"finitefield.org/verinum-web/internal/verification"
)

// Calendar selects how the birthdate is entered.
type Calendar string

// Supported calendars.
const (
	CalendarEra     Calendar = "和暦"
	CalendarWestern Calendar = "西暦"
)

// Calendars lists the selectable calendars in display order.
var Calendars = []Calendar{CalendarEra, CalendarWestern}

// ParseCalendar accepts the Japanese names as well as "era" and "western".
func ParseCalendar(v string) (Calendar, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case string(CalendarEra), "era", "wareki":
		return CalendarEra, true
	case string(CalendarWestern), "western", "seireki":
		return CalendarWestern, true
	default:
		return "", false
	}
}

// Step is a wizard screen.
type Step int

// Steps in order.
const (
	StepBirthdate Step = iota + 1
	StepExpiry
	StepSecurityCode
	StepResult
)

// Steps lists every step in order.
var Steps = []Step{StepBirthdate, StepExpiry, StepSecurityCode, StepResult}

// Key returns a stable identifier used in templates and translation keys.
func (s Step) Key() string {
	switch s {
	case StepBirthdate:
		return "birthdate"
	case StepExpiry:
		return "expiry"
	case StepSecurityCode:
		return "security"
	case StepResult:
		return "result"
	default:
		return "unknown"
	}
}

// Valid reports whether s is a known step.
func (s Step) Valid() bool {
	return s >= StepBirthdate && s <= StepResult
}

// EraDate is an era-calendar selection. Fields hold the selector labels ("昭和", "31年", "10月", "5日").
type EraDate struct {
	Era   string `json:"era,omitempty"`
	Year  string `json:"y,omitempty"`
	Month string `json:"m,omitempty"`
	Day   string `json:"d,omitempty"`
}

// WesternDate is a Western-calendar selection ("1998年", "9月", "12日").
type WesternDate struct {
	Year  string `json:"y,omitempty"`
	Month string `json:"m,omitempty"`
	Day   string `json:"d,omitempty"`
}

// State is the full progress of one wizard session.
type State struct {
	Step         Step                `json:"step"`
	Calendar     Calendar            `json:"cal"`
	Era          EraDate             `json:"era"`
	Western      WesternDate         `json:"west"`
	ExpiryYear   string              `json:"exp,omitempty"`
	SecurityCode string              `json:"sec,omitempty"`
	Result       verification.Number `json:"result"`
}

// IsZero reports whether the state was never initialised.
func (s State) IsZero() bool {
	return s.Step == 0 && s.Calendar == ""
}

// Step validation failures.
var (
	ErrIncompleteDate       = errors.New("wizard: birthdate is incomplete")
	ErrInvalidExpiryYear    = errors.New("wizard: expiry year must be 4 digits")
	ErrInvalidSecurityCode  = errors.New("wizard: security code must be 4 digits")
	ErrUnknownCalendar      = errors.New("wizard: unknown calendar")
	ErrUnknownStep          = errors.New("wizard: unknown step")
	errEnumeratorIsRequired = errors.New("wizard: enumerator is required")
)
