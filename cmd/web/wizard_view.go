package main

import (
	"errors"

	"finitefield.org/verinum-web/internal/calendar"
	"finitefield.org/verinum-web/internal/format"
	"finitefield.org/verinum-web/internal/wizard"
)

// Option is one <option> of a selector.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// WizardView is the view model shared by the verify page and its fragments.
type WizardView struct {
	Lang      string
	CSRFToken string

	Step       string
	StepNumber int
	StepCount  int
	CanGoBack  bool

	// Birthdate step
	Calendar  string
	IsEra     bool
	Calendars []Option
	EraName   string
	Eras      []Option
	Years     []Option
	Months    []Option
	Days      []Option

	// Expiry and security code steps
	ExpiryYear    string
	SecurityCode  string
	ExampleExpiry string

	// Card preview captions
	BirthCaption  string
	ExpiryCaption string

	Alert  string
	Result *ResultView
}

// ResultView is the breakdown shown on the final step.
type ResultView struct {
	Digits       string
	Grouped      string
	BirthDigits  string
	DateDisplay  string
	ExpiryYear   string
	SecurityCode string
}

// DaysView feeds the day <option> fragment.
type DaysView struct {
	Lang     string
	Days     []Option
	Disabled bool
}

func (a *app) buildWizardView(lang, csrf string, s wizard.State) WizardView {
	v := WizardView{
		Lang:          lang,
		CSRFToken:     csrf,
		Step:          s.Step.Key(),
		StepNumber:    int(s.Step),
		StepCount:     len(wizard.Steps),
		CanGoBack:     s.Step > wizard.StepBirthdate,
		Calendar:      string(s.Calendar),
		IsEra:         s.Calendar != wizard.CalendarWestern,
		ExpiryYear:    s.ExpiryYear,
		SecurityCode:  s.SecurityCode,
		ExampleExpiry: wizard.DefaultExpiryYear,
		BirthCaption:  format.BirthCaption(a.machine.DateDisplay(s)),
		ExpiryCaption: format.ExpiryCaption(s.ExpiryYear, lang),
	}

	for _, c := range wizard.Calendars {
		v.Calendars = append(v.Calendars, Option{
			Value:    string(c),
			Label:    a.bundle.T(lang, calendarLabelKey(c)),
			Selected: c == s.Calendar,
		})
	}

	enum := a.machine.Enumerator()
	if v.IsEra {
		v.EraName = s.Era.Era
		v.Eras = options(enum.Eras().Eras(), s.Era.Era)
		v.Years = options(enum.YearLabelsFor(s.Era.Era), s.Era.Year)
		v.Months = options(enum.MonthLabels(), s.Era.Month)
		v.Days = options(enum.DayLabelsForEra(s.Era.Era, s.Era.Year, s.Era.Month), s.Era.Day)
	} else {
		v.Years = westernYearOptions(enum, s.Western.Year)
		v.Months = options(enum.MonthLabels(), s.Western.Month)
		v.Days = options(enum.DayLabels(s.Western.Year, s.Western.Month), s.Western.Day)
	}

	if s.Step == wizard.StepResult && !s.Result.IsZero() {
		v.Result = &ResultView{
			Digits:       s.Result.Digits,
			Grouped:      format.GroupDigits(s.Result.Digits),
			BirthDigits:  s.Result.BirthDigits,
			DateDisplay:  s.Result.DateDisplay,
			ExpiryYear:   s.Result.ExpiryYear,
			SecurityCode: s.Result.SecurityCode,
		}
	}
	return v
}

// buildDaysView lists the days for a selection that may not be stored in the session yet.
func (a *app) buildDaysView(lang string, cal wizard.Calendar, era, year, month, selected string) DaysView {
	enum := a.machine.Enumerator()
	var days []string
	if cal == wizard.CalendarWestern {
		days = enum.DayLabels(year, month)
	} else {
		days = enum.DayLabelsForEra(era, year, month)
	}
	return DaysView{Lang: lang, Days: options(days, selected), Disabled: len(days) == 0}
}

func options(labels []string, selected string) []Option {
	out := make([]Option, 0, len(labels))
	for _, l := range labels {
		out = append(out, Option{Value: l, Label: l, Selected: l == selected})
	}
	return out
}

// westernYearOptions labels each year with its era form, e.g. "1998年（平成10年）".
func westernYearOptions(enum *calendar.Enumerator, selected string) []Option {
	labels := enum.WesternYearLabels()
	out := make([]Option, 0, len(labels))
	for _, l := range labels {
		label := l
		if y, ok := calendar.ParseYearLabel(l); ok {
			if era := enum.Eras().DisplayForWesternYear(y); era != "" {
				label = l + "（" + era + "）"
			}
		}
		out = append(out, Option{Value: l, Label: label, Selected: l == selected})
	}
	return out
}

func calendarLabelKey(c wizard.Calendar) string {
	if c == wizard.CalendarWestern {
		return "calendar.western"
	}
	return "calendar.era"
}

// alertKey maps a step validation error to its message key.
func alertKey(err error) string {
	switch {
	case errors.Is(err, wizard.ErrIncompleteDate):
		return "error.incomplete_date"
	case errors.Is(err, wizard.ErrInvalidExpiryYear):
		return "error.expiry"
	case errors.Is(err, wizard.ErrInvalidSecurityCode):
		return "error.security"
	case errors.Is(err, wizard.ErrUnknownCalendar):
		return "error.calendar"
	default:
		return "error.generic"
	}
}

// rejectReason is the low-cardinality metric attribute for err.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, wizard.ErrIncompleteDate):
		return "incomplete_date"
	case errors.Is(err, wizard.ErrInvalidExpiryYear):
		return "expiry_format"
	case errors.Is(err, wizard.ErrInvalidSecurityCode):
		return "security_format"
	case errors.Is(err, wizard.ErrUnknownCalendar):
		return "calendar"
	default:
		return "other"
	}
}
