package main

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"finitefield.org/verinum-web/internal/content"
	mw "finitefield.org/verinum-web/internal/middleware"
	"finitefield.org/verinum-web/internal/nav"
	"finitefield.org/verinum-web/internal/observability"
	"finitefield.org/verinum-web/internal/seo"
	"finitefield.org/verinum-web/internal/wizard"
)

// Form field names posted by the wizard templates.
const (
	fieldCalendar     = "calendar"
	fieldEra          = "era"
	fieldYear         = "year"
	fieldMonth        = "month"
	fieldDay          = "day"
	fieldExpiryYear   = "expiry_year"
	fieldSecurityCode = "security_code"
)

// VerifyHandler renders the current wizard step.
func (a *app) VerifyHandler(w http.ResponseWriter, r *http.Request) {
	s := a.loadState(r)
	if mw.GetSession(r).Wizard != s {
		a.saveState(r, s)
	}
	a.renderVerify(w, r, s, "", http.StatusOK)
}

// CalendarSwitchHandler switches between 和暦 and 西暦, converting the current selection.
func (a *app) CalendarSwitchHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	s := a.loadState(r)
	next, err := a.machine.SwitchCalendar(s, wizard.Calendar(r.PostFormValue(fieldCalendar)))
	if err != nil {
		a.reject(w, r, s, err)
		return
	}
	a.saveState(r, next)
	a.respondBirthdate(w, r, next)
}

// DateSelectHandler stores a partial or complete birthdate selection.
func (a *app) DateSelectHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	s := a.applyDate(a.loadState(r), r.PostForm)
	a.saveState(r, s)
	a.respondBirthdate(w, r, s)
}

// DayOptionsFrag renders the day <option>s for the selection in the query.
func (a *app) DayOptionsFrag(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cal, ok := wizard.ParseCalendar(q.Get(fieldCalendar))
	if !ok {
		cal = a.loadState(r).Calendar
	}
	view := a.buildDaysView(mw.Lang(r), cal, q.Get(fieldEra), q.Get(fieldYear), q.Get(fieldMonth), q.Get(fieldDay))
	a.renderTemplate(w, r, "frag_day_options", view, http.StatusOK)
}

// NextHandler applies the fields of the current step and advances when they validate.
func (a *app) NextHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	s := a.loadState(r)
	form := r.PostForm

	switch s.Step {
	case wizard.StepBirthdate:
		if cal, ok := wizard.ParseCalendar(form.Get(fieldCalendar)); ok && cal != s.Calendar {
			// Fields were rendered for the other calendar; show the converted selection first.
			switched, err := a.machine.SwitchCalendar(s, cal)
			if err != nil {
				a.reject(w, r, s, err)
				return
			}
			a.saveState(r, switched)
			a.renderVerify(w, r, switched, "", http.StatusOK)
			return
		}
		s = a.applyDate(s, form)
	case wizard.StepExpiry:
		if form.Has(fieldExpiryYear) {
			s = a.machine.SetExpiryYear(s, form.Get(fieldExpiryYear))
		}
	case wizard.StepSecurityCode:
		if form.Has(fieldSecurityCode) {
			s = a.machine.SetSecurityCode(s, form.Get(fieldSecurityCode))
		}
	}

	from := s.Step
	next, err := a.machine.Next(s)
	if err != nil {
		a.reject(w, r, s, err)
		return
	}
	a.saveState(r, next)

	ctx := r.Context()
	if next.Step != from {
		a.metrics.Transition(ctx, from.Key(), next.Step.Key())
		observability.FromContext(ctx).Debug("wizard advanced",
			zap.String("from", from.Key()),
			zap.String("to", next.Step.Key()),
		)
	}
	if from == wizard.StepSecurityCode && next.Step == wizard.StepResult {
		a.metrics.Composed(ctx, string(next.Calendar))
	}
	mw.Redirect(w, r, "/verify")
}

// BackHandler returns to the previous step.
func (a *app) BackHandler(w http.ResponseWriter, r *http.Request) {
	s := a.loadState(r)
	prev := a.machine.Back(s)
	if prev.Step != s.Step {
		a.metrics.Transition(r.Context(), s.Step.Key(), prev.Step.Key())
	}
	a.saveState(r, prev)
	mw.Redirect(w, r, "/verify")
}

// ResetHandler discards all progress and issues a new session id.
func (a *app) ResetHandler(w http.ResponseWriter, r *http.Request) {
	sess := mw.GetSession(r)
	sess.RegenerateID()
	sess.SetWizard(a.machine.Reset())
	observability.FromContext(r.Context()).Debug("wizard reset")
	mw.Redirect(w, r, "/verify")
}

func (a *app) loadState(r *http.Request) wizard.State {
	return a.machine.Normalize(mw.GetSession(r).Wizard)
}

func (a *app) saveState(r *http.Request, s wizard.State) {
	mw.GetSession(r).SetWizard(s)
}

// applyDate stores the posted birthdate fields for the active calendar.
// Fields absent from the form keep their stored value.
func (a *app) applyDate(s wizard.State, form url.Values) wizard.State {
	pick := func(key, current string) string {
		if form.Has(key) {
			return strings.TrimSpace(form.Get(key))
		}
		return current
	}
	if s.Calendar == wizard.CalendarWestern {
		return a.machine.SelectWesternDate(s, wizard.WesternDate{
			Year:  pick(fieldYear, s.Western.Year),
			Month: pick(fieldMonth, s.Western.Month),
			Day:   pick(fieldDay, s.Western.Day),
		})
	}
	return a.machine.SelectEraDate(s, wizard.EraDate{
		Era:   pick(fieldEra, s.Era.Era),
		Year:  pick(fieldYear, s.Era.Year),
		Month: pick(fieldMonth, s.Era.Month),
		Day:   pick(fieldDay, s.Era.Day),
	})
}

// reject keeps what was entered and re-renders the step with an inline alert.
func (a *app) reject(w http.ResponseWriter, r *http.Request, s wizard.State, err error) {
	ctx := r.Context()
	observability.FromContext(ctx).Info("wizard step rejected",
		zap.String("step", s.Step.Key()),
		zap.Error(err),
	)
	a.metrics.Rejected(ctx, s.Step.Key(), rejectReason(err))
	a.saveState(r, s)
	a.renderVerify(w, r, s, a.bundle.T(mw.Lang(r), alertKey(err)), http.StatusUnprocessableEntity)
}

func (a *app) respondBirthdate(w http.ResponseWriter, r *http.Request, s wizard.State) {
	if !mw.IsHTMX(r.Context()) {
		http.Redirect(w, r, "/verify", http.StatusSeeOther)
		return
	}
	view := a.buildWizardView(mw.Lang(r), mw.CSRFToken(r), s)
	a.renderTemplate(w, r, "frag_birthdate_fields", view, http.StatusOK)
}

// renderVerify renders the whole page, or only the wizard card for htmx error swaps.
func (a *app) renderVerify(w http.ResponseWriter, r *http.Request, s wizard.State, alert string, status int) {
	lang := mw.Lang(r)
	view := a.buildWizardView(lang, mw.CSRFToken(r), s)
	view.Alert = alert

	if mw.IsHTMX(r.Context()) && status != http.StatusOK {
		a.renderTemplate(w, r, "frag_wizard", view, status)
		return
	}

	vm := a.newPage(r, "step."+s.Step.Key()+".title")
	vm.SEO.Robots = "noindex, nofollow"
	vm.SEO.JSONLD = append(vm.SEO.JSONLD, seo.Script(seo.WebApplication(
		a.bundle.T(lang, "app.name"), vm.SEO.Canonical, vm.SEO.Description, lang,
	)))
	vm.Steps = nav.Steps(s.Step)
	vm.Wizard = view
	if page, err := a.help.Help(r.Context(), s.Step.Key(), lang); err == nil {
		vm.Help = page
	} else if !errors.Is(err, content.ErrNotFound) {
		observability.FromContext(r.Context()).Warn("help panel unavailable", zap.String("step", s.Step.Key()), zap.Error(err))
	}
	a.renderPage(w, r, "verify", vm, status)
}
