package main

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"finitefield.org/verinum-web/internal/content"
	mw "finitefield.org/verinum-web/internal/middleware"
	"finitefield.org/verinum-web/internal/nav"
	"finitefield.org/verinum-web/internal/observability"
	"finitefield.org/verinum-web/internal/seo"
	"finitefield.org/verinum-web/internal/wizard"
)

// HelpView lists the help pages and the one being read.
type HelpView struct {
	Lang    string
	Pages   []content.HelpPage
	Current *content.HelpPage
}

// HelpIndexHandler renders every step's help page on one screen.
func (a *app) HelpIndexHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	view, err := a.buildHelpView(r, lang)
	if err != nil {
		a.renderError(w, r, err)
		return
	}
	vm := a.newPage(r, "nav.help")
	vm.Help = view
	a.renderPage(w, r, "help", vm, http.StatusOK)
}

// HelpHandler renders the help page of one step.
func (a *app) HelpHandler(w http.ResponseWriter, r *http.Request) {
	step := chi.URLParam(r, "step")
	if !knownStep(step) {
		a.NotFoundHandler(w, r)
		return
	}
	lang := mw.Lang(r)
	page, err := a.help.Help(r.Context(), step, lang)
	if errors.Is(err, content.ErrNotFound) {
		a.NotFoundHandler(w, r)
		return
	}
	if err != nil {
		a.renderError(w, r, err)
		return
	}
	view, err := a.buildHelpView(r, lang)
	if err != nil {
		a.renderError(w, r, err)
		return
	}
	view.Current = &page

	vm := a.newPage(r, "nav.help")
	vm.Title = page.Title
	vm.SEO.Title = page.Title + " | " + a.bundle.T(lang, "app.name")
	if page.Summary != "" {
		vm.SEO.Description = page.Summary
	}
	vm.Help = view
	vm.SEO.JSONLD = append(vm.SEO.JSONLD,
		seo.Script(seo.HowTo(page.Title, vm.SEO.Canonical, page.Lang, page.UpdatedAt)),
		seo.Script(seo.BreadcrumbList([]seo.BreadcrumbItem{
			{Name: a.bundle.T(lang, "help.title"), Item: siteURL(r, "/help")},
			{Name: page.Title, Item: vm.SEO.Canonical},
		})),
	)
	a.renderPage(w, r, "help", vm, http.StatusOK)
}

// NotFoundHandler renders the 404 page.
func (a *app) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	vm := a.newPage(r, "error.not_found")
	vm.SEO.Robots = "noindex"
	a.renderPage(w, r, "not_found", vm, http.StatusNotFound)
}

func (a *app) buildHelpView(r *http.Request, lang string) (HelpView, error) {
	view := HelpView{Lang: lang}
	for _, step := range wizard.Steps {
		page, err := a.help.Help(r.Context(), step.Key(), lang)
		if errors.Is(err, content.ErrNotFound) {
			observability.FromContext(r.Context()).Debug("help page missing", zap.String("step", step.Key()))
			continue
		}
		if err != nil {
			return HelpView{}, err
		}
		view.Pages = append(view.Pages, page)
	}
	return view, nil
}

func knownStep(key string) bool {
	for _, item := range nav.Steps(wizard.StepBirthdate) {
		if item.Key == key {
			return true
		}
	}
	return false
}
