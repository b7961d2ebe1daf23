package handlers

import (
	"html/template"

	"finitefield.org/verinum-web/internal/nav"
)

// PageData is the view model for pages using the shared layout.
type PageData struct {
	Title     string
	Lang      string
	AltLang   string
	SEO       SEOData
	CSRFToken string
	DevMode   bool

	Path  string
	Nav   []nav.RenderedItem
	Steps []nav.StepItem

	// Optional per-page view model payloads
	Wizard any
	Help   any

	// Body is the rendered page template, filled in before the layout runs.
	Body template.HTML
}
