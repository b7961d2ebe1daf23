package nav

import (
	"strings"

	"finitefield.org/verinum-web/internal/wizard"
)

// Item represents a top-level navigation item.
type Item struct {
	Path     string // e.g. "/verify"
	LabelKey string // i18n key, e.g. "nav.verify"
}

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Href     string
	LabelKey string
	Active   bool
}

// Main is the primary navigation definition.
var Main = []Item{
	{Path: "/verify", LabelKey: "nav.verify"},
	{Path: "/help", LabelKey: "nav.help"},
}

// Build renders navigation items with active state given the current path.
func Build(currentPath string) []RenderedItem {
	if currentPath == "" {
		currentPath = "/"
	}
	items := make([]RenderedItem, 0, len(Main))
	for _, it := range Main {
		items = append(items, RenderedItem{
			Href:     it.Path,
			LabelKey: it.LabelKey,
			Active:   isActive(it.Path, currentPath),
		})
	}
	return items
}

func isActive(itemPath, currentPath string) bool {
	if itemPath == "/" {
		return currentPath == "/"
	}
	// match exact or prefix boundary: "/help" or "/help/..."
	return currentPath == itemPath || strings.HasPrefix(currentPath, itemPath+"/")
}

// StepItem is one entry of the wizard step rail.
type StepItem struct {
	Number   int
	Key      string
	LabelKey string
	HelpHref string
	Active   bool
	Done     bool
}

// Steps renders the step rail for the active step. Steps before it are marked done.
func Steps(active wizard.Step) []StepItem {
	items := make([]StepItem, 0, len(wizard.Steps))
	for i, step := range wizard.Steps {
		items = append(items, StepItem{
			Number:   i + 1,
			Key:      step.Key(),
			LabelKey: "step." + step.Key() + ".nav",
			HelpHref: "/help/" + step.Key(),
			Active:   step == active,
			Done:     step < active,
		})
	}
	return items
}
