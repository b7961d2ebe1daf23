package seo

import (
	"encoding/json"
	"html/template"
	"time"
)

const schemaContext = "https://schema.org"

// Script marshals a schema payload for a <script type="application/ld+json"> block.
// It returns an empty value on error.
func Script(v any) template.JS {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return template.JS(b)
}

// WebApplication describes the calculator itself.
func WebApplication(name, url, description, lang string) map[string]any {
	m := map[string]any{
		"@context":            schemaContext,
		"@type":               "WebApplication",
		"name":                name,
		"applicationCategory": "UtilitiesApplication",
		"operatingSystem":     "Any",
		"isAccessibleForFree": true,
	}
	if url != "" {
		m["url"] = url
	}
	if description != "" {
		m["description"] = description
	}
	if lang != "" {
		m["inLanguage"] = lang
	}
	return m
}

// BreadcrumbItem maps name and absolute item URL.
type BreadcrumbItem struct {
	Name string
	Item string
}

// BreadcrumbList builds schema.org BreadcrumbList.
func BreadcrumbList(items []BreadcrumbItem) map[string]any {
	el := make([]map[string]any, 0, len(items))
	for i, it := range items {
		el = append(el, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     it.Name,
			"item":     it.Item,
		})
	}
	return map[string]any{
		"@context":        schemaContext,
		"@type":           "BreadcrumbList",
		"itemListElement": el,
	}
}

// HowTo renders a help page as a HowTo article. A zero modified time is omitted.
func HowTo(headline, url, lang string, modified time.Time) map[string]any {
	m := map[string]any{
		"@context": schemaContext,
		"@type":    "HowTo",
		"name":     headline,
	}
	if url != "" {
		m["url"] = url
	}
	if lang != "" {
		m["inLanguage"] = lang
	}
	if !modified.IsZero() {
		m["dateModified"] = modified.Format("2006-01-02")
	}
	return m
}
