package handlers

import "html/template"

// SEOData carries document metadata for the base layout.
type SEOData struct {
	Title       string
	Description string
	Canonical   string
	Robots      string
	Alternates  []Alternate
	// JSONLD holds pre-marshalled schema.org payloads.
	JSONLD []template.JS
}

// Alternate is an hreflang link.
type Alternate struct {
	Href     string
	Hreflang string
}
