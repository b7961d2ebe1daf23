package main

import (
	"net/http"
	"net/url"

	handlersPkg "finitefield.org/verinum-web/internal/handlers"
	mw "finitefield.org/verinum-web/internal/middleware"
	"finitefield.org/verinum-web/internal/nav"
)

// newPage fills the layout fields shared by every page.
func (a *app) newPage(r *http.Request, titleKey string) handlersPkg.PageData {
	lang := mw.Lang(r)
	title := a.bundle.T(lang, titleKey)
	brand := a.bundle.T(lang, "app.name")

	vm := handlersPkg.PageData{
		Title:     title,
		Lang:      lang,
		AltLang:   a.altLang(lang),
		CSRFToken: mw.CSRFToken(r),
		DevMode:   a.cfg.DevMode,
		Path:      r.URL.Path,
		Nav:       nav.Build(r.URL.Path),
	}
	vm.SEO.Title = title + " | " + brand
	if title == brand {
		vm.SEO.Title = brand
	}
	vm.SEO.Description = a.bundle.T(lang, "app.description")
	vm.SEO.Canonical = absoluteURL(r)
	vm.SEO.Alternates = a.buildAlternates(r)
	return vm
}

// altLang is the language offered by the switcher.
func (a *app) altLang(lang string) string {
	for _, l := range a.bundle.Supported() {
		if l != lang {
			return l
		}
	}
	return ""
}

func (a *app) buildAlternates(r *http.Request) []handlersPkg.Alternate {
	base := absoluteURL(r)
	out := make([]handlersPkg.Alternate, 0, len(a.bundle.Supported()))
	for _, l := range a.bundle.Supported() {
		u, err := url.Parse(base)
		if err != nil {
			return nil
		}
		q := u.Query()
		q.Set("hl", l)
		u.RawQuery = q.Encode()
		out = append(out, handlersPkg.Alternate{Href: u.String(), Hreflang: l})
	}
	return out
}

// absoluteURL rebuilds the request URL without its query string.
func absoluteURL(r *http.Request) string {
	return siteURL(r, r.URL.Path)
}

// siteURL resolves path against the host the request was made to.
func siteURL(r *http.Request, path string) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	u := url.URL{Scheme: scheme, Host: r.Host, Path: path}
	return u.String()
}
