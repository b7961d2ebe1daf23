package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

// Browser drives an http.Handler in-process and keeps cookies between requests.
type Browser struct {
	t       testing.TB
	handler http.Handler
	cookies map[string]*http.Cookie
	// Header is added to every request.
	Header http.Header
}

// NewBrowser returns a Browser with an empty cookie jar.
func NewBrowser(t testing.TB, handler http.Handler) *Browser {
	t.Helper()
	return &Browser{t: t, handler: handler, cookies: map[string]*http.Cookie{}, Header: http.Header{}}
}

// Get issues a GET request.
func (b *Browser) Get(target string) *httptest.ResponseRecorder {
	b.t.Helper()
	return b.Do(httptest.NewRequest(http.MethodGet, target, nil))
}

// PostForm issues a form POST. The CSRF token from the cookie jar is added as csrf_token
// unless form already carries one.
func (b *Browser) PostForm(target string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	if form.Get("csrf_token") == "" {
		if c, ok := b.cookies["csrf_token"]; ok {
			form.Set("csrf_token", c.Value)
		}
	}
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.Do(req)
}

// Do sends req with the stored cookies and records any cookies set by the response.
func (b *Browser) Do(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()
	for k, vs := range b.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	for _, c := range b.cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	rec := httptest.NewRecorder()
	b.handler.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return rec
}

// Cookie returns the stored cookie value for name.
func (b *Browser) Cookie(name string) string {
	if c, ok := b.cookies[name]; ok {
		return c.Value
	}
	return ""
}
