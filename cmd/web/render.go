package main

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"finitefield.org/verinum-web/internal/format"
	handlersPkg "finitefield.org/verinum-web/internal/handlers"
	"finitefield.org/verinum-web/internal/i18n"
	"finitefield.org/verinum-web/internal/observability"
)

// templateSet parses every .tmpl file under dir. In dev mode the set is reparsed on each lookup.
type templateSet struct {
	dir    string
	bundle *i18n.Bundle
	dev    bool

	mu     sync.RWMutex
	cached *template.Template
}

func newTemplateSet(dir string, bundle *i18n.Bundle, dev bool) (*templateSet, error) {
	ts := &templateSet{dir: dir, bundle: bundle, dev: dev}
	t, err := ts.parse()
	if err != nil {
		return nil, err
	}
	ts.cached = t
	return ts, nil
}

func (ts *templateSet) lookup() (*template.Template, error) {
	if ts.dev {
		t, err := ts.parse()
		if err != nil {
			return nil, err
		}
		ts.mu.Lock()
		ts.cached = t
		ts.mu.Unlock()
		return t, nil
	}
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return ts.cached, nil
}

func (ts *templateSet) parse() (*template.Template, error) {
	// Recursively discover and parse all .tmpl files. ParseGlob doesn't support **.
	var files []string
	if err := filepath.WalkDir(ts.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".tmpl") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found under %s", ts.dir)
	}
	return template.New("_root").Funcs(ts.funcs()).ParseFiles(files...)
}

func (ts *templateSet) funcs() template.FuncMap {
	return template.FuncMap{
		"now":  time.Now,
		"T":    ts.bundle.T,
		"Tf":   ts.bundle.Tf,
		"mask": format.Mask,
		"dict": dict,
	}
}

// dict builds a map from alternating key/value arguments so partials can take several values.
func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, errors.New("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		m[key] = kv[i+1]
	}
	return m, nil
}

// renderPage renders page_<name> into the base layout.
func (a *app) renderPage(w http.ResponseWriter, r *http.Request, name string, vm handlersPkg.PageData, status int) {
	t, err := a.views.lookup()
	if err != nil {
		a.renderError(w, r, fmt.Errorf("template parse: %w", err))
		return
	}
	var body bytes.Buffer
	if err := t.ExecuteTemplate(&body, "page_"+name, vm); err != nil {
		a.renderError(w, r, fmt.Errorf("template exec %s: %w", name, err))
		return
	}
	vm.Body = template.HTML(body.String())

	var out bytes.Buffer
	if err := t.ExecuteTemplate(&out, "base", vm); err != nil {
		a.renderError(w, r, fmt.Errorf("template exec base: %w", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = out.WriteTo(w)
}

// renderTemplate renders a single named fragment, used for htmx swaps.
func (a *app) renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any, status int) {
	t, err := a.views.lookup()
	if err != nil {
		a.renderError(w, r, fmt.Errorf("template parse: %w", err))
		return
	}
	var out bytes.Buffer
	if err := t.ExecuteTemplate(&out, name, data); err != nil {
		a.renderError(w, r, fmt.Errorf("template exec %s: %w", name, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = out.WriteTo(w)
}

func (a *app) renderError(w http.ResponseWriter, r *http.Request, err error) {
	observability.FromContext(r.Context()).Error("render failed", zap.Error(err))
	msg := "internal server error"
	if a.cfg.DevMode {
		msg = err.Error()
	}
	http.Error(w, msg, http.StatusInternalServerError)
}
