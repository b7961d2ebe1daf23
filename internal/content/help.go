package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"gopkg.in/yaml.v3"
)

const (
	defaultContentDir = "content"
	helpKind          = "help"
	defaultCacheTTL   = 5 * time.Minute
)

// ErrNotFound is returned when no help page exists for a step in any language.
var ErrNotFound = errors.New("content: not found")

// HelpPage is a rendered help panel for one wizard step.
type HelpPage struct {
	Step      string
	Lang      string
	Title     string
	Summary   string
	HTML      template.HTML
	UpdatedAt time.Time
}

type frontMatter struct {
	Title     string `yaml:"title"`
	Summary   string `yaml:"summary"`
	Lang      string `yaml:"lang"`
	UpdatedAt string `yaml:"updated_at"`
}

type cacheEntry struct {
	page    HelpPage
	expires time.Time
}

// Library loads help pages from <dir>/help/<lang>/<step>.md.
type Library struct {
	dir      string
	fallback string
	ttl      time.Duration
	now      func() time.Time
	md       goldmark.Markdown
	policy   *bluemonday.Policy

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

// Option customises a Library.
type Option func(*Library)

// WithCacheTTL overrides how long rendered pages are kept. Zero disables caching.
func WithCacheTTL(d time.Duration) Option {
	return func(l *Library) {
		if d < 0 {
			d = 0
		}
		l.ttl = d
	}
}

// WithClock replaces time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(l *Library) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLibrary returns a Library rooted at dir. Pages missing in the requested
// language fall back to fallbackLang.
func NewLibrary(dir, fallbackLang string, opts ...Option) *Library {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = defaultContentDir
	}
	l := &Library{
		dir:      dir,
		fallback: normalizeLang(fallbackLang),
		ttl:      defaultCacheTTL,
		now:      time.Now,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		policy: newHelpHTMLPolicy(),
		cache:  map[string]cacheEntry{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Help returns the rendered help page for step in lang.
func (l *Library) Help(ctx context.Context, step, lang string) (HelpPage, error) {
	if err := ctx.Err(); err != nil {
		return HelpPage{}, err
	}
	step = sanitizeSlug(step)
	if step == "" {
		return HelpPage{}, ErrNotFound
	}
	lang = normalizeLang(lang)

	key := lang + "|" + step
	if page, ok := l.cached(key); ok {
		return page, nil
	}

	priority := []string{lang}
	if l.fallback != "" && l.fallback != lang {
		priority = append(priority, l.fallback)
	}
	for _, candidate := range priority {
		page, err := l.read(step, candidate)
		if err == nil {
			l.store(key, page)
			return page, nil
		}
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return HelpPage{}, err
	}
	return HelpPage{}, ErrNotFound
}

func (l *Library) read(step, lang string) (HelpPage, error) {
	if lang == "" {
		return HelpPage{}, ErrNotFound
	}
	file := filepath.Join(l.dir, helpKind, lang, step+".md")
	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return HelpPage{}, ErrNotFound
		}
		return HelpPage{}, err
	}

	fm, body := splitFrontMatter(string(data))
	front := frontMatter{}
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
			return HelpPage{}, fmt.Errorf("content: parse front matter %s: %w", file, err)
		}
	}

	var buf bytes.Buffer
	if err := l.md.Convert([]byte(body), &buf); err != nil {
		return HelpPage{}, fmt.Errorf("content: render %s: %w", file, err)
	}

	page := HelpPage{
		Step:      step,
		Lang:      firstNonEmpty(strings.TrimSpace(front.Lang), lang),
		Title:     strings.TrimSpace(front.Title),
		Summary:   strings.TrimSpace(front.Summary),
		HTML:      template.HTML(l.policy.SanitizeBytes(buf.Bytes())),
		UpdatedAt: parseContentDate(front.UpdatedAt),
	}
	if page.UpdatedAt.IsZero() {
		if info, err := os.Stat(file); err == nil {
			page.UpdatedAt = info.ModTime()
		}
	}
	return page, nil
}

func (l *Library) cached(key string) (HelpPage, bool) {
	if l.ttl == 0 {
		return HelpPage{}, false
	}
	l.mu.RLock()
	entry, ok := l.cache[key]
	l.mu.RUnlock()
	if !ok || l.now().After(entry.expires) {
		return HelpPage{}, false
	}
	return entry.page, true
}

func (l *Library) store(key string, page HelpPage) {
	if l.ttl == 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache[key] = cacheEntry{page: page, expires: l.now().Add(l.ttl)}
}

func newHelpHTMLPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").OnElements("p", "span", "code")
	policy.RequireNoFollowOnLinks(true)
	return policy
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	lines := strings.Split(input, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n\r")
		}
	}
	return "", input
}

func parseContentDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006/01/02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func sanitizeSlug(slug string) string {
	slug = strings.Trim(strings.TrimSpace(strings.ToLower(slug)), "/")
	if slug == "" || strings.Contains(slug, "..") || strings.ContainsAny(slug, `/\`) {
		return ""
	}
	return slug
}

func normalizeLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	return lang
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
