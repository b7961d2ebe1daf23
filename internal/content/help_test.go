package content

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestHelpRendersMarkdownWithFrontMatter(t *testing.T) {
	lib := NewLibrary("../../content", "ja")

	page, err := lib.Help(context.Background(), "result", "en")
	if err != nil {
		t.Fatalf("Help: %v", err)
	}
	if page.Title != "About Verification Number B" {
		t.Fatalf("unexpected title %q", page.Title)
	}
	if page.Lang != "en" || page.Step != "result" {
		t.Fatalf("unexpected page identity %s/%s", page.Lang, page.Step)
	}
	if !strings.Contains(string(page.HTML), "<table>") {
		t.Fatalf("expected GFM table in html, got %s", page.HTML)
	}
	if strings.Contains(string(page.HTML), "title:") {
		t.Fatalf("front matter leaked into body: %s", page.HTML)
	}
}

func TestHelpFallsBackToDefaultLanguage(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "ja", "expiry", "---\ntitle: 有効期限\n---\n本文")

	lib := NewLibrary(dir, "ja")
	page, err := lib.Help(context.Background(), "expiry", "en-US")
	if err != nil {
		t.Fatalf("Help: %v", err)
	}
	if page.Lang != "ja" || page.Title != "有効期限" {
		t.Fatalf("expected japanese fallback, got %+v", page)
	}

	if _, err := lib.Help(context.Background(), "missing", "en"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := lib.Help(context.Background(), "../etc/passwd", "en"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected traversal to be rejected, got %v", err)
	}
}

func TestHelpSanitizesHTML(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "en", "security", "Hello <script>alert(1)</script>\n\n[link](https://example.com)")

	page, err := NewLibrary(dir, "en").Help(context.Background(), "security", "en")
	if err != nil {
		t.Fatalf("Help: %v", err)
	}
	html := string(page.HTML)
	if strings.Contains(html, "<script") {
		t.Fatalf("script survived sanitizing: %s", html)
	}
	if !strings.Contains(html, `rel="nofollow"`) {
		t.Fatalf("expected nofollow links: %s", html)
	}
}

func TestHelpCacheHonoursTTL(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "en", "expiry", "---\ntitle: First\n---\nbody")

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	lib := NewLibrary(dir, "en", WithCacheTTL(time.Minute), WithClock(func() time.Time { return now }))

	first, err := lib.Help(context.Background(), "expiry", "en")
	if err != nil {
		t.Fatalf("Help: %v", err)
	}
	writePage(t, dir, "en", "expiry", "---\ntitle: Second\n---\nbody")

	cached, _ := lib.Help(context.Background(), "expiry", "en")
	if cached.Title != first.Title {
		t.Fatalf("expected cached title %q, got %q", first.Title, cached.Title)
	}

	now = now.Add(2 * time.Minute)
	fresh, _ := lib.Help(context.Background(), "expiry", "en")
	if fresh.Title != "Second" {
		t.Fatalf("expected reloaded title, got %q", fresh.Title)
	}
}

func TestSplitFrontMatter(t *testing.T) {
	fm, body := splitFrontMatter("---\ntitle: x\n---\n\nbody")
	if fm != "title: x" || body != "body" {
		t.Fatalf("unexpected split %q / %q", fm, body)
	}
	fm, body = splitFrontMatter("no front matter")
	if fm != "" || body != "no front matter" {
		t.Fatalf("unexpected split %q / %q", fm, body)
	}
}

func writePage(t *testing.T, dir, lang, step, body string) {
	t.Helper()
	path := filepath.Join(dir, "help", lang)
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(path, step+".md"), []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
}
