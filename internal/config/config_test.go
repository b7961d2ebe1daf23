package config

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func key(n int) string {
	return base64.StdEncoding.EncodeToString([]byte(strings.Repeat("k", n)))
}

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := Load(context.Background(), WithEnvMap(map[string]string{}), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Env != "local" || cfg.IsProduction() {
		t.Errorf("expected local environment, got %s", cfg.Env)
	}
	if cfg.Server.Port != "8080" || cfg.Server.Addr() != ":8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("unexpected read timeout: %s", cfg.Server.ReadTimeout)
	}
	if cfg.Session.CookieName != defaultCookieName {
		t.Errorf("unexpected cookie name %s", cfg.Session.CookieName)
	}
	if cfg.Session.Secure {
		t.Errorf("expected insecure cookies outside prod")
	}
	if !cfg.Session.Ephemeral || len(cfg.Session.HashKey) != 32 || len(cfg.Session.BlockKey) != 32 {
		t.Errorf("expected ephemeral 32-byte keys, got %d/%d", len(cfg.Session.HashKey), len(cfg.Session.BlockKey))
	}
	if cfg.Paths.Templates != "templates" || cfg.Paths.Public != "public" {
		t.Errorf("unexpected paths %+v", cfg.Paths)
	}
	if cfg.I18n.Fallback != "ja" || len(cfg.I18n.Supported) != 2 {
		t.Errorf("unexpected i18n config %+v", cfg.I18n)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("unexpected log level %s", cfg.Logging.Level)
	}
}

func TestLoadWithOverrides(t *testing.T) {
	env := map[string]string{
		"VERINUM_ENV":                  "PROD",
		"PORT":                         "9000",
		"VERINUM_SERVER_READ_TIMEOUT":  "20s",
		"VERINUM_SERVER_WRITE_TIMEOUT": "25",
		"VERINUM_SESSION_HASH_KEY":     key(64),
		"VERINUM_SESSION_BLOCK_KEY":    key(32),
		"VERINUM_I18N_SUPPORTED":       "EN, ja ,",
		"VERINUM_I18N_FALLBACK":        "en",
		"VERINUM_LOG_LEVEL":            "DEBUG",
		"VERINUM_DEV":                  "yes",
	}

	cfg, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !cfg.IsProduction() || !cfg.Session.Secure {
		t.Errorf("expected production with secure cookies")
	}
	if cfg.Session.Ephemeral {
		t.Errorf("configured keys must not be marked ephemeral")
	}
	if cfg.Server.Port != "9000" {
		t.Errorf("expected PORT fallback, got %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 20*time.Second || cfg.Server.WriteTimeout != 25*time.Second {
		t.Errorf("unexpected timeouts %s/%s", cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)
	}
	if got := strings.Join(cfg.I18n.Supported, ","); got != "en,ja" {
		t.Errorf("unexpected supported languages %s", got)
	}
	if cfg.Logging.Level != "debug" || !cfg.DevMode {
		t.Errorf("unexpected logging/dev settings %+v %v", cfg.Logging, cfg.DevMode)
	}
}

func TestLoadRejectsMissingKeysInProduction(t *testing.T) {
	env := map[string]string{"VERINUM_ENV": "prod"}

	_, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	fields := strings.Join(verr.Fields(), ",")
	if !strings.Contains(fields, "Session.HashKey") || !strings.Contains(fields, "Session.BlockKey") {
		t.Fatalf("expected session key fields, got %s", fields)
	}
}

func TestLoadRejectsInvalidKeys(t *testing.T) {
	env := map[string]string{
		"VERINUM_SESSION_HASH_KEY":  key(8),
		"VERINUM_SESSION_BLOCK_KEY": "%%%not-base64%%%",
		"VERINUM_I18N_FALLBACK":     "fr",
	}

	_, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	got := verr.Fields()
	want := []string{"Session.BlockKey", "Session.HashKey", "I18n.Fallback"}
	for _, field := range want {
		found := false
		for _, f := range got {
			if f == field {
				found = true
			}
		}
		if !found {
			t.Errorf("expected %s in %v", field, got)
		}
	}
}

func TestLoadReadsDotEnvWithLowestPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# local overrides\nexport VERINUM_PORT=7000\nVERINUM_LOG_LEVEL='warn'\nVERINUM_TEMPLATES_DIR=\"/srv/templates\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := Load(context.Background(),
		WithEnvFile(path),
		WithoutSystemEnv(),
		WithEnvMap(map[string]string{"VERINUM_LOG_LEVEL": "error"}),
	)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "7000" {
		t.Errorf("expected port from .env, got %s", cfg.Server.Port)
	}
	if cfg.Paths.Templates != "/srv/templates" {
		t.Errorf("expected quotes trimmed, got %s", cfg.Paths.Templates)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("expected explicit map to win over .env, got %s", cfg.Logging.Level)
	}
}

func TestLoadMissingDotEnvIsIgnored(t *testing.T) {
	_, err := Load(context.Background(), WithEnvFile(filepath.Join(t.TempDir(), "absent.env")), WithoutSystemEnv())
	if err != nil {
		t.Fatalf("expected missing .env to be ignored, got %v", err)
	}
}
