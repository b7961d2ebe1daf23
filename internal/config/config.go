package config

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	defaultEnvFile         = ".env"
	defaultEnvironment     = "local"
	defaultPort            = "8080"
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultCookieName      = "VERINUM_SESSION"
	defaultTemplatesDir    = "templates"
	defaultLocalesDir      = "locales"
	defaultContentDir      = "content"
	defaultPublicDir       = "public"
	defaultFallbackLocale  = "ja"
	defaultLogLevel        = "info"

	// EnvProduction enables strict validation and secure cookies.
	EnvProduction = "prod"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Env     string
	DevMode bool
	Server  ServerConfig
	Session SessionConfig
	Paths   PathConfig
	I18n    I18nConfig
	Logging LoggingConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Addr returns the listen address for Port.
func (s ServerConfig) Addr() string { return ":" + s.Port }

// SessionConfig holds the wizard session cookie settings.
type SessionConfig struct {
	CookieName string
	HashKey    []byte
	BlockKey   []byte
	Secure     bool
	// Ephemeral is set when keys were generated for this process only.
	Ephemeral bool
}

// PathConfig lists the runtime asset directories.
type PathConfig struct {
	Templates string
	Locales   string
	Content   string
	Public    string
}

// I18nConfig lists the languages served.
type I18nConfig struct {
	Fallback  string
	Supported []string
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level string
}

// IsProduction reports whether the service runs with production settings.
func (c Config) IsProduction() bool { return c.Env == EnvProduction }

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides. An empty path disables it.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from the process environment.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the configuration from defaults, the .env file, the process environment
// and the explicit map, later sources winning.
func Load(ctx context.Context, opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if err := ctx.Err(); err != nil {
		return Config{}, err
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	env := strings.ToLower(stringWithDefault(lookup, "VERINUM_ENV", defaultEnvironment))
	cfg := Config{
		Env:     env,
		DevMode: boolWithDefault(lookup, "VERINUM_DEV", false),
		Server: ServerConfig{
			Port:            stringWithDefault(lookup, "VERINUM_PORT", stringWithDefault(lookup, "PORT", defaultPort)),
			ReadTimeout:     durationWithDefault(lookup, "VERINUM_SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:    durationWithDefault(lookup, "VERINUM_SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:     durationWithDefault(lookup, "VERINUM_SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
			ShutdownTimeout: durationWithDefault(lookup, "VERINUM_SERVER_SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		},
		Session: SessionConfig{
			CookieName: stringWithDefault(lookup, "VERINUM_SESSION_COOKIE", defaultCookieName),
			Secure:     boolWithDefault(lookup, "VERINUM_SESSION_SECURE", env == EnvProduction),
		},
		Paths: PathConfig{
			Templates: stringWithDefault(lookup, "VERINUM_TEMPLATES_DIR", defaultTemplatesDir),
			Locales:   stringWithDefault(lookup, "VERINUM_LOCALES_DIR", defaultLocalesDir),
			Content:   stringWithDefault(lookup, "VERINUM_CONTENT_DIR", defaultContentDir),
			Public:    stringWithDefault(lookup, "VERINUM_PUBLIC_DIR", defaultPublicDir),
		},
		I18n: I18nConfig{
			Fallback:  strings.ToLower(stringWithDefault(lookup, "VERINUM_I18N_FALLBACK", defaultFallbackLocale)),
			Supported: csvWithDefault(lookup, "VERINUM_I18N_SUPPORTED", []string{"ja", "en"}),
		},
		Logging: LoggingConfig{
			Level: strings.ToLower(stringWithDefault(lookup, "VERINUM_LOG_LEVEL", defaultLogLevel)),
		},
	}

	var invalid []string
	hashKey, hashOK := decodeKey(lookup, "VERINUM_SESSION_HASH_KEY")
	blockKey, blockOK := decodeKey(lookup, "VERINUM_SESSION_BLOCK_KEY")
	if !hashOK {
		invalid = append(invalid, "Session.HashKey")
	}
	if !blockOK {
		invalid = append(invalid, "Session.BlockKey")
	}
	cfg.Session.HashKey = hashKey
	cfg.Session.BlockKey = blockKey

	if (len(cfg.Session.HashKey) == 0 || len(cfg.Session.BlockKey) == 0) && !cfg.IsProduction() {
		if err := fillEphemeralKeys(&cfg.Session); err != nil {
			return Config{}, fmt.Errorf("config: generate session keys: %w", err)
		}
	}

	if err := validateConfig(cfg, invalid); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config, invalid []string) error {
	missing := append([]string(nil), invalid...)
	if strings.TrimSpace(cfg.Server.Port) == "" {
		missing = append(missing, "Server.Port")
	}
	if cfg.Server.ReadTimeout <= 0 {
		missing = append(missing, "Server.ReadTimeout")
	}
	if cfg.Server.WriteTimeout <= 0 {
		missing = append(missing, "Server.WriteTimeout")
	}
	if strings.TrimSpace(cfg.Session.CookieName) == "" {
		missing = append(missing, "Session.CookieName")
	}
	if len(cfg.Session.HashKey) < 32 && !contains(missing, "Session.HashKey") {
		missing = append(missing, "Session.HashKey")
	}
	switch len(cfg.Session.BlockKey) {
	case 16, 24, 32:
	default:
		if !contains(missing, "Session.BlockKey") {
			missing = append(missing, "Session.BlockKey")
		}
	}
	if cfg.IsProduction() && cfg.Session.Ephemeral {
		missing = append(missing, "Session.Ephemeral")
	}
	if len(cfg.I18n.Supported) == 0 || !contains(cfg.I18n.Supported, cfg.I18n.Fallback) {
		missing = append(missing, "I18n.Fallback")
	}
	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func fillEphemeralKeys(s *SessionConfig) error {
	if len(s.HashKey) == 0 {
		s.HashKey = make([]byte, 32)
		if _, err := rand.Read(s.HashKey); err != nil {
			return err
		}
	}
	if len(s.BlockKey) == 0 {
		s.BlockKey = make([]byte, 32)
		if _, err := rand.Read(s.BlockKey); err != nil {
			return err
		}
	}
	s.Ephemeral = true
	return nil
}

// decodeKey accepts standard or URL-safe base64. An unset key yields (nil, true).
func decodeKey(lookup func(string) (string, bool), key string) ([]byte, bool) {
	raw, ok := lookup(key)
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return nil, true
	}
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		if decoded, err := enc.DecodeString(raw); err == nil {
			return decoded, true
		}
	}
	return nil, false
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	file, err := os.Open(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	values := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		values[key] = strings.Trim(strings.TrimSpace(value), "\"'")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}

func csvWithDefault(lookup func(string) (string, bool), key string, fallback []string) []string {
	raw, ok := lookup(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return append([]string(nil), fallback...)
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.ToLower(strings.TrimSpace(part))
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
