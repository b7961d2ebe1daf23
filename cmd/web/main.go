package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"finitefield.org/verinum-web/internal/calendar"
	"finitefield.org/verinum-web/internal/config"
	"finitefield.org/verinum-web/internal/content"
	"finitefield.org/verinum-web/internal/i18n"
	mw "finitefield.org/verinum-web/internal/middleware"
	"finitefield.org/verinum-web/internal/observability"
	"finitefield.org/verinum-web/internal/wareki"
	"finitefield.org/verinum-web/internal/wizard"
)

const serviceName = "verinum-web"

// app holds the process-wide dependencies shared by every handler.
// Everything here is read-only after newApp returns.
type app struct {
	cfg      config.Config
	logger   *zap.Logger
	machine  *wizard.Machine
	bundle   *i18n.Bundle
	help     *content.Library
	sessions *mw.SessionStore
	metrics  *observability.WizardMetrics
	views    *templateSet
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "web: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Session.Ephemeral {
		logger.Warn("session keys not configured; using per-process keys, sessions will not survive restarts")
	}

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           a.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("web listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env),
			zap.Bool("dev_mode", cfg.DevMode),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("timeout", cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

func newApp(cfg config.Config, logger *zap.Logger) (*app, error) {
	machine, err := wizard.NewMachine(calendar.NewEnumerator(wareki.New()))
	if err != nil {
		return nil, fmt.Errorf("init wizard: %w", err)
	}

	bundle, err := i18n.Load(cfg.Paths.Locales, cfg.I18n.Fallback, cfg.I18n.Supported)
	if err != nil {
		return nil, fmt.Errorf("load locales: %w", err)
	}

	var libOpts []content.Option
	if cfg.DevMode {
		libOpts = append(libOpts, content.WithCacheTTL(0))
	}
	help := content.NewLibrary(cfg.Paths.Content, cfg.I18n.Fallback, libOpts...)

	sessions, err := mw.NewSessionStore(mw.SessionOptions{
		CookieName: cfg.Session.CookieName,
		HashKey:    cfg.Session.HashKey,
		BlockKey:   cfg.Session.BlockKey,
		Secure:     cfg.Session.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("init sessions: %w", err)
	}

	views, err := newTemplateSet(cfg.Paths.Templates, bundle, cfg.DevMode)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		machine:  machine,
		bundle:   bundle,
		help:     help,
		sessions: sessions,
		metrics:  observability.NewWizardMetrics(nil, logger),
		views:    views,
	}, nil
}

func (a *app) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	// RealIP trusts X-Forwarded-For; only deploy behind a proxy that overwrites it.
	r.Use(middleware.RealIP)
	r.Use(mw.HTMX)
	r.Use(observability.TraceMiddleware(serviceName))
	r.Use(mw.Logger(a.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	assets := http.StripPrefix("/assets", mw.AssetsWithCache(filepath.Join(a.cfg.Paths.Public, "assets")))
	r.Handle("/assets/*", assets)

	r.Group(func(r chi.Router) {
		r.Use(a.sessions.Session)
		r.Use(mw.Locale(a.bundle))
		r.Use(mw.CSRF(a.sessions.Secure()))
		r.Use(mw.VaryLocale)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/verify", http.StatusSeeOther)
		})

		r.Route("/verify", func(r chi.Router) {
			r.Get("/", a.VerifyHandler)
			r.Get("/days", a.DayOptionsFrag)
			r.Post("/calendar", a.CalendarSwitchHandler)
			r.Post("/date", a.DateSelectHandler)
			r.Post("/next", a.NextHandler)
			r.Post("/back", a.BackHandler)
			r.Post("/reset", a.ResetHandler)
		})

		r.Get("/help", a.HelpIndexHandler)
		r.Get("/help/{step}", a.HelpHandler)
	})

	r.NotFound(a.NotFoundHandler)
	return r
}
