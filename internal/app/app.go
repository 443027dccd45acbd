// Package app provides the core application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/maker-tools/mwprofile/internal/config"
	"github.com/maker-tools/mwprofile/internal/fetch"
	"github.com/maker-tools/mwprofile/internal/fetch/browser"
	"github.com/maker-tools/mwprofile/internal/fetch/hybrid"
	"github.com/maker-tools/mwprofile/internal/fetch/static"
	"github.com/maker-tools/mwprofile/pkg/models"
)

// Application holds all application dependencies and manages their lifecycle.
// It is created once at startup and shared across all CLI commands.
type Application struct {
	Config     *config.Config
	Logger     *zerolog.Logger
	HTTPClient *http.Client
	Browser    *browser.Fetcher
	Static     *static.Fetcher
	Hybrid     *hybrid.Fetcher
	startTime  time.Time
}

// New creates and initializes a new Application: logger per config, shared
// HTTP client, and the three fetchers. Chrome itself is only launched when
// the browser fetcher actually runs.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logLevel := zerolog.ErrorLevel // default: suppress non-verbose info logs
	switch cfg.LogLevel {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	default:
		logLevel = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	var logWriter io.Writer
	if cfg.JSONLog {
		logWriter = os.Stderr
	} else {
		logWriter = zerolog.NewConsoleWriter()
	}
	logger := log.Output(logWriter).With().Timestamp().Logger()
	log.Logger = logger

	logger.Debug().
		Str("level", cfg.LogLevel).
		Bool("json", cfg.JSONLog).
		Msg("Logger initialized")

	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 4,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	staticFetcher := static.New(httpClient, cfg.UserAgent)
	browserFetcher := browser.New(browser.Options{
		UserAgent:    cfg.UserAgent,
		ChromePath:   cfg.ChromePath,
		ShowBrowser:  !cfg.Headless,
		ReadyTimeout: cfg.ReadyTimeout,
	})
	hybridFetcher := hybrid.New(staticFetcher)

	logger.Debug().Msg("Fetchers initialized")

	return &Application{
		Config:     cfg,
		Logger:     &logger,
		HTTPClient: httpClient,
		Browser:    browserFetcher,
		Static:     staticFetcher,
		Hybrid:     hybridFetcher,
		startTime:  time.Now(),
	}, nil
}

// FetcherFor returns the fetcher implementing the requested mode.
func (a *Application) FetcherFor(mode models.FetchMode) (fetch.Fetcher, error) {
	switch mode {
	case models.ModeBrowser, "":
		return a.Browser, nil
	case models.ModeStatic:
		return a.Static, nil
	case models.ModeHybrid:
		return a.Hybrid, nil
	default:
		return nil, fmt.Errorf("unknown fetch mode: %s", mode)
	}
}

// Close gracefully shuts down the application and its resources.
func (a *Application) Close(ctx context.Context) error {
	if a.HTTPClient != nil {
		a.HTTPClient.CloseIdleConnections()
	}
	a.Logger.Debug().Dur("uptime", time.Since(a.startTime)).Msg("Application shutdown complete")
	return nil
}

// Uptime returns how long the application has been running.
func (a *Application) Uptime() time.Duration {
	return time.Since(a.startTime)
}
