// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/suppai/internal/apiclient"
	"github.com/starford/suppai/internal/mcpserver"
	"github.com/starford/suppai/internal/sse"
	"github.com/starford/suppai/internal/web"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{version: "dev", logOutput: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

func newLogger(w io.Writer, cfg *ApplicationConfig) *slog.Logger {
	hopts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == LogFormatText {
		return slog.New(slog.NewTextHandler(w, hopts))
	}
	return slog.New(slog.NewJSONHandler(w, hopts))
}

func newClient(cfg *APIConfig, logger *slog.Logger) *apiclient.Client {
	return apiclient.New(cfg.Origin,
		apiclient.WithClientID(cfg.ClientID),
		apiclient.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		apiclient.WithLogger(logger),
	)
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := newLogger(app.logOutput, &cfg.App)
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("api_origin", cfg.API.Origin),
		slog.Bool("api_proxy", cfg.API.Proxy),
		slog.String("canonical_origin", cfg.Site.CanonicalOrigin),
		slog.String("templates_dir", cfg.Templates.Dir),
		slog.String("log_level", cfg.App.LogLevel.String()))

	client := newClient(&cfg.API, logger)

	renderer, err := web.NewRenderer(cfg.Templates.Dir)
	if err != nil {
		return fmt.Errorf("init templates: %w", err)
	}

	broker := sse.NewBroker(cfg.Meta.BroadcastInterval)
	defer broker.Close()

	serverOpts := []web.Option{
		web.WithEvents(broker),
		web.WithTypeaheadDelay(cfg.Typeahead.Debounce),
		web.WithLogger(logger),
	}
	if cfg.API.Proxy {
		proxy, err := web.NewAPIProxy(cfg.API.Origin, logger)
		if err != nil {
			return fmt.Errorf("init api proxy: %w", err)
		}
		serverOpts = append(serverOpts, web.WithProxy(proxy))
	}

	site := web.Site{
		Title:           cfg.Site.Title,
		AnalyticsID:     cfg.Site.AnalyticsID,
		CanonicalOrigin: cfg.Site.CanonicalOrigin,
	}
	srv := web.NewServer(client, renderer, site, serverOpts...)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Poll index metadata and push changes to /events subscribers.
	g.Go(func() error {
		sse.PollMeta(gCtx, client, broker, cfg.Meta.PollInterval, logger)
		return nil
	})

	if cfg.Templates.Reload {
		g.Go(func() error {
			if err := renderer.Watch(gCtx, logger); err != nil {
				logger.Warn("template watcher disabled", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		// Open event streams never finish on their own.
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown stops the remaining group members after a signal.
var errShutdown = errors.New("shutdown")

// RunMCP serves the MCP tools over stdio until stdin closes.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(append([]Option{WithLogOutput(os.Stderr)}, opts...))
	if err != nil {
		return err
	}
	cfg := app.config

	logger := newLogger(app.logOutput, &cfg.App)
	slog.SetDefault(logger)

	client := newClient(&cfg.API, logger)
	logger.Info("MCP server starting", slog.String("api_origin", cfg.API.Origin))

	done := make(chan error, 1)
	go func() { done <- mcpserver.New(client, app.version).ServeStdio() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return nil
	}
}
