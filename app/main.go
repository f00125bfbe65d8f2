package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lysyi3m/blog-migrate/app/api"
	"github.com/lysyi3m/blog-migrate/app/cfg"
	"github.com/lysyi3m/blog-migrate/app/feed"
	"github.com/lysyi3m/blog-migrate/app/importer"
	"github.com/lysyi3m/blog-migrate/app/metrics"
	"github.com/lysyi3m/blog-migrate/app/tumblr"
)

func main() {
	appCfg, err := cfg.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		return
	}

	setupLogger(appCfg.Debug)

	slog.Info("Configuration loaded",
		"version", appCfg.Version,
		"timezone", appCfg.Timezone,
		"endpoint", appCfg.Endpoint,
		"serve", appCfg.Serve)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewPrometheus(registry)

	httpClient := &http.Client{}

	imp := importer.NewImporter(
		feed.NewFetcher(httpClient, appCfg.UserAgent, appCfg.FetchTimeout),
		feed.NewParser(appCfg.Location),
		func(opts tumblr.Options, debugOut func(string)) importer.Poster {
			return tumblr.NewPoster(httpClient, opts, recorder).WithDebugOutput(debugOut)
		},
		recorder,
		importer.Options{
			Endpoint:   appCfg.Endpoint,
			Generator:  appCfg.Generator,
			SupportURL: appCfg.SupportURL,
		},
	)

	if appCfg.Serve {
		serve(appCfg, imp, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		return
	}

	if err := runOnce(appCfg, imp); err != nil {
		os.Exit(1)
	}
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// runOnce imports the job given on the command line, printing status lines to stdout.
func runOnce(appCfg *cfg.Cfg, imp *importer.Importer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, appCfg.MaxRunTime)
	defer cancel()

	result, err := imp.Run(ctx, appCfg.Job, importer.NewTextReporter(os.Stdout))
	if err != nil {
		return err
	}

	slog.Info("Import finished", "run_id", result.RunID, "imported", result.Imported)
	return nil
}

func serve(appCfg *cfg.Cfg, imp *importer.Importer, metricsHandler http.Handler) {
	handler := api.NewHandler(imp, metricsHandler, appCfg.MaxRunTime, appCfg.Version)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	// Imports stream for as long as the run ceiling allows.
	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: appCfg.MaxRunTime + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Shutdown signal received", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown failed", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}
}
