package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/atuecke/mock-listener/internal/audio"
	"github.com/atuecke/mock-listener/internal/config"
	"github.com/atuecke/mock-listener/internal/dashboard"
	"github.com/atuecke/mock-listener/internal/event"
	"github.com/atuecke/mock-listener/internal/listener"
	"github.com/atuecke/mock-listener/internal/metrics"
	"github.com/atuecke/mock-listener/internal/server"
	"github.com/atuecke/mock-listener/internal/session"
)

const serviceName = "mock-listener"

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file (optional)")
	filePath := flag.String("file", "", "WAV file to stream")
	listeners := flag.Int("listeners", 0, "Number of simulated listeners")
	interval := flag.Float64("interval", 0, "Pause between file cycles in seconds")
	stagger := flag.Float64("stagger", 0, "Max random startup delay in seconds")
	targetURL := flag.String("url", "", "Upload endpoint URL")
	pageSize := flag.Int("page-size", 0, "PCM bytes per frame")
	noDashboard := flag.Bool("no-dashboard", false, "Disable the terminal dashboard, log events instead")
	statsAddr := flag.String("stats", "", "Enable the stats HTTP server on this address")
	flag.Parse()

	// Load configuration, built-in defaults when no file is given
	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	// Command line flags override the file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "file":
			cfg.Source.Path = *filePath
		case "listeners":
			cfg.Load.Listeners = *listeners
		case "interval":
			cfg.Load.IntervalSeconds = *interval
		case "stagger":
			cfg.Load.StaggerSeconds = *stagger
		case "url":
			cfg.Target.URL = *targetURL
		case "page-size":
			cfg.Load.PageSize = *pageSize
		case "no-dashboard":
			cfg.Dashboard.Enabled = !*noDashboard
		case "stats":
			cfg.Stats.Enabled = true
			cfg.Stats.Address = *statsAddr
		}
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger based on configuration
	logger := initLogger(cfg.Logging)

	runID := uuid.New().String()[:8]
	logger.Info("Load generator starting",
		slog.String("service", serviceName),
		slog.String("run_id", runID),
		slog.String("target", cfg.Target.URL),
		slog.Int("listeners", cfg.Load.Listeners),
	)

	// Load and split the source file once; all listeners share it read-only
	source, err := audio.LoadSource(cfg.Source.Path)
	if err != nil {
		logger.Error("Failed to load audio file", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Audio file loaded",
		slog.String("path", cfg.Source.Path),
		slog.Int("sample_rate", source.SampleRate),
		slog.Int("channels", source.Channels),
		slog.Int("bits_per_sample", source.BitsPerSample),
		slog.Float64("duration_seconds", source.Duration()),
		slog.Int("pages_per_cycle", source.PageCount(cfg.Load.PageSize)),
	)

	// Create cancellable context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize Prometheus metrics
	appMetrics := metrics.NewMetrics()

	// Event feed shared by listeners and whichever frontend is active
	feed := event.NewFeed(event.NewHistory(cfg.Dashboard.HistorySize))

	client, err := session.NewClient(cfg.Target.URL, logger)
	if err != nil {
		logger.Error("Failed to build upload client", slog.String("error", err.Error()))
		os.Exit(1)
	}

	coordinator, err := listener.NewCoordinator(cfg.Load.Listeners, listener.Config{
		Source:   source,
		PageSize: cfg.Load.PageSize,
		Interval: cfg.Load.GetIntervalDuration(),
		Stagger:  cfg.Load.GetStaggerDuration(),
		Client:   client,
		Feed:     feed,
		Metrics:  appMetrics,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("Failed to build listeners", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start the stats server if enabled
	var statsServer *server.StatsServer
	if cfg.Stats.Enabled {
		statsServer = server.NewStatsServer(cfg.Stats.Address, runID, logger, coordinator)
		if err := statsServer.Start(); err != nil {
			logger.Error("Failed to start stats server", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// Run listeners in the background; the foreground is either the
	// dashboard or a plain wait for the shutdown signal.
	done := make(chan struct{})
	go func() {
		defer close(done)
		coordinator.Run(ctx)
	}()

	if cfg.Dashboard.Enabled {
		m := dashboard.New(runID, cfg.Target.URL, source, coordinator, feed)
		if err := dashboard.Run(ctx, m); err != nil {
			logger.Error("Dashboard error", slog.String("error", err.Error()))
		}
		// User quit the dashboard or the context was cancelled; either
		// way the run is over.
		cancel()
	} else {
		go logEvents(ctx, feed, logger)
		<-ctx.Done()
		logger.Info("Received shutdown signal")
	}

	logger.Info("Starting graceful shutdown...")
	<-done

	if statsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := statsServer.Stop(shutdownCtx); err != nil {
			logger.Error("Error stopping stats server", slog.String("error", err.Error()))
		}
	}

	// Final statistics
	totals := coordinator.Totals()
	logger.Info("Final run statistics",
		slog.String("run_id", runID),
		slog.Int("listeners", totals.Listeners),
		slog.Uint64("files_completed", totals.FilesCompleted),
		slog.Float64("audio_seconds_sent", totals.SecondsSent),
	)

	logger.Info("Load generator stopped")
}

// logEvents mirrors the event feed into the structured log when the
// dashboard is disabled.
func logEvents(ctx context.Context, feed *event.Feed, logger *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-feed.Events():
			logger.Info("Listener event",
				slog.String("listener_id", e.ListenerID),
				slog.String("kind", string(e.Kind)),
				slog.String("detail", e.Detail),
			)
		}
	}
}

// initLogger creates and configures the structured logger based on configuration
func initLogger(cfg config.LoggingConfig) *slog.Logger {
	// Parse log level
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo // default fallback
	}

	// Configure handler options
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug, // Add source info for debug level
	}

	// Determine output destination. The dashboard owns stdout, so logs
	// default to stderr.
	var output *os.File
	switch cfg.Output {
	case "stderr", "":
		output = os.Stderr
	case "stdout":
		output = os.Stdout
	default:
		// Assume it's a file path
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v, falling back to stderr\n", cfg.Output, err)
			output = os.Stderr
		} else {
			output = file
		}
	}

	// Create handler based on format
	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	case "text", "":
		handler = slog.NewTextHandler(output, opts)
	default:
		// Default to text format
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler)
}
