package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Vodeneev/cornerwatch/internal/alert"
	"github.com/Vodeneev/cornerwatch/internal/classify"
	"github.com/Vodeneev/cornerwatch/internal/dedup"
	"github.com/Vodeneev/cornerwatch/internal/feed"
	"github.com/Vodeneev/cornerwatch/internal/pipeline"
	pkgconfig "github.com/Vodeneev/cornerwatch/internal/pkg/config"
	"github.com/Vodeneev/cornerwatch/internal/pkg/logging"
	"github.com/Vodeneev/cornerwatch/internal/snapshot"
)

const defaultConfigPath = "configs/cornerwatch.yaml"

type config struct {
	configPath string
	feedFile   string // replay a saved page instead of the configured feed
	noAlerts   bool
	noSnapshot bool
	quiet      bool
}

func main() {
	if err := run(); err != nil {
		slog.Error("Scan failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional
	_ = godotenv.Load()

	cfg := parseFlags()

	appConfig, err := pkgconfig.Load(cfg.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.feedFile != "" {
		appConfig.Feed.Mode = pkgconfig.FeedFile
		appConfig.Feed.File = cfg.feedFile
	}

	logger, logCloser, err := logging.SetupLogger(&appConfig.Logging, "scanner")
	if err != nil {
		slog.Warn("Failed to setup logging, continuing with default logger", "error", err)
		logger = slog.Default()
	} else {
		defer logCloser.Close()
	}
	logger.Info("Starting live corner scan",
		"config", cfg.configPath,
		"feed", appConfig.Feed.Mode,
		"min_minute", appConfig.Filter.MinMinute,
		"max_minute", appConfig.Filter.MaxMinute)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source, err := buildSource(appConfig.Feed, logger)
	if err != nil {
		return err
	}

	classifier := classify.New(appConfig.Filter.MinMinute, appConfig.Filter.MaxMinute)
	pcfg := pipeline.Config{
		Source:     source,
		Classifier: classifier,
		Logger:     logger,
	}
	if !cfg.quiet {
		pcfg.Summary = os.Stdout
	}
	if appConfig.Snapshot.Enabled && !cfg.noSnapshot {
		pcfg.Snapshot = snapshot.NewFileSink(appConfig.Snapshot.File)
	}

	if !cfg.noAlerts && appConfig.TelegramEnabled() {
		notifier, filter, closeStore := buildAlerting(appConfig, logger)
		if closeStore != nil {
			defer closeStore()
		}
		if notifier != nil {
			pcfg.Notifier = notifier
			pcfg.Dedup = filter
		}
	}

	result, err := pipeline.New(pcfg).Run(ctx)
	if err != nil {
		if errors.Is(err, feed.ErrNoMatchTable) {
			logger.Error("Live matches table not found on the page")
		}
		return err
	}

	logger.Info("Scan complete",
		"rows", result.Rows,
		"matches", result.Records,
		"eligible", len(result.Eligible),
		"alerted", result.Report.Sent)
	return nil
}

func parseFlags() config {
	var cfg config

	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		if _, err := os.Stat(defaultConfigPath); err == nil {
			defaultConfig = defaultConfigPath
		}
	}

	flag.StringVar(&cfg.configPath, "config", defaultConfig, "Path to config file (can be set via CONFIG_PATH env var). Empty = defaults + env")
	flag.StringVar(&cfg.feedFile, "feed-file", "", "Read the matches table from a saved HTML page instead of the live site")
	flag.BoolVar(&cfg.noAlerts, "no-alerts", false, "Do not send Telegram alerts (the sent history is left untouched)")
	flag.BoolVar(&cfg.noSnapshot, "no-snapshot", false, "Do not write the JSON snapshot")
	flag.BoolVar(&cfg.quiet, "quiet", false, "Do not print the console summary")
	flag.Parse()
	return cfg
}

func buildSource(cfg pkgconfig.FeedConfig, logger *slog.Logger) (feed.Source, error) {
	switch cfg.Mode {
	case pkgconfig.FeedBrowser:
		return &feed.BrowserSource{
			BaseURL:      cfg.URL,
			Headless:     cfg.Headless,
			UserAgent:    cfg.UserAgent,
			Timeout:      cfg.Timeout,
			TableTimeout: cfg.TableTimeout,
			SettleDelay:  cfg.SettleDelay,
			ClickDelay:   cfg.ClickDelay,
			Logger:       logger,
		}, nil
	case pkgconfig.FeedHTTP:
		return feed.NewHTTPSource(cfg.URL, cfg.UserAgent, cfg.Timeout), nil
	case pkgconfig.FeedFile:
		return &feed.FileSource{Path: cfg.File, BaseURL: cfg.URL}, nil
	default:
		return nil, fmt.Errorf("unknown feed mode %q", cfg.Mode)
	}
}

// buildAlerting returns a nil notifier when Telegram is unreachable; the run then
// behaves as if alerts were disabled and leaves the history untouched.
func buildAlerting(cfg *pkgconfig.Config, logger *slog.Logger) (*alert.Dispatcher, *dedup.Filter, func()) {
	transport, err := alert.NewTelegramTransport(cfg.Telegram.BotToken, alert.TelegramOptions{
		Endpoint: cfg.Telegram.APIEndpoint,
		Timeout:  cfg.Telegram.SendTimeout,
	})
	if err != nil {
		logger.Error("Failed to initialize Telegram, alerts disabled for this run", "error", err)
		return nil, nil, nil
	}

	store, err := dedup.OpenStore(cfg.History)
	if err != nil {
		logger.Error("Failed to open sent history, falling back to local file", "backend", cfg.History.Backend, "error", err)
		store = dedup.NewFileStore(cfg.History.File)
	}
	logger.Info("Using sent history", "store", store.Name())

	filter := dedup.NewFilter(store, cfg.History.RearmWindow, cfg.History.Retention, dedup.WithLogger(logger))
	dispatcher := alert.NewDispatcher(transport, alert.DispatcherConfig{
		DestinationID: cfg.Telegram.ChatID,
		Composer:      alert.Composer{MinMinute: cfg.Filter.MinMinute, MaxMinute: cfg.Filter.MaxMinute},
		MessageDelay:  cfg.Telegram.MessageDelay,
		SendTimeout:   cfg.Telegram.SendTimeout,
		Logger:        logger,
	})
	return dispatcher, filter, func() {
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close sent history", "error", err)
		}
	}
}
