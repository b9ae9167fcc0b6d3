package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/arbscan/config"
	"github.com/alejandrodnm/arbscan/internal/adapters/notify"
	"github.com/alejandrodnm/arbscan/internal/adapters/polymarket"
	"github.com/alejandrodnm/arbscan/internal/adapters/storage"
	"github.com/alejandrodnm/arbscan/internal/alert"
	"github.com/alejandrodnm/arbscan/internal/domain"
	"github.com/alejandrodnm/arbscan/internal/ports"
	"github.com/alejandrodnm/arbscan/internal/scanner"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	once := flag.Bool("once", false, "run one scan cycle and exit")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	table := flag.Bool("table", false, "print full table (default: compact 1-line)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	slog.Info("arbscan starting",
		"config", *configPath,
		"interval", cfg.ScanInterval(),
		"once", *once,
	)

	client := polymarket.NewClient(cfg.API.CLOBBase)

	var store *storage.SQLiteStorage
	store, err = storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	notifier := notify.NewConsole(*table)

	senders := []ports.AlertSender{notify.NewConsoleAlert()}
	if cfg.Alerts.TelegramToken != "" && cfg.Alerts.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegram(cfg.Alerts.TelegramToken, cfg.Alerts.TelegramChatID))
		slog.Info("telegram alerts enabled")
	}
	gate := alert.New(cfg.AlertCooldown(), senders...)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	scanCfg := scanner.DefaultConfig()
	scanCfg.ScanInterval = cfg.ScanInterval()
	scanCfg.Builder = scanner.BuilderConfig{
		MinProfitPercent: cfg.Scanner.MinProfitPercent,
		MaxRiskScore:     cfg.Scanner.MaxRiskScore,
		MinLiquidity:     cfg.Scanner.MinLiquidity,
	}
	scanCfg.IncludeCategories = cfg.Scanner.IncludeCategories
	scanCfg.ExcludeCategories = cfg.Scanner.ExcludeCategories
	scanCfg.OnOpportunity = func(opp domain.Opportunity) {
		gate.Dispatch(ctx, opp)
	}

	s := scanner.New(scanCfg, client, client, store, notifier)

	if *once {
		s.RunOnce(ctx)
		slog.Info("single scan complete", "state", s.Describe())
		return
	}

	if err := s.Run(ctx); err != nil {
		slog.Error("scanner exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("arbscan stopped cleanly")
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
