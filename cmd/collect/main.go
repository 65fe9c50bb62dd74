package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/hamed0406/maintwindow/internal/collect"
	"github.com/hamed0406/maintwindow/internal/config"
	"github.com/hamed0406/maintwindow/internal/logging"
	"github.com/hamed0406/maintwindow/internal/metrics"
	"github.com/hamed0406/maintwindow/internal/notify"
)

func main() {
	once := flag.Bool("once", false, "run a single collection and exit")
	flag.Parse()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := logging.NewLogger(cfg.LogDir, "collect", logging.ParseLevel(cfg.LogLevel))
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	metrics.Init()

	var sources []collect.Source
	if cfg.HelpPageURL != "" {
		sources = append(sources, collect.NewHelpPage(cfg.HelpPageURL, cfg.HTTPTimeout))
	}
	if cfg.FeedURL != "" {
		sources = append(sources, collect.NewFeed(cfg.FeedURL, cfg.FeedKeywords, cfg.HTTPTimeout, logger))
	}
	if len(sources) == 0 {
		logger.Fatal("collect_no_sources", zap.String("hint", "set HELP_PAGE_URL or FEED_URL"))
	}

	llm, err := collect.NewOpenAIExtractor(cfg.LLMBaseURL, cfg.GoogleAPIKey, cfg.LLMModel)
	if err != nil {
		logger.Fatal("collect_extractor_init_failed", zap.Error(err))
	}
	llm.Timeout = cfg.HTTPTimeout
	extractor := collect.NewRetrying(llm, cfg.RetryAttempts, cfg.RetryBackoff, logger)

	interval := cfg.CollectInterval
	if *once {
		interval = 0
	}
	runner := collect.NewRunner(
		logger,
		sources,
		extractor,
		notify.New(logger, cfg.SlackWebhookURL),
		cfg.OutputPath,
		interval,
		cfg.HTTPTimeout,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("collect_start",
		zap.Int("sources", len(sources)),
		zap.String("output", cfg.OutputPath),
		zap.Duration("interval", interval),
		zap.String("model", cfg.LLMModel),
	)
	if err := runner.Run(ctx); err != nil {
		logger.Error("collect_exit", zap.Error(err))
		_ = logger.Sync()
		log.Fatal(err)
	}
}
