// Command telegram-bot is the Telegram front-end: it loads the index
// artifact (failing fast when absent), long-polls for messages, and serves
// health/metrics on the container's exposed port.
package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/sushrutsadana/movieagent2/internal/config"
	"github.com/sushrutsadana/movieagent2/internal/domain"
	"github.com/sushrutsadana/movieagent2/internal/index"
	logpkg "github.com/sushrutsadana/movieagent2/internal/logger"
	"github.com/sushrutsadana/movieagent2/internal/metrics"
	"github.com/sushrutsadana/movieagent2/internal/setup"
	"github.com/sushrutsadana/movieagent2/internal/transport/health"
	"github.com/sushrutsadana/movieagent2/internal/transport/telegram"
	"github.com/sushrutsadana/movieagent2/internal/version"
)

func main() {
	config.LoadEnvFile()
	env := config.GetEnv()

	cfg := config.MustLoad(env)

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting Telegram bot",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.String("index_dir", cfg.Index.Dir),
		zap.Int("http_port", cfg.HTTP.Port),
	)

	if cfg.Telegram.Token == "" {
		logger.Fatal("Telegram token is required",
			zap.Error(errors.New("set TELEGRAM_BOT_TOKEN: "+domain.ErrConfiguration.Error())))
	}

	metrics.Register()

	idx, err := index.Load(cfg.Index.Dir)
	if err != nil {
		if errors.Is(err, domain.ErrArtifactMissing) {
			logger.Fatal("Index artifact not found. Run build-index first.", zap.Error(err))
		}
		logger.Fatal("Failed to load index artifact", zap.Error(err))
	}
	logger.Info("Index artifact loaded", zap.Int("documents", idx.Len()))

	frontend, err := setup.NewFrontend(cfg, idx, logger)
	if err != nil {
		logger.Fatal("Failed to wire agent", zap.Error(err))
	}
	defer frontend.Close()

	bot, err := telegram.New(cfg.Telegram.Token, frontend.Agent, cfg.Agent.MaxHistory, logger)
	if err != nil {
		logger.Fatal("Failed to connect to Telegram", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var catalogPinger health.Pinger
	if frontend.Catalog != nil {
		catalogPinger = frontend.Catalog
	}
	healthSrv := health.NewServer(health.Config{
		Port:            cfg.HTTP.Port,
		ReadTimeoutSec:  cfg.HTTP.ReadTimeoutSec,
		WriteTimeoutSec: cfg.HTTP.WriteTimeoutSec,
		ShutdownSec:     cfg.HTTP.ShutdownSec,
	}, catalogPinger, frontend.Embedder, logger)

	healthErr := make(chan error, 1)
	go func() { healthErr <- healthSrv.Run(ctx) }()

	if err := bot.Run(ctx, cfg.Telegram.PollTimeoutSec); err != nil {
		logger.Fatal("Bot loop failed", zap.Error(err))
	}

	if err := <-healthErr; err != nil {
		logger.Error("Health server error", zap.Error(err))
	}
	logger.Info("Bot stopped gracefully")
}
