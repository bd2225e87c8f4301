// Command chatbot is the terminal front-end: it loads the index artifact
// (failing fast when absent) and answers one question per line until the
// user exits.
package main

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/sushrutsadana/movieagent2/internal/config"
	"github.com/sushrutsadana/movieagent2/internal/domain"
	"github.com/sushrutsadana/movieagent2/internal/index"
	logpkg "github.com/sushrutsadana/movieagent2/internal/logger"
	"github.com/sushrutsadana/movieagent2/internal/metrics"
	"github.com/sushrutsadana/movieagent2/internal/setup"
	"github.com/sushrutsadana/movieagent2/internal/transport/console"
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

	logger.Info("Starting terminal chatbot",
		zap.String("version", version.Version),
		zap.String("env", env),
		zap.String("index_dir", cfg.Index.Dir),
	)

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

	ctx := logpkg.NewContext(context.Background(), logger)
	if err := console.Run(ctx, frontend.Agent, cfg.Agent.MaxHistory); err != nil {
		logger.Fatal("Chat loop failed", zap.Error(err))
	}
}
