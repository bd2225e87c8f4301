// Command build-index ingests the source dataset, embeds every document, and
// persists the index artifact pair plus the SQLite catalog. Run it before
// starting either front-end; re-running replaces the artifacts wholesale.
package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/sushrutsadana/movieagent2/internal/catalog"
	"github.com/sushrutsadana/movieagent2/internal/config"
	"github.com/sushrutsadana/movieagent2/internal/dataset"
	"github.com/sushrutsadana/movieagent2/internal/index"
	logpkg "github.com/sushrutsadana/movieagent2/internal/logger"
	"github.com/sushrutsadana/movieagent2/internal/metrics"
	"github.com/sushrutsadana/movieagent2/internal/setup"
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

	logger.Info("Starting index builder",
		zap.String("version", version.Version),
		zap.String("env", env),
		zap.String("dataset_dir", cfg.Dataset.Dir),
		zap.String("index_dir", cfg.Index.Dir),
	)

	metrics.Register()
	ctx := context.Background()

	docs, err := dataset.ReadDocuments(cfg.Dataset.Dir)
	if err != nil {
		logger.Fatal("Failed to read dataset", zap.Error(err))
	}
	logger.Info("Dataset loaded", zap.Int("documents", len(docs)))

	embedder, _, closeEmbedder, err := setup.Embedder(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create embedder", zap.Error(err))
	}
	defer closeEmbedder()

	idx, err := index.Build(ctx, docs, embedder, cfg.OpenAI.EmbeddingModel, logger)
	if err != nil {
		logger.Fatal("Failed to build index", zap.Error(err))
	}
	if err := idx.Save(cfg.Index.Dir); err != nil {
		logger.Fatal("Failed to save index artifact", zap.Error(err))
	}
	logger.Info("Index artifact saved",
		zap.String("binary", cfg.BinaryArtifactPath()),
		zap.String("json_mirror", cfg.JSONArtifactPath()),
		zap.Int("documents", idx.Len()),
	)

	if err := rebuildCatalog(ctx, cfg, logger); err != nil {
		logger.Fatal("Failed to rebuild catalog", zap.Error(err))
	}

	logger.Info("Build complete")
	os.Exit(0)
}

// rebuildCatalog refreshes the SQLite catalog from the dataset's showtime
// rows. Datasets without showtime CSVs simply skip the catalog.
func rebuildCatalog(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	rows, err := dataset.ReadShowtimes(cfg.Dataset.Dir)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		logger.Info("No showtime rows in dataset, skipping catalog")
		return nil
	}

	store, err := catalog.Open(cfg.CatalogPath())
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Rebuild(ctx, rows); err != nil {
		return err
	}
	logger.Info("Catalog rebuilt",
		zap.String("path", cfg.CatalogPath()),
		zap.Int("showtimes", len(rows)),
	)
	return nil
}
