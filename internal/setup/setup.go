// Package setup wires the shared collaborators for the three binaries so the
// composition stays in one place.
package setup

import (
	"go.uber.org/zap"

	"github.com/sushrutsadana/movieagent2/internal/agent"
	"github.com/sushrutsadana/movieagent2/internal/cache"
	"github.com/sushrutsadana/movieagent2/internal/catalog"
	"github.com/sushrutsadana/movieagent2/internal/config"
	"github.com/sushrutsadana/movieagent2/internal/domain"
	"github.com/sushrutsadana/movieagent2/internal/embedding"
	"github.com/sushrutsadana/movieagent2/internal/index"
	"github.com/sushrutsadana/movieagent2/internal/llm"
	"github.com/sushrutsadana/movieagent2/internal/metrics"
	"github.com/sushrutsadana/movieagent2/internal/omdb"
)

// Embedder assembles the embedding chain: OpenAI base, optionally wrapped in
// the Redis cache when cache.addrs is configured. The base is returned
// alongside because it alone carries the provider health check.
// The returned closer releases the cache connection (no-op without cache).
func Embedder(cfg config.Config, logger *zap.Logger) (domain.Embedder, *embedding.OpenAIEmbedder, func(), error) {
	base := embedding.NewOpenAIEmbedder(&embedding.Config{
		APIKey:     cfg.OpenAI.APIKey,
		BaseURL:    cfg.OpenAI.BaseURL,
		Model:      cfg.OpenAI.EmbeddingModel,
		Dimensions: cfg.OpenAI.Dimensions,
		Logger:     logger,
	})

	if len(cfg.Cache.Addrs) == 0 {
		return base, base, func() {}, nil
	}

	store, err := cache.NewStore(cache.Config{
		Addrs:    cfg.Cache.Addrs,
		Password: cfg.Cache.Password,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	logger.Info("Embedding cache enabled", zap.Strings("addrs", cfg.Cache.Addrs))

	cached := embedding.NewCached(base, store, metrics.EmbeddingCacheTotal, logger)
	return cached, base, store.Close, nil
}

// Frontend bundles everything a query front-end needs.
type Frontend struct {
	Agent    *agent.Service
	Catalog  *catalog.Store // nil when no catalog.db was built
	Embedder *embedding.OpenAIEmbedder

	closers []func()
}

// Close releases the front-end's resources.
func (f *Frontend) Close() {
	for i := len(f.closers) - 1; i >= 0; i-- {
		f.closers[i]()
	}
}

// NewFrontend wires the agent over a loaded index artifact. The catalog and
// OMDb client are optional: structured intents degrade to retrieval without
// them.
func NewFrontend(cfg config.Config, idx *index.Index, logger *zap.Logger) (*Frontend, error) {
	queryEmbedder, base, closeEmbedder, err := Embedder(cfg, logger)
	if err != nil {
		return nil, err
	}
	closers := []func(){closeEmbedder}

	var cat *catalog.Store
	var agentCatalog agent.Catalog
	if catalog.Exists(cfg.CatalogPath()) {
		cat, err = catalog.Open(cfg.CatalogPath())
		if err != nil {
			for _, c := range closers {
				c()
			}
			return nil, err
		}
		closers = append(closers, func() { _ = cat.Close() })
		agentCatalog = cat
	} else {
		logger.Warn("No catalog found, structured queries will use the index only",
			zap.String("path", cfg.CatalogPath()))
	}

	var reviews agent.Reviewer
	if cfg.OMDB.APIKey != "" {
		reviews = omdb.New(cfg.OMDB.APIKey, cfg.OMDB.BaseURL)
	} else {
		logger.Warn("No OMDb API key, review queries will use the index only")
	}

	chat := llm.New(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.ChatModel)
	searcher := index.NewSearcher(idx, queryEmbedder)
	svc := agent.New(chat, searcher, agentCatalog, reviews, cfg.Agent.TopK)

	return &Frontend{
		Agent:    svc,
		Catalog:  cat,
		Embedder: base,
		closers:  closers,
	}, nil
}
