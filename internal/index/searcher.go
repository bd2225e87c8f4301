package index

import (
	"context"

	"github.com/sushrutsadana/movieagent2/internal/domain"
)

// Searcher binds a loaded index to a query embedder so callers can query
// with plain text.
type Searcher struct {
	idx      *Index
	embedder domain.Embedder
}

// NewSearcher creates a Searcher over a loaded index.
func NewSearcher(idx *Index, embedder domain.Embedder) *Searcher {
	return &Searcher{idx: idx, embedder: embedder}
}

// Query embeds the question and returns the top-K matching documents.
func (s *Searcher) Query(ctx context.Context, question string, topK int) ([]Scored, error) {
	return s.idx.Query(ctx, s.embedder, question, topK)
}
