package index

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/sushrutsadana/movieagent2/internal/domain"
)

// Scored is one search result: a document with its cosine similarity score.
type Scored struct {
	Document domain.Document
	Score    float64
}

// Search runs brute-force cosine top-K over the index entries.
func (idx *Index) Search(queryVec []float32, topK int) []Scored {
	if topK <= 0 || len(idx.Entries) == 0 {
		return nil
	}

	scored := make([]Scored, 0, len(idx.Entries))
	for _, e := range idx.Entries {
		score := cosine(queryVec, e.Vector)
		if math.IsNaN(score) {
			continue
		}
		scored = append(scored, Scored{Document: e.Document, Score: score})
	}

	sort.Slice(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored
}

// Query embeds the question and returns the top-K matching documents.
func (idx *Index) Query(ctx context.Context, embedder domain.Embedder, question string, topK int) ([]Scored, error) {
	res, err := embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}
	return idx.Search(res.Embedding, topK), nil
}

// cosine computes cosine similarity. Returns NaN for zero or
// dimension-mismatched vectors so callers can skip them.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.NaN()
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return math.NaN()
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func vectorBits(f float32) uint32 {
	return math.Float32bits(f)
}
