// Package index implements the locally-persisted movie index artifact:
// building it from dataset documents, persisting the gob form plus a JSON
// mirror, loading it at front-end startup, and cosine top-K search over it.
package index

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sushrutsadana/movieagent2/internal/domain"
)

// Entry pairs one dataset document with its embedding vector.
type Entry struct {
	Document domain.Document `json:"document"`
	Vector   []float32       `json:"vector"`
}

// Index is the queryable movie index artifact. It is built once by the
// builder, persisted to disk, and loaded read-only by the front-ends.
type Index struct {
	Model      string    `json:"model"`
	Dimensions int       `json:"dimensions"`
	CreatedAt  time.Time `json:"created_at"`
	Checksum   string    `json:"checksum"`
	Entries    []Entry   `json:"entries"`
}

// Build embeds every document and assembles an index.
// Uses the provider's batch endpoint when available.
func Build(ctx context.Context, docs []domain.Document, embedder domain.Embedder, model string, logger *zap.Logger) (*Index, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: no documents to index", domain.ErrData)
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}

	var (
		res domain.BatchEmbeddingResult
		err error
	)
	if be, ok := embedder.(domain.BatchEmbedder); ok {
		res, err = be.BatchEmbed(ctx, texts)
	} else {
		res, err = domain.BatchFallback(ctx, embedder, texts)
	}
	if err != nil {
		return nil, fmt.Errorf("embed documents: %w", err)
	}
	if len(res.Embeddings) != len(docs) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d documents",
			domain.ErrUpstream, len(res.Embeddings), len(docs))
	}

	idx := &Index{
		Model:     model,
		CreatedAt: time.Now().UTC(),
		Entries:   make([]Entry, len(docs)),
	}
	for i, d := range docs {
		idx.Entries[i] = Entry{Document: d, Vector: res.Embeddings[i]}
	}
	if len(idx.Entries) > 0 {
		idx.Dimensions = len(idx.Entries[0].Vector)
	}
	idx.Checksum = idx.computeChecksum()

	logger.Info("Index built",
		zap.Int("documents", len(docs)),
		zap.Int("dimensions", idx.Dimensions),
		zap.Int("total_tokens", res.TotalTokens),
	)
	return idx, nil
}

// Len returns the number of indexed documents.
func (idx *Index) Len() int { return len(idx.Entries) }

// computeChecksum hashes every entry's identity, text, and vector bytes.
// The same value is written to the binary artifact and the JSON mirror so
// Load can detect a diverged pair.
func (idx *Index) computeChecksum() string {
	h := sha256.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(len(idx.Entries)))
	h.Write(buf[:])

	vecBuf := make([]byte, 4)
	for _, e := range idx.Entries {
		h.Write([]byte(e.Document.ID))
		h.Write([]byte{0})
		h.Write([]byte(e.Document.Text))
		h.Write([]byte{0})
		for _, f := range e.Vector {
			binary.LittleEndian.PutUint32(vecBuf, vectorBits(f))
			h.Write(vecBuf)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
