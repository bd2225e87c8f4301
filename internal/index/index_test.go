package index

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/sushrutsadana/movieagent2/internal/config"
	"github.com/sushrutsadana/movieagent2/internal/domain"
)

// --- Mocks ---

type mockEmbedder struct {
	vecs   map[string][]float32
	err    error
	called int
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.called++
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	if vec, ok := m.vecs[text]; ok {
		return domain.EmbeddingResult{Embedding: vec, TotalTokens: 3}, nil
	}
	return domain.EmbeddingResult{Embedding: []float32{1, 0, 0}, TotalTokens: 3}, nil
}

func twoMovieDocs() []domain.Document {
	return []domain.Document{
		{ID: "doc-1", Title: "Moana 2", Text: "Moana 2, animation, playing at PVR Forum Mall"},
		{ID: "doc-2", Title: "Animal", Text: "Animal, action drama, playing at INOX Garuda"},
	}
}

func buildTestIndex(t *testing.T) *Index {
	t.Helper()
	embedder := &mockEmbedder{vecs: map[string][]float32{
		"Moana 2, animation, playing at PVR Forum Mall": {1, 0, 0},
		"Animal, action drama, playing at INOX Garuda":  {0, 1, 0},
	}}
	idx, err := Build(context.Background(), twoMovieDocs(), embedder, "test-model", zap.NewNop())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return idx
}

// --- Build ---

func TestBuild_EmbedsEveryDocument(t *testing.T) {
	idx := buildTestIndex(t)

	if idx.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", idx.Len())
	}
	if idx.Dimensions != 3 {
		t.Errorf("expected dimensions 3, got %d", idx.Dimensions)
	}
	if idx.Checksum == "" {
		t.Error("expected a checksum")
	}
	if idx.Model != "test-model" {
		t.Errorf("expected model test-model, got %q", idx.Model)
	}
}

func TestBuild_NoDocuments(t *testing.T) {
	_, err := Build(context.Background(), nil, &mockEmbedder{}, "m", zap.NewNop())
	if !errors.Is(err, domain.ErrData) {
		t.Fatalf("expected ErrData, got %v", err)
	}
}

func TestBuild_EmbedderFailure(t *testing.T) {
	embedder := &mockEmbedder{err: domain.ErrUpstream}
	_, err := Build(context.Background(), twoMovieDocs(), embedder, "m", zap.NewNop())
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

// --- Save / Load ---

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	idx := buildTestIndex(t)

	if err := idx.Save(dir); err != nil {
		t.Fatalf("Save: %v", err)
	}

	for _, name := range []string{config.ArtifactBinaryFile, config.ArtifactJSONFile} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("artifact %s missing: %v", name, err)
		}
		if info.Size() == 0 {
			t.Errorf("artifact %s is empty", name)
		}
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Len() != idx.Len() {
		t.Errorf("expected %d entries after load, got %d", idx.Len(), loaded.Len())
	}
	if loaded.Checksum != idx.Checksum {
		t.Errorf("checksum changed across round trip")
	}
	if loaded.Entries[0].Document.Title != "Moana 2" {
		t.Errorf("unexpected first document: %q", loaded.Entries[0].Document.Title)
	}
}

func TestLoad_ArtifactMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	if !errors.Is(err, domain.ErrArtifactMissing) {
		t.Fatalf("expected ErrArtifactMissing, got %v", err)
	}
}

func TestLoad_MirrorMissing(t *testing.T) {
	dir := t.TempDir()
	idx := buildTestIndex(t)
	if err := idx.Save(dir); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := os.Remove(filepath.Join(dir, config.ArtifactJSONFile)); err != nil {
		t.Fatal(err)
	}

	_, err := Load(dir)
	if !errors.Is(err, domain.ErrArtifactMissing) {
		t.Fatalf("expected ErrArtifactMissing, got %v", err)
	}
}

func TestLoad_DivergedMirror(t *testing.T) {
	dir := t.TempDir()
	idx := buildTestIndex(t)
	if err := idx.Save(dir); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Simulate a mirror left behind by an older build.
	stale := map[string]any{"checksum": "deadbeef"}
	data, _ := json.Marshal(stale)
	if err := os.WriteFile(filepath.Join(dir, config.ArtifactJSONFile), data, 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(dir)
	if !errors.Is(err, domain.ErrArtifactMismatch) {
		t.Fatalf("expected ErrArtifactMismatch, got %v", err)
	}
}

func TestSave_ReplacesWholesale(t *testing.T) {
	dir := t.TempDir()

	first := buildTestIndex(t)
	if err := first.Save(dir); err != nil {
		t.Fatalf("first Save: %v", err)
	}

	embedder := &mockEmbedder{}
	second, err := Build(context.Background(),
		[]domain.Document{{ID: "doc-3", Title: "KGF 3", Text: "KGF 3, action"}},
		embedder, "test-model", zap.NewNop())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := second.Save(dir); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load after rebuild: %v", err)
	}
	if loaded.Len() != 1 {
		t.Errorf("expected the rebuilt index with 1 entry, got %d", loaded.Len())
	}

	// No temp files or duplicates left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected exactly 2 artifact files, got %v", names)
	}
}

// --- Search ---

func TestSearch_RanksByCosine(t *testing.T) {
	idx := buildTestIndex(t)

	results := idx.Search([]float32{0.9, 0.1, 0}, 2)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Document.Title != "Moana 2" {
		t.Errorf("expected Moana 2 first, got %q", results[0].Document.Title)
	}
	if results[0].Score <= results[1].Score {
		t.Errorf("results not sorted by score: %v vs %v", results[0].Score, results[1].Score)
	}
}

func TestSearch_TopKLimits(t *testing.T) {
	idx := buildTestIndex(t)

	if got := len(idx.Search([]float32{1, 0, 0}, 1)); got != 1 {
		t.Errorf("topK=1: expected 1 result, got %d", got)
	}
	if got := idx.Search([]float32{1, 0, 0}, 0); got != nil {
		t.Errorf("topK=0: expected nil, got %v", got)
	}
}

func TestSearch_SkipsMismatchedVectors(t *testing.T) {
	idx := buildTestIndex(t)

	// Query vector with the wrong dimension matches nothing.
	if got := idx.Search([]float32{1, 0}, 5); len(got) != 0 {
		t.Errorf("expected no results for mismatched dimensions, got %d", len(got))
	}
}

func TestQuery_UsesEmbedder(t *testing.T) {
	idx := buildTestIndex(t)
	embedder := &mockEmbedder{vecs: map[string][]float32{"animal movie": {0, 1, 0}}}

	results, err := idx.Query(context.Background(), embedder, "animal movie", 1)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if embedder.called != 1 {
		t.Errorf("expected 1 embedder call, got %d", embedder.called)
	}
	if len(results) != 1 || results[0].Document.Title != "Animal" {
		t.Fatalf("expected Animal as top result, got %+v", results)
	}
}

func TestQuery_EmbedderError(t *testing.T) {
	idx := buildTestIndex(t)
	embedder := &mockEmbedder{err: domain.ErrUpstream}

	_, err := idx.Query(context.Background(), embedder, "anything", 1)
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}
