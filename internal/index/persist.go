package index

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sushrutsadana/movieagent2/internal/config"
	"github.com/sushrutsadana/movieagent2/internal/domain"
)

// Save persists the index under dir: the gob form at movie_index.bin and the
// human-debuggable mirror at movie_index.json. Both writes go through a temp
// file and rename, and any pre-existing artifact is replaced wholesale —
// last-write-wins, no backup.
func (idx *Index) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}

	if err := writeAtomic(filepath.Join(dir, config.ArtifactBinaryFile), idx.encodeGob); err != nil {
		return fmt.Errorf("write binary artifact: %w", err)
	}
	if err := writeAtomic(filepath.Join(dir, config.ArtifactJSONFile), idx.encodeJSON); err != nil {
		return fmt.Errorf("write json mirror: %w", err)
	}
	return nil
}

// Load reads the artifact pair from dir. The gob form is authoritative; the
// JSON mirror's checksum is cross-checked and a diverged pair fails fast with
// ErrArtifactMismatch. Either file missing fails with ErrArtifactMissing —
// front-ends never build implicitly.
func Load(dir string) (*Index, error) {
	binPath := filepath.Join(dir, config.ArtifactBinaryFile)
	jsonPath := filepath.Join(dir, config.ArtifactJSONFile)

	f, err := os.Open(binPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrArtifactMissing, binPath)
		}
		return nil, fmt.Errorf("open binary artifact: %w", err)
	}
	defer f.Close()

	var idx Index
	if err := gob.NewDecoder(f).Decode(&idx); err != nil {
		return nil, fmt.Errorf("decode binary artifact %s: %w", binPath, err)
	}

	mirrorData, err := os.ReadFile(jsonPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrArtifactMissing, jsonPath)
		}
		return nil, fmt.Errorf("read json mirror: %w", err)
	}

	var mirror struct {
		Checksum string `json:"checksum"`
	}
	if err := json.Unmarshal(mirrorData, &mirror); err != nil {
		return nil, fmt.Errorf("decode json mirror %s: %w", jsonPath, err)
	}
	if mirror.Checksum != idx.Checksum {
		return nil, fmt.Errorf("%w: binary checksum %s, mirror checksum %s",
			domain.ErrArtifactMismatch, idx.Checksum, mirror.Checksum)
	}

	if got := idx.computeChecksum(); got != idx.Checksum {
		return nil, fmt.Errorf("%w: stored checksum %s, recomputed %s",
			domain.ErrArtifactMismatch, idx.Checksum, got)
	}

	return &idx, nil
}

func (idx *Index) encodeGob(f *os.File) error {
	return gob.NewEncoder(f).Encode(idx)
}

func (idx *Index) encodeJSON(f *os.File) error {
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(idx)
}

// writeAtomic writes via a temp file in the same directory and renames into
// place so a crashed builder never leaves a half-written artifact.
func writeAtomic(path string, encode func(*os.File) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := encode(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
