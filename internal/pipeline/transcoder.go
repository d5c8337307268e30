package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/fpang/image-repack/internal/imaging"
)

// Transcoder normalizes cached originals: images wider than MaxWidth are
// downscaled to exactly MaxWidth (aspect preserved), and everything is
// re-encoded in Format regardless of input codec.
type Transcoder struct {
	OutputDir string
	MaxWidth  int
	Format    string
}

// OutputPath returns the deterministic artifact path for a key.
func (t *Transcoder) OutputPath(key string) string {
	return filepath.Join(t.OutputDir, key) + imaging.TargetExtension(t.Format)
}

// Transcode produces the artifact for one cached original. The same input
// always yields the same output path and the same resize decision.
func (t *Transcoder) Transcode(orig *CachedOriginal) (*Artifact, error) {
	outPath := t.OutputPath(orig.Key)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, fmt.Errorf("create output subdir: %w", err)
	}

	if err := imaging.Transcode(orig.Path, outPath, t.MaxWidth, t.Format); err != nil {
		return nil, fmt.Errorf("transcode %s: %w", orig.Key, err)
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return nil, fmt.Errorf("stat artifact: %w", err)
	}

	log.Debug().
		Str("key", orig.Key).
		Str("path", outPath).
		Int64("size_before", orig.Size).
		Int64("size_after", info.Size()).
		Msg("Artifact written")

	return &Artifact{Key: orig.Key, Path: outPath, Size: info.Size()}, nil
}
