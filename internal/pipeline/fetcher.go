package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fpang/image-repack/internal/imaging"
	"github.com/fpang/image-repack/internal/objectstore"
)

// Fetcher retrieves originals from the source store into the local cache.
// It is only invoked on a cache miss.
type Fetcher struct {
	Store    objectstore.Getter
	Bucket   string
	CacheDir string
}

// Fetch downloads the object for key, probes its decoded format, and commits
// it to the canonical cache path <CacheDir>/<key><ext> where ext is derived
// from the probed format. The body is streamed to a uniquely named temp file
// first; the atomic rename at the end is the sole commit point, so a crash
// mid-download never leaves a file the Resolver would mistake for a complete
// original.
func (f *Fetcher) Fetch(ctx context.Context, key string) (*CachedOriginal, error) {
	log.Debug().Str("bucket", f.Bucket).Str("key", key).Msg("Fetching original")

	body, err := f.Store.Get(ctx, f.Bucket, key)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", key, err)
	}
	defer body.Close()

	// Keys may contain slashes; the cache mirrors that layout.
	base := filepath.Join(f.CacheDir, key)
	if err := os.MkdirAll(filepath.Dir(base), 0o755); err != nil {
		return nil, fmt.Errorf("create cache subdir: %w", err)
	}

	tmpPath := base + ".tmp-" + uuid.NewString()
	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}

	if _, err := io.Copy(tmpFile, body); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("stream %s: %w", key, err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	// Extension comes from the decoded format, not the key. An unprobeable
	// file still gets cached (as .jpg) so the bytes are kept; the transcode
	// stage will surface the decode failure for that key.
	probed, probeErr := imaging.Probe(tmpPath)
	if probeErr != nil {
		log.Warn().Err(probeErr).Str("key", key).Msg("Could not probe fetched object, defaulting extension")
	}

	canonical := base + imaging.ExtensionForFormat(probed.Format)
	if err := os.Rename(tmpPath, canonical); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("commit %s: %w", key, err)
	}

	info, err := os.Stat(canonical)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", canonical, err)
	}

	logCaptureInfo(key, canonical)

	log.Debug().
		Str("key", key).
		Str("path", canonical).
		Str("format", probed.Format).
		Int64("size", info.Size()).
		Msg("Original cached")

	return &CachedOriginal{
		Key:    key,
		Path:   canonical,
		Size:   info.Size(),
		Width:  probed.Width,
		Height: probed.Height,
	}, nil
}

// logCaptureInfo logs EXIF capture metadata at debug level. Best-effort:
// most PNGs and many web assets carry no EXIF block.
func logCaptureInfo(key, path string) {
	info, err := imaging.ProbeEXIF(path)
	if err != nil {
		return
	}
	event := log.Debug().Str("key", key)
	if info.HasDate {
		event = event.Time("date_taken", info.DateTaken)
	}
	if info.CameraMake != "" || info.CameraModel != "" {
		event = event.Str("camera", info.CameraMake+" "+info.CameraModel)
	}
	event.Msg("Capture metadata")
}
