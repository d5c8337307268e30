package pipeline

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/fpang/image-repack/internal/imaging"
)

// cacheExtensions is the ordered list of extensions a cached original may
// carry. Resolution tests each exact <key><ext> pairing in this order; no
// globbing, so keys that are prefixes of one another never collide.
var cacheExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".gif", ".tiff", ".avif"}

// Resolver answers whether a key's original is already cached on disk.
// It is read-only apart from a header-only metadata probe on a hit.
type Resolver struct {
	CacheDir string
}

// Resolve returns the cached original for key, or ErrCacheMiss if none of
// the recognized extensions exists under the cache directory.
func (r *Resolver) Resolve(key string) (*CachedOriginal, error) {
	for _, ext := range cacheExtensions {
		path := filepath.Join(r.CacheDir, key+ext)
		info, err := os.Stat(path)
		if err != nil {
			continue
		}

		// A cached file with no registered decoder (an externally seeded
		// .avif, say) is still a valid original: return it with zero
		// dimensions and let the transcode stage surface any real decode
		// failure, keeping the pre-size in the report.
		probed, probeErr := imaging.Probe(path)
		if probeErr != nil {
			log.Warn().Err(probeErr).Str("key", key).Msg("Could not probe cached original")
		}

		log.Debug().Str("key", key).Str("path", path).Int64("size", info.Size()).Msg("Cache hit")
		return &CachedOriginal{
			Key:    key,
			Path:   path,
			Size:   info.Size(),
			Width:  probed.Width,
			Height: probed.Height,
		}, nil
	}
	return nil, ErrCacheMiss
}
