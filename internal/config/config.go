// Package config defines the immutable run configuration for image-repack.
//
// All knobs that were implicit in earlier iterations (bucket names,
// directories, the resize threshold) live here as one explicit value that is
// constructed once in main and passed into the pipeline.
package config

import (
	"fmt"
	"os"
)

// Defaults for the run configuration.
const (
	DefaultCacheDir       = "originals"
	DefaultOutputDir      = "revised"
	DefaultResizeWidth    = 1024
	DefaultTargetFormat   = "webp"
	DefaultCatalogTimeout = 30
)

// Config holds the full configuration for one run. It is built once from
// flags and environment in main and never mutated afterwards.
type Config struct {
	// CatalogURL is the HTTP endpoint that enumerates the source image keys.
	CatalogURL string

	// SourceBucket is the S3 bucket holding the original images.
	SourceBucket string

	// DestBucket is the S3 bucket the transcoded images are published to.
	DestBucket string

	// CacheDir holds fetched originals, named <key><probed-extension>.
	CacheDir string

	// OutputDir holds transcoded artifacts, named <key>.<target-extension>.
	OutputDir string

	// ResizeThresholdPx is the width above which images are downscaled.
	// The output width equals the threshold; aspect ratio is preserved.
	ResizeThresholdPx int

	// TargetFormat is the output codec for every artifact (e.g. "webp").
	TargetFormat string

	// DebugLimit caps the number of keys processed. 0 means unlimited.
	DebugLimit int

	// DryRun skips the publish stage when true.
	DryRun bool

	// BundlePath, when non-empty, is where a ZIP of all transcoded
	// artifacts is written after the run.
	BundlePath string
}

// Validate checks required fields and rejects values the pipeline cannot
// work with.
func (c Config) Validate() error {
	if c.CatalogURL == "" {
		return fmt.Errorf("catalog URL is required")
	}
	if c.SourceBucket == "" {
		return fmt.Errorf("source bucket is required")
	}
	if c.DestBucket == "" && !c.DryRun {
		return fmt.Errorf("destination bucket is required unless --dry-run is set")
	}
	if c.CacheDir == "" || c.OutputDir == "" {
		return fmt.Errorf("cache and output directories are required")
	}
	if c.ResizeThresholdPx <= 0 {
		return fmt.Errorf("resize threshold must be positive, got %d", c.ResizeThresholdPx)
	}
	if c.TargetFormat == "" {
		return fmt.Errorf("target format is required")
	}
	return nil
}

// EnsureDirs creates the cache and output directories if they do not exist.
// The directories are never deleted by this tool; re-running with the same
// directories is what makes runs resumable.
func (c Config) EnsureDirs() error {
	if err := os.MkdirAll(c.CacheDir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	if err := os.MkdirAll(c.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return nil
}
