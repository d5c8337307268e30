package main

import (
	"context"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fpang/image-repack/internal/catalog"
	"github.com/fpang/image-repack/internal/config"
	"github.com/fpang/image-repack/internal/logging"
	"github.com/fpang/image-repack/internal/objectstore"
	"github.com/fpang/image-repack/internal/pipeline"
)

// rootCmd is the main Cobra command for the image-repack CLI.
var rootCmd = &cobra.Command{
	Use:   "image-repack",
	Short: "Fetch, normalize, and republish a catalog of images",
	Long: `image-repack enumerates image keys from a catalog endpoint, fetches each
original exactly once into a local cache, transcodes it to a width-capped
single target format, republishes the result to a destination bucket under
the same key, and reports per-key and total size reduction.

The cache and output directories double as the resume mechanism: re-running
with the same directories skips every already-fetched original.

Examples:
  image-repack --catalog-url https://api.example.com/products \
    --source-bucket photos-raw --dest-bucket photos-cdn
  image-repack --dry-run --limit 10
  image-repack --bundle artifacts.zip`,
	Run: runMain,
}

func init() {
	flags := rootCmd.Flags()
	flags.String("catalog-url", "", "HTTP endpoint enumerating the source image keys")
	flags.String("source-bucket", "", "S3 bucket holding the original images")
	flags.String("dest-bucket", "", "S3 bucket the transcoded images are published to")
	flags.String("cache-dir", config.DefaultCacheDir, "Directory for cached originals")
	flags.String("output-dir", config.DefaultOutputDir, "Directory for transcoded artifacts")
	flags.Int("max-width", config.DefaultResizeWidth, "Width cap in pixels; wider images are downscaled")
	flags.String("format", config.DefaultTargetFormat, "Target format for every artifact (webp, jpeg, png)")
	flags.Int("limit", 0, "Maximum keys to process (0 = unlimited)")
	flags.Bool("dry-run", false, "Fetch and transcode but skip publishing")
	flags.String("bundle", "", "Write a ZIP of all transcoded artifacts to this path")

	viper.BindPFlag("catalog-url", flags.Lookup("catalog-url"))
	viper.BindPFlag("source-bucket", flags.Lookup("source-bucket"))
	viper.BindPFlag("dest-bucket", flags.Lookup("dest-bucket"))
	viper.BindPFlag("cache-dir", flags.Lookup("cache-dir"))
	viper.BindPFlag("output-dir", flags.Lookup("output-dir"))
	viper.BindPFlag("max-width", flags.Lookup("max-width"))
	viper.BindPFlag("format", flags.Lookup("format"))
	viper.BindPFlag("limit", flags.Lookup("limit"))
	viper.BindPFlag("dry-run", flags.Lookup("dry-run"))
	viper.BindPFlag("bundle", flags.Lookup("bundle"))

	viper.SetEnvPrefix("IMAGE_REPACK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// configFromViper assembles the immutable run configuration from bound flags
// and IMAGE_REPACK_* environment variables.
func configFromViper() config.Config {
	return config.Config{
		CatalogURL:        viper.GetString("catalog-url"),
		SourceBucket:      viper.GetString("source-bucket"),
		DestBucket:        viper.GetString("dest-bucket"),
		CacheDir:          viper.GetString("cache-dir"),
		OutputDir:         viper.GetString("output-dir"),
		ResizeThresholdPx: viper.GetInt("max-width"),
		TargetFormat:      viper.GetString("format"),
		DebugLimit:        viper.GetInt("limit"),
		DryRun:            viper.GetBool("dry-run"),
		BundlePath:        viper.GetString("bundle"),
	}
}

// runMain is the main execution logic called by Cobra.
func runMain(cmd *cobra.Command, args []string) {
	logging.Init()

	cfg := configFromViper()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	if err := cfg.EnsureDirs(); err != nil {
		log.Fatal().Err(err).Msg("Failed to create working directories")
	}

	runID := uuid.NewString()
	logging.NewStartupLogger("image-repack").
		RunID(runID).
		Bucket("source", cfg.SourceBucket).
		Bucket("dest", cfg.DestBucket).
		Dir("cache", cfg.CacheDir).
		Dir("output", cfg.OutputDir).
		Feature("dry_run", cfg.DryRun).
		Feature("bundle", cfg.BundlePath != "").
		Config("target_format", cfg.TargetFormat).
		Log()

	ctx := context.Background()

	// Enumeration failure is the one whole-run-fatal error: without a key
	// list there is nothing to do.
	entries, err := catalog.NewClient(cfg.CatalogURL).Fetch(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to enumerate source keys")
	}
	keys := catalog.Keys(entries, cfg.DebugLimit)
	if len(keys) == 0 {
		log.Fatal().Msg("Catalog contained no image keys")
	}
	log.Info().Int("keys", len(keys)).Str("run_id", runID).Msg("Starting repack run")

	store, err := objectstore.NewS3Store(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize S3")
	}

	orch := pipeline.New(cfg, store)
	records := orch.Run(ctx, keys)

	pipeline.WriteReport(os.Stdout, records)

	if cfg.BundlePath != "" {
		if err := pipeline.WriteBundle(cfg.BundlePath, orch.Artifacts()); err != nil {
			log.Error().Err(err).Msg("Failed to write artifact bundle")
		}
	}
}
