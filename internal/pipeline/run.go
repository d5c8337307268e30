package pipeline

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/fpang/image-repack/internal/config"
	"github.com/fpang/image-repack/internal/objectstore"
)

// Orchestrator drives the three barrier-synchronized stages over the full
// key list and owns the ProcessingRecord list for the run. Items are
// processed one at a time in input order; a failed item is logged and
// excluded from later stages but never aborts the run.
type Orchestrator struct {
	cfg        config.Config
	resolver   *Resolver
	fetcher    *Fetcher
	transcoder *Transcoder
	publisher  *Publisher

	records   []*ProcessingRecord
	originals map[string]*CachedOriginal
	artifacts map[string]*Artifact
}

// New wires the pipeline stages to the given store and configuration.
func New(cfg config.Config, store objectstore.Store) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		resolver: &Resolver{CacheDir: cfg.CacheDir},
		fetcher: &Fetcher{
			Store:    store,
			Bucket:   cfg.SourceBucket,
			CacheDir: cfg.CacheDir,
		},
		transcoder: &Transcoder{
			OutputDir: cfg.OutputDir,
			MaxWidth:  cfg.ResizeThresholdPx,
			Format:    cfg.TargetFormat,
		},
		publisher: &Publisher{
			Store:  store,
			Bucket: cfg.DestBucket,
			Format: cfg.TargetFormat,
		},
		originals: make(map[string]*CachedOriginal),
		artifacts: make(map[string]*Artifact),
	}
}

// Run executes fetch, transcode, and publish over keys and returns one
// ProcessingRecord per key in input order.
func (o *Orchestrator) Run(ctx context.Context, keys []string) []*ProcessingRecord {
	o.fetchAll(ctx, keys)
	o.transcodeAll()
	if o.cfg.DryRun {
		log.Info().Msg("Dry run: skipping publish stage")
	} else {
		o.publishAll(ctx)
	}
	return o.records
}

// Records returns the per-key rows accumulated so far, in input order.
func (o *Orchestrator) Records() []*ProcessingRecord {
	return o.records
}

// Artifacts returns the successfully transcoded artifacts in input order.
func (o *Orchestrator) Artifacts() []*Artifact {
	var arts []*Artifact
	for _, rec := range o.records {
		if art, ok := o.artifacts[rec.Key]; ok {
			arts = append(arts, art)
		}
	}
	return arts
}

// fetchAll is stage 1: every key gets a cached original, from the resolver
// when one already exists on disk, from the source store otherwise.
func (o *Orchestrator) fetchAll(ctx context.Context, keys []string) {
	total := len(keys)
	for i, key := range keys {
		rec := &ProcessingRecord{Key: key}
		o.records = append(o.records, rec)

		orig, err := o.resolver.Resolve(key)
		if errors.Is(err, ErrCacheMiss) {
			orig, err = o.fetcher.Fetch(ctx, key)
		}
		if err != nil {
			log.Error().Err(err).Str("key", key).Msg("Fetch failed")
			continue
		}

		o.originals[key] = orig
		rec.Fetched = true
		rec.OriginalSize = orig.Size

		log.Info().
			Int("item", i+1).
			Int("total", total).
			Str("key", key).
			Msg("Fetched")
	}
}

// transcodeAll is stage 2: every fetched original is normalized to the
// target format. Does not start until stage 1 has attempted every key.
func (o *Orchestrator) transcodeAll() {
	total := len(o.records)
	for i, rec := range o.records {
		orig, ok := o.originals[rec.Key]
		if !ok {
			continue
		}

		art, err := o.transcoder.Transcode(orig)
		if err != nil {
			log.Error().Err(err).Str("key", rec.Key).Msg("Transcode failed")
			continue
		}

		o.artifacts[rec.Key] = art
		rec.Transcoded = true
		rec.RevisedSize = art.Size

		log.Info().
			Int("item", i+1).
			Int("total", total).
			Str("key", rec.Key).
			Msg("Transcoded")
	}
}

// publishAll is stage 3: every artifact is uploaded under its original key.
func (o *Orchestrator) publishAll(ctx context.Context) {
	total := len(o.records)
	for i, rec := range o.records {
		art, ok := o.artifacts[rec.Key]
		if !ok {
			continue
		}

		if err := o.publisher.Publish(ctx, art); err != nil {
			log.Error().Err(err).Str("key", rec.Key).Msg("Publish failed")
			continue
		}
		rec.Published = true

		log.Info().
			Int("item", i+1).
			Int("total", total).
			Str("key", rec.Key).
			Msg("Published")
	}
}
