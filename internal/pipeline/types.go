// Package pipeline implements the three-stage repack pipeline: fetch originals
// into a local cache, transcode them to the target format, and publish the
// results to the destination store. Stages run strictly sequentially over the
// whole key list; no item enters a stage until every item has been attempted
// in the previous one.
package pipeline

import "errors"

// ErrCacheMiss is returned by Resolver.Resolve when no cached original exists
// for a key. The caller proceeds to the Fetcher.
var ErrCacheMiss = errors.New("no cached original for key")

// CachedOriginal records a source image that is fully present on local disk.
// It is created by the Resolver (cache hit) or the Fetcher (cache miss) and
// is immutable afterwards. Its extension is derived from the decoded format,
// never assumed from the key.
type CachedOriginal struct {
	Key    string
	Path   string
	Size   int64
	Width  int
	Height int
}

// Artifact is the transcoded output for one key. Its path is deterministic
// given the key, so re-running overwrites rather than duplicates.
type Artifact struct {
	Key  string
	Path string
	Size int64
}

// ProcessingRecord is the per-key bookkeeping row. One record per key is
// created during the fetch stage and enriched during the transcode stage;
// records are never removed, so the final report always lists every key in
// input order, failed ones included.
type ProcessingRecord struct {
	Key          string
	OriginalSize int64
	RevisedSize  int64
	Fetched      bool
	Transcoded   bool
	Published    bool
}

// Reduction returns the size reduction percentage for this record. ok is
// false when the value is unavailable: the key never transcoded, or the
// original was empty (avoiding a division by zero).
func (r *ProcessingRecord) Reduction() (float64, bool) {
	if !r.Fetched || !r.Transcoded || r.OriginalSize == 0 {
		return 0, false
	}
	return 100 * float64(r.OriginalSize-r.RevisedSize) / float64(r.OriginalSize), true
}
