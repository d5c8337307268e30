package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/fpang/image-repack/internal/imaging"
	"github.com/fpang/image-repack/internal/objectstore"
)

// Publisher uploads transcoded artifacts to the destination store under the
// same key they were enumerated with, tagged with the target content type.
type Publisher struct {
	Store  objectstore.Putter
	Bucket string
	Format string
}

// Publish uploads one artifact.
func (p *Publisher) Publish(ctx context.Context, art *Artifact) error {
	f, err := os.Open(art.Path)
	if err != nil {
		return fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	contentType := imaging.ContentType(p.Format)
	if err := p.Store.Put(ctx, p.Bucket, art.Key, f, contentType); err != nil {
		return fmt.Errorf("publish %s: %w", art.Key, err)
	}

	log.Debug().
		Str("key", art.Key).
		Str("bucket", p.Bucket).
		Str("content_type", contentType).
		Int64("size", art.Size).
		Msg("Artifact published")
	return nil
}
