// Package objectstore defines the read and write capabilities the pipeline
// needs from a remote object store, plus the S3 implementation.
package objectstore

import (
	"context"
	"io"
)

// Getter reads objects by bucket and key.
type Getter interface {
	Get(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// Putter writes objects by bucket and key, tagging them with a content type.
type Putter interface {
	Put(ctx context.Context, bucket, key string, body io.Reader, contentType string) error
}

// Store combines both capabilities.
type Store interface {
	Getter
	Putter
}
