package objectstore

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// S3Store implements Store against AWS S3.
type S3Store struct {
	client *s3.Client
}

var _ Store = (*S3Store)(nil)

// NewS3Store loads the default AWS config and returns an S3-backed store.
// Credentials come from the standard AWS chain (env, shared config, IMDS).
func NewS3Store(ctx context.Context) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	log.Debug().Str("region", cfg.Region).Msg("AWS config loaded")
	return &S3Store{client: s3.NewFromConfig(cfg)}, nil
}

// NewS3StoreFromClient wraps an existing client, mainly for tests.
func NewS3StoreFromClient(client *s3.Client) *S3Store {
	return &S3Store{client: client}
}

// Get returns the object body. The caller owns the ReadCloser.
func (s *S3Store) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("S3 GetObject: %w", err)
	}
	return result.Body, nil
}

// Put uploads the body under the given key with the given content type.
func (s *S3Store) Put(ctx context.Context, bucket, key string, body io.Reader, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("S3 PutObject: %w", err)
	}
	return nil
}
