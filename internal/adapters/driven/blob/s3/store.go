// Package s3 provides a blob store backed by any S3-compatible object
// storage (AWS S3, MinIO, Cloudflare R2).
package s3

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.BlobStore = (*Store)(nil)

// Config holds configuration for the S3 blob store.
type Config struct {
	// Endpoint is the host:port of the S3 API (e.g. s3.amazonaws.com or
	// localhost:9000 for MinIO).
	Endpoint string

	// AccessKeyID and SecretAccessKey authenticate requests.
	AccessKeyID     string
	SecretAccessKey string

	// Bucket is the bucket uploads are archived in (required).
	Bucket string

	// Prefix is prepended to every object key (optional).
	Prefix string

	// UseSSL enables TLS (default false, suits local MinIO).
	UseSSL bool
}

// Store archives uploads as objects in one bucket.
type Store struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewStore creates an S3 blob store and makes sure the bucket exists.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("s3: endpoint is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3: bucket is required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("s3: create client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("s3: check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("s3: create bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &Store{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}, nil
}

// Put uploads the document and returns its object URL. Same name, same
// key, so re-uploads overwrite.
func (s *Store) Put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	key := path.Join(s.prefix, path.Base(name))

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("s3: put %s: %w", key, err)
	}

	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL(), s.bucket, key), nil
}

// Close releases resources.
func (s *Store) Close() error {
	// The minio client doesn't need explicit cleanup
	return nil
}
