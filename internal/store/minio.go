package store

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore implements ObjectStore against a MinIO or S3-compatible cluster.
type MinioStore struct {
	client *minio.Client
}

// NewMinioStore builds a client from the provided options.
func NewMinioStore(opts Options) (*MinioStore, error) {
	if opts.Endpoint == "" {
		return nil, ErrMissingEndpoint
	}
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create object store client: %w", err)
	}
	return &MinioStore{client: client}, nil
}

// Put uploads an object. Store errors propagate unmodified so callers can
// inspect the underlying failure.
func (s *MinioStore) Put(ctx context.Context, bucket, object string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, bucket, object, r, size, minio.PutObjectOptions{ContentType: contentType})
	return err
}

// Get retrieves an object as a stream.
func (s *MinioStore) Get(ctx context.Context, bucket, object string) (io.ReadCloser, error) {
	return s.client.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *MinioStore) EnsureBucket(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", bucket, err)
	}
	return nil
}

// Probe verifies the cluster answers API calls; used by health checks.
func (s *MinioStore) Probe(ctx context.Context) error {
	_, err := s.client.ListBuckets(ctx)
	return err
}
