package store

import (
	"context"
	"errors"
	"io"
)

// ObjectStore is the minimal contract the toolkit needs from the distributed
// store. Atomicity of a Put is delegated to the store itself.
type ObjectStore interface {
	Put(ctx context.Context, bucket, object string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, bucket, object string) (io.ReadCloser, error)
	EnsureBucket(ctx context.Context, bucket string) error
	Probe(ctx context.Context) error
}

// Options configures an object store client.
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// ErrMissingEndpoint indicates the store endpoint is not provided.
var ErrMissingEndpoint = errors.New("object store endpoint is required")
