package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
)

// Artifact is a single file destined for the object store.
type Artifact struct {
	Object      string
	ContentType string
	Payload     []byte
}

// UploadError accumulates per-artifact failures produced during a bulk upload.
type UploadError struct {
	Errors []error
}

func (e *UploadError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := "multiple errors:"
	for _, err := range e.Errors {
		msg += " " + err.Error() + ";"
	}
	return msg
}

// Unwrap exposes the accumulated errors to errors.Is and errors.As, keeping
// the underlying store failures inspectable by callers.
func (e *UploadError) Unwrap() []error {
	return e.Errors
}

func (e *UploadError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *UploadError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// Uploader pushes dataset artifacts to the object store using a bounded
// worker pool. It never retries; a re-run of the deterministic generator plus
// upload is always safe.
type Uploader struct {
	store   ObjectStore
	bucket  string
	workers int
}

// NewUploader creates an Uploader with the provided concurrency.
func NewUploader(store ObjectStore, bucket string, workers int) *Uploader {
	if workers <= 0 {
		workers = 4
	}
	return &Uploader{
		store:   store,
		bucket:  bucket,
		workers: workers,
	}
}

// Upload pushes all artifacts, collecting individual failures. Store errors
// are wrapped only with the artifact name so the underlying failure stays
// inspectable.
func (u *Uploader) Upload(ctx context.Context, artifacts []Artifact) error {
	total := len(artifacts)
	if total == 0 {
		return nil
	}
	indexCh := make(chan int)
	errCh := make(chan error, total)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range indexCh {
			a := artifacts[idx]
			err := u.store.Put(ctx, u.bucket, a.Object, bytes.NewReader(a.Payload), int64(len(a.Payload)), a.ContentType)
			if err != nil {
				select {
				case errCh <- fmt.Errorf("upload %s: %w", a.Object, err):
				case <-ctx.Done():
					return
				}
			}
		}
	}

	for i := 0; i < u.workers; i++ {
		wg.Add(1)
		go worker()
	}

Loop:
	for i := 0; i < total; i++ {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	var uploadErr UploadError
	for err := range errCh {
		if err == nil {
			continue
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		uploadErr.append(err)
	}
	return uploadErr.asError()
}
