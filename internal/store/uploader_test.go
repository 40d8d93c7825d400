package store

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestUploaderPushesAllArtifacts(t *testing.T) {
	mem := NewMemoryStore()
	uploader := NewUploader(mem, "banking-data", 2)

	artifacts := []Artifact{
		{Object: "transactions.json", ContentType: "application/json", Payload: []byte(`[]`)},
		{Object: "transactions.csv", ContentType: "text/csv", Payload: []byte("transaction_id\n")},
	}

	if err := uploader.Upload(context.Background(), artifacts); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	calls := mem.PutCalls()
	if len(calls) != 2 {
		t.Fatalf("expected 2 uploads, got %d", len(calls))
	}

	payload, ok := mem.Object("banking-data", "transactions.csv")
	if !ok {
		t.Fatal("transactions.csv missing from store")
	}
	if !bytes.Equal(payload, artifacts[1].Payload) {
		t.Fatal("stored payload differs from artifact")
	}
}

func TestUploaderPropagatesStoreError(t *testing.T) {
	storeErr := errors.New("connection reset")
	mem := NewMemoryStore().WithError(storeErr)
	uploader := NewUploader(mem, "banking-data", 1)

	err := uploader.Upload(context.Background(), []Artifact{
		{Object: "transactions.json", Payload: []byte(`[]`)},
	})
	if err == nil {
		t.Fatal("expected upload error")
	}
	if !errors.Is(err, storeErr) {
		t.Fatalf("store error not preserved: %v", err)
	}
	var uploadErr *UploadError
	if !errors.As(err, &uploadErr) || len(uploadErr.Errors) != 1 {
		t.Fatalf("expected single accumulated error, got %v", err)
	}
}

type quotaError struct {
	bucket string
}

func (e *quotaError) Error() string {
	return "bucket " + e.bucket + " over quota"
}

func TestUploaderErrorsStayInspectable(t *testing.T) {
	storeErr := &quotaError{bucket: "banking-data"}
	mem := NewMemoryStore().WithError(storeErr)
	uploader := NewUploader(mem, "banking-data", 2)

	err := uploader.Upload(context.Background(), []Artifact{
		{Object: "transactions.json", Payload: []byte(`[]`)},
		{Object: "transactions.csv", Payload: []byte("transaction_id\n")},
	})
	if err == nil {
		t.Fatal("expected upload error")
	}

	var uploadErr *UploadError
	if !errors.As(err, &uploadErr) || len(uploadErr.Errors) != 2 {
		t.Fatalf("expected 2 accumulated errors, got %v", err)
	}
	// The store failure must remain reachable through the accumulated chain.
	if !errors.Is(err, storeErr) {
		t.Fatalf("store error not reachable via errors.Is: %v", err)
	}
	var quota *quotaError
	if !errors.As(err, &quota) || quota.bucket != "banking-data" {
		t.Fatalf("typed store error not reachable via errors.As: %v", err)
	}
}

func TestUploaderNoArtifacts(t *testing.T) {
	uploader := NewUploader(NewMemoryStore(), "banking-data", 2)
	if err := uploader.Upload(context.Background(), nil); err != nil {
		t.Fatalf("expected no error for empty upload, got %v", err)
	}
}

func TestUploaderContextCancelled(t *testing.T) {
	mem := NewMemoryStore()
	uploader := NewUploader(mem, "banking-data", 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	artifacts := make([]Artifact, 50)
	for i := range artifacts {
		artifacts[i] = Artifact{Object: "part", Payload: []byte("x")}
	}

	// A cancelled context must not deadlock; partial uploads are acceptable
	// because the caller simply re-runs.
	_ = uploader.Upload(ctx, artifacts)
}
