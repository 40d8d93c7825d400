package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
)

// MemoryStore is a simple in-memory implementation of the ObjectStore
// interface used for unit testing upload and report plumbing without a
// running cluster.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	buckets map[string]struct{}
	puts    []PutCall
	err     error
	probe   error
}

// PutCall captures the metadata of a single Put executed against the store.
type PutCall struct {
	Bucket      string
	Object      string
	ContentType string
	Size        int64
}

// NewMemoryStore instantiates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string][]byte),
		buckets: make(map[string]struct{}),
	}
}

// WithError configures the store to fail all Put and Get calls with err.
func (m *MemoryStore) WithError(err error) *MemoryStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// WithProbeError forces Probe to return the supplied error.
func (m *MemoryStore) WithProbeError(err error) *MemoryStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.probe = err
	return m
}

func (m *MemoryStore) Put(_ context.Context, bucket, object string, r io.Reader, size int64, contentType string) error {
	payload, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.objects[bucket+"/"+object] = payload
	m.puts = append(m.puts, PutCall{Bucket: bucket, Object: object, ContentType: contentType, Size: size})
	return nil
}

func (m *MemoryStore) Get(_ context.Context, bucket, object string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	payload, ok := m.objects[bucket+"/"+object]
	if !ok {
		return nil, fmt.Errorf("object %s/%s not found", bucket, object)
	}
	return io.NopCloser(bytes.NewReader(payload)), nil
}

func (m *MemoryStore) EnsureBucket(_ context.Context, bucket string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.buckets[bucket] = struct{}{}
	return nil
}

func (m *MemoryStore) Probe(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.probe
}

// PutCalls returns a snapshot of executed uploads.
func (m *MemoryStore) PutCalls() []PutCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PutCall(nil), m.puts...)
}

// Object returns the stored payload for bucket/object, if present.
func (m *MemoryStore) Object(bucket, object string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	payload, ok := m.objects[bucket+"/"+object]
	return payload, ok
}
