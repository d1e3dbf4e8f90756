package storage

import (
	"context"
	"sync"

	"github.com/Jgiet001-AI/NetDocGen/pkg/errors"
)

// MemoryStore is an in-process Store used in tests.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[Bucket]map[string][]byte
	types   map[Bucket]map[string]string
}

// NewMemoryStore creates an empty in-memory store with all buckets
// present.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		objects: make(map[Bucket]map[string][]byte),
		types:   make(map[Bucket]map[string]string),
	}
	for _, b := range Buckets() {
		s.objects[b] = make(map[string][]byte)
		s.types[b] = make(map[string]string)
	}
	return s
}

// EnsureBuckets is a no-op; buckets always exist.
func (s *MemoryStore) EnsureBuckets(ctx context.Context) error {
	return nil
}

// Upload stores an object and returns its "bucket/object" path.
func (s *MemoryStore) Upload(ctx context.Context, bucket Bucket, objectName string, data []byte, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	s.objects[bucket][objectName] = stored
	s.types[bucket][objectName] = contentType
	return string(bucket) + "/" + objectName, nil
}

// Download retrieves an object's contents.
func (s *MemoryStore) Download(ctx context.Context, bucket Bucket, objectName string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.objects[bucket][objectName]
	if !ok {
		return nil, errors.New(errors.ErrCodeStorage, "object %s not found in %s", objectName, bucket)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Delete removes an object.
func (s *MemoryStore) Delete(ctx context.Context, bucket Bucket, objectName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects[bucket], objectName)
	delete(s.types[bucket], objectName)
	return nil
}

// ContentType returns the content type recorded for an object, or ""
// if absent.
func (s *MemoryStore) ContentType(bucket Bucket, objectName string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.types[bucket][objectName]
}
