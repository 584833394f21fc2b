package blobstore

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store for tests and local experiments.
type MemoryStore struct {
	mu      sync.RWMutex
	buckets map[string]map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: make(map[string]map[string][]byte)}
}

func (s *MemoryStore) Download(_ context.Context, bucket, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.buckets[bucket][name]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *MemoryStore) Upload(_ context.Context, bucket, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.buckets[bucket] == nil {
		s.buckets[bucket] = make(map[string][]byte)
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	s.buckets[bucket][name] = stored
	return nil
}

func (s *MemoryStore) Copy(_ context.Context, srcBucket, name, dstBucket string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.buckets[srcBucket][name]
	if !ok {
		return ErrNotFound
	}
	if s.buckets[dstBucket] == nil {
		s.buckets[dstBucket] = make(map[string][]byte)
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	s.buckets[dstBucket][name] = stored
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, bucket, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.buckets[bucket][name]; !ok {
		return ErrNotFound
	}
	delete(s.buckets[bucket], name)
	return nil
}

// Exists reports whether the named object is present. Test helper.
func (s *MemoryStore) Exists(bucket, name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.buckets[bucket][name]
	return ok
}
