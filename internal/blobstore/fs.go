package blobstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DirStore is a filesystem-backed Store rooted at one directory; buckets are
// subdirectories. It backs the generator's plain-local mode and debugging.
type DirStore struct {
	root string
}

// NewDirStore creates a store rooted at the given directory.
func NewDirStore(root string) *DirStore {
	return &DirStore{root: root}
}

func (s *DirStore) path(bucket, name string) string {
	return filepath.Join(s.root, bucket, name)
}

func (s *DirStore) Download(_ context.Context, bucket, name string) ([]byte, error) {
	data, err := os.ReadFile(s.path(bucket, name))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path(bucket, name), err)
	}
	return data, nil
}

func (s *DirStore) Upload(_ context.Context, bucket, name string, data []byte) error {
	dir := filepath.Join(s.root, bucket)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create bucket dir %s: %w", dir, err)
	}
	if err := os.WriteFile(s.path(bucket, name), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path(bucket, name), err)
	}
	return nil
}

func (s *DirStore) Copy(ctx context.Context, srcBucket, name, dstBucket string) error {
	data, err := s.Download(ctx, srcBucket, name)
	if err != nil {
		return err
	}
	return s.Upload(ctx, dstBucket, name, data)
}

func (s *DirStore) Delete(_ context.Context, bucket, name string) error {
	err := os.Remove(s.path(bucket, name))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	return err
}
