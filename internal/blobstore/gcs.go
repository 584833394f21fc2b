package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
)

// GCSStore is a Google Cloud Storage backed Store.
type GCSStore struct {
	client *storage.Client
}

// NewGCSStore creates a GCS store using ambient credentials.
func NewGCSStore(ctx context.Context) (*GCSStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSStore{client: client}, nil
}

func (s *GCSStore) Download(ctx context.Context, bucket, name string) ([]byte, error) {
	r, err := s.client.Bucket(bucket).Object(name).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open %s/%s: %w", bucket, name, err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s/%s: %w", bucket, name, err)
	}
	return data, nil
}

func (s *GCSStore) Upload(ctx context.Context, bucket, name string, data []byte) error {
	w := s.client.Bucket(bucket).Object(name).NewWriter(ctx)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("write %s/%s: %w", bucket, name, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finish %s/%s: %w", bucket, name, err)
	}
	return nil
}

func (s *GCSStore) Copy(ctx context.Context, srcBucket, name, dstBucket string) error {
	src := s.client.Bucket(srcBucket).Object(name)
	dst := s.client.Bucket(dstBucket).Object(name)
	if _, err := dst.CopierFrom(src).Run(ctx); err != nil {
		return fmt.Errorf("copy %s/%s to %s: %w", srcBucket, name, dstBucket, err)
	}
	return nil
}

func (s *GCSStore) Delete(ctx context.Context, bucket, name string) error {
	err := s.client.Bucket(bucket).Object(name).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return ErrNotFound
	}
	return err
}

// Close releases the underlying client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}
