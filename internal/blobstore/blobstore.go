package blobstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned when the named object does not exist.
var ErrNotFound = errors.New("blob not found")

// Store is the blob storage collaborator. Buckets and objects are opaque
// names; the pipeline never lists or mutates objects in place.
type Store interface {
	Download(ctx context.Context, bucket, name string) ([]byte, error)
	Upload(ctx context.Context, bucket, name string, data []byte) error
	Copy(ctx context.Context, srcBucket, name, dstBucket string) error
	Delete(ctx context.Context, bucket, name string) error
}
