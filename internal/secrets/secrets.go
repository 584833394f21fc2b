package secrets

import (
	"context"
	"fmt"
	"hash/crc32"

	"xchange/internal/models"
)

// Secret is one secret version as served by the store, with the checksum the
// store computed on its side.
type Secret struct {
	Payload  []byte
	Checksum uint32
	Version  string
}

// Store is the secret storage collaborator.
type Store interface {
	GetLatest(ctx context.Context, secretID string) (*Secret, error)
}

// KeyMaterial is verified key bytes. It lives for one invocation: callers
// must Wipe it when done, and it must never be logged or persisted.
type KeyMaterial struct {
	data    []byte
	Version string
}

// Bytes returns the raw key material.
func (k *KeyMaterial) Bytes() []byte {
	return k.data
}

// Password returns the key material decoded as text, the form the archive
// container password takes.
func (k *KeyMaterial) Password() string {
	return string(k.data)
}

// Wipe zeroes the key bytes.
func (k *KeyMaterial) Wipe() {
	for i := range k.data {
		k.data[i] = 0
	}
}

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// FetchKey retrieves the latest key version from the store and independently
// recomputes the crc32c checksum over the payload. A mismatch means
// corruption or tampering and is fatal, never retried.
func FetchKey(ctx context.Context, store Store, secretID string) (*KeyMaterial, error) {
	secret, err := store.GetLatest(ctx, secretID)
	if err != nil {
		return nil, fmt.Errorf("fetch secret %s: %w", secretID, err)
	}
	if crc32.Checksum(secret.Payload, castagnoli) != secret.Checksum {
		return nil, &models.IntegrityError{Op: "secret payload checksum mismatch"}
	}
	return &KeyMaterial{data: secret.Payload, Version: secret.Version}, nil
}

// StaticStore serves one fixed key. It backs local runs and tests.
type StaticStore struct {
	Key string
}

func (s *StaticStore) GetLatest(_ context.Context, _ string) (*Secret, error) {
	payload := []byte(s.Key)
	return &Secret{
		Payload:  payload,
		Checksum: crc32.Checksum(payload, castagnoli),
		Version:  "static",
	}, nil
}
