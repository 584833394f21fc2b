package secrets

import (
	"context"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// GCPStore reads secret versions from Google Secret Manager.
type GCPStore struct {
	client    *secretmanager.Client
	projectID string
}

// NewGCPStore creates a Secret Manager backed store.
func NewGCPStore(ctx context.Context, projectID string) (*GCPStore, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create secret manager client: %w", err)
	}
	return &GCPStore{client: client, projectID: projectID}, nil
}

// GetLatest fetches the latest version of the secret with the checksum the
// service computed server-side.
func (s *GCPStore) GetLatest(ctx context.Context, secretID string) (*Secret, error) {
	name := fmt.Sprintf("projects/%s/secrets/%s/versions/latest", s.projectID, secretID)
	resp, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: name,
	})
	if err != nil {
		return nil, fmt.Errorf("access secret version: %w", err)
	}
	payload := resp.GetPayload()
	return &Secret{
		Payload:  payload.GetData(),
		Checksum: uint32(payload.GetDataCrc32C()),
		Version:  resp.GetName(),
	}, nil
}

// Close releases the underlying client.
func (s *GCPStore) Close() error {
	return s.client.Close()
}
