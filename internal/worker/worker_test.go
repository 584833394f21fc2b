package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xchange/internal/blobstore"
	"xchange/internal/cipher"
	"xchange/internal/generator"
	"xchange/internal/ingest"
	"xchange/internal/models"
	"xchange/internal/secrets"
	"xchange/internal/synth"
	"xchange/internal/warehouse"
)

func TestHandleMessage(t *testing.T) {
	key, err := cipher.GenerateKey()
	require.NoError(t, err)

	ctx := context.Background()
	blobs := blobstore.NewMemoryStore()
	wh := warehouse.NewMemoryWarehouse()

	s, err := synth.NewDefault(3)
	require.NoError(t, err)
	gen := generator.New(generator.Config{
		OrderCount:      2,
		MaxRowsPerOrder: 2,
		EncryptCells:    true,
		Upload:          true,
		Bucket:          "uploads",
		SecretID:        "batch-key",
	}, s, &secrets.StaticStore{Key: key}, blobs, nil)
	result, err := gen.Run(ctx)
	require.NoError(t, err)

	orch := ingest.New(ingest.Config{
		SecretID:       "batch-key",
		ArchiveBucket:  "archives",
		CellsEncrypted: true,
	}, blobs, &secrets.StaticStore{Key: key}, wh, nil)
	w := NewIngestWorker(nil, orch)

	payload, err := json.Marshal(&models.ArchiveCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   "evt-1",
			EventType: models.EventTypeArchiveCreated,
			Timestamp: time.Now(),
		},
		Bucket: "uploads",
		Name:   result.Filename,
	})
	require.NoError(t, err)

	require.NoError(t, w.handleMessage(ctx, kafka.Message{Value: payload}))
	assert.Equal(t, 2, wh.RowCount(models.TableOrders))
	assert.True(t, blobs.Exists("archives", result.Filename))
}

func TestHandleMessageDropsGarbage(t *testing.T) {
	orch := ingest.New(ingest.Config{SecretID: "batch-key", ArchiveBucket: "archives"},
		blobstore.NewMemoryStore(), &secrets.StaticStore{Key: "k"}, warehouse.NewMemoryWarehouse(), nil)
	w := NewIngestWorker(nil, orch)

	// Undecodable trigger messages are dropped, not retried.
	assert.NoError(t, w.handleMessage(context.Background(), kafka.Message{Value: []byte("not json")}))
}

func TestHandleMessageCommitsOnRunFailure(t *testing.T) {
	orch := ingest.New(ingest.Config{SecretID: "batch-key", ArchiveBucket: "archives"},
		blobstore.NewMemoryStore(), &secrets.StaticStore{Key: "k"}, warehouse.NewMemoryWarehouse(), nil)
	w := NewIngestWorker(nil, orch)

	payload, err := json.Marshal(&models.ArchiveCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   "evt-2",
			EventType: models.EventTypeArchiveCreated,
			Timestamp: time.Now(),
		},
		Bucket: "uploads",
		Name:   "missing.zip",
	})
	require.NoError(t, err)

	// The run fails (object missing) but the handler still returns nil so the
	// offset commits and the consumer moves on.
	assert.NoError(t, w.handleMessage(context.Background(), kafka.Message{Value: payload}))
}
