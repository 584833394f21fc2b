package ingest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xchange/internal/archive"
	"xchange/internal/blobstore"
	"xchange/internal/cipher"
	"xchange/internal/generator"
	"xchange/internal/models"
	"xchange/internal/secrets"
	"xchange/internal/synth"
	"xchange/internal/tabular"
	"xchange/internal/util"
	"xchange/internal/warehouse"
)

func stageFailures(stage string) float64 {
	return testutil.ToFloat64(util.IngestStageFailures.WithLabelValues(stage))
}

const (
	srcBucket     = "uploads"
	archiveBucket = "archives"
	secretID      = "batch-key"
)

type memoryStatus struct {
	mu      sync.Mutex
	updates []RunStatus
}

func (s *memoryStatus) UpdateRun(_ context.Context, st RunStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, st)
	return nil
}

func (s *memoryStatus) last(t *testing.T) RunStatus {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.updates)
	return s.updates[len(s.updates)-1]
}

func (s *memoryStatus) stages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.updates))
	for i, st := range s.updates {
		out[i] = st.Stage
	}
	return out
}

// produceContainer runs the full generation side against the given blob store
// and returns the uploaded container's name.
func produceContainer(t *testing.T, blobs blobstore.Store, key string, encryptCells bool, orders int) string {
	t.Helper()
	s, err := synth.NewDefault(42)
	require.NoError(t, err)
	gen := generator.New(generator.Config{
		OrderCount:      orders,
		MaxRowsPerOrder: 2,
		EncryptCells:    encryptCells,
		Upload:          true,
		Bucket:          srcBucket,
		SecretID:        secretID,
	}, s, &secrets.StaticStore{Key: key}, blobs, nil)

	result, err := gen.Run(context.Background())
	require.NoError(t, err)
	require.True(t, result.Uploaded)
	return result.Filename
}

func TestProcessEndToEnd(t *testing.T) {
	key, err := cipher.GenerateKey()
	require.NoError(t, err)

	blobs := blobstore.NewMemoryStore()
	wh := warehouse.NewMemoryWarehouse()
	status := &memoryStatus{}

	name := produceContainer(t, blobs, key, true, 3)

	orch := New(Config{
		SecretID:       secretID,
		ArchiveBucket:  archiveBucket,
		CellsEncrypted: true,
	}, blobs, &secrets.StaticStore{Key: key}, wh, status)

	runID, err := orch.Process(context.Background(), srcBucket, name)
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	assert.Equal(t, 3, wh.RowCount(models.TableOrders))
	rowCount := wh.RowCount(models.TableOrderRows)
	assert.GreaterOrEqual(t, rowCount, 3)
	assert.LessOrEqual(t, rowCount, 6)

	assert.False(t, blobs.Exists(srcBucket, name), "source object must be deleted after archival")
	assert.True(t, blobs.Exists(archiveBucket, name), "archived copy must exist")

	last := status.last(t)
	assert.Equal(t, StageArchived, last.Stage)
	assert.Equal(t, runID, last.RunID)
	assert.Equal(t, []string{
		StageReceived, StageFetched, StageUnpacked,
		StageParsing, StageParsing, StageLoaded, StageArchived,
	}, status.stages())
}

func TestProcessPlaintextCells(t *testing.T) {
	key, err := cipher.GenerateKey()
	require.NoError(t, err)

	blobs := blobstore.NewMemoryStore()
	wh := warehouse.NewMemoryWarehouse()

	name := produceContainer(t, blobs, key, false, 2)

	orch := New(Config{SecretID: secretID, ArchiveBucket: archiveBucket}, blobs, &secrets.StaticStore{Key: key}, wh, nil)

	_, err = orch.Process(context.Background(), srcBucket, name)
	require.NoError(t, err)
	assert.Equal(t, 2, wh.RowCount(models.TableOrders))
}

func TestProcessMissingObject(t *testing.T) {
	blobs := blobstore.NewMemoryStore()
	status := &memoryStatus{}
	orch := New(Config{SecretID: secretID, ArchiveBucket: archiveBucket}, blobs, &secrets.StaticStore{Key: "k"}, warehouse.NewMemoryWarehouse(), status)

	before := stageFailures(StageFetched)
	_, err := orch.Process(context.Background(), srcBucket, "missing.zip")
	require.Error(t, err)

	var transportErr *models.TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, "download", transportErr.Op)
	assert.Equal(t, StageFailed, status.last(t).Stage)
	assert.Equal(t, before+1, stageFailures(StageFetched), "download failure carries the fetch stage label")
}

func TestProcessCorruptedContainer(t *testing.T) {
	key, err := cipher.GenerateKey()
	require.NoError(t, err)

	blobs := blobstore.NewMemoryStore()
	wh := warehouse.NewMemoryWarehouse()
	status := &memoryStatus{}

	name := produceContainer(t, blobs, key, true, 2)

	ctx := context.Background()
	container, err := blobs.Download(ctx, srcBucket, name)
	require.NoError(t, err)
	container[len(container)/2] ^= 0xff
	require.NoError(t, blobs.Upload(ctx, srcBucket, name, container))

	orch := New(Config{
		SecretID:       secretID,
		ArchiveBucket:  archiveBucket,
		CellsEncrypted: true,
	}, blobs, &secrets.StaticStore{Key: key}, wh, status)

	before := stageFailures(StageUnpacked)
	_, err = orch.Process(ctx, srcBucket, name)
	require.Error(t, err)

	var integrityErr *models.IntegrityError
	assert.True(t, errors.As(err, &integrityErr))

	assert.Equal(t, 0, wh.RowCount(models.TableOrders))
	assert.True(t, blobs.Exists(srcBucket, name), "failed run must leave the object at the source")
	assert.False(t, blobs.Exists(archiveBucket, name))
	assert.Equal(t, StageFailed, status.last(t).Stage)
	assert.Equal(t, before+1, stageFailures(StageUnpacked), "unpack failure carries the unpack stage label")
}

func TestProcessBadCellFailsMemberOnly(t *testing.T) {
	const password = "container-password"

	ordersCSV := "order_id,customer_name,price,currency,order_date,city,country\n" +
		"A1b2C3d4E5,Hans Müller,12.30,EUR,2021-07-09,Berlin,DE\n"
	rowsCSV := "order_id,product_name,price_per_unit,quantity,total_price\n" +
		"A1b2C3d4E5,Widget,not-a-number,2,24.60\n"

	container, err := archive.Pack(password,
		archive.Member{Name: models.MemberOrders, Data: []byte(ordersCSV)},
		archive.Member{Name: models.MemberOrderRows, Data: []byte(rowsCSV)},
	)
	require.NoError(t, err)

	ctx := context.Background()
	blobs := blobstore.NewMemoryStore()
	require.NoError(t, blobs.Upload(ctx, srcBucket, "batch.zip", container))
	wh := warehouse.NewMemoryWarehouse()
	status := &memoryStatus{}

	orch := New(Config{SecretID: secretID, ArchiveBucket: archiveBucket}, blobs, &secrets.StaticStore{Key: password}, wh, status)

	_, err = orch.Process(ctx, srcBucket, "batch.zip")
	require.Error(t, err)

	var parseErr *tabular.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, models.MemberOrderRows, parseErr.File)
	assert.Equal(t, "price_per_unit", parseErr.Column)
	assert.Equal(t, "not-a-number", parseErr.Value)

	assert.Equal(t, 1, wh.RowCount(models.TableOrders), "clean sibling member must still load")
	assert.Equal(t, 0, wh.RowCount(models.TableOrderRows))
	assert.True(t, blobs.Exists(srcBucket, "batch.zip"), "partial run must not archive")
	assert.False(t, blobs.Exists(archiveBucket, "batch.zip"))
	assert.Equal(t, StageFailed, status.last(t).Stage)
}

func TestProcessSkipsUnexpectedMember(t *testing.T) {
	const password = "container-password"

	ordersCSV := "order_id,customer_name,price,currency,order_date,city,country\n" +
		"A1b2C3d4E5,Hans Müller,12.30,EUR,2021-07-09,Berlin,DE\n"

	container, err := archive.Pack(password,
		archive.Member{Name: models.MemberOrders, Data: []byte(ordersCSV)},
		archive.Member{Name: "notes.txt", Data: []byte("operator scratch file")},
	)
	require.NoError(t, err)

	ctx := context.Background()
	blobs := blobstore.NewMemoryStore()
	require.NoError(t, blobs.Upload(ctx, srcBucket, "batch.zip", container))
	wh := warehouse.NewMemoryWarehouse()

	orch := New(Config{SecretID: secretID, ArchiveBucket: archiveBucket}, blobs, &secrets.StaticStore{Key: password}, wh, nil)

	_, err = orch.Process(ctx, srcBucket, "batch.zip")
	require.NoError(t, err, "an unknown member is skipped, not fatal")

	assert.Equal(t, 1, wh.RowCount(models.TableOrders))
	assert.True(t, blobs.Exists(archiveBucket, "batch.zip"))
	assert.False(t, blobs.Exists(srcBucket, "batch.zip"))
}

func TestProcessWrongKey(t *testing.T) {
	keyA, err := cipher.GenerateKey()
	require.NoError(t, err)
	keyB, err := cipher.GenerateKey()
	require.NoError(t, err)

	blobs := blobstore.NewMemoryStore()
	name := produceContainer(t, blobs, keyA, true, 2)

	orch := New(Config{
		SecretID:       secretID,
		ArchiveBucket:  archiveBucket,
		CellsEncrypted: true,
	}, blobs, &secrets.StaticStore{Key: keyB}, warehouse.NewMemoryWarehouse(), nil)

	_, err = orch.Process(context.Background(), srcBucket, name)
	require.Error(t, err)

	var integrityErr *models.IntegrityError
	assert.True(t, errors.As(err, &integrityErr))
	assert.True(t, blobs.Exists(srcBucket, name))
}
