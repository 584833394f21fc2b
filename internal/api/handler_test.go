package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xchange/internal/blobstore"
	"xchange/internal/cipher"
	"xchange/internal/generator"
	"xchange/internal/ingest"
	"xchange/internal/secrets"
	"xchange/internal/synth"
	"xchange/internal/warehouse"
)

func newTestRouter(t *testing.T, orch *ingest.Orchestrator) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(orch, nil).SetupRoutes(router)
	return router
}

func newTestOrchestrator(t *testing.T) (*ingest.Orchestrator, *blobstore.MemoryStore, string) {
	t.Helper()

	key, err := cipher.GenerateKey()
	require.NoError(t, err)

	s, err := synth.NewDefault(11)
	require.NoError(t, err)

	blobs := blobstore.NewMemoryStore()
	gen := generator.New(generator.Config{
		OrderCount:      2,
		MaxRowsPerOrder: 2,
		EncryptCells:    true,
		Upload:          true,
		Bucket:          "uploads",
		SecretID:        "batch-key",
	}, s, &secrets.StaticStore{Key: key}, blobs, nil)

	result, err := gen.Run(context.Background())
	require.NoError(t, err)

	orch := ingest.New(ingest.Config{
		SecretID:       "batch-key",
		ArchiveBucket:  "archives",
		CellsEncrypted: true,
	}, blobs, &secrets.StaticStore{Key: key}, warehouse.NewMemoryWarehouse(), nil)

	return orch, blobs, result.Filename
}

func TestHealthCheck(t *testing.T) {
	orch, _, _ := newTestOrchestrator(t)
	router := newTestRouter(t, orch)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestTriggerIngestBadBody(t *testing.T) {
	orch, _, _ := newTestOrchestrator(t)
	router := newTestRouter(t, orch)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest", bytes.NewBufferString(`{"bucket":"uploads"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTriggerIngest(t *testing.T) {
	orch, blobs, name := newTestOrchestrator(t)
	router := newTestRouter(t, orch)

	body := fmt.Sprintf(`{"bucket":"uploads","name":%q}`, name)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["run_id"])
	assert.Equal(t, ingest.StageArchived, resp["stage"])

	assert.True(t, blobs.Exists("archives", name))
	assert.False(t, blobs.Exists("uploads", name))
}

func TestTriggerIngestMissingObject(t *testing.T) {
	orch, _, _ := newTestOrchestrator(t)
	router := newTestRouter(t, orch)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest", bytes.NewBufferString(`{"bucket":"uploads","name":"missing.zip"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["run_id"])
}

func TestGetRunWithoutStore(t *testing.T) {
	orch, _, _ := newTestOrchestrator(t)
	router := newTestRouter(t, orch)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/runs/some-run-id", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotImplemented, w.Code)
}
