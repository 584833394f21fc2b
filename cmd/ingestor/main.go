package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"xchange/config"
	"xchange/internal/api"
	"xchange/internal/blobstore"
	"xchange/internal/broker"
	"xchange/internal/ingest"
	"xchange/internal/redisclient"
	"xchange/internal/secrets"
	"xchange/internal/util"
	"xchange/internal/warehouse"
	"xchange/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env, "ingestor"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting ingestor service")

	tp, err := util.InitTracer("xchange-ingestor", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	ctx := context.Background()

	blobs, err := newBlobStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize blob store: %v", err)
	}
	log.Printf("Blob store initialized (%s)", cfg.Storage.Driver)

	secretStore, err := newSecretStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize secret store: %v", err)
	}
	log.Printf("Secret store initialized (%s)", cfg.Secrets.Driver)

	wh, err := newWarehouse(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to warehouse: %v", err)
	}
	log.Printf("Warehouse connected (%s)", cfg.Warehouse.Driver)

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Redis connected")

	orchestrator := ingest.New(ingest.Config{
		SecretID:       cfg.Secrets.SecretID,
		ArchiveBucket:  cfg.Storage.ArchiveBucket,
		CellsEncrypted: cfg.Generator.EncryptCells,
	}, blobs, secretStore, wh, redisClient)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicArchives, cfg.Kafka.ConsumerGroup)
	ingestWorker := worker.NewIngestWorker(consumer, orchestrator)
	go func() {
		if err := ingestWorker.Start(workerCtx); err != nil {
			log.Printf("Ingest worker error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(orchestrator, redisClient)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	ingestWorker.Stop()

	log.Println("Server exited")
}

func newBlobStore(ctx context.Context, cfg *config.Config) (blobstore.Store, error) {
	switch cfg.Storage.Driver {
	case "gcs":
		return blobstore.NewGCSStore(ctx)
	case "fs":
		return blobstore.NewDirStore(cfg.Storage.LocalRoot), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

func newSecretStore(ctx context.Context, cfg *config.Config) (secrets.Store, error) {
	switch cfg.Secrets.Driver {
	case "gcp":
		return secrets.NewGCPStore(ctx, cfg.Secrets.ProjectID)
	case "static":
		if cfg.Secrets.StaticKey == "" {
			return nil, fmt.Errorf("static secret driver requires SECRETS_STATIC_KEY")
		}
		return &secrets.StaticStore{Key: cfg.Secrets.StaticKey}, nil
	}
	return nil, fmt.Errorf("unknown secrets driver %q", cfg.Secrets.Driver)
}

func newWarehouse(ctx context.Context, cfg *config.Config) (warehouse.Warehouse, error) {
	switch cfg.Warehouse.Driver {
	case "postgres":
		return warehouse.NewPostgresWarehouse(cfg.Warehouse.URL)
	case "bigquery":
		return warehouse.NewBigQueryWarehouse(ctx, cfg.Warehouse.ProjectID, cfg.Warehouse.Dataset)
	case "memory":
		return warehouse.NewMemoryWarehouse(), nil
	}
	return nil, fmt.Errorf("unknown warehouse driver %q", cfg.Warehouse.Driver)
}
