package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"xchange/config"
	"xchange/internal/blobstore"
	"xchange/internal/broker"
	"xchange/internal/generator"
	"xchange/internal/secrets"
	"xchange/internal/synth"
	"xchange/internal/util"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		orderCount   int
		maxRows      int
		encryptCells bool
		upload       bool
		outputDir    string
		seed         int64
	)

	cmd := &cobra.Command{
		Use:   "generator",
		Short: "Generate an encrypted batch archive of fake orders",
		Long: `generator synthesizes a batch of related orders and line items,
encodes them as CSV, optionally encrypts every cell, packs both files into a
password-protected zip container, and writes it locally and/or uploads it to
blob storage for ingestion.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			if cmd.Flags().Changed("orders") {
				cfg.Generator.OrderCount = orderCount
			}
			if cmd.Flags().Changed("max-rows") {
				cfg.Generator.MaxRowsPerOrder = maxRows
			}
			if cmd.Flags().Changed("encrypt-cells") {
				cfg.Generator.EncryptCells = encryptCells
			}
			if cmd.Flags().Changed("upload") {
				cfg.Generator.Upload = upload
			}
			if cmd.Flags().Changed("out") {
				cfg.Generator.OutputDir = outputDir
			}

			return run(cmd.Context(), cfg, seed)
		},
	}

	cmd.Flags().IntVar(&orderCount, "orders", 5000, "number of orders to generate")
	cmd.Flags().IntVar(&maxRows, "max-rows", 20, "maximum rows per order")
	cmd.Flags().BoolVar(&encryptCells, "encrypt-cells", true, "encrypt every CSV cell individually")
	cmd.Flags().BoolVar(&upload, "upload", false, "upload the container to blob storage")
	cmd.Flags().StringVar(&outputDir, "out", "output", "local output directory (empty to skip the local copy)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses the current time)")

	return cmd
}

func run(ctx context.Context, cfg *config.Config, seed int64) error {
	if err := util.InitLogger(cfg.Server.Env, "generator"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	synthesizer, err := synth.NewDefault(seed)
	if err != nil {
		return fmt.Errorf("initialize synthesizer: %w", err)
	}

	secretStore, err := newSecretStore(ctx, cfg)
	if err != nil {
		return err
	}

	var blobs blobstore.Store
	var publisher generator.Publisher
	if cfg.Generator.Upload {
		blobs, err = newBlobStore(ctx, cfg)
		if err != nil {
			return err
		}
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicArchives)
		defer producer.Close()
		publisher = broker.NewEventPublisher(producer)
	}

	gen := generator.New(generator.Config{
		OrderCount:      cfg.Generator.OrderCount,
		MaxRowsPerOrder: cfg.Generator.MaxRowsPerOrder,
		EncryptCells:    cfg.Generator.EncryptCells,
		Upload:          cfg.Generator.Upload,
		OutputDir:       cfg.Generator.OutputDir,
		Bucket:          cfg.Storage.Bucket,
		SecretID:        cfg.Secrets.SecretID,
	}, synthesizer, secretStore, blobs, publisher)

	result, err := gen.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("generated %s: %d orders, %d rows", result.Filename, result.Orders, result.Rows)
	if result.LocalPath != "" {
		fmt.Printf(", written to %s", result.LocalPath)
	}
	if result.Uploaded {
		fmt.Printf(", uploaded to %s", cfg.Storage.Bucket)
	}
	fmt.Println()
	return nil
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
