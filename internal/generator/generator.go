package generator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"xchange/internal/archive"
	"xchange/internal/blobstore"
	"xchange/internal/cipher"
	"xchange/internal/models"
	"xchange/internal/secrets"
	"xchange/internal/synth"
	"xchange/internal/tabular"
	"xchange/internal/util"
)

// Config controls one generation run. EncryptCells and Upload fold the two
// historical generator variants into one binary.
type Config struct {
	OrderCount      int
	MaxRowsPerOrder int
	EncryptCells    bool
	Upload          bool
	// OutputDir receives a local copy of the container; empty disables it.
	OutputDir string
	Bucket    string
	SecretID  string
}

// Publisher announces a stored archive to the ingestion side.
type Publisher interface {
	PublishArchiveCreated(ctx context.Context, event *models.ArchiveCreatedEvent) error
}

// Generator drives the generation-side sequence: synthesize, encode,
// encrypt, pack, store, notify.
type Generator struct {
	cfg       Config
	synth     *synth.Synthesizer
	secrets   secrets.Store
	blobs     blobstore.Store
	publisher Publisher
	logger    *zap.Logger
}

// New creates a generator. blobs and publisher may be nil when Upload is off.
func New(cfg Config, s *synth.Synthesizer, secretStore secrets.Store, blobs blobstore.Store, publisher Publisher) *Generator {
	return &Generator{
		cfg:       cfg,
		synth:     s,
		secrets:   secretStore,
		blobs:     blobs,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// Result describes one produced archive.
type Result struct {
	Filename  string
	Orders    int
	Rows      int
	LocalPath string
	Uploaded  bool
}

// Run produces one batch archive.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	ctx, span := util.StartSpan(ctx, "Generator.Run")
	defer span.End()

	batch, err := g.synth.GenerateBatch(synth.Params{
		OrderCount:      g.cfg.OrderCount,
		MaxRowsPerOrder: g.cfg.MaxRowsPerOrder,
	})
	if err != nil {
		return nil, fmt.Errorf("generate batch: %w", err)
	}
	util.BatchesGeneratedTotal.Inc()
	util.OrdersGeneratedTotal.Add(float64(len(batch.Orders)))
	g.logger.Info("Batch generated",
		zap.Int("orders", len(batch.Orders)),
		zap.Int("rows", len(batch.Rows)))

	key, err := secrets.FetchKey(ctx, g.secrets, g.cfg.SecretID)
	if err != nil {
		return nil, err
	}
	defer key.Wipe()

	var cellCipher *cipher.Cipher
	if g.cfg.EncryptCells {
		cellCipher, err = cipher.New(key.Bytes())
		if err != nil {
			return nil, err
		}
	}

	ordersMember, err := encodeMember(models.MemberOrders, batch.OrdersTable(), cellCipher)
	if err != nil {
		return nil, err
	}
	rowsMember, err := encodeMember(models.MemberOrderRows, batch.OrderRowsTable(), cellCipher)
	if err != nil {
		return nil, err
	}
	g.logger.Info("CSV members encoded", zap.Bool("cells_encrypted", g.cfg.EncryptCells))

	filename := archive.Filename(time.Now())
	container, err := archive.Pack(key.Password(), ordersMember, rowsMember)
	if err != nil {
		return nil, fmt.Errorf("pack container: %w", err)
	}
	g.logger.Info("Container packed", zap.String("filename", filename), zap.Int("bytes", len(container)))

	result := &Result{Filename: filename, Orders: len(batch.Orders), Rows: len(batch.Rows)}

	if g.cfg.OutputDir != "" {
		if err := os.MkdirAll(g.cfg.OutputDir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
		path := filepath.Join(g.cfg.OutputDir, filename)
		if err := os.WriteFile(path, container, 0o644); err != nil {
			return nil, fmt.Errorf("write container: %w", err)
		}
		result.LocalPath = path
		g.logger.Info("Container written to disk", zap.String("path", path))
	}

	if g.cfg.Upload {
		if g.blobs == nil {
			return nil, fmt.Errorf("upload requested but no blob store configured")
		}
		if err := g.blobs.Upload(ctx, g.cfg.Bucket, filename, container); err != nil {
			return nil, &models.TransportError{Op: "upload", Bucket: g.cfg.Bucket, Name: filename, Err: err}
		}
		util.ArchivesUploadedTotal.Inc()
		result.Uploaded = true
		g.logger.Info("Container uploaded", zap.String("bucket", g.cfg.Bucket), zap.String("filename", filename))

		if g.publisher != nil {
			event := &models.ArchiveCreatedEvent{
				BaseEvent: models.BaseEvent{
					EventID:   uuid.New().String(),
					EventType: models.EventTypeArchiveCreated,
					Timestamp: time.Now(),
				},
				Bucket: g.cfg.Bucket,
				Name:   filename,
			}
			if err := g.publisher.PublishArchiveCreated(ctx, event); err != nil {
				return nil, fmt.Errorf("publish archive event: %w", err)
			}
		}
	}

	return result, nil
}

func encodeMember(name string, tbl *tabular.Table, cellCipher *cipher.Cipher) (archive.Member, error) {
	records, err := tabular.Render(tbl)
	if err != nil {
		return archive.Member{}, fmt.Errorf("render %s: %w", name, err)
	}
	if cellCipher != nil {
		records, err = cellCipher.EncryptRecords(records)
		if err != nil {
			return archive.Member{}, fmt.Errorf("encrypt %s: %w", name, err)
		}
	}
	data, err := tabular.WriteRecords(tbl.Schema, records)
	if err != nil {
		return archive.Member{}, fmt.Errorf("write %s: %w", name, err)
	}
	return archive.Member{Name: name, Data: data}, nil
}
