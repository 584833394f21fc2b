package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"xchange/internal/archive"
	"xchange/internal/blobstore"
	"xchange/internal/cipher"
	"xchange/internal/models"
	"xchange/internal/secrets"
	"xchange/internal/tabular"
	"xchange/internal/util"
	"xchange/internal/warehouse"
)

// Config controls the receive side of the pipeline.
type Config struct {
	SecretID      string
	ArchiveBucket string
	// CellsEncrypted must match the generator's EncryptCells setting.
	CellsEncrypted bool
}

// Orchestrator drives one ingestion run per received archive notification:
// fetch, unpack, parse each member against its schema, load, and archive the
// container only after every known member loaded.
type Orchestrator struct {
	cfg       Config
	blobs     blobstore.Store
	secrets   secrets.Store
	warehouse warehouse.Warehouse
	status    StatusStore
	logger    *zap.Logger
}

// New creates an orchestrator over the injected collaborators.
func New(cfg Config, blobs blobstore.Store, secretStore secrets.Store, wh warehouse.Warehouse, status StatusStore) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		blobs:     blobs,
		secrets:   secretStore,
		warehouse: wh,
		status:    status,
		logger:    util.GetLogger(),
	}
}

// Process runs the full receive sequence for one container. It returns the
// run identifier and the first fatal error, if any. Member-scoped failures
// are collected; the run fails without archiving but sibling members still
// load.
func (o *Orchestrator) Process(ctx context.Context, bucket, name string) (string, error) {
	start := time.Now()
	runID := uuid.New().String()

	ctx, span := util.StartSpan(ctx, "Orchestrator.Process")
	defer span.End()

	log := o.logger.With(
		zap.String("run_id", runID),
		zap.String("bucket", bucket),
		zap.String("object", name),
	)

	// stage names the phase the run failed to complete, so every failure
	// mode carries a distinct label.
	fail := func(stage string, err error) error {
		log.Error("Ingestion run failed", zap.String("stage", stage), zap.Error(err))
		o.setStage(ctx, runID, bucket, name, StageFailed, err.Error())
		util.IngestStageFailures.WithLabelValues(stage).Inc()
		util.IngestRunsTotal.WithLabelValues("failed").Inc()
		return err
	}

	log.Info("Ingestion run started")
	o.setStage(ctx, runID, bucket, name, StageReceived, "")

	container, err := o.blobs.Download(ctx, bucket, name)
	if err != nil {
		return runID, fail(StageFetched, &models.TransportError{Op: "download", Bucket: bucket, Name: name, Err: err})
	}
	o.setStage(ctx, runID, bucket, name, StageFetched, "")
	log.Info("Container fetched", zap.Int("bytes", len(container)))

	key, err := secrets.FetchKey(ctx, o.secrets, o.cfg.SecretID)
	if err != nil {
		return runID, fail(StageUnpacked, err)
	}
	defer key.Wipe()

	members, err := archive.Unpack(container, key.Password())
	if err != nil {
		return runID, fail(StageUnpacked, err)
	}
	o.setStage(ctx, runID, bucket, name, StageUnpacked, "")
	log.Info("Container unpacked", zap.Int("members", len(members)))

	var cellCipher *cipher.Cipher
	if o.cfg.CellsEncrypted {
		cellCipher, err = cipher.New(key.Bytes())
		if err != nil {
			return runID, fail(StageParsing, err)
		}
	}

	var memberErrs []error
	for _, m := range members {
		target, ok := memberTables[m.Name]
		if !ok {
			log.Warn("Skipping unexpected archive member", zap.String("member", m.Name))
			util.MembersSkippedTotal.Inc()
			continue
		}
		o.setStage(ctx, runID, bucket, name, StageParsing, "")

		tbl, err := parseMember(m, target.Schema, cellCipher)
		if err != nil {
			var integrity *models.IntegrityError
			if errors.As(err, &integrity) {
				// Cell decryption failure means a wrong or corrupted key,
				// not bad data in one member.
				return runID, fail(StageParsing, err)
			}
			log.Error("Member failed to parse", zap.String("member", m.Name), zap.Error(err))
			util.MembersParsedTotal.WithLabelValues(m.Name, "error").Inc()
			memberErrs = append(memberErrs, err)
			continue
		}
		util.MembersParsedTotal.WithLabelValues(m.Name, "ok").Inc()

		if err := o.warehouse.Append(ctx, target.Table, tbl); err != nil {
			loadErr := &models.LoadError{Member: m.Name, Table: target.Table, Err: err}
			log.Error("Member failed to load", zap.String("member", m.Name), zap.Error(loadErr))
			memberErrs = append(memberErrs, loadErr)
			continue
		}
		util.RowsLoadedTotal.WithLabelValues(target.Table).Add(float64(tbl.NumRows()))
		log.Info("Member loaded",
			zap.String("member", m.Name),
			zap.String("table", target.Table),
			zap.Int("rows", tbl.NumRows()))
	}

	if len(memberErrs) > 0 {
		stage := StageParsing
		for _, merr := range memberErrs {
			var loadErr *models.LoadError
			if errors.As(merr, &loadErr) {
				stage = StageLoaded
			}
		}
		return runID, fail(stage, errors.Join(memberErrs...))
	}
	o.setStage(ctx, runID, bucket, name, StageLoaded, "")

	// Archival is the barrier: it runs only after every known member loaded.
	// A failure past this point leaves loaded rows behind, the documented
	// at-least-once boundary.
	if err := o.blobs.Copy(ctx, bucket, name, o.cfg.ArchiveBucket); err != nil {
		log.Error("Container archival failed after successful load; object remains at source",
			zap.String("archive_bucket", o.cfg.ArchiveBucket), zap.Error(err))
		return runID, fail(StageArchived, &models.TransportError{Op: "copy", Bucket: bucket, Name: name, Err: err})
	}
	if err := o.blobs.Delete(ctx, bucket, name); err != nil {
		log.Error("Container delete failed after archival copy; object exists in both locations",
			zap.Error(err))
		return runID, fail(StageArchived, &models.TransportError{Op: "delete", Bucket: bucket, Name: name, Err: err})
	}
	o.setStage(ctx, runID, bucket, name, StageArchived, "")

	util.IngestRunsTotal.WithLabelValues("ok").Inc()
	util.IngestRunDuration.Observe(time.Since(start).Seconds())
	log.Info("Ingestion run archived",
		zap.String("archive_bucket", o.cfg.ArchiveBucket),
		zap.Duration("duration", time.Since(start)))
	return runID, nil
}

func parseMember(m archive.Member, schema tabular.Schema, cellCipher *cipher.Cipher) (*tabular.Table, error) {
	header, records, err := tabular.ReadRecords(m.Name, m.Data)
	if err != nil {
		return nil, err
	}
	if cellCipher != nil {
		records, err = cellCipher.DecryptRecords(records)
		if err != nil {
			return nil, err
		}
	}
	return tabular.DecodeRecords(m.Name, header, records, schema)
}

func (o *Orchestrator) setStage(ctx context.Context, runID, bucket, name, stage, errMsg string) {
	if o.status == nil {
		return
	}
	err := o.status.UpdateRun(ctx, RunStatus{
		RunID:     runID,
		Bucket:    bucket,
		Object:    name,
		Stage:     stage,
		Error:     errMsg,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		o.logger.Warn("Failed to record run status", zap.String("run_id", runID), zap.Error(err))
	}
}
