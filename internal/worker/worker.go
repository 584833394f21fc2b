package worker

import (
	"context"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"xchange/internal/broker"
	"xchange/internal/ingest"
	"xchange/internal/util"
)

// IngestWorker consumes archive-created events and runs one ingestion per
// message.
type IngestWorker struct {
	consumer     *broker.Consumer
	orchestrator *ingest.Orchestrator
	logger       *zap.Logger
}

// NewIngestWorker creates a new ingest worker
func NewIngestWorker(consumer *broker.Consumer, orchestrator *ingest.Orchestrator) *IngestWorker {
	return &IngestWorker{
		consumer:     consumer,
		orchestrator: orchestrator,
		logger:       util.GetLogger(),
	}
}

// Start starts the worker
func (w *IngestWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting ingest worker")
	return w.consumer.StartConsuming(ctx, w.handleMessage)
}

// Stop stops the worker
func (w *IngestWorker) Stop() error {
	w.logger.Info("Stopping ingest worker")
	return w.consumer.Close()
}

func (w *IngestWorker) handleMessage(ctx context.Context, msg kafka.Message) error {
	event, err := broker.DecodeArchiveCreated(msg)
	if err != nil {
		w.logger.Error("Dropping undecodable trigger event", zap.Error(err))
		return nil
	}

	runID, err := w.orchestrator.Process(ctx, event.Bucket, event.Name)
	if err != nil {
		// The run already reported and recorded its failure. The offset
		// commits regardless: redelivery policy belongs to the trigger
		// layer, and a poison archive must not wedge the consumer.
		w.logger.Error("Ingestion run failed",
			zap.String("run_id", runID),
			zap.String("event_id", event.EventID),
			zap.Error(err))
		return nil
	}

	w.logger.Info("Ingestion run complete",
		zap.String("run_id", runID),
		zap.String("event_id", event.EventID))
	return nil
}
