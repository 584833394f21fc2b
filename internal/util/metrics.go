package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BatchesGeneratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "batches_generated_total",
		Help: "Total number of order batches generated",
	})

	OrdersGeneratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_generated_total",
		Help: "Total number of fake orders generated",
	})

	ArchivesUploadedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "archives_uploaded_total",
		Help: "Total number of batch archives uploaded to blob storage",
	})

	IngestRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ingest_runs_total",
		Help: "Total number of ingestion runs by result",
	}, []string{"result"})

	IngestStageFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ingest_stage_failures_total",
		Help: "Total number of ingestion runs failed, by stage",
	}, []string{"stage"})

	MembersParsedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "archive_members_parsed_total",
		Help: "Total number of archive members parsed, by member and result",
	}, []string{"member", "result"})

	MembersSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "archive_members_skipped_total",
		Help: "Total number of unexpected archive members skipped",
	})

	RowsLoadedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warehouse_rows_loaded_total",
		Help: "Total number of rows appended to the warehouse, by table",
	}, []string{"table"})

	IngestRunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ingest_run_duration_seconds",
		Help:    "Duration of a full ingestion run",
		Buckets: prometheus.DefBuckets,
	})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
