package ingest

import (
	"context"
	"time"
)

// Stages of the ingestion run state machine.
const (
	StageReceived = "RECEIVED"
	StageFetched  = "FETCHED"
	StageUnpacked = "UNPACKED"
	StageParsing  = "PARSING"
	StageLoaded   = "LOADED"
	StageArchived = "ARCHIVED"
	StageFailed   = "FAILED"
)

// RunStatus is the externally visible progress record of one run.
type RunStatus struct {
	RunID     string    `json:"run_id"`
	Bucket    string    `json:"bucket"`
	Object    string    `json:"object"`
	Stage     string    `json:"stage"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StatusStore records run progress. A nil store disables recording.
type StatusStore interface {
	UpdateRun(ctx context.Context, status RunStatus) error
}
