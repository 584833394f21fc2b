package models

import "time"

// Event types
const (
	EventTypeArchiveCreated = "ARCHIVE_CREATED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// ArchiveCreatedEvent is published after a batch archive lands in blob
// storage. It is the trigger for one ingestion run.
type ArchiveCreatedEvent struct {
	BaseEvent
	Bucket string `json:"bucket"`
	Name   string `json:"name"`
}
