package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ExtractionJob represents an extraction job for data transfer between layers.
type ExtractionJob struct {
	ID           uuid.UUID       `json:"id"`
	SourceName   string          `json:"source_name"`
	Format       string          `json:"format"`
	Status       string          `json:"status"`
	StartedAt    time.Time       `json:"started_at"`
	FinishedAt   *time.Time      `json:"finished_at,omitempty"`
	RawText      *string         `json:"raw_text,omitempty"`
	MetadataJSON json.RawMessage `json:"metadata_json,omitempty"`
	EventsJSON   json.RawMessage `json:"events_json,omitempty"`
	EventCount   int             `json:"event_count"`
	ErrorMessage *string         `json:"error_message,omitempty"`
}
