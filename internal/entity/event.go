package entity

import (
	"github.com/harbordesk/sof-extractor/constants"
)

// TimestampLayout is the wire format for event timestamps. Timestamps are
// document-local: the core attaches no timezone.
const TimestampLayout = "2006-01-02T15:04:05"

// EventRecord represents one detected timeline event for data transfer
// between layers. Start and End are ISO strings or empty when the date/time
// could not be resolved; End always equals Start (the model has no duration
// concept).
type EventRecord struct {
	Event      constants.EventType `json:"event"`
	Start      string              `json:"start"`
	End        string              `json:"end"`
	Remarks    string              `json:"remarks"`
	LineNumber *int                `json:"line_number,omitempty"`
}

// Metadata maps header field names to extracted values. Keys are drawn from
// {vessel, voyage_from, voyage_to}; absent fields are simply omitted.
type Metadata map[string]string

// Summary aggregates an extraction run for the JSON envelope.
type Summary struct {
	TotalEvents    int      `json:"total_events"`
	EventTypes     []string `json:"event_types"`
	ExtractionDate string   `json:"extraction_date"`
}

// ExtractionResult is the externally visible output of one extraction call.
type ExtractionResult struct {
	Metadata Metadata      `json:"metadata"`
	Events   []EventRecord `json:"events"`
	RawText  string        `json:"raw_text"`
	Summary  Summary       `json:"summary"`
}
