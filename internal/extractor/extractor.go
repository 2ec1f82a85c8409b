// Package extractor turns raw Statement of Facts text into header metadata
// and a deduplicated, chronologically ordered event timeline. The whole
// package is a pure function of its input text: no I/O, no shared state, safe
// for concurrent use.
package extractor

import (
	"log/slog"
	"time"

	"github.com/harbordesk/sof-extractor/internal/entity"
)

type Extractor struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract runs the full pipeline: normalize, infer the document year, pull
// header metadata, detect and finalize events. Empty input yields empty
// metadata and an empty event list; no input can make it fail.
func (e *Extractor) Extract(text string) entity.ExtractionResult {
	normalized := Normalize(text)
	metadata := ExtractMetadata(normalized)
	year := DocumentYear(normalized)
	events := Finalize(DetectEvents(normalized, year))

	e.logger.Debug("extraction complete",
		"year", year,
		"metadata_fields", len(metadata),
		"events", len(events),
	)

	return entity.ExtractionResult{
		Metadata: metadata,
		Events:   events,
		RawText:  normalized,
		Summary: entity.Summary{
			TotalEvents:    len(events),
			EventTypes:     distinctEventTypes(events),
			ExtractionDate: time.Now().Format(entity.TimestampLayout),
		},
	}
}

func distinctEventTypes(events []entity.EventRecord) []string {
	seen := make(map[string]struct{}, len(events))
	types := make([]string, 0, len(events))
	for _, ev := range events {
		if _, ok := seen[string(ev.Event)]; ok {
			continue
		}
		seen[string(ev.Event)] = struct{}{}
		types = append(types, string(ev.Event))
	}
	return types
}
