// Package pipeline coordinates text acquisition, event extraction,
// persistence, and output publishing for one document.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/harbordesk/sof-extractor/constants"
	"github.com/harbordesk/sof-extractor/internal/common"
	"github.com/harbordesk/sof-extractor/internal/entity"
	"github.com/harbordesk/sof-extractor/internal/export"
	"github.com/harbordesk/sof-extractor/internal/extractor"
	"github.com/harbordesk/sof-extractor/internal/ingest"
	"github.com/harbordesk/sof-extractor/internal/repository"
)

// Processor runs one document through text acquisition then extraction,
// advancing the extraction_job row as it goes.
type Processor struct {
	Logger    *slog.Logger
	Text      ingest.TextSource
	Extractor *extractor.Extractor
	Jobs      repository.ExtractionJobRepository
	Exports   *export.Service
}

func NewProcessor(
	logger *slog.Logger,
	text ingest.TextSource,
	ex *extractor.Extractor,
	jobs repository.ExtractionJobRepository,
	exports *export.Service,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, Text: text, Extractor: ex, Jobs: jobs, Exports: exports}
}

// Outcome is what callers (HTTP handler, watcher, batch CLI) get back.
type Outcome struct {
	JobID  uuid.UUID
	Result *entity.ExtractionResult
	Files  []string // output basenames (csv, json, xlsx)
}

// ProcessFile runs the full pipeline for a document on disk. The job row is
// created up front so failures are visible; terminal status is PARSED or
// FAILED.
func (p *Processor) ProcessFile(ctx context.Context, path string) (Outcome, error) {
	return p.ProcessNamed(ctx, path, filepath.Base(path))
}

// ProcessNamed is ProcessFile with an explicit source name, for callers that
// stage uploads under temporary paths.
func (p *Processor) ProcessNamed(ctx context.Context, path, sourceName string) (Outcome, error) {
	format := mapFormat(path)
	if format == "" {
		return Outcome{}, fmt.Errorf("%w: unsupported file extension %q", common.ErrInvalidInput, filepath.Ext(path))
	}

	job, err := p.Jobs.Start(ctx, sourceName, format)
	if err != nil {
		return Outcome{}, err
	}
	if err := p.Jobs.MarkRunning(ctx, job.ID); err != nil {
		return Outcome{JobID: job.ID}, err
	}

	// Stage 1: text acquisition
	text, err := p.Text.Extract(ctx, path)
	if err != nil {
		_ = p.Jobs.FinishFailure(ctx, job.ID, err.Error())
		p.Logger.Error("pipeline.text.failed", "job_id", job.ID, "source", sourceName, "err", err)
		return Outcome{JobID: job.ID}, err
	}
	if strings.TrimSpace(text.Text) == "" {
		_ = p.Jobs.FinishFailure(ctx, job.ID, common.ErrNoText.Error())
		p.Logger.Error("pipeline.text.empty", "job_id", job.ID, "source", sourceName, "method", text.Method)
		return Outcome{JobID: job.ID}, common.ErrNoText
	}
	if err := p.Jobs.SaveText(ctx, job.ID, text.Text); err != nil {
		_ = p.Jobs.FinishFailure(ctx, job.ID, err.Error())
		return Outcome{JobID: job.ID}, err
	}
	p.Logger.Info("pipeline.text.ok",
		"job_id", job.ID,
		"source", sourceName,
		"method", text.Method,
		"pages", text.Pages,
		"chars", len(text.Text),
	)

	// Stage 2: extraction (pure, cannot fail)
	result := p.Extractor.Extract(text.Text)

	metadataJSON, err := json.Marshal(result.Metadata)
	if err != nil {
		_ = p.Jobs.FinishFailure(ctx, job.ID, err.Error())
		return Outcome{JobID: job.ID}, err
	}
	eventsJSON, err := json.Marshal(result.Events)
	if err != nil {
		_ = p.Jobs.FinishFailure(ctx, job.ID, err.Error())
		return Outcome{JobID: job.ID}, err
	}
	if err := p.Jobs.FinishSuccess(ctx, job.ID, metadataJSON, eventsJSON, len(result.Events)); err != nil {
		return Outcome{JobID: job.ID}, err
	}

	// Stage 3: publish outputs
	var files []string
	if p.Exports != nil {
		files, err = p.Exports.WriteAll(export.Basename(job.ID), &result)
		if err != nil {
			p.Logger.Error("pipeline.export.failed", "job_id", job.ID, "err", err)
			return Outcome{JobID: job.ID, Result: &result}, err
		}
	}

	p.Logger.Info("pipeline.parse.ok", "job_id", job.ID, "events", len(result.Events))
	return Outcome{JobID: job.ID, Result: &result, Files: files}, nil
}

func mapFormat(path string) string {
	return constants.MapExtToFormat(filepath.Ext(path))
}
