package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/harbordesk/sof-extractor/constants"
	"github.com/harbordesk/sof-extractor/internal/common"
	"github.com/harbordesk/sof-extractor/internal/entity"
)

type ExtractionJobRepository interface {
	Start(ctx context.Context, sourceName, format string) (*entity.ExtractionJob, error)
	MarkRunning(ctx context.Context, jobID uuid.UUID) error
	SaveText(ctx context.Context, jobID uuid.UUID, rawText string) error
	FinishSuccess(ctx context.Context, jobID uuid.UUID, metadata, events json.RawMessage, eventCount int) error
	FinishFailure(ctx context.Context, jobID uuid.UUID, message string) error
	GetByID(ctx context.Context, jobID uuid.UUID) (*entity.ExtractionJob, error)
	ListRecent(ctx context.Context, limit int) ([]*entity.ExtractionJob, error)
}

type extractionJobRepo struct {
	db  *sql.DB
	log *slog.Logger
}

func NewExtractionJobRepository(db *sql.DB, log *slog.Logger) ExtractionJobRepository {
	return &extractionJobRepo{db: db, log: log}
}

func (r *extractionJobRepo) Start(ctx context.Context, sourceName, format string) (*entity.ExtractionJob, error) {
	job := &entity.ExtractionJob{
		ID:         uuid.New(),
		SourceName: sourceName,
		Format:     format,
		Status:     string(constants.JobStatusQueued),
		StartedAt:  time.Now().UTC(),
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO extraction_job (id, source_name, format, status, started_at) VALUES (?, ?, ?, ?, ?)`,
		job.ID.String(), job.SourceName, job.Format, job.Status, job.StartedAt)
	if err != nil {
		r.log.Error("extraction_job start failed", "source", sourceName, "err", err)
		return nil, common.WrapError(err, "failed to create extraction job")
	}
	r.log.Info("extraction_job started", "job_id", job.ID, "source", sourceName, "format", format)
	return job, nil
}

func (r *extractionJobRepo) MarkRunning(ctx context.Context, jobID uuid.UUID) error {
	return r.setStatus(ctx, jobID, constants.JobStatusRunning)
}

func (r *extractionJobRepo) SaveText(ctx context.Context, jobID uuid.UUID, rawText string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE extraction_job SET raw_text = ?, status = ? WHERE id = ?`,
		rawText, string(constants.JobStatusTextOK), jobID.String())
	if err != nil {
		r.log.Error("extraction_job save text failed", "job_id", jobID, "err", err)
		return common.WrapError(err, "failed to save raw text")
	}
	r.log.Info("extraction_job text acquired", "job_id", jobID, "chars", len(rawText))
	return nil
}

func (r *extractionJobRepo) FinishSuccess(ctx context.Context, jobID uuid.UUID, metadata, events json.RawMessage, eventCount int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE extraction_job SET metadata_json = ?, events_json = ?, event_count = ?, finished_at = ?, status = ? WHERE id = ?`,
		string(metadata), string(events), eventCount, time.Now().UTC(), string(constants.JobStatusParsed), jobID.String())
	if err != nil {
		r.log.Error("extraction_job finish(PARSED) failed", "job_id", jobID, "err", err)
		return common.WrapError(err, "failed to finish extraction job")
	}
	r.log.Info("extraction_job finished (PARSED)", "job_id", jobID, "event_count", eventCount)
	return nil
}

func (r *extractionJobRepo) FinishFailure(ctx context.Context, jobID uuid.UUID, message string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE extraction_job SET finished_at = ?, status = ?, error_message = ? WHERE id = ?`,
		time.Now().UTC(), string(constants.JobStatusFailed), message, jobID.String())
	if err != nil {
		r.log.Error("extraction_job finish(FAILED) failed", "job_id", jobID, "err", err)
		return common.WrapError(err, "failed to mark extraction job failed")
	}
	r.log.Warn("extraction_job finished (FAILED)", "job_id", jobID, "error", message)
	return nil
}

func (r *extractionJobRepo) GetByID(ctx context.Context, jobID uuid.UUID) (*entity.ExtractionJob, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, source_name, format, status, started_at, finished_at, raw_text,
		        metadata_json, events_json, event_count, error_message
		 FROM extraction_job WHERE id = ?`, jobID.String())
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		r.log.Error("extraction_job get failed", "job_id", jobID, "err", err)
		return nil, common.WrapError(err, "failed to load extraction job")
	}
	return job, nil
}

func (r *extractionJobRepo) ListRecent(ctx context.Context, limit int) ([]*entity.ExtractionJob, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, source_name, format, status, started_at, finished_at, raw_text,
		        metadata_json, events_json, event_count, error_message
		 FROM extraction_job ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		r.log.Error("extraction_job list failed", "err", err)
		return nil, common.WrapError(err, "failed to list extraction jobs")
	}
	defer func() { _ = rows.Close() }()

	var jobs []*entity.ExtractionJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, common.WrapError(err, "failed to scan extraction job")
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func (r *extractionJobRepo) setStatus(ctx context.Context, jobID uuid.UUID, status constants.JobStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE extraction_job SET status = ? WHERE id = ?`, string(status), jobID.String())
	if err != nil {
		r.log.Error("extraction_job status update failed", "job_id", jobID, "status", status, "err", err)
		return common.WrapError(err, "failed to update job status")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*entity.ExtractionJob, error) {
	var (
		job      entity.ExtractionJob
		id       string
		finished sql.NullTime
		rawText  sql.NullString
		metadata sql.NullString
		events   sql.NullString
		errMsg   sql.NullString
	)
	err := row.Scan(&id, &job.SourceName, &job.Format, &job.Status, &job.StartedAt,
		&finished, &rawText, &metadata, &events, &job.EventCount, &errMsg)
	if err != nil {
		return nil, err
	}
	job.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	if finished.Valid {
		t := finished.Time
		job.FinishedAt = &t
	}
	if rawText.Valid {
		s := rawText.String
		job.RawText = &s
	}
	if metadata.Valid {
		job.MetadataJSON = json.RawMessage(metadata.String)
	}
	if events.Valid {
		job.EventsJSON = json.RawMessage(events.String)
	}
	if errMsg.Valid {
		s := errMsg.String
		job.ErrorMessage = &s
	}
	return &job, nil
}
