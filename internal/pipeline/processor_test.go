package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harbordesk/sof-extractor/constants"
	"github.com/harbordesk/sof-extractor/internal/common"
	"github.com/harbordesk/sof-extractor/internal/export"
	"github.com/harbordesk/sof-extractor/internal/extractor"
	"github.com/harbordesk/sof-extractor/internal/ingest"
	"github.com/harbordesk/sof-extractor/internal/repository"
)

type stubTextSource struct {
	res ingest.Result
	err error
}

func (s stubTextSource) Extract(context.Context, string) (ingest.Result, error) {
	return s.res, s.err
}

func newTestProcessor(t *testing.T, text ingest.TextSource) (*Processor, repository.ExtractionJobRepository, string) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := repository.Open(context.Background(), repository.Config{Path: ":memory:"}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { repository.Close(db, logger) })

	jobs := repository.NewExtractionJobRepository(db, logger)
	outDir := t.TempDir()
	p := NewProcessor(logger, text, extractor.New(logger), jobs, export.NewService(outDir, logger))
	return p, jobs, outDir
}

const sampleText = `STATEMENT OF FACTS
2. Vessel Name: MV OCEAN GLORY 3. Port: POL SINGAPORE
Year 2025
7. Loading Commenced: 5 NOV @ 0700
8. Loading Completed: 6 NOV @ 1830`

func TestProcessFileHappyPath(t *testing.T) {
	p, jobs, outDir := newTestProcessor(t, stubTextSource{
		res: ingest.Result{Text: sampleText, Pages: 1, Format: constants.TXT, Method: "txt"},
	})

	out, err := p.ProcessFile(context.Background(), "/inbox/sof.txt")
	require.NoError(t, err)
	require.NotNil(t, out.Result)
	assert.Len(t, out.Result.Events, 2)
	assert.Equal(t, "MV OCEAN GLORY", out.Result.Metadata["vessel"])

	job, err := jobs.GetByID(context.Background(), out.JobID)
	require.NoError(t, err)
	assert.Equal(t, string(constants.JobStatusParsed), job.Status)
	assert.Equal(t, 2, job.EventCount)
	assert.Equal(t, "sof.txt", job.SourceName)
	require.NotNil(t, job.RawText)

	require.Len(t, out.Files, 3)
	for _, f := range out.Files {
		_, err := os.Stat(filepath.Join(outDir, f))
		assert.NoError(t, err, f)
	}
}

func TestProcessFileTextFailure(t *testing.T) {
	p, jobs, _ := newTestProcessor(t, stubTextSource{err: errors.New("pdftotext exploded")})

	out, err := p.ProcessFile(context.Background(), "/inbox/sof.pdf")
	require.Error(t, err)

	job, err := jobs.GetByID(context.Background(), out.JobID)
	require.NoError(t, err)
	assert.Equal(t, string(constants.JobStatusFailed), job.Status)
	require.NotNil(t, job.ErrorMessage)
	assert.Contains(t, *job.ErrorMessage, "pdftotext exploded")
}

func TestProcessFileEmptyText(t *testing.T) {
	p, jobs, _ := newTestProcessor(t, stubTextSource{
		res: ingest.Result{Text: "   \n ", Format: constants.PDF, Method: "pdf-ocr"},
	})

	out, err := p.ProcessFile(context.Background(), "/inbox/blank.pdf")
	require.ErrorIs(t, err, common.ErrNoText)

	job, err := jobs.GetByID(context.Background(), out.JobID)
	require.NoError(t, err)
	assert.Equal(t, string(constants.JobStatusFailed), job.Status)
}

type failingSaveTextRepo struct {
	repository.ExtractionJobRepository
}

func (failingSaveTextRepo) SaveText(context.Context, uuid.UUID, string) error {
	return errors.New("disk full")
}

func TestProcessFileSaveTextFailureMarksJobFailed(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := repository.Open(context.Background(), repository.Config{Path: ":memory:"}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { repository.Close(db, logger) })

	jobs := repository.NewExtractionJobRepository(db, logger)
	text := stubTextSource{res: ingest.Result{Text: sampleText, Format: constants.TXT, Method: "txt"}}
	p := NewProcessor(logger, text, extractor.New(logger), failingSaveTextRepo{jobs}, nil)

	out, err := p.ProcessFile(context.Background(), "/inbox/sof.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	job, err := jobs.GetByID(context.Background(), out.JobID)
	require.NoError(t, err)
	assert.Equal(t, string(constants.JobStatusFailed), job.Status)
	require.NotNil(t, job.ErrorMessage)
	assert.Contains(t, *job.ErrorMessage, "disk full")
}

func TestProcessFileUnsupportedExtension(t *testing.T) {
	p, _, _ := newTestProcessor(t, stubTextSource{})

	_, err := p.ProcessFile(context.Background(), "/inbox/image.png")
	require.ErrorIs(t, err, common.ErrInvalidInput)
}
