// Package server exposes the extraction pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/harbordesk/sof-extractor/constants"
	"github.com/harbordesk/sof-extractor/internal/common"
	"github.com/harbordesk/sof-extractor/internal/entity"
	"github.com/harbordesk/sof-extractor/internal/pipeline"
	"github.com/harbordesk/sof-extractor/internal/repository"
)

type Service struct {
	cfg    common.ServerConfig
	proc   *pipeline.Processor
	jobs   repository.ExtractionJobRepository
	outDir string
	logger *slog.Logger
}

func NewService(cfg common.ServerConfig, proc *pipeline.Processor, jobs repository.ExtractionJobRepository, outDir string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{cfg: cfg, proc: proc, jobs: jobs, outDir: outDir, logger: logger}
}

func (s *Service) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Post("/upload", s.handleUpload)
	r.Get("/jobs", s.handleListJobs)
	r.Get("/jobs/{id}", s.handleGetJob)
	r.Get("/outputs/{filename}", s.handleOutput)
	return r
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// uploadResponse mirrors what document processing produced for the caller:
// the stored result plus links to the generated output files.
type uploadResponse struct {
	JobID       uuid.UUID               `json:"job_id"`
	Filename    string                  `json:"filename"`
	EventsCount int                     `json:"events_count"`
	Metadata    entity.Metadata         `json:"metadata"`
	Result      *entity.ExtractionResult `json:"result"`
	Links       map[string]string       `json:"links"`
}

func (s *Service) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			common.WriteHTTPError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		common.BadRequestError(w, "invalid multipart form: %v", err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		common.BadRequestError(w, "missing file field")
		return
	}
	defer func() { _ = file.Close() }()

	ext := constants.NormalizeExt(filepath.Ext(header.Filename))
	if _, ok := constants.AllowedExtensions[ext]; !ok {
		common.BadRequestError(w, "unsupported file type %q, allowed: pdf, docx, txt", ext)
		return
	}

	tmp, err := os.CreateTemp("", "sof-upload-*."+ext)
	if err != nil {
		common.InternalError(w, "failed to stage upload")
		return
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := io.Copy(tmp, file); err != nil {
		_ = tmp.Close()
		common.InternalError(w, "failed to stage upload")
		return
	}
	if err := tmp.Close(); err != nil {
		common.InternalError(w, "failed to stage upload")
		return
	}

	if err := s.checkContentType(tmpPath, ext); err != nil {
		common.BadRequestError(w, "%v", err)
		return
	}

	out, err := s.proc.ProcessNamed(r.Context(), tmpPath, header.Filename)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNoText):
			common.UnprocessableError(w, "no text could be extracted from %s", header.Filename)
		case errors.Is(err, common.ErrInvalidInput):
			common.BadRequestError(w, "%v", err)
		default:
			s.logger.Error("upload processing failed", "filename", header.Filename, "err", err)
			common.InternalError(w, "processing failed")
		}
		return
	}

	links := make(map[string]string, len(out.Files))
	for _, f := range out.Files {
		kind := strings.TrimPrefix(filepath.Ext(f), ".")
		links[kind] = "/outputs/" + f
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		JobID:       out.JobID,
		Filename:    header.Filename,
		EventsCount: len(out.Result.Events),
		Metadata:    out.Result.Metadata,
		Result:      out.Result,
		Links:       links,
	})
}

// checkContentType sniffs the staged file and rejects uploads whose content
// does not plausibly match their extension. Text files pass as long as the
// sniffer sees something text-like.
func (s *Service) checkContentType(path, ext string) error {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return errors.New("could not inspect uploaded file")
	}
	switch ext {
	case "pdf":
		if !mt.Is("application/pdf") {
			return errors.New("file content is not a valid PDF")
		}
	case "docx":
		if !mt.Is("application/vnd.openxmlformats-officedocument.wordprocessingml.document") &&
			!mt.Is("application/zip") {
			return errors.New("file content is not a valid DOCX")
		}
	case "txt":
		for m := mt; m != nil; m = m.Parent() {
			if m.Is("text/plain") {
				return nil
			}
		}
		return errors.New("file content is not plain text")
	}
	return nil
}

func (s *Service) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.BadRequestError(w, "invalid job id")
		return
	}
	job, err := s.jobs.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			common.NotFoundError(w, "job %s not found", id)
			return
		}
		common.InternalError(w, "failed to load job")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Service) handleListJobs(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 500 {
			common.BadRequestError(w, "limit must be a positive integer up to 500")
			return
		}
		limit = n
	}
	jobs, err := s.jobs.ListRecent(r.Context(), limit)
	if err != nil {
		common.InternalError(w, "failed to list jobs")
		return
	}
	if jobs == nil {
		jobs = []*entity.ExtractionJob{}
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (s *Service) handleOutput(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")
	if name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		common.BadRequestError(w, "invalid filename")
		return
	}
	path := filepath.Join(s.outDir, name)
	if _, err := os.Stat(path); err != nil {
		common.NotFoundError(w, "output %s not found", name)
		return
	}
	http.ServeFile(w, r, path)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Service) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}
