package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/harbordesk/sof-extractor/internal/common"
	"github.com/harbordesk/sof-extractor/internal/export"
	"github.com/harbordesk/sof-extractor/internal/extractor"
	"github.com/harbordesk/sof-extractor/internal/ingest"
	"github.com/harbordesk/sof-extractor/internal/pipeline"
	"github.com/harbordesk/sof-extractor/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		file  = flag.String("file", "", "single document to process")
		dir   = flag.String("dir", "", "directory of documents to process")
		out   = flag.String("out", "", "output directory (defaults to OUTPUT_DIR or ./public/outputs)")
		inmem = flag.Bool("inmem", false, "use an in-memory database instead of DB_PATH")
	)
	flag.Parse()

	if *file == "" && *dir == "" {
		printError("Error: one of --file or --dir is required\n")
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()
	cfg := common.LoadConfig()
	if *out != "" {
		cfg.Outputs.Dir = *out
	}

	dbPath := cfg.Database.Path
	if *inmem {
		dbPath = ":memory:"
	}
	db, err := repository.Open(ctx, repository.Config{Path: dbPath, BusyTimeout: cfg.Database.BusyTimeout}, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer repository.Close(db, logger)

	jobsRepo := repository.NewExtractionJobRepository(db, logger)
	textSource := ingest.NewExtractor(ingest.Config{
		Pdftotext:     cfg.Ingest.Pdftotext,
		Pdftoppm:      cfg.Ingest.Pdftoppm,
		Tesseract:     cfg.Ingest.Tesseract,
		TesseractLang: cfg.Ingest.TesseractLang,
		DPI:           cfg.Ingest.DPI,
		MaxPages:      cfg.Ingest.MaxPages,
	}, logger)
	proc := pipeline.NewProcessor(logger, textSource, extractor.New(logger), jobsRepo,
		export.NewService(cfg.Outputs.Dir, logger))

	paths, err := collectPaths(*file, *dir)
	if err != nil {
		logger.Error("failed to collect input files", "error", err)
		os.Exit(1)
	}
	if len(paths) == 0 {
		printError("Error: no supported documents found\n")
		os.Exit(1)
	}

	failed := 0
	for _, p := range paths {
		out, err := proc.ProcessFile(ctx, p)
		if err != nil {
			logger.Error("document failed", "path", p, "job_id", out.JobID, "error", err)
			failed++
			continue
		}
		logger.Info("document processed",
			"path", p,
			"job_id", out.JobID,
			"events", len(out.Result.Events),
			"outputs", out.Files,
		)
	}

	logger.Info("batch complete", "total", len(paths), "failed", failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func collectPaths(file, dir string) ([]string, error) {
	if file != "" {
		return []string{file}, nil
	}
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if ingest.IsHidden(path) && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if ingest.IsHidden(path) {
			return nil
		}
		if ingest.AllowedExt(filepath.Ext(path)) {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}
