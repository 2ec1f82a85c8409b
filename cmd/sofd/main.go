package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/harbordesk/sof-extractor/internal/async"
	"github.com/harbordesk/sof-extractor/internal/common"
	"github.com/harbordesk/sof-extractor/internal/export"
	"github.com/harbordesk/sof-extractor/internal/extractor"
	"github.com/harbordesk/sof-extractor/internal/ingest"
	"github.com/harbordesk/sof-extractor/internal/pipeline"
	"github.com/harbordesk/sof-extractor/internal/repository"
	"github.com/harbordesk/sof-extractor/internal/server"
)

func main() {
	// Logger
	zlogger, _ := zap.NewProduction()
	defer func() { _ = zlogger.Sync() }()
	log := zlogger.Sugar()

	// Env (.env is optional)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("could not load .env: %v", err)
	}
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	// slog for the internal packages
	slogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(slogger)

	// Context with signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	db, err := repository.Open(ctx, repository.Config{
		Path:        cfg.Database.Path,
		BusyTimeout: cfg.Database.BusyTimeout,
	}, slogger)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	defer repository.Close(db, slogger)

	if err := repository.HealthCheck(ctx, db, 3*time.Second, slogger); err != nil {
		log.Fatalf("database health failed: %v", err)
	}
	log.Infow("database health OK", "path", cfg.Database.Path)

	// Wiring
	jobsRepo := repository.NewExtractionJobRepository(db, slogger)
	textSource := ingest.NewExtractor(ingest.Config{
		Pdftotext:     cfg.Ingest.Pdftotext,
		Pdftoppm:      cfg.Ingest.Pdftoppm,
		Tesseract:     cfg.Ingest.Tesseract,
		TesseractLang: cfg.Ingest.TesseractLang,
		DPI:           cfg.Ingest.DPI,
		MaxPages:      cfg.Ingest.MaxPages,
	}, slogger)
	exports := export.NewService(cfg.Outputs.Dir, slogger)
	proc := pipeline.NewProcessor(slogger, textSource, extractor.New(slogger), jobsRepo, exports)

	// Background processing queue
	queue := async.NewProcessorQueue(proc, slogger,
		async.WithWorkers(4),
		async.WithProcessTimeout(3*time.Minute),
	)

	// Optional inbox watcher
	if cfg.Ingest.WatchDir != "" {
		events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
			Roots:       []string{cfg.Ingest.WatchDir},
			InitialScan: true,
			Debounce:    2 * time.Second,
		})
		if err != nil {
			log.Fatalf("starting watcher: %v", err)
		}
		go func() {
			for path := range events {
				_ = queue.Enqueue(ctx, async.Job{Path: path})
			}
		}()
		go func() {
			for err := range errs {
				log.Errorw("watcher error", "error", err)
			}
		}()
		log.Infow("watching inbox", "dir", cfg.Ingest.WatchDir)
	}

	// Output cleanup schedule
	cleaner := server.NewOutputCleaner(cfg.Outputs.Dir, cfg.Outputs.MaxAge, slogger)
	if err := cleaner.Start(cfg.Outputs.CleanupSpec); err != nil {
		log.Fatalf("starting output cleanup: %v", err)
	}
	defer cleaner.Stop()

	// HTTP API
	svc := server.NewService(cfg.Server, proc, jobsRepo, cfg.Outputs.Dir, slogger)
	log.Infof("http serving on %s", cfg.Server.HTTPAddr)
	if err := svc.Run(ctx); err != nil {
		log.Fatalf("http serve: %v", err)
	}

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	queue.Shutdown(shutdownCtx)
	fmt.Println("stopped.")
}
