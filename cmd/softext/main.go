// softext dumps the acquired text for one document, before and after
// normalization. Useful when a statement parses badly and you need to see
// what the detector actually saw.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/harbordesk/sof-extractor/internal/common"
	"github.com/harbordesk/sof-extractor/internal/extractor"
	"github.com/harbordesk/sof-extractor/internal/ingest"
)

func main() {
	var (
		raw = flag.Bool("raw", false, "print the text as acquired, skip normalization")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: softext [-raw] <document>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	textSource := ingest.NewExtractor(ingest.Config{
		Pdftotext:     cfg.Ingest.Pdftotext,
		Pdftoppm:      cfg.Ingest.Pdftoppm,
		Tesseract:     cfg.Ingest.Tesseract,
		TesseractLang: cfg.Ingest.TesseractLang,
		DPI:           cfg.Ingest.DPI,
		MaxPages:      cfg.Ingest.MaxPages,
	}, logger)

	res, err := textSource.Extract(context.Background(), path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "softext: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "method=%s pages=%d chars=%d\n", res.Method, res.Pages, len(res.Text))
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	if *raw {
		fmt.Println(res.Text)
		return
	}
	fmt.Println(extractor.Normalize(res.Text))
}
