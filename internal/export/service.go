// Package export writes extraction results to the public outputs directory
// as CSV, JSON, and XLSX files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/harbordesk/sof-extractor/internal/entity"
)

// Service writes result files for one extraction under a stable unique basename.
type Service struct {
	outputDir string
	logger    *slog.Logger
}

func NewService(outputDir string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{outputDir: outputDir, logger: logger}
}

// OutputDir returns the directory result files are written to.
func (s *Service) OutputDir() string { return s.outputDir }

// Basename derives the shared file stem for a job's outputs.
func Basename(jobID uuid.UUID) string {
	return "sof_events_" + jobID.String()
}

var csvHeader = []string{"event", "start", "end", "remarks", "line_number"}

// WriteCSV writes the flat event table and returns the file's basename.
func (s *Service) WriteCSV(base string, res *entity.ExtractionResult) (string, error) {
	name := base + ".csv"
	f, err := s.create(name)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	for _, ev := range res.Events {
		line := ""
		if ev.LineNumber != nil {
			line = strconv.Itoa(*ev.LineNumber)
		}
		if err := w.Write([]string{string(ev.Event), ev.Start, ev.End, ev.Remarks, line}); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	s.logger.Info("csv written", "file", name, "events", len(res.Events))
	return name, nil
}

// WriteJSON writes the full result envelope and returns the file's basename.
// The envelope is validated against the result schema before anything is
// written; a violation fails the export.
func (s *Service) WriteJSON(base string, res *entity.ExtractionResult) (string, error) {
	name := base + ".json"
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode json: %w", err)
	}
	if err := ValidateResultJSON(data); err != nil {
		return "", err
	}

	f, err := s.create(name)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return "", fmt.Errorf("write json: %w", err)
	}
	s.logger.Info("json written", "file", name, "events", len(res.Events))
	return name, nil
}

// WriteXLSX writes an Events workbook and returns the file's basename.
func (s *Service) WriteXLSX(base string, res *entity.ExtractionResult) (string, error) {
	start := time.Now()
	name := base + ".xlsx"

	f := excelize.NewFile()
	const sheet = "Events"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return "", err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	// Drop the default sheet so the workbook only carries Events.
	if idx, _ := f.GetSheetIndex("Sheet1"); idx != -1 && sheet != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{"Event", "Start", "End", "Remarks", "Line Number"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, ev := range res.Events {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, string(ev.Event))
		write(2, ev.Start)
		write(3, ev.End)
		write(4, ev.Remarks)
		if ev.LineNumber != nil {
			write(5, *ev.LineNumber)
		}
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 28)
	_ = f.SetColWidth(sheet, "B", "C", 20)
	_ = f.SetColWidth(sheet, "D", "D", 48)

	if err := f.SaveAs(filepath.Join(s.outputDir, name)); err != nil {
		return "", fmt.Errorf("save xlsx: %w", err)
	}
	s.logger.Info("xlsx written", "file", name, "events", len(res.Events), "duration_ms", time.Since(start).Milliseconds())
	return name, nil
}

// WriteAll produces every output format for the result.
func (s *Service) WriteAll(base string, res *entity.ExtractionResult) (files []string, err error) {
	for _, fn := range []func(string, *entity.ExtractionResult) (string, error){
		s.WriteCSV, s.WriteJSON, s.WriteXLSX,
	} {
		name, err := fn(base, res)
		if err != nil {
			return files, err
		}
		files = append(files, name)
	}
	return files, nil
}

func (s *Service) create(name string) (*os.File, error) {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(filepath.Join(s.outputDir, name))
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	return f, nil
}
