package server

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
)

// OutputCleaner deletes generated output files once they pass their max age.
type OutputCleaner struct {
	dir    string
	maxAge time.Duration
	logger *slog.Logger
	cron   *cron.Cron
}

func NewOutputCleaner(dir string, maxAge time.Duration, logger *slog.Logger) *OutputCleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &OutputCleaner{dir: dir, maxAge: maxAge, logger: logger}
}

// Start schedules the sweep on the given cron spec ("@every 6h" by default
// via configuration) and runs one sweep immediately.
func (c *OutputCleaner) Start(spec string) error {
	c.cron = cron.New()
	if _, err := c.cron.AddFunc(spec, c.Sweep); err != nil {
		return err
	}
	c.cron.Start()
	c.Sweep()
	return nil
}

func (c *OutputCleaner) Stop() {
	if c.cron != nil {
		<-c.cron.Stop().Done()
	}
}

// Sweep removes files in the output directory older than maxAge.
func (c *OutputCleaner) Sweep() {
	cutoff := time.Now().Add(-c.maxAge)
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Error("output cleanup scan failed", "dir", c.dir, "error", err)
		}
		return
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(c.dir, e.Name())
		if err := os.Remove(path); err != nil {
			c.logger.Warn("failed to remove expired output", "path", path, "error", err)
			continue
		}
		removed++
	}
	if removed > 0 {
		c.logger.Info("expired outputs removed", "dir", c.dir, "count", removed)
	}
}
