package usecase

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper periodically deletes temp artifacts that outlived their job, e.g.
// files orphaned by a crash between download and cleanup.
type Sweeper struct {
	dir    string
	maxAge time.Duration
	cron   *cron.Cron
	log    *slog.Logger
	now    func() time.Time
}

// NewSweeper configures a sweep of dir removing entries older than maxAge.
func NewSweeper(dir string, maxAge time.Duration, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{dir: dir, maxAge: maxAge, log: logger, now: time.Now}
}

// Start schedules the sweep with the given cron expression.
func (s *Sweeper) Start(spec string) error {
	c := cron.New()
	if _, err := c.AddFunc(spec, s.Sweep); err != nil {
		return err
	}
	c.Start()
	s.cron = c
	return nil
}

// Stop halts the schedule; a sweep already running finishes first.
func (s *Sweeper) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
		s.cron = nil
	}
}

// Sweep removes stale files once. Failures are logged and skipped.
func (s *Sweeper) Sweep() {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("sweeper: cannot read temp dir", "dir", s.dir, "error", err)
		}
		return
	}

	cutoff := s.now().Add(-s.maxAge)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			s.log.Warn("sweeper: cannot remove stale artifact", "path", path, "error", err)
			continue
		}
		s.log.Info("sweeper: removed stale artifact", "path", path)
	}
}
