// Package importer drives the organisation bulk import: validation, location
// resolution, deduplicating upserts, logo sync, and association sync, with
// per-row failure isolation.
package importer

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// rowOffset converts a zero-based data row index into the human-readable
// spreadsheet row: the heading row is row 1, the first data row is row 2.
const rowOffset = 2

// Stats accumulates the outcome of one import run. It is the run's sole
// audit trail; the CLI renders it after Run returns. Safe for concurrent
// use so the geocode prefetch can record warnings.
type Stats struct {
	mu sync.Mutex

	name      string
	processed int
	skipped   int
	created   int
	updated   int
	errors    []string
	warnings  []string
	fatal     string
	start     time.Time
	finish    time.Time
}

// NewStats creates a Stats for a named import run.
func NewStats(name string) *Stats {
	return &Stats{name: name}
}

// Start stamps the run's start time.
func (s *Stats) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.start = time.Now()
	zap.L().Info("import started", zap.String("import", s.name))
}

// Finish stamps the run's finish time. Recording a fatal error finishes the
// run implicitly.
func (s *Stats) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finish.IsZero() {
		s.finish = time.Now()
	}
}

func (s *Stats) RecordProcessed(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processed++
	zap.L().Debug("processing row", zap.String("import", s.name), zap.Int("row", index+rowOffset))
}

// RecordSkip counts a row that was intentionally not imported. Skips are
// silent; they are not errors.
func (s *Stats) RecordSkip(index int, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skipped++
	zap.L().Debug("skipped row",
		zap.String("import", s.name), zap.Int("row", index+rowOffset), zap.String("reason", reason))
}

func (s *Stats) RecordError(index int, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, fmt.Sprintf("Row %d: %s", index+rowOffset, msg))
	zap.L().Error("row failed",
		zap.String("import", s.name), zap.Int("row", index+rowOffset), zap.String("error", msg))
}

func (s *Stats) RecordWarning(index int, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warnings = append(s.warnings, fmt.Sprintf("Row %d: %s", index+rowOffset, msg))
	zap.L().Warn("row warning",
		zap.String("import", s.name), zap.Int("row", index+rowOffset), zap.String("warning", msg))
}

func (s *Stats) RecordCreated(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created++
	zap.L().Debug("created organisation", zap.String("name", name))
}

func (s *Stats) RecordUpdated(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updated++
	zap.L().Debug("updated organisation", zap.String("name", name))
}

// RecordFatal stops the run: the orchestrator returns immediately after
// calling it, so it also stamps the finish time.
func (s *Stats) RecordFatal(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fatal = msg
	s.finish = time.Now()
	zap.L().Error("import failed", zap.String("import", s.name), zap.String("fatal", msg))
}

func (s *Stats) Processed() int { s.mu.Lock(); defer s.mu.Unlock(); return s.processed }
func (s *Stats) Skipped() int   { s.mu.Lock(); defer s.mu.Unlock(); return s.skipped }
func (s *Stats) Created() int   { s.mu.Lock(); defer s.mu.Unlock(); return s.created }
func (s *Stats) Updated() int   { s.mu.Lock(); defer s.mu.Unlock(); return s.updated }

// Succeeded is the number of rows that ended in a persisted record.
func (s *Stats) Succeeded() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.created + s.updated
}

func (s *Stats) Errors() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.errors...)
}

func (s *Stats) Warnings() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.warnings...)
}

func (s *Stats) FatalError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fatal
}

func (s *Stats) HasFatal() bool { return s.FatalError() != "" }

func (s *Stats) HasErrors() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.errors) > 0
}

// ExecutionTime is the wall-clock duration of the run, zero until both
// timestamps are set.
func (s *Stats) ExecutionTime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.start.IsZero() || s.finish.IsZero() {
		return 0
	}
	return s.finish.Sub(s.start)
}

// Summary renders the one-line run report.
func (s *Stats) Summary() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var duration time.Duration
	if !s.start.IsZero() && !s.finish.IsZero() {
		duration = s.finish.Sub(s.start)
	}

	return fmt.Sprintf(
		"%s: Processed %d, skipped %d rows. Created %d, updated %d entries with %d warnings. %d failed. Completed in %.2fs",
		s.name, s.processed, s.skipped, s.created, s.updated,
		len(s.warnings), len(s.errors), duration.Seconds(),
	)
}
