// Package scheduler runs the background upkeep of the text core: keeping
// dynamic humanizer patterns fresh, reviewing reported phrases and pruning
// template usage history.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/abdulachik/replyguy/internal/analyzer"
)

// DefaultCleanupInterval is how often stale template usage is pruned.
const DefaultCleanupInterval = time.Hour

// Health component names.
const (
	ComponentPatterns = "patterns"
	ComponentAnalyzer = "analyzer"
)

// PatternCache is the dynamic rule cache the scheduler keeps warm.
type PatternCache interface {
	Refresh(ctx context.Context) error
	Len() int
}

// PhraseAnalyzer reviews reported phrases.
type PhraseAnalyzer interface {
	AnalyzeReported(ctx context.Context, minReports int) (analyzer.Result, error)
}

// UsageCleaner prunes expired usage history.
type UsageCleaner interface {
	Cleanup()
}

// Config holds scheduler dependencies and intervals. Analyzer may be nil,
// in which case phrase review is skipped.
type Config struct {
	Patterns PatternCache
	Analyzer PhraseAnalyzer
	Usage    UsageCleaner

	RefreshInterval time.Duration
	AnalyzeInterval time.Duration
	CleanupInterval time.Duration
	MinReports      int
}

// Scheduler orchestrates the periodic tasks of the daemon.
type Scheduler struct {
	cfg    Config
	health *Health
}

// New creates a new scheduler. Zero intervals fall back to defaults.
func New(cfg Config) *Scheduler {
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = 5 * time.Minute
	}
	if cfg.AnalyzeInterval <= 0 {
		cfg.AnalyzeInterval = time.Hour
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultCleanupInterval
	}
	if cfg.MinReports <= 0 {
		cfg.MinReports = analyzer.DefaultMinReports
	}
	return &Scheduler{cfg: cfg, health: NewHealth()}
}

// Run starts the scheduler main loop and blocks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	slog.Info("starting scheduler",
		"refresh_interval", s.cfg.RefreshInterval,
		"analyze_interval", s.cfg.AnalyzeInterval,
		"analysis_enabled", s.cfg.Analyzer != nil,
	)

	// Warm the pattern cache on startup
	s.runRefreshCycle(ctx)

	refreshTicker := time.NewTicker(s.cfg.RefreshInterval)
	analyzeTicker := time.NewTicker(s.cfg.AnalyzeInterval)
	cleanupTicker := time.NewTicker(s.cfg.CleanupInterval)
	defer refreshTicker.Stop()
	defer analyzeTicker.Stop()
	defer cleanupTicker.Stop()

	s.runAnalysisCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("scheduler shutting down")
			return ctx.Err()

		case <-refreshTicker.C:
			s.runRefreshCycle(ctx)

		case <-analyzeTicker.C:
			s.runAnalysisCycle(ctx)

		case <-cleanupTicker.C:
			s.runCleanupCycle()
		}
	}
}

// runRefreshCycle reloads dynamic patterns from the store.
func (s *Scheduler) runRefreshCycle(ctx context.Context) {
	if s.cfg.Patterns == nil {
		return
	}
	if err := s.cfg.Patterns.Refresh(ctx); err != nil {
		s.health.SetUnhealthy(ComponentPatterns, err)
		slog.Error("pattern refresh failed", "error", err)
		return
	}
	s.health.SetHealthy(ComponentPatterns, "loaded")
	slog.Debug("patterns refreshed", "count", s.cfg.Patterns.Len())
}

// runAnalysisCycle reviews reported phrases and, when any were confirmed,
// reloads the pattern cache so new rules apply immediately.
func (s *Scheduler) runAnalysisCycle(ctx context.Context) {
	if s.cfg.Analyzer == nil {
		return
	}
	slog.Debug("running analysis cycle")

	res, err := s.cfg.Analyzer.AnalyzeReported(ctx, s.cfg.MinReports)
	if err != nil {
		s.health.SetUnhealthy(ComponentAnalyzer, err)
		slog.Error("analysis cycle failed", "error", err)
		return
	}
	s.health.SetHealthy(ComponentAnalyzer, "reviewed reported phrases")
	slog.Info("analysis cycle complete",
		"reviewed", res.Reviewed,
		"confirmed", res.Confirmed,
		"rejected", res.Rejected,
		"failed", res.Failed,
	)

	if res.Confirmed > 0 {
		s.runRefreshCycle(ctx)
	}
}

func (s *Scheduler) runCleanupCycle() {
	if s.cfg.Usage == nil {
		return
	}
	s.cfg.Usage.Cleanup()
	slog.Debug("template usage pruned")
}

// Health returns the health tracker.
func (s *Scheduler) Health() *Health {
	return s.health
}
