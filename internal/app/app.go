package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/abdulachik/replyguy/internal/analyzer"
	"github.com/abdulachik/replyguy/internal/config"
	"github.com/abdulachik/replyguy/internal/db"
	"github.com/abdulachik/replyguy/internal/humanizer"
	"github.com/abdulachik/replyguy/internal/templates"
)

// App is the main application container holding all dependencies.
type App struct {
	Config    *config.Config
	Store     *db.Store
	Patterns  *humanizer.PatternCache
	Humanizer *humanizer.Humanizer
	Templates *templates.Store
	Tracker   *templates.Tracker

	// Analyzer is nil unless an LLM provider is configured.
	Analyzer *analyzer.Analyzer
}

// New creates a new application instance with all dependencies wired up.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := db.NewStore(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, err
	}

	tmpl, err := LoadTemplates(cfg)
	if err != nil {
		store.Close()
		return nil, err
	}

	cache := humanizer.NewPatternCache(PatternLoader(store), humanizer.WithTTL(cfg.PatternCacheTTL))

	a := &App{
		Config:   cfg,
		Store:    store,
		Patterns: cache,
		Humanizer: humanizer.New(humanizer.Options{
			Cache:     cache,
			Intensity: cfg.VariationIntensity,
		}),
		Templates: tmpl,
		Tracker:   templates.NewTracker(),
	}

	if cfg.AnalysisEnabled() {
		a.Analyzer = analyzer.New(NewCompleter(cfg), store)
	}

	if n, err := a.ReplayOutcomes(ctx, time.Time{}); err != nil {
		slog.Warn("failed to replay template outcomes", "error", err)
	} else if n > 0 {
		slog.Debug("template outcomes replayed", "count", n)
	}

	return a, nil
}

// LoadTemplates returns the template table, honoring TEMPLATES_FILE.
func LoadTemplates(cfg *config.Config) (*templates.Store, error) {
	if cfg.TemplatesFile != "" {
		s, err := templates.LoadFile(cfg.TemplatesFile)
		if err != nil {
			return nil, fmt.Errorf("load templates from %s: %w", cfg.TemplatesFile, err)
		}
		return s, nil
	}
	s, err := templates.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	return s, nil
}

// NewCompleter builds the LLM client for the configured provider.
func NewCompleter(cfg *config.Config) analyzer.Completer {
	if cfg.AnalyzerProvider == config.ProviderOpenAI {
		return analyzer.NewOpenAICompleter(analyzer.OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
		})
	}
	return analyzer.NewClaudeClient(analyzer.ClaudeConfig{
		APIKey:  cfg.AnthropicAPIKey,
		BaseURL: cfg.AnthropicBaseURL,
		Model:   cfg.AnthropicModel,
	})
}

// PatternLoader reads active patterns from the store as humanizer rows.
func PatternLoader(store *db.Store) humanizer.Loader {
	return func(ctx context.Context) ([]humanizer.PatternRow, error) {
		patterns, err := store.ActivePatterns(ctx, db.MaxActivePatterns)
		if err != nil {
			return nil, err
		}
		rows := make([]humanizer.PatternRow, len(patterns))
		for i, p := range patterns {
			rows[i] = humanizer.PatternRow{
				Pattern:     p.Pattern,
				PatternType: p.PatternType,
				Category:    p.Category,
				Replacement: p.Replacement,
			}
		}
		return rows, nil
	}
}

// ReplayOutcomes folds stored template outcomes recorded since the given
// time into the in-memory success rates, oldest first. Outcomes inside the
// tracker's retention window are also replayed as usage history. Outcomes
// for templates no longer in the table are skipped.
func (a *App) ReplayOutcomes(ctx context.Context, since time.Time) (int, error) {
	outcomes, err := a.Store.Outcomes(ctx, since)
	if err != nil {
		return 0, err
	}

	usageCutoff := time.Now().Add(-templates.HistoryRetention)
	var applied int
	for _, o := range outcomes {
		if _, err := a.Templates.UpdateSuccessRate(o.TemplateID, o.Success); err != nil {
			if errors.Is(err, templates.ErrNotFound) {
				continue
			}
			return applied, err
		}
		if o.CreatedAt.After(usageCutoff) {
			a.recordUsage(o.UserID, o.TemplateID)
		}
		applied++
	}
	return applied, nil
}

// RecordOutcome persists an outcome, applies it to the template's success
// rate and notes the usage for userID.
func (a *App) RecordOutcome(ctx context.Context, templateID, userID string, success bool) (float64, error) {
	if _, err := a.Templates.Get(templateID); err != nil {
		return 0, err
	}
	if _, err := a.Store.RecordOutcome(ctx, templateID, userID, success); err != nil {
		return 0, err
	}
	a.recordUsage(userID, templateID)
	return a.Templates.UpdateSuccessRate(templateID, success)
}

func (a *App) recordUsage(userID, templateID string) {
	name := templateID
	if t, err := a.Templates.Get(templateID); err == nil {
		name = t.Name
	}
	a.Tracker.RecordUsage(userID, templateID, name)
}

// Close closes all resources.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
