package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdulachik/replyguy/internal/config"
	"github.com/abdulachik/replyguy/internal/db"
	"github.com/abdulachik/replyguy/internal/templates"
)

const drakeID = "181913649"

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DatabasePath:      filepath.Join(t.TempDir(), "replyguy.db"),
		PatternCacheTTL:   time.Minute,
		AnalyzerProvider:  config.ProviderClaude,
		AnalyzeInterval:   time.Hour,
		AnalyzeMinReports: 5,
		LogLevel:          "info",
	}
}

func TestNew(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	a, err := New(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	assert.Nil(t, a.Analyzer, "analysis needs an API key")
	assert.NotEmpty(t, a.Templates.All())

	cfg.AnthropicAPIKey = "sk-test"
	b, err := New(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })
	assert.NotNil(t, b.Analyzer)
}

func TestApp_PatternLoader(t *testing.T) {
	ctx := context.Background()

	a, err := New(ctx, testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	require.NoError(t, a.Store.UpsertPattern(ctx, db.Pattern{
		Pattern: "synergize", PatternType: "exact", Category: "word", Replacement: "work together", Severity: 4,
	}))

	rows, err := PatternLoader(a.Store)(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "synergize", rows[0].Pattern)
	assert.Equal(t, "work together", rows[0].Replacement)

	require.NoError(t, a.Patterns.Refresh(ctx))
	assert.Equal(t, 1, a.Patterns.Len())
	assert.NotContains(t, a.Humanizer.Process(ctx, "we should synergize on the launch"), "synergize")
}

func TestApp_RecordOutcome(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	a, err := New(ctx, cfg)
	require.NoError(t, err)

	before, err := a.Templates.Get(drakeID)
	require.NoError(t, err)

	rate, err := a.RecordOutcome(ctx, drakeID, "dev_42", false)
	require.NoError(t, err)
	assert.InDelta(t, before.Usage.SuccessRate*0.9, rate, 0.001)
	assert.True(t, a.Tracker.RecentIDs("dev_42")[drakeID])

	_, err = a.RecordOutcome(ctx, "no-such-template", "", true)
	assert.ErrorIs(t, err, templates.ErrNotFound)
	require.NoError(t, a.Close())

	// a fresh process replays the stored outcome
	b, err := New(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })

	replayed, err := b.Templates.Get(drakeID)
	require.NoError(t, err)
	assert.InDelta(t, rate, replayed.Usage.SuccessRate, 0.001)
	assert.True(t, b.Tracker.RecentIDs("dev_42")[drakeID])
}

func TestLoadTemplates_File(t *testing.T) {
	cfg := testConfig(t)
	cfg.TemplatesFile = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := LoadTemplates(cfg)
	assert.Error(t, err)
}

func TestNewCompleter(t *testing.T) {
	cfg := testConfig(t)
	cfg.AnalyzerProvider = config.ProviderOpenAI
	cfg.OpenAIBaseURL = "http://localhost:1234/v1"
	assert.NotNil(t, NewCompleter(cfg))
}
