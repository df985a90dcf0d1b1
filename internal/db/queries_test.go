package db

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withClock makes the store's timestamps advance one second per call.
func withClock(s *Store) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func TestStore_Patterns(t *testing.T) {
	ctx := context.Background()
	store := NewTestStore(t)
	withClock(store)

	require.NoError(t, store.UpsertPattern(ctx, Pattern{Pattern: "circle back", Category: "cliche", Replacement: "follow up", Severity: 2}))
	require.NoError(t, store.UpsertPattern(ctx, Pattern{Pattern: `\bmoving forward\b`, PatternType: "regex", Category: "transition", Severity: 9}))
	require.NoError(t, store.UpsertPattern(ctx, Pattern{Pattern: "synergize", PatternType: "partial", Category: "word"}))

	t.Run("active patterns by severity", func(t *testing.T) {
		patterns, err := store.ActivePatterns(ctx, 0)
		require.NoError(t, err)
		require.Len(t, patterns, 3)

		assert.Equal(t, `\bmoving forward\b`, patterns[0].Pattern)
		assert.Equal(t, 5, patterns[0].Severity)
		assert.Equal(t, "circle back", patterns[1].Pattern)
		assert.Equal(t, "exact", patterns[1].PatternType)
		assert.Equal(t, "synergize", patterns[2].Pattern)
		assert.Equal(t, 1, patterns[2].Severity)
		assert.True(t, patterns[2].Active)
		assert.False(t, patterns[2].CreatedAt.IsZero())

		limited, err := store.ActivePatterns(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, limited, 1)
	})

	t.Run("upsert updates in place", func(t *testing.T) {
		require.NoError(t, store.UpsertPattern(ctx, Pattern{Pattern: "circle back", Category: "cliche", Replacement: "check in", Severity: 3, ReportCount: 12}))

		p, err := store.GetPattern(ctx, "circle back")
		require.NoError(t, err)
		assert.Equal(t, "check in", p.Replacement)
		assert.Equal(t, 12, p.ReportCount)
		assert.True(t, p.UpdatedAt.After(p.CreatedAt))

		all, err := store.ListPatterns(ctx, PatternFilter{IncludeInactive: true})
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("filters", func(t *testing.T) {
		words, err := store.ListPatterns(ctx, PatternFilter{Category: "word"})
		require.NoError(t, err)
		require.Len(t, words, 1)
		assert.Equal(t, "synergize", words[0].Pattern)

		regexes, err := store.ListPatterns(ctx, PatternFilter{PatternType: "regex"})
		require.NoError(t, err)
		assert.Len(t, regexes, 1)
	})

	t.Run("deactivate hides and upsert revives", func(t *testing.T) {
		require.NoError(t, store.DeactivatePattern(ctx, "synergize"))

		active, err := store.ActivePatterns(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, active, 2)

		all, err := store.ListPatterns(ctx, PatternFilter{IncludeInactive: true})
		require.NoError(t, err)
		assert.Len(t, all, 3)

		require.NoError(t, store.UpsertPattern(ctx, Pattern{Pattern: "synergize", PatternType: "partial"}))
		active, err = store.ActivePatterns(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, active, 3)
	})

	t.Run("errors", func(t *testing.T) {
		assert.ErrorIs(t, store.DeactivatePattern(ctx, "missing"), ErrNotFound)

		_, err := store.GetPattern(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)

		assert.Error(t, store.UpsertPattern(ctx, Pattern{}))
		assert.Error(t, store.UpsertPattern(ctx, Pattern{Pattern: "x", PatternType: "glob"}))
	})
}

func TestStore_Reports(t *testing.T) {
	ctx := context.Background()
	store := NewTestStore(t)
	withClock(store)

	reply := "Honestly, let's circle back on this after the standup."
	for i, user := range []string{"u1", "u2", "u2", ""} {
		count, err := store.ReportPhrase(ctx, Report{ReplyText: reply, Phrase: "circle back", UserID: user})
		require.NoError(t, err)
		assert.Equal(t, i+1, count)
	}
	_, err := store.ReportPhrase(ctx, Report{ReplyText: "a game changer", Phrase: "game changer", UserID: "u3"})
	require.NoError(t, err)

	t.Run("summaries", func(t *testing.T) {
		summaries, err := store.ReportedPhraseSummaries(ctx, 2)
		require.NoError(t, err)
		require.Len(t, summaries, 1)

		s := summaries[0]
		assert.Equal(t, "circle back", s.Phrase)
		assert.Equal(t, 4, s.TotalReports)
		assert.Equal(t, 2, s.UniqueUsers)
		require.Len(t, s.SampleContexts, 4)
		assert.Equal(t, reply, s.SampleContexts[0])

		all, err := store.ReportedPhraseSummaries(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("validation removes from pending", func(t *testing.T) {
		n, err := store.MarkPhraseValidated(ctx, "circle back", true, "corporate filler")
		require.NoError(t, err)
		assert.Equal(t, int64(4), n)

		summaries, err := store.ReportedPhraseSummaries(ctx, 1)
		require.NoError(t, err)
		require.Len(t, summaries, 1)
		assert.Equal(t, "game changer", summaries[0].Phrase)

		counts, err := store.CountReports(ctx)
		require.NoError(t, err)
		assert.Equal(t, ReportCounts{Pending: 1, Confirmed: 4}, counts)
	})

	t.Run("empty phrase", func(t *testing.T) {
		_, err := store.ReportPhrase(ctx, Report{ReplyText: "x", Phrase: "  "})
		assert.Error(t, err)
	})
}

func TestPhraseContext(t *testing.T) {
	long := strings.Repeat("a", 80) + " leverage " + strings.Repeat("b", 80)
	ctx := phraseContext(long, "leverage")
	assert.Equal(t, strings.Repeat("a", 49)+" leverage "+strings.Repeat("b", 49), ctx)

	assert.Equal(t, "", phraseContext("nothing here", "leverage"))
	assert.Equal(t, "café leverage", phraseContext("café leverage", "leverage"))
}

func TestStore_Outcomes(t *testing.T) {
	ctx := context.Background()
	store := NewTestStore(t)
	withClock(store)

	for _, ok := range []bool{true, true, false} {
		_, err := store.RecordOutcome(ctx, "181913649", "", ok)
		require.NoError(t, err)
	}
	id, err := store.RecordOutcome(ctx, "61579", "dev_42", false)
	require.NoError(t, err)
	assert.Len(t, id, 26)

	_, err = store.RecordOutcome(ctx, "", "", true)
	assert.Error(t, err)

	outcomes, err := store.Outcomes(ctx, time.Time{})
	require.NoError(t, err)
	require.Len(t, outcomes, 4)
	assert.Equal(t, "181913649", outcomes[0].TemplateID)
	assert.True(t, outcomes[0].Success)
	assert.Equal(t, "61579", outcomes[3].TemplateID)
	assert.Equal(t, "dev_42", outcomes[3].UserID)

	recent, err := store.Outcomes(ctx, outcomes[2].CreatedAt)
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	stats, err := store.OutcomeStatsByTemplate(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, OutcomeStats{TemplateID: "181913649", Successes: 2, Failures: 1}, stats[0])
	assert.Equal(t, 3, stats[0].Total())
}
