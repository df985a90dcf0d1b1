package templates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	drakeID    = "181913649"
	boyfriend  = "188390779"
	brainID    = "170200137"
	simplyID   = "61579"
	thisFineID = "55311130"
	successID  = "61544"
	yellingID  = "188390030"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := LoadDefault()
	require.NoError(t, err)
	return s
}

func TestLoadDefault(t *testing.T) {
	s := newTestStore(t)

	all := s.All()
	require.Len(t, all, 7)
	assert.Equal(t, drakeID, all[0].ID)

	drake, err := s.Get(drakeID)
	require.NoError(t, err)
	assert.Equal(t, "Drake Pointing", drake.Name)
	assert.Equal(t, 2, drake.BoxCount)
	assert.Equal(t, 50, drake.Constraints.MaxCharsPerBox)
	assert.True(t, drake.SpecialRules.RequiresContrast)
	assert.Equal(t, FormatStatement, drake.SpecialRules.TextFormat)
	assert.Equal(t, []string{"top-reject", "bottom-prefer"}, drake.Layout.TextPositions)
	assert.Equal(t, 85.0, drake.Usage.SuccessRate)

	simply, err := s.Get(simplyID)
	require.NoError(t, err)
	assert.Equal(t, FormatNegative, simply.SpecialRules.TextFormat)
}

func TestStore_Lookups(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)

	tmpl, err := s.ByName("expanding brain")
	require.NoError(t, err)
	assert.Equal(t, brainID, tmpl.ID)

	_, err = s.ByName("Unknown Template")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Len(t, s.ByCategory("comparison"), 1)
	assert.Empty(t, s.ByCategory("nope"))

	for _, tmpl := range s.ByComplexity(2) {
		assert.LessOrEqual(t, tmpl.Usage.Complexity, 2)
	}
	assert.Len(t, s.ByComplexity(2), 4)
}

func TestStore_Reliable(t *testing.T) {
	s := newTestStore(t)

	reliable := s.Reliable(80)
	require.Len(t, reliable, 4)
	assert.Equal(t, successID, reliable[0].ID)
	for i := 1; i < len(reliable); i++ {
		assert.GreaterOrEqual(t, reliable[i-1].Usage.SuccessRate, reliable[i].Usage.SuccessRate)
	}
}

func TestStore_Recommend(t *testing.T) {
	s := newTestStore(t)

	t.Run("matches context and sorts by rank", func(t *testing.T) {
		recs := s.Recommend("choice", 5)
		require.Len(t, recs, 2)
		assert.Equal(t, drakeID, recs[0].ID)
		assert.Equal(t, boyfriend, recs[1].ID)
	})

	t.Run("respects complexity", func(t *testing.T) {
		recs := s.Recommend("choice", 3)
		require.Len(t, recs, 1)
		assert.Equal(t, drakeID, recs[0].ID)
	})

	t.Run("context contains recommended word", func(t *testing.T) {
		recs := s.Recommend("so many bugs in prod", 3)
		require.Len(t, recs, 1)
		assert.Equal(t, thisFineID, recs[0].ID)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, s.Recommend("", 5))
	})
}

func TestStore_UpdateSuccessRate(t *testing.T) {
	s := newTestStore(t)

	rate, err := s.UpdateSuccessRate(drakeID, false)
	require.NoError(t, err)
	assert.InDelta(t, 76.5, rate, 1e-9)

	rate, err = s.UpdateSuccessRate(drakeID, true)
	require.NoError(t, err)
	assert.InDelta(t, 78.85, rate, 1e-9)

	for range 200 {
		rate, _ = s.UpdateSuccessRate(drakeID, true)
	}
	assert.LessOrEqual(t, rate, 100.0)

	for range 200 {
		rate, _ = s.UpdateSuccessRate(drakeID, false)
	}
	assert.GreaterOrEqual(t, rate, 0.0)

	_, err = s.UpdateSuccessRate("nope", true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_ValidateAgainstTemplate(t *testing.T) {
	s := newTestStore(t)

	tests := []struct {
		name        string
		id          string
		texts       []string
		valid       bool
		score       int
		errors      []string
		suggestions []string
	}{
		{
			name:  "good drake",
			id:    drakeID,
			texts: []string{"copying code from stackoverflow", "understanding the code"},
			valid: true,
			score: 100,
		},
		{
			name:   "wrong box count",
			id:     drakeID,
			texts:  []string{"just one caption"},
			valid:  false,
			score:  70,
			errors: []string{"Expected 2 text boxes, got 1", "Box 2 is empty but required for this template"},
		},
		{
			name:   "blank box",
			id:     drakeID,
			texts:  []string{"copying code from stackoverflow", "  "},
			valid:  false,
			score:  85,
			errors: []string{"Box 2 is empty but required for this template"},
		},
		{
			name:   "too long",
			id:     thisFineID,
			texts:  []string{strings.Repeat("a", 41)},
			valid:  false,
			score:  75,
			errors: []string{"Box 1: Too long (41/40 chars)"},
			// one word is below the minimum of two
			suggestions: []string{"Box 1: Could use more words (1/2 words)"},
		},
		{
			name:        "low contrast",
			id:          yellingID,
			texts:       []string{"your code has bugs", "your code has bugs too"},
			valid:       true,
			score:       85,
			suggestions: []string{"Texts should contrast more with each other"},
		},
		{
			name:        "missing negative",
			id:          simplyID,
			texts:       []string{"deploy on Friday without testing"},
			valid:       true,
			score:       90,
			suggestions: []string{`Consider using negative format (e.g., "One does not simply...")`},
		},
		{
			name:  "negative present",
			id:    simplyID,
			texts: []string{"does not deploy on Friday without testing"},
			valid: true,
			score: 100,
		},
		{
			name:   "unknown template",
			id:     "nope",
			texts:  []string{"anything"},
			valid:  false,
			score:  0,
			errors: []string{"Template metadata not found"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := s.ValidateAgainstTemplate(tt.id, tt.texts)
			assert.Equal(t, tt.valid, check.IsValid)
			assert.Equal(t, tt.score, check.Score)
			for _, e := range tt.errors {
				assert.Contains(t, check.Errors, e)
			}
			for _, sug := range tt.suggestions {
				assert.Contains(t, check.Suggestions, sug)
			}
			assert.Equal(t, len(check.Errors) == 0, check.IsValid)
		})
	}
}

func TestStore_RetryConstraints(t *testing.T) {
	s := newTestStore(t)

	rc := s.RetryConstraints(drakeID, 0)
	assert.Equal(t, 40, rc.MaxCharsPerBox)
	assert.Equal(t, 5, rc.MaxWordsPerBox)
	assert.Contains(t, rc.Suggestions, `Good example: "copying code from stackoverflow / understanding the code"`)

	rc = s.RetryConstraints(drakeID, 2)
	assert.Equal(t, 30, rc.MaxCharsPerBox)
	assert.Equal(t, 4, rc.MaxWordsPerBox)

	rc = s.RetryConstraints(drakeID, 50)
	assert.Equal(t, 15, rc.MaxCharsPerBox)
	assert.Equal(t, 2, rc.MaxWordsPerBox)

	rc = s.RetryConstraints("nope", 0)
	assert.Equal(t, 30, rc.MaxCharsPerBox)
	assert.Equal(t, 4, rc.MaxWordsPerBox)
}

func TestNewStore_Rejects(t *testing.T) {
	_, err := NewStore([]Template{{ID: "1", BoxCount: 2}, {ID: "1", BoxCount: 2}})
	assert.Error(t, err)

	_, err = NewStore([]Template{{ID: "1", BoxCount: 5}})
	assert.Error(t, err)

	_, err = NewStore([]Template{{Name: "no id", BoxCount: 1}})
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yaml")
	data := `templates:
  - id: "1"
    name: Custom
    category: statement
    box_count: 1
    constraints: {max_chars_per_box: 20, min_chars_per_box: 1, max_words_per_box: 4, min_words_per_box: 1, total_max_chars: 20}
    usage: {complexity: 1, success_rate: 50, popularity_score: 50}
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	s, err := LoadFile(path)
	require.NoError(t, err)
	tmpl, err := s.Get("1")
	require.NoError(t, err)
	assert.Equal(t, "Custom", tmpl.Name)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
