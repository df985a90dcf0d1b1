package humanizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasAIPatterns(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{"clean reply", "tabs are fine, fight me", false},
		{"empty", "", false},
		{"transition", "It broke. Therefore we rolled back", true},
		{"transition inside a word", "the enthusiasm is real", false},
		{"opening at start", "Great point! tabs win", true},
		{"opening not at start", "tabs win, I think", false},
		{"cliche", "a real game changer for us", true},
		{"banned word with punctuation", "this part is crucial.", true},
		{"construction", "The result? nobody noticed", true},
		{"em dash", "fast — cheap", true},
		{"two exclamations", "yes! finally!", true},
		{"one exclamation", "finally!", false},
		{"semicolon in short text", "fine; ship it", true},
		{"semicolon in long text", strings.Repeat("word ", 60) + "; end", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HasAIPatterns(tt.text))
		})
	}
}

func TestFindings(t *testing.T) {
	found := Findings("Moreover, this is crucial — really!!")

	scopes := make(map[Scope]bool)
	for _, f := range found {
		scopes[f.Scope] = true
	}
	assert.True(t, scopes[ScopeTransition])
	assert.True(t, scopes[ScopeBannedWord])
	assert.True(t, scopes[ScopeStyle])

	assert.Empty(t, Findings("ok cool"))
}

func TestHasStructuredPatterns(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{"numbered list", "Here is why:\n1. fast\n2. cheap", true},
		{"bullets", "- one\n- two", true},
		{"colon then items", "Three things: speed, cost, and safety", true},
		{"colon then newline", "Reasons:\nit works", true},
		{"plain", "it just works, honestly", false},
		{"clock time", "standup at 10:30 tomorrow", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HasStructuredPatterns(tt.text))
		})
	}
}

func TestHasAIDisclaimers(t *testing.T) {
	assert.True(t, HasAIDisclaimers("As an AI, I can't say"))
	assert.True(t, HasAIDisclaimers("Please note that results vary"))
	assert.True(t, HasAIDisclaimers("I’m just an AI"))
	assert.False(t, HasAIDisclaimers("AI cannot replace devs"))
	assert.False(t, HasAIDisclaimers("ship it"))
}

func TestHasPerfectGrammar(t *testing.T) {
	t.Run("short polished", func(t *testing.T) {
		report := HasPerfectGrammar("This is important.")
		assert.Equal(t, 2, report.Score)
	})

	t.Run("formal", func(t *testing.T) {
		report := HasPerfectGrammar("The system, which is robust, handles requests efficiently, and it scales well across regions.")
		assert.Equal(t, 4, report.Score)
		assert.Contains(t, report.Issues, "no contractions")
		assert.Contains(t, report.Issues, "high comma density")
	})

	t.Run("casual", func(t *testing.T) {
		report := HasPerfectGrammar("lol i don't know , it works  fine")
		assert.Equal(t, 1, report.Score)
		require.Len(t, report.Issues, 1)
		assert.Equal(t, "high comma density", report.Issues[0])
	})

	t.Run("empty", func(t *testing.T) {
		report := HasPerfectGrammar("")
		assert.Zero(t, report.Score)
		assert.Empty(t, report.Issues)
	})
}

func TestEmojis(t *testing.T) {
	tests := []struct {
		text  string
		count int
	}{
		{"no emoji here", 0},
		{"ship it 🚀", 1},
		{"🔥🔥 hot", 2},
		{"\u2600 sunny \U0001F600 and \U0001F680 go \U0001F1FA", 4},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.count, CountEmojis(tt.text))
			assert.Equal(t, min(tt.count, 1), CountEmojis(LimitEmojis(tt.text)))
		})
	}

	assert.Equal(t, "🔥 hot ", LimitEmojis("🔥 hot 🚀"))
}
