package humanizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHumanize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "transition and banned word",
			input:    "Moreover, this is crucial.",
			expected: "This is important.",
		},
		{
			name:     "reply rewrite",
			input:    "Furthermore, this is a crucial and seamless solution that will revolutionize your workflow!",
			expected: "This is a important and smooth solution that will change your workflow!",
		},
		{
			name:     "stacked openings",
			input:    "Great point! I think tabs are fine",
			expected: "Tabs are fine",
		},
		{
			name:     "opening only at start",
			input:    "Tabs are fine, I think",
			expected: "Tabs are fine, I think",
		},
		{
			name:     "not just construction",
			input:    "It's not just fast, it's cheap.",
			expected: "Cheap.",
		},
		{
			name:     "result construction",
			input:    "We shipped it. The result? happy users.",
			expected: "We shipped it. happy users.",
		},
		{
			name:     "exclamations collapse",
			input:    "Wow!!! That works! Ship it!",
			expected: "Wow! That works. Ship it.",
		},
		{
			name:     "em dash and semicolon",
			input:    "fast — and cheap; mostly",
			expected: "Fast - and cheap. mostly",
		},
		{
			name:     "whitespace collapse",
			input:    "  leverage   the   cache  ",
			expected: "Use the cache",
		},
		{
			name:     "inflection kept",
			input:    "it runs seamlessly",
			expected: "It runs smoothly",
		},
		{
			name:     "curly apostrophe",
			input:    "In today’s digital age we ship daily",
			expected: "Today we ship daily",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
		{
			name:     "whitespace only",
			input:    "   ",
			expected: "   ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Humanize(tt.input))
		})
	}
}

func TestHumanize_Idempotent(t *testing.T) {
	inputs := []string{
		"Moreover, this is crucial.",
		"Furthermore, this is a crucial and seamless solution that will revolutionize your workflow!",
		"So, well, I think we should leverage synergy!!",
		"Wow!!! Amazing!! — truly; great.",
		"It's not just a tool, it's a journey. Let's dive in!",
		"Indeed, the landscape is intricate; however, we embark anyway!",
		"plain text with nothing to fix",
		"Unlock the potential of your team. Harness the power of AI today!",
		"But here's the thing: it is worth noting that nothing changes",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			once := Humanize(in)
			assert.Equal(t, once, Humanize(once))
		})
	}
}

func TestHumanize_RemovesEveryTableEntry(t *testing.T) {
	var subs []Substitution
	subs = append(subs, Cliches...)
	subs = append(subs, BannedWords...)

	for _, s := range subs {
		t.Run(s.Phrase, func(t *testing.T) {
			sentence := "This is " + s.Phrase + " stuff."
			assert.True(t, HasAIPatterns(sentence))
			assert.NotContains(t, strings.ToLower(Humanize(sentence)), strings.ToLower(s.Phrase))
		})
	}

	for _, phrase := range Transitions {
		t.Run(phrase, func(t *testing.T) {
			sentence := "This is " + phrase + " stuff."
			assert.True(t, HasAIPatterns(sentence))
			assert.NotContains(t, strings.ToLower(Humanize(sentence)), strings.ToLower(phrase))
		})
	}
}

func TestHumanize_StripsOpenings(t *testing.T) {
	for _, opening := range Openings {
		t.Run(opening, func(t *testing.T) {
			sentence := opening + " this works"
			assert.True(t, HasAIPatterns(sentence))
			assert.Equal(t, "This works", Humanize(sentence))
		})
	}
}
