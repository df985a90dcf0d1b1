// Package textutil holds the small text primitives shared by the humanizer,
// the meme validator and the quality scorer.
package textutil

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxKeyWords is how many content words KeyWords keeps per text.
const MaxKeyWords = 10

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "have": true, "has": true, "had": true, "do": true,
	"does": true, "did": true, "will": true, "would": true, "could": true,
	"should": true, "may": true, "might": true, "can": true, "this": true,
	"that": true, "these": true, "those": true,
}

var negation = regexp.MustCompile(`(?i)\b(?:not|never)\b|n['’]t\b`)

// Normalize returns text in Unicode NFC so that composed and decomposed
// forms of the same caption count the same.
func Normalize(text string) string {
	return norm.NFC.String(text)
}

// CharCount counts user-visible characters (runes after NFC).
func CharCount(text string) int {
	return utf8.RuneCountInString(Normalize(text))
}

// WordCount returns the number of whitespace-separated tokens in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// KeyWords lowercases text, strips surrounding punctuation from each token,
// drops stopwords and tokens of two characters or fewer, and keeps the first
// MaxKeyWords remaining tokens in order.
func KeyWords(text string) []string {
	var out []string
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.TrimFunc(tok, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if utf8.RuneCountInString(tok) <= 2 || stopWords[tok] {
			continue
		}
		out = append(out, tok)
		if len(out) == MaxKeyWords {
			break
		}
	}
	return out
}

// Overlap is the Jaccard ratio |A∩B| / |A∪B| of two word lists treated as sets.
func Overlap(a, b []string) float64 {
	setA := toSet(a)
	setB := toSet(b)

	union := len(setA)
	inter := 0
	for w := range setB {
		if setA[w] {
			inter++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// Similarity counts the words of a that also appear in b and divides by the
// number of distinct words across both. Both texts are lowercased first.
func Similarity(a, b string) float64 {
	wa := strings.Fields(strings.ToLower(a))
	wb := strings.Fields(strings.ToLower(b))

	setB := toSet(wb)
	common := 0
	for _, w := range wa {
		if setB[w] {
			common++
		}
	}

	union := toSet(wa)
	for w := range setB {
		union[w] = true
	}
	if len(union) == 0 {
		return 0
	}
	return float64(common) / float64(len(union))
}

// SimilarityMax is like Similarity but divides by the larger word count.
func SimilarityMax(a, b string) float64 {
	wa := strings.Fields(strings.ToLower(a))
	wb := strings.Fields(strings.ToLower(b))

	setB := toSet(wb)
	common := 0
	for _, w := range wa {
		if setB[w] {
			common++
		}
	}

	denom := max(len(wa), len(wb))
	if denom == 0 {
		return 0
	}
	return float64(common) / float64(denom)
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampInt bounds v to [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// TweetMaxLength is the character limit of a single tweet.
const TweetMaxLength = 280

// FitsInLimit reports whether text is at most limit characters.
func FitsInLimit(text string, limit int) bool {
	return CharCount(text) <= limit
}

// Truncate shortens text to at most maxLen characters, ending in "...".
// It cuts at the last space when that keeps more than half the room, and
// drops trailing punctuation before the ellipsis.
func Truncate(text string, maxLen int) string {
	text = Normalize(text)
	if FitsInLimit(text, maxLen) {
		return text
	}
	if maxLen <= 3 {
		return string([]rune(text)[:max(maxLen, 0)])
	}

	available := maxLen - 3
	truncated := string([]rune(text)[:available])
	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > len(truncated)/2 {
		truncated = truncated[:lastSpace]
	}
	return strings.TrimRight(truncated, " .,;:!?") + "..."
}

// HasNegation reports whether text contains "not", "never" or an n't
// contraction as a word.
func HasNegation(text string) bool {
	return negation.MatchString(text)
}
