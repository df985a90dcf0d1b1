package validator

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxWordRunes is the longest word that still reads well on a meme.
const maxWordRunes = 12

var (
	memeSlang      = map[string]bool{"lol": true, "bruh": true, "sus": true, "based": true, "cringe": true, "vibe": true, "mood": true, "facts": true, "cap": true, "bet": true}
	repeatedMarks  = regexp.MustCompile(`[!?]{2,}`)
	quotedAposLike = regexp.MustCompile(`(?:^|\s)['‘]|['’](?:\s|$)`)
)

type textQuality struct {
	score       int
	warnings    []string
	suggestions []string
}

// assessTextQuality applies the caption heuristics that hold for every
// template.
func assessTextQuality(text string) textQuality {
	q := textQuality{score: 100}

	if strings.Contains(text, "...") || strings.Contains(text, "…") {
		q.warnings = append(q.warnings, "Ellipsis may not render well in memes")
		q.score -= 5
	}

	if strings.ContainsAny(text, "\"“”") || quotedAposLike.MatchString(text) {
		q.warnings = append(q.warnings, "Quotes may interfere with text rendering")
		q.score -= 5
	}

	if repeatedMarks.MatchString(text) {
		q.warnings = append(q.warnings, "Multiple punctuation marks may look cluttered")
		q.score -= 5
	}

	for _, w := range strings.Fields(text) {
		if utf8.RuneCountInString(w) > maxWordRunes {
			q.warnings = append(q.warnings, "Long words may be hard to read in meme format")
			q.suggestions = append(q.suggestions, "Consider shorter, simpler words")
			q.score -= 10
			break
		}
	}

	if hasMemeSlang(text) {
		q.score += 5
	}

	return q
}

func hasMemeSlang(text string) bool {
	for _, tok := range tokens(text) {
		if memeSlang[tok] {
			return true
		}
	}
	return false
}

// tokens lowercases text and splits it into words with surrounding
// punctuation removed.
func tokens(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	out := fields[:0]
	for _, f := range fields {
		f = strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
