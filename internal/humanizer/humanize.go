package humanizer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxPasses bounds the fixpoint loop in Humanize.
const maxPasses = 3

var (
	repeatedBang      = regexp.MustCompile(`!+`)
	spaceBeforePunct  = regexp.MustCompile(`\s+([,.!?])(\s|$)`)
	constructionEdits = rewritingConstructions(constructionRules)
)

// Humanize applies the static rewrite passes: transitions and openings are
// removed, cliches and banned words are replaced, known constructions are
// collapsed, then punctuation and spacing are normalized. The pass repeats
// until the text stops changing, so Humanize(Humanize(x)) == Humanize(x).
func Humanize(text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	out := text
	for range maxPasses {
		next := humanizeOnce(out)
		if next == out {
			break
		}
		out = next
	}
	return out
}

func humanizeOnce(text string) string {
	out := ApplyRules(transitionRules, text)
	out = stripOpenings(out)
	out = ApplyRules(clicheRules, out)
	out = ApplyRules(bannedWordRules, out)
	out = ApplyRules(constructionEdits, out)
	return normalize(out)
}

// stripOpenings removes stock openers from the start of text until none is
// left, so "So, well, ..." loses both.
func stripOpenings(text string) string {
	out := strings.TrimSpace(text)
	for range len(openingRules) + 1 {
		changed := false
		for _, r := range openingRules {
			if r.Match(out) == "" {
				continue
			}
			out = strings.TrimSpace(r.Apply(out))
			changed = true
		}
		if !changed {
			break
		}
	}
	return out
}

func normalize(text string) string {
	out := strings.ReplaceAll(text, "—", "-")

	out = repeatedBang.ReplaceAllString(out, "!")
	if i := strings.IndexByte(out, '!'); i >= 0 {
		out = out[:i+1] + strings.ReplaceAll(out[i+1:], "!", ".")
	}

	out = strings.Join(strings.Fields(out), " ")
	out = spaceBeforePunct.ReplaceAllString(out, "${1}${2}")

	if utf8.RuneCountInString(out) < TwitterMaxLength {
		out = strings.ReplaceAll(out, ";", ".")
	}

	return capitalizeFirst(out)
}

func capitalizeFirst(text string) string {
	r, size := utf8.DecodeRuneInString(text)
	if size == 0 || !unicode.IsLower(r) {
		return text
	}
	return string(unicode.ToUpper(r)) + text[size:]
}

func rewritingConstructions(rules []Rule) []Rule {
	var out []Rule
	for _, r := range rules {
		if r.Replacement != "" {
			out = append(out, r)
		}
	}
	return out
}
