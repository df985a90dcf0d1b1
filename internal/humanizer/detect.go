package humanizer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Finding is one AI tell located in a text.
type Finding struct {
	Scope Scope  `json:"scope"`
	Rule  string `json:"rule"`
	Match string `json:"match"`
}

// HasAIPatterns reports whether text contains any static AI tell. It stops
// at the first match.
func HasAIPatterns(text string) bool {
	return len(scan(text, true)) > 0
}

// Findings lists every static AI tell in text.
func Findings(text string) []Finding {
	return scan(text, false)
}

func scan(text string, first bool) []Finding {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var found []Finding
	groups := [][]Rule{transitionRules, openingRules, clicheRules, bannedWordRules, constructionRules}
	for _, rules := range groups {
		for _, r := range rules {
			m := r.Match(text)
			if m == "" {
				continue
			}
			found = append(found, Finding{Scope: r.Scope, Rule: r.Source, Match: strings.TrimSpace(m)})
			if first {
				return found
			}
		}
	}

	for _, smell := range styleSmells {
		if smell.test(text) {
			found = append(found, Finding{Scope: ScopeStyle, Rule: smell.name})
			if first {
				return found
			}
		}
	}
	return found
}

var styleSmells = []struct {
	name string
	test func(string) bool
}{
	{"em dash", func(s string) bool { return strings.Contains(s, "—") }},
	{"multiple exclamation marks", func(s string) bool { return strings.Count(s, "!") > 1 }},
	{"semicolon in short text", func(s string) bool {
		return strings.Contains(s, ";") && utf8.RuneCountInString(s) < TwitterMaxLength
	}},
}

var structuredPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^\s*\d+[.)]\s+\S`),
	regexp.MustCompile(`(?m)^\s*[-*•]\s+\S`),
	regexp.MustCompile(`:[ \t]*\n\s*\S`),
	regexp.MustCompile(`:\s*[^,:\n]+(?:,\s*[^,:\n]+){2,}`),
}

// HasStructuredPatterns reports numbered lists, bullet markers, or a colon
// introducing a list.
func HasStructuredPatterns(text string) bool {
	for _, re := range structuredPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

var disclaimerPattern = compileDisclaimers(Disclaimers)

func compileDisclaimers(phrases []string) *regexp.Regexp {
	alts := make([]string, 0, len(phrases))
	for _, p := range phrases {
		alts = append(alts, strings.ReplaceAll(regexp.QuoteMeta(p), "'", "['’]"))
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(alts, "|") + `)`)
}

// HasAIDisclaimers reports first-person AI self-references and hedges such
// as "As an AI" or "Please note that".
func HasAIDisclaimers(text string) bool {
	return disclaimerPattern.MatchString(text)
}

// GrammarReport scores how suspiciously polished a text is. Each signal in
// Issues adds one to Score.
type GrammarReport struct {
	Score  int      `json:"score"`
	Issues []string `json:"issues"`
}

var (
	sentenceStart = regexp.MustCompile(`(?:^|[.!?]\s+)(\pL)`)
	contraction   = regexp.MustCompile(`(?i)\b\pL+['’](?:m|s|t|re|ve|ll|d)\b`)
)

// minWordsForContractionCheck keeps short replies from being flagged for
// lacking contractions.
const minWordsForContractionCheck = 8

// HasPerfectGrammar looks for the signs of text nobody typed by hand: no
// spacing slips, capitals after every sentence break, no contractions, and
// more than one comma per fifteen words.
func HasPerfectGrammar(text string) GrammarReport {
	report := GrammarReport{Issues: []string{}}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return report
	}

	flag := func(issue string) {
		report.Score++
		report.Issues = append(report.Issues, issue)
	}

	if !strings.Contains(text, "  ") && !spaceBeforePunct.MatchString(text) {
		flag("no spacing irregularities")
	}

	starts := sentenceStart.FindAllStringSubmatch(trimmed, -1)
	if len(starts) > 0 {
		consistent := true
		for _, m := range starts {
			r, _ := utf8.DecodeRuneInString(m[1])
			if !unicode.IsUpper(r) {
				consistent = false
				break
			}
		}
		if consistent {
			flag("consistent capitalization after every sentence break")
		}
	}

	words := len(strings.Fields(trimmed))
	if words >= minWordsForContractionCheck && !contraction.MatchString(trimmed) {
		flag("no contractions")
	}

	if words > 0 && float64(strings.Count(trimmed, ","))/float64(words) > 1.0/15.0 {
		flag("high comma density")
	}

	return report
}
