package humanizer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Scope names the category a rule belongs to.
type Scope string

const (
	ScopeTransition Scope = "transition"
	ScopeOpening    Scope = "opening"
	ScopeCliche     Scope = "cliche"
	ScopeBannedWord Scope = "banned-word"
	ScopeStructural Scope = "structural"
	ScopeStyle      Scope = "style"
	ScopeDynamic    Scope = "dynamic"
)

// Rule is a compiled rewrite directive. An empty Replacement deletes the
// match.
type Rule struct {
	Source      string
	Scope       Scope
	Category    string
	Replacement string

	re     *regexp.Regexp
	expand bool
}

// Match returns the first match of the rule in text, or "".
func (r Rule) Match(text string) string {
	if r.re == nil {
		return ""
	}
	return r.re.FindString(text)
}

// Apply replaces every match of the rule in text.
func (r Rule) Apply(text string) string {
	if r.re == nil {
		return text
	}
	if r.expand {
		return r.re.ReplaceAllString(text, r.Replacement)
	}
	return r.re.ReplaceAllLiteralString(text, r.Replacement)
}

// ApplyRules runs rules over text in order.
func ApplyRules(rules []Rule, text string) string {
	for _, r := range rules {
		text = r.Apply(text)
	}
	return text
}

// PatternRow is one dynamically sourced rule as stored by the feedback
// store. PatternType is one of exact, partial or regex.
type PatternRow struct {
	Pattern     string
	PatternType string
	Category    string
	Replacement string
}

// CompileRow turns a dynamic row into a Rule. Matching is case-insensitive
// for every type: exact matches the literal as a whole phrase (see
// literalPattern), partial matches it anywhere, regex compiles the pattern as given. Replacements are
// literal unless a regex row refers to one of its own capture groups.
func CompileRow(row PatternRow) (Rule, error) {
	if strings.TrimSpace(row.Pattern) == "" {
		return Rule{}, fmt.Errorf("empty pattern")
	}

	var expr string
	isRegex := false
	switch strings.ToLower(row.PatternType) {
	case "exact", "":
		expr = "(?i)" + literalPattern(row.Pattern)
	case "partial":
		expr = "(?i)" + regexp.QuoteMeta(row.Pattern)
	case "regex":
		expr = "(?i)" + row.Pattern
		isRegex = true
	default:
		return Rule{}, fmt.Errorf("unknown pattern type %q", row.PatternType)
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return Rule{}, fmt.Errorf("compile pattern: %w", err)
	}

	return Rule{
		Source:      row.Pattern,
		Scope:       ScopeDynamic,
		Category:    row.Category,
		Replacement: row.Replacement,
		re:          re,
		expand:      isRegex && refersToGroup(re, row.Replacement),
	}, nil
}

var groupRef = regexp.MustCompile(`\$(?:\{(\w+)\}|(\w+))`)

// refersToGroup reports whether repl names a capture group of re as $n,
// ${n} or ${name}. "$$" is an escaped dollar.
func refersToGroup(re *regexp.Regexp, repl string) bool {
	repl = strings.ReplaceAll(repl, "$$", "")
	for _, m := range groupRef.FindAllStringSubmatch(repl, -1) {
		name := m[1]
		if name == "" {
			name = m[2]
		}
		if n, err := strconv.Atoi(name); err == nil {
			if n <= re.NumSubexp() {
				return true
			}
			continue
		}
		if re.SubexpIndex(name) > 0 {
			return true
		}
	}
	return false
}

// literalPattern quotes phrase for a regexp, adds word boundaries on the
// sides that start or end with a word character, and accepts either a
// straight or curly apostrophe.
func literalPattern(phrase string) string {
	quoted := strings.ReplaceAll(regexp.QuoteMeta(phrase), "'", "['’]")

	first, _ := utf8.DecodeRuneInString(phrase)
	last, _ := utf8.DecodeLastRuneInString(phrase)

	var b strings.Builder
	if isWordRune(first) {
		b.WriteString(`\b`)
	}
	b.WriteString(quoted)
	if isWordRune(last) {
		b.WriteString(`\b`)
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Static rule sets compiled once from the tables in rules.go.
var (
	transitionRules   = compileTransitions(Transitions)
	openingRules      = compileOpenings(Openings)
	clicheRules       = compileSubstitutions(Cliches, ScopeCliche)
	bannedWordRules   = compileSubstitutions(BannedWords, ScopeBannedWord)
	constructionRules = compileConstructions(Constructions)
)

func compileTransitions(phrases []string) []Rule {
	rules := make([]Rule, 0, len(phrases))
	for _, p := range phrases {
		rules = append(rules, Rule{
			Source: p,
			Scope:  ScopeTransition,
			re:     regexp.MustCompile(`(?i)` + literalPattern(p) + `[,.]?\s*`),
		})
	}
	return rules
}

func compileOpenings(phrases []string) []Rule {
	rules := make([]Rule, 0, len(phrases))
	for _, p := range phrases {
		rules = append(rules, Rule{
			Source: p,
			Scope:  ScopeOpening,
			re:     regexp.MustCompile(`(?i)^` + literalPattern(p) + `[!.,]?\s*`),
		})
	}
	return rules
}

func compileSubstitutions(subs []Substitution, scope Scope) []Rule {
	rules := make([]Rule, 0, len(subs))
	for _, s := range subs {
		expr := `(?i)` + literalPattern(s.Phrase)
		if s.Pattern != "" {
			expr = `(?i)\b(?:` + s.Pattern + `)\b`
		}
		rules = append(rules, Rule{
			Source:      s.Phrase,
			Scope:       scope,
			Replacement: s.Replacement,
			re:          regexp.MustCompile(expr),
			expand:      true,
		})
	}
	return rules
}

func compileConstructions(cons []Construction) []Rule {
	rules := make([]Rule, 0, len(cons))
	for _, c := range cons {
		rules = append(rules, Rule{
			Source:      c.Name,
			Scope:       ScopeStructural,
			Replacement: c.Rewrite,
			re:          regexp.MustCompile(`(?i)` + c.Pattern),
			expand:      true,
		})
	}
	return rules
}
