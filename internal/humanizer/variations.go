package humanizer

import (
	"math/rand"
	"regexp"
	"unicode"
	"unicode/utf8"
)

type contractionRule struct {
	re   *regexp.Regexp
	with string
}

var (
	contractionRules = compileContractions(contractions)
	casualRules      = compileContractions(casualContractions)
)

func compileContractions(pairs [][2]string) []contractionRule {
	rules := make([]contractionRule, 0, len(pairs))
	for _, p := range pairs {
		rules = append(rules, contractionRule{
			re:   regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(p[0]) + `\b`),
			with: p[1],
		})
	}
	return rules
}

// AddNaturalVariations contracts auxiliary verbs with probability intensity
// and applies casual contractions ("gonna", "kinda") with probability
// intensity*0.67. Each tier draws once from rng per call. The result is not
// deterministic unless rng is seeded.
func AddNaturalVariations(text string, intensity float64, rng *rand.Rand) string {
	if text == "" || rng == nil {
		return text
	}

	out := text
	if rng.Float64() < intensity {
		out = contract(out, contractionRules)
	}
	if rng.Float64() < intensity*casualTierFactor {
		out = contract(out, casualRules)
	}
	return out
}

func contract(text string, rules []contractionRule) string {
	for _, r := range rules {
		text = r.re.ReplaceAllStringFunc(text, func(match string) string {
			return matchCase(match, r.with)
		})
	}
	return text
}

// matchCase capitalizes with when match starts with an upper-case letter.
func matchCase(match, with string) string {
	m, _ := utf8.DecodeRuneInString(match)
	if !unicode.IsUpper(m) {
		return with
	}
	w, size := utf8.DecodeRuneInString(with)
	return string(unicode.ToUpper(w)) + with[size:]
}
