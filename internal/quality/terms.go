package quality

import (
	"regexp"
	"strings"
)

// terms matches any of a list of words or phrases on word boundaries,
// allowing a plural "s".
type terms struct {
	re *regexp.Regexp
}

func newTerms(list ...string) terms {
	quoted := make([]string, len(list))
	for i, t := range list {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return terms{re: regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)s?\b`)}
}

func (t terms) in(texts ...string) bool {
	for _, s := range texts {
		if t.re.MatchString(s) {
			return true
		}
	}
	return false
}

var (
	humorPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)but wait there['’]s more`),
		regexp.MustCompile(`(?i)plot twist`),
		regexp.MustCompile(`(?i)uno reverse`),
		regexp.MustCompile(`(?i)surprise`),
		regexp.MustCompile(`(?i)meanwhile`),
		regexp.MustCompile(`(?i)suddenly`),
		regexp.MustCompile(`(?i)not sure if`),
		regexp.MustCompile(`(?i)such .* much`),
		regexp.MustCompile(`(?i)y u no`),
		regexp.MustCompile(`(?i)i see what you did there`),
		regexp.MustCompile(`(?i)that escalated quickly`),
	}

	sarcasmTerms = newTerms("oh really", "sure", "totally", "definitely", "obviously")
	genericTerms = newTerms("this is good", "i agree", "makes sense", "interesting", "cool",
		"nice", "awesome", "great", "ok", "yes", "no")

	techTerms = newTerms("code", "programming", "developer", "software", "app", "website",
		"api", "database", "server", "cloud", "ai", "machine learning",
		"algorithm", "debug", "git", "javascript", "python", "react")
	techHumorTerms = newTerms("works on my machine", "have you tried turning it off",
		"its not a bug its a feature", "it's not a bug it's a feature", "404", "null pointer",
		"stack overflow", "merge conflict", "production")

	memeSlang = newTerms("such", "much", "very", "wow", "doge", "sus", "based",
		"cringe", "cap", "bet", "facts", "mood", "vibe", "energy")
	memePhrases = newTerms("this is fine", "plot twist", "task failed successfully",
		"big brain time", "galaxy brain", "confused stonks")

	relatableTerms = newTerms("work", "coding", "programming", "bug", "deadline", "meeting",
		"monday", "friday", "coffee", "food", "sleep", "procrastination")
	trendingTerms = newTerms("ai", "chatgpt", "machine learning", "crypto", "nft",
		"remote work", "wfh", "zoom", "covid", "inflation")
	nicheTerms = newTerms("kubernetes", "blockchain", "serverless", "microservices",
		"tensor", "neural network", "gradient descent")
	emotionalTerms = newTerms("love", "hate", "amazing", "terrible", "excited", "frustrated",
		"happy", "sad", "angry", "confused", "surprised")

	// progression holds the vocabulary tiers of an escalating caption set,
	// lowest first.
	progression = []terms{
		newTerms("basic", "simple", "normal", "regular"),
		newTerms("better", "good", "advanced", "improved"),
		newTerms("best", "expert", "master", "pro"),
		newTerms("ultimate", "god", "transcendent", "galaxy"),
	}
)

// toneVocabulary is the wording expected in captions for each tone. Tones
// without an entry never get the full alignment bonus.
var toneVocabulary = map[Tone]terms{
	ToneSarcastic:    newTerms("sure", "totally", "obviously", "definitely", "fine", "great"),
	ToneHumorous:     newTerms("funny", "lol", "haha", "joke", "laugh", "hilarious"),
	ToneProfessional: newTerms("efficient", "optimize", "best practice", "solution", "strategy"),
	ToneSupportive:   newTerms("help", "support", "encourage", "positive", "good", "great"),
	ToneEmpathetic:   newTerms("understand", "feel", "difficult", "challenging", "tough"),
}

type templateFit struct {
	template terms
	tone     Tone
	context  terms
}

// templateFits lists when a template suits the tone or the conversation.
var templateFits = []templateFit{
	{newTerms("drake"), ToneProfessional, newTerms("vs", "better")},
	{newTerms("this is fine"), ToneSarcastic, newTerms("problem", "bug")},
	{newTerms("success"), ToneSupportive, newTerms("work", "working", "achieve", "achieved")},
}
