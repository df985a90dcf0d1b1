// Package quality scores a finished meme in the context of the conversation
// it replies to. A meme can fit its template and still be unfunny or off
// topic; this is the check for that.
package quality

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/abdulachik/replyguy/internal/textutil"
)

// Tone is the voice a reply was generated in.
type Tone string

const (
	ToneHumorous     Tone = "humorous"
	ToneProfessional Tone = "professional"
	ToneCasual       Tone = "casual"
	ToneSupportive   Tone = "supportive"
	ToneWitty        Tone = "witty"
	ToneSarcastic    Tone = "sarcastic"
	ToneEmpathetic   Tone = "empathetic"
	ToneInformative  Tone = "informative"
	ToneFriendly     Tone = "friendly"
	ToneFormal       Tone = "formal"
)

// Tones lists every supported tone.
var Tones = []Tone{
	ToneHumorous, ToneProfessional, ToneCasual, ToneSupportive, ToneWitty,
	ToneSarcastic, ToneEmpathetic, ToneInformative, ToneFriendly, ToneFormal,
}

// ParseTone validates a tone name.
func ParseTone(s string) (Tone, error) {
	t := Tone(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Tones {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tone %q", s)
}

const (
	weightHumor      = 0.25
	weightContextual = 0.30
	weightReadable   = 0.20
	weightFormat     = 0.15
	weightEngagement = 0.10

	// MinOverall and MinContextual gate MeetsMinimumQuality.
	MinOverall    = 60
	MinContextual = 50

	// GoodOverall is the score above which no improvements are suggested.
	GoodOverall = 70
)

// Content is a meme and the conversation it answers.
type Content struct {
	OriginalTweet string   `json:"original_tweet"`
	Reply         string   `json:"reply"`
	Tone          Tone     `json:"tone"`
	TemplateName  string   `json:"template_name"`
	MemeTexts     []string `json:"meme_texts"`
}

// Breakdown holds the five sub-scores, each in [0,100].
type Breakdown struct {
	HumorRelevance float64 `json:"humor_relevance"`
	ContextualFit  float64 `json:"contextual_fit"`
	Readability    float64 `json:"readability"`
	MemeFormat     float64 `json:"meme_format"`
	Engagement     float64 `json:"engagement"`
}

// Score is the result of AssessQuality.
type Score struct {
	Overall     int       `json:"overall"`
	Breakdown   Breakdown `json:"breakdown"`
	Issues      []string  `json:"issues"`
	Strengths   []string  `json:"strengths"`
	Suggestions []string  `json:"suggestions"`
}

// Scorer computes meme quality scores. The zero value is ready to use.
type Scorer struct{}

// New returns a Scorer.
func New() *Scorer {
	return &Scorer{}
}

// AssessQuality scores c across all five dimensions and explains the result.
// A meme without any caption text scores zero everywhere.
func (s *Scorer) AssessQuality(c Content) Score {
	if !hasCaption(c.MemeTexts) {
		return Score{
			Breakdown:   Breakdown{},
			Issues:      []string{"Meme has no caption text"},
			Strengths:   []string{},
			Suggestions: []string{"Add caption text to the meme"},
		}
	}

	in := newInput(c)
	b := Breakdown{
		HumorRelevance: clamp(in.humorRelevance()),
		ContextualFit:  clamp(in.contextualFit()),
		Readability:    clamp(in.readability()),
		MemeFormat:     clamp(in.memeFormat()),
		Engagement:     clamp(in.engagement()),
	}

	overall := b.HumorRelevance*weightHumor +
		b.ContextualFit*weightContextual +
		b.Readability*weightReadable +
		b.MemeFormat*weightFormat +
		b.Engagement*weightEngagement

	score := Score{
		Overall:     int(math.Round(overall)),
		Breakdown:   b,
		Issues:      []string{},
		Strengths:   []string{},
		Suggestions: []string{},
	}
	feedback(&score, c)
	return score
}

func hasCaption(texts []string) bool {
	for _, t := range texts {
		if strings.TrimSpace(t) != "" {
			return true
		}
	}
	return false
}

// MeetsMinimumQuality reports whether c scores at least MinOverall overall
// and MinContextual on contextual fit.
func (s *Scorer) MeetsMinimumQuality(c Content) bool {
	score := s.AssessQuality(c)
	return score.Overall >= MinOverall && score.Breakdown.ContextualFit >= MinContextual
}

// ImprovementSuggestions returns what to change, or a single note when the
// meme already scores GoodOverall or better.
func (s *Scorer) ImprovementSuggestions(c Content) []string {
	score := s.AssessQuality(c)
	if score.Overall >= GoodOverall {
		return []string{"Meme quality is good!"}
	}
	return score.Suggestions
}

func feedback(s *Score, c Content) {
	b := s.Breakdown

	switch {
	case b.HumorRelevance < 40:
		s.Issues = append(s.Issues, "Low humor relevance to context")
		s.Suggestions = append(s.Suggestions, "Try using humor patterns that relate more to the conversation topic")
	case b.HumorRelevance > 70:
		s.Strengths = append(s.Strengths, "Good humor relevance")
	}

	switch {
	case b.ContextualFit < 50:
		s.Issues = append(s.Issues, "Meme doesn't fit the conversation context well")
		s.Suggestions = append(s.Suggestions, "Ensure meme text references the actual topic being discussed")
	case b.ContextualFit > 75:
		s.Strengths = append(s.Strengths, "Excellent contextual fit")
	}

	switch {
	case b.Readability < 60:
		s.Issues = append(s.Issues, "Poor readability")
		s.Suggestions = append(s.Suggestions, "Use shorter, simpler text that's easy to read at a glance")
	case b.Readability > 80:
		s.Strengths = append(s.Strengths, "Great readability")
	}

	switch {
	case b.MemeFormat < 50:
		s.Issues = append(s.Issues, "Doesn't follow meme format conventions")
		s.Suggestions = append(s.Suggestions, fmt.Sprintf("Ensure text fits the %s template format", c.TemplateName))
	case b.MemeFormat > 75:
		s.Strengths = append(s.Strengths, "Follows meme format well")
	}

	switch {
	case b.Engagement < 50:
		s.Suggestions = append(s.Suggestions, "Consider more relatable or trending topics for better engagement")
	case b.Engagement > 70:
		s.Strengths = append(s.Strengths, "High engagement potential")
	}

	for _, t := range c.MemeTexts {
		if textutil.CharCount(t) > 50 {
			s.Suggestions = append(s.Suggestions, "Shorten text for better visual impact")
			break
		}
	}

	if c.Tone == ToneProfessional && b.HumorRelevance > 80 {
		s.Suggestions = append(s.Suggestions, "Consider toning down humor for professional context")
	}
}

// input is a Content with the lowercased and tokenized forms every
// dimension needs.
type input struct {
	Content
	captions     string
	conversation string
	contextKeys  []string
	captionKeys  []string
}

func newInput(c Content) input {
	in := input{
		Content:      c,
		captions:     strings.ToLower(strings.Join(c.MemeTexts, " ")),
		conversation: strings.ToLower(c.OriginalTweet + " " + c.Reply),
	}
	in.contextKeys = textutil.KeyWords(in.conversation)
	in.captionKeys = textutil.KeyWords(in.captions)
	return in
}

func (in input) humorRelevance() float64 {
	score := 50.0

	for _, re := range humorPatterns {
		if re.MatchString(in.captions) {
			score += 15
			break
		}
	}

	if in.Tone == ToneSarcastic {
		if sarcasmTerms.in(in.captions) {
			score += 15
		} else {
			score -= 10
		}
	}

	score += textutil.Overlap(in.contextKeys, in.captionKeys) * 20

	if genericTerms.in(in.captions) {
		score -= 15
	}

	if techTerms.in(in.conversation) && techHumorTerms.in(in.captions) {
		score += 20
	}
	return score
}

func (in input) contextualFit() float64 {
	score := 60.0
	overlap := textutil.Overlap(in.contextKeys, in.captionKeys)

	score += overlap * 25

	alignment := 0.3
	if vocab, ok := toneVocabulary[in.Tone]; ok && vocab.in(in.captions) {
		alignment = 1
	}
	score += alignment * 15

	score += in.templateFit() * 10

	if textutil.Overlap(textutil.KeyWords(strings.ToLower(in.Reply)), in.captionKeys) > 0.8 {
		score -= 20
	}

	switch {
	case overlap > 0.3:
		score += 10
	case overlap < 0.1:
		score -= 15
	}
	return score
}

func (in input) templateFit() float64 {
	for _, f := range templateFits {
		if f.template.in(in.TemplateName) && (in.Tone == f.tone || f.context.in(in.conversation)) {
			return 1
		}
	}
	return 0.5
}

var simpleChars = regexp.MustCompile(`^[a-zA-Z0-9\s!?,.]+$`)

func (in input) readability() float64 {
	score := 80.0
	var shortest, longest int

	for i, t := range in.MemeTexts {
		chars := textutil.CharCount(t)
		words := textutil.WordCount(t)

		if chars > 60 {
			score -= 10
		}
		if chars < 5 {
			score -= 10
		}
		if words > 8 {
			score -= 8
		}
		if words < 2 {
			score -= 5
		}

		if strings.ContainsAny(t, `"'`) {
			score -= 3
		}
		if strings.Contains(t, "...") {
			score -= 5
		}
		if repeatedMarks.MatchString(t) {
			score -= 5
		}
		if strings.Count(t, ",") >= 2 {
			score -= 5
		}

		if simpleChars.MatchString(t) {
			score += 5
		}
		if shortWords(t) {
			score += 5
		}

		if i == 0 || chars < shortest {
			shortest = chars
		}
		longest = max(longest, chars)
	}

	if len(in.MemeTexts) > 1 && longest > shortest*3 {
		score -= 10
	}
	return score
}

var repeatedMarks = regexp.MustCompile(`[!?]{2,}`)

func shortWords(text string) bool {
	for _, w := range strings.Fields(text) {
		if textutil.CharCount(w) > 10 {
			return false
		}
	}
	return true
}

func (in input) memeFormat() float64 {
	score := 70.0
	name := strings.ToLower(in.TemplateName)
	texts := in.MemeTexts

	if strings.Contains(name, "drake") {
		if len(texts) == 2 {
			score += 15
			if textutil.SimilarityMax(texts[0], texts[1]) < 0.3 {
				score += 10
			} else {
				score -= 10
			}
		} else {
			score -= 20
		}
	}

	if strings.Contains(name, "expanding brain") {
		if len(texts) == 4 {
			score += 15
			if progresses(texts) {
				score += 15
			} else {
				score -= 10
			}
		} else {
			score -= 20
		}
	}

	if strings.Contains(name, "one does not simply") {
		if len(texts) > 0 && textutil.HasNegation(texts[0]) {
			score += 20
		} else {
			score -= 15
		}
	}

	if memeSlang.in(in.captions) {
		score += 10
	}
	if memePhrases.in(in.captions) {
		score += 15
	}
	return score
}

// progresses reports whether some caption uses a tier's vocabulary and the
// next caption uses the tier above.
func progresses(texts []string) bool {
	for i := 0; i+1 < len(texts); i++ {
		for level := 0; level+1 < len(progression); level++ {
			if progression[level].in(texts[i]) && progression[level+1].in(texts[i+1]) {
				return true
			}
		}
	}
	return false
}

func (in input) engagement() float64 {
	score := 60.0

	if relatableTerms.in(in.conversation, in.captions) {
		score += 15
	}
	if trendingTerms.in(in.conversation, in.captions) {
		score += 10
	}
	if textutil.CharCount(in.captions) < 50 && textutil.WordCount(in.captions) <= 6 {
		score += 10
	}
	if nicheTerms.in(in.conversation, in.captions) {
		score -= 5
	}
	if emotionalTerms.in(in.captions) {
		score += 8
	}
	return score
}

func clamp(v float64) float64 {
	return textutil.Clamp(v, 0, 100)
}
