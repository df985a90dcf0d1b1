// Package templates holds the meme template metadata table, the automeme
// caption idioms, fallback captions, and per-user template diversity
// tracking.
package templates

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/abdulachik/replyguy/internal/textutil"
)

//go:embed templates.yaml
var defaultTemplates []byte

// ErrNotFound is returned when a template ID or name is not in the store.
var ErrNotFound = errors.New("template not found")

// Similarity above which two captions of a contrast template read as the
// same joke.
const contrastThreshold = 0.7

// successRateWeight is the EMA weight of a new outcome.
const successRateWeight = 0.1

// TextFormat is the phrasing a template expects.
type TextFormat string

const (
	FormatStatement   TextFormat = "statement"
	FormatQuestion    TextFormat = "question"
	FormatExclamation TextFormat = "exclamation"
	FormatNegative    TextFormat = "negative"
)

// Constraints bound the caption size per box.
type Constraints struct {
	MaxCharsPerBox int `yaml:"max_chars_per_box" json:"max_chars_per_box"`
	MinCharsPerBox int `yaml:"min_chars_per_box" json:"min_chars_per_box"`
	MaxWordsPerBox int `yaml:"max_words_per_box" json:"max_words_per_box"`
	MinWordsPerBox int `yaml:"min_words_per_box" json:"min_words_per_box"`
	TotalMaxChars  int `yaml:"total_max_chars" json:"total_max_chars"`
}

// Layout describes where captions go on the image.
type Layout struct {
	Type          string   `yaml:"type" json:"type"`
	Distribution  string   `yaml:"distribution" json:"distribution"`
	TextPositions []string `yaml:"text_positions" json:"text_positions"`
}

// Usage carries the template's track record. SuccessRate is the only field
// that changes at runtime.
type Usage struct {
	Complexity          int      `yaml:"complexity" json:"complexity"`
	SuccessRate         float64  `yaml:"success_rate" json:"success_rate"`
	PopularityScore     float64  `yaml:"popularity_score" json:"popularity_score"`
	RecommendedContexts []string `yaml:"recommended_contexts" json:"recommended_contexts"`
}

// SpecialRules are the template-specific caption checks.
type SpecialRules struct {
	RequiresContrast    bool       `yaml:"requires_contrast" json:"requires_contrast,omitempty"`
	RequiresProgression bool       `yaml:"requires_progression" json:"requires_progression,omitempty"`
	RequiresChoice      bool       `yaml:"requires_choice" json:"requires_choice,omitempty"`
	RequiresLabels      bool       `yaml:"requires_labels" json:"requires_labels,omitempty"`
	TextFormat          TextFormat `yaml:"text_format" json:"text_format,omitempty"`
}

// GoodExample is a caption set that worked.
type GoodExample struct {
	Context string   `yaml:"context" json:"context"`
	Texts   []string `yaml:"texts" json:"texts"`
	Score   int      `yaml:"score" json:"score"`
}

// BadExample is a caption set that did not, with the reasons.
type BadExample struct {
	Context string   `yaml:"context" json:"context"`
	Texts   []string `yaml:"texts" json:"texts"`
	Issues  []string `yaml:"issues" json:"issues"`
}

// Examples groups the good and bad caption sets of a template.
type Examples struct {
	Good []GoodExample `yaml:"good" json:"good"`
	Bad  []BadExample  `yaml:"bad" json:"bad"`
}

// Template is the metadata of one meme template.
type Template struct {
	ID           string       `yaml:"id" json:"id"`
	Name         string       `yaml:"name" json:"name"`
	Category     string       `yaml:"category" json:"category"`
	BoxCount     int          `yaml:"box_count" json:"box_count"`
	Constraints  Constraints  `yaml:"constraints" json:"constraints"`
	Layout       Layout       `yaml:"layout" json:"layout"`
	Usage        Usage        `yaml:"usage" json:"usage"`
	SpecialRules SpecialRules `yaml:"special_rules" json:"special_rules"`
	Examples     Examples     `yaml:"examples" json:"examples"`
}

// RankScore weighs success rate over popularity for recommendations.
func (t Template) RankScore() float64 {
	return t.Usage.SuccessRate*0.7 + t.Usage.PopularityScore*0.3
}

type file struct {
	Templates []Template `yaml:"templates"`
}

// Store is the template metadata table. Reads return copies; success rate
// updates are serialized.
type Store struct {
	mu        sync.RWMutex
	templates map[string]*Template
	order     []string
}

// NewStore builds a store from templates, rejecting duplicate IDs and box
// counts outside 1..4.
func NewStore(templates []Template) (*Store, error) {
	s := &Store{templates: make(map[string]*Template, len(templates))}
	for i := range templates {
		t := templates[i]
		if t.ID == "" {
			return nil, fmt.Errorf("template %q has no id", t.Name)
		}
		if _, dup := s.templates[t.ID]; dup {
			return nil, fmt.Errorf("duplicate template id %s", t.ID)
		}
		if t.BoxCount < 1 || t.BoxCount > 4 {
			return nil, fmt.Errorf("template %s: box count %d out of range", t.ID, t.BoxCount)
		}
		s.templates[t.ID] = &t
		s.order = append(s.order, t.ID)
	}
	return s, nil
}

// Parse decodes a YAML template table.
func Parse(data []byte) (*Store, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return NewStore(f.Templates)
}

// LoadDefault returns a store holding the built-in template table.
func LoadDefault() (*Store, error) {
	return Parse(defaultTemplates)
}

// LoadFile reads a YAML template table from path.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read templates file: %w", err)
	}
	return Parse(data)
}

// Get returns the template with the given ID.
func (s *Store) Get(id string) (Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.templates[id]
	if !ok {
		return Template{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return *t, nil
}

// ByName returns the template whose name matches case-insensitively.
func (s *Store) ByName(name string) (Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		if strings.EqualFold(s.templates[id].Name, strings.TrimSpace(name)) {
			return *s.templates[id], nil
		}
	}
	return Template{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// All returns every template in table order.
func (s *Store) All() []Template {
	return s.filter(func(Template) bool { return true })
}

// ByCategory returns the templates of one category.
func (s *Store) ByCategory(category string) []Template {
	return s.filter(func(t Template) bool { return t.Category == category })
}

// ByComplexity returns templates no more complex than maxComplexity.
func (s *Store) ByComplexity(maxComplexity int) []Template {
	return s.filter(func(t Template) bool { return t.Usage.Complexity <= maxComplexity })
}

// Reliable returns templates with a success rate of at least minRate, best
// first.
func (s *Store) Reliable(minRate float64) []Template {
	out := s.filter(func(t Template) bool { return t.Usage.SuccessRate >= minRate })
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Usage.SuccessRate > out[j].Usage.SuccessRate
	})
	return out
}

// Recommend returns templates whose recommended contexts overlap context
// (either string containing the other) and whose complexity is at most
// maxComplexity, ordered by RankScore.
func (s *Store) Recommend(context string, maxComplexity int) []Template {
	ctx := strings.ToLower(strings.TrimSpace(context))
	if ctx == "" {
		return nil
	}

	out := s.filter(func(t Template) bool {
		if t.Usage.Complexity > maxComplexity {
			return false
		}
		for _, rc := range t.Usage.RecommendedContexts {
			rc = strings.ToLower(rc)
			if strings.Contains(ctx, rc) || strings.Contains(rc, ctx) {
				return true
			}
		}
		return false
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RankScore() > out[j].RankScore()
	})
	return out
}

func (s *Store) filter(keep func(Template) bool) []Template {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Template
	for _, id := range s.order {
		if t := *s.templates[id]; keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// UpdateSuccessRate folds one outcome into the template's success rate as an
// exponential moving average and returns the new rate.
func (s *Store) UpdateSuccessRate(id string, success bool) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.templates[id]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	outcome := 0.0
	if success {
		outcome = 100
	}
	rate := t.Usage.SuccessRate*(1-successRateWeight) + outcome*successRateWeight
	t.Usage.SuccessRate = textutil.Clamp(rate, 0, 100)
	return t.Usage.SuccessRate, nil
}

// Check is the result of validating captions against template metadata.
type Check struct {
	IsValid     bool     `json:"is_valid"`
	Score       int      `json:"score"`
	Errors      []string `json:"errors"`
	Suggestions []string `json:"suggestions"`
}

// ValidateAgainstTemplate checks texts against the template's box count, its
// per-box size bounds and its special rules. Size and count violations are
// errors; word counts and special rules only produce suggestions.
func (s *Store) ValidateAgainstTemplate(id string, texts []string) Check {
	t, err := s.Get(id)
	if err != nil {
		return Check{
			Score:       0,
			Errors:      []string{"Template metadata not found"},
			Suggestions: []string{"Use a supported template"},
		}
	}

	check := Check{Errors: []string{}, Suggestions: []string{}}
	score := 100
	c := t.Constraints

	if len(texts) != t.BoxCount {
		check.Errors = append(check.Errors, fmt.Sprintf("Expected %d text boxes, got %d", t.BoxCount, len(texts)))
		score -= 30
	}

	for i := range t.BoxCount {
		box := i + 1
		if i >= len(texts) {
			// already penalized by the box count error
			check.Errors = append(check.Errors, fmt.Sprintf("Box %d is empty but required for this template", box))
			continue
		}
		if strings.TrimSpace(texts[i]) == "" {
			check.Errors = append(check.Errors, fmt.Sprintf("Box %d is empty but required for this template", box))
			score -= 15
			continue
		}

		chars := textutil.CharCount(texts[i])
		words := textutil.WordCount(texts[i])

		switch {
		case chars > c.MaxCharsPerBox:
			check.Errors = append(check.Errors, fmt.Sprintf("Box %d: Too long (%d/%d chars)", box, chars, c.MaxCharsPerBox))
			score -= 20
		case chars < c.MinCharsPerBox:
			check.Errors = append(check.Errors, fmt.Sprintf("Box %d: Too short (%d/%d chars)", box, chars, c.MinCharsPerBox))
			score -= 15
		}

		switch {
		case words > c.MaxWordsPerBox:
			check.Suggestions = append(check.Suggestions, fmt.Sprintf("Box %d: Consider fewer words (%d/%d words)", box, words, c.MaxWordsPerBox))
			score -= 10
		case words < c.MinWordsPerBox:
			check.Suggestions = append(check.Suggestions, fmt.Sprintf("Box %d: Could use more words (%d/%d words)", box, words, c.MinWordsPerBox))
			score -= 5
		}
	}

	rules := t.SpecialRules
	if rules.RequiresContrast && len(texts) >= 2 {
		if textutil.SimilarityMax(texts[0], texts[1]) > contrastThreshold {
			check.Suggestions = append(check.Suggestions, "Texts should contrast more with each other")
			score -= 15
		}
	}
	if rules.RequiresProgression && len(texts) >= 2 {
		check.Suggestions = append(check.Suggestions, "Ensure texts show logical progression or improvement")
	}
	if rules.RequiresLabels && len(texts) != t.BoxCount {
		check.Suggestions = append(check.Suggestions, fmt.Sprintf("Label each of the %d elements", t.BoxCount))
	}
	if rules.TextFormat == FormatNegative && len(texts) > 0 && !textutil.HasNegation(texts[0]) {
		check.Suggestions = append(check.Suggestions, `Consider using negative format (e.g., "One does not simply...")`)
		score -= 10
	}

	check.Score = textutil.ClampInt(score, 0, 100)
	check.IsValid = len(check.Errors) == 0
	return check
}

// RetryConstraints are tightened limits for regenerating captions.
type RetryConstraints struct {
	MaxCharsPerBox int      `json:"max_chars_per_box"`
	MaxWordsPerBox int      `json:"max_words_per_box"`
	Suggestions    []string `json:"suggestions"`
}

// minRetryFactor stops repeated retries from shrinking limits to nothing.
const minRetryFactor = 0.3

// RetryConstraints shrinks the template's limits to 80% on the first retry
// (attempt 0) and by a further 10 points per attempt.
func (s *Store) RetryConstraints(id string, attempt int) RetryConstraints {
	t, err := s.Get(id)
	if err != nil {
		return RetryConstraints{
			MaxCharsPerBox: 30,
			MaxWordsPerBox: 4,
			Suggestions:    []string{"Use simpler language"},
		}
	}

	factor := math.Max(0.8-float64(attempt)*0.1, minRetryFactor)
	rc := RetryConstraints{
		MaxCharsPerBox: max(int(math.Floor(float64(t.Constraints.MaxCharsPerBox)*factor)), 1),
		MaxWordsPerBox: max(int(math.Floor(float64(t.Constraints.MaxWordsPerBox)*factor)), 1),
		Suggestions: []string{
			"Use shorter, simpler phrases",
			"Avoid complex punctuation",
			"Focus on key message only",
		},
	}
	if len(t.Examples.Good) > 0 {
		rc.Suggestions = append(rc.Suggestions, fmt.Sprintf("Good example: %q", strings.Join(t.Examples.Good[0].Texts, " / ")))
	}
	return rc
}
