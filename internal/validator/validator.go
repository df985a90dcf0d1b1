// Package validator checks meme captions against template layout rules
// before they are sent for rendering.
package validator

import (
	"fmt"
	"math"
	"strings"

	"github.com/abdulachik/replyguy/internal/templates"
	"github.com/abdulachik/replyguy/internal/textutil"
)

const (
	// RetryThreshold is the score below which captions should be
	// regenerated.
	RetryThreshold = 60

	errorPenalty   = 20
	warningPenalty = 5

	metadataWeight = 0.7
	qualityWeight  = 0.3

	retryFactor = 0.8

	similarityThreshold = 0.7
)

// MetadataStore is the template metadata the validator delegates to when it
// knows the template ID.
type MetadataStore interface {
	Get(id string) (templates.Template, error)
	ValidateAgainstTemplate(id string, texts []string) templates.Check
}

// Options identify the template and carry the captions. Text, when set,
// is the only caption; otherwise TopText, BottomText and AdditionalTexts are
// the boxes in order.
type Options struct {
	TemplateName    string   `json:"template_name"`
	TemplateID      string   `json:"template_id"`
	BoxCount        int      `json:"box_count"`
	TopText         string   `json:"top_text,omitempty"`
	BottomText      string   `json:"bottom_text,omitempty"`
	Text            string   `json:"text,omitempty"`
	AdditionalTexts []string `json:"additional_texts,omitempty"`
}

// Texts returns the captions by box position. Blank boxes before the last
// filled one are kept as "" so their position is not lost.
func (o Options) Texts() []string {
	if o.Text != "" {
		return []string{o.Text}
	}
	texts := append([]string{o.TopText, o.BottomText}, o.AdditionalTexts...)
	for len(texts) > 0 && isBlank(texts[len(texts)-1]) {
		texts = texts[:len(texts)-1]
	}
	return texts
}

// Result is the outcome of one validation. IsValid is true iff Errors is
// empty.
type Result struct {
	IsValid     bool     `json:"is_valid"`
	Score       int      `json:"score"`
	Errors      []string `json:"errors"`
	Warnings    []string `json:"warnings"`
	Suggestions []string `json:"suggestions"`
	Source      Source   `json:"source"`
}

// RetryParameters are the tightened limits for regenerating captions.
type RetryParameters struct {
	MaxCharsPerBox     int    `json:"max_chars_per_box"`
	MaxWordsPerBox     int    `json:"max_words_per_box"`
	TemplateSuggestion string `json:"template_suggestion,omitempty"`
}

// Validator resolves constraints for a template and checks captions against
// them.
type Validator struct {
	store     MetadataStore
	resolvers []Resolver
}

// New creates a Validator. Constraints are resolved in order: template ID in
// store, exact built-in name, partial built-in name, box-count default. A nil
// store skips the first step.
func New(store MetadataStore) *Validator {
	v := &Validator{store: store}
	if store != nil {
		v.resolvers = append(v.resolvers, metadataResolver(store))
	}
	v.resolvers = append(v.resolvers, exactNameResolver, partialNameResolver, boxCountResolver)
	return v
}

// Resolve runs the resolution pipeline.
func (v *Validator) Resolve(opts Options) Resolution {
	for _, r := range v.resolvers {
		if res, ok := r(opts); ok {
			return res
		}
	}
	res, _ := boxCountResolver(opts)
	return res
}

// Validate checks the captions in opts. It never fails; problems are
// reported in the result.
func (v *Validator) Validate(opts Options) Result {
	res := v.Resolve(opts)
	if res.Source == SourceMetadata {
		return v.validateWithMetadata(opts, res)
	}
	return validateWithConstraints(opts, res)
}

func (v *Validator) validateWithMetadata(opts Options, res Resolution) Result {
	texts := opts.Texts()
	check := v.store.ValidateAgainstTemplate(res.Template.ID, texts)

	result := Result{
		IsValid:     len(check.Errors) == 0,
		Errors:      append([]string{}, check.Errors...),
		Warnings:    append([]string{}, check.Suggestions...),
		Suggestions: append([]string{}, check.Suggestions...),
		Source:      SourceMetadata,
	}

	var qualityTotal int
	for _, t := range texts {
		q := assessTextQuality(t)
		qualityTotal += q.score
		result.Warnings = append(result.Warnings, q.warnings...)
		result.Suggestions = append(result.Suggestions, q.suggestions...)
	}
	var avgQuality float64
	if len(texts) > 0 {
		avgQuality = float64(qualityTotal) / float64(len(texts))
	}

	combined := float64(check.Score)*metadataWeight + avgQuality*qualityWeight
	result.Score = textutil.ClampInt(int(math.Round(combined)), 0, 100)
	return result
}

func validateWithConstraints(opts Options, res Resolution) Result {
	c := res.Constraints
	texts := opts.Texts()
	result := Result{
		Errors:      []string{},
		Warnings:    []string{},
		Suggestions: []string{},
		Source:      res.Source,
	}

	var total, scored int
	var filled []string
	for i := range max(len(texts), c.TotalBoxes) {
		if i >= len(texts) || isBlank(texts[i]) {
			if i < c.TotalBoxes {
				result.Errors = append(result.Errors, fmt.Sprintf("Box %d is empty but required for this template", i+1))
			}
			continue
		}

		box := validateBox(texts[i], c, i+1)
		total += box.score
		scored++
		filled = append(filled, texts[i])

		result.Errors = append(result.Errors, box.errors...)
		result.Warnings = append(result.Warnings, box.warnings...)
		result.Suggestions = append(result.Suggestions, box.suggestions...)
	}

	special := checkRules(c.Rules, filled)
	result.Errors = append(result.Errors, special.errors...)
	result.Warnings = append(result.Warnings, special.warnings...)
	result.Suggestions = append(result.Suggestions, special.suggestions...)

	score := 0
	if scored > 0 {
		score = int(math.Round(float64(total) / float64(scored)))
	}
	score -= len(result.Errors) * errorPenalty
	score -= len(result.Warnings) * warningPenalty

	result.Score = textutil.ClampInt(score, 0, 100)
	result.IsValid = len(result.Errors) == 0
	return result
}

type boxResult struct {
	score       int
	errors      []string
	warnings    []string
	suggestions []string
}

func validateBox(text string, c Constraints, box int) boxResult {
	r := boxResult{score: 100}
	chars := textutil.CharCount(text)
	words := textutil.WordCount(text)

	switch {
	case chars > c.MaxCharsPerBox:
		r.errors = append(r.errors, fmt.Sprintf("Box %d: Text too long (%d chars, max %d)", box, chars, c.MaxCharsPerBox))
		r.score -= 30
	case chars < c.MinCharsPerBox:
		r.errors = append(r.errors, fmt.Sprintf("Box %d: Text too short (%d chars, min %d)", box, chars, c.MinCharsPerBox))
		r.score -= 20
	}

	switch {
	case words > c.MaxWordsPerBox:
		r.warnings = append(r.warnings, fmt.Sprintf("Box %d: Many words (%d, suggested max %d)", box, words, c.MaxWordsPerBox))
		r.score -= 10
	case words < c.MinWordsPerBox:
		r.warnings = append(r.warnings, fmt.Sprintf("Box %d: Few words (%d, suggested min %d)", box, words, c.MinWordsPerBox))
		r.score -= 5
	}

	q := assessTextQuality(text)
	r.score = min(r.score, q.score)
	r.warnings = append(r.warnings, q.warnings...)
	r.suggestions = append(r.suggestions, q.suggestions...)
	return r
}

type ruleResult struct {
	errors      []string
	warnings    []string
	suggestions []string
}

func checkRules(rules []Rule, texts []string) ruleResult {
	var r ruleResult
	for _, rule := range rules {
		switch rule {
		case RuleContrast:
			if len(texts) >= 2 && textutil.Similarity(texts[0], texts[1]) > similarityThreshold {
				r.warnings = append(r.warnings, "Top and bottom text are very similar - consider more contrast")
				r.suggestions = append(r.suggestions, "Make the top text oppose or contrast with the bottom text")
			}
		case RuleChoice:
			if len(texts) >= 2 && !presentsChoice(texts) {
				r.suggestions = append(r.suggestions, "Consider framing as a choice or dilemma")
			}
		case RuleThreeLabels:
			if len(texts) != 3 {
				r.errors = append(r.errors, "This template requires exactly 3 text labels")
			}
		case RuleProgressive:
			if len(texts) >= 2 {
				r.suggestions = append(r.suggestions, "Ensure each level builds on or improves the previous one")
			}
		case RuleNegative:
			if len(texts) > 0 && !textutil.HasNegation(texts[0]) {
				r.suggestions = append(r.suggestions, `Consider starting with "One does not simply..." format`)
			}
		}
	}
	return r
}

func presentsChoice(texts []string) bool {
	for _, t := range texts {
		if strings.Contains(t, "?") {
			return true
		}
		for _, tok := range tokens(t) {
			if tok == "or" || tok == "vs" {
				return true
			}
		}
	}
	return false
}

// Suggestions returns the validation suggestions plus general advice when
// the captions have hard errors.
func (v *Validator) Suggestions(opts Options) []string {
	result := v.Validate(opts)
	suggestions := append([]string{}, result.Suggestions...)
	if len(result.Errors) > 0 {
		suggestions = append(suggestions,
			"Consider using automeme instead of template-specific generation",
			"Try breaking up long text into shorter phrases",
			"Use simpler, more direct language",
		)
	}
	return suggestions
}

// ShouldRetry reports whether the captions score below RetryThreshold.
func (v *Validator) ShouldRetry(opts Options) bool {
	return v.Validate(opts).Score < RetryThreshold
}

// RetryParameters shrinks the resolved limits by 20% and suggests a simpler
// template when the current one needs more than two boxes.
func (v *Validator) RetryParameters(opts Options) RetryParameters {
	c := v.Resolve(opts).Constraints
	p := RetryParameters{
		MaxCharsPerBox: int(math.Floor(float64(c.MaxCharsPerBox) * retryFactor)),
		MaxWordsPerBox: int(math.Floor(float64(c.MaxWordsPerBox) * retryFactor)),
	}
	if c.TotalBoxes > 2 {
		p.TemplateSuggestion = "Consider simpler 2-box template"
	}
	return p
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
