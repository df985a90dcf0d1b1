package validator

import (
	"strings"

	"github.com/abdulachik/replyguy/internal/templates"
)

// Rule is a template-specific caption check.
type Rule string

const (
	RuleContrast    Rule = "contrast_required"
	RuleChoice      Rule = "choice_required"
	RuleThreeLabels Rule = "three_labels"
	RuleProgressive Rule = "progressive"
	RuleNegative    Rule = "negative_statement"
)

// Constraints bound captions for templates without full metadata.
type Constraints struct {
	MaxCharsPerBox int    `json:"max_chars_per_box"`
	MinCharsPerBox int    `json:"min_chars_per_box"`
	MaxWordsPerBox int    `json:"max_words_per_box"`
	MinWordsPerBox int    `json:"min_words_per_box"`
	TotalBoxes     int    `json:"total_boxes"`
	Rules          []Rule `json:"rules,omitempty"`
}

type namedConstraints struct {
	name        string
	constraints Constraints
}

// builtinConstraints is searched in order, so partial name matches are
// deterministic.
var builtinConstraints = []namedConstraints{
	{"Drake Pointing", Constraints{60, 3, 8, 1, 2, []Rule{RuleContrast}}},
	{"Two Buttons", Constraints{40, 3, 6, 1, 2, []Rule{RuleChoice}}},
	{"Distracted Boyfriend", Constraints{25, 2, 4, 1, 3, []Rule{RuleThreeLabels}}},
	{"Expanding Brain", Constraints{35, 3, 5, 1, 4, []Rule{RuleProgressive}}},
	{"One Does Not Simply", Constraints{80, 5, 12, 2, 1, []Rule{RuleNegative}}},
}

// boxCountDefaults shrink per-box allowances as the box count rises.
var boxCountDefaults = map[int]Constraints{
	1: {80, 5, 12, 2, 1, nil},
	2: {60, 3, 8, 1, 2, nil},
	3: {30, 2, 5, 1, 3, nil},
	4: {25, 2, 4, 1, 4, nil},
}

// fallbackBoxCount is used when the box count has no defaults.
const fallbackBoxCount = 2

// Source names the step of the resolution pipeline that supplied the
// constraints.
type Source string

const (
	SourceMetadata    Source = "metadata"
	SourceExactName   Source = "exact-name"
	SourcePartialName Source = "partial-name"
	SourceBoxCount    Source = "box-count"
)

// Resolution is the outcome of constraint resolution. Template is set only
// for SourceMetadata.
type Resolution struct {
	Source      Source
	Template    *templates.Template
	Constraints Constraints
}

// Resolver is one step of the resolution pipeline.
type Resolver func(Options) (Resolution, bool)

// metadataResolver resolves by exact template ID against the metadata store.
func metadataResolver(store MetadataStore) Resolver {
	return func(opts Options) (Resolution, bool) {
		if store == nil || opts.TemplateID == "" {
			return Resolution{}, false
		}
		t, err := store.Get(opts.TemplateID)
		if err != nil {
			return Resolution{}, false
		}
		return Resolution{
			Source:   SourceMetadata,
			Template: &t,
			Constraints: Constraints{
				MaxCharsPerBox: t.Constraints.MaxCharsPerBox,
				MinCharsPerBox: t.Constraints.MinCharsPerBox,
				MaxWordsPerBox: t.Constraints.MaxWordsPerBox,
				MinWordsPerBox: t.Constraints.MinWordsPerBox,
				TotalBoxes:     t.BoxCount,
			},
		}, true
	}
}

func exactNameResolver(opts Options) (Resolution, bool) {
	for _, nc := range builtinConstraints {
		if nc.name == opts.TemplateName {
			return Resolution{Source: SourceExactName, Constraints: nc.constraints}, true
		}
	}
	return Resolution{}, false
}

func partialNameResolver(opts Options) (Resolution, bool) {
	name := strings.ToLower(strings.TrimSpace(opts.TemplateName))
	if name == "" {
		return Resolution{}, false
	}
	for _, nc := range builtinConstraints {
		key := strings.ToLower(nc.name)
		if strings.Contains(name, key) || strings.Contains(key, name) {
			return Resolution{Source: SourcePartialName, Constraints: nc.constraints}, true
		}
	}
	return Resolution{}, false
}

func boxCountResolver(opts Options) (Resolution, bool) {
	c, ok := boxCountDefaults[opts.BoxCount]
	if !ok {
		c = boxCountDefaults[fallbackBoxCount]
	}
	return Resolution{Source: SourceBoxCount, Constraints: c}, true
}
