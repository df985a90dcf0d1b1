package templates

import (
	_ "embed"
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed memes.yaml
var defaultMemes []byte

// DefaultTone is used for fallbacks when the requested tone has none.
const DefaultTone = "professional"

// Pattern is an automeme caption idiom. X and Y in Pattern mark free slots.
type Pattern struct {
	Pattern string `yaml:"pattern" json:"pattern"`
	Example string `yaml:"example" json:"example"`
	Usage   string `yaml:"usage" json:"usage"`

	re *regexp.Regexp
}

// Matches reports whether text fits the idiom, case-insensitively.
func (p Pattern) Matches(text string) bool {
	return p.re != nil && p.re.MatchString(text)
}

// Catalog holds caption idioms and fallback captions.
type Catalog struct {
	Patterns        []Pattern           `yaml:"patterns"`
	Fallbacks       []string            `yaml:"fallbacks"`
	FallbacksByTone map[string][]string `yaml:"fallbacks_by_tone"`
}

// ParseCatalog decodes a YAML catalog and compiles its patterns.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse meme catalog: %w", err)
	}
	for i := range c.Patterns {
		re, err := compileSlots(c.Patterns[i].Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", c.Patterns[i].Pattern, err)
		}
		c.Patterns[i].re = re
	}
	if len(c.Fallbacks) == 0 {
		return nil, fmt.Errorf("meme catalog has no fallbacks")
	}
	return &c, nil
}

// LoadDefaultCatalog returns the built-in catalog.
func LoadDefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultMemes)
}

// compileSlots turns "not sure if X or Y" into an unanchored,
// case-insensitive regexp with each slot matching one or more characters.
func compileSlots(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("(?i)")
	start := 0
	for i, r := range pattern {
		if r != 'X' && r != 'Y' {
			continue
		}
		b.WriteString(regexp.QuoteMeta(pattern[start:i]))
		b.WriteString(".+")
		start = i + 1
	}
	b.WriteString(regexp.QuoteMeta(pattern[start:]))
	return regexp.Compile(b.String())
}

// FollowsPattern reports whether text fits any known idiom.
func (c *Catalog) FollowsPattern(text string) bool {
	_, ok := c.MatchPattern(text)
	return ok
}

// MatchPattern returns the first idiom text fits.
func (c *Catalog) MatchPattern(text string) (Pattern, bool) {
	for _, p := range c.Patterns {
		if p.Matches(text) {
			return p, true
		}
	}
	return Pattern{}, false
}

// RandomPattern picks an idiom.
func (c *Catalog) RandomPattern(rng *rand.Rand) Pattern {
	return c.Patterns[rng.Intn(len(c.Patterns))]
}

// Fallback picks any fallback caption.
func (c *Catalog) Fallback(rng *rand.Rand) string {
	return c.Fallbacks[rng.Intn(len(c.Fallbacks))]
}

// FallbackByTone picks a fallback caption suited to tone, using the
// professional set for tones without their own.
func (c *Catalog) FallbackByTone(tone string, rng *rand.Rand) string {
	options := c.FallbacksByTone[strings.ToLower(tone)]
	if len(options) == 0 {
		options = c.FallbacksByTone[DefaultTone]
	}
	if len(options) == 0 {
		return c.Fallback(rng)
	}
	return options[rng.Intn(len(options))]
}
