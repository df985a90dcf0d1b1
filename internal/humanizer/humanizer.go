// Package humanizer detects and rewrites the phrasing that makes generated
// replies read as machine-written.
//
// The static passes (Humanize and the detectors) are pure functions of their
// input. A Humanizer adds the stochastic and dynamic parts of the pipeline:
// an injected random source for natural variations and an optional
// PatternCache of rules sourced from user feedback.
package humanizer

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultIntensity is the variation intensity Process uses.
	DefaultIntensity = 0.3

	// AggressiveIntensity is used for a second variation pass when the
	// output still reads as too polished.
	AggressiveIntensity = 0.5

	// grammarSuspicionThreshold is the GrammarReport score above which the
	// second pass runs.
	grammarSuspicionThreshold = 2
)

// Options configures a Humanizer. A nil Cache disables dynamic rules; a nil
// Rand uses a time-seeded source; a zero Intensity uses DefaultIntensity.
type Options struct {
	Cache     *PatternCache
	Rand      *rand.Rand
	Intensity float64
}

// Humanizer runs the full rewrite pipeline. It is safe for concurrent use.
type Humanizer struct {
	cache     *PatternCache
	intensity float64

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Humanizer.
func New(opts Options) *Humanizer {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	intensity := opts.Intensity
	if intensity <= 0 {
		intensity = DefaultIntensity
	}
	return &Humanizer{
		cache:     opts.Cache,
		intensity: intensity,
		rng:       rng,
	}
}

// Process applies dynamic rules from the cache, then the static pipeline.
// The cache reloads itself when stale; a failed reload falls back to the
// rules it already has, so Process always returns a result.
func (h *Humanizer) Process(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	if h.cache != nil {
		text = ApplyRules(h.cache.Rules(ctx), text)
	}
	return h.pipeline(text)
}

// ProcessSync is Process without dynamic rules.
func (h *Humanizer) ProcessSync(text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	return h.pipeline(text)
}

// AddNaturalVariations is the package function bound to the Humanizer's
// random source.
func (h *Humanizer) AddNaturalVariations(text string, intensity float64) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return AddNaturalVariations(text, intensity, h.rng)
}

func (h *Humanizer) pipeline(text string) string {
	out := Humanize(text)
	out = h.AddNaturalVariations(out, h.intensity)
	out = LimitEmojis(out)

	if HasPerfectGrammar(out).Score > grammarSuspicionThreshold {
		out = h.AddNaturalVariations(out, AggressiveIntensity)
	}
	return out
}
