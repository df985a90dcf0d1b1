package templates

import (
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"
)

const (
	// MaxHistoryPerUser caps the per-user usage history.
	MaxHistoryPerUser = 20

	// CooldownUses is how many of a user's most recent templates count as
	// recently used.
	CooldownUses = 5

	// HistoryRetention is how long Cleanup keeps usage entries.
	HistoryRetention = 24 * time.Hour

	anonymousUser = "anonymous"
)

// TemplateUsage is one template in a user's history.
type TemplateUsage struct {
	TemplateID   string    `json:"template_id"`
	TemplateName string    `json:"template_name"`
	LastUsed     time.Time `json:"last_used"`
	UseCount     int       `json:"use_count"`
}

// GlobalUsage counts uses of a template across users.
type GlobalUsage struct {
	TemplateID string `json:"template_id"`
	UseCount   int    `json:"use_count"`
}

// UsageStats is a snapshot of tracker state.
type UsageStats struct {
	User   []TemplateUsage `json:"user,omitempty"`
	Global []GlobalUsage   `json:"global"`
}

// Candidate is a template considered for selection.
type Candidate struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ScoredCandidate pairs a candidate with its diversity score.
type ScoredCandidate struct {
	Candidate Candidate `json:"candidate"`
	Score     float64   `json:"score"`
}

// Tracker records which templates each user got recently so selection can
// favor variety. It is safe for concurrent use.
type Tracker struct {
	now func() time.Time

	mu     sync.Mutex
	rng    *rand.Rand
	users  map[string][]TemplateUsage
	global map[string]int
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithTrackerClock sets the tracker's time source.
func WithTrackerClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) { t.now = now }
}

// WithTrackerRand sets the source of the diversity jitter.
func WithTrackerRand(rng *rand.Rand) TrackerOption {
	return func(t *Tracker) { t.rng = rng }
}

// NewTracker creates an empty tracker.
func NewTracker(opts ...TrackerOption) *Tracker {
	t := &Tracker{
		now:    time.Now,
		users:  make(map[string][]TemplateUsage),
		global: make(map[string]int),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.rng == nil {
		t.rng = rand.New(rand.NewSource(t.now().UnixNano()))
	}
	return t
}

func userKey(userID string) string {
	if userID == "" {
		return anonymousUser
	}
	return userID
}

// RecordUsage notes that userID got templateID.
func (t *Tracker) RecordUsage(userID, templateID, templateName string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := userKey(userID)
	history := t.users[key]

	entry := TemplateUsage{TemplateID: templateID, TemplateName: templateName}
	for i, u := range history {
		if u.TemplateID == templateID {
			entry = u
			history = append(history[:i:i], history[i+1:]...)
			break
		}
	}
	entry.LastUsed = t.now()
	entry.UseCount++

	// Most recent first; the entry just used leads among equal timestamps.
	history = append([]TemplateUsage{entry}, history...)
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].LastUsed.After(history[j].LastUsed)
	})
	if len(history) > MaxHistoryPerUser {
		history = history[:MaxHistoryPerUser]
	}

	t.users[key] = history
	t.global[templateID]++
}

// RecentIDs returns the templates among the user's CooldownUses most recent.
func (t *Tracker) RecentIDs(userID string) map[string]bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.recentLocked(userKey(userID))
}

func (t *Tracker) recentLocked(key string) map[string]bool {
	history := t.users[key]
	recent := make(map[string]bool, CooldownUses)
	for i := 0; i < len(history) && i < CooldownUses; i++ {
		recent[history[i].TemplateID] = true
	}
	return recent
}

// ScoreByDiversity scores candidates for userID: 100, minus 80 when recently
// used, minus up to 30 for the user's total uses and up to 10 for global
// uses, plus up to 20 of random jitter.
func (t *Tracker) ScoreByDiversity(candidates []Candidate, userID string) []ScoredCandidate {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := userKey(userID)
	recent := t.recentLocked(key)
	history := t.users[key]

	scored := make([]ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		score := 100.0
		if recent[c.ID] {
			score -= 80
		}
		for _, u := range history {
			if u.TemplateID == c.ID {
				score -= math.Min(float64(u.UseCount)*5, 30)
				break
			}
		}
		score -= math.Min(float64(t.global[c.ID])*0.5, 10)
		score += t.rng.Float64() * 20

		scored = append(scored, ScoredCandidate{Candidate: c, Score: score})
	}
	return scored
}

// Stats returns the global counts, most used first, and the history of
// userID when it is non-empty.
func (t *Tracker) Stats(userID string) UsageStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	var stats UsageStats
	if userID != "" {
		stats.User = append([]TemplateUsage(nil), t.users[userID]...)
	}
	for id, n := range t.global {
		stats.Global = append(stats.Global, GlobalUsage{TemplateID: id, UseCount: n})
	}
	sort.Slice(stats.Global, func(i, j int) bool {
		if stats.Global[i].UseCount != stats.Global[j].UseCount {
			return stats.Global[i].UseCount > stats.Global[j].UseCount
		}
		return stats.Global[i].TemplateID < stats.Global[j].TemplateID
	})
	return stats
}

// Cleanup drops history entries older than HistoryRetention and users left
// with none.
func (t *Tracker) Cleanup() {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := t.now().Add(-HistoryRetention)
	for key, history := range t.users {
		kept := history[:0]
		for _, u := range history {
			if u.LastUsed.After(cutoff) {
				kept = append(kept, u)
			}
		}
		if len(kept) == 0 {
			delete(t.users, key)
		} else {
			t.users[key] = kept
		}
	}
}
