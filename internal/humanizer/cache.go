package humanizer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultCacheTTL is how long dynamic rules are served before a reload.
const DefaultCacheTTL = 5 * time.Minute

// defaultLoadTimeout caps a single loader call.
const defaultLoadTimeout = 10 * time.Second

// Loader returns the currently active dynamic pattern rows.
type Loader func(ctx context.Context) ([]PatternRow, error)

// PatternCache holds compiled dynamic rules and reloads them from a Loader
// once they are older than the TTL. A failed reload keeps the previous rules
// and is not retried until the TTL passes again.
type PatternCache struct {
	loader      Loader
	ttl         time.Duration
	loadTimeout time.Duration
	now         func() time.Time

	mu       sync.RWMutex
	rules    []Rule
	loadedAt time.Time
}

// CacheOption configures a PatternCache.
type CacheOption func(*PatternCache)

// WithTTL overrides DefaultCacheTTL.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *PatternCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock sets the time source used for expiry.
func WithClock(now func() time.Time) CacheOption {
	return func(c *PatternCache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLoadTimeout bounds each loader call.
func WithLoadTimeout(d time.Duration) CacheOption {
	return func(c *PatternCache) {
		if d > 0 {
			c.loadTimeout = d
		}
	}
}

// NewPatternCache creates an empty cache. The first call to Rules loads it.
func NewPatternCache(loader Loader, opts ...CacheOption) *PatternCache {
	c := &PatternCache{
		loader:      loader,
		ttl:         DefaultCacheTTL,
		loadTimeout: defaultLoadTimeout,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Rules returns the cached rules, reloading first when they are stale.
// Load failures are logged and the previous rules are returned.
func (c *PatternCache) Rules(ctx context.Context) []Rule {
	c.mu.RLock()
	rules, stale := c.rules, c.staleLocked()
	c.mu.RUnlock()

	if !stale {
		return rules
	}

	if err := c.Refresh(ctx); err != nil {
		slog.Warn("dynamic pattern reload failed, using cached rules", "error", err, "cached", len(rules))
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rules
}

// Refresh calls the loader and replaces the cached rules. Rows that fail to
// compile are skipped. The load timestamp advances even on failure.
func (c *PatternCache) Refresh(ctx context.Context) error {
	rows, err := c.load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadedAt = c.now()
	if err != nil {
		return err
	}
	c.rules = CompileRows(rows)
	return nil
}

// Invalidate forces a reload on the next Rules call.
func (c *PatternCache) Invalidate() {
	c.mu.Lock()
	c.loadedAt = time.Time{}
	c.mu.Unlock()
}

// Len returns the number of cached rules.
func (c *PatternCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rules)
}

func (c *PatternCache) staleLocked() bool {
	return c.loadedAt.IsZero() || c.now().Sub(c.loadedAt) >= c.ttl
}

type loadResult struct {
	rows []PatternRow
	err  error
}

// load runs the loader in its own goroutine and gives up when the timeout
// or ctx ends, even if the loader ignores cancellation.
func (c *PatternCache) load(ctx context.Context) ([]PatternRow, error) {
	if c.loader == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.loadTimeout)
	defer cancel()

	done := make(chan loadResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- loadResult{err: fmt.Errorf("pattern loader panicked: %v", r)}
			}
		}()
		rows, err := c.loader(ctx)
		done <- loadResult{rows: rows, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("load patterns: %w", res.err)
		}
		return res.rows, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("load patterns: %w", ctx.Err())
	}
}

// CompileRows compiles rows in order, logging and skipping malformed ones.
func CompileRows(rows []PatternRow) []Rule {
	rules := make([]Rule, 0, len(rows))
	for _, row := range rows {
		r, err := CompileRow(row)
		if err != nil {
			slog.Warn("skipping malformed pattern", "pattern", row.Pattern, "type", row.PatternType, "error", err)
			continue
		}
		rules = append(rules, r)
	}
	return rules
}
