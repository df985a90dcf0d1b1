package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdulachik/replyguy/internal/analyzer"
)

func TestHealth_SetHealthy(t *testing.T) {
	h := NewHealth()

	h.SetUnhealthy("test", assert.AnError)
	h.SetHealthy("test", "all good")

	status, ok := h.Status("test")
	require.True(t, ok)
	assert.True(t, status.Healthy)
	assert.Equal(t, "all good", status.Message)
	assert.Nil(t, status.LastError)
	assert.Zero(t, status.Failures)
	assert.WithinDuration(t, time.Now(), status.LastCheck, time.Second)
	assert.WithinDuration(t, time.Now(), status.LastSuccess, time.Second)
}

func TestHealth_SetUnhealthy(t *testing.T) {
	h := NewHealth()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return fixed }

	err := assert.AnError
	h.SetUnhealthy("test", err)
	h.SetUnhealthy("test", err)

	status, ok := h.Status("test")
	require.True(t, ok)
	assert.False(t, status.Healthy)
	assert.Equal(t, err, status.LastError)
	assert.Equal(t, err.Error(), status.Message)
	assert.Equal(t, 2, status.Failures)
	assert.Equal(t, fixed, status.LastCheck)
	assert.True(t, status.LastSuccess.IsZero())
}

func TestHealth_Status_NotFound(t *testing.T) {
	_, ok := NewHealth().Status("nonexistent")
	assert.False(t, ok)
}

func TestHealth_Statuses(t *testing.T) {
	h := NewHealth()

	h.SetHealthy("patterns", "ok")
	h.SetUnhealthy("analyzer", assert.AnError)
	h.SetHealthy("cleanup", "ok")

	statuses := h.Statuses()
	require.Len(t, statuses, 3)
	assert.Equal(t, "analyzer", statuses[0].Component)
	assert.False(t, statuses[0].Healthy)
	assert.Equal(t, "cleanup", statuses[1].Component)
	assert.Equal(t, "patterns", statuses[2].Component)
}

func TestHealth_Healthy(t *testing.T) {
	t.Run("all healthy", func(t *testing.T) {
		h := NewHealth()
		h.SetHealthy("comp1", "ok")
		h.SetHealthy("comp2", "ok")

		assert.True(t, h.Healthy())
	})

	t.Run("one unhealthy", func(t *testing.T) {
		h := NewHealth()
		h.SetHealthy("comp1", "ok")
		h.SetUnhealthy("comp2", assert.AnError)

		assert.False(t, h.Healthy())
	})

	t.Run("empty", func(t *testing.T) {
		assert.True(t, NewHealth().Healthy())
	})
}

type fakeCache struct {
	refreshes int
	err       error
}

func (c *fakeCache) Refresh(context.Context) error {
	c.refreshes++
	return c.err
}

func (c *fakeCache) Len() int { return 3 }

type fakeAnalyzer struct {
	res        analyzer.Result
	err        error
	minReports int
	calls      int
}

func (a *fakeAnalyzer) AnalyzeReported(_ context.Context, minReports int) (analyzer.Result, error) {
	a.calls++
	a.minReports = minReports
	return a.res, a.err
}

type fakeCleaner struct{ calls int }

func (c *fakeCleaner) Cleanup() { c.calls++ }

func TestScheduler_RefreshCycle(t *testing.T) {
	cache := &fakeCache{}
	s := New(Config{Patterns: cache})

	s.runRefreshCycle(context.Background())
	assert.Equal(t, 1, cache.refreshes)
	st, ok := s.Health().Status(ComponentPatterns)
	require.True(t, ok)
	assert.True(t, st.Healthy)

	cache.err = errors.New("database is locked")
	s.runRefreshCycle(context.Background())
	st, _ = s.Health().Status(ComponentPatterns)
	assert.False(t, st.Healthy)
	assert.Equal(t, "database is locked", st.Message)
}

func TestScheduler_AnalysisCycle(t *testing.T) {
	t.Run("confirmed phrases reload patterns", func(t *testing.T) {
		cache := &fakeCache{}
		an := &fakeAnalyzer{res: analyzer.Result{Reviewed: 2, Confirmed: 1, Rejected: 1}}
		s := New(Config{Patterns: cache, Analyzer: an, MinReports: 8})

		s.runAnalysisCycle(context.Background())
		assert.Equal(t, 1, an.calls)
		assert.Equal(t, 8, an.minReports)
		assert.Equal(t, 1, cache.refreshes)
		assert.True(t, s.Health().Healthy())
	})

	t.Run("nothing confirmed", func(t *testing.T) {
		cache := &fakeCache{}
		an := &fakeAnalyzer{res: analyzer.Result{Reviewed: 1, Rejected: 1}}
		s := New(Config{Patterns: cache, Analyzer: an})

		s.runAnalysisCycle(context.Background())
		assert.Equal(t, analyzer.DefaultMinReports, an.minReports)
		assert.Zero(t, cache.refreshes)
	})

	t.Run("failure marks analyzer unhealthy", func(t *testing.T) {
		an := &fakeAnalyzer{err: errors.New("list reported phrases: boom")}
		s := New(Config{Analyzer: an})

		s.runAnalysisCycle(context.Background())
		st, ok := s.Health().Status(ComponentAnalyzer)
		require.True(t, ok)
		assert.False(t, st.Healthy)
	})

	t.Run("disabled", func(t *testing.T) {
		s := New(Config{})
		s.runAnalysisCycle(context.Background())
		assert.Empty(t, s.Health().Statuses())
	})
}

func TestScheduler_Run(t *testing.T) {
	cache := &fakeCache{}
	an := &fakeAnalyzer{}
	cleaner := &fakeCleaner{}
	s := New(Config{
		Patterns:        cache,
		Analyzer:        an,
		Usage:           cleaner,
		RefreshInterval: time.Hour,
		AnalyzeInterval: time.Hour,
		CleanupInterval: 5 * time.Millisecond,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := s.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, cache.refreshes)
	assert.Equal(t, 1, an.calls)
	assert.Positive(t, cleaner.calls)
}
