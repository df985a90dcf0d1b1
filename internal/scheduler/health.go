package scheduler

import (
	"sort"
	"sync"
	"time"
)

// HealthStatus is the last known state of one daemon component.
type HealthStatus struct {
	Component   string    `json:"component"`
	Healthy     bool      `json:"healthy"`
	LastCheck   time.Time `json:"last_check"`
	LastSuccess time.Time `json:"last_success,omitempty"`
	LastError   error     `json:"-"`
	Message     string    `json:"message"`
	Failures    int       `json:"consecutive_failures"`
}

// Health tracks component status. Reads return copies.
type Health struct {
	mu         sync.RWMutex
	components map[string]*HealthStatus
	now        func() time.Time
}

// NewHealth creates an empty health tracker.
func NewHealth() *Health {
	return &Health{
		components: make(map[string]*HealthStatus),
		now:        time.Now,
	}
}

func (h *Health) entry(component string) *HealthStatus {
	st, ok := h.components[component]
	if !ok {
		st = &HealthStatus{Component: component}
		h.components[component] = st
	}
	return st
}

// SetHealthy marks a component as healthy and resets its failure streak.
func (h *Health) SetHealthy(component, message string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	st := h.entry(component)
	st.Healthy = true
	st.LastCheck = now
	st.LastSuccess = now
	st.LastError = nil
	st.Message = message
	st.Failures = 0
}

// SetUnhealthy records a failure for a component.
func (h *Health) SetUnhealthy(component string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	st := h.entry(component)
	st.Healthy = false
	st.LastCheck = h.now()
	st.LastError = err
	st.Message = err.Error()
	st.Failures++
}

// Status returns a copy of a component's status.
func (h *Health) Status(component string) (HealthStatus, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	st, ok := h.components[component]
	if !ok {
		return HealthStatus{}, false
	}
	return *st, true
}

// Statuses returns every component's status sorted by name.
func (h *Health) Statuses() []HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]HealthStatus, 0, len(h.components))
	for _, st := range h.components {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Component < out[j].Component })
	return out
}

// Healthy reports whether every tracked component is healthy. An empty
// tracker is healthy.
func (h *Health) Healthy() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, st := range h.components {
		if !st.Healthy {
			return false
		}
	}
	return true
}
