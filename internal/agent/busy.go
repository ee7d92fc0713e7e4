package agent

import "sync"

// BusyTracker records which agents have an invocation in flight. It is the
// only ordering signal surfaced to the user; it does not prevent concurrent
// invocations of different agents.
type BusyTracker struct {
	mu     sync.Mutex
	active map[string]int
}

// NewBusyTracker creates an empty tracker.
func NewBusyTracker() *BusyTracker {
	return &BusyTracker{active: make(map[string]int)}
}

// Mark flags agentID as busy and returns a release function. The release
// function is safe to call exactly once, typically via defer, so the busy
// indicator clears regardless of how the invocation ends.
func (b *BusyTracker) Mark(agentID string) func() {
	if agentID == "" {
		return func() {}
	}
	b.mu.Lock()
	b.active[agentID]++
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			b.active[agentID]--
			if b.active[agentID] <= 0 {
				delete(b.active, agentID)
			}
		})
	}
}

// IsBusy reports whether agentID has an invocation in flight.
func (b *BusyTracker) IsBusy(agentID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active[agentID] > 0
}

// Active returns the ids of all busy agents.
func (b *BusyTracker) Active() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]string, 0, len(b.active))
	for id := range b.active {
		ids = append(ids, id)
	}
	return ids
}
