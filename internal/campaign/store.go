package campaign

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"adcopy/internal/logging"
	"adcopy/internal/store"
)

// Storage keys. The session key is never swapped by demo mode so that a live
// campaign survives a demo round trip untouched.
const (
	keyApproved   = "adcopy_approved"
	keyActivities = "adcopy_activities"
	keySession    = "adcopy_session"
)

// Store holds the approved copy collection and the activity feed, persisting
// both through a store.KV backend. All mutations replace the slice they touch
// so snapshots handed to callers stay stable.
type Store struct {
	mu sync.RWMutex
	kv store.KV

	copies     []ApprovedCopy
	activities []ActivityItem

	demo           bool
	liveCopies     []ApprovedCopy
	liveActivities []ActivityItem
}

// NewStore hydrates a store from the backend. Missing keys start empty;
// corrupt payloads are logged and treated as empty rather than failing boot.
func NewStore(kv store.KV) *Store {
	s := &Store{kv: kv}
	s.copies = loadSlice[ApprovedCopy](kv, keyApproved)
	s.activities = loadSlice[ActivityItem](kv, keyActivities)
	logging.Store("Hydrated store: %d copies, %d activities", len(s.copies), len(s.activities))
	return s
}

func loadSlice[T any](kv store.KV, key string) []T {
	data, err := kv.Load(key)
	if err != nil {
		logging.Store("WARN: load %s failed: %v", key, err)
		return nil
	}
	if len(data) == 0 {
		return nil
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		logging.Store("WARN: corrupt payload under %s, starting empty: %v", key, err)
		return nil
	}
	return out
}

// persist writes one collection back. Demo mode never persists, and write
// failures are logged but do not surface to the caller.
func (s *Store) persist(key string, v interface{}) {
	if s.demo {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		logging.Store("WARN: marshal %s failed: %v", key, err)
		return
	}
	if err := s.kv.Save(key, data); err != nil {
		logging.Store("WARN: save %s failed: %v", key, err)
	}
}

// Copies returns a snapshot of the approved copy collection.
func (s *Store) Copies() []ApprovedCopy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ApprovedCopy, len(s.copies))
	copy(out, s.copies)
	return out
}

// CopiesByStatus returns the copies currently in the given lifecycle stage.
func (s *Store) CopiesByStatus(status CopyStatus) []ApprovedCopy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []ApprovedCopy
	for _, c := range s.copies {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out
}

// Activities returns a snapshot of the activity feed, newest first.
func (s *Store) Activities() []ActivityItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ActivityItem, len(s.activities))
	copy(out, s.activities)
	return out
}

// Copy returns the approved copy with the given ID.
func (s *Store) Copy(id string) (ApprovedCopy, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.copies {
		if c.ID == id {
			return c, true
		}
	}
	return ApprovedCopy{}, false
}

// AddApproved appends a copy to the collection.
func (s *Store) AddApproved(c ApprovedCopy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]ApprovedCopy, 0, len(s.copies)+1)
	next = append(next, s.copies...)
	next = append(next, c)
	s.copies = next
	s.persist(keyApproved, s.copies)
	logging.StoreDebug("Added copy %s (%s)", c.ID, c.Platform)
}

// RemoveCopy deletes a copy by ID. Removal is silent: no activity is
// recorded for it. Returns false when the ID is unknown.
func (s *Store) RemoveCopy(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]ApprovedCopy, 0, len(s.copies))
	found := false
	for _, c := range s.copies {
		if c.ID == id {
			found = true
			continue
		}
		next = append(next, c)
	}
	if !found {
		return false
	}
	s.copies = next
	s.persist(keyApproved, s.copies)
	logging.StoreDebug("Removed copy %s", id)
	return true
}

// Schedule moves an approved copy to scheduled at the given time. Only copies
// still in the approved stage can be scheduled, and the time is set once.
func (s *Store) Schedule(id string, at time.Time) (ApprovedCopy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]ApprovedCopy, len(s.copies))
	copy(next, s.copies)
	for i, c := range next {
		if c.ID != id {
			continue
		}
		if c.Status != StatusApproved {
			return ApprovedCopy{}, fmt.Errorf("copy %s is %s, only approved copies can be scheduled", id, c.Status)
		}
		t := at
		c.Status = StatusScheduled
		c.ScheduledFor = &t
		next[i] = c
		s.copies = next
		s.persist(keyApproved, s.copies)
		logging.StoreDebug("Scheduled copy %s for %s", id, at.Format(time.RFC3339))
		return c, nil
	}
	return ApprovedCopy{}, fmt.Errorf("copy %s not found", id)
}

// MarkPublished moves a copy to published, recording the post URL, the
// destination platform, and the publish time. Already-published copies are
// immutable.
func (s *Store) MarkPublished(id, postURL, platform string, at time.Time) (ApprovedCopy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]ApprovedCopy, len(s.copies))
	copy(next, s.copies)
	for i, c := range next {
		if c.ID != id {
			continue
		}
		if c.Status == StatusPublished {
			return ApprovedCopy{}, fmt.Errorf("copy %s is already published", id)
		}
		t := at
		c.Status = StatusPublished
		c.PublishedAt = &t
		c.PostURL = postURL
		c.PublishedPlatform = platform
		next[i] = c
		s.copies = next
		s.persist(keyApproved, s.copies)
		logging.StoreDebug("Published copy %s to %s", id, platform)
		return c, nil
	}
	return ApprovedCopy{}, fmt.Errorf("copy %s not found", id)
}

// AppendActivity prepends an entry so the feed reads newest first.
func (s *Store) AppendActivity(item ActivityItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]ActivityItem, 0, len(s.activities)+1)
	next = append(next, item)
	next = append(next, s.activities...)
	s.activities = next
	s.persist(keyActivities, s.activities)
}

// Summary reports counts per lifecycle stage plus the total.
func (s *Store) Summary() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := map[string]int{
		"total":                 len(s.copies),
		string(StatusApproved):  0,
		string(StatusScheduled): 0,
		string(StatusPublished): 0,
	}
	for _, c := range s.copies {
		out[string(c.Status)]++
	}
	return out
}

// DemoActive reports whether fixture data is currently presented.
func (s *Store) DemoActive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.demo
}

// EnableDemo swaps the live collections for fixture data. The live data is
// retained in memory and nothing is written while demo mode is active.
func (s *Store) EnableDemo(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.demo {
		return
	}
	s.liveCopies = s.copies
	s.liveActivities = s.activities
	s.copies = SampleApproved(now)
	s.activities = SampleActivities(now)
	s.demo = true
	logging.Store("Demo mode enabled")
}

// DisableDemo restores the live collections, rehydrating from the backend so
// the view reflects exactly what was last persisted.
func (s *Store) DisableDemo() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.demo {
		return
	}
	s.demo = false
	s.copies = loadSlice[ApprovedCopy](s.kv, keyApproved)
	s.activities = loadSlice[ActivityItem](s.kv, keyActivities)
	if s.copies == nil {
		s.copies = s.liveCopies
	}
	if s.activities == nil {
		s.activities = s.liveActivities
	}
	s.liveCopies = nil
	s.liveActivities = nil
	logging.Store("Demo mode disabled")
}

// SaveSession persists the generation session. Suppressed in demo mode.
func (s *Store) SaveSession(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.demo {
		return
	}
	data, err := json.Marshal(sess)
	if err != nil {
		logging.Store("WARN: marshal session failed: %v", err)
		return
	}
	if err := s.kv.Save(keySession, data); err != nil {
		logging.Store("WARN: save session failed: %v", err)
	}
}

// LoadSession restores the persisted generation session, or returns a fresh
// one when nothing is stored or the payload is corrupt.
func (s *Store) LoadSession() *Session {
	data, err := s.kv.Load(keySession)
	if err != nil || len(data) == 0 {
		return NewSession()
	}
	sess := NewSession()
	if err := json.Unmarshal(data, sess); err != nil {
		logging.Store("WARN: corrupt session payload, starting fresh: %v", err)
		return NewSession()
	}
	if sess.Approvals == nil {
		sess.Approvals = map[int]string{}
	}
	return sess
}

// ClearSession drops the persisted session. Suppressed in demo mode.
func (s *Store) ClearSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.demo {
		return
	}
	if err := s.kv.Delete(keySession); err != nil {
		logging.Store("WARN: clear session failed: %v", err)
	}
}

// Platforms returns the distinct platforms present in the collection, sorted.
func (s *Store) Platforms() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := map[string]bool{}
	for _, c := range s.copies {
		seen[c.Platform] = true
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
