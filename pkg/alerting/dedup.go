package alerting

import (
	"sync"
	"time"

	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/domain"
)

// DedupStore maps alert keys to their last-emit timestamp. A key's presence
// means the alert is currently active and was last pushed to the notification
// channel at that time. The store is owned by one monitor instance; it is not
// shared process state.
type DedupStore struct {
	mu       sync.Mutex
	window   time.Duration
	lastEmit map[domain.AlertKey]time.Time
	now      func() time.Time
}

func NewDedupStore(window time.Duration, now func() time.Time) *DedupStore {
	if window <= 0 {
		window = domain.DefaultDebounceWindow
	}
	if now == nil {
		now = time.Now
	}
	return &DedupStore{
		window:   window,
		lastEmit: make(map[domain.AlertKey]time.Time),
		now:      now,
	}
}

// ShouldEmit reports whether the key has no recorded emit, or the debounce
// window has elapsed since the last one. Callers must follow a true result
// with RecordEmit, otherwise every evaluation tick re-debounces.
func (s *DedupStore) ShouldEmit(key domain.AlertKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	last, ok := s.lastEmit[key]
	if !ok {
		return true
	}
	return s.now().Sub(last) >= s.window
}

func (s *DedupStore) RecordEmit(key domain.AlertKey, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastEmit[key] = at
}

func (s *DedupStore) Has(key domain.AlertKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.lastEmit[key]
	return ok
}

// Clear removes the key. Clearing an absent key is a no-op.
func (s *DedupStore) Clear(key domain.AlertKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lastEmit, key)
}

func (s *DedupStore) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastEmit = make(map[domain.AlertKey]time.Time)
}

// Keys returns the active alert keys in unspecified order.
func (s *DedupStore) Keys() []domain.AlertKey {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]domain.AlertKey, 0, len(s.lastEmit))
	for k := range s.lastEmit {
		keys = append(keys, k)
	}
	return keys
}

func (s *DedupStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lastEmit)
}
