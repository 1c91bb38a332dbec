package alerting

import (
	"sync"
	"testing"
	"time"

	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/domain"
)

// fakeClock is a manually advanced clock shared by the dedup tests.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Unix(1700000000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func TestDedupStore_FirstEmitAllowed(t *testing.T) {
	t.Parallel()
	store := NewDedupStore(0, nil)
	key := domain.AlertKey{Vehicle: domain.VehicleERU, Type: domain.AlertGeoFence}

	if !store.ShouldEmit(key) {
		t.Error("Expected first emit to be allowed")
	}
}

func TestDedupStore_DebounceWindow(t *testing.T) {
	t.Parallel()
	clk := newFakeClock()
	store := NewDedupStore(3*time.Second, clk.Now)
	key := domain.AlertKey{Vehicle: domain.VehicleERU, Type: domain.AlertSignalStrength}

	store.RecordEmit(key, clk.Now())
	if store.ShouldEmit(key) {
		t.Error("Expected emit suppressed inside window")
	}

	clk.Advance(2999 * time.Millisecond)
	if store.ShouldEmit(key) {
		t.Error("Expected emit suppressed just under window")
	}

	clk.Advance(1 * time.Millisecond)
	if !store.ShouldEmit(key) {
		t.Error("Expected emit allowed once window elapsed")
	}
}

func TestDedupStore_ClearAbsentKeyIsNoop(t *testing.T) {
	t.Parallel()
	store := NewDedupStore(0, nil)
	key := domain.AlertKey{Vehicle: domain.VehicleMRA, Type: domain.AlertAbnormalStatus}

	store.Clear(key)
	if store.Has(key) {
		t.Error("Expected key absent")
	}
	if store.Len() != 0 {
		t.Errorf("Expected empty store, got %d", store.Len())
	}
}

func TestDedupStore_KeysAndClearAll(t *testing.T) {
	t.Parallel()
	clk := newFakeClock()
	store := NewDedupStore(0, clk.Now)

	keys := []domain.AlertKey{
		{Vehicle: domain.VehicleERU, Type: domain.AlertSignalStrength},
		{Vehicle: domain.VehicleMEA, Type: domain.AlertAbnormalStatus},
		{Vehicle: domain.VehicleMRA, Type: domain.AlertGeoFence},
	}
	for _, k := range keys {
		store.RecordEmit(k, clk.Now())
	}

	if store.Len() != 3 {
		t.Fatalf("Expected 3 keys, got %d", store.Len())
	}
	got := map[domain.AlertKey]bool{}
	for _, k := range store.Keys() {
		got[k] = true
	}
	for _, k := range keys {
		if !got[k] {
			t.Errorf("Missing key %v", k)
		}
	}

	store.ClearAll()
	if store.Len() != 0 {
		t.Errorf("Expected empty store after ClearAll, got %d", store.Len())
	}
}

func TestDedupStore_DefaultWindow(t *testing.T) {
	t.Parallel()
	store := NewDedupStore(0, nil)
	if store.window != domain.DefaultDebounceWindow {
		t.Errorf("Expected default window %v, got %v", domain.DefaultDebounceWindow, store.window)
	}
}
