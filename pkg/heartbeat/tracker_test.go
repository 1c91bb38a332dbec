package heartbeat

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/domain"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
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

func TestTracker_AllVehiclesStartConnected(t *testing.T) {
	t.Parallel()
	tracker := NewTracker(10*time.Second, time.Second, nil)

	for _, id := range domain.MonitoredVehicles {
		assert.True(t, tracker.IsConnected(id), "vehicle %s should start connected", id)
	}
}

func TestTracker_TimeoutMarksDisconnected(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{t: time.Unix(1700000000, 0)}
	tracker := NewTracker(10*time.Second, time.Second, clk.Now)

	clk.Advance(11 * time.Second)

	timedOut := tracker.sweep()
	assert.Len(t, timedOut, 3, "all vehicles should time out")
	for _, id := range domain.MonitoredVehicles {
		assert.False(t, tracker.IsConnected(id))
	}

	// A second sweep reports nothing new.
	assert.Empty(t, tracker.sweep())
}

func TestTracker_TouchRestoresConnection(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{t: time.Unix(1700000000, 0)}
	tracker := NewTracker(10*time.Second, time.Second, clk.Now)

	clk.Advance(11 * time.Second)
	tracker.sweep()
	require.False(t, tracker.IsConnected(domain.VehicleERU))

	reconnected := tracker.Touch(domain.VehicleERU)
	assert.True(t, reconnected, "Touch after outage should report reconnection")
	assert.True(t, tracker.IsConnected(domain.VehicleERU))

	// Touch while healthy does not report a reconnection.
	assert.False(t, tracker.Touch(domain.VehicleERU))
}

func TestTracker_TouchUnknownVehicle(t *testing.T) {
	t.Parallel()
	tracker := NewTracker(0, 0, nil)
	assert.False(t, tracker.Touch("fra"))
	assert.False(t, tracker.IsConnected("fra"))
}

func TestTracker_StatusesCopy(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{t: time.Unix(1700000000, 0)}
	tracker := NewTracker(10*time.Second, time.Second, clk.Now)

	statuses := tracker.Statuses()
	require.Len(t, statuses, 3)

	// Mutating the copy does not affect the tracker.
	s := statuses[domain.VehicleMEA]
	s.Connected = false
	statuses[domain.VehicleMEA] = s
	assert.True(t, tracker.IsConnected(domain.VehicleMEA))
}

func TestTracker_ConsecutiveFailures(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{t: time.Unix(1700000000, 0)}
	tracker := NewTracker(10*time.Second, time.Second, clk.Now)

	clk.Advance(11 * time.Second)
	tracker.sweep()
	tracker.Touch(domain.VehicleMRA)
	clk.Advance(11 * time.Second)
	tracker.sweep()

	statuses := tracker.Statuses()
	assert.Equal(t, 1, statuses[domain.VehicleMRA].ConsecutiveFailures)
}
