package heartbeat

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/domain"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/logger"
)

// Status is one vehicle's heartbeat state.
type Status struct {
	LastSeen            time.Time
	Connected           bool
	ConsecutiveFailures int
}

// Tracker watches per-vehicle telemetry heartbeats. A vehicle that stays
// silent longer than the timeout is reported through the Run callback once
// per outage; the next record restores it.
type Tracker struct {
	mu       sync.Mutex
	entries  map[domain.VehicleID]*Status
	timeout  time.Duration
	interval time.Duration
	now      func() time.Time
	logger   zerolog.Logger
}

func NewTracker(timeout, interval time.Duration, now func() time.Time) *Tracker {
	if timeout <= 0 {
		timeout = domain.DefaultHeartbeatTimeout
	}
	if interval <= 0 {
		interval = domain.DefaultHeartbeatInterval
	}
	if now == nil {
		now = time.Now
	}

	entries := make(map[domain.VehicleID]*Status, len(domain.MonitoredVehicles))
	for _, id := range domain.MonitoredVehicles {
		entries[id] = &Status{LastSeen: now(), Connected: true}
	}

	return &Tracker{
		entries:  entries,
		timeout:  timeout,
		interval: interval,
		now:      now,
		logger:   logger.ComponentLogger("heartbeat"),
	}
}

// Touch records a heartbeat. It returns true when the vehicle was previously
// marked disconnected, so callers can restore its status.
func (t *Tracker) Touch(id domain.VehicleID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[id]
	if !ok {
		return false
	}

	wasDisconnected := !e.Connected
	e.LastSeen = t.now()
	e.Connected = true
	e.ConsecutiveFailures = 0

	if wasDisconnected {
		t.logger.Info().Str("vehicle", string(id)).Msg("vehicle reconnected")
	}
	return wasDisconnected
}

// IsConnected reports whether the vehicle is marked connected and its last
// heartbeat is within the timeout.
func (t *Tracker) IsConnected(id domain.VehicleID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[id]
	if !ok {
		return false
	}
	return e.Connected && t.now().Sub(e.LastSeen) <= t.timeout
}

// Statuses returns a copy of the current heartbeat state for all vehicles.
func (t *Tracker) Statuses() map[domain.VehicleID]Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[domain.VehicleID]Status, len(t.entries))
	for id, e := range t.entries {
		out[id] = *e
	}
	return out
}

// sweep marks timed-out vehicles disconnected and returns them.
func (t *Tracker) sweep() []domain.VehicleID {
	t.mu.Lock()
	defer t.mu.Unlock()

	var timedOut []domain.VehicleID
	for id, e := range t.entries {
		if e.Connected && t.now().Sub(e.LastSeen) > t.timeout {
			e.Connected = false
			e.ConsecutiveFailures++
			timedOut = append(timedOut, id)
			t.logger.Warn().
				Str("vehicle", string(id)).
				Dur("timeout", t.timeout).
				Msg("heartbeat timeout, vehicle marked disconnected")
		}
	}
	return timedOut
}

// Run checks for timeouts on the configured interval until the context is
// cancelled, invoking onTimeout for each vehicle that newly timed out.
func (t *Tracker) Run(ctx context.Context, onTimeout func(domain.VehicleID)) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, id := range t.sweep() {
				if onTimeout != nil {
					onTimeout(id)
				}
			}
		}
	}
}
