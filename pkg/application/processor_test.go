package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/alerting"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/domain"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/geo"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/heartbeat"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/mocks"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/state"
)

type processorFixture struct {
	processor *TelemetryProcessor
	states    *state.Store
	zones     *geo.ZoneStore
	notifier  *mocks.MockNotifier
	metrics   *mocks.MockMetricsCollector
	history   *mocks.MockHistoryStore
	publisher *mocks.MockStatePublisher
}

func newFixture() *processorFixture {
	notifier := &mocks.MockNotifier{}
	metrics := &mocks.MockMetricsCollector{}
	history := &mocks.MockHistoryStore{}
	publisher := &mocks.MockStatePublisher{}
	states := state.NewStore()
	zones := geo.NewZoneStore()

	deps := ProcessorDeps{
		States:     states,
		Zones:      zones,
		Heartbeats: heartbeat.NewTracker(10*time.Second, time.Second, nil),
		Monitor:    alerting.NewMonitor(notifier, metrics, alerting.Options{}),
		Metrics:    metrics,
		History:    history,
		Publisher:  publisher,
	}

	return &processorFixture{
		processor: NewTelemetryProcessor(deps, 0, 0),
		states:    states,
		zones:     zones,
		notifier:  notifier,
		metrics:   metrics,
		history:   history,
		publisher: publisher,
	}
}

func TestProcessMessage_HealthyTelemetry(t *testing.T) {
	t.Parallel()
	f := newFixture()

	payload := `{"vehicle_id":"eru","signal_strength":-50,"vehicle_status":"Connected","battery_life":80,
		"current_position":{"latitude":34.05,"longitude":-118.24}}`
	err := f.processor.ProcessMessage(context.Background(), "gcs/telemetry/eru", []byte(payload))
	require.NoError(t, err)

	snap := f.states.Snapshot()
	require.NotNil(t, snap)
	require.NotNil(t, snap.ERU)
	assert.Equal(t, domain.StatusConnected, snap.ERU.VehicleStatus)
	assert.False(t, snap.ERU.Timestamp.IsZero())

	assert.Equal(t, 1, f.metrics.TelemetryCount)
	assert.Equal(t, 1, f.history.InsertedCount())
	assert.Equal(t, 1, f.publisher.PublishedCount())
	assert.Empty(t, f.notifier.Notifications)
}

func TestProcessMessage_WeakSignalForcesBadConnection(t *testing.T) {
	t.Parallel()
	f := newFixture()

	payload := `{"vehicle_id":"mea","signal_strength":-85,"vehicle_status":"Connected","battery_life":80}`
	err := f.processor.ProcessMessage(context.Background(), "gcs/telemetry/mea", []byte(payload))
	require.NoError(t, err)

	assert.Equal(t, domain.StatusBadConnection, f.states.Status(domain.VehicleMEA))

	// The monitoring pass raised the shared signal_strength alert.
	require.Len(t, f.notifier.Notifications, 1)
	assert.Equal(t, "mea-signal_strength", f.notifier.Notifications[0].ID)
}

func TestProcessMessage_KeepOutZoneOverridesStatus(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.zones.Replace([]domain.ZonePolygon{
		{VehicleID: "eru", Polygon: [][2]float64{{34.05, -118.24}, {34.06, -118.24}, {34.06, -118.23}}},
	})

	payload := `{"vehicle_id":"eru","signal_strength":-50,"vehicle_status":"Connected","battery_life":80,
		"current_position":{"latitude":34.05,"longitude":-118.24}}`
	err := f.processor.ProcessMessage(context.Background(), "gcs/telemetry/eru", []byte(payload))
	require.NoError(t, err)

	assert.Equal(t, domain.StatusNearKeepOut, f.states.Status(domain.VehicleERU))

	var ids []string
	for _, n := range f.notifier.Notifications {
		ids = append(ids, n.ID)
	}
	assert.Contains(t, ids, "eru-geo_fence")
}

func TestProcessMessage_EmptyStatusBecomesConnected(t *testing.T) {
	t.Parallel()
	f := newFixture()

	payload := `{"vehicle_id":"mra","signal_strength":-40,"battery_life":70}`
	err := f.processor.ProcessMessage(context.Background(), "gcs/telemetry/mra", []byte(payload))
	require.NoError(t, err)

	assert.Equal(t, domain.StatusConnected, f.states.Status(domain.VehicleMRA))
}

func TestProcessMessage_RejectsUnknownVehicleTopic(t *testing.T) {
	t.Parallel()
	f := newFixture()

	err := f.processor.ProcessMessage(context.Background(), "gcs/telemetry/fra", []byte(`{"vehicle_id":"fra"}`))
	assert.Error(t, err)
	assert.Nil(t, f.states.Snapshot())
}

func TestProcessMessage_RejectsVehicleMismatch(t *testing.T) {
	t.Parallel()
	f := newFixture()

	err := f.processor.ProcessMessage(context.Background(), "gcs/telemetry/eru", []byte(`{"vehicle_id":"mea"}`))
	assert.Error(t, err)
}

func TestProcessMessage_RejectsMalformedPayload(t *testing.T) {
	t.Parallel()
	f := newFixture()

	err := f.processor.ProcessMessage(context.Background(), "gcs/telemetry/eru", []byte(`not json`))
	assert.Error(t, err)
	assert.Equal(t, 0, f.metrics.TelemetryCount)
}

func TestProcessMessage_IgnoresForeignTopics(t *testing.T) {
	t.Parallel()
	f := newFixture()

	err := f.processor.ProcessMessage(context.Background(), "gcs/alerts/events", []byte(`{}`))
	assert.NoError(t, err)
	assert.Nil(t, f.states.Snapshot())
}

func TestProcessMessage_ZoneUpdate(t *testing.T) {
	t.Parallel()
	f := newFixture()

	payload := `[{"vehicle_id":"eru","polygon":[[34.05,-118.24],[34.06,-118.24],[34.06,-118.23]]}]`
	err := f.processor.ProcessMessage(context.Background(), domain.TopicZonesUpdate, []byte(payload))
	require.NoError(t, err)

	assert.True(t, f.zones.NearKeepOut(domain.VehicleERU,
		domain.Position{Latitude: 34.05, Longitude: -118.24}, 100))
	assert.Len(t, f.history.Zones, 1)
}

func TestProcessMessage_ZoneUpdateMalformed(t *testing.T) {
	t.Parallel()
	f := newFixture()

	err := f.processor.ProcessMessage(context.Background(), domain.TopicZonesUpdate, []byte(`{"nope":1}`))
	assert.Error(t, err)
}

func TestOnHeartbeatTimeout(t *testing.T) {
	t.Parallel()
	f := newFixture()

	// Before any record, a timeout is a no-op.
	f.processor.OnHeartbeatTimeout(domain.VehicleERU)
	assert.Empty(t, f.notifier.Notifications)

	payload := `{"vehicle_id":"eru","signal_strength":-50,"vehicle_status":"Connected","battery_life":80}`
	require.NoError(t, f.processor.ProcessMessage(context.Background(), "gcs/telemetry/eru", []byte(payload)))

	f.processor.OnHeartbeatTimeout(domain.VehicleERU)

	assert.Equal(t, domain.StatusDisconnected, f.states.Status(domain.VehicleERU))
	var ids []string
	for _, n := range f.notifier.Notifications {
		ids = append(ids, n.ID)
	}
	assert.Contains(t, ids, "eru-heartbeat_timeout")
	assert.False(t, f.metrics.Connected[domain.VehicleERU])
}

func TestProcessMessage_HistoryFailureDoesNotBlockAlerting(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.history.Err = assert.AnError

	payload := `{"vehicle_id":"eru","signal_strength":-50,"vehicle_status":"Connected","battery_life":5}`
	err := f.processor.ProcessMessage(context.Background(), "gcs/telemetry/eru", []byte(payload))
	require.NoError(t, err)

	// Low battery alert still fires despite the failed insert.
	require.Len(t, f.notifier.Notifications, 1)
	assert.Equal(t, "eru-abnormal_status", f.notifier.Notifications[0].ID)
}
