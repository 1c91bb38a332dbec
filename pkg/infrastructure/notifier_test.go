package infrastructure

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/domain"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/mocks"
)

func TestMQTTNotifier_NilServerIsNoOp(t *testing.T) {
	n := NewMQTTNotifier(nil)

	ctx := context.Background()
	require.NoError(t, n.Notify(ctx, domain.Notification{ID: "eru-geo_fence", Type: domain.SeverityWarning}))
	require.NoError(t, n.Dismiss(ctx, "eru-geo_fence"))
	require.NoError(t, n.DismissAll(ctx))
	require.NoError(t, n.PublishState(ctx, &domain.TelemetrySnapshot{}))
}

func TestMQTTNotifier_NilSnapshotSkipped(t *testing.T) {
	n := NewMQTTNotifier(nil)

	assert.NoError(t, n.PublishState(context.Background(), nil))
}

func TestStandaloneMQTTNotifier_DisconnectedClient(t *testing.T) {
	n := NewStandaloneMQTTNotifier(nil)

	err := n.Notify(context.Background(), domain.Notification{ID: "mea-abnormal_status"})
	assert.Error(t, err)
}

func TestFanoutNotifier_DeliversToAllTargets(t *testing.T) {
	first := &mocks.MockNotifier{}
	second := &mocks.MockNotifier{}
	fanout := NewFanoutNotifier(first, second)

	ctx := context.Background()
	require.NoError(t, fanout.Notify(ctx, domain.Notification{ID: "eru-signal_strength"}))
	require.NoError(t, fanout.Dismiss(ctx, "eru-signal_strength"))
	require.NoError(t, fanout.DismissAll(ctx))

	assert.Len(t, first.Notifications, 1)
	assert.Len(t, second.Notifications, 1)
	assert.Equal(t, []string{"eru-signal_strength"}, first.Dismissed)
	assert.Equal(t, []string{"eru-signal_strength"}, second.Dismissed)
	assert.Equal(t, 1, first.DismissAlls)
	assert.Equal(t, 1, second.DismissAlls)
}

func TestFanoutNotifier_FirstErrorReturnedAfterAllAttempted(t *testing.T) {
	failing := &mocks.MockNotifier{NotifyErr: assert.AnError}
	healthy := &mocks.MockNotifier{}
	fanout := NewFanoutNotifier(failing, healthy)

	err := fanout.Notify(context.Background(), domain.Notification{ID: "mra-heartbeat_timeout"})

	assert.ErrorIs(t, err, assert.AnError)
	assert.Len(t, healthy.Notifications, 1)
}

func TestFanoutStatePublisher_MirrorsSnapshot(t *testing.T) {
	first := &mocks.MockStatePublisher{}
	second := &mocks.MockStatePublisher{}
	fanout := NewFanoutStatePublisher(first, second)

	snap := &domain.TelemetrySnapshot{ERU: &domain.TelemetryRecord{VehicleID: domain.VehicleERU}}
	require.NoError(t, fanout.PublishState(context.Background(), snap))

	assert.Equal(t, 1, first.PublishedCount())
	assert.Equal(t, 1, second.PublishedCount())
}
