package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/mocks"
)

func TestFactory_SharedSingletons(t *testing.T) {
	f := NewDefaultFactory()

	assert.Same(t, f.CreateMetricsCollector(), f.CreateMetricsCollector())
	assert.Same(t, f.CreateStreamHub(), f.CreateStreamHub())
	assert.Same(t, f.CreateStateStore(), f.CreateStateStore())
	assert.Same(t, f.CreateZoneStore(), f.CreateZoneStore())
	assert.Same(t, f.CreateHeartbeatTracker(), f.CreateHeartbeatTracker())
}

func TestFactory_ProcessorReuse(t *testing.T) {
	f := NewDefaultFactory()
	notifier := &mocks.MockNotifier{}
	publisher := &mocks.MockStatePublisher{}

	first := f.CreateMessageProcessor(notifier, publisher)
	second := f.CreateMessageProcessor(notifier, publisher)

	assert.Same(t, first, second)
}

func TestFactory_MonitorSharesStoreWithServer(t *testing.T) {
	f := NewDefaultFactory()
	notifier := &mocks.MockNotifier{}

	monitor := f.CreateMonitor(notifier)
	require.NotNil(t, monitor)
	assert.Same(t, monitor, f.CreateMonitor(notifier))

	server := f.CreateUnifiedServer()
	assert.NotNil(t, server)
}

func TestFactory_HistoryStoreDisabledWithoutConfig(t *testing.T) {
	f := NewDefaultFactory()

	store, err := f.CreateHistoryStore(context.Background())
	require.NoError(t, err)
	assert.Nil(t, store)
}
