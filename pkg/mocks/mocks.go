package mocks

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/domain"
)

// MockNotifier records published notifications and dismissals.
type MockNotifier struct {
	mu            sync.Mutex
	Notifications []domain.Notification
	Dismissed     []string
	DismissAlls   int
	NotifyErr     error
	DismissErr    error
}

func (m *MockNotifier) Notify(_ context.Context, n domain.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.NotifyErr != nil {
		return m.NotifyErr
	}
	m.Notifications = append(m.Notifications, n)
	return nil
}

func (m *MockNotifier) Dismiss(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DismissErr != nil {
		return m.DismissErr
	}
	m.Dismissed = append(m.Dismissed, id)
	return nil
}

func (m *MockNotifier) DismissAll(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DismissAlls++
	return nil
}

// NotificationsByID returns the publishes recorded for one notification id.
func (m *MockNotifier) NotificationsByID(id string) []domain.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Notification
	for _, n := range m.Notifications {
		if n.ID == id {
			out = append(out, n)
		}
	}
	return out
}

type MockMetricsCollector struct {
	mu             sync.Mutex
	TelemetryCount int
	Emitted        []domain.AlertKey
	Suppressed     []domain.AlertKey
	Cleared        []domain.AlertKey
	ActiveAlerts   int
	Connected      map[domain.VehicleID]bool
	Registry       *prometheus.Registry
}

func (m *MockMetricsCollector) CollectTelemetry(_ domain.TelemetryRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TelemetryCount++
}

func (m *MockMetricsCollector) AlertEmitted(v domain.VehicleID, t domain.AlertType, _ domain.Severity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Emitted = append(m.Emitted, domain.AlertKey{Vehicle: v, Type: t})
}

func (m *MockMetricsCollector) AlertSuppressed(v domain.VehicleID, t domain.AlertType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Suppressed = append(m.Suppressed, domain.AlertKey{Vehicle: v, Type: t})
}

func (m *MockMetricsCollector) AlertCleared(v domain.VehicleID, t domain.AlertType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Cleared = append(m.Cleared, domain.AlertKey{Vehicle: v, Type: t})
}

func (m *MockMetricsCollector) SetActiveAlerts(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ActiveAlerts = n
}

func (m *MockMetricsCollector) SetVehicleConnected(v domain.VehicleID, connected bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Connected == nil {
		m.Connected = make(map[domain.VehicleID]bool)
	}
	m.Connected[v] = connected
}

func (m *MockMetricsCollector) GetRegistry() *prometheus.Registry {
	if m.Registry == nil {
		m.Registry = prometheus.NewRegistry()
	}
	return m.Registry
}

type MockMessageProcessor struct {
	ProcessMessageCalled bool
	LastTopic            string
	LastPayload          []byte
	Err                  error
}

func (m *MockMessageProcessor) ProcessMessage(_ context.Context, topic string, payload []byte) error {
	m.ProcessMessageCalled = true
	m.LastTopic = topic
	m.LastPayload = payload
	return m.Err
}

// MockStatePublisher captures republished snapshots.
type MockStatePublisher struct {
	mu        sync.Mutex
	Published []*domain.TelemetrySnapshot
	Err       error
}

func (m *MockStatePublisher) PublishState(_ context.Context, snap *domain.TelemetrySnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Published = append(m.Published, snap)
	return nil
}

func (m *MockStatePublisher) PublishedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Published)
}

// MockHistoryStore records inserts without a database.
type MockHistoryStore struct {
	mu       sync.Mutex
	Inserted []domain.TelemetryRecord
	Zones    []domain.ZonePolygon
	Err      error
}

func (m *MockHistoryStore) InsertTelemetry(_ context.Context, rec domain.TelemetryRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Inserted = append(m.Inserted, rec)
	return nil
}

func (m *MockHistoryStore) ReplaceZones(_ context.Context, zones []domain.ZonePolygon) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Zones = zones
	return nil
}

func (m *MockHistoryStore) LoadZones(_ context.Context) ([]domain.ZonePolygon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Zones, m.Err
}

func (m *MockHistoryStore) Close() {}

// InsertedCount is safe to call while the store is written concurrently.
func (m *MockHistoryStore) InsertedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Inserted)
}
