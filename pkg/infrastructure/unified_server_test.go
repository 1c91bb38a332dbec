package infrastructure

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/domain"
)

type stubAlertService struct {
	active  []domain.AlertKey
	cleared bool
}

func (s *stubAlertService) ActiveAlerts() []domain.AlertKey { return s.active }
func (s *stubAlertService) ClearAllAlerts(context.Context)  { s.cleared = true }

func newTestServer(alerts AlertService) *UnifiedServer {
	config := UnifiedServerConfig{
		Addr:         "localhost:0",
		EnableHealth: true,
	}
	return NewUnifiedServer(config, NewPrometheusCollector("test"), alerts, nil)
}

func TestUnifiedServer_HealthHandler(t *testing.T) {
	server := newTestServer(&stubAlertService{})

	req := httptest.NewRequest(http.MethodGet, domain.DefaultHealthPath, nil)
	rec := httptest.NewRecorder()

	server.healthHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.Contains(t, rec.Body.String(), "gcs-telemetry-monitor")
}

func TestUnifiedServer_AlertsList(t *testing.T) {
	alerts := &stubAlertService{active: []domain.AlertKey{
		{Vehicle: domain.VehicleERU, Type: domain.AlertGeoFence},
		{Vehicle: domain.VehicleMEA, Type: domain.AlertAbnormalStatus},
	}}
	server := newTestServer(alerts)

	req := httptest.NewRequest(http.MethodGet, domain.DefaultAlertsPath, nil)
	rec := httptest.NewRecorder()

	server.alertsHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var items []activeAlertItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "eru-geo_fence", items[0].ID)
	assert.Equal(t, "eru", items[0].Vehicle)
	assert.Equal(t, "geo_fence", items[0].Type)
	assert.Equal(t, "mea-abnormal_status", items[1].ID)
}

func TestUnifiedServer_AlertsListEmpty(t *testing.T) {
	server := newTestServer(&stubAlertService{})

	req := httptest.NewRequest(http.MethodGet, domain.DefaultAlertsPath, nil)
	rec := httptest.NewRecorder()

	server.alertsHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestUnifiedServer_AlertsClearAll(t *testing.T) {
	alerts := &stubAlertService{active: []domain.AlertKey{{Vehicle: domain.VehicleMRA, Type: domain.AlertHeartbeatTimeout}}}
	server := newTestServer(alerts)

	req := httptest.NewRequest(http.MethodDelete, domain.DefaultAlertsPath, nil)
	rec := httptest.NewRecorder()

	server.alertsHandler(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, alerts.cleared)
}

func TestUnifiedServer_AlertsMethodNotAllowed(t *testing.T) {
	server := newTestServer(&stubAlertService{})

	req := httptest.NewRequest(http.MethodPost, domain.DefaultAlertsPath, nil)
	rec := httptest.NewRecorder()

	server.alertsHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
