package application

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/alerting"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/domain"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/errors"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/geo"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/heartbeat"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/logger"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/state"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/validator"
)

// TelemetryProcessor turns inbound MQTT messages into state updates and
// alert evaluation passes. One processor instance serves both broker modes.
type TelemetryProcessor struct {
	states     *state.Store
	zones      *geo.ZoneStore
	heartbeats *heartbeat.Tracker
	monitor    *alerting.Monitor
	metrics    domain.MetricsCollector
	history    domain.HistoryStore
	publisher  domain.StatePublisher

	signalFloor    float64
	zoneRadiusFeet float64

	logger zerolog.Logger
}

type ProcessorDeps struct {
	States     *state.Store
	Zones      *geo.ZoneStore
	Heartbeats *heartbeat.Tracker
	Monitor    *alerting.Monitor
	Metrics    domain.MetricsCollector
	History    domain.HistoryStore
	Publisher  domain.StatePublisher
}

func NewTelemetryProcessor(deps ProcessorDeps, signalFloor, zoneRadiusFeet float64) *TelemetryProcessor {
	if signalFloor == 0 {
		signalFloor = domain.DefaultSignalFloorDBm
	}
	if zoneRadiusFeet == 0 {
		zoneRadiusFeet = domain.DefaultZoneRadiusFeet
	}

	return &TelemetryProcessor{
		states:         deps.States,
		zones:          deps.Zones,
		heartbeats:     deps.Heartbeats,
		monitor:        deps.Monitor,
		metrics:        deps.Metrics,
		history:        deps.History,
		publisher:      deps.Publisher,
		signalFloor:    signalFloor,
		zoneRadiusFeet: zoneRadiusFeet,
		logger:         logger.ComponentLogger("telemetry-processor"),
	}
}

func (p *TelemetryProcessor) ProcessMessage(ctx context.Context, topic string, payload []byte) error {
	if err := validator.ValidateTopicName(topic); err != nil {
		return errors.NewValidationError("invalid topic", err)
	}

	switch {
	case topic == domain.TopicZonesUpdate:
		return p.processZoneUpdate(ctx, payload)
	case strings.HasPrefix(topic, domain.TopicTelemetryPrefix):
		return p.processTelemetry(ctx, topic, payload)
	default:
		// Other traffic on the broker is not ours.
		p.logger.Debug().Str("topic", topic).Msg("ignoring message")
		return nil
	}
}

func (p *TelemetryProcessor) processTelemetry(ctx context.Context, topic string, payload []byte) error {
	vehicle, err := validator.VehicleFromTopic(topic)
	if err != nil {
		p.logger.Warn().Err(err).Str("topic", topic).Msg("dropping message")
		return errors.NewValidationError("invalid telemetry topic", err)
	}

	if err := validator.ValidateTelemetryPayload(payload); err != nil {
		p.logger.Warn().Err(err).Str("topic", topic).Msg("invalid payload")
		return errors.NewValidationError("invalid payload", err)
	}

	var rec domain.TelemetryRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return errors.NewProcessingError("json parsing failed", err)
	}

	rec.VehicleID = domain.VehicleID(strings.ToLower(string(rec.VehicleID)))
	if rec.VehicleID != vehicle {
		p.logger.Warn().
			Str("topic_vehicle", string(vehicle)).
			Str("payload_vehicle", string(rec.VehicleID)).
			Msg("vehicle id mismatch")
		return errors.NewValidationError("vehicle id does not match topic", nil)
	}

	reconnected := p.heartbeats.Touch(vehicle)
	p.deriveStatus(&rec, reconnected)
	rec.Timestamp = time.Now()

	p.states.Update(rec)
	if p.metrics != nil {
		p.metrics.CollectTelemetry(rec)
		p.metrics.SetVehicleConnected(vehicle, true)
	}

	p.insertHistory(rec)
	p.publishState(ctx)

	p.monitor.CheckAlerts(ctx, p.states.Snapshot())
	return nil
}

// deriveStatus applies the processing-side status overrides in precedence
// order: weak signal, then keep-out proximity, then heartbeat recovery.
func (p *TelemetryProcessor) deriveStatus(rec *domain.TelemetryRecord, reconnected bool) {
	if rec.SignalStrength < p.signalFloor {
		rec.VehicleStatus = domain.StatusBadConnection
	}

	if rec.Position != nil && p.zones.NearKeepOut(rec.VehicleID, *rec.Position, p.zoneRadiusFeet) {
		rec.VehicleStatus = domain.StatusNearKeepOut
	}

	if rec.VehicleStatus == "" || rec.VehicleStatus == domain.StatusDisconnected {
		if reconnected || p.heartbeats.IsConnected(rec.VehicleID) {
			rec.VehicleStatus = domain.StatusConnected
		}
	}
}

func (p *TelemetryProcessor) processZoneUpdate(ctx context.Context, payload []byte) error {
	var updates []domain.ZonePolygon
	if err := json.Unmarshal(payload, &updates); err != nil {
		return errors.NewProcessingError("invalid zone update", err)
	}

	p.zones.Replace(updates)
	p.logger.Info().Int("polygons", len(updates)).Msg("zone update applied")

	if p.history != nil {
		dbCtx, cancel := context.WithTimeout(ctx, domain.DBInsertTimeout)
		defer cancel()
		if err := p.history.ReplaceZones(dbCtx, p.zones.Snapshot()); err != nil {
			p.logger.Error().Err(err).Msg("failed to persist zones")
		}
	}
	return nil
}

// OnHeartbeatTimeout marks the vehicle disconnected in the live state and
// runs an evaluation pass, so the heartbeat_timeout alert fires even with no
// further telemetry arriving.
func (p *TelemetryProcessor) OnHeartbeatTimeout(vehicle domain.VehicleID) {
	ctx, cancel := context.WithTimeout(context.Background(), domain.DefaultTimeout)
	defer cancel()

	if !p.states.SetStatus(vehicle, domain.StatusDisconnected) {
		p.logger.Debug().Str("vehicle", string(vehicle)).Msg("timeout before first record")
		return
	}
	if p.metrics != nil {
		p.metrics.SetVehicleConnected(vehicle, false)
	}

	p.publishState(ctx)
	p.monitor.CheckAlerts(ctx, p.states.Snapshot())
}

func (p *TelemetryProcessor) insertHistory(rec domain.TelemetryRecord) {
	if p.history == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), domain.DBInsertTimeout)
	defer cancel()
	if err := p.history.InsertTelemetry(ctx, rec); err != nil {
		p.logger.Error().Err(err).Str("vehicle", string(rec.VehicleID)).Msg("history insert failed")
	}
}

func (p *TelemetryProcessor) publishState(ctx context.Context) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.PublishState(ctx, p.states.Snapshot()); err != nil {
		p.logger.Error().Err(err).Msg("state publish failed")
	}
}
