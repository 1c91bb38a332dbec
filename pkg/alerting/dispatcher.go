package alerting

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/domain"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/logger"
)

// Dispatcher routes checker verdicts to the notification channel, applying
// the debounce policy. A suppressed emit is intentional anti-spam, not a
// failure; publish errors are logged and never retried.
type Dispatcher struct {
	store    *DedupStore
	notifier domain.Notifier
	metrics  domain.MetricsCollector
	logger   zerolog.Logger
}

func NewDispatcher(store *DedupStore, notifier domain.Notifier, metrics domain.MetricsCollector) *Dispatcher {
	return &Dispatcher{
		store:    store,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger.ComponentLogger("alert-dispatcher"),
	}
}

// EmitAlert publishes a create/update notification for the (vehicle, type)
// key unless it is inside the debounce window. The key doubles as the
// notification id, so the display layer updates in place on re-emit.
func (d *Dispatcher) EmitAlert(ctx context.Context, vehicle domain.VehicleID, alertType domain.AlertType, severity domain.Severity, title, description string) {
	key := domain.AlertKey{Vehicle: vehicle, Type: alertType}

	if !d.store.ShouldEmit(key) {
		if d.metrics != nil {
			d.metrics.AlertSuppressed(vehicle, alertType)
		}
		return
	}

	d.store.RecordEmit(key, d.store.now())

	n := domain.Notification{
		ID:          key.String(),
		Type:        severity,
		Title:       title,
		Description: description,
	}
	if err := d.notifier.Notify(ctx, n); err != nil {
		d.logger.Error().Err(err).Str("id", n.ID).Msg("failed to publish alert")
	}

	if d.metrics != nil {
		d.metrics.AlertEmitted(vehicle, alertType, severity)
		d.metrics.SetActiveAlerts(d.store.Len())
	}

	d.logger.Warn().
		Str("vehicle", string(vehicle)).
		Str("type", string(alertType)).
		Str("severity", string(severity)).
		Msg(title)
}

// ClearAlert removes the key and dismisses its notification. Absent keys are
// a no-op.
func (d *Dispatcher) ClearAlert(ctx context.Context, vehicle domain.VehicleID, alertType domain.AlertType) {
	key := domain.AlertKey{Vehicle: vehicle, Type: alertType}

	if !d.store.Has(key) {
		return
	}

	d.store.Clear(key)
	if err := d.notifier.Dismiss(ctx, key.String()); err != nil {
		d.logger.Error().Err(err).Str("id", key.String()).Msg("failed to dismiss alert")
	}

	if d.metrics != nil {
		d.metrics.AlertCleared(vehicle, alertType)
		d.metrics.SetActiveAlerts(d.store.Len())
	}

	d.logger.Info().
		Str("vehicle", string(vehicle)).
		Str("type", string(alertType)).
		Msg("alert cleared")
}

// ClearAll dismisses every active notification, broadcasts a dismiss-all for
// display layers that track their own state, and empties the store.
func (d *Dispatcher) ClearAll(ctx context.Context) {
	for _, key := range d.store.Keys() {
		if err := d.notifier.Dismiss(ctx, key.String()); err != nil {
			d.logger.Error().Err(err).Str("id", key.String()).Msg("failed to dismiss alert")
		}
	}
	d.store.ClearAll()

	if err := d.notifier.DismissAll(ctx); err != nil {
		d.logger.Error().Err(err).Msg("failed to broadcast dismiss-all")
	}

	if d.metrics != nil {
		d.metrics.SetActiveAlerts(0)
	}
}
