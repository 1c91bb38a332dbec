package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"

	mqtt "github.com/mochi-mqtt/server/v2"
	"github.com/rs/zerolog"

	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/domain"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/logger"
)

// MQTTNotifier publishes alert events and state snapshots through the
// embedded broker. A nil server turns every publish into a no-op so the
// monitor can run headless in tests.
type MQTTNotifier struct {
	mqttServer *mqtt.Server
	logger     zerolog.Logger
}

func NewMQTTNotifier(server *mqtt.Server) *MQTTNotifier {
	return &MQTTNotifier{
		mqttServer: server,
		logger:     logger.ComponentLogger("mqtt-notifier"),
	}
}

func (n *MQTTNotifier) Notify(_ context.Context, notification domain.Notification) error {
	return n.publishJSON(domain.TopicAlertEvents, notification)
}

func (n *MQTTNotifier) Dismiss(_ context.Context, id string) error {
	return n.publishJSON(domain.TopicAlertDismiss, domain.Dismissal{ID: id})
}

func (n *MQTTNotifier) DismissAll(_ context.Context) error {
	return n.publishJSON(domain.TopicAlertDismissAll, struct{}{})
}

func (n *MQTTNotifier) PublishState(_ context.Context, snap *domain.TelemetrySnapshot) error {
	if snap == nil {
		return nil
	}
	return n.publishJSON(domain.TopicState, snap)
}

func (n *MQTTNotifier) publishJSON(topic string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	if n.mqttServer != nil {
		if err := n.mqttServer.Publish(topic, data, false, 0); err != nil {
			return fmt.Errorf("publish to topic %s: %w", topic, err)
		}
		n.logger.Debug().Str("topic", topic).Msg("event published")
	}

	return nil
}
