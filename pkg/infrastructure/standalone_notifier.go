package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/domain"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/logger"
)

// StandaloneMQTTNotifier publishes alert events through an external broker
// connection when the monitor runs without the embedded server. The client
// is resolved per publish because the subscriber connects after wiring.
type StandaloneMQTTNotifier struct {
	source *MQTTClient
	logger zerolog.Logger
}

func NewStandaloneMQTTNotifier(source *MQTTClient) *StandaloneMQTTNotifier {
	return &StandaloneMQTTNotifier{
		source: source,
		logger: logger.ComponentLogger("standalone-notifier"),
	}
}

func (n *StandaloneMQTTNotifier) Notify(_ context.Context, notification domain.Notification) error {
	return n.publishJSON(domain.TopicAlertEvents, notification)
}

func (n *StandaloneMQTTNotifier) Dismiss(_ context.Context, id string) error {
	return n.publishJSON(domain.TopicAlertDismiss, domain.Dismissal{ID: id})
}

func (n *StandaloneMQTTNotifier) DismissAll(_ context.Context) error {
	return n.publishJSON(domain.TopicAlertDismissAll, struct{}{})
}

func (n *StandaloneMQTTNotifier) PublishState(_ context.Context, snap *domain.TelemetrySnapshot) error {
	if snap == nil {
		return nil
	}
	return n.publishJSON(domain.TopicState, snap)
}

func (n *StandaloneMQTTNotifier) publishJSON(topic string, payload interface{}) error {
	var client mqtt.Client
	if n.source != nil {
		client = n.source.Client()
	}
	if client == nil || !client.IsConnected() {
		return fmt.Errorf("mqtt client not connected")
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	token := client.Publish(topic, 0, false, data)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to topic %s: %w", topic, err)
	}

	n.logger.Debug().Str("topic", topic).Msg("event published")
	return nil
}
