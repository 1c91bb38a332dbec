package validator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/domain"
)

// ValidateTelemetryPayload checks that a payload is plausible JSON telemetry
// before parsing: bounded size, JSON object shape, vehicle_id present.
func ValidateTelemetryPayload(payload []byte) error {
	if len(payload) == 0 {
		return fmt.Errorf("empty payload")
	}
	if len(payload) > domain.MaxPayloadSize {
		return fmt.Errorf("payload too large: %d bytes", len(payload))
	}
	if !isLikelyJSON(payload) {
		return fmt.Errorf("not JSON format")
	}

	var data map[string]interface{}
	if err := json.Unmarshal(payload, &data); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if _, ok := data["vehicle_id"]; !ok {
		return fmt.Errorf("missing 'vehicle_id' field")
	}
	return nil
}

func ValidateTopicName(topic string) error {
	if topic == "" {
		return fmt.Errorf("empty topic")
	}
	if len(topic) > domain.MaxTopicLength {
		return fmt.Errorf("topic too long: %d chars", len(topic))
	}
	if strings.ContainsAny(topic, "#+") {
		return fmt.Errorf("topic contains wildcard characters")
	}
	return nil
}

// VehicleFromTopic extracts and validates the vehicle id from a
// gcs/telemetry/<vehicle> topic.
func VehicleFromTopic(topic string) (domain.VehicleID, error) {
	if !strings.HasPrefix(topic, domain.TopicTelemetryPrefix) {
		return "", fmt.Errorf("not a telemetry topic: %s", topic)
	}

	raw := strings.TrimPrefix(topic, domain.TopicTelemetryPrefix)
	if raw == "" || strings.Contains(raw, "/") {
		return "", fmt.Errorf("malformed telemetry topic: %s", topic)
	}

	id := domain.VehicleID(strings.ToLower(raw))
	if !domain.IsValidVehicle(id) {
		return "", fmt.Errorf("unknown vehicle: %s", raw)
	}
	return id, nil
}

func isLikelyJSON(payload []byte) bool {
	for _, b := range payload {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '{', '[':
			return true
		default:
			return false
		}
	}
	return false
}
