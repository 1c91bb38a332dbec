package domain

import "time"

// VehicleID identifies one of the fixed set of monitored vehicles.
type VehicleID string

const (
	VehicleERU VehicleID = "eru"
	VehicleMEA VehicleID = "mea"
	VehicleMRA VehicleID = "mra"
)

// MonitoredVehicles is the evaluation order for single-vehicle checks.
var MonitoredVehicles = []VehicleID{VehicleERU, VehicleMEA, VehicleMRA}

// VehiclePairs lists the ordered pairs evaluated for proximity. Distance is
// symmetric, so each unordered pair appears once and the alert key is always
// written on the first vehicle.
var VehiclePairs = [][2]VehicleID{
	{VehicleERU, VehicleMEA},
	{VehicleERU, VehicleMRA},
	{VehicleMEA, VehicleMRA},
}

func IsValidVehicle(id VehicleID) bool {
	for _, v := range MonitoredVehicles {
		if v == id {
			return true
		}
	}
	return false
}

// VehicleStatus is the closed set of connection states a vehicle reports or
// is assigned during processing.
type VehicleStatus string

const (
	StatusConnected     VehicleStatus = "Connected"
	StatusDisconnected  VehicleStatus = "Disconnected"
	StatusBadConnection VehicleStatus = "Bad Connection"
	StatusNearKeepOut   VehicleStatus = "Approaching restricted area"
	StatusStandby       VehicleStatus = "Standby"
	StatusInUse         VehicleStatus = "In Use"
)

type AlertType string

const (
	AlertSignalStrength   AlertType = "signal_strength"
	AlertHeartbeatTimeout AlertType = "heartbeat_timeout"
	AlertAbnormalStatus   AlertType = "abnormal_status"
	AlertGeoFence         AlertType = "geo_fence"
	alertProximityPrefix            = "proximity_"
)

// ProximityAlert builds the pairwise alert type for the given other vehicle.
func ProximityAlert(other VehicleID) AlertType {
	return AlertType(alertProximityPrefix + string(other))
}

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// TelemetryRecord is the latest accepted reading for one vehicle.
type TelemetryRecord struct {
	VehicleID      VehicleID     `json:"vehicle_id"`
	SignalStrength float64       `json:"signal_strength"`
	VehicleStatus  VehicleStatus `json:"vehicle_status"`
	BatteryLife    float64       `json:"battery_life"`
	Position       *Position     `json:"current_position,omitempty"`
	Pitch          float64       `json:"pitch"`
	Yaw            float64       `json:"yaw"`
	Roll           float64       `json:"roll"`
	Speed          float64       `json:"speed"`
	Altitude       float64       `json:"altitude"`
	Timestamp      time.Time     `json:"timestamp"`
}

// TelemetrySnapshot maps each monitored vehicle to its latest record, or nil
// when no data has arrived yet.
type TelemetrySnapshot struct {
	ERU *TelemetryRecord `json:"eru,omitempty"`
	MEA *TelemetryRecord `json:"mea,omitempty"`
	MRA *TelemetryRecord `json:"mra,omitempty"`
}

// Record returns the record for the given vehicle, nil if absent.
func (s *TelemetrySnapshot) Record(id VehicleID) *TelemetryRecord {
	if s == nil {
		return nil
	}
	switch id {
	case VehicleERU:
		return s.ERU
	case VehicleMEA:
		return s.MEA
	case VehicleMRA:
		return s.MRA
	}
	return nil
}

// AlertKey identifies one logical alert instance and its notification.
type AlertKey struct {
	Vehicle VehicleID
	Type    AlertType
}

// String is the wire identifier used as the notification id.
func (k AlertKey) String() string {
	return string(k.Vehicle) + "-" + string(k.Type)
}

// Notification is the create/update payload published on the alert channel.
// Repeated publishes with the same ID update the displayed entry in place.
type Notification struct {
	ID          string   `json:"id"`
	Type        Severity `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
}

// Dismissal asks the display layer to remove one notification.
type Dismissal struct {
	ID string `json:"id"`
}

// ZonePolygon is one keep-out polygon update for a vehicle.
type ZonePolygon struct {
	VehicleID VehicleID    `json:"vehicle_id"`
	Polygon   [][2]float64 `json:"polygon"`
}
