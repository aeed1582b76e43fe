package models

import "time"

// Telemetry channel identifiers. These match the last segment of the
// inbound MQTT sensor topics.
const (
	ChannelTemperature = "temperature"
	ChannelHumidity    = "humidity"
	ChannelAirQuality  = "air_quality"
)

// KnownChannels lists every telemetry channel the backend ingests.
var KnownChannels = []string{ChannelTemperature, ChannelHumidity, ChannelAirQuality}

// TelemetryEvent is a single parsed sensor message. Events from all three
// topics are funneled through one ordered channel so the decision pipeline
// sees them in arrival order.
type TelemetryEvent struct {
	Channel   string
	Value     float64
	Timestamp time.Time
}

// SensorSample is a complete reading with all three channels populated.
// Only the aggregator may construct one; partial state never leaves it.
type SensorSample struct {
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	AirQuality  float64   `json:"air_quality"`
	Timestamp   time.Time `json:"timestamp"`
}
