package aggregator

import (
	"sync"
	"time"

	"climate-backend/internal/models"
)

// Aggregator buffers the most recent reading per telemetry channel and
// emits a complete SensorSample once all three channels have reported
// since the previous emission. Last write wins per channel; timestamps
// are taken as-is with no reordering.
type Aggregator struct {
	mu sync.Mutex

	temperature float64
	humidity    float64
	airQuality  float64
	timestamp   time.Time

	// Presence flags, reset together on emission. Values themselves
	// survive across emissions; only readiness is cleared.
	seen map[string]bool
}

// New creates an empty aggregator with no channel marked present.
func New() *Aggregator {
	return &Aggregator{seen: make(map[string]bool, len(models.KnownChannels))}
}

// Ingest updates the slot for channel and records ts as the pending sample
// timestamp. It returns (sample, true) exactly when all three channels have
// been written since the last returned sample; the readiness flags are then
// cleared atomically. Unknown channels are ignored without error.
func (a *Aggregator) Ingest(channel string, value float64, ts time.Time) (models.SensorSample, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch channel {
	case models.ChannelTemperature:
		a.temperature = value
	case models.ChannelHumidity:
		a.humidity = value
	case models.ChannelAirQuality:
		a.airQuality = value
	default:
		return models.SensorSample{}, false
	}

	a.seen[channel] = true
	a.timestamp = ts

	for _, ch := range models.KnownChannels {
		if !a.seen[ch] {
			return models.SensorSample{}, false
		}
	}

	sample := models.SensorSample{
		Temperature: a.temperature,
		Humidity:    a.humidity,
		AirQuality:  a.airQuality,
		Timestamp:   a.timestamp,
	}
	for _, ch := range models.KnownChannels {
		delete(a.seen, ch)
	}
	return sample, true
}
