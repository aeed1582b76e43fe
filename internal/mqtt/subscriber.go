package mqtt

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"climate-backend/internal/logger"
	"climate-backend/internal/models"
)

// Subscriber subscribes to the three sensor topics and funnels every
// parsed reading into a single ordered channel, which the decision
// pipeline consumes one event at a time.
type Subscriber struct {
	client mqtt.Client
	log    *logger.Logger

	// Output channel (written by subscriber, read by the pipeline)
	Events chan models.TelemetryEvent

	// topic → telemetry channel name
	topics map[string]string
}

// SubscriberConfig holds the inbound sensor topics.
type SubscriberConfig struct {
	TemperatureTopic string // e.g. "home/sensors/temperature"
	HumidityTopic    string // e.g. "home/sensors/humidity"
	AirQualityTopic  string // e.g. "home/sensors/air_quality"
}

// NewSubscriber creates a subscriber writing into events.
func NewSubscriber(client mqtt.Client, config SubscriberConfig, events chan models.TelemetryEvent, log *logger.Logger) *Subscriber {
	return &Subscriber{
		client: client,
		log:    log,
		Events: events,
		topics: map[string]string{
			config.TemperatureTopic: models.ChannelTemperature,
			config.HumidityTopic:    models.ChannelHumidity,
			config.AirQualityTopic:  models.ChannelAirQuality,
		},
	}
}

// SubscribeAll subscribes to all configured sensor topics.
func (s *Subscriber) SubscribeAll() error {
	for topic, channel := range s.topics {
		if topic == "" {
			continue
		}
		channel := channel
		handler := func(_ mqtt.Client, msg mqtt.Message) {
			s.handleReading(channel, msg)
		}
		if token := s.client.Subscribe(topic, 1, handler); token.Wait() && token.Error() != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", topic, token.Error())
		}
		s.log.Infow("subscribed to sensor topic", "topic", topic, "channel", channel)
	}
	return nil
}

// handleReading parses a bare decimal payload and forwards it as a
// TelemetryEvent. Malformed payloads are dropped here so they never reach
// the aggregator.
func (s *Subscriber) handleReading(channel string, msg mqtt.Message) {
	value, err := strconv.ParseFloat(strings.TrimSpace(string(msg.Payload())), 64)
	if err != nil {
		s.log.Warnw("dropping malformed sensor payload",
			"topic", msg.Topic(), "payload", string(msg.Payload()), "err", err)
		return
	}

	// Timestamps are assigned server-side at receipt.
	event := models.TelemetryEvent{
		Channel:   channel,
		Value:     value,
		Timestamp: time.Now(),
	}

	select {
	case s.Events <- event:
	case <-time.After(1 * time.Second):
		s.log.Warnw("telemetry channel full, dropping reading",
			"channel", channel, "value", value)
	}
}
