package mqtt

import (
	"context"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"climate-backend/internal/logger"
	"climate-backend/internal/models"
)

// Publisher drains actuator commands from a channel and publishes the
// literal ON/OFF payload to the matching device control topic.
type Publisher struct {
	client mqtt.Client
	log    *logger.Logger

	// Input channel (read by publisher, written by the pipeline)
	Commands chan models.Command

	// device → control topic
	topics map[models.Device]string
}

// PublisherConfig holds the outbound device control topics.
type PublisherConfig struct {
	ACTopic           string // e.g. "home/devices/ac"
	PurifierTopic     string // e.g. "home/devices/purifier"
	DehumidifierTopic string // e.g. "home/devices/dehumidifier"
}

// NewPublisher creates a publisher reading from commands.
func NewPublisher(client mqtt.Client, config PublisherConfig, commands chan models.Command, log *logger.Logger) *Publisher {
	return &Publisher{
		client:   client,
		log:      log,
		Commands: commands,
		topics: map[models.Device]string{
			models.DeviceAC:           config.ACTopic,
			models.DevicePurifier:     config.PurifierTopic,
			models.DeviceDehumidifier: config.DehumidifierTopic,
		},
	}
}

// Start publishes commands from the channel until the context is
// cancelled or the channel closes.
func (p *Publisher) Start(ctx context.Context) {
	p.log.Infow("MQTT publisher started")
	for {
		select {
		case <-ctx.Done():
			p.log.Infow("MQTT publisher stopped")
			return
		case cmd, ok := <-p.Commands:
			if !ok {
				p.log.Infow("command channel closed, publisher stopping")
				return
			}
			if err := p.publishCommand(cmd); err != nil {
				p.log.Errorw("failed to publish actuator command",
					"device", cmd.Device, "state", cmd.State, "err", err)
			}
		}
	}
}

func (p *Publisher) publishCommand(cmd models.Command) error {
	topic, ok := p.topics[cmd.Device]
	if !ok || topic == "" {
		return fmt.Errorf("no control topic configured for device %s", cmd.Device)
	}

	token := p.client.Publish(topic, 1, false, string(cmd.State))
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, token.Error())
	}

	p.log.Infow("actuator command published", "topic", topic, "state", cmd.State)
	return nil
}
