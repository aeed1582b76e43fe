package mqtt

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"climate-backend/internal/logger"
)

// Client manages the MQTT connection (low-level connection management
// only). For subscribing and publishing, use Subscriber and Publisher.
type Client struct {
	client mqtt.Client
	config ClientConfig
	log    *logger.Logger
}

// ClientConfig holds MQTT client configuration.
type ClientConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
}

// NewClient creates a new MQTT client connection. Auto-reconnect is on;
// transient broker outages are retried by paho, not by callers.
func NewClient(config ClientConfig, log *logger.Logger) (*Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(config.Broker)
	opts.SetClientID(config.ClientID)
	opts.SetUsername(config.Username)
	opts.SetPassword(config.Password)
	opts.SetOnConnectHandler(func(mqtt.Client) {
		log.Infow("MQTT connection established")
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Warnw("MQTT connection lost", "err", err)
	})
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	log.Infow("connected to MQTT broker", "broker", config.Broker)

	return &Client{client: client, config: config, log: log}, nil
}

// GetNativeClient returns the underlying paho MQTT client, used by
// Subscriber and Publisher.
func (c *Client) GetNativeClient() mqtt.Client {
	return c.client
}

// IsConnected returns whether the client is currently connected.
func (c *Client) IsConnected() bool {
	return c.client.IsConnected()
}

// Close closes the MQTT client connection.
func (c *Client) Close() {
	c.client.Disconnect(250)
	c.log.Infow("MQTT client disconnected")
}
