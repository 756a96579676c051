// Package mqtt ingests readings published by field gateways, as an optional
// alternative to the HTTP endpoint. Disabled unless MQTT_ENABLED is set.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	paho "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/charerimana/agrisense/internal/config"
	"github.com/charerimana/agrisense/internal/service"
)

// Consumer subscribes to the readings topic and feeds the same ingest
// pipeline as the HTTP endpoint. Topic layout: agrisense/readings/<sensor_id>.
type Consumer struct {
	client   paho.Client
	cfg      config.MQTTConfig
	ingestor *service.Ingestor
	logger   *zap.Logger
}

type readingPayload struct {
	Temperature float64 `json:"temperature"`
}

func NewConsumer(cfg config.MQTTConfig, ingestor *service.Ingestor, logger *zap.Logger) *Consumer {
	return &Consumer{cfg: cfg, ingestor: ingestor, logger: logger}
}

// Start connects to the broker and subscribes. Returns an error when the
// broker is unreachable; message-level failures are only logged.
func (c *Consumer) Start() error {
	opts := paho.NewClientOptions()
	opts.AddBroker(c.cfg.Broker)
	opts.SetClientID(c.cfg.ClientID)
	if c.cfg.Username != "" {
		opts.SetUsername(c.cfg.Username)
	}
	if c.cfg.Password != "" {
		opts.SetPassword(c.cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)

	c.client = paho.NewClient(opts)
	if token := c.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	if token := c.client.Subscribe(c.cfg.Topic, c.cfg.QoS, c.handleMessage); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %w", c.cfg.Topic, token.Error())
	}

	c.logger.Info("MQTT reading consumer started",
		zap.String("broker", c.cfg.Broker),
		zap.String("topic", c.cfg.Topic),
	)
	return nil
}

func (c *Consumer) Stop() {
	if c.client != nil && c.client.IsConnected() {
		c.client.Disconnect(250)
	}
}

func (c *Consumer) handleMessage(_ paho.Client, msg paho.Message) {
	sensorID := sensorIDFromTopic(msg.Topic())
	if sensorID == "" {
		c.logger.Warn("MQTT message on unexpected topic", zap.String("topic", msg.Topic()))
		return
	}

	var payload readingPayload
	if err := json.Unmarshal(msg.Payload(), &payload); err != nil {
		c.logger.Warn("MQTT message payload invalid",
			zap.String("topic", msg.Topic()),
			zap.Error(err),
		)
		return
	}

	if _, err := c.ingestor.Ingest(context.Background(), sensorID, payload.Temperature); err != nil {
		c.logger.Error("Failed to ingest MQTT reading",
			zap.String("sensor_id", sensorID),
			zap.Error(err),
		)
	}
}

// sensorIDFromTopic takes the last topic segment: agrisense/readings/<id>.
func sensorIDFromTopic(topic string) string {
	i := strings.LastIndex(topic, "/")
	if i < 0 || i == len(topic)-1 {
		return ""
	}
	return topic[i+1:]
}
