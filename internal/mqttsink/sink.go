// Package mqttsink republishes validated monitor snapshots to an MQTT topic.
package mqttsink

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"wlmonitor.org/internal/appconf"
	"wlmonitor.org/internal/logging"
	"wlmonitor.org/internal/realtime"
)

// Publisher is the part of mqtt.Client the sink needs.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

type Sink struct {
	client   Publisher
	topic    string
	qos      byte
	retained bool
	timeout  time.Duration
	logger   *slog.Logger
}

func New(client Publisher, topic string, qos byte, retained bool, timeout time.Duration, logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Sink{
		client:   client,
		topic:    topic,
		qos:      qos,
		retained: retained,
		timeout:  timeout,
		logger:   logger.With(slog.String("component", "mqtt_sink"), slog.String("topic", topic)),
	}
}

// Publish is a poller subscriber. Failures are logged, never returned, so a
// broker outage cannot affect the other subscribers.
func (s *Sink) Publish(resp *realtime.Response) {
	if resp == nil {
		return
	}
	if err := s.publish(resp); err != nil {
		logging.LogError(s.logger, "failed to publish monitor snapshot", err)
		return
	}
	s.logger.Debug("published monitor snapshot", slog.Int("monitors", len(resp.Data.Monitors)))
}

func (s *Sink) publish(resp *realtime.Response) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	token := s.client.Publish(s.topic, s.qos, s.retained, payload)
	if !token.WaitTimeout(s.timeout) {
		return fmt.Errorf("publish timed out after %s", s.timeout)
	}
	return token.Error()
}

// Connect creates a paho client from cfg and connects it to the broker.
func Connect(cfg appconf.MQTTConfig, logger *slog.Logger) (mqtt.Client, error) {
	if !cfg.Enabled() {
		return nil, errors.New("mqtt broker not configured")
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "mqtt_client"))

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(cfg.PublishTimeout())
	opts.SetOnConnectHandler(func(mqtt.Client) {
		logging.LogOperation(logger, "mqtt_connected", slog.String("broker", cfg.Broker))
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logging.LogError(logger, "mqtt connection lost", err, slog.String("broker", cfg.Broker))
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(cfg.PublishTimeout()) {
		return nil, fmt.Errorf("connecting to mqtt broker %s: timed out", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connecting to mqtt broker %s: %w", cfg.Broker, err)
	}
	return client, nil
}
