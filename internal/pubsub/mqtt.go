package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/i474232898/weather-station/internal/weather"
)

const (
	measurementsTopic = "%s/measurements"
	publishTimeout    = 5 * time.Second
	disconnectQuiesce = 250 // milliseconds
)

// Config holds the broker connection settings.
type Config struct {
	Host        string
	Port        int
	ClientID    string
	TopicPrefix string
	Username    string
	Password    string
}

// tokenPublisher is the part of mqtt.Client the Publisher needs.
type tokenPublisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// payload is the JSON document published for every update.
type payload struct {
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	Pressure    float64   `json:"pressure"`
	Timestamp   time.Time `json:"timestamp"`
}

// Publisher is an observer that forwards every update to an MQTT topic as a
// retained JSON message. Broker failures are logged and never reach the station.
type Publisher struct {
	client tokenPublisher
	topic  string
	now    func() time.Time
	closer func()
}

func tokenToErrContext(ctx context.Context, t mqtt.Token) error {
	select {
	case <-t.Done():
		return t.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Connect dials the broker and returns a Publisher bound to it.
func Connect(ctx context.Context, cfg Config) (*Publisher, error) {
	log.WithFields(log.Fields{
		"host": cfg.Host,
		"port": cfg.Port,
	}).Debug("connecting to mqtt")

	client := mqtt.NewClient(createClientOptions(cfg))
	if err := tokenToErrContext(ctx, client.Connect()); err != nil {
		return nil, fmt.Errorf("failed to connect to mqtt: %w", err)
	}

	p := newPublisher(client, cfg.TopicPrefix)
	p.closer = func() { client.Disconnect(disconnectQuiesce) }
	return p, nil
}

func createClientOptions(cfg Config) *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.Host, cfg.Port))
	opts.SetClientID(cfg.ClientID)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(1 * time.Minute)
	opts.SetWriteTimeout(publishTimeout)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.WithField("client_id", cfg.ClientID).WithError(err).Error("mqtt connection lost")
	})
	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		log.WithField("client_id", cfg.ClientID).Info("mqtt connected")
	})

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	return opts
}

func newPublisher(client tokenPublisher, prefix string) *Publisher {
	if prefix == "" {
		prefix = "weather"
	}
	return &Publisher{
		client: client,
		topic:  fmt.Sprintf(measurementsTopic, prefix),
		now:    time.Now,
	}
}

// Topic returns the topic updates are published to.
func (p *Publisher) Topic() string {
	return p.topic
}

func (p *Publisher) Update(m weather.Measurements) {
	data, err := json.Marshal(payload{
		Temperature: m.Temperature,
		Humidity:    m.Humidity,
		Pressure:    m.Pressure,
		Timestamp:   p.now().UTC(),
	})
	if err != nil {
		log.WithError(err).Error("mqtt: failed to encode measurements")
		return
	}

	token := p.client.Publish(p.topic, 0, true, data)

	// Delivery is confirmed off the notification pass.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := tokenToErrContext(ctx, token); err != nil {
			log.WithField("topic", p.topic).WithError(err).Error("mqtt publish failed")
		}
	}()
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	if p.closer != nil {
		p.closer()
	}
}

var _ weather.Observer = (*Publisher)(nil)
