package reporter

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/ukydev/transit-simulator/internal/models"
)

const mqttConnectTimeout = 10 * time.Second

// mqttClient is the part of mqtt.Client the publisher needs.
type mqttClient interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// MQTTPublisher mirrors positions to <prefix>/<mode>/<vehicle id>.
type MQTTPublisher struct {
	client mqttClient
	prefix string
	qos    byte
}

// DialMQTT connects to broker and returns a publisher using it.
func DialMQTT(broker, clientID, prefix string, qos byte) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(mqttConnectTimeout)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(mqttConnectTimeout) {
		return nil, fmt.Errorf("mqtt connect to %s timed out", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", broker, err)
	}
	return newMQTTPublisher(client, prefix, qos), nil
}

func newMQTTPublisher(client mqttClient, prefix string, qos byte) *MQTTPublisher {
	return &MQTTPublisher{client: client, prefix: prefix, qos: qos}
}

// Topic returns the topic a position is published on.
func (p *MQTTPublisher) Topic(pos models.PositionReport) string {
	return path.Join(p.prefix, models.ModeSlug(pos.Mode), pos.VehicleID)
}

// Publish sends pos as JSON and waits for the broker acknowledgement.
func (p *MQTTPublisher) Publish(ctx context.Context, pos models.PositionReport) error {
	payload, err := json.Marshal(pos)
	if err != nil {
		return fmt.Errorf("failed to marshal position: %w", err)
	}
	token := p.client.Publish(p.Topic(pos), p.qos, false, payload)
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("mqtt publish: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() error {
	p.client.Disconnect(250)
	return nil
}
