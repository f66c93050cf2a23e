package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	advisoryapp "nautilus-one/internal/advisory/application"
	"nautilus-one/internal/observability/metrics"
)

const publishTimeout = 5 * time.Second

// MQTTNotifier publishes advice to the vessel broker. Topics follow
// <namespace>/<module>/advice. QoS 0: the bridge resends current state on
// the next classification anyway.
type MQTTNotifier struct {
	client    mqtt.Client
	namespace string
	logger    *log.Logger
}

// NewMQTTNotifier constructs an MQTT notifier on a connected client.
func NewMQTTNotifier(client mqtt.Client, namespace string, logger *log.Logger) (*MQTTNotifier, error) {
	if client == nil {
		return nil, errors.New("mqtt notifier: nil client")
	}
	if namespace == "" {
		return nil, errors.New("mqtt notifier: empty namespace")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &MQTTNotifier{client: client, namespace: namespace, logger: logger}, nil
}

// Notify publishes one advice. Failures are logged and counted.
func (n *MQTTNotifier) Notify(ctx context.Context, advice advisoryapp.Advice) {
	payload, err := json.Marshal(advice)
	if err != nil {
		n.logger.Printf("mqtt notify %s: marshal: %v", advice.Module, err)
		metrics.IncNotifyFailure(advice.Module, "mqtt")
		return
	}

	topic := fmt.Sprintf("%s/%s/advice", n.namespace, advice.Module)
	token := n.client.Publish(topic, 0, false, payload)
	// Bounded wait: a wedged connection must not stall the fan-out.
	if !token.WaitTimeout(publishTimeout) {
		n.logger.Printf("mqtt notify %s: publish %s: timeout after %s", advice.Module, topic, publishTimeout)
		metrics.IncNotifyFailure(advice.Module, "mqtt")
		return
	}
	if err := token.Error(); err != nil {
		n.logger.Printf("mqtt notify %s: publish %s: %v", advice.Module, topic, err)
		metrics.IncNotifyFailure(advice.Module, "mqtt")
	}
}
