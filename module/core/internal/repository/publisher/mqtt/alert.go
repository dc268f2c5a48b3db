package mqtt

import (
	"context"
	"encoding/json"
	"fmt"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nandanugg/geofence-alerter/module/core/domain"
	"github.com/nandanugg/geofence-alerter/module/core/internal/repository/publisher"
)

var _ publisher.AlertPublisher = (*AlertPublisher)(nil)

const topicFormat = "/fleet/vehicle/%s/geofence"

type client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) pahomqtt.Token
}

// AlertPublisher pushes alerts to the real-time channel dashboards subscribe to.
type AlertPublisher struct {
	client client
}

func NewAlertPublisher(c pahomqtt.Client) *AlertPublisher {
	return &AlertPublisher{client: c}
}

func (p *AlertPublisher) PublishAlert(ctx context.Context, event *domain.TransitionEvent) error {
	body, err := json.Marshal(publisher.NewAlertMessage(event))
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}

	token := p.client.Publish(fmt.Sprintf(topicFormat, event.VehicleID), 1, false, body)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return fmt.Errorf("mqtt publish: %w", ctx.Err())
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt publish: %w", err)
	}
	return nil
}
