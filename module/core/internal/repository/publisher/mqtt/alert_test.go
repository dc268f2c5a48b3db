package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nandanugg/geofence-alerter/module/core/domain"
	"github.com/nandanugg/geofence-alerter/module/core/internal/repository/publisher"
)

type fakeToken struct {
	done chan struct{}
	err  error
}

func completedToken(err error) *fakeToken {
	t := &fakeToken{done: make(chan struct{}), err: err}
	close(t.done)
	return t
}

func (t *fakeToken) Wait() bool                     { <-t.done; return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{}          { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

type fakeClient struct {
	topic   string
	qos     byte
	payload []byte
	token   *fakeToken
}

func (c *fakeClient) Publish(topic string, qos byte, _ bool, payload interface{}) pahomqtt.Token {
	c.topic = topic
	c.qos = qos
	c.payload = payload.([]byte)
	return c.token
}

func enterEvent() *domain.TransitionEvent {
	return &domain.TransitionEvent{
		EventID:    "e1",
		VehicleID:  "D1",
		ZoneID:     "Z1",
		ZoneName:   "Charminar",
		Direction:  domain.Entered,
		Location:   domain.Point{Lon: 78.48, Lat: 17.38},
		ObservedAt: time.Unix(1715003456, 0),
	}
}

func TestPublishAlert_Success(t *testing.T) {
	c := &fakeClient{token: completedToken(nil)}
	p := &AlertPublisher{client: c}

	if err := p.PublishAlert(context.Background(), enterEvent()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.topic != "/fleet/vehicle/D1/geofence" {
		t.Errorf("unexpected topic %s", c.topic)
	}
	if c.qos != 1 {
		t.Errorf("expected qos 1, got %d", c.qos)
	}
	var msg publisher.AlertMessage
	if err := json.Unmarshal(c.payload, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Status != "entered" || msg.ZoneID != "Z1" {
		t.Errorf("unexpected message %+v", msg)
	}
}

func TestPublishAlert_TokenError(t *testing.T) {
	p := &AlertPublisher{client: &fakeClient{token: completedToken(errors.New("not connected"))}}
	if err := p.PublishAlert(context.Background(), enterEvent()); err == nil {
		t.Fatal("expected error")
	}
}

func TestPublishAlert_ContextDone(t *testing.T) {
	pending := &fakeToken{done: make(chan struct{})}
	p := &AlertPublisher{client: &fakeClient{token: pending}}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := p.PublishAlert(ctx, enterEvent())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
