package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/nandanugg/geofence-alerter/module/core/domain"
	"github.com/nandanugg/geofence-alerter/module/core/internal/repository/publisher"
)

type fakeChannel struct {
	exchange string
	msgs     []amqp.Publishing
	err      error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, _ string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.exchange = exchange
	f.msgs = append(f.msgs, msg)
	return nil
}

func exitEvent() *domain.TransitionEvent {
	return &domain.TransitionEvent{
		EventID:    "e2",
		VehicleID:  "D1",
		ZoneID:     "Z1",
		ZoneName:   "Charminar",
		ZoneKind:   domain.ZoneNoEntry,
		Direction:  domain.Exited,
		Location:   domain.Point{Lon: 80.0, Lat: 20.0},
		ObservedAt: time.Unix(1715003456, 0),
	}
}

func TestPublishAlert_Success(t *testing.T) {
	ch := &fakeChannel{}
	p := &AlertPublisher{ch: ch}

	if err := p.PublishAlert(context.Background(), exitEvent()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ch.exchange != "fleet.events" {
		t.Errorf("expected fleet.events, got %s", ch.exchange)
	}
	if len(ch.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(ch.msgs))
	}
	msg := ch.msgs[0]
	if msg.MessageId != "e2" || msg.Type != "geofence.exited" {
		t.Errorf("unexpected headers: id=%s type=%s", msg.MessageId, msg.Type)
	}

	var body publisher.AlertMessage
	if err := json.Unmarshal(msg.Body, &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.VehicleID != "D1" || body.ZoneName != "Charminar" || body.Status != "exited" {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestPublishAlert_Error(t *testing.T) {
	p := &AlertPublisher{ch: &fakeChannel{err: errors.New("channel closed")}}
	if err := p.PublishAlert(context.Background(), exitEvent()); err == nil {
		t.Fatal("expected error")
	}
}
