package subscriber

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nandanugg/geofence-alerter/metrics"
	"github.com/nandanugg/geofence-alerter/module/core/domain"
)

const topicPattern = "/fleet/vehicle/+/location"

type locationService interface {
	UpdateLocation(ctx context.Context, pos domain.EntityPosition) error
}

type locationMessage struct {
	VehicleID string  `json:"vehicle_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timestamp int64   `json:"timestamp"`
}

// LocationSubscriber feeds MQTT location reports into the location store.
// Geofence evaluation happens later, on the detector's own cycle.
type LocationSubscriber struct {
	client      mqtt.Client
	locationSvc locationService
	logger      *slog.Logger
}

func NewLocationSubscriber(client mqtt.Client, locationSvc locationService, logger *slog.Logger) *LocationSubscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocationSubscriber{
		client:      client,
		locationSvc: locationSvc,
		logger:      logger,
	}
}

func (s *LocationSubscriber) Start() error {
	token := s.client.Subscribe(topicPattern, 1, s.handleMessage)
	token.Wait()
	return token.Error()
}

func (s *LocationSubscriber) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	var raw locationMessage
	if err := json.Unmarshal(msg.Payload(), &raw); err != nil {
		metrics.LocationUpdatesTotal.WithLabelValues("mqtt", "invalid").Inc()
		s.logger.Warn("location_message_invalid", "topic", msg.Topic(), "error", err)
		return
	}

	if err := validateLocationMessage(&raw); err != nil {
		metrics.LocationUpdatesTotal.WithLabelValues("mqtt", "invalid").Inc()
		s.logger.Warn("location_message_rejected", "topic", msg.Topic(), "vehicle_id", raw.VehicleID, "error", err)
		return
	}

	pos := domain.EntityPosition{
		VehicleID: raw.VehicleID,
		Point:     domain.Point{Lon: raw.Longitude, Lat: raw.Latitude},
	}

	if err := s.locationSvc.UpdateLocation(context.Background(), pos); err != nil {
		if errors.Is(err, domain.ErrInvalidPosition) {
			metrics.LocationUpdatesTotal.WithLabelValues("mqtt", "invalid").Inc()
			s.logger.Warn("location_message_rejected", "vehicle_id", raw.VehicleID, "error", err)
			return
		}
		metrics.LocationUpdatesTotal.WithLabelValues("mqtt", "error").Inc()
		s.logger.Error("location_update_failed", "vehicle_id", raw.VehicleID, "error", err)
		return
	}
	metrics.LocationUpdatesTotal.WithLabelValues("mqtt", "ok").Inc()
}

func validateLocationMessage(msg *locationMessage) error {
	if msg.VehicleID == "" {
		return fmt.Errorf("vehicle_id: required")
	}
	if msg.Latitude < -90 || msg.Latitude > 90 {
		return fmt.Errorf("latitude: must be between -90 and 90")
	}
	if msg.Longitude < -180 || msg.Longitude > 180 {
		return fmt.Errorf("longitude: must be between -180 and 180")
	}
	if msg.Timestamp <= 0 {
		return fmt.Errorf("timestamp: must be positive")
	}
	return nil
}
