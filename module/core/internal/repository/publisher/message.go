package publisher

import (
	"time"

	"github.com/nandanugg/geofence-alerter/module/core/domain"
)

// AlertMessage is the JSON body every sink publishes.
type AlertMessage struct {
	EventID   string        `json:"event_id"`
	VehicleID string        `json:"vehicle_id"`
	ZoneID    string        `json:"zone_id"`
	ZoneName  string        `json:"zone_name"`
	ZoneKind  string        `json:"zone_kind"`
	Status    string        `json:"status"`
	Location  AlertLocation `json:"location"`
	Timestamp string        `json:"timestamp"`
}

type AlertLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func NewAlertMessage(ev *domain.TransitionEvent) AlertMessage {
	return AlertMessage{
		EventID:   ev.EventID,
		VehicleID: ev.VehicleID,
		ZoneID:    ev.ZoneID,
		ZoneName:  ev.ZoneName,
		ZoneKind:  string(ev.ZoneKind),
		Status:    string(ev.Direction),
		Location: AlertLocation{
			Latitude:  ev.Location.Lat,
			Longitude: ev.Location.Lon,
		},
		Timestamp: ev.ObservedAt.UTC().Format(time.RFC3339),
	}
}
