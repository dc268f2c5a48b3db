package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidGeometry = errors.New("invalid zone geometry")
	ErrZoneNotFound    = errors.New("zone not found")
	ErrInvalidZoneKind = errors.New("invalid zone kind")
)

type Point struct {
	Lon float64 `json:"longitude" yaml:"longitude"`
	Lat float64 `json:"latitude" yaml:"latitude"`
}

// Ring is implicitly closed: the last point may or may not repeat the first.
type Ring []Point

type ZoneKind string

const (
	ZoneNoEntry ZoneKind = "No Entry"
	ZonePickup  ZoneKind = "Pickup"
	ZoneDropoff ZoneKind = "Dropoff"
)

// ParseZoneKind maps an empty kind to Pickup, the default of the zone catalogue.
func ParseZoneKind(s string) (ZoneKind, error) {
	switch ZoneKind(s) {
	case "":
		return ZonePickup, nil
	case ZoneNoEntry, ZonePickup, ZoneDropoff:
		return ZoneKind(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidZoneKind, s)
}

// Zone is a named polygon. Rings[0] is the outer boundary, the rest are holes.
type Zone struct {
	ID    string
	Name  string
	Kind  ZoneKind
	Rings []Ring
}

// GeoJSONPolygon is the stored and wire form of a zone's geometry.
// Positions are [lon, lat]; further elements such as altitude are ignored.
type GeoJSONPolygon struct {
	Type        string        `json:"type" yaml:"type"`
	Coordinates [][][]float64 `json:"coordinates" yaml:"coordinates"`
}

func (g GeoJSONPolygon) Rings() ([]Ring, error) {
	if g.Type != "Polygon" {
		return nil, fmt.Errorf("%w: geometry type %q, want Polygon", ErrInvalidGeometry, g.Type)
	}
	rings := make([]Ring, len(g.Coordinates))
	for i, coords := range g.Coordinates {
		ring := make(Ring, len(coords))
		for j, c := range coords {
			if len(c) < 2 {
				return nil, fmt.Errorf("%w: ring %d position %d has %d elements, want [lon, lat]", ErrInvalidGeometry, i, j, len(c))
			}
			ring[j] = Point{Lon: c[0], Lat: c[1]}
		}
		rings[i] = ring
	}
	return rings, nil
}

func PolygonFromRings(rings []Ring) GeoJSONPolygon {
	coords := make([][][]float64, len(rings))
	for i, ring := range rings {
		c := make([][]float64, len(ring))
		for j, p := range ring {
			c[j] = []float64{p.Lon, p.Lat}
		}
		coords[i] = c
	}
	return GeoJSONPolygon{Type: "Polygon", Coordinates: coords}
}

type Direction string

const (
	Entered Direction = "entered"
	Exited  Direction = "exited"
)

// TransitionEvent records one change of containment for a (vehicle, zone) pair.
type TransitionEvent struct {
	EventID    string
	VehicleID  string
	ZoneID     string
	ZoneName   string
	ZoneKind   ZoneKind
	Direction  Direction
	Location   Point
	ObservedAt time.Time
}
