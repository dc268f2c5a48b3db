package domain

import (
	"errors"
	"math"
)

var ErrInvalidPosition = errors.New("invalid vehicle position")

// EntityPosition is one vehicle's last reported coordinate.
type EntityPosition struct {
	VehicleID string
	Point     Point
}

// Valid reports whether the position can take part in a detection cycle.
func (p EntityPosition) Valid() bool {
	return p.VehicleID != "" && p.Point.Finite()
}

type NearbyQuery struct {
	Center       Point
	RadiusMeters float64
	Limit        int
}

type NearbyVehicle struct {
	VehicleID      string
	DistanceMeters float64
	Point          Point
}

func (p Point) Finite() bool {
	return finite(p.Lon) && finite(p.Lat)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
