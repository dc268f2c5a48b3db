package database

import (
	"context"

	"github.com/nandanugg/geofence-alerter/module/core/domain"
)

// LocationRepository is the location source of the detector plus the ingest
// and proximity operations of the API.
type LocationRepository interface {
	Upsert(ctx context.Context, pos domain.EntityPosition) error
	FetchAll(ctx context.Context) ([]domain.EntityPosition, error)
	Nearby(ctx context.Context, query domain.NearbyQuery) ([]domain.NearbyVehicle, error)
}

// ZoneRepository is the zone source of the detector plus zone management.
type ZoneRepository interface {
	FetchAll(ctx context.Context) ([]domain.Zone, error)
	Get(ctx context.Context, zoneID string) (*domain.Zone, error)
	Insert(ctx context.Context, zone *domain.Zone) error
	Upsert(ctx context.Context, zone *domain.Zone) error
	Delete(ctx context.Context, zoneID string) error
}

// MembershipStore holds the last evaluated containment per (vehicle, zone).
// A pair never set reads as outside.
type MembershipStore interface {
	Get(vehicleID, zoneID string) bool
	Set(vehicleID, zoneID string, inside bool)
	Inside(vehicleID string) []string
	Len() int
}
