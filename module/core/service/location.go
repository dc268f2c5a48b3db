package service

import (
	"context"
	"fmt"
	"math"

	"github.com/nandanugg/geofence-alerter/module/core/domain"
	"github.com/nandanugg/geofence-alerter/module/core/internal/repository/database"
)

// Redis GEO indexes only latitudes within the Web Mercator band.
const maxGeoLatitude = 85.05112878

type LocationService struct {
	repo    database.LocationRepository
	members database.MembershipStore
}

func NewLocationService(repo database.LocationRepository, members database.MembershipStore) *LocationService {
	return &LocationService{repo: repo, members: members}
}

func (s *LocationService) UpdateLocation(ctx context.Context, pos domain.EntityPosition) error {
	if err := validatePosition(pos); err != nil {
		return err
	}
	return s.repo.Upsert(ctx, pos)
}

func (s *LocationService) Nearby(ctx context.Context, query domain.NearbyQuery) ([]domain.NearbyVehicle, error) {
	if !query.Center.Finite() || !(query.RadiusMeters > 0) || math.IsInf(query.RadiusMeters, 1) {
		return nil, fmt.Errorf("%w: center and a positive radius are required", domain.ErrInvalidPosition)
	}
	return s.repo.Nearby(ctx, query)
}

// CurrentZones lists the zones the vehicle was inside at the last cycle.
func (s *LocationService) CurrentZones(vehicleID string) []string {
	return s.members.Inside(vehicleID)
}

func validatePosition(pos domain.EntityPosition) error {
	if !pos.Valid() {
		return fmt.Errorf("%w: vehicle id and finite coordinates are required", domain.ErrInvalidPosition)
	}
	if pos.Point.Lon < -180 || pos.Point.Lon > 180 {
		return fmt.Errorf("%w: longitude must be between -180 and 180", domain.ErrInvalidPosition)
	}
	if pos.Point.Lat < -maxGeoLatitude || pos.Point.Lat > maxGeoLatitude {
		return fmt.Errorf("%w: latitude must be between -%.8f and %.8f", domain.ErrInvalidPosition, maxGeoLatitude, maxGeoLatitude)
	}
	return nil
}
