package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/nandanugg/geofence-alerter/module/core/domain"
	"github.com/nandanugg/geofence-alerter/module/core/internal/repository/database"
)

var _ database.LocationRepository = (*LocationRepo)(nil)

const defaultNearbyLimit = 50

// SearchArea bounds the snapshot returned by FetchAll: every vehicle within
// RadiusKm of Center. Vehicles outside the operational area are not evaluated.
type SearchArea struct {
	Center   domain.Point
	RadiusKm float64
}

type LocationRepo struct {
	rdb  goredis.Cmdable
	key  string
	area SearchArea
}

func NewLocationRepo(rdb goredis.Cmdable, key string, area SearchArea) *LocationRepo {
	return &LocationRepo{rdb: rdb, key: key, area: area}
}

func (r *LocationRepo) Upsert(ctx context.Context, pos domain.EntityPosition) error {
	err := r.rdb.GeoAdd(ctx, r.key, &goredis.GeoLocation{
		Name:      pos.VehicleID,
		Longitude: pos.Point.Lon,
		Latitude:  pos.Point.Lat,
	}).Err()
	if err != nil {
		return fmt.Errorf("geoadd %s: %w", pos.VehicleID, err)
	}
	return nil
}

func (r *LocationRepo) FetchAll(ctx context.Context) ([]domain.EntityPosition, error) {
	locs, err := r.rdb.GeoSearchLocation(ctx, r.key, &goredis.GeoSearchLocationQuery{
		GeoSearchQuery: goredis.GeoSearchQuery{
			Longitude:  r.area.Center.Lon,
			Latitude:   r.area.Center.Lat,
			Radius:     r.area.RadiusKm,
			RadiusUnit: "km",
		},
		WithCoord: true,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("geosearch %s: %w", r.key, err)
	}

	results := make([]domain.EntityPosition, 0, len(locs))
	for _, loc := range locs {
		results = append(results, domain.EntityPosition{
			VehicleID: loc.Name,
			Point:     domain.Point{Lon: loc.Longitude, Lat: loc.Latitude},
		})
	}
	return results, nil
}

func (r *LocationRepo) Nearby(ctx context.Context, query domain.NearbyQuery) ([]domain.NearbyVehicle, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultNearbyLimit
	}
	locs, err := r.rdb.GeoSearchLocation(ctx, r.key, &goredis.GeoSearchLocationQuery{
		GeoSearchQuery: goredis.GeoSearchQuery{
			Longitude:  query.Center.Lon,
			Latitude:   query.Center.Lat,
			Radius:     query.RadiusMeters,
			RadiusUnit: "m",
			Sort:       "ASC",
			Count:      limit,
		},
		WithCoord: true,
		WithDist:  true,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("geosearch %s: %w", r.key, err)
	}

	results := make([]domain.NearbyVehicle, 0, len(locs))
	for _, loc := range locs {
		results = append(results, domain.NearbyVehicle{
			VehicleID:      loc.Name,
			DistanceMeters: loc.Dist,
			Point:          domain.Point{Lon: loc.Longitude, Lat: loc.Latitude},
		})
	}
	return results, nil
}
