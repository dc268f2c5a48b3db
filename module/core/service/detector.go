package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nandanugg/geofence-alerter/metrics"
	"github.com/nandanugg/geofence-alerter/module/core/domain"
	"github.com/nandanugg/geofence-alerter/module/core/internal/repository/database"
)

type LocationSource interface {
	FetchAll(ctx context.Context) ([]domain.EntityPosition, error)
}

type ZoneSource interface {
	FetchAll(ctx context.Context) ([]domain.Zone, error)
}

// TransitionDetector runs one fetch, evaluate, diff and commit cycle at a time.
// It is not safe for concurrent RunCycle calls; the Scheduler guarantees that.
type TransitionDetector struct {
	locations    LocationSource
	zones        ZoneSource
	store        database.MembershipStore
	fetchTimeout time.Duration
	logger       *slog.Logger
	now          func() time.Time
	newID        func() string
}

func NewTransitionDetector(locations LocationSource, zones ZoneSource, store database.MembershipStore, fetchTimeout time.Duration, logger *slog.Logger) *TransitionDetector {
	if logger == nil {
		logger = slog.Default()
	}
	return &TransitionDetector{
		locations:    locations,
		zones:        zones,
		store:        store,
		fetchTimeout: fetchTimeout,
		logger:       logger,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// RunCycle returns the transitions since the previous cycle in the order they
// were found: vehicles in snapshot order, zones in snapshot order per vehicle.
// A failed fetch returns an error and leaves the membership store untouched.
func (d *TransitionDetector) RunCycle(ctx context.Context) ([]domain.TransitionEvent, error) {
	start := time.Now()
	defer func() { metrics.CycleDurationSeconds.Observe(time.Since(start).Seconds()) }()

	positions, zones, err := d.fetch(ctx)
	if err != nil {
		metrics.CyclesTotal.WithLabelValues("fetch_error").Inc()
		return nil, err
	}
	if len(positions) == 0 || len(zones) == 0 {
		metrics.CyclesTotal.WithLabelValues("empty").Inc()
		d.logger.Debug("cycle_empty", "vehicles", len(positions), "zones", len(zones))
		return nil, nil
	}

	zones = d.usableZones(zones)
	observedAt := d.now()

	var events []domain.TransitionEvent
	for _, pos := range positions {
		if !pos.Valid() {
			metrics.InvalidPositionsTotal.Inc()
			d.logger.Warn("position_skipped", "vehicle_id", pos.VehicleID, "longitude", pos.Point.Lon, "latitude", pos.Point.Lat)
			continue
		}
		for _, z := range zones {
			previous := d.store.Get(pos.VehicleID, z.ID)
			current := Contains(pos.Point, z)
			switch {
			case !previous && current:
				events = append(events, d.event(pos, z, domain.Entered, observedAt))
			case previous && !current:
				events = append(events, d.event(pos, z, domain.Exited, observedAt))
			}
			d.store.Set(pos.VehicleID, z.ID, current)
		}
	}

	metrics.CyclesTotal.WithLabelValues("ok").Inc()
	metrics.MembershipRecords.Set(float64(d.store.Len()))
	d.logger.Debug("cycle_done",
		"vehicles", len(positions),
		"zones", len(zones),
		"transitions", len(events),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return events, nil
}

func (d *TransitionDetector) fetch(ctx context.Context) ([]domain.EntityPosition, []domain.Zone, error) {
	var (
		positions []domain.EntityPosition
		zones     []domain.Zone
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fctx, cancel := d.withFetchTimeout(gctx)
		defer cancel()
		p, err := d.locations.FetchAll(fctx)
		if err != nil {
			return fmt.Errorf("fetch locations: %w", err)
		}
		positions = p
		return nil
	})
	g.Go(func() error {
		fctx, cancel := d.withFetchTimeout(gctx)
		defer cancel()
		z, err := d.zones.FetchAll(fctx)
		if err != nil {
			return fmt.Errorf("fetch zones: %w", err)
		}
		zones = z
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return positions, zones, nil
}

func (d *TransitionDetector) withFetchTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.fetchTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d.fetchTimeout)
}

func (d *TransitionDetector) usableZones(zones []domain.Zone) []domain.Zone {
	usable := make([]domain.Zone, 0, len(zones))
	for _, z := range zones {
		if err := ValidateZone(z); err != nil {
			metrics.InvalidZonesTotal.Inc()
			d.logger.Warn("zone_skipped", "zone_id", z.ID, "zone_name", z.Name, "error", err)
			continue
		}
		usable = append(usable, z)
	}
	return usable
}

func (d *TransitionDetector) event(pos domain.EntityPosition, z domain.Zone, dir domain.Direction, at time.Time) domain.TransitionEvent {
	metrics.TransitionsTotal.WithLabelValues(string(dir)).Inc()
	d.logger.Info("geofence_transition",
		"vehicle_id", pos.VehicleID,
		"zone_id", z.ID,
		"zone_name", z.Name,
		"direction", dir,
	)
	return domain.TransitionEvent{
		EventID:    d.newID(),
		VehicleID:  pos.VehicleID,
		ZoneID:     z.ID,
		ZoneName:   z.Name,
		ZoneKind:   z.Kind,
		Direction:  dir,
		Location:   pos.Point,
		ObservedAt: at,
	}
}
