package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nandanugg/geofence-alerter/module/core/domain"
	"github.com/nandanugg/geofence-alerter/module/core/internal/repository/database"
)

type ZoneService struct {
	repo database.ZoneRepository
}

func NewZoneService(repo database.ZoneRepository) *ZoneService {
	return &ZoneService{repo: repo}
}

func (s *ZoneService) List(ctx context.Context) ([]domain.Zone, error) {
	return s.repo.FetchAll(ctx)
}

func (s *ZoneService) Get(ctx context.Context, zoneID string) (*domain.Zone, error) {
	return s.repo.Get(ctx, zoneID)
}

// Create stores a new zone, assigning an id when none is given. Zones the
// detector would skip are rejected up front.
func (s *ZoneService) Create(ctx context.Context, z *domain.Zone) error {
	if z.ID == "" {
		z.ID = uuid.NewString()
	}
	kind, err := domain.ParseZoneKind(string(z.Kind))
	if err != nil {
		return err
	}
	z.Kind = kind
	if err := ValidateZone(*z); err != nil {
		return err
	}
	return s.repo.Insert(ctx, z)
}

func (s *ZoneService) Delete(ctx context.Context, zoneID string) error {
	return s.repo.Delete(ctx, zoneID)
}

// Seed upserts zones from a seed file. Invalid zones are logged and skipped.
func (s *ZoneService) Seed(ctx context.Context, zones []domain.Zone) (int, error) {
	n := 0
	for i := range zones {
		z := &zones[i]
		if err := ValidateZone(*z); err != nil {
			slog.Warn("seed_zone_skipped", "zone_id", z.ID, "error", err)
			continue
		}
		if err := s.repo.Upsert(ctx, z); err != nil {
			return n, fmt.Errorf("seed zone %s: %w", z.ID, err)
		}
		n++
	}
	return n, nil
}
