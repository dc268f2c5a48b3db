package service

import (
	"context"
	"errors"
	"testing"

	"github.com/nandanugg/geofence-alerter/module/core/domain"
)

type mockZoneRepo struct {
	fetchAllFn func(ctx context.Context) ([]domain.Zone, error)
	getFn      func(ctx context.Context, zoneID string) (*domain.Zone, error)
	insertFn   func(ctx context.Context, z *domain.Zone) error
	upsertFn   func(ctx context.Context, z *domain.Zone) error
	deleteFn   func(ctx context.Context, zoneID string) error
}

func (m *mockZoneRepo) FetchAll(ctx context.Context) ([]domain.Zone, error) {
	return m.fetchAllFn(ctx)
}

func (m *mockZoneRepo) Get(ctx context.Context, zoneID string) (*domain.Zone, error) {
	return m.getFn(ctx, zoneID)
}

func (m *mockZoneRepo) Insert(ctx context.Context, z *domain.Zone) error {
	return m.insertFn(ctx, z)
}

func (m *mockZoneRepo) Upsert(ctx context.Context, z *domain.Zone) error {
	return m.upsertFn(ctx, z)
}

func (m *mockZoneRepo) Delete(ctx context.Context, zoneID string) error {
	return m.deleteFn(ctx, zoneID)
}

func TestCreate_AssignsIDAndDefaultKind(t *testing.T) {
	var inserted *domain.Zone
	repo := &mockZoneRepo{
		insertFn: func(_ context.Context, z *domain.Zone) error {
			inserted = z
			return nil
		},
	}

	svc := NewZoneService(repo)
	z := &domain.Zone{Name: "Airport", Rings: []domain.Ring{square(0, 0, 1, 1)}}
	if err := svc.Create(context.Background(), z); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inserted == nil {
		t.Fatal("expected Insert to be called")
	}
	if inserted.ID == "" {
		t.Error("expected generated id")
	}
	if inserted.Kind != domain.ZonePickup {
		t.Errorf("expected Pickup, got %q", inserted.Kind)
	}
}

func TestCreate_RejectsBadGeometry(t *testing.T) {
	repo := &mockZoneRepo{
		insertFn: func(_ context.Context, _ *domain.Zone) error {
			t.Fatal("Insert should not be called")
			return nil
		},
	}

	svc := NewZoneService(repo)
	z := &domain.Zone{Name: "line", Rings: []domain.Ring{{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 1}}}}
	err := svc.Create(context.Background(), z)
	if !errors.Is(err, domain.ErrInvalidGeometry) {
		t.Fatalf("expected ErrInvalidGeometry, got %v", err)
	}
}

func TestCreate_RejectsUnknownKind(t *testing.T) {
	svc := NewZoneService(&mockZoneRepo{})
	z := &domain.Zone{Name: "x", Kind: "Parking", Rings: []domain.Ring{square(0, 0, 1, 1)}}
	err := svc.Create(context.Background(), z)
	if !errors.Is(err, domain.ErrInvalidZoneKind) {
		t.Fatalf("expected ErrInvalidZoneKind, got %v", err)
	}
}

func TestSeed_SkipsInvalidZones(t *testing.T) {
	var upserted []string
	repo := &mockZoneRepo{
		upsertFn: func(_ context.Context, z *domain.Zone) error {
			upserted = append(upserted, z.ID)
			return nil
		},
	}

	svc := NewZoneService(repo)
	n, err := svc.Seed(context.Background(), []domain.Zone{
		hyderabadZone(),
		{ID: "broken", Rings: []domain.Ring{{{Lon: 0, Lat: 0}}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 || len(upserted) != 1 || upserted[0] != "Z1" {
		t.Fatalf("expected only Z1 seeded, got n=%d %v", n, upserted)
	}
}

func TestSeed_RepoError(t *testing.T) {
	repo := &mockZoneRepo{
		upsertFn: func(_ context.Context, _ *domain.Zone) error {
			return errors.New("db error")
		},
	}

	svc := NewZoneService(repo)
	if _, err := svc.Seed(context.Background(), []domain.Zone{hyderabadZone()}); err == nil {
		t.Fatal("expected error")
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo := &mockZoneRepo{
		deleteFn: func(_ context.Context, _ string) error {
			return domain.ErrZoneNotFound
		},
	}

	svc := NewZoneService(repo)
	if err := svc.Delete(context.Background(), "UNKNOWN"); !errors.Is(err, domain.ErrZoneNotFound) {
		t.Fatalf("expected ErrZoneNotFound, got %v", err)
	}
}
