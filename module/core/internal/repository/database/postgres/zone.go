package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nandanugg/geofence-alerter/module/core/domain"
	"github.com/nandanugg/geofence-alerter/module/core/internal/repository/database"
)

var _ database.ZoneRepository = (*ZoneRepo)(nil)

type ZoneRepo struct {
	db *sql.DB
}

func NewZoneRepo(db *sql.DB) *ZoneRepo {
	return &ZoneRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *ZoneRepo) FetchAll(ctx context.Context) ([]domain.Zone, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, kind, geojson FROM zones ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.Zone
	for rows.Next() {
		z, err := scanZone(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *z)
	}
	return results, rows.Err()
}

func (r *ZoneRepo) Get(ctx context.Context, zoneID string) (*domain.Zone, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, kind, geojson FROM zones WHERE id = $1`,
		zoneID,
	)
	z, err := scanZone(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrZoneNotFound
	}
	return z, err
}

func (r *ZoneRepo) Insert(ctx context.Context, z *domain.Zone) error {
	geojson, err := encodeRings(z.Rings)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO zones (id, name, kind, geojson) VALUES ($1, $2, $3, $4)`,
		z.ID, z.Name, string(z.Kind), geojson,
	)
	return err
}

func (r *ZoneRepo) Upsert(ctx context.Context, z *domain.Zone) error {
	geojson, err := encodeRings(z.Rings)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO zones (id, name, kind, geojson) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, kind = EXCLUDED.kind, geojson = EXCLUDED.geojson`,
		z.ID, z.Name, string(z.Kind), geojson,
	)
	return err
}

func (r *ZoneRepo) Delete(ctx context.Context, zoneID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM zones WHERE id = $1`, zoneID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrZoneNotFound
	}
	return nil
}

// scanZone fails on undecodable geometry: a corrupt row makes the whole
// snapshot untrustworthy. Decodable but degenerate rings are left for the
// detector to skip.
func scanZone(row rowScanner) (*domain.Zone, error) {
	var (
		z       domain.Zone
		kind    string
		geojson []byte
	)
	if err := row.Scan(&z.ID, &z.Name, &kind, &geojson); err != nil {
		return nil, err
	}
	z.Kind = domain.ZoneKind(kind)

	var poly domain.GeoJSONPolygon
	if err := json.Unmarshal(geojson, &poly); err != nil {
		return nil, fmt.Errorf("zone %s geojson: %w", z.ID, err)
	}
	rings, err := poly.Rings()
	if err != nil {
		return nil, fmt.Errorf("zone %s: %w", z.ID, err)
	}
	z.Rings = rings
	return &z, nil
}

func encodeRings(rings []domain.Ring) (string, error) {
	b, err := json.Marshal(domain.PolygonFromRings(rings))
	if err != nil {
		return "", fmt.Errorf("marshal geojson: %w", err)
	}
	return string(b), nil
}
