package seed

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/nandanugg/geofence-alerter/module/core/domain"
)

type seedFile struct {
	Zones []seedZone `yaml:"zones" validate:"dive"`
}

type seedZone struct {
	ID      string                `yaml:"id" validate:"required"`
	Name    string                `yaml:"name" validate:"required"`
	Kind    string                `yaml:"kind"`
	GeoJSON domain.GeoJSONPolygon `yaml:"geojson"`
}

// LoadZones reads a zone seed file. Geometry is only decoded here; callers
// decide whether degenerate rings are acceptable.
func LoadZones(path string) ([]domain.Zone, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read zone seed: %w", err)
	}
	return ParseZones(data)
}

func ParseZones(data []byte) ([]domain.Zone, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse zone seed: %w", err)
	}
	if err := validator.New().Struct(f); err != nil {
		return nil, fmt.Errorf("validate zone seed: %w", err)
	}

	zones := make([]domain.Zone, 0, len(f.Zones))
	for _, sz := range f.Zones {
		kind, err := domain.ParseZoneKind(sz.Kind)
		if err != nil {
			return nil, fmt.Errorf("zone %s: %w", sz.ID, err)
		}
		rings, err := sz.GeoJSON.Rings()
		if err != nil {
			return nil, fmt.Errorf("zone %s: %w", sz.ID, err)
		}
		zones = append(zones, domain.Zone{ID: sz.ID, Name: sz.Name, Kind: kind, Rings: rings})
	}
	return zones, nil
}
