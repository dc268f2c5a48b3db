package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nandanugg/geofence-alerter/module/core/domain"
)

func square(minLon, minLat, maxLon, maxLat float64) domain.Ring {
	return domain.Ring{
		{Lon: minLon, Lat: minLat},
		{Lon: maxLon, Lat: minLat},
		{Lon: maxLon, Lat: maxLat},
		{Lon: minLon, Lat: maxLat},
		{Lon: minLon, Lat: minLat},
	}
}

func hyderabadZone() domain.Zone {
	return domain.Zone{
		ID:    "Z1",
		Name:  "Charminar",
		Kind:  domain.ZoneNoEntry,
		Rings: []domain.Ring{square(78.47, 17.37, 78.49, 17.39)},
	}
}

func TestContains_Square(t *testing.T) {
	z := hyderabadZone()

	assert.True(t, Contains(domain.Point{Lon: 78.48, Lat: 17.38}, z))
	assert.True(t, Contains(domain.Point{Lon: 78.4701, Lat: 17.3899}, z))
	assert.False(t, Contains(domain.Point{Lon: 80.0, Lat: 20.0}, z))
	assert.False(t, Contains(domain.Point{Lon: 78.4699, Lat: 17.38}, z))
	assert.False(t, Contains(domain.Point{Lon: 78.48, Lat: 17.3901}, z))
}

func TestContains_OpenRing(t *testing.T) {
	z := domain.Zone{ID: "open", Rings: []domain.Ring{{
		{Lon: 0, Lat: 0},
		{Lon: 10, Lat: 0},
		{Lon: 10, Lat: 10},
		{Lon: 0, Lat: 10},
	}}}

	assert.True(t, Contains(domain.Point{Lon: 5, Lat: 5}, z))
	assert.False(t, Contains(domain.Point{Lon: 11, Lat: 5}, z))
}

func TestContains_Hole(t *testing.T) {
	z := domain.Zone{ID: "donut", Rings: []domain.Ring{
		square(0, 0, 10, 10),
		square(4, 4, 6, 6),
	}}

	assert.True(t, Contains(domain.Point{Lon: 2, Lat: 2}, z))
	assert.False(t, Contains(domain.Point{Lon: 5, Lat: 5}, z), "point in hole")
	assert.False(t, Contains(domain.Point{Lon: 12, Lat: 5}, z))
}

func TestContains_RayThroughVertex(t *testing.T) {
	diamond := domain.Zone{ID: "diamond", Rings: []domain.Ring{{
		{Lon: 0, Lat: 1},
		{Lon: 1, Lat: 0},
		{Lon: 0, Lat: -1},
		{Lon: -1, Lat: 0},
	}}}

	assert.True(t, Contains(domain.Point{Lon: 0, Lat: 0}, diamond))
	assert.False(t, Contains(domain.Point{Lon: 2, Lat: 0}, diamond))
	assert.False(t, Contains(domain.Point{Lon: -2, Lat: 0}, diamond))
}

func TestContains_Concave(t *testing.T) {
	// U shape opening upwards.
	u := domain.Zone{ID: "u", Rings: []domain.Ring{{
		{Lon: 0, Lat: 0},
		{Lon: 3, Lat: 0},
		{Lon: 3, Lat: 3},
		{Lon: 2, Lat: 3},
		{Lon: 2, Lat: 1},
		{Lon: 1, Lat: 1},
		{Lon: 1, Lat: 3},
		{Lon: 0, Lat: 3},
	}}}

	assert.True(t, Contains(domain.Point{Lon: 0.5, Lat: 2}, u))
	assert.True(t, Contains(domain.Point{Lon: 2.5, Lat: 2}, u))
	assert.False(t, Contains(domain.Point{Lon: 1.5, Lat: 2}, u), "point in the notch")
	assert.True(t, Contains(domain.Point{Lon: 1.5, Lat: 0.5}, u))
}

func TestContains_Degenerate(t *testing.T) {
	assert.False(t, Contains(domain.Point{Lon: 0, Lat: 0}, domain.Zone{ID: "empty"}))
	line := domain.Zone{ID: "line", Rings: []domain.Ring{{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 1}}}}
	assert.False(t, Contains(domain.Point{Lon: 0.5, Lat: 0.5}, line))
}

func TestValidateZone(t *testing.T) {
	tests := []struct {
		name    string
		zone    domain.Zone
		wantErr bool
	}{
		{"valid closed square", hyderabadZone(), false},
		{"valid open triangle", domain.Zone{ID: "t", Rings: []domain.Ring{{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 0}, {Lon: 0, Lat: 1}}}}, false},
		{"no rings", domain.Zone{ID: "none"}, true},
		{"two points", domain.Zone{ID: "two", Rings: []domain.Ring{{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 1}}}}, true},
		{"three points two distinct", domain.Zone{ID: "dup", Rings: []domain.Ring{{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 1}, {Lon: 0, Lat: 0}}}}, true},
		{"nan coordinate", domain.Zone{ID: "nan", Rings: []domain.Ring{{{Lon: 0, Lat: 0}, {Lon: math.NaN(), Lat: 1}, {Lon: 1, Lat: 0}}}}, true},
		{"infinite coordinate", domain.Zone{ID: "inf", Rings: []domain.Ring{{{Lon: 0, Lat: 0}, {Lon: 1, Lat: math.Inf(1)}, {Lon: 1, Lat: 0}}}}, true},
		{"bad hole", domain.Zone{ID: "hole", Rings: []domain.Ring{square(0, 0, 10, 10), {{Lon: 1, Lat: 1}}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateZone(tt.zone)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrInvalidGeometry)
				return
			}
			require.NoError(t, err)
		})
	}
}
