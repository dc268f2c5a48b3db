package service

import (
	"fmt"

	"github.com/nandanugg/geofence-alerter/module/core/domain"
)

const minRingPoints = 3

// Contains reports whether p lies inside zone z: inside the outer ring and
// outside every hole. Points exactly on an edge may fall either way.
func Contains(p domain.Point, z domain.Zone) bool {
	if len(z.Rings) == 0 {
		return false
	}
	if !inRing(p, z.Rings[0]) {
		return false
	}
	for _, hole := range z.Rings[1:] {
		if inRing(p, hole) {
			return false
		}
	}
	return true
}

// inRing counts crossings of a ray cast from p towards +lon. An edge counts
// only when exactly one endpoint lies strictly above p, so shared vertices and
// horizontal edges are never counted twice.
func inRing(p domain.Point, ring domain.Ring) bool {
	n := len(ring)
	if n < minRingPoints {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := ring[i], ring[j]
		if (a.Lat > p.Lat) == (b.Lat > p.Lat) {
			continue
		}
		x := a.Lon + (p.Lat-a.Lat)*(b.Lon-a.Lon)/(b.Lat-a.Lat)
		if p.Lon < x {
			inside = !inside
		}
	}
	return inside
}

// ValidateZone rejects zones the evaluator cannot classify points against.
func ValidateZone(z domain.Zone) error {
	if len(z.Rings) == 0 {
		return fmt.Errorf("%w: zone %s has no rings", domain.ErrInvalidGeometry, z.ID)
	}
	for i, ring := range z.Rings {
		distinct := make(map[domain.Point]struct{}, len(ring))
		for _, p := range ring {
			if !p.Finite() {
				return fmt.Errorf("%w: zone %s ring %d has a non-finite coordinate", domain.ErrInvalidGeometry, z.ID, i)
			}
			distinct[p] = struct{}{}
		}
		if len(distinct) < minRingPoints {
			return fmt.Errorf("%w: zone %s ring %d has %d distinct points, need %d",
				domain.ErrInvalidGeometry, z.ID, i, len(distinct), minRingPoints)
		}
	}
	return nil
}
