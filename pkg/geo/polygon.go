package geo

import (
	"errors"
	"math"

	"github.com/golang/geo/s2"
)

// ValidateRing check whether the polygon ring is valid on the sphere (no self
// intersection, no degenerate edges). lats & lons in degree, ring may be open or closed.
func ValidateRing(lats, lons []float64) error {
	if len(lats) != len(lons) {
		return errors.New("lat & lon length mismatch")
	}
	pts := ringPoints(lats, lons)
	if len(pts) < 3 {
		return errors.New("polygon needs at least 3 distinct vertices")
	}

	loop := s2.LoopFromPoints(pts)
	if err := loop.Validate(); err != nil {
		return err
	}
	return nil
}

// RingAreaKm2 spherical area of the polygon ring in km^2.
func RingAreaKm2(lats, lons []float64) float64 {
	pts := ringPoints(lats, lons)
	if len(pts) < 3 {
		return 0
	}
	loop := s2.LoopFromPoints(pts)
	loop.Normalize()
	return loop.Area() * earthRadiusKM * earthRadiusKM
}

// ringPoints drop the closing vertex & adjacent duplicates. s2.Loop must not contain them.
func ringPoints(lats, lons []float64) []s2.Point {
	n := len(lats)
	if n > 1 && lats[0] == lats[n-1] && lons[0] == lons[n-1] {
		n--
	}

	pts := make([]s2.Point, 0, n)
	for i := 0; i < n; i++ {
		p := s2.PointFromLatLng(s2.LatLngFromDegrees(lats[i], lons[i]))
		if len(pts) > 0 && samePoint(pts[len(pts)-1], p) {
			continue
		}
		pts = append(pts, p)
	}
	if len(pts) > 1 && samePoint(pts[0], pts[len(pts)-1]) {
		pts = pts[:len(pts)-1]
	}
	return pts
}

func samePoint(a, b s2.Point) bool {
	return math.Abs(a.X-b.X) < 1e-15 && math.Abs(a.Y-b.Y) < 1e-15 && math.Abs(a.Z-b.Z) < 1e-15
}
