package osmgraph

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/uber/h3-go/v4"

	"github.com/seen-one/Route-Crafter/pkg/datastructure"
)

// polyfill resolution, ~0.1 km2 cells. same resolution the street buckets use.
const PolyfillResolution = 9

// PolygonTester point in polygon test for one request polygon. The polygon is
// polyfilled with h3 cells once, points landing in a cell whose boundary lies
// fully inside the ring are accepted without the exact ring test.
type PolygonTester struct {
	ring     orb.Ring
	interior map[h3.Cell]bool
	covered  map[h3.Cell]bool
}

func NewPolygonTester(polygon []datastructure.Coordinate) *PolygonTester {
	ring := make(orb.Ring, 0, len(polygon)+1)
	for _, c := range polygon {
		ring = append(ring, orb.Point{c.Lon, c.Lat})
	}
	if len(ring) > 0 && !ring[0].Equal(ring[len(ring)-1]) {
		ring = append(ring, ring[0])
	}

	loop := make(h3.GeoLoop, 0, len(polygon))
	for _, c := range polygon {
		loop = append(loop, h3.LatLng{Lat: c.Lat, Lng: c.Lon})
	}

	t := &PolygonTester{
		ring:     ring,
		interior: make(map[h3.Cell]bool),
		covered:  make(map[h3.Cell]bool),
	}

	for _, cell := range h3.PolygonToCells(h3.GeoPolygon{GeoLoop: loop}, PolyfillResolution) {
		t.covered[cell] = true

		inside := true
		for _, vert := range h3.CellToBoundary(cell) {
			if !planar.RingContains(t.ring, orb.Point{vert.Lng, vert.Lat}) {
				inside = false
				break
			}
		}
		if inside {
			t.interior[cell] = true
		}
	}
	return t
}

func (t *PolygonTester) Contains(lat, lon float64) bool {
	cell := h3.LatLngToCell(h3.NewLatLng(lat, lon), PolyfillResolution)
	if t.interior[cell] {
		return true
	}
	return planar.RingContains(t.ring, orb.Point{lon, lat})
}

// CoverageCells polyfill cells plus a k ring around each, ascending. Street
// buckets key ways by their center cell, the extra ring catches ways whose
// center sits just outside the polygon.
func (t *PolygonTester) CoverageCells(ringSize int) []h3.Cell {
	set := make(map[h3.Cell]bool, len(t.covered))
	for cell := range t.covered {
		set[cell] = true
		if ringSize > 0 {
			for _, neighbor := range h3.GridDisk(cell, ringSize) {
				set[neighbor] = true
			}
		}
	}

	cells := make([]h3.Cell, 0, len(set))
	for cell := range set {
		cells = append(cells, cell)
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i] < cells[j] })
	return cells
}
