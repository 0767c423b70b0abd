package inspector

import (
	"fmt"

	"github.com/seen-one/Route-Crafter/pkg/datastructure"
	"github.com/seen-one/Route-Crafter/pkg/util"
)

// MapWalk expand the node walk into the coordinate track. Every step consumes
// one geometry instance of an edge between the step pair, a remaining counter
// per edge is seeded from the multiplicities. Geometry is appended in walking
// direction and the shared junction point between steps is deduplicated.
func MapWalk(g *datastructure.StreetGraph, walk datastructure.Walk) ([]datastructure.Coordinate, error) {
	if len(walk) == 0 {
		return []datastructure.Coordinate{}, nil
	}

	remaining := make([]int, g.NumEdges())
	for i, e := range g.Edges {
		remaining[i] = e.Multiplicity
	}

	coords := make([]datastructure.Coordinate, 0, len(walk)*2)
	for s := 0; s+1 < len(walk); s++ {
		u, v := walk[s], walk[s+1]

		eID := int32(-1)
		for _, cand := range g.IncidentEdges(u) {
			e := &g.Edges[cand]
			if remaining[cand] > 0 && ((e.From == u && e.To == v) || (e.From == v && e.To == u)) {
				eID = cand
				break
			}
		}
		if eID == -1 {
			return nil, fmt.Errorf("%w: walk step %d (%d -> %d)", ErrGeometryExhausted, s, u, v)
		}
		remaining[eID]--

		geom := g.Edges[eID].Geometry
		if g.Edges[eID].From != u {
			reversed := append([]datastructure.Coordinate(nil), geom...)
			util.ReverseG(reversed)
			geom = reversed
		}

		if s == 0 {
			coords = append(coords, geom...)
		} else {
			// the first point repeats the junction the previous step ended on
			coords = append(coords, geom[1:]...)
		}
	}

	if len(walk) == 1 {
		coords = append(coords, g.Nodes[walk[0]])
	}
	return coords, nil
}
