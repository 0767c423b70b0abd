package osmgraph

import (
	"errors"

	"github.com/seen-one/Route-Crafter/pkg/datastructure"
	"github.com/seen-one/Route-Crafter/pkg/geo"
)

// ErrNoStreets the polygon covers no usable street
var ErrNoStreets = errors.New("no streets inside the requested polygon")

type chain struct {
	fromID int64
	toID   int64
	coords []datastructure.Coordinate
	dist   float64
}

// BuildStreetGraph turn raw ways into the undirected street graph. A node
// referenced by two or more way occurrences is an intersection, every way is
// split there and each intersection to intersection piece becomes one edge
// carrying the full intermediate geometry and its haversine length.
//
// truncateByEdge true keeps a piece when at least one endpoint is inside the
// polygon, false demands both. Self loop pieces are dropped, parallel pieces
// between the same two intersections stay distinct edges.
func BuildStreetGraph(nodes map[int64]datastructure.Coordinate, ways []ParsedWay, tester *PolygonTester, truncateByEdge bool) (*datastructure.StreetGraph, error) {
	usedInRoad := make(map[int64]int)
	for _, w := range ways {
		for _, nID := range w.NodeIDs {
			if _, ok := nodes[nID]; ok {
				usedInRoad[nID]++
			}
		}
	}

	chains := []chain{}
	for _, w := range ways {
		chains = appendWayChains(chains, w, nodes, usedInRoad)
	}

	kept := chains[:0]
	for _, ch := range chains {
		if ch.fromID == ch.toID {
			continue
		}
		fromInside := tester.Contains(ch.coords[0].Lat, ch.coords[0].Lon)
		toInside := tester.Contains(ch.coords[len(ch.coords)-1].Lat, ch.coords[len(ch.coords)-1].Lon)
		if truncateByEdge {
			if !fromInside && !toInside {
				continue
			}
		} else if !fromInside || !toInside {
			continue
		}
		kept = append(kept, ch)
	}
	if len(kept) == 0 {
		return nil, ErrNoStreets
	}

	nodeIdx := make(map[int64]int32)
	graphNodes := []datastructure.Coordinate{}
	graphEdges := make([]datastructure.StreetEdge, 0, len(kept))
	for _, ch := range kept {
		from, ok := nodeIdx[ch.fromID]
		if !ok {
			from = int32(len(graphNodes))
			nodeIdx[ch.fromID] = from
			graphNodes = append(graphNodes, ch.coords[0])
		}
		to, ok := nodeIdx[ch.toID]
		if !ok {
			to = int32(len(graphNodes))
			nodeIdx[ch.toID] = to
			graphNodes = append(graphNodes, ch.coords[len(ch.coords)-1])
		}
		graphEdges = append(graphEdges, datastructure.StreetEdge{
			From:     from,
			To:       to,
			Dist:     ch.dist,
			Geometry: ch.coords,
		})
	}

	return datastructure.NewStreetGraph(graphNodes, graphEdges)
}

// appendWayChains split one way at its intersection nodes. Way endpoints are
// always chain ends, nodes missing from the node set (clipped at the extract
// boundary) end the current chain as well.
func appendWayChains(chains []chain, w ParsedWay, nodes map[int64]datastructure.Coordinate, usedInRoad map[int64]int) []chain {
	var current *chain
	for i := 0; i < len(w.NodeIDs); i++ {
		nID := w.NodeIDs[i]
		coord, ok := nodes[nID]
		if !ok {
			if current != nil && len(current.coords) >= 2 {
				current.toID = w.NodeIDs[i-1]
				chains = append(chains, *current)
			}
			current = nil
			continue
		}

		if current == nil {
			current = &chain{fromID: nID, coords: []datastructure.Coordinate{coord}}
			continue
		}

		last := current.coords[len(current.coords)-1]
		current.coords = append(current.coords, coord)
		current.dist += geo.HaversineDistanceM(last.Lat, last.Lon, coord.Lat, coord.Lon)

		if usedInRoad[nID] >= 2 || i == len(w.NodeIDs)-1 {
			current.toID = nID
			chains = append(chains, *current)
			current = &chain{fromID: nID, coords: []datastructure.Coordinate{coord}}
		}
	}
	return chains
}
