package osmgraph

import (
	"github.com/seen-one/Route-Crafter/pkg/datastructure"
)

// LargestComponent biggest connected component of g rebuilt with dense node
// ids. The route pipeline only ever works on one component, streets cut off
// by the polygon boundary are left out.
func LargestComponent(g *datastructure.StreetGraph) (*datastructure.StreetGraph, error) {
	n := g.NumNodes()
	comp := make([]int32, n)
	for i := range comp {
		comp[i] = -1
	}

	best := int32(-1)
	bestSize := 0
	nextComp := int32(0)
	for s := int32(0); int(s) < n; s++ {
		if comp[s] != -1 {
			continue
		}
		size := 0
		queue := []int32{s}
		comp[s] = nextComp
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			size++
			for _, eID := range g.IncidentEdges(u) {
				e := g.Edges[eID]
				v := e.From
				if v == u {
					v = e.To
				}
				if comp[v] == -1 {
					comp[v] = nextComp
					queue = append(queue, v)
				}
			}
		}
		if size > bestSize {
			best = nextComp
			bestSize = size
		}
		nextComp++
	}

	if bestSize == g.NumNodes() {
		return g, nil
	}

	nodeIdx := make(map[int32]int32)
	nodes := []datastructure.Coordinate{}
	for u := int32(0); int(u) < n; u++ {
		if comp[u] == best {
			nodeIdx[u] = int32(len(nodes))
			nodes = append(nodes, g.Nodes[u])
		}
	}

	edges := []datastructure.StreetEdge{}
	for _, e := range g.Edges {
		if comp[e.From] != best {
			continue
		}
		edges = append(edges, datastructure.StreetEdge{
			From:         nodeIdx[e.From],
			To:           nodeIdx[e.To],
			Dist:         e.Dist,
			Geometry:     e.Geometry,
			Multiplicity: e.Multiplicity,
		})
	}
	if len(edges) == 0 {
		return nil, ErrNoStreets
	}

	return datastructure.NewStreetGraph(nodes, edges)
}
