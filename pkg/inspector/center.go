package inspector

import (
	"github.com/seen-one/Route-Crafter/pkg/datastructure"
)

// Center node with minimum hop count eccentricity, bfs from every node.
// Multiplicities do not matter here, only which nodes are adjacent. The
// lowest node id wins ties so the route start is reproducible.
func Center(g *datastructure.StreetGraph) int32 {
	n := g.NumNodes()
	neighbors := make([][]int32, n)
	for _, e := range g.Edges {
		neighbors[e.From] = append(neighbors[e.From], e.To)
		neighbors[e.To] = append(neighbors[e.To], e.From)
	}

	best := int32(0)
	bestEcc := -1
	dist := make([]int, n)
	queue := make([]int32, 0, n)

	for s := int32(0); int(s) < n; s++ {
		for i := range dist {
			dist[i] = -1
		}
		dist[s] = 0
		queue = append(queue[:0], s)
		ecc := 0
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			if dist[u] > ecc {
				ecc = dist[u]
			}
			for _, v := range neighbors[u] {
				if dist[v] == -1 {
					dist[v] = dist[u] + 1
					queue = append(queue, v)
				}
			}
		}
		if bestEcc == -1 || ecc < bestEcc {
			best = s
			bestEcc = ecc
		}
	}
	return best
}
