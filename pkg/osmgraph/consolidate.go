package osmgraph

import (
	"math"

	"github.com/dhconnelly/rtreego"

	"github.com/seen-one/Route-Crafter/pkg/datastructure"
	"github.com/seen-one/Route-Crafter/pkg/geo"
)

var nodeRectTol = 0.00001

type nodePoint struct {
	Location rtreego.Point
	ID       int32
}

func (n *nodePoint) Bounds() rtreego.Rect {
	return n.Location.ToRect(nodeRectTol)
}

// Consolidate merge intersections closer than toleranceM meter. Clusters are
// found by chaining tolerance neighborhoods over an rtree, every cluster
// collapses into one node at its centroid and the incident chains are rewired
// there. Chains that collapse into a self loop are dropped.
func Consolidate(g *datastructure.StreetGraph, toleranceM float64) (*datastructure.StreetGraph, error) {
	if toleranceM <= 0 {
		return g, nil
	}

	tree := rtreego.NewTree(2, 25, 50)
	for u := int32(0); int(u) < g.NumNodes(); u++ {
		tree.Insert(&nodePoint{
			Location: rtreego.Point{g.Nodes[u].Lat, g.Nodes[u].Lon},
			ID:       u,
		})
	}

	parent := make([]int32, g.NumNodes())
	for i := range parent {
		parent[i] = int32(i)
	}
	var find func(x int32) int32
	find = func(x int32) int32 {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b int32) {
		ra, rb := find(a), find(b)
		if ra != rb {
			if ra < rb {
				parent[rb] = ra
			} else {
				parent[ra] = rb
			}
		}
	}

	for u := int32(0); int(u) < g.NumNodes(); u++ {
		nu := g.Nodes[u]
		// degree box that covers toleranceM on both axes, exact filter below
		tolDeg := toleranceM / (111320.0 * math.Cos(nu.Lat*math.Pi/180.0))
		if latDeg := toleranceM / 111320.0; latDeg > tolDeg {
			tolDeg = latDeg
		}
		searchBox := rtreego.Point{nu.Lat, nu.Lon}.ToRect(tolDeg + nodeRectTol)
		for _, hit := range tree.SearchIntersect(searchBox) {
			v := hit.(*nodePoint).ID
			if v == u {
				continue
			}
			nv := g.Nodes[v]
			if geo.HaversineDistanceM(nu.Lat, nu.Lon, nv.Lat, nv.Lon) <= toleranceM {
				union(u, v)
			}
		}
	}

	// one node per cluster at the centroid of its members
	clusterIdx := make(map[int32]int32)
	newNodes := []datastructure.Coordinate{}
	latSum := []float64{}
	lonSum := []float64{}
	count := []int{}
	for u := int32(0); int(u) < g.NumNodes(); u++ {
		root := find(u)
		idx, ok := clusterIdx[root]
		if !ok {
			idx = int32(len(newNodes))
			clusterIdx[root] = idx
			newNodes = append(newNodes, datastructure.Coordinate{})
			latSum = append(latSum, 0)
			lonSum = append(lonSum, 0)
			count = append(count, 0)
		}
		latSum[idx] += g.Nodes[u].Lat
		lonSum[idx] += g.Nodes[u].Lon
		count[idx]++
	}
	for i := range newNodes {
		newNodes[i] = datastructure.Coordinate{
			Lat: latSum[i] / float64(count[i]),
			Lon: lonSum[i] / float64(count[i]),
		}
	}

	newEdges := []datastructure.StreetEdge{}
	for _, e := range g.Edges {
		from := clusterIdx[find(e.From)]
		to := clusterIdx[find(e.To)]
		if from == to {
			continue
		}

		coords := append([]datastructure.Coordinate(nil), e.Geometry...)
		coords[0] = newNodes[from]
		coords[len(coords)-1] = newNodes[to]

		dist := 0.0
		for i := 1; i < len(coords); i++ {
			dist += geo.HaversineDistanceM(coords[i-1].Lat, coords[i-1].Lon, coords[i].Lat, coords[i].Lon)
		}

		newEdges = append(newEdges, datastructure.StreetEdge{
			From:     from,
			To:       to,
			Dist:     dist,
			Geometry: coords,
		})
	}
	if len(newEdges) == 0 {
		return nil, ErrNoStreets
	}

	return datastructure.NewStreetGraph(newNodes, newEdges)
}
