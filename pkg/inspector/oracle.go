package inspector

import (
	"fmt"
	"math"

	"github.com/seen-one/Route-Crafter/pkg/datastructure"
	"github.com/seen-one/Route-Crafter/pkg/util"
)

// PairPath concrete shortest path between two odd degree nodes. Nodes is the
// node sequence u..v inclusive, Edges the edge id walked between each pair.
type PairPath struct {
	U, V  int32
	Dist  float64
	Nodes []int32
	Edges []int32
}

func pairKey(u, v int32) [2]int32 {
	if u > v {
		u, v = v, u
	}
	return [2]int32{u, v}
}

type oracleArc struct {
	to     int32
	dist   float64
	edgeID int32
}

// ShortestPathOracle runs one dijkstra per odd degree node and reports
// distances restricted to the odd node subset. Multiplicities are irrelevant
// here, parallel chains only matter through their cheapest instance.
type ShortestPathOracle struct {
	g   *datastructure.StreetGraph
	adj [][]oracleArc
}

func NewShortestPathOracle(g *datastructure.StreetGraph) *ShortestPathOracle {
	adj := make([][]oracleArc, g.NumNodes())
	for _, e := range g.Edges {
		adj[e.From] = append(adj[e.From], oracleArc{to: e.To, dist: e.Dist, edgeID: e.ID})
		adj[e.To] = append(adj[e.To], oracleArc{to: e.From, dist: e.Dist, edgeID: e.ID})
	}
	return &ShortestPathOracle{g: g, adj: adj}
}

// PairwisePaths distance matrix over odd (indexed by position) plus the
// concrete path per unordered pair. Fails with ErrDisconnectedPair when any
// pair is unreachable.
func (o *ShortestPathOracle) PairwisePaths(odd []int32) ([][]float64, map[[2]int32]PairPath, error) {
	k := len(odd)
	cost := make([][]float64, k)
	for i := range cost {
		cost[i] = make([]float64, k)
	}
	paths := make(map[[2]int32]PairPath, k*(k-1)/2)

	for i := 0; i < k; i++ {
		dist, predNode, predEdge := o.dijkstra(odd[i])
		for j := 0; j < k; j++ {
			if i == j {
				continue
			}
			d := dist[odd[j]]
			if math.IsInf(d, 1) {
				return nil, nil, fmt.Errorf("%w: node %d and node %d", ErrDisconnectedPair, odd[i], odd[j])
			}
			cost[i][j] = d

			if j > i {
				key := pairKey(odd[i], odd[j])
				paths[key] = buildPairPath(odd[i], odd[j], d, predNode, predEdge)
			}
		}
	}
	return cost, paths, nil
}

// dijkstra single source over every node. Ties between equal distance paths
// break toward the smaller predecessor id so reruns reconstruct the same path.
func (o *ShortestPathOracle) dijkstra(source int32) ([]float64, []int32, []int32) {
	n := o.g.NumNodes()
	dist := make([]float64, n)
	predNode := make([]int32, n)
	predEdge := make([]int32, n)
	visited := make([]bool, n)
	for i := 0; i < n; i++ {
		dist[i] = math.Inf(1)
		predNode[i] = -1
		predEdge[i] = -1
	}
	dist[source] = 0

	pq := NewMinHeap[int32]()
	pq.Insert(PriorityQueueNode[int32]{Rank: 0, Item: source})

	for pq.Size() > 0 {
		node, _ := pq.ExtractMin()
		u := node.Item
		if visited[u] {
			continue
		}
		visited[u] = true

		for _, arc := range o.adj[u] {
			v := arc.to
			if visited[v] {
				continue
			}
			nd := dist[u] + arc.dist
			if nd < dist[v] || (nd == dist[v] && u < predNode[v]) {
				dist[v] = nd
				predNode[v] = u
				predEdge[v] = arc.edgeID
				if pq.Contains(v) {
					pq.DecreaseKey(PriorityQueueNode[int32]{Rank: nd, Item: v})
				} else {
					pq.Insert(PriorityQueueNode[int32]{Rank: nd, Item: v})
				}
			}
		}
	}
	return dist, predNode, predEdge
}

func buildPairPath(u, v int32, d float64, predNode, predEdge []int32) PairPath {
	nodes := []int32{}
	edges := []int32{}
	for at := v; at != u; at = predNode[at] {
		nodes = append(nodes, at)
		edges = append(edges, predEdge[at])
	}
	nodes = append(nodes, u)

	// predecessor chain is v..u, flip it to u..v
	util.ReverseG(nodes)
	util.ReverseG(edges)

	return PairPath{U: u, V: v, Dist: d, Nodes: nodes, Edges: edges}
}
