package inspector

import (
	"context"

	"github.com/seen-one/Route-Crafter/pkg/datastructure"
)

type RouteStats struct {
	Nodes              int     `json:"nodes"`
	Edges              int     `json:"edges"`
	OddNodes           int     `json:"odd_nodes"`
	TotalDistance      float64 `json:"total_distance"`      // meter
	DuplicatedDistance float64 `json:"duplicated_distance"` // meter
}

type RouteResult struct {
	Coordinates []datastructure.Coordinate
	Walk        datastructure.Walk
	CenterNode  int32
	Center      datastructure.Coordinate
	Stats       RouteStats
}

// RouteInspector runs the route inspection pipeline on one street graph:
// odd nodes -> pairwise shortest paths -> min weight matching -> augmentation
// -> eulerian circuit -> coordinate track. Synchronous and single threaded,
// one call works on one graph and shares nothing.
type RouteInspector struct {
	policy EdgePickPolicy
}

func NewRouteInspector(policy EdgePickPolicy) *RouteInspector {
	return &RouteInspector{policy: policy}
}

// OddDegreeNodes ascending list of nodes with odd degree.
func OddDegreeNodes(g *datastructure.StreetGraph) []int32 {
	odd := []int32{}
	for u := int32(0); int(u) < g.NumNodes(); u++ {
		if g.Degree(u)%2 == 1 {
			odd = append(odd, u)
		}
	}
	return odd
}

// Inspect compute the closed every street route of g. The graph must be one
// connected component. ctx is only looked at between stages, a stage itself
// runs to completion.
func (ri *RouteInspector) Inspect(ctx context.Context, g *datastructure.StreetGraph) (*RouteResult, error) {
	odd := OddDegreeNodes(g)

	work := g
	if len(odd) > 0 {
		oracle := NewShortestPathOracle(g)
		cost, paths, err := oracle.PairwisePaths(odd)
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pairIdx, _, err := MinWeightPerfectMatching(cost)
		if err != nil {
			return nil, err
		}
		pairs := make([][2]int32, len(pairIdx))
		for i, p := range pairIdx {
			pairs[i] = [2]int32{odd[p[0]], odd[p[1]]}
		}

		work, err = Augment(g, pairs, paths)
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	centerNode := Center(g)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	walk, err := EulerianCircuit(datastructure.NewAdjacencyIndex(work), centerNode, ri.policy)
	if err != nil {
		return nil, err
	}

	coords, err := MapWalk(work, walk)
	if err != nil {
		return nil, err
	}

	return &RouteResult{
		Coordinates: coords,
		Walk:        walk,
		CenterNode:  centerNode,
		Center:      g.Nodes[centerNode],
		Stats: RouteStats{
			Nodes:              work.NumNodes(),
			Edges:              work.NumEdges(),
			OddNodes:           len(odd),
			TotalDistance:      work.TotalDistance(),
			DuplicatedDistance: work.DuplicatedDistance(),
		},
	}, nil
}
