package datastructure

import (
	"errors"
	"fmt"

	"github.com/twpayne/go-polyline"
)

// ErrMalformedGraph the node/edge collection cannot form a street graph
var ErrMalformedGraph = errors.New("malformed street graph")

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// StreetEdge undirected street chain between two intersection nodes.
// Geometry is endpoint inclusive in From -> To order. Multiplicity is how many
// times the chain must still be walked (> 1 after route augmentation).
type StreetEdge struct {
	ID           int32
	From         int32
	To           int32
	Dist         float64 // meter
	Geometry     []Coordinate
	Multiplicity int
}

// StreetGraph undirected multigraph of street chains. Node ids are dense
// (0..NumNodes-1) and only stable within a single computation.
type StreetGraph struct {
	Nodes []Coordinate
	Edges []StreetEdge

	incident [][]int32 // per node: ids of distinct incident edges
}

func NewStreetGraph(nodes []Coordinate, edges []StreetEdge) (*StreetGraph, error) {
	if len(nodes) == 0 || len(edges) == 0 {
		return nil, fmt.Errorf("%w: needs at least 1 node and 1 edge", ErrMalformedGraph)
	}

	incident := make([][]int32, len(nodes))
	for i := range edges {
		edges[i].ID = int32(i)
		e := &edges[i]
		if e.From < 0 || int(e.From) >= len(nodes) || e.To < 0 || int(e.To) >= len(nodes) {
			return nil, fmt.Errorf("%w: edge %d endpoint out of range (%d,%d)", ErrMalformedGraph, i, e.From, e.To)
		}
		if e.From == e.To {
			return nil, fmt.Errorf("%w: edge %d is a self loop at node %d", ErrMalformedGraph, i, e.From)
		}
		if e.Multiplicity < 1 {
			e.Multiplicity = 1
		}
		if len(e.Geometry) < 2 {
			e.Geometry = []Coordinate{nodes[e.From], nodes[e.To]}
		}
		incident[e.From] = append(incident[e.From], e.ID)
		incident[e.To] = append(incident[e.To], e.ID)
	}

	return &StreetGraph{Nodes: nodes, Edges: edges, incident: incident}, nil
}

func (g *StreetGraph) NumNodes() int {
	return len(g.Nodes)
}

func (g *StreetGraph) NumEdges() int {
	return len(g.Edges)
}

// Degree edge ends at node u, counted with multiplicity.
func (g *StreetGraph) Degree(u int32) int {
	deg := 0
	for _, eID := range g.incident[u] {
		deg += g.Edges[eID].Multiplicity
	}
	return deg
}

// IncidentEdges distinct edge ids incident to u, in insertion order.
func (g *StreetGraph) IncidentEdges(u int32) []int32 {
	return g.incident[u]
}

// Clone deep copy. Augmentation mutates multiplicities on the copy so the
// extracted graph stays untouched.
func (g *StreetGraph) Clone() *StreetGraph {
	nodes := make([]Coordinate, len(g.Nodes))
	copy(nodes, g.Nodes)

	edges := make([]StreetEdge, len(g.Edges))
	copy(edges, g.Edges)

	incident := make([][]int32, len(g.incident))
	for i := range g.incident {
		incident[i] = append([]int32(nil), g.incident[i]...)
	}
	return &StreetGraph{Nodes: nodes, Edges: edges, incident: incident}
}

// TotalDistance walked distance in meter, counted with multiplicity.
func (g *StreetGraph) TotalDistance() float64 {
	total := 0.0
	for _, e := range g.Edges {
		total += e.Dist * float64(e.Multiplicity)
	}
	return total
}

// DuplicatedDistance extra distance added by augmentation in meter.
func (g *StreetGraph) DuplicatedDistance() float64 {
	total := 0.0
	for _, e := range g.Edges {
		total += e.Dist * float64(e.Multiplicity-1)
	}
	return total
}

// Walk node sequence of a closed route. len(walk) == walked edges + 1.
type Walk []int32

func RenderPath(path []Coordinate) string {
	s := ""
	coords := make([][]float64, 0)
	for _, p := range path {
		pT := p
		coords = append(coords, []float64{pT.Lat, pT.Lon})
	}
	s = string(polyline.EncodeCoords(coords))
	return s
}
