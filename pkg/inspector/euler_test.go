package inspector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seen-one/Route-Crafter/pkg/datastructure"
	"github.com/seen-one/Route-Crafter/pkg/inspector"
)

func squareGraph(t *testing.T) *datastructure.StreetGraph {
	t.Helper()
	nodes := []datastructure.Coordinate{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 0.001},
		{Lat: 0.001, Lon: 0.001},
		{Lat: 0.001, Lon: 0},
	}
	edges := []datastructure.StreetEdge{
		{From: 0, To: 1, Dist: 111},
		{From: 1, To: 2, Dist: 111},
		{From: 2, To: 3, Dist: 111},
		{From: 3, To: 0, Dist: 111},
	}
	g, err := datastructure.NewStreetGraph(nodes, edges)
	assert.NoError(t, err)
	return g
}

// assertValidWalk checks walk is closed, every step walks an existing edge
// and every edge is walked exactly Multiplicity times.
func assertValidWalk(t *testing.T, g *datastructure.StreetGraph, walk datastructure.Walk) {
	t.Helper()
	assert.Equal(t, walk[0], walk[len(walk)-1])

	used := make(map[int32]int)
	for s := 0; s+1 < len(walk); s++ {
		u, v := walk[s], walk[s+1]
		found := int32(-1)
		for _, eID := range g.IncidentEdges(u) {
			e := g.Edges[eID]
			if used[eID] < e.Multiplicity && ((e.From == u && e.To == v) || (e.From == v && e.To == u)) {
				found = eID
				break
			}
		}
		if found == -1 {
			t.Fatalf("walk step %d (%d -> %d) has no unused edge", s, u, v)
		}
		used[found]++
	}
	for _, e := range g.Edges {
		assert.Equal(t, e.Multiplicity, used[e.ID], "edge %d walked wrong number of times", e.ID)
	}
}

func TestEulerianCircuit(t *testing.T) {
	t.Run("success walking the square once", func(t *testing.T) {
		g := squareGraph(t)
		walk, err := inspector.EulerianCircuit(datastructure.NewAdjacencyIndex(g), 0, inspector.PickLIFO)
		assert.NoError(t, err)
		assert.Len(t, walk, 5)
		assert.Equal(t, int32(0), walk[0])
		assertValidWalk(t, g, walk)
	})

	t.Run("success consuming multiplicities", func(t *testing.T) {
		nodes := []datastructure.Coordinate{
			{Lat: 0, Lon: 0},
			{Lat: 0, Lon: 0.001},
			{Lat: 0.001, Lon: 0.001},
			{Lat: 0.001, Lon: 0},
		}
		edges := []datastructure.StreetEdge{
			{From: 0, To: 1, Dist: 100, Multiplicity: 2},
			{From: 1, To: 2, Dist: 100},
			{From: 2, To: 3, Dist: 100},
			{From: 3, To: 1, Dist: 100},
		}
		g, err := datastructure.NewStreetGraph(nodes, edges)
		assert.NoError(t, err)

		walk, err := inspector.EulerianCircuit(datastructure.NewAdjacencyIndex(g), 0, inspector.PickAvoidBacktrack)
		assert.NoError(t, err)
		assert.Len(t, walk, 6)
		assertValidWalk(t, g, walk)
		// at node 1 an alternative to going straight back exists, the policy
		// must take it
		assert.NotEqual(t, int32(0), walk[2])
	})

	t.Run("error on odd degree", func(t *testing.T) {
		nodes := []datastructure.Coordinate{
			{Lat: 0, Lon: 0},
			{Lat: 0, Lon: 0.001},
		}
		edges := []datastructure.StreetEdge{
			{From: 0, To: 1, Dist: 100},
		}
		g, err := datastructure.NewStreetGraph(nodes, edges)
		assert.NoError(t, err)

		_, err = inspector.EulerianCircuit(datastructure.NewAdjacencyIndex(g), 0, inspector.PickLIFO)
		assert.ErrorIs(t, err, inspector.ErrNotEulerian)
	})

	t.Run("error when edges are unreachable from start", func(t *testing.T) {
		nodes := []datastructure.Coordinate{
			{Lat: 0, Lon: 0},
			{Lat: 0, Lon: 0.001},
			{Lat: 0, Lon: 0.002},
			{Lat: 0.01, Lon: 0},
			{Lat: 0.01, Lon: 0.001},
			{Lat: 0.01, Lon: 0.002},
		}
		edges := []datastructure.StreetEdge{
			{From: 0, To: 1, Dist: 100},
			{From: 1, To: 2, Dist: 100},
			{From: 2, To: 0, Dist: 100},
			{From: 3, To: 4, Dist: 100},
			{From: 4, To: 5, Dist: 100},
			{From: 5, To: 3, Dist: 100},
		}
		g, err := datastructure.NewStreetGraph(nodes, edges)
		assert.NoError(t, err)

		_, err = inspector.EulerianCircuit(datastructure.NewAdjacencyIndex(g), 0, inspector.PickLIFO)
		assert.ErrorIs(t, err, inspector.ErrNotEulerian)
	})

	t.Run("error on out of range start", func(t *testing.T) {
		g := squareGraph(t)
		_, err := inspector.EulerianCircuit(datastructure.NewAdjacencyIndex(g), 99, inspector.PickLIFO)
		assert.Error(t, err)
	})
}
