package inspector_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seen-one/Route-Crafter/pkg/datastructure"
	"github.com/seen-one/Route-Crafter/pkg/inspector"
)

func lineGraph(t *testing.T) *datastructure.StreetGraph {
	t.Helper()
	nodes := []datastructure.Coordinate{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 0.001},
		{Lat: 0, Lon: 0.002},
	}
	edges := []datastructure.StreetEdge{
		{From: 0, To: 1, Dist: 100},
		{From: 1, To: 2, Dist: 100},
	}
	g, err := datastructure.NewStreetGraph(nodes, edges)
	assert.NoError(t, err)
	return g
}

// two triangles joined by one bridge, the classic case where only the bridge
// must be walked twice
func dumbbellGraph(t *testing.T) *datastructure.StreetGraph {
	t.Helper()
	nodes := []datastructure.Coordinate{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 0.001},
		{Lat: 0.001, Lon: 0.0005},
		{Lat: 0.002, Lon: 0.0005},
		{Lat: 0.003, Lon: 0},
		{Lat: 0.003, Lon: 0.001},
	}
	edges := []datastructure.StreetEdge{
		{From: 0, To: 1, Dist: 30},
		{From: 1, To: 2, Dist: 30},
		{From: 2, To: 0, Dist: 30},
		{From: 2, To: 3, Dist: 50},
		{From: 3, To: 4, Dist: 30},
		{From: 4, To: 5, Dist: 30},
		{From: 5, To: 3, Dist: 30},
	}
	g, err := datastructure.NewStreetGraph(nodes, edges)
	assert.NoError(t, err)
	return g
}

func TestOddDegreeNodes(t *testing.T) {
	assert.Equal(t, []int32{0, 2}, inspector.OddDegreeNodes(lineGraph(t)))
	assert.Empty(t, inspector.OddDegreeNodes(squareGraph(t)))
}

func TestCenter(t *testing.T) {
	t.Run("middle of a line", func(t *testing.T) {
		assert.Equal(t, int32(1), inspector.Center(lineGraph(t)))
	})

	t.Run("lowest id wins ties", func(t *testing.T) {
		assert.Equal(t, int32(0), inspector.Center(squareGraph(t)))
	})

	t.Run("bridge ends of the dumbbell", func(t *testing.T) {
		assert.Equal(t, int32(2), inspector.Center(dumbbellGraph(t)))
	})
}

func TestInspect(t *testing.T) {
	ri := inspector.NewRouteInspector(inspector.PickLIFO)

	t.Run("success on an already eulerian square", func(t *testing.T) {
		g := squareGraph(t)
		result, err := ri.Inspect(context.Background(), g)
		assert.NoError(t, err)

		assert.Equal(t, 0, result.Stats.OddNodes)
		assert.Equal(t, 0.0, result.Stats.DuplicatedDistance)
		assert.Equal(t, 444.0, result.Stats.TotalDistance)
		assert.Equal(t, int32(0), result.CenterNode)
		assert.Len(t, result.Walk, 5)
		assertValidWalk(t, g, result.Walk)
		assert.Equal(t, result.Coordinates[0], result.Coordinates[len(result.Coordinates)-1])
	})

	t.Run("success doubling the whole line", func(t *testing.T) {
		g := lineGraph(t)
		result, err := ri.Inspect(context.Background(), g)
		assert.NoError(t, err)

		assert.Equal(t, 2, result.Stats.OddNodes)
		assert.Equal(t, 400.0, result.Stats.TotalDistance)
		assert.Equal(t, 200.0, result.Stats.DuplicatedDistance)
		assert.Equal(t, int32(1), result.CenterNode)
		assert.Equal(t, g.Nodes[1], result.Center)
		assert.Len(t, result.Walk, 5)
		assert.Equal(t, result.Walk[0], result.Walk[len(result.Walk)-1])
		// the input graph must stay untouched
		assert.Equal(t, 1, g.Edges[0].Multiplicity)
		assert.Equal(t, 1, g.Edges[1].Multiplicity)
	})

	t.Run("success duplicating only the bridge", func(t *testing.T) {
		g := dumbbellGraph(t)
		result, err := ri.Inspect(context.Background(), g)
		assert.NoError(t, err)

		assert.Equal(t, 2, result.Stats.OddNodes)
		assert.Equal(t, 50.0, result.Stats.DuplicatedDistance)
		assert.Equal(t, 280.0, result.Stats.TotalDistance)
		assert.Equal(t, 7, result.Stats.Edges)
		assert.Equal(t, int32(2), result.CenterNode)
		assert.Len(t, result.Walk, 9)
	})

	t.Run("deterministic across runs", func(t *testing.T) {
		first, err := ri.Inspect(context.Background(), dumbbellGraph(t))
		assert.NoError(t, err)
		second, err := ri.Inspect(context.Background(), dumbbellGraph(t))
		assert.NoError(t, err)
		assert.Equal(t, first.Walk, second.Walk)
		assert.Equal(t, first.Coordinates, second.Coordinates)
	})

	t.Run("error when the context is already cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := ri.Inspect(ctx, squareGraph(t))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestMapWalk(t *testing.T) {
	a := datastructure.Coordinate{Lat: 0, Lon: 0}
	m := datastructure.Coordinate{Lat: 0, Lon: 0.001}
	b := datastructure.Coordinate{Lat: 0, Lon: 0.002}
	n := datastructure.Coordinate{Lat: 0.001, Lon: 0.001}

	nodes := []datastructure.Coordinate{a, b}
	edges := []datastructure.StreetEdge{
		{From: 0, To: 1, Dist: 222, Geometry: []datastructure.Coordinate{a, m, b}},
		{From: 0, To: 1, Dist: 250, Geometry: []datastructure.Coordinate{a, n, b}},
	}
	g, err := datastructure.NewStreetGraph(nodes, edges)
	assert.NoError(t, err)

	t.Run("success reversing geometry against the edge direction", func(t *testing.T) {
		coords, err := inspector.MapWalk(g, datastructure.Walk{0, 1, 0})
		assert.NoError(t, err)
		// second step walks an edge stored in the opposite direction, its
		// geometry comes out reversed and the junction point deduplicated
		assert.Equal(t, []datastructure.Coordinate{a, m, b, n, a}, coords)
	})

	t.Run("error when the walk needs a consumed edge", func(t *testing.T) {
		_, err := inspector.MapWalk(g, datastructure.Walk{0, 1, 0, 1})
		assert.ErrorIs(t, err, inspector.ErrGeometryExhausted)
	})
}
