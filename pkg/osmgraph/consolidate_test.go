package osmgraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seen-one/Route-Crafter/pkg/datastructure"
	"github.com/seen-one/Route-Crafter/pkg/osmgraph"
)

// chainGraph four nodes on the equator, the middle pair only 10m apart.
func chainGraph(t *testing.T) *datastructure.StreetGraph {
	t.Helper()
	nodes := []datastructure.Coordinate{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 0.0009},
		{Lat: 0, Lon: 0.00099},
		{Lat: 0, Lon: 0.0019},
	}
	edges := []datastructure.StreetEdge{
		{From: 0, To: 1, Dist: 100},
		{From: 1, To: 2, Dist: 10},
		{From: 2, To: 3, Dist: 100},
	}
	g, err := datastructure.NewStreetGraph(nodes, edges)
	assert.NoError(t, err)
	return g
}

func TestConsolidate(t *testing.T) {
	t.Run("success merging a near pair", func(t *testing.T) {
		g, err := osmgraph.Consolidate(chainGraph(t), 15)
		assert.NoError(t, err)

		// the 10m pair collapses, its connecting edge becomes a self loop and goes
		assert.Equal(t, 3, g.NumNodes())
		assert.Equal(t, 2, g.NumEdges())

		merged := g.Nodes[1]
		assert.InDelta(t, 0.0, merged.Lat, 1e-12)
		assert.InDelta(t, 0.000945, merged.Lon, 1e-9)

		// rewired chains end at the merged node and carry refreshed lengths
		assert.Equal(t, merged, g.Edges[0].Geometry[len(g.Edges[0].Geometry)-1])
		assert.InDelta(t, 105.1, g.Edges[0].Dist, 1.0)
		assert.Equal(t, merged, g.Edges[1].Geometry[0])
		assert.InDelta(t, 106.2, g.Edges[1].Dist, 1.0)
	})

	t.Run("success leaving spread nodes alone", func(t *testing.T) {
		g, err := osmgraph.Consolidate(chainGraph(t), 5)
		assert.NoError(t, err)
		assert.Equal(t, 4, g.NumNodes())
		assert.Equal(t, 3, g.NumEdges())
	})

	t.Run("success skipping a zero tolerance", func(t *testing.T) {
		in := chainGraph(t)
		g, err := osmgraph.Consolidate(in, 0)
		assert.NoError(t, err)
		assert.Same(t, in, g)
	})

	t.Run("error when every chain collapses", func(t *testing.T) {
		g, err := datastructure.NewStreetGraph(
			[]datastructure.Coordinate{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 0.00005}},
			[]datastructure.StreetEdge{{From: 0, To: 1, Dist: 5.5}},
		)
		assert.NoError(t, err)

		_, err = osmgraph.Consolidate(g, 15)
		assert.ErrorIs(t, err, osmgraph.ErrNoStreets)
	})
}
