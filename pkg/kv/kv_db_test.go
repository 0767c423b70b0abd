package kv_test

import (
	"testing"

	"github.com/cockroachdb/pebble"
	"github.com/stretchr/testify/assert"
	"github.com/uber/h3-go/v4"

	"github.com/seen-one/Route-Crafter/pkg/datastructure"
	"github.com/seen-one/Route-Crafter/pkg/kv"
)

func openTestDB(t *testing.T) *kv.KVDB {
	t.Helper()
	db, err := pebble.Open(t.TempDir(), &pebble.Options{})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return kv.NewKVDB(db)
}

func TestStreetBuckets(t *testing.T) {
	kvDB := openTestDB(t)

	nodes := map[int64]datastructure.Coordinate{
		1: {Lat: 0, Lon: 0},
		2: {Lat: 0, Lon: 0.001},
		3: {Lat: 0.001, Lon: 0.001},
	}
	ways := []kv.StreetWay{
		{ID: 10, NodeIDs: []int64{1, 2}, Tags: map[string]string{"highway": "residential"}},
		{ID: 20, NodeIDs: []int64{2, 3}, Tags: map[string]string{"highway": "unclassified"}},
		// node 99 is unknown, the way has a single resolvable coordinate left
		{ID: 30, NodeIDs: []int64{1, 99}, Tags: map[string]string{"highway": "residential"}},
	}
	kvDB.CreateStreetBuckets(nodes, ways)

	cellA := h3.LatLngToCell(h3.NewLatLng(0, 0.0005), kv.BucketResolution)
	cellB := h3.LatLngToCell(h3.NewLatLng(0.0005, 0.001), kv.BucketResolution)
	farCell := h3.LatLngToCell(h3.NewLatLng(50, 50), kv.BucketResolution)

	cells := []h3.Cell{cellA}
	if cellB != cellA {
		cells = append(cells, cellB)
	}
	cells = append(cells, farCell)

	gotNodes, gotWays, err := kvDB.WaysCoveringCells(cells)
	assert.NoError(t, err)

	ids := make([]int64, 0, len(gotWays))
	for _, w := range gotWays {
		ids = append(ids, w.ID)
	}
	assert.ElementsMatch(t, []int64{10, 20}, ids)

	assert.Len(t, gotNodes, 3)
	for nID, want := range nodes {
		got, ok := gotNodes[nID]
		assert.True(t, ok)
		assert.InDelta(t, want.Lat, got.Lat, 1e-6)
		assert.InDelta(t, want.Lon, got.Lon, 1e-6)
	}
	_, ok := gotNodes[99]
	assert.False(t, ok)
}

func TestGraphCache(t *testing.T) {
	kvDB := openTestDB(t)

	_, found, err := kvDB.GetGraph("deadbeef")
	assert.NoError(t, err)
	assert.False(t, found)

	g, err := datastructure.NewStreetGraph(
		[]datastructure.Coordinate{{Lat: 52, Lon: 4}, {Lat: 52.001, Lon: 4}},
		[]datastructure.StreetEdge{{From: 0, To: 1, Dist: 111.25}},
	)
	assert.NoError(t, err)

	assert.NoError(t, kvDB.PutGraph("deadbeef", g))

	got, found, err := kvDB.GetGraph("deadbeef")
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 2, got.NumNodes())
	assert.Equal(t, 1, got.NumEdges())
	assert.Equal(t, 111.25, got.Edges[0].Dist)
}
