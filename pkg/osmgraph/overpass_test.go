package osmgraph_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/seen-one/Route-Crafter/pkg/datastructure"
	"github.com/seen-one/Route-Crafter/pkg/osmgraph"
)

const overpassFixture = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="Overpass API">
  <node id="1" lat="52.0" lon="4.0"/>
  <node id="2" lat="52.001" lon="4.0"/>
  <way id="10">
    <nd ref="1"/>
    <nd ref="2"/>
    <tag k="highway" v="residential"/>
    <tag k="name" v="Stationsweg"/>
  </way>
</osm>`

func TestFetchWays(t *testing.T) {
	polygon := []datastructure.Coordinate{
		{Lat: 51.999, Lon: 3.999},
		{Lat: 51.999, Lon: 4.001},
		{Lat: 52.002, Lon: 4.001},
		{Lat: 52.002, Lon: 3.999},
	}

	t.Run("success parsing the overpass response", func(t *testing.T) {
		var gotQuery string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.NoError(t, r.ParseForm())
			gotQuery = r.PostFormValue("data")
			w.Write([]byte(overpassFixture))
		}))
		defer srv.Close()

		client := osmgraph.NewOverpassClient(srv.URL, 5*time.Second)
		nodes, ways, err := client.FetchWays(context.Background(), polygon, "")
		assert.NoError(t, err)

		assert.Contains(t, gotQuery, `poly:"51.999 3.999`)
		assert.Contains(t, gotQuery, `["highway"]`)

		assert.Len(t, nodes, 2)
		assert.Equal(t, datastructure.Coordinate{Lat: 52.001, Lon: 4.0}, nodes[2])

		assert.Len(t, ways, 1)
		assert.Equal(t, int64(10), ways[0].ID)
		assert.Equal(t, []int64{1, 2}, ways[0].NodeIDs)
		assert.Equal(t, "residential", ways[0].Tags["highway"])
	})

	t.Run("success passing a custom filter through", func(t *testing.T) {
		var gotQuery string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.NoError(t, r.ParseForm())
			gotQuery = r.PostFormValue("data")
			w.Write([]byte(overpassFixture))
		}))
		defer srv.Close()

		client := osmgraph.NewOverpassClient(srv.URL, 5*time.Second)
		_, _, err := client.FetchWays(context.Background(), polygon, `["highway"="residential"]`)
		assert.NoError(t, err)

		assert.Contains(t, gotQuery, `["highway"="residential"]`)
		assert.NotContains(t, gotQuery, "footway")
	})

	t.Run("error on a non 200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		client := osmgraph.NewOverpassClient(srv.URL, 5*time.Second)
		_, _, err := client.FetchWays(context.Background(), polygon, "")
		assert.ErrorContains(t, err, "429")
	})

	t.Run("error on a cancelled context", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			w.Write([]byte(overpassFixture))
		}))
		defer srv.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		client := osmgraph.NewOverpassClient(srv.URL, 5*time.Second)
		_, _, err := client.FetchWays(ctx, polygon, "")
		assert.Error(t, err)
	})
}
