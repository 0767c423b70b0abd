package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/cockroachdb/pebble"

	"github.com/seen-one/Route-Crafter/pkg/kv"
	"github.com/seen-one/Route-Crafter/pkg/osmgraph"
)

var (
	mapFile = flag.String("f", "", "openstreetmap pbf file the street buckets are warmed from")
	dbDir   = flag.String("db", "routecrafterDB", "pebble db directory for street buckets and the graph cache")
)

func main() {
	flag.Parse()
	if *mapFile == "" {
		log.Fatal("missing -f: an openstreetmap pbf file is required")
	}

	nodes, ways, err := osmgraph.ScanPBF(context.Background(), *mapFile)
	if err != nil {
		log.Fatal(err)
	}

	db, err := pebble.Open(*dbDir, &pebble.Options{})
	if err != nil {
		log.Fatal(err)
	}

	kvDB := kv.NewKVDB(db)
	defer kvDB.Close()

	streetWays := make([]kv.StreetWay, 0, len(ways))
	for _, w := range ways {
		streetWays = append(streetWays, kv.StreetWay{ID: w.ID, NodeIDs: w.NodeIDs, Tags: w.Tags})
	}

	kvDB.CreateStreetBuckets(nodes, streetWays)
	fmt.Printf("\nstreet buckets ready in %s\n", *dbDir)
}
