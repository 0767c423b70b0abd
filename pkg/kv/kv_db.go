package kv

import (
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/cockroachdb/pebble"
	"github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"
	"github.com/uber/h3-go/v4"

	"github.com/seen-one/Route-Crafter/pkg/concurrent"
	"github.com/seen-one/Route-Crafter/pkg/datastructure"
	"github.com/seen-one/Route-Crafter/pkg/geo"
)

// BucketResolution h3 resolution the street buckets are keyed at.
const BucketResolution = 9

// graph cache keys live in their own keyspace so they never collide with
// the h3 bucket keys
const graphKeyPrefix = "g/"

type KVDB struct {
	db *pebble.DB
}

func NewKVDB(db *pebble.DB) *KVDB {
	return &KVDB{db}
}

// CreateStreetBuckets groups ways by the res-9 h3 cell of their bounding box
// center and writes each bucket as one compressed record.
func (k *KVDB) CreateStreetBuckets(nodes map[int64]datastructure.Coordinate, ways []StreetWay) {
	bar := progressbar.NewOptions(len(ways),
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription("[cyan][3/4][reset] building h3 index for osm streets..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
	kv := make(map[string][]BucketWay)
	for _, w := range ways {
		coords := make([]datastructure.Coordinate, 0, len(w.NodeIDs))
		ids := make([]int64, 0, len(w.NodeIDs))
		for _, nID := range w.NodeIDs {
			c, ok := nodes[nID]
			if !ok {
				continue
			}
			coords = append(coords, c)
			ids = append(ids, nID)
		}
		if len(coords) < 2 {
			bar.Add(1)
			continue
		}

		centerLat, centerLon := wayCenter(coords)
		cell := h3.LatLngToCell(h3.NewLatLng(centerLat, centerLon), BucketResolution)
		kv[cell.String()] = append(kv[cell.String()], BucketWay{
			ID:       w.ID,
			NodeIDs:  ids,
			Polyline: EncodePolyline(coords),
			Tags:     w.Tags,
		})

		bar.Add(1)
	}

	fmt.Println("")
	bar = progressbar.NewOptions(len(kv),
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription("[cyan][4/4][reset] saving h3 indexed streets to pebble db..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	workers := concurrent.NewWorkerPool[concurrent.SaveBucketJobItem, interface{}](4, len(kv))

	for keyStr, valArr := range kv {
		conWay := make([]concurrent.BucketWay, len(valArr))
		for j := range valArr {
			conWay[j] = valArr[j].toConcurrentWay()
		}

		workers.AddJob(concurrent.SaveBucketJobItem{KeyStr: keyStr, ValArr: conWay})
		bar.Add(1)
	}
	workers.Close()

	workers.Start(k.SaveBucket)
	workers.Wait()
}

func (k *KVDB) SaveBucket(bucketItem concurrent.SaveBucketJobItem) interface{} {
	keyStr := bucketItem.KeyStr
	valArr := bucketItem.ValArr
	key := []byte(keyStr)
	ways := make([]BucketWay, len(valArr))
	for i, val := range valArr {
		ways[i] = BucketWay{
			ID:       val.ID,
			NodeIDs:  val.NodeIDs,
			Polyline: val.Polyline,
			Tags:     val.Tags,
		}
	}

	val, err := CompressBuckets(ways)
	if err != nil {
		log.Fatal(err)
	}
	if err := k.db.Set(key, val, pebble.Sync); err != nil {
		log.Fatal(err)
	}
	return nil
}

// WaysCoveringCells collects the bucket ways stored under the given cells,
// with their node coordinates decoded back out of the polylines. Cells with
// no bucket are skipped, so an unwarmed db just returns nothing.
func (k *KVDB) WaysCoveringCells(cells []h3.Cell) (map[int64]datastructure.Coordinate, []BucketWay, error) {
	nodes := make(map[int64]datastructure.Coordinate)
	ways := []BucketWay{}
	for _, cell := range cells {
		val, closer, err := k.db.Get([]byte(cell.String()))
		if err != nil {
			if errors.Is(err, pebble.ErrNotFound) {
				continue
			}
			return nil, nil, err
		}

		streets, err := LoadBuckets(val)
		closer.Close()
		if err != nil {
			return nil, nil, err
		}

		for _, w := range streets {
			coords, err := DecodePolyline(w.Polyline)
			if err != nil {
				return nil, nil, err
			}
			if len(coords) != len(w.NodeIDs) {
				continue
			}
			for i, nID := range w.NodeIDs {
				nodes[nID] = coords[i]
			}
			ways = append(ways, w)
		}
	}
	return nodes, ways, nil
}

// PutGraph caches an extracted street graph under the request fingerprint.
func (k *KVDB) PutGraph(fingerprint string, g *datastructure.StreetGraph) error {
	val, err := EncodeGraph(g)
	if err != nil {
		return err
	}
	return k.db.Set([]byte(graphKeyPrefix+fingerprint), val, pebble.Sync)
}

func (k *KVDB) GetGraph(fingerprint string) (*datastructure.StreetGraph, bool, error) {
	val, closer, err := k.db.Get([]byte(graphKeyPrefix + fingerprint))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	g, err := DecodeGraph(val)
	closer.Close()
	if err != nil {
		return nil, false, err
	}
	return g, true, nil
}

func wayCenter(coords []datastructure.Coordinate) (float64, float64) {
	lats := make([]float64, 0, len(coords))
	lons := make([]float64, 0, len(coords))
	for _, c := range coords {
		lats = append(lats, c.Lat)
		lons = append(lons, c.Lon)
	}
	sort.Float64s(lats)
	sort.Float64s(lons)
	return geo.MidPoint(lats[0], lons[0], lats[len(lats)-1], lons[len(lons)-1])
}

func (k *KVDB) Close() {
	k.db.Close()
}
