package kv

import (
	"github.com/DataDog/zstd"
	"github.com/kelindar/binary"
	"github.com/twpayne/go-polyline"

	"github.com/seen-one/Route-Crafter/pkg/concurrent"
	"github.com/seen-one/Route-Crafter/pkg/datastructure"
)

// coordinates keep 6 decimals through the cache, the polyline default of 5
// loses about a meter
var bucketCodec = polyline.Codec{Dim: 2, Scale: 1e6}

// BucketWay compact openstreetmap way inside one h3 street bucket.
type BucketWay struct {
	ID       int64
	NodeIDs  []int64
	Polyline string
	Tags     map[string]string
}

func (b *BucketWay) toConcurrentWay() concurrent.BucketWay {
	return concurrent.BucketWay{
		ID:       b.ID,
		NodeIDs:  b.NodeIDs,
		Polyline: b.Polyline,
		Tags:     b.Tags,
	}
}

// StreetWay raw way handed to the bucket writer, geometry still as node ids.
type StreetWay struct {
	ID      int64
	NodeIDs []int64
	Tags    map[string]string
}

type graphEdgeRecord struct {
	From     int32
	To       int32
	Dist     float64
	Geometry string
}

type graphRecord struct {
	Nodes string
	Edges []graphEdgeRecord
}

func Encode(ways []BucketWay) []byte {
	encoded, _ := binary.Marshal(ways)
	return encoded
}

func Decode(bb []byte) ([]BucketWay, error) {
	var ways []BucketWay
	err := binary.Unmarshal(bb, &ways)
	return ways, err
}

func Compress(bb []byte) ([]byte, error) {
	var bbCompressed []byte
	bbCompressed, err := zstd.Compress(bbCompressed, bb)
	if err != nil {
		return []byte{}, err
	}
	return bbCompressed, nil
}

func Decompress(bbCompressed []byte) ([]byte, error) {
	var bb []byte
	bb, err := zstd.Decompress(bb, bbCompressed)
	if err != nil {
		return []byte{}, err
	}

	return bb, nil
}

func CompressBuckets(ways []BucketWay) ([]byte, error) {
	return Compress(Encode(ways))
}

func LoadBuckets(val []byte) ([]BucketWay, error) {
	decompressed, err := Decompress(val)
	if err != nil {
		return nil, err
	}
	return Decode(decompressed)
}

func EncodePolyline(coords []datastructure.Coordinate) string {
	cc := make([][]float64, 0, len(coords))
	for _, c := range coords {
		cc = append(cc, []float64{c.Lat, c.Lon})
	}
	return string(bucketCodec.EncodeCoords(nil, cc))
}

func DecodePolyline(s string) ([]datastructure.Coordinate, error) {
	cc, _, err := bucketCodec.DecodeCoords([]byte(s))
	if err != nil {
		return nil, err
	}
	coords := make([]datastructure.Coordinate, 0, len(cc))
	for _, c := range cc {
		coords = append(coords, datastructure.Coordinate{Lat: c[0], Lon: c[1]})
	}
	return coords, nil
}

// EncodeGraph street graph -> binary record -> zstd. Edge geometry rides as
// polylines so cached graphs stay small.
func EncodeGraph(g *datastructure.StreetGraph) ([]byte, error) {
	record := graphRecord{
		Nodes: EncodePolyline(g.Nodes),
		Edges: make([]graphEdgeRecord, 0, g.NumEdges()),
	}
	for _, e := range g.Edges {
		record.Edges = append(record.Edges, graphEdgeRecord{
			From:     e.From,
			To:       e.To,
			Dist:     e.Dist,
			Geometry: EncodePolyline(e.Geometry),
		})
	}

	encoded, err := binary.Marshal(&record)
	if err != nil {
		return nil, err
	}
	return Compress(encoded)
}

func DecodeGraph(bb []byte) (*datastructure.StreetGraph, error) {
	decompressed, err := Decompress(bb)
	if err != nil {
		return nil, err
	}
	var record graphRecord
	if err := binary.Unmarshal(decompressed, &record); err != nil {
		return nil, err
	}

	nodes, err := DecodePolyline(record.Nodes)
	if err != nil {
		return nil, err
	}
	edges := make([]datastructure.StreetEdge, 0, len(record.Edges))
	for _, e := range record.Edges {
		geom, err := DecodePolyline(e.Geometry)
		if err != nil {
			return nil, err
		}
		edges = append(edges, datastructure.StreetEdge{
			From:     e.From,
			To:       e.To,
			Dist:     e.Dist,
			Geometry: geom,
		})
	}
	return datastructure.NewStreetGraph(nodes, edges)
}
