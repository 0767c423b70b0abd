package osmgraph

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/k0kubun/go-ansi"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/schollz/progressbar/v3"

	"github.com/seen-one/Route-Crafter/pkg/datastructure"
)

// ScanPBF two pass scan over an openstreetmap pbf extract: street ways first,
// then only the nodes those ways reference. Feeds the offline street bucket
// preprocessing.
func ScanPBF(ctx context.Context, path string) (map[int64]datastructure.Coordinate, []ParsedWay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription("[cyan][1/3][reset] scanning openstreetmap ways..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	scanner := osmpbf.New(ctx, f, 3)

	ways := []ParsedWay{}
	wayNodes := make(map[osm.NodeID]bool)
	count := 0
	for scanner.Scan() {
		o := scanner.Object()
		count++
		if count%50000 == 0 {
			bar.Add(50000)
		}
		way, ok := o.(*osm.Way)
		if !ok {
			continue
		}
		tags := way.TagMap()
		if !KeepStreetWay(tags) {
			continue
		}

		nodeIDs := make([]int64, 0, len(way.Nodes))
		for _, n := range way.Nodes {
			nodeIDs = append(nodeIDs, int64(n.ID))
			wayNodes[n.ID] = true
		}
		ways = append(ways, ParsedWay{ID: int64(way.ID), NodeIDs: nodeIDs, Tags: tags})
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, nil, err
	}
	scanner.Close()

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, nil, err
	}

	fmt.Println("")
	bar = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription("[cyan][2/3][reset] scanning openstreetmap nodes..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	nodes := make(map[int64]datastructure.Coordinate, len(wayNodes))
	scanner = osmpbf.New(ctx, f, 3)
	defer scanner.Close()
	count = 0
	for scanner.Scan() {
		o := scanner.Object()
		count++
		if count%50000 == 0 {
			bar.Add(50000)
		}
		node, ok := o.(*osm.Node)
		if !ok {
			continue
		}
		if wayNodes[node.ID] {
			nodes[int64(node.ID)] = datastructure.Coordinate{Lat: node.Lat, Lon: node.Lon}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}

	fmt.Println("")
	return nodes, ways, nil
}
