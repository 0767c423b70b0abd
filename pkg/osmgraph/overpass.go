package osmgraph

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmxml"

	"github.com/seen-one/Route-Crafter/pkg/datastructure"
)

const DefaultOverpassEndpoint = "https://overpass-api.de/api/interpreter"

// overpass side query timeout in second
const overpassQueryTimeout = 180

// ParsedWay one openstreetmap way with the tags the street filter looks at.
type ParsedWay struct {
	ID      int64
	NodeIDs []int64
	Tags    map[string]string
}

type OverpassClient struct {
	endpoint string
	client   *http.Client
}

func NewOverpassClient(endpoint string, timeout time.Duration) *OverpassClient {
	if endpoint == "" {
		endpoint = DefaultOverpassEndpoint
	}
	return &OverpassClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// FetchWays download every street way touching the polygon plus the nodes
// they reference. filter is an overpass way filter expression, empty means
// DefaultStreetFilter.
func (c *OverpassClient) FetchWays(ctx context.Context, polygon []datastructure.Coordinate, filter string) (map[int64]datastructure.Coordinate, []ParsedWay, error) {
	query := buildOverpassQuery(polygon, filter)

	form := url.Values{}
	form.Set("data", query)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("overpass request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("overpass returned status %d", resp.StatusCode)
	}

	nodes := make(map[int64]datastructure.Coordinate)
	ways := []ParsedWay{}

	scanner := osmxml.New(ctx, resp.Body)
	defer scanner.Close()
	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			nodes[int64(o.ID)] = datastructure.Coordinate{Lat: o.Lat, Lon: o.Lon}
		case *osm.Way:
			nodeIDs := make([]int64, 0, len(o.Nodes))
			for _, n := range o.Nodes {
				nodeIDs = append(nodeIDs, int64(n.ID))
			}
			ways = append(ways, ParsedWay{
				ID:      int64(o.ID),
				NodeIDs: nodeIDs,
				Tags:    o.TagMap(),
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("overpass response: %w", err)
	}

	return nodes, ways, nil
}

func buildOverpassQuery(polygon []datastructure.Coordinate, filter string) string {
	if filter == "" {
		filter = DefaultStreetFilter
	}

	var poly strings.Builder
	for i, c := range polygon {
		if i > 0 {
			poly.WriteByte(' ')
		}
		poly.WriteString(strconv.FormatFloat(c.Lat, 'f', -1, 64))
		poly.WriteByte(' ')
		poly.WriteString(strconv.FormatFloat(c.Lon, 'f', -1, 64))
	}

	return fmt.Sprintf(`[out:xml][timeout:%d];(way%s(poly:"%s");>;);out body;`,
		overpassQueryTimeout, filter, poly.String())
}
