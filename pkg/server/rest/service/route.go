package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/uber/h3-go/v4"

	"github.com/seen-one/Route-Crafter/pkg/admission"
	"github.com/seen-one/Route-Crafter/pkg/datastructure"
	"github.com/seen-one/Route-Crafter/pkg/geo"
	"github.com/seen-one/Route-Crafter/pkg/gpx"
	"github.com/seen-one/Route-Crafter/pkg/inspector"
	"github.com/seen-one/Route-Crafter/pkg/kv"
	"github.com/seen-one/Route-Crafter/pkg/osmgraph"
	"github.com/seen-one/Route-Crafter/pkg/server"
)

const DefaultConsolidateTolerance = 15.0

type OverpassAPI interface {
	FetchWays(ctx context.Context, polygon []datastructure.Coordinate, filter string) (map[int64]datastructure.Coordinate, []osmgraph.ParsedWay, error)
}

type KVDB interface {
	WaysCoveringCells(cells []h3.Cell) (map[int64]datastructure.Coordinate, []kv.BucketWay, error)
	GetGraph(fingerprint string) (*datastructure.StreetGraph, bool, error)
	PutGraph(fingerprint string, g *datastructure.StreetGraph) error
}

type RouteInspector interface {
	Inspect(ctx context.Context, g *datastructure.StreetGraph) (*inspector.RouteResult, error)
}

type AdmissionController interface {
	Acquire(clientID string) (func(), error)
	Timeout() time.Duration
}

type RouteParams struct {
	Polygon              []datastructure.Coordinate
	TruncateByEdge       bool
	ConsolidateTolerance float64
	CustomFilter         string
}

type RouteData struct {
	Gpx    string
	Path   string
	Center datastructure.Coordinate
	Stats  inspector.RouteStats
}

type RouteCrafterService struct {
	overpass   OverpassAPI
	kv         KVDB
	inspector  RouteInspector
	admission  AdmissionController
	maxAreaKm2 float64
}

func NewRouteCrafterService(overpass OverpassAPI, kvdb KVDB, insp RouteInspector, adm AdmissionController, maxAreaKm2 float64) *RouteCrafterService {
	return &RouteCrafterService{overpass: overpass, kv: kvdb, inspector: insp, admission: adm, maxAreaKm2: maxAreaKm2}
}

// GenerateRoute validate the polygon, then run the whole extraction and
// inspection pipeline under the admission controller. Validation happens
// before admission so a bad request never spends a computation slot.
func (uc *RouteCrafterService) GenerateRoute(ctx context.Context, clientID string, params RouteParams) (RouteData, error) {
	lats := make([]float64, 0, len(params.Polygon))
	lons := make([]float64, 0, len(params.Polygon))
	for _, c := range params.Polygon {
		lats = append(lats, c.Lat)
		lons = append(lons, c.Lon)
	}
	if err := geo.ValidateRing(lats, lons); err != nil {
		return RouteData{}, server.WrapErrorf(err, server.ErrBadParamInput, "Invalid polygon coordinates provided")
	}
	if area := geo.RingAreaKm2(lats, lons); area > uc.maxAreaKm2 {
		return RouteData{}, server.WrapErrorf(nil, server.ErrBadParamInput,
			"polygon covers %.1f km2, the maximum is %.1f km2", area, uc.maxAreaKm2)
	}

	return admission.Do(ctx, uc.admission, clientID, func(jobCtx context.Context) (RouteData, error) {
		return uc.computeRoute(jobCtx, params)
	})
}

func (uc *RouteCrafterService) computeRoute(ctx context.Context, params RouteParams) (RouteData, error) {
	g, err := uc.extractGraph(ctx, params)
	if err != nil {
		return RouteData{}, err
	}

	result, err := uc.inspector.Inspect(ctx, g)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
			return RouteData{}, err
		case errors.Is(err, inspector.ErrNotEulerian) ||
			errors.Is(err, inspector.ErrGeometryExhausted) ||
			errors.Is(err, inspector.ErrDisconnectedPair):
			// the extraction already reduced the graph to one component, so
			// none of these should be reachable
			log.Printf("[invariant] route inspection failed: %v", err)
			return RouteData{}, server.WrapErrorf(err, server.ErrInternalServerError, server.MessageInternalServerError)
		default:
			return RouteData{}, server.WrapErrorf(err, server.ErrInternalServerError, server.MessageInternalServerError)
		}
	}

	gpxDoc, err := gpx.String(result.Coordinates, result.Center, time.Now())
	if err != nil {
		return RouteData{}, server.WrapErrorf(err, server.ErrInternalServerError, server.MessageInternalServerError)
	}

	return RouteData{
		Gpx:    gpxDoc,
		Path:   datastructure.RenderPath(result.Coordinates),
		Center: result.Center,
		Stats:  result.Stats,
	}, nil
}

// extractGraph turns the polygon into a consolidated, single component
// street graph, going through the graph cache, the local street buckets and
// finally overpass. A custom filter bypasses the buckets, an arbitrary
// overpass expression cannot be evaluated against them.
func (uc *RouteCrafterService) extractGraph(ctx context.Context, params RouteParams) (*datastructure.StreetGraph, error) {
	fp := fingerprint(params)
	g, ok, err := uc.kv.GetGraph(fp)
	if err != nil {
		log.Printf("graph cache read failed: %v", err)
	} else if ok {
		return g, nil
	}

	tester := osmgraph.NewPolygonTester(params.Polygon)

	var nodes map[int64]datastructure.Coordinate
	var ways []osmgraph.ParsedWay
	if params.CustomFilter == "" {
		bucketNodes, bucketWays, err := uc.kv.WaysCoveringCells(tester.CoverageCells(1))
		if err != nil {
			log.Printf("street bucket read failed: %v", err)
		} else if len(bucketWays) > 0 {
			nodes = bucketNodes
			for _, w := range bucketWays {
				ways = append(ways, osmgraph.ParsedWay{ID: w.ID, NodeIDs: w.NodeIDs, Tags: w.Tags})
			}
		}
	}

	if len(ways) == 0 {
		filter := params.CustomFilter
		if filter == "" {
			filter = osmgraph.DefaultStreetFilter
		}
		nodes, ways, err = uc.overpass.FetchWays(ctx, params.Polygon, filter)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				return nil, err
			}
			return nil, server.WrapErrorf(err, server.ErrInternalServerError, "failed to fetch streets from overpass")
		}
	}

	g, err = osmgraph.BuildStreetGraph(nodes, ways, tester, params.TruncateByEdge)
	if err != nil {
		return nil, noStreetsError(err)
	}
	if params.ConsolidateTolerance > 0 {
		g, err = osmgraph.Consolidate(g, params.ConsolidateTolerance)
		if err != nil {
			return nil, noStreetsError(err)
		}
	}
	g, err = osmgraph.LargestComponent(g)
	if err != nil {
		return nil, noStreetsError(err)
	}

	if err := uc.kv.PutGraph(fp, g); err != nil {
		log.Printf("graph cache write failed: %v", err)
	}
	return g, nil
}

func noStreetsError(err error) error {
	if errors.Is(err, osmgraph.ErrNoStreets) {
		return server.WrapErrorf(err, server.ErrBadParamInput, "no streets found inside the polygon")
	}
	return server.WrapErrorf(err, server.ErrInternalServerError, server.MessageInternalServerError)
}

// fingerprint keys the graph cache on everything extraction depends on.
func fingerprint(params RouteParams) string {
	var sb strings.Builder
	for _, c := range params.Polygon {
		sb.WriteString(strconv.FormatFloat(c.Lat, 'f', -1, 64))
		sb.WriteByte(',')
		sb.WriteString(strconv.FormatFloat(c.Lon, 'f', -1, 64))
		sb.WriteByte(';')
	}
	sb.WriteString("|t=")
	sb.WriteString(strconv.FormatBool(params.TruncateByEdge))
	sb.WriteString("|c=")
	sb.WriteString(strconv.FormatFloat(params.ConsolidateTolerance, 'f', -1, 64))
	sb.WriteString("|f=")
	sb.WriteString(params.CustomFilter)

	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}
