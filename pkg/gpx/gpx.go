// Package gpx renders computed routes as gpx 1.1 documents.
package gpx

import (
	"encoding/xml"
	"io"
	"strings"
	"time"

	gogpx "github.com/twpayne/go-gpx"

	"github.com/seen-one/Route-Crafter/pkg/datastructure"
)

const (
	creator   = "Route-Crafter"
	trackName = "Generated Route"
)

// Write renders coords as a single-track document with the route center as a
// waypoint, xml header included.
func Write(w io.Writer, coords []datastructure.Coordinate, center datastructure.Coordinate, stamp time.Time) error {
	trkPts := make([]*gogpx.WptType, 0, len(coords))
	for _, c := range coords {
		trkPts = append(trkPts, &gogpx.WptType{Lat: c.Lat, Lon: c.Lon})
	}

	doc := &gogpx.GPX{
		Version: "1.1",
		Creator: creator,
		Metadata: &gogpx.MetadataType{
			Name: trackName,
			Time: stamp,
		},
		Wpt: []*gogpx.WptType{{
			Lat:  center.Lat,
			Lon:  center.Lon,
			Name: "center",
		}},
		Trk: []*gogpx.TrkType{{
			Name: trackName,
			TrkSeg: []*gogpx.TrkSegType{{
				TrkPt: trkPts,
			}},
		}},
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	return doc.WriteIndent(w, "", "  ")
}

// String renders the document into the string the http response carries.
func String(coords []datastructure.Coordinate, center datastructure.Coordinate, stamp time.Time) (string, error) {
	var sb strings.Builder
	if err := Write(&sb, coords, center, stamp); err != nil {
		return "", err
	}
	return sb.String(), nil
}
