package osmgraph

// DefaultStreetFilter overpass way filter for streets a route should cover.
// Footways, motorways and anything not publicly walkable/drivable stay out.
const DefaultStreetFilter = `["highway"]["area"!~"yes"]` +
	`["highway"!~"bridleway|bus_guideway|construction|cycleway|elevator|footway|motorway|motorway_junction|motorway_link|escalator|proposed|platform|raceway|rest_area|path"]` +
	`["access"!~"customers|no|private"]["public_transport"!~"platform"]["fee"!~"yes"]` +
	`["foot"!~"no"]["service"!~"drive-through|driveway|parking_aisle"]["toll"!~"yes"]`

var excludedHighway = map[string]bool{
	"bridleway":         true,
	"bus_guideway":      true,
	"construction":      true,
	"cycleway":          true,
	"elevator":          true,
	"footway":           true,
	"motorway":          true,
	"motorway_junction": true,
	"motorway_link":     true,
	"escalator":         true,
	"proposed":          true,
	"platform":          true,
	"raceway":           true,
	"rest_area":         true,
	"path":              true,
}

var excludedAccess = map[string]bool{
	"customers": true,
	"no":        true,
	"private":   true,
}

var excludedService = map[string]bool{
	"drive-through": true,
	"driveway":      true,
	"parking_aisle": true,
}

// KeepStreetWay same rules as DefaultStreetFilter, applied locally when ways
// come from a pbf extract instead of overpass.
func KeepStreetWay(tags map[string]string) bool {
	highway, ok := tags["highway"]
	if !ok {
		return false
	}
	if excludedHighway[highway] {
		return false
	}
	if tags["area"] == "yes" {
		return false
	}
	if excludedAccess[tags["access"]] {
		return false
	}
	if tags["public_transport"] == "platform" {
		return false
	}
	if tags["fee"] == "yes" {
		return false
	}
	if tags["foot"] == "no" {
		return false
	}
	if excludedService[tags["service"]] {
		return false
	}
	if tags["toll"] == "yes" {
		return false
	}
	return true
}
