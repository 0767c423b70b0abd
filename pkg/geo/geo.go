package geo

import "math"

// haversine distance
const earthRadiusKM = 6371.0

type Location struct {
	Latitude  float64
	Longitude float64
}

func degreeToRadians(angle float64) float64 {
	return angle * (math.Pi / 180.0)
}

func NewLocation(latDegree float64, lonDegree float64) Location {
	return Location{
		Latitude:  degreeToRadians(latDegree),
		Longitude: degreeToRadians(lonDegree),
	}
}

func havFunction(angleRad float64) float64 {
	return (1 - math.Cos(angleRad)) / 2.0
}

func havFormula(locationOne Location, locationTwo Location) float64 {
	latitudeDiff := locationOne.Latitude - locationTwo.Latitude
	longitudeDiff := locationOne.Longitude - locationTwo.Longitude

	havLatitude := havFunction(latitudeDiff)
	havLongitude := havFunction(longitudeDiff)

	return havLatitude + math.Cos(locationOne.Latitude)*math.Cos(locationTwo.Latitude)*havLongitude
}

func archaversine(havAngle float64) float64 {
	sqrtHavAngle := math.Sqrt(havAngle)
	return 2.0 * math.Asin(sqrtHavAngle)
}

// HaversineDistance distance between 2 coordinates in km
func HaversineDistance(locationOne Location, locationTwo Location) float64 {
	havCentralAngle := havFormula(locationOne, locationTwo)
	centralAngleRad := archaversine(havCentralAngle)
	return earthRadiusKM * centralAngleRad
}

// HaversineDistanceM distance between 2 coordinates in meter
func HaversineDistanceM(latOne, lonOne, latTwo, lonTwo float64) float64 {
	return HaversineDistance(NewLocation(latOne, lonOne), NewLocation(latTwo, lonTwo)) * 1000
}

//	φ is latitude, λ is longitude
//
// https://www.movable-type.co.uk/scripts/latlong.html
func MidPoint(lat1, lon1 float64, lat2, lon2 float64) (float64, float64) {
	p1LatRad := degreeToRadians(lat1)
	p2LatRad := degreeToRadians(lat2)

	diffLon := degreeToRadians(lon2 - lon1)

	bx := math.Cos(p2LatRad) * math.Cos(diffLon)
	by := math.Cos(p2LatRad) * math.Sin(diffLon)

	newLon := degreeToRadians(lon1) + math.Atan2(by, math.Cos(p1LatRad)+bx)
	newLat := math.Atan2(math.Sin(p1LatRad)+math.Sin(p2LatRad), math.Sqrt((math.Cos(p1LatRad)+bx)*(math.Cos(p1LatRad)+bx)+by*by))

	return radToDeg(newLat), radToDeg(newLon)
}

func radToDeg(r float64) float64 {
	return 180.0 * r / math.Pi
}

/*
BearingTo. bearing angle for the edge (p1,p2).
https://www.movable-type.co.uk/scripts/latlong.html
*/
func BearingTo(p1Lat, p1Lon, p2Lat, p2Lon float64) float64 {
	dLon := (p2Lon - p1Lon) * math.Pi / 180.0

	lat1 := p1Lat * math.Pi / 180.0
	lat2 := p2Lat * math.Pi / 180.0

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) -
		math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	brng := math.Atan2(y, x) * 180.0 / math.Pi

	return brng
}
