package spatial

import (
	"math"

	"github.com/golang/geo/s2"
)

// EarthRadiusMeters is the Earth's mean radius, used for great-circle math.
const EarthRadiusMeters = 6371000.0

// HaversineDistance calculates the great-circle distance between two points
// in meters.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// Bearing calculates the initial bearing (forward azimuth) from point 1 to
// point 2. Returns degrees in [0,360), 0 = North, 90 = East.
func Bearing(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	lonDiff := (lon2 - lon1) * math.Pi / 180

	y := math.Sin(lonDiff) * math.Cos(lat2Rad)
	x := math.Cos(lat1Rad)*math.Sin(lat2Rad) - math.Sin(lat1Rad)*math.Cos(lat2Rad)*math.Cos(lonDiff)
	bearing := math.Atan2(y, x)

	bearingDeg := bearing * 180 / math.Pi
	return math.Mod(bearingDeg+360, 360)
}

// DestinationPoint calculates the point reached from a start point on the
// given bearing (degrees) after the given distance (meters).
func DestinationPoint(lat, lon, bearing, distance float64) (float64, float64) {
	p := s2.LatLngFromDegrees(lat, lon)
	bearingRad := bearing * math.Pi / 180
	angularDistance := distance / EarthRadiusMeters

	latRad := p.Lat.Radians()
	lonRad := p.Lng.Radians()

	lat2 := math.Asin(math.Sin(latRad)*math.Cos(angularDistance) +
		math.Cos(latRad)*math.Sin(angularDistance)*math.Cos(bearingRad))

	lon2 := lonRad + math.Atan2(
		math.Sin(bearingRad)*math.Sin(angularDistance)*math.Cos(latRad),
		math.Cos(angularDistance)-math.Sin(latRad)*math.Sin(lat2))

	return lat2 * 180 / math.Pi, lon2 * 180 / math.Pi
}

// PolygonAreaLatLng calculates the area (m2) of a closed lat/lng ring using
// the shoelace formula on an equirectangular projection at the ring's mean
// latitude. Used to cross-check areas computed in the simulation's local
// metric frame.
func PolygonAreaLatLng(ring [][2]float64) float64 {
	if len(ring) < 3 {
		return 0
	}

	var meanLat float64
	for _, p := range ring {
		meanLat += p[0]
	}
	meanLat /= float64(len(ring))

	mPerDegLat := EarthRadiusWGS84 * math.Pi / 180
	mPerDegLng := mPerDegLat * math.Cos(meanLat*math.Pi/180)

	var sum float64
	n := len(ring)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		xi, yi := ring[i][1]*mPerDegLng, ring[i][0]*mPerDegLat
		xj, yj := ring[j][1]*mPerDegLng, ring[j][0]*mPerDegLat
		sum += xi*yj - xj*yi
	}
	return math.Abs(sum) / 2
}
