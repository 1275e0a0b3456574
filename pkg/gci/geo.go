package gci

import "math"

const (
	earthRadiusKm     = 6371.0
	kmToNauticalMiles = 0.539957
	feetPerMeter      = 3.28084
	degreesToRadians  = math.Pi / 180
	radiansToDegrees  = 180 / math.Pi
)

func metersToFeet(meters float64) float64 {
	return meters * feetPerMeter
}

// rangeNM returns the great-circle distance between two points in nautical
// miles, by the haversine formula.
func rangeNM(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * degreesToRadians
	dLon := (lon2 - lon1) * degreesToRadians
	lat1Rad := lat1 * degreesToRadians
	lat2Rad := lat2 * degreesToRadians

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	a := sinLat*sinLat + sinLon*sinLon*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c * kmToNauticalMiles
}

// bearingDegrees returns the initial great-circle bearing from the first
// point to the second, normalized to [0, 360).
func bearingDegrees(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * degreesToRadians
	lat2Rad := lat2 * degreesToRadians
	dLon := (lon2 - lon1) * degreesToRadians

	y := math.Sin(dLon) * math.Cos(lat2Rad)
	x := math.Cos(lat1Rad)*math.Sin(lat2Rad) - math.Sin(lat1Rad)*math.Cos(lat2Rad)*math.Cos(dLon)
	bearing := math.Atan2(y, x) * radiansToDegrees
	return math.Mod(bearing+360, 360)
}

// cardinalPoint maps a heading in degrees to one of the eight compass
// points, using the same integer band edges the voice procedures expect.
func cardinalPoint(heading float64) string {
	switch deg := (int(heading) + 360) % 360; {
	case deg <= 22 || deg >= 338:
		return "north"
	case deg <= 67:
		return "north east"
	case deg <= 112:
		return "east"
	case deg <= 157:
		return "south east"
	case deg <= 202:
		return "south"
	case deg <= 247:
		return "south west"
	case deg <= 292:
		return "west"
	default:
		return "north west"
	}
}
