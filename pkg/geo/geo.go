package geo

import "math"

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance in kilometers between
// two [lng, lat] points. Matches the spherical distance the proximity
// queries report to callers.
func HaversineKm(lng1, lat1, lng2, lat2 float64) float64 {
	dLat := rad(lat2 - lat1)
	dLng := rad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// BoundingBox returns a lng/lat box that fully contains the circle of
// radiusKm around the point. Used as a cheap SQL prefilter before the
// exact haversine check.
func BoundingBox(lng, lat, radiusKm float64) (minLng, maxLng, minLat, maxLat float64) {
	dLat := (radiusKm / earthRadiusKm) * (180 / math.Pi)
	minLat = lat - dLat
	maxLat = lat + dLat

	// longitude degrees shrink with latitude; guard the poles
	cosLat := math.Cos(rad(lat))
	if cosLat < 1e-9 {
		return -180, 180, minLat, maxLat
	}
	dLng := dLat / cosLat
	minLng = lng - dLng
	maxLng = lng + dLng
	return
}

// ValidPoint checks a [lng, lat] pair against the coordinate domain.
func ValidPoint(lng, lat float64) bool {
	return lng >= -180 && lng <= 180 && lat >= -90 && lat <= 90
}

func rad(deg float64) float64 {
	return deg * math.Pi / 180
}
