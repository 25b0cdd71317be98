package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKm(t *testing.T) {
	// same point
	assert.Zero(t, HaversineKm(72.836036, 19.064318, 72.836036, 19.064318))

	// two pothole reports ~40m apart on the same street
	d := HaversineKm(72.836036, 19.064318, 72.8362, 19.0644)
	assert.Less(t, d, 0.05)
	assert.Greater(t, d, 0.01)

	// Mumbai CST to Gateway of India, roughly 2.3 km
	d = HaversineKm(72.835422, 18.940086, 72.834654, 18.921918)
	assert.InDelta(t, 2.0, d, 0.3)

	// one degree of latitude ≈ 111.2 km
	d = HaversineKm(0, 0, 0, 1)
	assert.InDelta(t, 111.2, d, 0.5)
}

func TestBoundingBoxContainsRadius(t *testing.T) {
	lng, lat := 72.836036, 19.064318
	minLng, maxLng, minLat, maxLat := BoundingBox(lng, lat, 0.5)

	assert.Less(t, minLng, lng)
	assert.Greater(t, maxLng, lng)
	assert.Less(t, minLat, lat)
	assert.Greater(t, maxLat, lat)

	// a point 500m due north must be inside the box
	north := lat + 0.5/111.2
	assert.LessOrEqual(t, north, maxLat)
}

func TestValidPoint(t *testing.T) {
	assert.True(t, ValidPoint(72.8, 19.0))
	assert.True(t, ValidPoint(-180, -90))
	assert.True(t, ValidPoint(180, 90))
	assert.False(t, ValidPoint(181, 0))
	assert.False(t, ValidPoint(0, 91))
	assert.False(t, ValidPoint(-200, 0))
}
