package valueobjects

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoPoint(t *testing.T) {
	tests := []struct {
		name        string
		latitude    float64
		longitude   float64
		shouldError bool
	}{
		{name: "valid coordinates", latitude: 44.8986, longitude: 6.6435},
		{name: "invalid latitude - too high", latitude: 91.0, shouldError: true},
		{name: "invalid latitude - too low", latitude: -91.0, shouldError: true},
		{name: "invalid longitude - too high", longitude: 181.0, shouldError: true},
		{name: "invalid longitude - too low", longitude: -181.0, shouldError: true},
		{name: "edge case - max valid values", latitude: 90.0, longitude: 180.0},
		{name: "edge case - min valid values", latitude: -90.0, longitude: -180.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			point, err := NewGeoPoint(tt.latitude, tt.longitude)
			if tt.shouldError {
				assert.Error(t, err)
				assert.Nil(t, point)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.latitude, point.Latitude())
			assert.Equal(t, tt.longitude, point.Longitude())
		})
	}
}

func TestDistanceTo(t *testing.T) {
	paris := GeoPoint{latitude: 48.8566, longitude: 2.3522}
	lyon := GeoPoint{latitude: 45.7640, longitude: 4.8357}

	assert.InDelta(t, 392000, paris.DistanceTo(lyon), 2000)
	assert.Equal(t, 0.0, paris.DistanceTo(paris))
}

func TestPathLength(t *testing.T) {
	a := GeoPoint{latitude: 45.0, longitude: 6.0}
	b := GeoPoint{latitude: 45.1, longitude: 6.0}
	c := GeoPoint{latitude: 45.2, longitude: 6.0}

	assert.InDelta(t, a.DistanceTo(c), PathLength([]GeoPoint{a, b, c}), 0.001)
	assert.Equal(t, 0.0, PathLength([]GeoPoint{a}))
	assert.Equal(t, 0.0, PathLength(nil))
}

func TestBounds(t *testing.T) {
	assert.True(t, BoundsOf(nil).IsEmpty())

	first := BoundsOf([]GeoPoint{{latitude: 45, longitude: 6}, {latitude: 44.5, longitude: 6.5}})
	second := BoundsOf([]GeoPoint{{latitude: 46, longitude: 5.5}})

	union := first.Union(second)
	assert.Equal(t, GeoPoint{latitude: 44.5, longitude: 5.5}, union.SouthWest)
	assert.Equal(t, GeoPoint{latitude: 46, longitude: 6.5}, union.NorthEast)

	assert.Equal(t, first, first.Union(EmptyBounds()))
	assert.Equal(t, second, EmptyBounds().Union(second))
}

func TestBoundsJSON(t *testing.T) {
	raw, err := json.Marshal(BoundsOf([]GeoPoint{{latitude: 45, longitude: 6}}))
	require.NoError(t, err)
	assert.JSONEq(t, `[[45,6],[45,6]]`, string(raw))

	raw, err = json.Marshal(EmptyBounds())
	require.NoError(t, err)
	assert.Equal(t, "null", string(raw))
}
