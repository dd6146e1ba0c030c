package valueobjects

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/OldiBike/mototrip-planner-sub000/errors"
)

// GeoPoint represents a geographic point with latitude and longitude
type GeoPoint struct {
	latitude  float64
	longitude float64
}

// NewGeoPoint creates a new GeoPoint with validation
func NewGeoPoint(lat, lng float64) (*GeoPoint, error) {
	if err := validateCoordinates(lat, lng); err != nil {
		return nil, err
	}

	return &GeoPoint{
		latitude:  lat,
		longitude: lng,
	}, nil
}

// Latitude returns the latitude value
func (g GeoPoint) Latitude() float64 {
	return g.latitude
}

// Longitude returns the longitude value
func (g GeoPoint) Longitude() float64 {
	return g.longitude
}

// DistanceTo calculates the distance to another point in meters using the Haversine formula
func (g GeoPoint) DistanceTo(other GeoPoint) float64 {
	const earthRadius = 6371000

	lat1 := degreesToRadians(g.latitude)
	lng1 := degreesToRadians(g.longitude)
	lat2 := degreesToRadians(other.latitude)
	lng2 := degreesToRadians(other.longitude)

	dlat := lat2 - lat1
	dlng := lng2 - lng1

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dlng/2)*math.Sin(dlng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}

func (g GeoPoint) String() string {
	return fmt.Sprintf("(%f, %f)", g.latitude, g.longitude)
}

// MarshalJSON emits the [lat, lng] pair map libraries expect.
func (g GeoPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{g.latitude, g.longitude})
}

// PathLength sums the great-circle legs of a path, in meters.
func PathLength(path []GeoPoint) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += path[i-1].DistanceTo(path[i])
	}
	return total
}

// Bounds is the smallest lat/lng rectangle holding a set of points.
type Bounds struct {
	SouthWest GeoPoint
	NorthEast GeoPoint
	empty     bool
}

// EmptyBounds holds no point yet.
func EmptyBounds() Bounds {
	return Bounds{empty: true}
}

// BoundsOf returns the bounds of path; empty when path is.
func BoundsOf(path []GeoPoint) Bounds {
	b := EmptyBounds()
	for _, p := range path {
		b = b.Extend(p)
	}
	return b
}

func (b Bounds) IsEmpty() bool {
	return b.empty
}

// Extend grows b to hold p.
func (b Bounds) Extend(p GeoPoint) Bounds {
	if b.empty {
		return Bounds{SouthWest: p, NorthEast: p}
	}
	return Bounds{
		SouthWest: GeoPoint{latitude: math.Min(b.SouthWest.latitude, p.latitude), longitude: math.Min(b.SouthWest.longitude, p.longitude)},
		NorthEast: GeoPoint{latitude: math.Max(b.NorthEast.latitude, p.latitude), longitude: math.Max(b.NorthEast.longitude, p.longitude)},
	}
}

// Union returns the bounds holding both b and other.
func (b Bounds) Union(other Bounds) Bounds {
	if other.empty {
		return b
	}
	return b.Extend(other.SouthWest).Extend(other.NorthEast)
}

// MarshalJSON emits [[south, west], [north, east]], or null when empty.
func (b Bounds) MarshalJSON() ([]byte, error) {
	if b.empty {
		return []byte("null"), nil
	}
	return json.Marshal([2]GeoPoint{b.SouthWest, b.NorthEast})
}

func validateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 || math.IsNaN(lat) {
		return errors.ValidationFailed(
			"invalid latitude",
			fmt.Sprintf("latitude %f is outside valid range [-90, 90]", lat),
		)
	}

	if lng < -180 || lng > 180 || math.IsNaN(lng) {
		return errors.ValidationFailed(
			"invalid longitude",
			fmt.Sprintf("longitude %f is outside valid range [-180, 180]", lng),
		)
	}

	return nil
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
