// Package gpx extracts the coordinates of a GPX document for map drawing.
package gpx

import (
	"errors"
	"fmt"

	"github.com/OldiBike/mototrip-planner-sub000/pkg/valueobjects"
	gpxgo "github.com/tkrajina/gpxgo/gpx"
)

// ErrNoTrackpoints is returned for a well-formed document without any usable point.
var ErrNoTrackpoints = errors.New("gpx: no trackpoints")

// Track is the flattened path of one GPX document.
type Track struct {
	Name   string
	Points []valueobjects.GeoPoint
}

// Parse reads trackpoints from every track segment, falling back to route
// points when the file carries no track. Points with invalid coordinates are
// dropped.
func Parse(raw []byte) (*Track, error) {
	doc, err := gpxgo.ParseBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("gpx: parse: %w", err)
	}

	track := &Track{Name: doc.Name}
	for _, t := range doc.Tracks {
		if track.Name == "" {
			track.Name = t.Name
		}
		for _, seg := range t.Segments {
			track.Points = appendPoints(track.Points, seg.Points)
		}
	}
	if len(track.Points) == 0 {
		for _, r := range doc.Routes {
			track.Points = appendPoints(track.Points, r.Points)
		}
	}
	if len(track.Points) == 0 {
		return nil, ErrNoTrackpoints
	}
	return track, nil
}

func appendPoints(dst []valueobjects.GeoPoint, points []gpxgo.GPXPoint) []valueobjects.GeoPoint {
	for _, p := range points {
		gp, err := valueobjects.NewGeoPoint(p.Latitude, p.Longitude)
		if err != nil {
			continue
		}
		dst = append(dst, *gp)
	}
	return dst
}

// Length is the path length in kilometers.
func (t *Track) Length() float64 {
	return valueobjects.PathLength(t.Points) / 1000
}

func (t *Track) Bounds() valueobjects.Bounds {
	return valueobjects.BoundsOf(t.Points)
}
