package tripbuilder

import (
	"context"

	"github.com/OldiBike/mototrip-planner-sub000/internal/adminapi"
	"github.com/OldiBike/mototrip-planner-sub000/logger"
	"github.com/OldiBike/mototrip-planner-sub000/pkg/gpx"
	"github.com/OldiBike/mototrip-planner-sub000/pkg/valueobjects"
)

// trackPalette gives each drawn day its own colour, cycling past ten days.
var trackPalette = []string{
	"#e6194b", "#3cb44b", "#4363d8", "#f58231", "#911eb4",
	"#42d4f4", "#f032e6", "#9a6324", "#469990", "#800000",
}

// TrackLayer is one day's path on the shared map.
type TrackLayer struct {
	DayID    string                  `json:"dayId"`
	DayName  string                  `json:"dayName"`
	Color    string                  `json:"color"`
	LengthKm float64                 `json:"lengthKm"`
	Points   []valueobjects.GeoPoint `json:"points"`
}

// Overlay is the map section of the builder. Hidden is set when no day has
// a drawable track.
type Overlay struct {
	Hidden bool                `json:"hidden"`
	Tracks []TrackLayer        `json:"tracks"`
	Bounds valueobjects.Bounds `json:"bounds"`
}

// BuildOverlay fetches every day track through the backend proxy. Days
// without a track, or whose track cannot be fetched or parsed, are skipped.
func (s *Session) BuildOverlay(ctx context.Context) (*Overlay, error) {
	if err := s.guard("draw the map", StateReady, StateDayModalOpen, StateGalleryOpen); err != nil {
		return nil, err
	}
	log := logger.GetLogger()

	overlay := &Overlay{Tracks: []TrackLayer{}, Bounds: valueobjects.EmptyBounds()}
	for _, day := range s.days {
		if day.GPXURL == "" {
			continue
		}
		raw, err := adminapi.ProxyGPX(ctx, s.client, day.GPXURL)
		if err != nil {
			log.Warnw("Failed to fetch day track", "tripID", s.tripID, "dayID", day.ID, "error", err)
			continue
		}
		track, err := gpx.Parse(raw)
		if err != nil {
			log.Warnw("Failed to parse day track", "tripID", s.tripID, "dayID", day.ID, "error", err)
			continue
		}

		overlay.Tracks = append(overlay.Tracks, TrackLayer{
			DayID:    day.ID,
			DayName:  day.DayName,
			Color:    trackPalette[len(overlay.Tracks)%len(trackPalette)],
			LengthKm: track.Length(),
			Points:   track.Points,
		})
		overlay.Bounds = overlay.Bounds.Union(track.Bounds())
	}
	overlay.Hidden = len(overlay.Tracks) == 0
	return overlay, nil
}
