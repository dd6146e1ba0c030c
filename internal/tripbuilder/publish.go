package tripbuilder

import (
	"context"
	"net/url"

	"github.com/OldiBike/mototrip-planner-sub000/internal/adminapi"
	"github.com/OldiBike/mototrip-planner-sub000/types"
)

// TogglePublish flips the published flag on the backend and reloads the
// trip. It returns the published state the backend reports afterwards.
func (s *Session) TogglePublish(ctx context.Context) (bool, error) {
	if err := s.guard("change publication", StateReady); err != nil {
		return false, err
	}
	next := !s.trip.IsPublished
	if err := adminapi.UpdateTrip(ctx, s.client, s.tripID, types.TripUpdate{IsPublished: &next}); err != nil {
		return s.trip.IsPublished, err
	}
	if err := s.reloadTrip(ctx); err != nil {
		return next, err
	}
	return s.trip.IsPublished, nil
}

// PublicURL is the customer-facing page of the trip, empty while unpublished.
func (s *Session) PublicURL() string {
	if s.trip == nil || !s.trip.IsPublished {
		return ""
	}
	return s.origin + "/voyages/" + url.PathEscape(s.trip.PublicKey())
}
