// Package tripbuilder is the controller of the trip builder screen. A Session
// holds everything the builder knows about one trip: the cached trip record,
// its days, the pricing inputs and the open modal or gallery.
package tripbuilder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/OldiBike/mototrip-planner-sub000/errors"
	"github.com/OldiBike/mototrip-planner-sub000/internal/adminapi"
	"github.com/OldiBike/mototrip-planner-sub000/internal/modal"
	"github.com/OldiBike/mototrip-planner-sub000/types"
	"golang.org/x/text/language"
)

type State string

const (
	StateUninitialized State = "uninitialized"
	StateLoading       State = "loading"
	StateReady         State = "ready"
	StateDayModalOpen  State = "day_modal_open"
	StateGalleryOpen   State = "gallery_open"
)

var (
	// ErrMissingTripID blocks initialization of a builder opened without a trip.
	ErrMissingTripID = errors.New("tripbuilder: missing trip id")
	// ErrInvalidState is wrapped by every action refused in the current state.
	ErrInvalidState = errors.New("tripbuilder: action not allowed in current state")
)

// Session is one open trip. It is not safe for concurrent use; the console
// workspace serializes access.
type Session struct {
	tripID string
	client adminapi.Caller
	origin string
	lang   language.Tag

	state State
	trip  *types.Trip
	days  []types.Day

	pricing        Pricing
	lastSimulation SimulationInput
	pending        map[string]PendingAsset

	dayModal modal.Modal[types.Day]
	hotels   []types.Hotel
	gallery  *gallery
}

func NewSession(tripID string, client adminapi.Caller, publicOrigin string, lang language.Tag) *Session {
	return &Session{
		tripID:  strings.TrimSpace(tripID),
		client:  client,
		origin:  strings.TrimRight(publicOrigin, "/"),
		lang:    lang,
		state:   StateUninitialized,
		pending: make(map[string]PendingAsset),
	}
}

func (s *Session) TripID() string { return s.tripID }
func (s *Session) State() State   { return s.state }

// Trip returns a copy of the cached trip, nil before initialization.
func (s *Session) Trip() *types.Trip {
	if s.trip == nil {
		return nil
	}
	t := *s.trip
	return &t
}

// Days returns a deep copy of the cached days in server order.
func (s *Session) Days() []types.Day {
	out := make([]types.Day, len(s.days))
	for i, d := range s.days {
		out[i] = d.Clone()
	}
	return out
}

func (s *Session) guard(action string, allowed ...State) error {
	for _, st := range allowed {
		if s.state == st {
			return nil
		}
	}
	err := apperrors.InvalidState(string(s.state), action)
	err.Raw = ErrInvalidState
	return err
}

func (s *Session) findDay(id string) (types.Day, bool) {
	for _, d := range s.days {
		if d.ID == id {
			return d, true
		}
	}
	return types.Day{}, false
}

// Init loads the trip and then its days. A failure returns the session to
// Uninitialized so the page can offer a retry.
func (s *Session) Init(ctx context.Context) error {
	if s.tripID == "" {
		err := apperrors.ValidationFailed("Aucun voyage sélectionné", "trip id is empty")
		err.Raw = ErrMissingTripID
		return err
	}
	if err := s.guard("initialize", StateUninitialized); err != nil {
		return err
	}

	s.state = StateLoading
	trip, err := adminapi.GetTrip(ctx, s.client, s.tripID)
	if err != nil {
		s.state = StateUninitialized
		return err
	}
	payload, err := adminapi.ListDays(ctx, s.client, s.tripID)
	if err != nil {
		s.state = StateUninitialized
		return err
	}

	s.trip = trip
	s.applyDays(payload)
	s.pricing.SalePricePerPerson = trip.SalePricePerPerson
	s.state = StateReady
	return nil
}

// LoadDays re-fetches the day collection and its aggregates. The previous
// days stay in place when the fetch fails.
func (s *Session) LoadDays(ctx context.Context) error {
	if err := s.guard("reload days", StateReady, StateDayModalOpen, StateGalleryOpen); err != nil {
		return err
	}
	payload, err := adminapi.ListDays(ctx, s.client, s.tripID)
	if err != nil {
		return err
	}
	s.applyDays(payload)
	return nil
}

func (s *Session) applyDays(payload *types.DaysPayload) {
	s.days = payload.Days
	s.pricing.CostDoubleRoom = payload.Costs.DoubleRoom
	s.pricing.CostSoloRoom = payload.Costs.SoloRoom
	s.pricing.SaleDoubleRoom = payload.SalePrices.DoubleRoom
	s.pricing.SaleSoloRoom = payload.SalePrices.SoloRoom

	present := make(map[string]bool, len(s.days))
	for _, d := range s.days {
		present[d.ID] = true
	}
	for id := range s.pending {
		if !present[id] {
			delete(s.pending, id)
		}
	}
}

// reloadTrip replaces the cached trip with a fresh copy.
func (s *Session) reloadTrip(ctx context.Context) error {
	trip, err := adminapi.GetTrip(ctx, s.client, s.tripID)
	if err != nil {
		return apperrors.PartialFailure("Modification enregistrée, mais le voyage n'a pas pu être rechargé", err)
	}
	s.trip = trip
	return nil
}

// DayCard is the summary rendered for one day.
type DayCard struct {
	ID             string
	Number         int
	Name           string
	Route          string
	Distance       float64
	HotelName      string
	PricePerPerson float64
	Nights         int
	Restaurants    []string
	POIs           []string
	HasTrack       bool
	Pending        *PendingAsset
}

// Cards derives one card per day, regenerated from scratch on every call.
func (s *Session) Cards() []DayCard {
	cards := make([]DayCard, 0, len(s.days))
	for i, d := range s.days {
		card := DayCard{
			ID:             d.ID,
			Number:         i + 1,
			Name:           d.DayName,
			Route:          route(d),
			Distance:       d.Distance,
			HotelName:      d.HotelName,
			PricePerPerson: d.PriceDouble,
			Nights:         d.Nights,
			Restaurants:    types.PlaceNames(d.Restaurants),
			POIs:           types.PlaceNames(d.POIs),
			HasTrack:       d.GPXURL != "",
		}
		if p, ok := s.pending[d.ID]; ok {
			card.Pending = &p
		}
		cards = append(cards, card)
	}
	return cards
}

func route(d types.Day) string {
	switch {
	case d.StartCity != "" && d.EndCity != "":
		return fmt.Sprintf("%s → %s", d.StartCity, d.EndCity)
	case d.StartCity != "":
		return d.StartCity
	case d.EndCity != "":
		return d.EndCity
	default:
		return d.City
	}
}
