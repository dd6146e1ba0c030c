package tripbuilder

import (
	"context"
	"slices"

	apperrors "github.com/OldiBike/mototrip-planner-sub000/errors"
	"github.com/OldiBike/mototrip-planner-sub000/internal/adminapi"
	"github.com/OldiBike/mototrip-planner-sub000/types"
	"golang.org/x/text/collate"
)

// ManualHotel is the dropdown value for a hotel typed by hand.
const ManualHotel = "manual"

type HotelOption struct {
	Value    string
	Label    string
	Selected bool
}

// LoadHotelOptions fetches the hotel bank for the day modal dropdown.
func (s *Session) LoadHotelOptions(ctx context.Context) error {
	if err := s.guard("load hotels", StateReady, StateDayModalOpen); err != nil {
		return err
	}
	hotels, err := adminapi.List[types.Hotel](ctx, s.client, "hotels")
	if err != nil {
		return err
	}
	c := collate.New(s.lang)
	slices.SortStableFunc(hotels, func(a, b types.Hotel) int {
		return c.CompareString(a.Name, b.Name)
	})
	s.hotels = hotels
	return nil
}

// HotelOptions lists the bank hotels by name, then the manual entry.
func (s *Session) HotelOptions() []HotelOption {
	current := ""
	if s.dayModal.IsOpen() {
		current = s.dayModal.Draft().HotelID
	}
	opts := make([]HotelOption, 0, len(s.hotels)+1)
	for _, h := range s.hotels {
		label := h.Name
		if h.City != "" {
			label += " (" + h.City + ")"
		}
		opts = append(opts, HotelOption{Value: h.ID, Label: label, Selected: current != "" && h.ID == current})
	}
	return append(opts, HotelOption{Value: ManualHotel, Label: "Saisie manuelle", Selected: current == ""})
}

// SelectHotel copies a bank hotel into the day draft. The manual entry
// detaches the draft from the bank and keeps the typed name.
func (s *Session) SelectHotel(value string) error {
	return s.editDraft("pick a hotel", func(d *types.Day) error {
		if value == "" || value == ManualHotel {
			d.HotelID = ""
			d.HotelPhotos = nil
			return nil
		}
		for _, h := range s.hotels {
			if h.ID != value {
				continue
			}
			d.HotelID = h.ID
			d.HotelName = h.Name
			d.HotelLink = h.Website
			d.HotelPhotos = append([]string(nil), h.Photos...)
			return nil
		}
		return apperrors.NotFound("Hôtel", value)
	})
}
