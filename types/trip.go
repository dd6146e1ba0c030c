package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Trip is the subset of the backend trip record the builder reads and writes.
type Trip struct {
	ID                      string  `json:"id"`
	Name                    string  `json:"name"`
	IsPublished             bool    `json:"isPublished"`
	PublishedSlug           string  `json:"publishedSlug,omitempty"`
	Slug                    string  `json:"slug,omitempty"`
	SalePricePerPerson      float64 `json:"salePricePerPerson"`
	RecommendedRequestStart string  `json:"recommendedRequestStart,omitempty"`
	RecommendedRequestEnd   string  `json:"recommendedRequestEnd,omitempty"`
}

// PublicKey returns the path segment of the trip's public page.
func (t Trip) PublicKey() string {
	if t.PublishedSlug != "" {
		return t.PublishedSlug
	}
	if t.Slug != "" {
		return t.Slug
	}
	return t.ID
}

// TripUpdate carries the trip fields the builder pushes back.
type TripUpdate struct {
	IsPublished        *bool    `json:"isPublished,omitempty"`
	SalePricePerPerson *float64 `json:"salePricePerPerson,omitempty"`
}

// PlaceRef is a POI or restaurant reference embedded in a day. The backend
// stores either a bare name (legacy) or an object; both decode into this shape.
type PlaceRef struct {
	Name   string   `json:"name"`
	Photos []string `json:"photos"`
}

func (p *PlaceRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = PlaceRef{}
		return nil
	}
	if data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*p = PlaceRef{Name: name, Photos: []string{}}
		return nil
	}

	var obj struct {
		Name   string   `json:"name"`
		Photos []string `json:"photos"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("place reference: %w", err)
	}
	if obj.Photos == nil {
		obj.Photos = []string{}
	}
	*p = PlaceRef{Name: obj.Name, Photos: obj.Photos}
	return nil
}

// NewPlaceRef builds a reference from a free-text name.
func NewPlaceRef(name string) (PlaceRef, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return PlaceRef{}, false
	}
	return PlaceRef{Name: name, Photos: []string{}}, true
}

// PlaceNames lists the display names of refs.
func PlaceNames(refs []PlaceRef) []string {
	names := make([]string, 0, len(refs))
	for _, r := range refs {
		names = append(names, r.Name)
	}
	return names
}

// Day is one itinerary segment of a trip.
type Day struct {
	ID          string     `json:"id,omitempty"`
	DayName     string     `json:"dayName"`
	City        string     `json:"city"`
	StartCity   string     `json:"startCity"`
	EndCity     string     `json:"endCity"`
	Distance    float64    `json:"distance"`
	HotelName   string     `json:"hotelName"`
	HotelID     string     `json:"hotelId"`
	HotelLink   string     `json:"hotelLink,omitempty"`
	HotelPhotos []string   `json:"hotelPhotos,omitempty"`
	PriceDouble float64    `json:"priceDouble"`
	PriceSolo   float64    `json:"priceSolo"`
	Nights      int        `json:"nights"`
	GPXFile     string     `json:"gpxFile"`
	GPXURL      string     `json:"gpxUrl,omitempty"`
	POIs        []PlaceRef `json:"pois"`
	Restaurants []PlaceRef `json:"restaurants"`
	Photos      []string   `json:"photos,omitempty"`
}

// Clone returns a deep copy so drafts never alias cached days.
func (d Day) Clone() Day {
	out := d
	out.HotelPhotos = append([]string(nil), d.HotelPhotos...)
	out.Photos = append([]string(nil), d.Photos...)
	out.POIs = clonePlaces(d.POIs)
	out.Restaurants = clonePlaces(d.Restaurants)
	return out
}

func clonePlaces(refs []PlaceRef) []PlaceRef {
	out := make([]PlaceRef, len(refs))
	for i, r := range refs {
		out[i] = PlaceRef{Name: r.Name, Photos: append([]string{}, r.Photos...)}
	}
	return out
}

// RoomAmounts holds per-room figures served with the days collection.
type RoomAmounts struct {
	DoubleRoom float64 `json:"double_room"`
	SoloRoom   float64 `json:"solo_room"`
}

// DaysPayload is the decoded days collection response.
type DaysPayload struct {
	Days       []Day       `json:"days"`
	Costs      RoomAmounts `json:"costs"`
	SalePrices RoomAmounts `json:"sale_prices"`
}
