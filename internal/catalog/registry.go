package catalog

import (
	"context"

	"github.com/OldiBike/mototrip-planner-sub000/internal/adminapi"
	"github.com/OldiBike/mototrip-planner-sub000/types"
	"golang.org/x/text/language"
)

// PhotoUploader is implemented by lists accepting photo uploads.
type PhotoUploader interface {
	UploadPhotos(ctx context.Context, id string, files []adminapi.File) (int, error)
}

// Catalog holds the six list controllers of one console session.
type Catalog struct {
	Customers   *List[types.Customer]
	Bookings    *BookingList
	Hotels      *PhotoList[types.Hotel]
	Partners    *List[types.Partner]
	POIs        *PhotoList[types.POI]
	Restaurants *List[types.Restaurant]

	byResource map[string]Controller
}

func New(client adminapi.Caller, lang language.Tag) *Catalog {
	c := &Catalog{
		Customers:   NewList(CustomerDefinition(), client, lang),
		Bookings:    NewBookingList(client, lang),
		Hotels:      NewPhotoList(HotelDefinition(), client, lang),
		Partners:    NewList(PartnerDefinition(), client, lang),
		POIs:        NewPhotoList(POIDefinition(), client, lang),
		Restaurants: NewList(RestaurantDefinition(), client, lang),
	}
	c.byResource = map[string]Controller{
		"customers":   c.Customers,
		"bookings":    c.Bookings,
		"hotels":      c.Hotels,
		"partners":    c.Partners,
		"pois":        c.POIs,
		"restaurants": c.Restaurants,
	}
	return c
}

// Get returns the controller of a resource name such as "hotels".
func (c *Catalog) Get(resource string) (Controller, bool) {
	ctrl, ok := c.byResource[resource]
	return ctrl, ok
}

// Resources lists the resource names in menu order.
func Resources() []string {
	return []string{"customers", "bookings", "hotels", "partners", "pois", "restaurants"}
}
