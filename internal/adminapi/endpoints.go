package adminapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	apperrors "github.com/OldiBike/mototrip-planner-sub000/errors"
	"github.com/OldiBike/mototrip-planner-sub000/types"
)

const (
	adminPrefix  = "/admin/api"
	publicPrefix = "/api"
)

// CollectionPath is the admin path of a resource collection or of one member.
func CollectionPath(resource string, id ...string) string {
	p := fmt.Sprintf("%s/%s", adminPrefix, resource)
	for _, part := range id {
		p += "/" + url.PathEscape(part)
	}
	return p
}

func tripPath(tripID string, rest ...string) string {
	return CollectionPath("trips", append([]string{tripID}, rest...)...)
}

// List fetches a whole collection; the array lives under the resource name.
func List[T any](ctx context.Context, c Caller, resource string) ([]T, error) {
	resp, err := c.Call(ctx, CollectionPath(resource), CallOptions{})
	if err != nil {
		return nil, err
	}
	var items []T
	if err := resp.Decode(resource, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Save creates (POST) when id is empty and updates (PUT) otherwise.
func Save(ctx context.Context, c Caller, resource, id string, payload interface{}) (*Response, error) {
	if id == "" {
		return c.Call(ctx, CollectionPath(resource), CallOptions{Method: http.MethodPost, Body: payload})
	}
	return c.Call(ctx, CollectionPath(resource, id), CallOptions{Method: http.MethodPut, Body: payload})
}

// Delete removes one member of a collection.
func Delete(ctx context.Context, c Caller, resource, id string) error {
	_, err := c.Call(ctx, CollectionPath(resource, id), CallOptions{Method: http.MethodDelete})
	return err
}

// UploadPhotos sends photos to a bank entity (hotels, pois).
func UploadPhotos(ctx context.Context, c Caller, resource, id string, files []File) (int, error) {
	resp, err := c.Upload(ctx, CollectionPath(resource, id, "upload-photos"), nil, files)
	if err != nil {
		return 0, err
	}
	var result types.PhotoUploadResult
	if err := resp.DecodeAll(&result); err != nil {
		return 0, err
	}
	return result.UploadedCount, nil
}

func GetTrip(ctx context.Context, c Caller, tripID string) (*types.Trip, error) {
	resp, err := c.Call(ctx, tripPath(tripID), CallOptions{})
	if err != nil {
		return nil, err
	}
	var trip types.Trip
	if err := resp.Decode("trip", &trip); err != nil {
		return nil, err
	}
	return &trip, nil
}

func UpdateTrip(ctx context.Context, c Caller, tripID string, update types.TripUpdate) error {
	_, err := c.Call(ctx, tripPath(tripID), CallOptions{Method: http.MethodPut, Body: update})
	return err
}

// ListDays returns the days of a trip with the per-room cost and sale aggregates.
func ListDays(ctx context.Context, c Caller, tripID string) (*types.DaysPayload, error) {
	resp, err := c.Call(ctx, tripPath(tripID, "days"), CallOptions{})
	if err != nil {
		return nil, err
	}
	var payload types.DaysPayload
	if err := resp.DecodeAll(&payload); err != nil {
		return nil, err
	}
	if payload.Days == nil {
		payload.Days = []types.Day{}
	}
	return &payload, nil
}

func GetDay(ctx context.Context, c Caller, tripID, dayID string) (*types.Day, error) {
	resp, err := c.Call(ctx, tripPath(tripID, "days", dayID), CallOptions{})
	if err != nil {
		return nil, err
	}
	var day types.Day
	if err := resp.Decode("day", &day); err != nil {
		return nil, err
	}
	return &day, nil
}

// SaveDay creates or updates a day and returns the id the backend assigned.
func SaveDay(ctx context.Context, c Caller, tripID string, day types.Day) (string, error) {
	var (
		resp *Response
		err  error
	)
	if day.ID == "" {
		resp, err = c.Call(ctx, tripPath(tripID, "days"), CallOptions{Method: http.MethodPost, Body: day})
	} else {
		resp, err = c.Call(ctx, tripPath(tripID, "days", day.ID), CallOptions{Method: http.MethodPut, Body: day})
	}
	if err != nil {
		return "", err
	}
	if id := SavedID(resp); id != "" {
		return id, nil
	}
	if day.ID != "" {
		return day.ID, nil
	}
	return "", apperrors.New(apperrors.ServerError, "unexpected backend response", "created day has no id")
}

func DeleteDay(ctx context.Context, c Caller, tripID, dayID string) error {
	_, err := c.Call(ctx, tripPath(tripID, "days", dayID), CallOptions{Method: http.MethodDelete})
	return err
}

// UploadDayGPX attaches a GPX track to a saved day.
func UploadDayGPX(ctx context.Context, c Caller, tripID, dayID string, file File) error {
	file.Field = "gpx"
	_, err := c.Upload(ctx, tripPath(tripID, "days", dayID, "gpx"), nil, []File{file})
	return err
}

// ProxyGPX downloads a track through the backend to avoid cross-origin limits.
func ProxyGPX(ctx context.Context, c Caller, trackURL string) ([]byte, error) {
	return c.Fetch(ctx, adminPrefix+"/proxy-gpx", url.Values{"url": {trackURL}})
}

func GetHotel(ctx context.Context, c Caller, hotelID string) (*types.Hotel, error) {
	resp, err := c.Call(ctx, CollectionPath("hotels", hotelID), CallOptions{})
	if err != nil {
		return nil, err
	}
	var hotel types.Hotel
	if err := resp.Decode("hotel", &hotel); err != nil {
		return nil, err
	}
	return &hotel, nil
}

// SuggestHotels queries the public autocomplete (status convention).
func SuggestHotels(ctx context.Context, c Caller, query, lang string) ([]types.HotelSuggestion, error) {
	resp, err := c.Call(ctx, publicPrefix+"/hotels/suggest", CallOptions{
		Query:      url.Values{"q": {query}, "lang": {lang}},
		Convention: ConventionStatus,
	})
	if err != nil {
		return nil, err
	}
	suggestions := []types.HotelSuggestion{}
	if resp.Has("suggestions") {
		if err := resp.Decode("suggestions", &suggestions); err != nil {
			return nil, err
		}
	}
	return suggestions, nil
}

// SearchMotoFriendly runs the public moto-friendly hotel search (status convention).
func SearchMotoFriendly(ctx context.Context, c Caller, search types.MotoFriendlySearch) (*types.MotoFriendlyResult, error) {
	resp, err := c.Call(ctx, publicPrefix+"/hotels/search-moto-friendly", CallOptions{
		Method:     http.MethodPost,
		Body:       search.Body(),
		Convention: ConventionStatus,
	})
	if err != nil {
		return nil, err
	}
	var result types.MotoFriendlyResult
	if err := resp.DecodeAll(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SavedID finds the id of a created record: {"day": {"id"}}, {"id"} or {"dayId"}.
func SavedID(resp *Response) string {
	for _, field := range []string{"day", "data"} {
		if resp.Has(field) {
			var obj struct {
				ID string `json:"id"`
			}
			if err := resp.Decode(field, &obj); err == nil && obj.ID != "" {
				return obj.ID
			}
		}
	}
	for _, field := range []string{"id", "dayId"} {
		if id := resp.String(field); id != "" {
			return id
		}
	}
	return ""
}
