package catalog

import (
	"context"
	"net/http"

	apperrors "github.com/OldiBike/mototrip-planner-sub000/errors"
	"github.com/OldiBike/mototrip-planner-sub000/internal/adminapi"
	"github.com/OldiBike/mototrip-planner-sub000/types"
	"golang.org/x/text/language"
)

var bookingStatusLabels = map[types.BookingStatus]string{
	types.BookingStatusPending:   "En attente",
	types.BookingStatusConfirmed: "Confirmée",
	types.BookingStatusCancelled: "Annulée",
}

func BookingDefinition() *Definition[types.Booking] {
	return &Definition[types.Booking]{
		Resource: "bookings",
		Title:    "Réservations",
		Singular: "réservation",
		ID:       func(b types.Booking) string { return b.ID },
		SearchText: func(b types.Booking) []string {
			return []string{b.CustomerName, b.TripName, b.StartDate}
		},
		Columns: []Column[types.Booking]{
			{Label: "Client", Value: func(b types.Booking) string { return b.CustomerName }},
			{Label: "Voyage", Value: func(b types.Booking) string { return b.TripName }},
			{Label: "Départ", Value: func(b types.Booking) string { return b.StartDate }},
			{Label: "Statut", Value: func(b types.Booking) string { return statusLabel(b.Status) }},
			{Label: "Roadbook", Value: func(b types.Booking) string {
				if b.ForceReveal {
					return "Révélé"
				}
				return "Masqué"
			}},
		},
		Facets: []Facet[types.Booking]{
			{Key: "status", Label: "Statut", Value: func(b types.Booking) string { return string(b.Status) }},
		},
		Sorts: []SortField[types.Booking]{
			{Key: "date", Label: "Départ", Text: func(b types.Booking) string { return b.StartDate }},
			{Key: "customer", Label: "Client", Text: func(b types.Booking) string { return b.CustomerName }},
		},
		Fields: []Field{
			{Key: "customerId", Label: "Client", Kind: KindText, Required: true},
			{Key: "tripId", Label: "Voyage", Kind: KindText, Required: true},
			{Key: "startDate", Label: "Date de départ", Kind: KindDate, Required: true},
			{Key: "status", Label: "Statut", Kind: KindSelect, Required: true, Options: []string{
				string(types.BookingStatusPending),
				string(types.BookingStatusConfirmed),
				string(types.BookingStatusCancelled),
			}},
		},
		ToForm: func(b types.Booking) Form {
			return Form{
				"customerId": b.CustomerID,
				"tripId":     b.TripID,
				"startDate":  b.StartDate,
				"status":     string(b.Status),
			}
		},
		Payload: func(f Form) (interface{}, error) {
			status := types.BookingStatus(f.Get("status"))
			if _, ok := bookingStatusLabels[status]; !ok {
				return nil, apperrors.ValidationFailed("Statut de réservation invalide", string(status))
			}
			return types.BookingPayload{
				CustomerID: f.Get("customerId"),
				TripID:     f.Get("tripId"),
				StartDate:  f.Get("startDate"),
				Status:     status,
			}, nil
		},
		DeleteWarning: func(b types.Booking) string {
			return "Supprimer la réservation de " + b.CustomerName + " ? Les bons (vouchers) associés seront supprimés."
		},
	}
}

func statusLabel(s types.BookingStatus) string {
	if label, ok := bookingStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// BookingList adds the roadbook reveal toggle to the booking list.
type BookingList struct {
	*List[types.Booking]
}

func NewBookingList(client adminapi.Caller, lang language.Tag) *BookingList {
	return &BookingList{List: NewList(BookingDefinition(), client, lang)}
}

// ToggleReveal flips forceReveal on one booking. The in-memory record is
// only updated once the backend accepted the change; no other booking is touched.
func (b *BookingList) ToggleReveal(ctx context.Context, id string) (bool, error) {
	booking, idx, ok := b.find(id)
	if !ok {
		return false, apperrors.NotFound("réservation", id)
	}
	next := !booking.ForceReveal
	_, err := b.client.Call(ctx, adminapi.CollectionPath("bookings", id), adminapi.CallOptions{
		Method: http.MethodPut,
		Body:   types.BookingRevealUpdate{ForceReveal: next},
	})
	if err != nil {
		return booking.ForceReveal, err
	}
	b.items[idx].ForceReveal = next
	return next, nil
}
