package catalog

import (
	"strconv"
	"strings"

	"github.com/OldiBike/mototrip-planner-sub000/types"
)

// splitLegacyName splits a single legacy name on its first space.
func splitLegacyName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	if i := strings.IndexByte(name, ' '); i >= 0 {
		return name[:i], strings.TrimSpace(name[i+1:])
	}
	return name, ""
}

func CustomerDefinition() *Definition[types.Customer] {
	return &Definition[types.Customer]{
		Resource: "customers",
		Title:    "Clients",
		Singular: "client",
		ID:       func(c types.Customer) string { return c.ID },
		SearchText: func(c types.Customer) []string {
			return []string{c.FirstName, c.LastName, c.Name, c.Email, c.Phone, c.Address}
		},
		Columns: []Column[types.Customer]{
			{Label: "Nom", Value: types.Customer.DisplayName},
			{Label: "Email", Value: func(c types.Customer) string { return c.Email }},
			{Label: "Téléphone", Value: func(c types.Customer) string { return c.Phone }},
			{Label: "Réservations", Value: func(c types.Customer) string { return strconv.Itoa(c.BookingsCount) }},
		},
		Sorts: []SortField[types.Customer]{
			{Key: "name", Label: "Nom", Text: func(c types.Customer) string { return lastNameFirst(c) }},
			{Key: "bookings", Label: "Réservations", Number: func(c types.Customer) float64 { return float64(c.BookingsCount) }},
		},
		Fields: []Field{
			{Key: "firstName", Label: "Prénom", Kind: KindText, Required: true},
			{Key: "lastName", Label: "Nom", Kind: KindText, Required: true},
			{Key: "email", Label: "Email", Kind: KindEmail, Required: true},
			{Key: "phone", Label: "Téléphone", Kind: KindTel},
			{Key: "address", Label: "Adresse", Kind: KindTextarea},
		},
		ToForm: func(c types.Customer) Form {
			first, last := c.FirstName, c.LastName
			if first == "" && last == "" {
				first, last = splitLegacyName(c.Name)
			}
			return Form{
				"firstName": first,
				"lastName":  last,
				"email":     c.Email,
				"phone":     c.Phone,
				"address":   c.Address,
			}
		},
		Payload: func(f Form) (interface{}, error) {
			return types.CustomerPayload{
				FirstName: f.Get("firstName"),
				LastName:  f.Get("lastName"),
				Email:     f.Get("email"),
				Phone:     f.Get("phone"),
				Address:   f.Get("address"),
			}, nil
		},
		DeleteWarning: func(c types.Customer) string {
			return "Supprimer " + c.DisplayName() + " ? Toutes ses réservations et bons (vouchers) seront également supprimés."
		},
	}
}

func lastNameFirst(c types.Customer) string {
	if c.LastName == "" && c.FirstName == "" {
		first, last := splitLegacyName(c.Name)
		return last + " " + first
	}
	return c.LastName + " " + c.FirstName
}
