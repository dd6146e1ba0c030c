package types

// Customer is a person who books trips.
type Customer struct {
	ID        string `json:"id,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	// Name is only set on legacy records created before first/last names existed.
	Name          string `json:"name,omitempty"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	BookingsCount int    `json:"bookingsCount,omitempty"`
}

// CustomerPayload is the body sent on create and update.
type CustomerPayload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

// DisplayName prefers the structured names and falls back to the legacy field.
func (c Customer) DisplayName() string {
	switch {
	case c.FirstName != "" && c.LastName != "":
		return c.FirstName + " " + c.LastName
	case c.FirstName != "" || c.LastName != "":
		return c.FirstName + c.LastName
	default:
		return c.Name
	}
}
