package types

// HotelSuggestion is one autocomplete entry of the public suggest API.
type HotelSuggestion struct {
	Display  string `json:"display"`
	Type     string `json:"type"`
	ID       string `json:"id"`
	RegionID string `json:"region_id"`
	Name     string `json:"name"`
}

// MotoFriendlySearch is the request body of the moto-friendly hotel search.
// The typed fields are what the console checks; Fields holds the body as the
// page sent it and is relayed as is.
type MotoFriendlySearch struct {
	City      string   `json:"city,omitempty" binding:"required_without=RegionID"`
	RegionID  string   `json:"region_id,omitempty"`
	CheckIn   string   `json:"checkin,omitempty"`
	CheckOut  string   `json:"checkout,omitempty"`
	Guests    int      `json:"guests,omitempty" binding:"min=0"`
	Amenities []string `json:"amenities,omitempty"`
	Language  string   `json:"lang,omitempty"`

	Fields map[string]interface{} `json:"-"`
}

// Body is what gets sent to the backend.
func (s MotoFriendlySearch) Body() interface{} {
	if s.Fields != nil {
		return s.Fields
	}
	return s
}

// MotoFriendlyResult keeps hotels and stats opaque; the console only relays them.
type MotoFriendlyResult struct {
	Hotels []map[string]interface{} `json:"hotels"`
	Stats  map[string]interface{}   `json:"stats"`
}
