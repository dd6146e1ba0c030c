package types

// Restaurant is an entry of the restaurant bank.
type Restaurant struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	City        string   `json:"city"`
	CuisineType string   `json:"cuisineType"`
	Address     string   `json:"address"`
	Description string   `json:"description"`
	Rating      float64  `json:"rating"`
	Photos      []string `json:"photos,omitempty"`
}

type RestaurantPayload struct {
	Name        string  `json:"name"`
	City        string  `json:"city"`
	CuisineType string  `json:"cuisineType"`
	Address     string  `json:"address"`
	Description string  `json:"description"`
	Rating      float64 `json:"rating"`
}
