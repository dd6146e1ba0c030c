package types

// Partner is a supplier (garage, guide, rental) in the partner bank.
type Partner struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	City        string `json:"city"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Website     string `json:"website"`
	Description string `json:"description"`
}

type PartnerPayload struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	City        string `json:"city"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Website     string `json:"website"`
	Description string `json:"description"`
}
