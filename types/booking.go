package types

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking links a customer to a trip departure. ForceReveal shows the
// roadbook before RevealDate.
type Booking struct {
	ID           string        `json:"id,omitempty"`
	CustomerID   string        `json:"customerId"`
	CustomerName string        `json:"customerName,omitempty"`
	TripID       string        `json:"tripId"`
	TripName     string        `json:"tripName,omitempty"`
	StartDate    string        `json:"startDate"`
	Status       BookingStatus `json:"status"`
	ForceReveal  bool          `json:"forceReveal"`
	RevealDate   string        `json:"revealDate,omitempty"`
}

type BookingPayload struct {
	CustomerID string        `json:"customerId"`
	TripID     string        `json:"tripId"`
	StartDate  string        `json:"startDate"`
	Status     BookingStatus `json:"status"`
}

type BookingRevealUpdate struct {
	ForceReveal bool `json:"forceReveal"`
}
