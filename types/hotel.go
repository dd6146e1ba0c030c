package types

// Hotel is an entry of the hotel bank, reusable across trips.
type Hotel struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	City        string   `json:"city"`
	Address     string   `json:"address"`
	Description string   `json:"description"`
	Website     string   `json:"website"`
	Rating      float64  `json:"rating"`
	Photos      []string `json:"photos,omitempty"`
	UsageCount  int      `json:"usageCount,omitempty"`
}

type HotelPayload struct {
	Name        string  `json:"name"`
	City        string  `json:"city"`
	Address     string  `json:"address"`
	Description string  `json:"description"`
	Website     string  `json:"website"`
	Rating      float64 `json:"rating"`
}

// PhotoUploadResult is the acknowledgement of a multi-file photo upload.
type PhotoUploadResult struct {
	UploadedCount int `json:"uploaded_count"`
}
