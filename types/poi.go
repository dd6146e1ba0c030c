package types

// POI is a point of interest in the POI bank.
type POI struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	City        string   `json:"city"`
	Category    string   `json:"category"`
	Address     string   `json:"address"`
	Description string   `json:"description"`
	Photos      []string `json:"photos,omitempty"`
	UsageCount  int      `json:"usageCount,omitempty"`
}

type POIPayload struct {
	Name        string `json:"name"`
	City        string `json:"city"`
	Category    string `json:"category"`
	Address     string `json:"address"`
	Description string `json:"description"`
}
