package entity

const (
	ResultStatusSuccess = "success"
	ResultStatusError   = "error"
)

// SearchResult is the response shape returned to callers
type SearchResult struct {
	Status         string               `json:"status"`
	Message        string               `json:"message"`
	Flights        []NormalizedOffer    `json:"flights"`
	SearchInfo     *CanonicalParameters `json:"search_info"`
	FiltersApplied []string             `json:"filters_applied,omitempty"`
}
