package entity

// OracleResult is the best-effort parameter guess returned by a language model
type OracleResult struct {
	Origin        string     `json:"origin"`
	Destination   string     `json:"destination"`
	DepartureDate string     `json:"departure_date"`
	Passengers    int        `json:"passengers"`
	CabinClass    string     `json:"cabin_class"`
	Filters       *FilterSet `json:"filters,omitempty"`
	Error         string     `json:"error,omitempty"`
}

// FilterResult is the response of the narrow filters-only extraction pass
type FilterResult struct {
	Filters    FilterSet `json:"filters"`
	CabinClass string    `json:"cabin_class"`
}

// OracleErrorMissingLocation is the error marker a model returns when it cannot find the route
const OracleErrorMissingLocation = "missing_location"
