package entity

import "time"

// GuestUserID is the reserved id for unauthenticated callers.
// Real user ids are always positive.
const GuestUserID int64 = -1

// ContextTypeFlightSearch is the only context type currently stored
const ContextTypeFlightSearch = "flight_search"

// SearchContext is one user's resolved search kept for follow-up queries
type SearchContext struct {
	ID            string              `json:"id"`
	UserID        int64               `json:"user_id"`
	ContextType   string              `json:"context_type"`
	Origin        string              `json:"origin"`
	Destination   string              `json:"destination"`
	DepartureDate string              `json:"departure_date"`
	Passengers    int                 `json:"passengers"`
	CabinClass    CabinClass          `json:"cabin_class"`
	RawParams     CanonicalParameters `json:"raw_params"`
	OriginalQuery string              `json:"original_query"`
	CreatedAt     time.Time           `json:"created_at"`
	ExpiresAt     time.Time           `json:"expires_at"`
	Active        bool                `json:"active"`
}

// IsLive reports whether the context may be used at the given instant
func (c *SearchContext) IsLive(now time.Time) bool {
	return c.Active && c.ExpiresAt.After(now)
}

// Params returns a copy of the stored parameters without provenance flags
func (c *SearchContext) Params() CanonicalParameters {
	return c.RawParams.Clone()
}
