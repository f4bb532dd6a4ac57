package entity

import "strings"

// DateLayout is the ISO calendar date layout used across the API
const DateLayout = "2006-01-02"

// CabinClass is the requested cabin
type CabinClass string

const (
	CabinEconomy  CabinClass = "ECONOMY"
	CabinBusiness CabinClass = "BUSINESS"
	CabinFirst    CabinClass = "FIRST"
)

// ParseCabinClass normalizes a cabin string. Unknown values report false.
func ParseCabinClass(s string) (CabinClass, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ECONOMY", "PREMIUM_ECONOMY":
		return CabinEconomy, true
	case "BUSINESS":
		return CabinBusiness, true
	case "FIRST":
		return CabinFirst, true
	}
	return "", false
}

// TimeBand is a coarse departure time-of-day preference
type TimeBand string

const (
	TimeMorning   TimeBand = "morning"
	TimeAfternoon TimeBand = "afternoon"
	TimeEvening   TimeBand = "evening"
)

// Contains reports whether a local departure hour (0-23) falls in the band.
// Evening wraps past midnight up to 06:00.
func (b TimeBand) Contains(hour int) bool {
	switch b {
	case TimeMorning:
		return hour >= 6 && hour < 12
	case TimeAfternoon:
		return hour >= 12 && hour < 18
	case TimeEvening:
		return hour >= 18 || hour < 6
	}
	return false
}

// FollowUpType names the kind of modification a follow-up query applies
type FollowUpType string

const (
	FollowUpBusinessClass       FollowUpType = "business_class"
	FollowUpEconomyClass        FollowUpType = "economy_class"
	FollowUpDifferentDate       FollowUpType = "different_date"
	FollowUpMorePassengers      FollowUpType = "more_passengers"
	FollowUpDestinationChange   FollowUpType = "destination_change"
	FollowUpOriginChange        FollowUpType = "origin_change"
	FollowUpShowMore            FollowUpType = "show_more"
	FollowUpRouteChangeSameDate FollowUpType = "route_change_same_date"
	FollowUpDateChangeSameRoute FollowUpType = "date_change_same_route"
	FollowUpFilterChange        FollowUpType = "filter_change_same_route"
)

// FilterSet is the compound filter applied to provider results
type FilterSet struct {
	DirectOnly        bool       `json:"direct_only"`
	SpecificAirlines  []string   `json:"specific_airlines"`
	ExcludeAirlines   []string   `json:"exclude_airlines"`
	MaxPrice          *float64   `json:"max_price"`
	PreferredTimes    []TimeBand `json:"preferred_times"`
	MaxStops          *int       `json:"max_stops"`
	PreferredAirlines []string   `json:"preferred_airlines"`
}

// IsEmpty reports whether no filter dimension is set
func (f FilterSet) IsEmpty() bool {
	return !f.DirectOnly &&
		len(f.SpecificAirlines) == 0 &&
		len(f.ExcludeAirlines) == 0 &&
		f.MaxPrice == nil &&
		len(f.PreferredTimes) == 0 &&
		f.MaxStops == nil &&
		len(f.PreferredAirlines) == 0
}

// Merge overlays the set dimensions of override onto f
func (f FilterSet) Merge(override FilterSet) FilterSet {
	out := f.Clone()
	if override.DirectOnly {
		out.DirectOnly = true
	}
	if len(override.SpecificAirlines) > 0 {
		out.SpecificAirlines = append([]string(nil), override.SpecificAirlines...)
	}
	if len(override.ExcludeAirlines) > 0 {
		out.ExcludeAirlines = append([]string(nil), override.ExcludeAirlines...)
	}
	if override.MaxPrice != nil {
		v := *override.MaxPrice
		out.MaxPrice = &v
	}
	if len(override.PreferredTimes) > 0 {
		out.PreferredTimes = append([]TimeBand(nil), override.PreferredTimes...)
	}
	if override.MaxStops != nil {
		v := *override.MaxStops
		out.MaxStops = &v
	}
	if len(override.PreferredAirlines) > 0 {
		out.PreferredAirlines = append([]string(nil), override.PreferredAirlines...)
	}
	return out
}

// Clone returns a deep copy
func (f FilterSet) Clone() FilterSet {
	out := FilterSet{
		DirectOnly:        f.DirectOnly,
		SpecificAirlines:  append([]string(nil), f.SpecificAirlines...),
		ExcludeAirlines:   append([]string(nil), f.ExcludeAirlines...),
		PreferredTimes:    append([]TimeBand(nil), f.PreferredTimes...),
		PreferredAirlines: append([]string(nil), f.PreferredAirlines...),
	}
	if f.MaxPrice != nil {
		v := *f.MaxPrice
		out.MaxPrice = &v
	}
	if f.MaxStops != nil {
		v := *f.MaxStops
		out.MaxStops = &v
	}
	return out
}

// CanonicalParameters is the fully resolved search request
type CanonicalParameters struct {
	Origin        string       `json:"origin"`
	Destination   string       `json:"destination"`
	DepartureDate string       `json:"departure_date"`
	DateRangeEnd  *string      `json:"date_range_end,omitempty"`
	Passengers    int          `json:"passengers"`
	CabinClass    CabinClass   `json:"cabin_class"`
	Filters       FilterSet    `json:"filters"`
	IsFollowUp    bool         `json:"is_follow_up"`
	FollowUpType  FollowUpType `json:"follow_up_type,omitempty"`
	InheritedDate bool         `json:"inherited_date"`
	OriginalQuery string       `json:"original_query,omitempty"`
}

// Normalize applies defaults: at least one passenger, economy cabin, upper-case codes
func (p *CanonicalParameters) Normalize() {
	p.Origin = strings.ToUpper(strings.TrimSpace(p.Origin))
	p.Destination = strings.ToUpper(strings.TrimSpace(p.Destination))
	if p.Passengers < 1 {
		p.Passengers = 1
	}
	if cabin, ok := ParseCabinClass(string(p.CabinClass)); ok {
		p.CabinClass = cabin
	} else {
		p.CabinClass = CabinEconomy
	}
}

// Clone returns a deep copy with provenance flags reset
func (p CanonicalParameters) Clone() CanonicalParameters {
	out := p
	out.Filters = p.Filters.Clone()
	if p.DateRangeEnd != nil {
		v := *p.DateRangeEnd
		out.DateRangeEnd = &v
	}
	out.IsFollowUp = false
	out.FollowUpType = ""
	out.InheritedDate = false
	out.OriginalQuery = ""
	return out
}

// HasRoute reports whether both endpoints are known
func (p *CanonicalParameters) HasRoute() bool {
	return p.Origin != "" && p.Destination != ""
}
