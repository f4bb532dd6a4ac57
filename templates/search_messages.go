package templates

import (
	"fmt"
	"strings"

	"flightassist-service/internal/domain/entity"
)

// SearchSuccessMessage summarizes a successful search
func SearchSuccessMessage(p *entity.CanonicalParameters, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d %s from %s to %s on %s", count, plural(count, "flight", "flights"), p.Origin, p.Destination, p.DepartureDate)
	if p.CabinClass != "" && p.CabinClass != entity.CabinEconomy {
		fmt.Fprintf(&b, " in %s class", strings.ToLower(string(p.CabinClass)))
	}
	if p.IsFollowUp && p.InheritedDate {
		b.WriteString(" (same date as your previous search)")
	}
	return b.String()
}

// NoFlightsMessage is returned when the provider has nothing for the route and date
func NoFlightsMessage(p *entity.CanonicalParameters) string {
	return fmt.Sprintf("No flights found from %s to %s on %s", p.Origin, p.Destination, p.DepartureDate)
}

// NoMatchingFlightsMessage is returned when every offer was removed by the filters
func NoMatchingFlightsMessage(p *entity.CanonicalParameters, applied []string) string {
	if len(applied) == 0 {
		return NoFlightsMessage(p)
	}
	return fmt.Sprintf("No flights from %s to %s on %s match your filters (%s)",
		p.Origin, p.Destination, p.DepartureDate, strings.Join(applied, ", "))
}

// ProviderErrorMessage is returned when the flight provider could not be reached
func ProviderErrorMessage(p *entity.CanonicalParameters) string {
	return fmt.Sprintf("Flight search is temporarily unavailable for %s to %s. Please try again shortly.", p.Origin, p.Destination)
}

// MissingLocationMessage asks the user for the route
const MissingLocationMessage = "Please specify both origin and destination cities, for example \"flights from Delhi to Mumbai tomorrow\"."

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
