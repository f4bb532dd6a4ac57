package usecase

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"flightassist-service/internal/domain/entity"
)

// FilterOutcome is the filtered list and the steps that ran
type FilterOutcome struct {
	Offers  []entity.NormalizedOffer
	Applied []string
}

type filterStep struct {
	active   func(f entity.FilterSet) bool
	describe func(f entity.FilterSet) string
	keep     func(o *entity.NormalizedOffer, f entity.FilterSet, dir *AirlineDirectory) bool
}

// filterSteps run in order; each removes offers independently of the others
var filterSteps = []filterStep{
	{
		active:   func(f entity.FilterSet) bool { return f.DirectOnly },
		describe: func(f entity.FilterSet) string { return "direct flights only" },
		keep: func(o *entity.NormalizedOffer, _ entity.FilterSet, _ *AirlineDirectory) bool {
			return segmentCount(o) == 1
		},
	},
	{
		active:   func(f entity.FilterSet) bool { return len(f.SpecificAirlines) > 0 },
		describe: func(f entity.FilterSet) string { return "airlines: " + strings.Join(f.SpecificAirlines, ", ") },
		keep: func(o *entity.NormalizedOffer, f entity.FilterSet, dir *AirlineDirectory) bool {
			return carrierMatchesAny(o, f.SpecificAirlines, dir)
		},
	},
	{
		active:   func(f entity.FilterSet) bool { return len(f.ExcludeAirlines) > 0 },
		describe: func(f entity.FilterSet) string { return "excluding: " + strings.Join(f.ExcludeAirlines, ", ") },
		keep: func(o *entity.NormalizedOffer, f entity.FilterSet, dir *AirlineDirectory) bool {
			return !carrierMatchesAny(o, f.ExcludeAirlines, dir)
		},
	},
	{
		active:   func(f entity.FilterSet) bool { return f.MaxPrice != nil },
		describe: func(f entity.FilterSet) string { return fmt.Sprintf("max price: %.0f", *f.MaxPrice) },
		keep: func(o *entity.NormalizedOffer, f entity.FilterSet, _ *AirlineDirectory) bool {
			return o.PriceNumeric <= *f.MaxPrice
		},
	},
	{
		active: func(f entity.FilterSet) bool { return len(f.PreferredTimes) > 0 },
		describe: func(f entity.FilterSet) string {
			bands := make([]string, len(f.PreferredTimes))
			for i, b := range f.PreferredTimes {
				bands[i] = string(b)
			}
			return "times: " + strings.Join(bands, ", ")
		},
		keep: func(o *entity.NormalizedOffer, f entity.FilterSet, _ *AirlineDirectory) bool {
			hour, ok := departureHour(o.PrimaryDepartureTime())
			if !ok {
				return false
			}
			for _, band := range f.PreferredTimes {
				if band.Contains(hour) {
					return true
				}
			}
			return false
		},
	},
	{
		active:   func(f entity.FilterSet) bool { return f.MaxStops != nil },
		describe: func(f entity.FilterSet) string { return fmt.Sprintf("max stops: %d", *f.MaxStops) },
		keep: func(o *entity.NormalizedOffer, f entity.FilterSet, _ *AirlineDirectory) bool {
			return o.Stops <= *f.MaxStops
		},
	},
}

// ResultFilter applies a FilterSet to normalized offers
type ResultFilter struct{}

// NewResultFilter creates a new result filter
func NewResultFilter() *ResultFilter {
	return &ResultFilter{}
}

// Apply filters and orders offers. The input slice is not modified.
// Without preferred airlines the result is sorted by ascending price, ties kept in input order.
func (r *ResultFilter) Apply(offers []entity.NormalizedOffer, filters entity.FilterSet, dir *AirlineDirectory) FilterOutcome {
	kept := make([]entity.NormalizedOffer, len(offers))
	copy(kept, offers)
	applied := []string{}

	for _, step := range filterSteps {
		if !step.active(filters) {
			continue
		}
		next := kept[:0:0]
		for i := range kept {
			if step.keep(&kept[i], filters, dir) {
				next = append(next, kept[i])
			}
		}
		kept = next
		applied = append(applied, step.describe(filters))
	}

	sortByPrice(kept)

	if len(filters.PreferredAirlines) > 0 {
		var preferred, rest []entity.NormalizedOffer
		for _, o := range kept {
			if carrierMatchesAny(&o, filters.PreferredAirlines, dir) {
				preferred = append(preferred, o)
			} else {
				rest = append(rest, o)
			}
		}
		kept = append(preferred, rest...)
		applied = append(applied, "preferred: "+strings.Join(filters.PreferredAirlines, ", "))
	}

	if kept == nil {
		kept = []entity.NormalizedOffer{}
	}
	return FilterOutcome{Offers: kept, Applied: applied}
}

func sortByPrice(offers []entity.NormalizedOffer) {
	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].PriceNumeric < offers[j].PriceNumeric
	})
}

func carrierMatchesAny(o *entity.NormalizedOffer, mentions []string, dir *AirlineDirectory) bool {
	code, name := o.PrimaryCarrier()
	for _, m := range mentions {
		if dir.Matches(code, name, m) {
			return true
		}
	}
	return false
}

func segmentCount(o *entity.NormalizedOffer) int {
	if len(o.Segments) > 0 {
		return len(o.Segments)
	}
	return o.Stops + 1
}

func departureHour(hhmm string) (int, bool) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	return h, true
}
