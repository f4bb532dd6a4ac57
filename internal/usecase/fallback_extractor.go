package usecase

import (
	"strings"
	"time"
	"unicode"

	"flightassist-service/internal/domain/entity"
	"flightassist-service/pkg/utils"
)

const (
	fallbackOrigin      = "DEL"
	fallbackDestination = "BOM"
	defaultLeadDays     = 14
)

// cityWords indexes the single word city tokens
var cityWords = func() map[string]string {
	m := make(map[string]string, len(utils.Cities))
	for _, c := range utils.Cities {
		if !strings.Contains(c.Token, " ") {
			m[c.Token] = c.Code
		}
	}
	return m
}()

// FallbackExtractor derives search parameters without a language model
type FallbackExtractor struct {
	dates *utils.DateParser
}

// NewFallbackExtractor creates a new fallback extractor
func NewFallbackExtractor(dates *utils.DateParser) *FallbackExtractor {
	return &FallbackExtractor{dates: dates}
}

// Extract always returns usable parameters
func (e *FallbackExtractor) Extract(query string, reference time.Time) *entity.CanonicalParameters {
	q := utils.NormalizeQuery(query)
	origin, destination := routeFromWords(strings.FieldsFunc(q, isWordSeparator))

	if origin == "" {
		origin = fallbackOrigin
	}
	if destination == "" {
		destination = fallbackDestination
	}
	if origin == destination {
		if origin == fallbackDestination {
			origin = fallbackOrigin
		} else {
			destination = fallbackDestination
		}
	}

	params := &entity.CanonicalParameters{
		Origin:        origin,
		Destination:   destination,
		Passengers:    1,
		CabinClass:    entity.CabinEconomy,
		OriginalQuery: query,
	}

	res := e.dates.Resolve(q, reference)
	if d, ok := res.First(); ok {
		params.DepartureDate = d.Format(entity.DateLayout)
		if res.Kind == utils.DateRange {
			end := res.End.Format(entity.DateLayout)
			params.DateRangeEnd = &end
		}
	} else {
		params.DepartureDate = reference.AddDate(0, 0, defaultLeadDays).Format(entity.DateLayout)
	}

	switch {
	case utils.ContainsPhrase(q, "business"):
		params.CabinClass = entity.CabinBusiness
	case utils.ContainsPhrase(q, "first"):
		params.CabinClass = entity.CabinFirst
	}

	return params
}

// routeFromWords prefers "from X to Y", otherwise the first two cities.
// A single city is taken as the origin.
func routeFromWords(words []string) (origin, destination string) {
	fromIdx, toIdx := indexOf(words, "from"), indexOf(words, "to")
	if fromIdx >= 0 && toIdx >= 0 {
		if fromIdx < toIdx {
			origin = firstCity(words[fromIdx+1 : toIdx])
			destination = firstCity(words[toIdx+1:])
		}
		return origin, destination
	}

	var found []string
	for _, w := range words {
		if code, ok := cityWords[w]; ok {
			found = append(found, code)
		}
	}
	switch {
	case len(found) >= 2:
		return found[0], found[1]
	case len(found) == 1:
		return found[0], fallbackDestination
	}
	return "", ""
}

func firstCity(words []string) string {
	for _, w := range words {
		if code, ok := cityWords[w]; ok {
			return code
		}
	}
	return ""
}

func indexOf(words []string, w string) int {
	for i, x := range words {
		if x == w {
			return i
		}
	}
	return -1
}

func isWordSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
