package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"flightassist-service/internal/domain/entity"
	"flightassist-service/pkg/logger"
)

// OfferFormatter maps raw provider offers to user-facing records
type OfferFormatter struct {
	converter *CurrencyConverter
	logger    logger.Logger
}

// NewOfferFormatter creates a new offer formatter
func NewOfferFormatter(converter *CurrencyConverter, logger logger.Logger) *OfferFormatter {
	return &OfferFormatter{
		converter: converter,
		logger:    logger,
	}
}

// Normalize converts every usable offer. Offers whose cabin differs from the requested one are dropped.
// Carrier names come from dir, then the response dictionary, then the code itself.
func (f *OfferFormatter) Normalize(ctx context.Context, result *entity.FlightOfferResult, requested entity.CabinClass, dir *AirlineDirectory) []entity.NormalizedOffer {
	if result == nil || len(result.Offers) == 0 {
		return []entity.NormalizedOffer{}
	}

	rate := f.converter.Rate(ctx)
	carrierName := func(code string) string {
		if a := dir.ByCode(code); a != nil {
			return a.Name
		}
		if name := result.Carriers[code]; name != "" {
			return name
		}
		return code
	}

	offers := make([]entity.NormalizedOffer, 0, len(result.Offers))
	for _, raw := range result.Offers {
		offer, err := f.normalizeOne(raw, rate, carrierName)
		if err != nil {
			f.logger.Warn("Skipping malformed offer", "offerId", raw.ID, "error", err)
			continue
		}
		if requested != "" && offer.CabinClass != requested {
			f.logger.Debug("Skipping offer with different cabin", "offerId", raw.ID, "cabin", offer.CabinClass, "requested", requested)
			continue
		}
		offers = append(offers, offer)
	}
	return offers
}

func (f *OfferFormatter) normalizeOne(raw entity.RawOffer, rate float64, carrierName func(string) string) (entity.NormalizedOffer, error) {
	if len(raw.Itineraries) == 0 || len(raw.Itineraries[0].Segments) == 0 {
		return entity.NormalizedOffer{}, fmt.Errorf("offer has no segments")
	}
	itinerary := raw.Itineraries[0]
	first := itinerary.Segments[0]
	last := itinerary.Segments[len(itinerary.Segments)-1]

	eur, err := strconv.ParseFloat(raw.Price.Total, 64)
	if err != nil {
		return entity.NormalizedOffer{}, fmt.Errorf("invalid price %q: %w", raw.Price.Total, err)
	}
	money := f.converter.Convert(eur, rate)

	cabin := entity.CabinEconomy
	if len(raw.TravelerPricings) > 0 && len(raw.TravelerPricings[0].FareDetailsBySegment) > 0 {
		if c, ok := entity.ParseCabinClass(raw.TravelerPricings[0].FareDetailsBySegment[0].Cabin); ok {
			cabin = c
		}
	}

	operating := first.CarrierCode
	if first.Operating != nil && first.Operating.CarrierCode != "" {
		operating = first.Operating.CarrierCode
	}

	stops := len(itinerary.Segments) - 1
	segments := make([]entity.OfferSegment, 0, len(itinerary.Segments))
	for i, seg := range itinerary.Segments {
		stops += seg.NumberOfStops
		segments = append(segments, entity.OfferSegment{
			Segment:          i + 1,
			FlightNumber:     seg.CarrierCode + seg.Number,
			CarrierCode:      seg.CarrierCode,
			CarrierName:      carrierName(seg.CarrierCode),
			DepartureAirport: seg.Departure.IATACode,
			DepartureTime:    timePart(seg.Departure.At),
			ArrivalAirport:   seg.Arrival.IATACode,
			ArrivalTime:      timePart(seg.Arrival.At),
			Duration:         seg.Duration,
			Stops:            seg.NumberOfStops,
		})
	}

	return entity.NormalizedOffer{
		FlightNumber:      first.CarrierCode + first.Number,
		Airline:           first.CarrierCode,
		AirlineName:       carrierName(first.CarrierCode),
		DepartureDate:     datePart(first.Departure.At),
		DepartureTime:     timePart(first.Departure.At),
		ArrivalDate:       datePart(last.Arrival.At),
		ArrivalTime:       timePart(last.Arrival.At),
		DepartureAirport:  first.Departure.IATACode,
		ArrivalAirport:    last.Arrival.IATACode,
		DepartureTerminal: orNA(first.Departure.Terminal),
		ArrivalTerminal:   orNA(last.Arrival.Terminal),
		Duration:          itinerary.Duration,
		Price:             money.FormattedINR,
		PriceEUR:          money.FormattedEUR,
		PriceNumeric:      money.INR,
		PriceEURNumeric:   money.EUR,
		Currency:          "INR",
		ExchangeRate:      money.Rate,
		CabinClass:        cabin,
		Aircraft:          orNA(first.Aircraft.Code),
		OperatingCarrier:  operating,
		Route:             first.Departure.IATACode + " → " + last.Arrival.IATACode,
		Stops:             stops,
		IsDirect:          stops == 0,
		Segments:          segments,
	}, nil
}

// datePart extracts YYYY-MM-DD from a local ISO timestamp such as 2025-08-19T08:00:00
func datePart(at string) string {
	if i := strings.IndexByte(at, 'T'); i == 10 {
		return at[:10]
	}
	if at == "" {
		return "N/A"
	}
	return at
}

// timePart extracts HH:MM from a local ISO timestamp
func timePart(at string) string {
	if i := strings.IndexByte(at, 'T'); i >= 0 && len(at) >= i+6 {
		return at[i+1 : i+6]
	}
	if at == "" {
		return "N/A"
	}
	return at
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
