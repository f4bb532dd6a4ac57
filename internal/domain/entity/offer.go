package entity

// FlightSearchRequest is the query sent to the flight-offers provider
type FlightSearchRequest struct {
	Origin        string
	Destination   string
	DepartureDate string
	Passengers    int
	CabinClass    CabinClass
	MaxResults    int
}

// FlightOfferResult is a provider response: raw offers plus the carrier dictionary
type FlightOfferResult struct {
	Offers   []RawOffer
	Carriers map[string]string
}

// RawOffer mirrors a flight-offers search item
type RawOffer struct {
	ID                     string               `json:"id"`
	ValidatingAirlineCodes []string             `json:"validatingAirlineCodes"`
	Itineraries            []RawItinerary       `json:"itineraries"`
	Price                  RawPrice             `json:"price"`
	TravelerPricings       []RawTravelerPricing `json:"travelerPricings"`
}

type RawItinerary struct {
	Duration string       `json:"duration"`
	Segments []RawSegment `json:"segments"`
}

type RawSegment struct {
	Departure     RawEndpoint  `json:"departure"`
	Arrival       RawEndpoint  `json:"arrival"`
	CarrierCode   string       `json:"carrierCode"`
	Number        string       `json:"number"`
	Aircraft      RawAircraft  `json:"aircraft"`
	Operating     *RawOperator `json:"operating,omitempty"`
	Duration      string       `json:"duration"`
	NumberOfStops int          `json:"numberOfStops"`
}

type RawEndpoint struct {
	IATACode string `json:"iataCode"`
	Terminal string `json:"terminal"`
	At       string `json:"at"`
}

type RawAircraft struct {
	Code string `json:"code"`
}

type RawOperator struct {
	CarrierCode string `json:"carrierCode"`
}

type RawPrice struct {
	Currency   string `json:"currency"`
	Total      string `json:"total"`
	GrandTotal string `json:"grandTotal"`
}

type RawTravelerPricing struct {
	FareDetailsBySegment []RawFareDetail `json:"fareDetailsBySegment"`
}

type RawFareDetail struct {
	Cabin string `json:"cabin"`
}

// NormalizedOffer is the user-facing flight record
type NormalizedOffer struct {
	FlightNumber      string         `json:"flight_number"`
	Airline           string         `json:"airline"`
	AirlineName       string         `json:"airline_name"`
	DepartureDate     string         `json:"departure_date"`
	DepartureTime     string         `json:"departure_time"`
	ArrivalDate       string         `json:"arrival_date"`
	ArrivalTime       string         `json:"arrival_time"`
	DepartureAirport  string         `json:"departure_airport"`
	ArrivalAirport    string         `json:"arrival_airport"`
	DepartureTerminal string         `json:"departure_terminal"`
	ArrivalTerminal   string         `json:"arrival_terminal"`
	Duration          string         `json:"duration"`
	Price             string         `json:"price"`
	PriceEUR          string         `json:"price_eur"`
	PriceNumeric      float64        `json:"price_numeric"`
	PriceEURNumeric   float64        `json:"price_eur_numeric"`
	Currency          string         `json:"currency"`
	ExchangeRate      float64        `json:"exchange_rate"`
	CabinClass        CabinClass     `json:"cabin_class"`
	Aircraft          string         `json:"aircraft"`
	OperatingCarrier  string         `json:"operating_carrier"`
	Route             string         `json:"route"`
	Stops             int            `json:"stops"`
	IsDirect          bool           `json:"is_direct"`
	Segments          []OfferSegment `json:"segments"`
}

// OfferSegment is one leg of a normalized offer
type OfferSegment struct {
	Segment          int    `json:"segment"`
	FlightNumber     string `json:"flight_number"`
	CarrierCode      string `json:"carrier_code"`
	CarrierName      string `json:"carrier_name,omitempty"`
	DepartureAirport string `json:"departure_airport"`
	DepartureTime    string `json:"departure_time"`
	ArrivalAirport   string `json:"arrival_airport"`
	ArrivalTime      string `json:"arrival_time"`
	Duration         string `json:"duration"`
	Stops            int    `json:"stops"`
}

// PrimaryCarrier returns the code and name of the first segment's carrier
func (o *NormalizedOffer) PrimaryCarrier() (string, string) {
	if len(o.Segments) > 0 {
		return o.Segments[0].CarrierCode, o.Segments[0].CarrierName
	}
	return o.Airline, o.AirlineName
}

// PrimaryDepartureTime returns the first segment's local departure time as HH:MM
func (o *NormalizedOffer) PrimaryDepartureTime() string {
	if len(o.Segments) > 0 && o.Segments[0].DepartureTime != "" {
		return o.Segments[0].DepartureTime
	}
	return o.DepartureTime
}
