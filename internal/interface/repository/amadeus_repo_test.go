package repository

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"flightassist-service/internal/domain/entity"
)

const offersFixture = `{
  "data": [{
    "id": "1",
    "validatingAirlineCodes": ["AI"],
    "itineraries": [{"duration": "PT2H10M", "segments": [{
      "departure": {"iataCode": "DEL", "terminal": "3", "at": "2025-08-16T06:00:00"},
      "arrival": {"iataCode": "BOM", "terminal": "2", "at": "2025-08-16T08:10:00"},
      "carrierCode": "AI", "number": "665", "aircraft": {"code": "32N"},
      "duration": "PT2H10M", "numberOfStops": 0
    }]}],
    "price": {"currency": "EUR", "total": "64.20", "grandTotal": "64.20"},
    "travelerPricings": [{"fareDetailsBySegment": [{"cabin": "ECONOMY"}]}]
  }],
  "dictionaries": {"carriers": {"AI": "AIR INDIA"}}
}`

func TestAmadeusRepository_SearchOffers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/shopping/flight-offers" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("originLocationCode") != "DEL" || q.Get("destinationLocationCode") != "BOM" ||
			q.Get("adults") != "2" || q.Get("travelClass") != "BUSINESS" || q.Get("max") != "10" {
			t.Errorf("query = %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(offersFixture))
	}))
	defer srv.Close()

	repo := NewAmadeusRepository(srv.URL, srv.Client())
	res, err := repo.SearchOffers(context.Background(), entity.FlightSearchRequest{
		Origin: "DEL", Destination: "BOM", DepartureDate: "2025-08-16",
		Passengers: 2, CabinClass: entity.CabinBusiness,
	})
	if err != nil {
		t.Fatalf("SearchOffers: %v", err)
	}
	if len(res.Offers) != 1 || res.Offers[0].Itineraries[0].Segments[0].Number != "665" {
		t.Errorf("offers = %+v", res.Offers)
	}
	if res.Carriers["AI"] != "AIR INDIA" {
		t.Errorf("carriers = %v", res.Carriers)
	}
}

func TestAmadeusRepository_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":[{"title":"SYSTEM ERROR"}]}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	repo := NewAmadeusRepository(srv.URL, srv.Client())
	_, err := repo.SearchOffers(context.Background(), entity.FlightSearchRequest{Origin: "DEL", Destination: "BOM", DepartureDate: "2025-08-16", Passengers: 1})
	if !errors.Is(err, entity.ErrProviderUnavailable) {
		t.Errorf("err = %v, want ErrProviderUnavailable", err)
	}
}

func TestHTTPExchangeRateRepository_Rate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/EUR" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"base":"EUR","rates":{"INR":90.25,"USD":1.08}}`))
	}))
	defer srv.Close()

	repo := NewHTTPExchangeRateRepository(srv.URL, srv.Client())
	rate, err := repo.Rate(context.Background(), "EUR", "INR")
	if err != nil || rate != 90.25 {
		t.Errorf("Rate = %v, %v", rate, err)
	}
	if _, err := repo.Rate(context.Background(), "EUR", "JPY"); err == nil {
		t.Error("expected error for missing quote")
	}
}
