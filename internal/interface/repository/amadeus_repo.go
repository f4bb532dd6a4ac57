package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"flightassist-service/internal/domain/entity"
	"flightassist-service/internal/domain/repository"
)

// AmadeusRepository implements the FlightOfferProvider interface over the Amadeus REST API
type AmadeusRepository struct {
	baseURL string
	client  *http.Client
}

// NewAmadeusRepository creates a new Amadeus provider. client must attach the bearer token.
func NewAmadeusRepository(baseURL string, client *http.Client) repository.FlightOfferProvider {
	return &AmadeusRepository{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

type amadeusOffersResponse struct {
	Data         []entity.RawOffer `json:"data"`
	Dictionaries struct {
		Carriers map[string]string `json:"carriers"`
	} `json:"dictionaries"`
}

// SearchOffers fetches one-way flight offers
func (r *AmadeusRepository) SearchOffers(ctx context.Context, req entity.FlightSearchRequest) (*entity.FlightOfferResult, error) {
	params := url.Values{}
	params.Set("originLocationCode", req.Origin)
	params.Set("destinationLocationCode", req.Destination)
	params.Set("departureDate", req.DepartureDate)
	params.Set("adults", strconv.Itoa(req.Passengers))
	if req.CabinClass != "" {
		params.Set("travelClass", string(req.CabinClass))
	}
	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}
	params.Set("max", strconv.Itoa(maxResults))

	endpoint := fmt.Sprintf("%s/v2/shopping/flight-offers?%s", r.baseURL, params.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: amadeus returned status %d: %s", entity.ErrProviderUnavailable, resp.StatusCode, truncate(string(body), 300))
	}

	var decoded amadeusOffersResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode flight offers: %w", err)
	}

	carriers := decoded.Dictionaries.Carriers
	if carriers == nil {
		carriers = map[string]string{}
	}
	return &entity.FlightOfferResult{
		Offers:   decoded.Data,
		Carriers: carriers,
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
