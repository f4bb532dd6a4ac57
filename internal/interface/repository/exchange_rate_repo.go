package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"flightassist-service/internal/domain/repository"
)

// HTTPExchangeRateRepository reads rates from an exchangerate-api compatible endpoint
type HTTPExchangeRateRepository struct {
	baseURL string
	client  *http.Client
}

// NewHTTPExchangeRateRepository creates a new exchange rate client
func NewHTTPExchangeRateRepository(baseURL string, client *http.Client) repository.ExchangeRateRepository {
	return &HTTPExchangeRateRepository{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

type latestRatesResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// Rate returns how many units of quote one unit of base buys
func (r *HTTPExchangeRateRepository) Rate(ctx context.Context, base, quote string) (float64, error) {
	endpoint := fmt.Sprintf("%s/%s", r.baseURL, strings.ToUpper(base))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch exchange rate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("exchange rate API returned status %d", resp.StatusCode)
	}

	var decoded latestRatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return 0, fmt.Errorf("failed to decode exchange rates: %w", err)
	}

	rate, ok := decoded.Rates[strings.ToUpper(quote)]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("exchange rate %s/%s not available", base, quote)
	}
	return rate, nil
}
