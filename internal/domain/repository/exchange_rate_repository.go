package repository

import "context"

// ExchangeRateRepository fetches live currency rates
type ExchangeRateRepository interface {
	Rate(ctx context.Context, base, quote string) (float64, error)
}
