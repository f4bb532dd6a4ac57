package usecase

import (
	"context"
	"fmt"
	"math"

	"flightassist-service/internal/domain/repository"
	"flightassist-service/pkg/logger"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencyConverter turns provider EUR prices into INR display prices
type CurrencyConverter struct {
	rates       repository.ExchangeRateRepository
	defaultRate float64
	useLive     bool
	printer     *message.Printer
	logger      logger.Logger
}

// NewCurrencyConverter creates a new converter. rates may be nil, in which case defaultRate is always used.
func NewCurrencyConverter(rates repository.ExchangeRateRepository, defaultRate float64, useLive bool, logger logger.Logger) *CurrencyConverter {
	return &CurrencyConverter{
		rates:       rates,
		defaultRate: defaultRate,
		useLive:     useLive && rates != nil,
		printer:     message.NewPrinter(language.English),
		logger:      logger,
	}
}

// Rate returns the EUR to INR rate, falling back to the configured default
func (c *CurrencyConverter) Rate(ctx context.Context) float64 {
	if !c.useLive {
		return c.defaultRate
	}
	rate, err := c.rates.Rate(ctx, "EUR", "INR")
	if err != nil {
		c.logger.Warn("Using default exchange rate", "rate", c.defaultRate, "error", err)
		return c.defaultRate
	}
	return rate
}

// Money is a converted price
type Money struct {
	INR          float64
	EUR          float64
	Rate         float64
	FormattedINR string
	FormattedEUR string
}

// Convert applies rate to an EUR amount
func (c *CurrencyConverter) Convert(eur, rate float64) Money {
	inr := eur * rate
	return Money{
		INR:          math.Round(inr*100) / 100,
		EUR:          eur,
		Rate:         rate,
		FormattedINR: c.printer.Sprintf("₹%d", int64(math.Round(inr))),
		FormattedEUR: fmt.Sprintf("€%.2f", eur),
	}
}
