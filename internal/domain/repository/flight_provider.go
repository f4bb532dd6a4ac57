package repository

import (
	"context"

	"flightassist-service/internal/domain/entity"
)

// FlightOfferProvider queries an external flight-offers API
type FlightOfferProvider interface {
	SearchOffers(ctx context.Context, req entity.FlightSearchRequest) (*entity.FlightOfferResult, error)
}
