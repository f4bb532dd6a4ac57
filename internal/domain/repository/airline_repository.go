package repository

import (
	"context"

	"flightassist-service/internal/domain/entity"
)

// AirlineRepository defines the interface for airline operations
type AirlineRepository interface {
	GetByCode(ctx context.Context, code string) (*entity.Airline, error)
	List(ctx context.Context) ([]*entity.Airline, error)
	Save(ctx context.Context, airline *entity.Airline) error
	TopByUsage(ctx context.Context, limit int) ([]*entity.Airline, error)
}
