package repository

import (
	"context"
	"time"

	"flightassist-service/internal/domain/entity"
)

// ExtractionOracle is a natural-language parameter extractor backed by a language model.
// Its output is a best-effort guess and must be validated by the caller.
type ExtractionOracle interface {
	Name() string
	ExtractParameters(ctx context.Context, query string, reference time.Time) (*entity.OracleResult, error)
	ExtractFilters(ctx context.Context, query string) (*entity.FilterResult, error)
}
