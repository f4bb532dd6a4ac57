package repository

import (
	"context"

	"flightassist-service/internal/domain/entity"
)

// QueryLogRepository defines the append-only airline detection log
type QueryLogRepository interface {
	Append(ctx context.Context, entry *entity.QueryLogEntry) error
	Counts(ctx context.Context) (total int64, successful int64, err error)
	CommonQueries(ctx context.Context, limit int) ([]entity.QueryCount, error)
}
