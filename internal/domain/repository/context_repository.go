package repository

import (
	"context"
	"time"

	"flightassist-service/internal/domain/entity"
)

// ContextRepository defines storage operations for conversation search contexts.
// Deactivation never requires physical deletion.
type ContextRepository interface {
	Insert(ctx context.Context, sc *entity.SearchContext) error
	// DeactivateExpired deactivates one user's contexts with expires_at <= now
	DeactivateExpired(ctx context.Context, userID int64, now time.Time) (int64, error)
	// DeactivateBeyond keeps the newest `keep` active contexts of a user and deactivates the rest
	DeactivateBeyond(ctx context.Context, userID int64, keep int) (int64, error)
	// FindLatestActive returns the newest active context with expires_at > now
	FindLatestActive(ctx context.Context, userID int64, now time.Time) (*entity.SearchContext, error)
	CountActive(ctx context.Context, userID int64, now time.Time) (int64, error)
	DeactivateAll(ctx context.Context, userID int64) (int64, error)
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}
