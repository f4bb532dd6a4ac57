package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flightassist-service/internal/domain/entity"
	"flightassist-service/internal/domain/repository"
	"flightassist-service/pkg/logger"

	"github.com/google/uuid"
)

// ContextStore keeps each user's recent searches for follow-up resolution
type ContextStore struct {
	repo      repository.ContextRepository
	ttl       time.Duration
	maxActive int
	now       Clock
	logger    logger.Logger
}

// NewContextStore creates a new context store
func NewContextStore(repo repository.ContextRepository, ttl time.Duration, maxActive int, clock Clock, logger logger.Logger) *ContextStore {
	if clock == nil {
		clock = SystemClock
	}
	return &ContextStore{
		repo:      repo,
		ttl:       ttl,
		maxActive: maxActive,
		now:       clock,
		logger:    logger,
	}
}

// Store saves params as the user's newest context and enforces the active cap
func (s *ContextStore) Store(ctx context.Context, userID int64, params *entity.CanonicalParameters, query string) (*entity.SearchContext, error) {
	now := s.now().UTC()

	if _, err := s.repo.DeactivateExpired(ctx, userID, now); err != nil {
		return nil, fmt.Errorf("failed to deactivate expired contexts: %w", err)
	}

	sc := &entity.SearchContext{
		ID:            uuid.NewString(),
		UserID:        userID,
		ContextType:   entity.ContextTypeFlightSearch,
		Origin:        params.Origin,
		Destination:   params.Destination,
		DepartureDate: params.DepartureDate,
		Passengers:    params.Passengers,
		CabinClass:    params.CabinClass,
		RawParams:     *params,
		OriginalQuery: query,
		CreatedAt:     now,
		ExpiresAt:     now.Add(s.ttl),
		Active:        true,
	}
	sc.RawParams.Filters = params.Filters.Clone()

	if err := s.repo.Insert(ctx, sc); err != nil {
		return nil, err
	}

	trimmed, err := s.repo.DeactivateBeyond(ctx, userID, s.maxActive)
	if err != nil {
		return nil, fmt.Errorf("failed to trim contexts: %w", err)
	}

	s.logger.Debug("Stored search context",
		"userId", userID,
		"contextId", sc.ID,
		"route", params.Origin+"-"+params.Destination,
		"trimmed", trimmed)

	return sc, nil
}

// GetLatest returns the newest live context, or ErrContextNotFound
func (s *ContextStore) GetLatest(ctx context.Context, userID int64) (*entity.SearchContext, error) {
	return s.repo.FindLatestActive(ctx, userID, s.now().UTC())
}

// ClearAll deactivates every context of the user
func (s *ContextStore) ClearAll(ctx context.Context, userID int64) (int64, error) {
	n, err := s.repo.DeactivateAll(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear contexts: %w", err)
	}
	s.logger.Info("Cleared search contexts", "userId", userID, "count", n)
	return n, nil
}

// SweepExpired deactivates expired contexts of all users
func (s *ContextStore) SweepExpired(ctx context.Context) (int64, error) {
	n, err := s.repo.SweepExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to sweep contexts: %w", err)
	}
	return n, nil
}

// latestOrNil hides ErrContextNotFound for callers that treat "no context" as a normal case
func (s *ContextStore) latestOrNil(ctx context.Context, userID int64) *entity.SearchContext {
	sc, err := s.GetLatest(ctx, userID)
	if err != nil {
		if !errors.Is(err, entity.ErrContextNotFound) {
			s.logger.Warn("Failed to load search context", "userId", userID, "error", err)
		}
		return nil
	}
	return sc
}
