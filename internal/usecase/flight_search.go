package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"flightassist-service/internal/domain/entity"
	"flightassist-service/internal/domain/repository"
	"flightassist-service/pkg/logger"
	"flightassist-service/pkg/metrics"
	"flightassist-service/templates"
)

var airportCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)

// SearchOptions tunes provider calls
type SearchOptions struct {
	MaxResults      int
	ProviderTimeout time.Duration
}

// FlightSearchService answers free-text and structured flight searches
type FlightSearchService struct {
	extractor *ParameterExtractor
	fallback  *FallbackExtractor
	contexts  *ContextStore
	provider  repository.FlightOfferProvider
	airlines  *AirlineResolver
	formatter *OfferFormatter
	filter    *ResultFilter
	opts      SearchOptions
	metrics   *metrics.Metrics
	now       Clock
	logger    logger.Logger
}

// NewFlightSearchService creates a new flight search service. m may be nil.
func NewFlightSearchService(
	extractor *ParameterExtractor,
	fallback *FallbackExtractor,
	contexts *ContextStore,
	provider repository.FlightOfferProvider,
	airlines *AirlineResolver,
	formatter *OfferFormatter,
	filter *ResultFilter,
	opts SearchOptions,
	m *metrics.Metrics,
	clock Clock,
	logger logger.Logger,
) *FlightSearchService {
	if opts.MaxResults <= 0 {
		opts.MaxResults = 10
	}
	if clock == nil {
		clock = SystemClock
	}
	return &FlightSearchService{
		extractor: extractor,
		fallback:  fallback,
		contexts:  contexts,
		provider:  provider,
		airlines:  airlines,
		formatter: formatter,
		filter:    filter,
		opts:      opts,
		metrics:   m,
		now:       clock,
		logger:    logger,
	}
}

// Search resolves a free-text query, remembers it as the user's context and runs the search.
// General and missing-location queries are returned as errors; provider failures are reported in the result.
func (s *FlightSearchService) Search(ctx context.Context, query string, userID int64) (*entity.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", entity.ErrInvalidRequest)
	}

	params, err := s.extractor.Extract(ctx, query, userID)
	if err != nil {
		if !errors.Is(err, entity.ErrExtractionProvider) {
			s.countSearch("rejected")
			return nil, err
		}
		s.logger.Warn("Extraction provider failed, using fallback extractor", "userId", userID, "error", err)
		params = s.fallback.Extract(query, s.now())
		if s.metrics != nil {
			s.metrics.FallbackExtractions.Inc()
		}
	}

	if params.IsFollowUp && s.metrics != nil {
		s.metrics.FollowUpsTotal.WithLabelValues(string(params.FollowUpType)).Inc()
	}

	if _, err := s.contexts.Store(ctx, userID, params, query); err != nil {
		s.logger.Error("Failed to store search context", "userId", userID, "error", err)
		s.countError("store_context")
	}

	return s.run(ctx, params), nil
}

// SearchDirect runs a structured search without extraction or context
func (s *FlightSearchService) SearchDirect(ctx context.Context, params entity.CanonicalParameters) (*entity.SearchResult, error) {
	params.Normalize()
	if !airportCodeRe.MatchString(params.Origin) || !airportCodeRe.MatchString(params.Destination) {
		return nil, fmt.Errorf("%w: origin and destination must be 3-letter airport codes", entity.ErrInvalidRequest)
	}
	if params.Origin == params.Destination {
		return nil, fmt.Errorf("%w: origin and destination must differ", entity.ErrInvalidRequest)
	}
	if _, err := time.Parse(entity.DateLayout, params.DepartureDate); err != nil {
		return nil, fmt.Errorf("%w: %q", entity.ErrInvalidDate, params.DepartureDate)
	}
	return s.run(ctx, &params), nil
}

// GetContext returns the user's latest live context
func (s *FlightSearchService) GetContext(ctx context.Context, userID int64) (*entity.SearchContext, error) {
	return s.contexts.GetLatest(ctx, userID)
}

// ResetContext forgets every context of the user
func (s *FlightSearchService) ResetContext(ctx context.Context, userID int64) (int64, error) {
	return s.contexts.ClearAll(ctx, userID)
}

// AirlineStats reports detection and popularity statistics
func (s *FlightSearchService) AirlineStats(ctx context.Context) (*entity.QueryStats, error) {
	return s.airlines.Stats(ctx)
}

// SweepExpired deactivates expired contexts of all users
func (s *FlightSearchService) SweepExpired(ctx context.Context) (int64, error) {
	n, err := s.contexts.SweepExpired(ctx)
	if err != nil {
		s.countError("sweep")
		return 0, err
	}
	if s.metrics != nil {
		s.metrics.ContextsSwept.Add(float64(n))
	}
	return n, nil
}

func (s *FlightSearchService) run(ctx context.Context, params *entity.CanonicalParameters) *entity.SearchResult {
	result := &entity.SearchResult{
		Status:     entity.ResultStatusError,
		Flights:    []entity.NormalizedOffer{},
		SearchInfo: params,
	}

	req := entity.FlightSearchRequest{
		Origin:        params.Origin,
		Destination:   params.Destination,
		DepartureDate: params.DepartureDate,
		Passengers:    params.Passengers,
		CabinClass:    params.CabinClass,
		MaxResults:    s.opts.MaxResults,
	}

	pctx := ctx
	if s.opts.ProviderTimeout > 0 {
		var cancel context.CancelFunc
		pctx, cancel = context.WithTimeout(ctx, s.opts.ProviderTimeout)
		defer cancel()
	}

	s.logger.Info("Searching flights",
		"origin", req.Origin,
		"destination", req.Destination,
		"date", req.DepartureDate,
		"passengers", req.Passengers,
		"cabin", req.CabinClass)

	start := time.Now()
	raw, err := s.provider.SearchOffers(pctx, req)
	if s.metrics != nil {
		s.metrics.ProviderLatency.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		s.logger.Error("Flight provider failed", "origin", req.Origin, "destination", req.Destination, "error", err)
		s.countError("provider")
		result.Message = templates.ProviderErrorMessage(params)
		s.countSearch(result.Status)
		return result
	}
	if raw == nil || len(raw.Offers) == 0 {
		result.Message = templates.NoFlightsMessage(params)
		s.countSearch(result.Status)
		return result
	}

	s.airlines.LearnFromOffers(ctx, raw)

	dir, err := s.airlines.Directory(ctx)
	if err != nil {
		s.logger.Warn("Failed to load airline directory", "error", err)
	}

	offers := s.formatter.Normalize(ctx, raw, params.CabinClass, dir)
	if len(offers) == 0 {
		result.Message = templates.NoFlightsMessage(params)
		s.countSearch(result.Status)
		return result
	}

	outcome := s.filter.Apply(offers, params.Filters, dir)
	if len(outcome.Applied) > 0 {
		result.FiltersApplied = outcome.Applied
	}
	if len(outcome.Offers) == 0 {
		result.Message = templates.NoMatchingFlightsMessage(params, outcome.Applied)
		s.countSearch(result.Status)
		return result
	}

	result.Status = entity.ResultStatusSuccess
	result.Flights = outcome.Offers
	result.Message = templates.SearchSuccessMessage(params, len(outcome.Offers))
	s.countSearch(result.Status)

	s.logger.Info("Flight search completed",
		"origin", req.Origin,
		"destination", req.Destination,
		"offers", len(raw.Offers),
		"returned", len(outcome.Offers))
	return result
}

func (s *FlightSearchService) countSearch(status string) {
	if s.metrics != nil {
		s.metrics.SearchesTotal.WithLabelValues(status).Inc()
	}
}

func (s *FlightSearchService) countError(operation string) {
	if s.metrics != nil {
		s.metrics.ErrorsCount.WithLabelValues(operation).Inc()
	}
}
