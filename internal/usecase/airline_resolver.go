package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"flightassist-service/internal/domain/entity"
	"flightassist-service/internal/domain/repository"
	"flightassist-service/pkg/logger"
	"flightassist-service/pkg/utils"
)

// airlineFilterKeywords gate detection so plain route queries are not scanned for airlines
var airlineFilterKeywords = []string{"only", "show only", "just", "merely", "simply", "exclusively", "flights", "flight"}

const statsLimit = 10

// AirlineResolver canonicalizes airline mentions and learns names from provider responses
type AirlineResolver struct {
	airlineRepo  repository.AirlineRepository
	queryLogRepo repository.QueryLogRepository
	now          Clock
	logger       logger.Logger
}

// NewAirlineResolver creates a new airline resolver. queryLogRepo may be nil.
func NewAirlineResolver(
	airlineRepo repository.AirlineRepository,
	queryLogRepo repository.QueryLogRepository,
	clock Clock,
	logger logger.Logger,
) *AirlineResolver {
	if clock == nil {
		clock = SystemClock
	}
	return &AirlineResolver{
		airlineRepo:  airlineRepo,
		queryLogRepo: queryLogRepo,
		now:          clock,
		logger:       logger,
	}
}

// Directory loads a snapshot of known airlines
func (r *AirlineResolver) Directory(ctx context.Context) (*AirlineDirectory, error) {
	airlines, err := r.airlineRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list airlines: %w", err)
	}
	return NewAirlineDirectory(airlines), nil
}

// Canonicalize resolves a mention to a known airline. Unknown mentions return nil without error.
func (r *AirlineResolver) Canonicalize(ctx context.Context, mention string) (*entity.Airline, error) {
	dir, err := r.Directory(ctx)
	if err != nil {
		return nil, err
	}
	return dir.Resolve(mention), nil
}

// CanonicalNames maps each mention to its airline's canonical name, keeping unknown mentions verbatim.
// Duplicates are dropped.
func CanonicalNames(dir *AirlineDirectory, mentions []string) []string {
	if len(mentions) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(mentions))
	out := make([]string, 0, len(mentions))
	for _, m := range mentions {
		name := strings.TrimSpace(m)
		if a := dir.Resolve(name); a != nil {
			name = a.Name
		}
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	return out
}

// Detect scans a query for airline mentions and returns their canonical names.
// Every attempt past the keyword gate is written to the query log.
func (r *AirlineResolver) Detect(ctx context.Context, query string) ([]string, error) {
	q := utils.NormalizeQuery(query)
	if !utils.ContainsAnyPhrase(q, airlineFilterKeywords) {
		return nil, nil
	}

	dir, err := r.Directory(ctx)
	if err != nil {
		return nil, err
	}

	found := dir.Scan(query)
	names := make([]string, 0, len(found))
	for _, a := range found {
		names = append(names, a.Name)
	}

	entry := &entity.QueryLogEntry{
		QueryText: query,
		Success:   len(found) > 0,
		Timestamp: r.now().UTC(),
	}
	if len(found) > 0 {
		entry.DetectedCode = found[0].Code
		entry.DetectedName = found[0].Name
	}
	r.logQuery(ctx, entry)

	return names, nil
}

func (r *AirlineResolver) logQuery(ctx context.Context, entry *entity.QueryLogEntry) {
	if r.queryLogRepo == nil {
		return
	}
	if err := r.queryLogRepo.Append(ctx, entry); err != nil {
		r.logger.Warn("Failed to log airline query", "query", entry.QueryText, "error", err)
	}
}

// Learn records an observed name for a carrier code
func (r *AirlineResolver) Learn(ctx context.Context, code, observedName string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	observedName = strings.TrimSpace(observedName)
	if code == "" || observedName == "" {
		return nil
	}
	now := r.now().UTC()

	airline, err := r.airlineRepo.GetByCode(ctx, code)
	if errors.Is(err, entity.ErrAirlineNotFound) {
		airline = &entity.Airline{
			Code:       code,
			Name:       observedName,
			Aliases:    []string{observedName},
			UsageCount: 1,
			FirstSeen:  now,
			LastSeen:   now,
		}
		r.logger.Info("Learned new airline", "code", code, "name", observedName)
		return r.airlineRepo.Save(ctx, airline)
	}
	if err != nil {
		return fmt.Errorf("failed to load airline %s: %w", code, err)
	}

	if airline.AddAlias(observedName) {
		r.logger.Debug("Learned airline alias", "code", code, "alias", observedName)
	}
	airline.UsageCount++
	airline.LastSeen = now
	return r.airlineRepo.Save(ctx, airline)
}

// LearnFromOffers records the carrier of every offer in a provider response
func (r *AirlineResolver) LearnFromOffers(ctx context.Context, result *entity.FlightOfferResult) {
	if result == nil {
		return
	}
	for _, offer := range result.Offers {
		code := primaryRawCarrier(offer)
		name := result.Carriers[code]
		if code == "" || name == "" {
			continue
		}
		if err := r.Learn(ctx, code, name); err != nil {
			r.logger.Warn("Failed to learn airline", "code", code, "error", err)
		}
	}
}

// Stats summarizes detection history and airline popularity
func (r *AirlineResolver) Stats(ctx context.Context) (*entity.QueryStats, error) {
	stats := &entity.QueryStats{
		CommonQueries:   []entity.QueryCount{},
		PopularAirlines: []entity.AirlineUsage{},
	}

	if r.queryLogRepo != nil {
		total, successful, err := r.queryLogRepo.Counts(ctx)
		if err != nil {
			return nil, err
		}
		stats.TotalQueries = total
		stats.SuccessfulQueries = successful
		if total > 0 {
			stats.SuccessRate = float64(successful) / float64(total) * 100
		}

		common, err := r.queryLogRepo.CommonQueries(ctx, statsLimit)
		if err != nil {
			return nil, err
		}
		stats.CommonQueries = common
	}

	top, err := r.airlineRepo.TopByUsage(ctx, statsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank airlines: %w", err)
	}
	for _, a := range top {
		stats.PopularAirlines = append(stats.PopularAirlines, entity.AirlineUsage{Name: a.Name, UsageCount: a.UsageCount})
	}
	return stats, nil
}

func primaryRawCarrier(offer entity.RawOffer) string {
	if len(offer.ValidatingAirlineCodes) > 0 && offer.ValidatingAirlineCodes[0] != "" {
		return offer.ValidatingAirlineCodes[0]
	}
	if len(offer.Itineraries) > 0 && len(offer.Itineraries[0].Segments) > 0 {
		return offer.Itineraries[0].Segments[0].CarrierCode
	}
	return ""
}
