package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"flightassist-service/internal/domain/entity"
	"flightassist-service/pkg/logger"
	"flightassist-service/pkg/utils"
)

const maxDaysAhead = 730

var cabinKeywords = []string{"business", "economy", "first class", "premium", "coach"}

// ParameterOracle is a language model backed parameter source
type ParameterOracle interface {
	ExtractParameters(ctx context.Context, query string, reference time.Time) (*entity.OracleResult, error)
	ExtractFilters(ctx context.Context, query string) (*entity.FilterResult, error)
}

// ParameterExtractor turns a free-text query into canonical search parameters
type ParameterExtractor struct {
	followUps *FollowUpClassifier
	queries   *QueryClassifier
	oracle    ParameterOracle
	airlines  *AirlineResolver
	contexts  *ContextStore
	dates     *utils.DateParser
	now       Clock
	logger    logger.Logger
}

// NewParameterExtractor creates a new parameter extractor
func NewParameterExtractor(
	followUps *FollowUpClassifier,
	queries *QueryClassifier,
	oracle ParameterOracle,
	airlines *AirlineResolver,
	contexts *ContextStore,
	dates *utils.DateParser,
	clock Clock,
	logger logger.Logger,
) *ParameterExtractor {
	if clock == nil {
		clock = SystemClock
	}
	return &ParameterExtractor{
		followUps: followUps,
		queries:   queries,
		oracle:    oracle,
		airlines:  airlines,
		contexts:  contexts,
		dates:     dates,
		now:       clock,
		logger:    logger,
	}
}

// Extract resolves query for userID. Errors wrap ErrGeneralQuery, ErrMissingLocation or ErrExtractionProvider.
func (e *ParameterExtractor) Extract(ctx context.Context, query string, userID int64) (*entity.CanonicalParameters, error) {
	ref := e.now()

	decision := e.followUps.Classify(ctx, query, userID)
	if decision != nil {
		if params, ok := e.applyFollowUp(decision, ref); ok {
			e.logger.Info("Resolved follow-up locally",
				"userId", userID,
				"type", decision.Type,
				"route", params.Origin+"-"+params.Destination,
				"date", params.DepartureDate)
			return params, nil
		}
		if decision.Type == entity.FollowUpFilterChange {
			return e.extractFilterChange(ctx, decision)
		}
		e.logger.Debug("Follow-up needs fresh extraction", "userId", userID, "type", decision.Type)
	} else if general := e.queries.GeneralReply(query); general != nil {
		return nil, general
	}

	res, err := e.oracle.ExtractParameters(ctx, query, ref)
	if err != nil {
		if !errors.Is(err, entity.ErrExtractionProvider) {
			err = fmt.Errorf("%w: %v", entity.ErrExtractionProvider, err)
		}
		return nil, err
	}
	if res.Error == entity.OracleErrorMissingLocation {
		return nil, entity.ErrMissingLocation
	}

	params := &entity.CanonicalParameters{
		Origin:      res.Origin,
		Destination: res.Destination,
		Passengers:  res.Passengers,
		CabinClass:  entity.CabinClass(res.CabinClass),
	}
	if res.Filters != nil {
		params.Filters = res.Filters.Clone()
	}

	if decision != nil && decision.LastContext != nil {
		if params.Origin == "" {
			params.Origin = decision.LastContext.Origin
		}
		if params.Destination == "" {
			params.Destination = decision.LastContext.Destination
		}
	}
	if strings.TrimSpace(params.Origin) == "" || strings.TrimSpace(params.Destination) == "" {
		return nil, entity.ErrMissingLocation
	}

	resolution := e.dates.Resolve(query, ref)
	params.DepartureDate = reconcileDate(res.DepartureDate, utils.NormalizeQuery(query), resolution, ref)
	if resolution.Kind == utils.DateRange && params.DepartureDate == resolution.Start.Format(entity.DateLayout) {
		end := resolution.End.Format(entity.DateLayout)
		params.DateRangeEnd = &end
	}

	if params.DepartureDate == "" {
		prior := e.priorContext(ctx, decision, userID)
		if prior != nil {
			params.DepartureDate = prior.DepartureDate
			params.InheritedDate = true
			params.IsFollowUp = true
			params.FollowUpType = entity.FollowUpRouteChangeSameDate
			e.logger.Info("Inherited date from previous search", "userId", userID, "date", prior.DepartureDate)
		} else {
			params.DepartureDate = ref.AddDate(0, 0, defaultLeadDays).Format(entity.DateLayout)
		}
	}

	if decision != nil {
		params.IsFollowUp = true
		params.FollowUpType = decision.Type
	}

	if err := e.canonicalizeAirlines(ctx, query, &params.Filters); err != nil {
		e.logger.Warn("Failed to canonicalize airlines", "error", err)
	}

	params.OriginalQuery = query
	params.Normalize()
	return params, nil
}

func (e *ParameterExtractor) priorContext(ctx context.Context, decision *entity.FollowUpDecision, userID int64) *entity.SearchContext {
	if decision != nil && decision.LastContext != nil {
		return decision.LastContext
	}
	if e.contexts == nil {
		return nil
	}
	return e.contexts.latestOrNil(ctx, userID)
}

// applyFollowUp patches the prior parameters when the change can be derived without the oracle
func (e *ParameterExtractor) applyFollowUp(decision *entity.FollowUpDecision, ref time.Time) (*entity.CanonicalParameters, bool) {
	if decision.LastContext == nil {
		return nil, false
	}
	params := decision.LastContext.Params()
	q := utils.NormalizeQuery(decision.Query)

	switch decision.Type {
	case entity.FollowUpBusinessClass:
		params.CabinClass = entity.CabinBusiness
	case entity.FollowUpEconomyClass:
		params.CabinClass = entity.CabinEconomy
	case entity.FollowUpMorePassengers:
		if n, ok := utils.FirstNumber(q); ok && n > 0 {
			params.Passengers = n
		} else {
			params.Passengers = 2
		}
	case entity.FollowUpDestinationChange:
		code := utils.CityAfter(q, "to")
		if code == "" {
			return nil, false
		}
		params.Destination = code
	case entity.FollowUpOriginChange:
		code := utils.CityAfter(q, "from")
		if code == "" {
			return nil, false
		}
		params.Origin = code
	case entity.FollowUpDateChangeSameRoute:
		res := e.dates.Resolve(q, ref)
		if !res.Found() {
			return nil, false
		}
		setResolvedDate(&params, res)
	case entity.FollowUpDifferentDate:
		e.shiftDate(&params, q, ref)
	case entity.FollowUpShowMore:
	default:
		return nil, false
	}

	params.IsFollowUp = true
	params.FollowUpType = decision.Type
	params.OriginalQuery = decision.Query
	return &params, true
}

func (e *ParameterExtractor) shiftDate(params *entity.CanonicalParameters, q string, ref time.Time) {
	prior, err := time.Parse(entity.DateLayout, params.DepartureDate)
	switch {
	case err == nil && utils.ContainsPhrase(q, "next day"):
		params.DepartureDate = prior.AddDate(0, 0, 1).Format(entity.DateLayout)
		params.DateRangeEnd = nil
	case err == nil && utils.ContainsPhrase(q, "day before"):
		params.DepartureDate = prior.AddDate(0, 0, -1).Format(entity.DateLayout)
		params.DateRangeEnd = nil
	default:
		if res := e.dates.Resolve(q, ref); res.Found() {
			setResolvedDate(params, res)
		}
	}
}

func setResolvedDate(params *entity.CanonicalParameters, res utils.DateResolution) {
	d, _ := res.First()
	params.DepartureDate = d.Format(entity.DateLayout)
	params.DateRangeEnd = nil
	if res.Kind == utils.DateRange {
		end := res.End.Format(entity.DateLayout)
		params.DateRangeEnd = &end
	}
}

// extractFilterChange keeps the prior route, date and passengers and merges new filters over the old ones
func (e *ParameterExtractor) extractFilterChange(ctx context.Context, decision *entity.FollowUpDecision) (*entity.CanonicalParameters, error) {
	res, err := e.oracle.ExtractFilters(ctx, decision.Query)
	if err != nil {
		if !errors.Is(err, entity.ErrExtractionProvider) {
			err = fmt.Errorf("%w: %v", entity.ErrExtractionProvider, err)
		}
		return nil, err
	}

	params := decision.LastContext.Params()
	incoming := res.Filters.Clone()
	if err := e.canonicalizeAirlines(ctx, decision.Query, &incoming); err != nil {
		e.logger.Warn("Failed to canonicalize airlines", "error", err)
	}
	params.Filters = params.Filters.Merge(incoming)

	if utils.ContainsAnyPhrase(utils.NormalizeQuery(decision.Query), cabinKeywords) {
		if cabin, ok := entity.ParseCabinClass(res.CabinClass); ok {
			params.CabinClass = cabin
		}
	}

	params.IsFollowUp = true
	params.FollowUpType = decision.Type
	params.OriginalQuery = decision.Query
	params.Normalize()
	return &params, nil
}

// canonicalizeAirlines rewrites airline mentions to canonical names and fills specific
// airlines from a deterministic scan when none were extracted
func (e *ParameterExtractor) canonicalizeAirlines(ctx context.Context, query string, filters *entity.FilterSet) error {
	if e.airlines == nil {
		return nil
	}
	dir, err := e.airlines.Directory(ctx)
	if err != nil {
		return err
	}
	filters.SpecificAirlines = CanonicalNames(dir, filters.SpecificAirlines)
	filters.ExcludeAirlines = CanonicalNames(dir, filters.ExcludeAirlines)
	filters.PreferredAirlines = CanonicalNames(dir, filters.PreferredAirlines)

	if len(filters.SpecificAirlines) > 0 {
		return nil
	}
	detected, err := e.airlines.Detect(ctx, query)
	if err != nil {
		return err
	}
	for _, name := range detected {
		if containsFold(filters.ExcludeAirlines, name) || containsFold(filters.PreferredAirlines, name) {
			continue
		}
		filters.SpecificAirlines = append(filters.SpecificAirlines, name)
	}
	return nil
}

// reconcileDate checks the oracle's date against the resolver and returns the date to use,
// or "" when neither produced one
func reconcileDate(oracleDate, q string, res utils.DateResolution, ref time.Time) string {
	resolved, hasResolved := res.First()
	resolvedStr := ""
	if hasResolved {
		resolvedStr = resolved.Format(entity.DateLayout)
	}

	if strings.TrimSpace(oracleDate) == "" {
		return resolvedStr
	}
	od, err := time.Parse(entity.DateLayout, strings.TrimSpace(oracleDate))
	if err != nil {
		return resolvedStr
	}

	today := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	days := int(od.Sub(today).Hours() / 24)

	var override bool
	switch {
	case utils.ContainsAnyPhrase(q, utils.TomorrowVariants):
		override = days != 1
	case utils.ContainsPhrase(q, "next week"):
		override = days < 5 || days > 9
	case utils.ContainsPhrase(q, "next month") && hasResolved:
		override = od.Month() != resolved.Month() || od.Year() != resolved.Year()
	default:
		override = days < 0 || days > maxDaysAhead
	}

	if override && hasResolved {
		return resolvedStr
	}
	return od.Format(entity.DateLayout)
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
