package usecase

import (
	"context"

	"flightassist-service/internal/domain/entity"
	"flightassist-service/pkg/logger"
	"flightassist-service/pkg/utils"
)

// FollowUpRule maps trigger phrases to a follow-up type
type FollowUpRule struct {
	Type    entity.FollowUpType
	Phrases []string
}

// FollowUpRules is evaluated in order; the first rule with a matching phrase wins
var FollowUpRules = []FollowUpRule{
	{entity.FollowUpBusinessClass, []string{
		"business class", "business", "show business", "business flights", "premium",
		"upgrade", "first class", "economy plus", "change to business", "make it business",
	}},
	{entity.FollowUpEconomyClass, []string{
		"economy", "economy class", "show economy", "cheaper", "budget",
		"change to economy", "make it economy", "economy instead",
	}},
	{entity.FollowUpDifferentDate, []string{
		"different date", "another date", "other dates", "next day", "day before",
		"earlier", "later", "weekend",
	}},
	{entity.FollowUpMorePassengers, []string{
		"2 passengers", "3 passengers", "4 passengers", "family", "add passenger",
		"more people", "add one more passenger", "one more person", "add another passenger",
		"more passenger", "add one more", "one more traveler",
	}},
	{entity.FollowUpDestinationChange, []string{
		"change destination to", "destination to", "go to", "fly to", "change to", "instead of",
	}},
	{entity.FollowUpOriginChange, []string{
		"change origin to", "origin to", "from", "start from", "depart from", "leave from",
	}},
	{entity.FollowUpShowMore, []string{
		"show more", "more flights", "other options", "alternatives", "different airlines", "more results",
	}},
}

// routeChangePhrases keep a query with a full route in follow-up territory
var routeChangePhrases = []string{
	"change destination to", "change to", "destination to", "change origin to", "origin to", "go to", "fly to",
}

var filterVocabulary = []string{
	"direct", "non-stop", "nonstop", "business",
	"under", "less than", "below", "cheap", "price",
	"morning", "afternoon", "evening", "night",
	"exclude", "no", "prefer", "only", "stop", "stops",
}

// MatchFollowUpRule returns the first rule type whose phrase occurs in q (normalized)
func MatchFollowUpRule(q string) (entity.FollowUpType, bool) {
	for _, rule := range FollowUpRules {
		if utils.ContainsAnyPhrase(q, rule.Phrases) {
			return rule.Type, true
		}
	}
	return "", false
}

// ContextReader exposes the newest live context of a user
type ContextReader interface {
	GetLatest(ctx context.Context, userID int64) (*entity.SearchContext, error)
}

// FollowUpClassifier decides whether a query modifies the user's last search
type FollowUpClassifier struct {
	contexts ContextReader
	logger   logger.Logger
}

// NewFollowUpClassifier creates a new follow-up classifier
func NewFollowUpClassifier(contexts ContextReader, logger logger.Logger) *FollowUpClassifier {
	return &FollowUpClassifier{
		contexts: contexts,
		logger:   logger,
	}
}

// Classify returns the follow-up decision, or nil when the query is a new search
func (c *FollowUpClassifier) Classify(ctx context.Context, query string, userID int64) *entity.FollowUpDecision {
	last, err := c.contexts.GetLatest(ctx, userID)
	if err != nil || last == nil {
		return nil
	}

	t, ok := ClassifyAgainst(query)
	if !ok {
		return nil
	}

	c.logger.Debug("Classified follow-up query", "userId", userID, "type", t, "contextId", last.ID)
	return &entity.FollowUpDecision{
		Type:        t,
		LastContext: last,
		Query:       query,
	}
}

// ClassifyAgainst applies the decision list to a query assuming a prior context exists
func ClassifyAgainst(query string) (entity.FollowUpType, bool) {
	q := utils.NormalizeQuery(query)

	fullRoute := len(utils.ExtractCityCodes(q)) >= 2 || utils.HasFromToPattern(q)
	if fullRoute && !utils.ContainsAnyPhrase(q, routeChangePhrases) {
		return "", false
	}

	if t, ok := MatchFollowUpRule(q); ok {
		return t, true
	}

	hasRoute := utils.HasRouteInfo(q)
	hasDate := utils.HasDateInfo(q)
	switch {
	case hasRoute && !hasDate:
		return entity.FollowUpRouteChangeSameDate, true
	case hasDate && !hasRoute:
		return entity.FollowUpDateChangeSameRoute, true
	case !hasRoute && !hasDate && hasFilterVocabulary(q):
		return entity.FollowUpFilterChange, true
	}
	return "", false
}

func hasFilterVocabulary(q string) bool {
	return utils.ContainsAnyPhrase(q, filterVocabulary) || mentionsAirlineVocabulary(q)
}
