package usecase

import (
	"flightassist-service/internal/domain/entity"
	"flightassist-service/pkg/utils"
	"flightassist-service/templates"
)

var flightKeywords = []string{
	"flight", "flights", "fly", "flying", "travel", "trip", "journey",
	"book", "booking", "ticket", "tickets", "airport", "airline",
	"departure", "arrival", "takeoff", "landing",
}

var locationKeywords = []string{
	"delhi", "mumbai", "bangalore", "chennai", "kolkata", "hyderabad",
	"pune", "ahmedabad", "kochi", "goa", "jaipur", "lucknow",
	"from", "to", "between", "via",
}

var generalDateKeywords = []string{
	"today", "tomorrow", "yesterday", "next week", "next month",
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// QueryScores counts vocabulary hits per category
type QueryScores struct {
	Flight   int
	Location int
	Date     int
}

// FlightRelated applies the threshold: any flight word, or two hits in total
func (s QueryScores) FlightRelated() bool {
	return s.Flight >= 1 || s.Flight+s.Location+s.Date >= 2
}

// QueryClassifier separates flight searches from general chat
type QueryClassifier struct {
	topics TopicRouter
}

// NewQueryClassifier creates a new query classifier. topics may be nil.
func NewQueryClassifier(topics TopicRouter) *QueryClassifier {
	return &QueryClassifier{topics: topics}
}

// Score counts keyword hits in query
func (c *QueryClassifier) Score(query string) QueryScores {
	q := utils.NormalizeQuery(query)
	return QueryScores{
		Flight:   countPhrases(q, flightKeywords),
		Location: countPhrases(q, locationKeywords),
		Date:     countPhrases(q, generalDateKeywords) + countPhrases(q, utils.TomorrowVariants[1:]),
	}
}

// GeneralReply returns nil for flight queries, otherwise the topic-aware reply
func (c *QueryClassifier) GeneralReply(query string) *entity.GeneralQueryError {
	if c.Score(query).FlightRelated() {
		return nil
	}

	message := templates.DefaultGeneralReply
	if c.topics != nil {
		if h := c.topics.GetHandler(query); h != nil {
			message = h.Reply(query)
		}
	}
	return &entity.GeneralQueryError{
		Message:     message,
		Suggestions: templates.Suggestions(query),
	}
}

func countPhrases(q string, phrases []string) int {
	n := 0
	for _, p := range phrases {
		if utils.ContainsPhrase(q, p) {
			n++
		}
	}
	return n
}
