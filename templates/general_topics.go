package templates

import (
	"flightassist-service/pkg/utils"
)

// GeneralTopicHandler answers one family of non-flight questions
type GeneralTopicHandler struct {
	name     string
	keywords []string
	message  string
}

// NewGeneralTopicHandler creates a handler that replies with message when any keyword is present
func NewGeneralTopicHandler(name string, keywords []string, message string) *GeneralTopicHandler {
	return &GeneralTopicHandler{
		name:     name,
		keywords: keywords,
		message:  message,
	}
}

// CanHandle determines if this handler can answer the given query
func (h *GeneralTopicHandler) CanHandle(query string) bool {
	return utils.ContainsAnyPhrase(utils.NormalizeQuery(query), h.keywords)
}

// Reply returns the canned reply
func (h *GeneralTopicHandler) Reply(query string) string {
	return h.message
}

// Name identifies the topic in logs
func (h *GeneralTopicHandler) Name() string {
	return h.name
}

// DefaultGeneralReply is used when no topic handler matches
const DefaultGeneralReply = "I'm a flight search assistant. Try asking about flights between cities!"

// GeneralTopics returns the built-in topic handlers in priority order
func GeneralTopics() []*GeneralTopicHandler {
	return []*GeneralTopicHandler{
		NewGeneralTopicHandler("weather",
			[]string{"weather", "temperature", "rain", "sunny"},
			"I can't check weather, but I can help you find flights! Weather is important for travel planning."),
		NewGeneralTopicHandler("joke",
			[]string{"joke", "jokes", "funny", "laugh"},
			"I'm not a comedian, but I can make your travel planning fun! Let me find you great flight deals."),
		NewGeneralTopicHandler("food",
			[]string{"food", "cook", "cooking", "recipe", "eat"},
			"I can't help with cooking, but I can help you fly to places with amazing food!"),
		NewGeneralTopicHandler("geography",
			[]string{"capital", "country", "geography"},
			"I can't answer geography questions, but I can help you fly to any capital city!"),
	}
}

type suggestionRule struct {
	keywords    []string
	suggestions []string
}

var suggestionRules = []suggestionRule{
	{
		keywords: []string{"delhi"},
		suggestions: []string{
			"Search flights from Delhi to Mumbai tomorrow",
			"Find flights from Delhi to Bangalore next week",
			"Show flights from Delhi to Goa this weekend",
		},
	},
	{
		keywords: []string{"mumbai"},
		suggestions: []string{
			"Search flights from Mumbai to Delhi tomorrow",
			"Find flights from Mumbai to Chennai next week",
			"Show flights from Mumbai to Kochi in August",
		},
	},
	{
		keywords: []string{"vacation", "holiday", "trip"},
		suggestions: []string{
			"Plan a trip: flights from Delhi to Goa next month",
			"Weekend getaway: flights from Mumbai to Bangalore",
			"Holiday flights: Delhi to Chennai in August",
		},
	},
	{
		keywords: []string{"business", "work", "meeting"},
		suggestions: []string{
			"Business travel: flights from Delhi to Mumbai tomorrow",
			"Quick trip: flights from Bangalore to Hyderabad today",
			"Same-day return: flights from Chennai to Kochi",
		},
	},
}

var defaultSuggestions = []string{
	"Search flights from Delhi to Mumbai tomorrow",
	"Find flights from Bangalore to Chennai next week",
	"Show flights from Kochi to Goa in August",
}

// Suggestions returns example flight queries related to the query
func Suggestions(query string) []string {
	q := utils.NormalizeQuery(query)
	for _, rule := range suggestionRules {
		if utils.ContainsAnyPhrase(q, rule.keywords) {
			return append([]string(nil), rule.suggestions...)
		}
	}
	return append([]string(nil), defaultSuggestions...)
}
