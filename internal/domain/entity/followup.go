package entity

// FollowUpDecision is the classifier's verdict for a query that modifies the last search
type FollowUpDecision struct {
	Type        FollowUpType
	LastContext *SearchContext
	Query       string
}
