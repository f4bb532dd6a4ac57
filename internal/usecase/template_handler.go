package usecase

// TopicHandler answers a family of non-flight questions
type TopicHandler interface {
	// CanHandle determines if this handler can answer the given query
	CanHandle(query string) bool

	// Reply returns the user-facing answer
	Reply(query string) string
}

// TopicRouter routes general queries to the appropriate handler
type TopicRouter interface {
	// Register registers a topic handler
	Register(handler TopicHandler)

	// GetHandler returns the first handler that accepts the query, or nil
	GetHandler(query string) TopicHandler
}
