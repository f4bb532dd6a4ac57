package router

import (
	"fmt"

	"flightassist-service/internal/usecase"
	"flightassist-service/pkg/logger"
)

// TopicRouter routes general queries to handlers in registration order
type TopicRouter struct {
	handlers []usecase.TopicHandler
	logger   logger.Logger
}

// NewTopicRouter creates a new topic router
func NewTopicRouter(logger logger.Logger) *TopicRouter {
	return &TopicRouter{
		handlers: make([]usecase.TopicHandler, 0),
		logger:   logger,
	}
}

// Register registers a topic handler
func (r *TopicRouter) Register(handler usecase.TopicHandler) {
	r.handlers = append(r.handlers, handler)
	r.logger.Debug("Registered topic handler", "handler", handlerName(handler))
}

// GetHandler returns the appropriate handler for a given query
func (r *TopicRouter) GetHandler(query string) usecase.TopicHandler {
	for _, handler := range r.handlers {
		if handler.CanHandle(query) {
			return handler
		}
	}
	return nil
}

func handlerName(h usecase.TopicHandler) string {
	if named, ok := h.(interface{ Name() string }); ok {
		return named.Name()
	}
	return fmt.Sprintf("%T", h)
}
