package usecase

import (
	"errors"
	"strings"
	"testing"

	"flightassist-service/internal/domain/entity"
	"flightassist-service/templates"
)

type listRouter struct {
	handlers []TopicHandler
}

func (r *listRouter) Register(h TopicHandler) { r.handlers = append(r.handlers, h) }

func (r *listRouter) GetHandler(query string) TopicHandler {
	for _, h := range r.handlers {
		if h.CanHandle(query) {
			return h
		}
	}
	return nil
}

func newTopicClassifier() *QueryClassifier {
	r := &listRouter{}
	for _, h := range templates.GeneralTopics() {
		r.Register(h)
	}
	return NewQueryClassifier(r)
}

func TestQueryScores_FlightRelated(t *testing.T) {
	c := NewQueryClassifier(nil)
	tests := []struct {
		query string
		want  bool
	}{
		{"book a flight", true},
		{"delhi to mumbai", true},
		{"goa tomorrow", true},
		{"mumbai", false},
		{"tell me a joke", false},
		{"what is the weather like", false},
	}
	for _, tt := range tests {
		if got := c.Score(tt.query).FlightRelated(); got != tt.want {
			t.Errorf("%q: FlightRelated = %v, want %v (scores %+v)", tt.query, got, tt.want, c.Score(tt.query))
		}
	}
}

func TestQueryClassifier_GeneralReply(t *testing.T) {
	c := newTopicClassifier()

	if r := c.GeneralReply("flights from chennai to goa"); r != nil {
		t.Fatalf("flight query got general reply %+v", r)
	}

	tests := []struct {
		query  string
		prefix string
	}{
		{"what's the weather in paris", "I can't check weather"},
		{"tell me a joke", "I'm not a comedian"},
		{"best recipe for biryani", "I can't help with cooking"},
		{"capital of france", "I can't answer geography"},
		{"hello how are you", templates.DefaultGeneralReply},
	}
	for _, tt := range tests {
		r := c.GeneralReply(tt.query)
		if r == nil {
			t.Errorf("%q: expected general reply", tt.query)
			continue
		}
		if !strings.HasPrefix(r.Message, tt.prefix) {
			t.Errorf("%q: message = %q", tt.query, r.Message)
		}
		if len(r.Suggestions) != 3 {
			t.Errorf("%q: suggestions = %v", tt.query, r.Suggestions)
		}
		if !errors.Is(r, entity.ErrGeneralQuery) {
			t.Errorf("%q: reply does not wrap ErrGeneralQuery", tt.query)
		}
	}
}
