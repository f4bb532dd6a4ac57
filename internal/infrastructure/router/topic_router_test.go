package router

import (
	"testing"

	"flightassist-service/pkg/logger"
	"flightassist-service/templates"
)

func TestTopicRouter_FirstMatchWins(t *testing.T) {
	r := NewTopicRouter(logger.NewNopLogger())
	for _, h := range templates.GeneralTopics() {
		r.Register(h)
	}

	h := r.GetHandler("is it sunny? tell me a joke")
	if h == nil {
		t.Fatal("expected a handler")
	}
	if got := h.Reply(""); got != templates.GeneralTopics()[0].Reply("") {
		t.Errorf("reply = %q, want weather reply", got)
	}
	if r.GetHandler("hello there") != nil {
		t.Error("expected no handler")
	}
}
