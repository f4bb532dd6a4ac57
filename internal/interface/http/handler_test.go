package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"flightassist-service/internal/domain/entity"
	"flightassist-service/internal/infrastructure/config"
	httpapi "flightassist-service/internal/interface/http"
	"flightassist-service/pkg/logger"
	"flightassist-service/pkg/metrics"
	"flightassist-service/templates"
)

// stubService is a test double for httpapi.SearchService.
type stubService struct {
	result     *entity.SearchResult
	err        error
	sc         *entity.SearchContext
	stats      *entity.QueryStats
	cleared    int64
	lastUser   int64
	lastQuery  string
	lastParams entity.CanonicalParameters
	calls      int
}

func (s *stubService) Search(_ context.Context, query string, userID int64) (*entity.SearchResult, error) {
	s.calls++
	s.lastQuery, s.lastUser = query, userID
	return s.result, s.err
}

func (s *stubService) SearchDirect(_ context.Context, params entity.CanonicalParameters) (*entity.SearchResult, error) {
	s.calls++
	s.lastParams = params
	return s.result, s.err
}

func (s *stubService) GetContext(_ context.Context, userID int64) (*entity.SearchContext, error) {
	s.calls++
	s.lastUser = userID
	if s.sc == nil {
		return nil, entity.ErrContextNotFound
	}
	return s.sc, nil
}

func (s *stubService) ResetContext(_ context.Context, userID int64) (int64, error) {
	s.calls++
	s.lastUser = userID
	return s.cleared, s.err
}

func (s *stubService) AirlineStats(_ context.Context) (*entity.QueryStats, error) {
	s.calls++
	return s.stats, s.err
}

func buildTestServer(svc *stubService, gatherer prometheus.Gatherer) http.Handler {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Port:       "0",
		AuthTokens: map[string]int64{"secret-7": 7},
	}
	h := httpapi.NewHandler(svc, "test", logger.NewNopLogger())
	return httpapi.NewServer(cfg, h, gatherer, logger.NewNopLogger()).Handler()
}

func doRequest(r http.Handler, method, path string, body interface{}, authHeader string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func successResult() *entity.SearchResult {
	return &entity.SearchResult{
		Status:     entity.ResultStatusSuccess,
		Message:    "Found 1 flights",
		Flights:    []entity.NormalizedOffer{},
		SearchInfo: &entity.CanonicalParameters{Origin: "DEL", Destination: "BOM"},
	}
}

func TestSearch_AuthenticatedCaller(t *testing.T) {
	svc := &stubService{result: successResult()}
	r := buildTestServer(svc, nil)

	w := doRequest(r, http.MethodPost, "/api/v1/search", map[string]string{"query": "delhi to mumbai tomorrow"}, "Bearer secret-7")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if svc.lastUser != 7 || svc.lastQuery != "delhi to mumbai tomorrow" {
		t.Errorf("service got user %d query %q", svc.lastUser, svc.lastQuery)
	}
	if got := decode(t, w)["status"]; got != entity.ResultStatusSuccess {
		t.Errorf("status = %v", got)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected a request id header")
	}
}

func TestSearch_GuestWithoutToken(t *testing.T) {
	svc := &stubService{result: successResult()}
	r := buildTestServer(svc, nil)

	w := doRequest(r, http.MethodPost, "/api/v1/search", map[string]string{"query": "goa"}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if svc.lastUser != entity.GuestUserID {
		t.Errorf("user = %d, want guest", svc.lastUser)
	}
}

func TestAuth_Rejected(t *testing.T) {
	for _, header := range []string{"Bearer wrong", "Token secret-7"} {
		svc := &stubService{result: successResult()}
		r := buildTestServer(svc, nil)

		w := doRequest(r, http.MethodPost, "/api/v1/search", map[string]string{"query": "goa"}, header)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%q: expected 401, got %d", header, w.Code)
		}
		if svc.calls != 0 {
			t.Errorf("%q: service should not be called", header)
		}
	}
}

func TestSearch_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantType string
		wantMsg  string
	}{
		{
			name:     "general query",
			err:      &entity.GeneralQueryError{Message: "Hello!", Suggestions: []string{"Flights from Delhi to Mumbai"}},
			wantCode: http.StatusBadRequest,
			wantType: "general_query",
			wantMsg:  "Hello!",
		},
		{
			name:     "missing location",
			err:      entity.ErrMissingLocation,
			wantCode: http.StatusBadRequest,
			wantType: "missing_location",
			wantMsg:  templates.MissingLocationMessage,
		},
		{
			name:     "invalid request",
			err:      fmt.Errorf("%w: empty query", entity.ErrInvalidRequest),
			wantCode: http.StatusBadRequest,
			wantType: "invalid_request",
		},
		{
			name:     "unexpected",
			err:      errors.New("database is down"),
			wantCode: http.StatusInternalServerError,
			wantType: "internal",
			wantMsg:  "internal error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := buildTestServer(&stubService{err: tt.err}, nil)
			w := doRequest(r, http.MethodPost, "/api/v1/search", map[string]string{"query": "hi"}, "")
			if w.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, w.Code)
			}
			body := decode(t, w)
			if body["type"] != tt.wantType {
				t.Errorf("type = %v, want %s", body["type"], tt.wantType)
			}
			if tt.wantMsg != "" && body["error"] != tt.wantMsg {
				t.Errorf("error = %v, want %s", body["error"], tt.wantMsg)
			}
		})
	}
}

func TestSearch_GeneralQuerySuggestions(t *testing.T) {
	svc := &stubService{err: &entity.GeneralQueryError{Message: "Hi", Suggestions: []string{"a", "b"}}}
	r := buildTestServer(svc, nil)

	w := doRequest(r, http.MethodPost, "/api/v1/search", map[string]string{"query": "hello"}, "")
	suggestions, ok := decode(t, w)["suggestions"].([]interface{})
	if !ok || len(suggestions) != 2 {
		t.Errorf("suggestions = %v", decode(t, w)["suggestions"])
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	svc := &stubService{result: successResult()}
	r := buildTestServer(svc, nil)

	for _, body := range []interface{}{map[string]string{"query": "   "}, map[string]string{}, nil} {
		w := doRequest(r, http.MethodPost, "/api/v1/search", body, "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %v: expected 400, got %d", body, w.Code)
		}
	}
	if svc.calls != 0 {
		t.Error("service should not be called for an empty query")
	}
}

func TestSearchDirect(t *testing.T) {
	svc := &stubService{result: successResult()}
	r := buildTestServer(svc, nil)

	w := doRequest(r, http.MethodPost, "/api/v1/search-direct", map[string]interface{}{
		"origin":         "del",
		"destination":    "BOM",
		"departure_date": "2025-07-05",
		"passengers":     2,
		"cabin_class":    "business",
		"filters":        map[string]interface{}{"direct_only": true},
	}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	p := svc.lastParams
	if p.Origin != "del" || p.Passengers != 2 || p.CabinClass != "business" || !p.Filters.DirectOnly {
		t.Errorf("params = %+v", p)
	}
}

func TestSearchDirect_Validation(t *testing.T) {
	svc := &stubService{result: successResult()}
	r := buildTestServer(svc, nil)

	w := doRequest(r, http.MethodPost, "/api/v1/search-direct", map[string]string{"origin": "DEL"}, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing fields: expected 400, got %d", w.Code)
	}
	if svc.calls != 0 {
		t.Error("service should not be called when binding fails")
	}

	svc.err = fmt.Errorf("%w: %q", entity.ErrInvalidDate, "tomorrow")
	w = doRequest(r, http.MethodPost, "/api/v1/search-direct", map[string]string{
		"origin": "DEL", "destination": "BOM", "departure_date": "tomorrow",
	}, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid date: expected 400, got %d", w.Code)
	}
}

func TestContextEndpoints(t *testing.T) {
	svc := &stubService{cleared: 3}
	r := buildTestServer(svc, nil)

	w := doRequest(r, http.MethodGet, "/api/v1/context", nil, "Bearer secret-7")
	if w.Code != http.StatusNotFound {
		t.Errorf("no context: expected 404, got %d", w.Code)
	}

	svc.sc = &entity.SearchContext{ID: "ctx-1", UserID: 7, Origin: "DEL", Destination: "BOM"}
	w = doRequest(r, http.MethodGet, "/api/v1/context", nil, "Bearer secret-7")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	sc, _ := decode(t, w)["context"].(map[string]interface{})
	if sc["id"] != "ctx-1" || sc["origin"] != "DEL" {
		t.Errorf("context = %v", sc)
	}

	w = doRequest(r, http.MethodPost, "/api/v1/context/reset", nil, "Bearer secret-7")
	if w.Code != http.StatusOK {
		t.Fatalf("reset: expected 200, got %d", w.Code)
	}
	if got := decode(t, w)["cleared"]; got != float64(3) {
		t.Errorf("cleared = %v", got)
	}
	if svc.lastUser != 7 {
		t.Errorf("reset user = %d", svc.lastUser)
	}
}

func TestAirlineStats(t *testing.T) {
	svc := &stubService{stats: &entity.QueryStats{}}
	r := buildTestServer(svc, nil)
	if w := doRequest(r, http.MethodGet, "/api/v1/airlines/stats", nil, ""); w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	svc.err = errors.New("mongo unavailable")
	if w := doRequest(r, http.MethodGet, "/api/v1/airlines/stats", nil, ""); w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics("flightassist", reg)
	m.FallbackExtractions.Inc()
	r := buildTestServer(&stubService{}, reg)

	w := doRequest(r, http.MethodGet, "/health", nil, "Bearer wrong")
	if w.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", w.Code)
	}
	if decode(t, w)["version"] != "test" {
		t.Errorf("health body = %s", w.Body.String())
	}

	w = doRequest(r, http.MethodGet, "/metrics", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("metrics: expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "flightassist_fallback_extractions_total") {
		t.Errorf("metrics body missing fallback counter")
	}
}
